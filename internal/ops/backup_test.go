package ops

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBackupRestoreRoundTrip(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "tasks_v1.json"), `[{"id":"a","title":"one"}]`)
	writeFile(t, filepath.Join(src, "user_profile_v1.json"), `{"id":"local","level":1}`)
	if err := os.MkdirAll(filepath.Join(src, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(src, "nested", "note.txt"), "hello")

	archive := filepath.Join(t.TempDir(), "backups", "snap.tar.gz")
	if err := BackupDataDir(src, archive); err != nil {
		t.Fatalf("BackupDataDir: %v", err)
	}

	dst := t.TempDir()
	if err := RestoreDataDir(archive, dst); err != nil {
		t.Fatalf("RestoreDataDir: %v", err)
	}

	for rel, want := range map[string]string{
		"tasks_v1.json":        `[{"id":"a","title":"one"}]`,
		"user_profile_v1.json": `{"id":"local","level":1}`,
		"nested/note.txt":      "hello",
	} {
		got, err := os.ReadFile(filepath.Join(dst, filepath.FromSlash(rel)))
		if err != nil {
			t.Fatalf("read %s: %v", rel, err)
		}
		if string(got) != want {
			t.Errorf("%s = %q, want %q", rel, got, want)
		}
	}
}

func TestBackup_SourceMustBeDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.txt")
	writeFile(t, file, "x")

	err := BackupDataDir(file, filepath.Join(t.TempDir(), "out.tar.gz"))
	if err == nil {
		t.Fatal("expected error for non-directory source")
	}
}

func TestSanitizeArchiveRelPath(t *testing.T) {
	if _, err := sanitizeArchiveRelPath("../escape.txt"); err == nil {
		t.Error("accepted path escaping the target dir")
	}
	if _, err := sanitizeArchiveRelPath("/etc/passwd"); err == nil {
		t.Error("accepted absolute path")
	}
	got, err := sanitizeArchiveRelPath("sub/dir/file.json")
	if err != nil {
		t.Fatalf("sanitizeArchiveRelPath: %v", err)
	}
	if got != filepath.FromSlash("sub/dir/file.json") {
		t.Errorf("got %q", got)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

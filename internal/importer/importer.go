// Package importer converges the local task collection with an external
// JSON snapshot, by merge (upsert) or replace (destructive overwrite).
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"questlog/internal/model"
	"questlog/internal/task"
	"questlog/internal/telemetry"
)

type Strategy string

const (
	StrategyMerge   Strategy = "merge"
	StrategyReplace Strategy = "replace"
)

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyMerge:
		return StrategyMerge, nil
	case StrategyReplace:
		return StrategyReplace, nil
	}
	return "", &ValidationError{Reason: fmt.Sprintf("unknown strategy %q", s)}
}

// ValidationError rejects a payload before any mutation happens.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "import: invalid payload: " + e.Reason
}

// PartialError reports a batch that failed partway. Applied records
// stay applied; there is no rollback. A failed replace in particular
// can leave the collection empty or partially repopulated.
type PartialError struct {
	Strategy Strategy
	Applied  int
	Err      error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("import: %s failed after %d records: %v", e.Strategy, e.Applied, e.Err)
}

func (e *PartialError) Unwrap() error { return e.Err }

// Outcome summarizes a successful reconciliation.
type Outcome struct {
	Strategy Strategy `json:"strategy"`
	Added    int      `json:"added"`
	Updated  int      `json:"updated"`
	Removed  int      `json:"removed"`
	Skipped  int      `json:"skipped"`
	Warnings []string `json:"warnings,omitempty"`
}

// ParseTasks validates a raw snapshot: the top level must be a JSON
// array of task-shaped objects. Records without an id are dropped and
// counted, not errors.
func ParseTasks(raw []byte) (tasks []model.Task, skipped int, err error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, 0, &ValidationError{Reason: "expected a JSON array of tasks"}
	}

	out := make([]model.Task, 0, len(elements))
	for _, el := range elements {
		var rec model.Task
		if err := json.Unmarshal(el, &rec); err != nil {
			skipped++
			continue
		}
		if strings.TrimSpace(string(rec.ID)) == "" {
			skipped++
			continue
		}
		out = append(out, rec)
	}
	return out, skipped, nil
}

// Reconciler drives the task store's primitives per imported record.
// It never re-runs reward computation: imported completions change no
// XP, streak, or badges.
type Reconciler struct {
	tasks  *task.Store
	events telemetry.Recorder
}

func NewReconciler(tasks *task.Store, events telemetry.Recorder) *Reconciler {
	return &Reconciler{tasks: tasks, events: events}
}

// Run validates raw and applies it with the given strategy. Validation
// failures happen before any mutation, so a rejected import has zero
// side effects.
func (r *Reconciler) Run(ctx context.Context, raw []byte, strategy Strategy) (Outcome, error) {
	records, skipped, err := ParseTasks(raw)
	if err != nil {
		return Outcome{}, err
	}

	switch strategy {
	case StrategyMerge:
		return r.merge(ctx, records, skipped)
	case StrategyReplace:
		return r.replace(ctx, records, skipped)
	}
	return Outcome{}, &ValidationError{Reason: fmt.Sprintf("unknown strategy %q", strategy)}
}

// merge upserts each record in input order. Duplicate ids within the
// input resolve last-wins. No deletions.
func (r *Reconciler) merge(ctx context.Context, records []model.Task, skipped int) (Outcome, error) {
	out := Outcome{Strategy: StrategyMerge, Skipped: skipped}

	existing, err := r.tasks.GetAll(ctx)
	if err != nil {
		return out, &PartialError{Strategy: StrategyMerge, Err: err}
	}
	known := make(map[model.TaskID]bool, len(existing))
	for _, t := range existing {
		known[t.ID] = true
	}

	applied := 0
	for _, rec := range records {
		res, err := r.tasks.Import(ctx, rec)
		if err != nil {
			return out, &PartialError{Strategy: StrategyMerge, Applied: applied, Err: err}
		}
		if known[rec.ID] {
			out.Updated++
		} else {
			out.Added++
			known[rec.ID] = true
		}
		out.Warnings = append(out.Warnings, res.Warnings...)
		applied++
	}

	r.record(telemetry.EventImportMerged, out)
	return out, nil
}

// replace removes every stored task (cancelling outstanding reminders)
// and then adds every imported record. The two phases are not one
// storage transaction: a mid-operation failure surfaces as a
// PartialError and leaves whatever had been applied.
func (r *Reconciler) replace(ctx context.Context, records []model.Task, skipped int) (Outcome, error) {
	out := Outcome{Strategy: StrategyReplace, Skipped: skipped}

	existing, err := r.tasks.GetAll(ctx)
	if err != nil {
		return out, &PartialError{Strategy: StrategyReplace, Err: err}
	}

	applied := 0
	for _, t := range existing {
		res, err := r.tasks.Remove(ctx, t.ID)
		if err != nil {
			return out, &PartialError{Strategy: StrategyReplace, Applied: applied, Err: err}
		}
		out.Removed++
		out.Warnings = append(out.Warnings, res.Warnings...)
		applied++
	}

	for _, rec := range records {
		res, err := r.tasks.Import(ctx, rec)
		if err != nil {
			return out, &PartialError{Strategy: StrategyReplace, Applied: applied, Err: err}
		}
		out.Added++
		out.Warnings = append(out.Warnings, res.Warnings...)
		applied++
	}

	r.record(telemetry.EventImportReplaced, out)
	return out, nil
}

func (r *Reconciler) record(t telemetry.EventType, out Outcome) {
	if r.events == nil {
		return
	}
	_ = r.events.RecordEvent(t, telemetry.EventMetadata{
		"added":   out.Added,
		"updated": out.Updated,
		"removed": out.Removed,
		"skipped": out.Skipped,
	})
}

// Export serializes the full current collection as pretty-printed JSON.
func (r *Reconciler) Export(ctx context.Context) ([]byte, error) {
	tasks, err := r.tasks.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(tasks, "", "  ")
}

// ExportFilename builds the snapshot filename for now:
// tasks-export-<ISO8601 with ':' and '.' replaced by '-'>.json
func ExportFilename(now time.Time) string {
	stamp := now.UTC().Format("2006-01-02T15:04:05.000Z")
	stamp = strings.NewReplacer(":", "-", ".", "-").Replace(stamp)
	return "tasks-export-" + stamp + ".json"
}

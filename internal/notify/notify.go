// Package notify talks to the external notification delivery subsystem.
// Delivery, permissions, and presentation live outside this process; the
// engine only ever holds the opaque handle a schedule request returns.
package notify

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"
	"time"
)

// Request asks the delivery subsystem for one reminder.
type Request struct {
	FireAt time.Time
	Title  string
	Body   string

	// TaskID travels as the opaque payload so a tapped notification can
	// be resolved back to its task.
	TaskID string
}

type Notifier interface {
	// Schedule registers a one-shot notification and returns its handle.
	Schedule(ctx context.Context, req Request) (string, error)

	// Cancel revokes an outstanding notification by handle.
	Cancel(ctx context.Context, handle string) error
}

// LogNotifier is the default local notifier: it has no delivery channel,
// so it just logs what would fire and hands back a handle.
type LogNotifier struct {
	Logger *log.Logger
}

func (n *LogNotifier) logger() *log.Logger {
	if n.Logger != nil {
		return n.Logger
	}
	return log.Default()
}

func (n *LogNotifier) Schedule(ctx context.Context, req Request) (string, error) {
	_ = ctx

	handle := newHandle()
	n.logger().Printf("notify: scheduled %s at %s (task %s)", handle, req.FireAt.Format(time.RFC3339), req.TaskID)
	return handle, nil
}

func (n *LogNotifier) Cancel(ctx context.Context, handle string) error {
	_ = ctx

	n.logger().Printf("notify: cancelled %s", handle)
	return nil
}

func newHandle() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return "ntf_" + hex.EncodeToString(b[:])
}

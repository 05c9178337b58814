package notify

import (
	"context"
	"log"
	"time"

	"questlog/internal/clock"
	"questlog/internal/model"
)

const (
	// DefaultOffsetMinutes is how long before the due date a reminder
	// fires when no offset is configured.
	DefaultOffsetMinutes = 60

	// maxLead is how far out a reminder will be scheduled eagerly.
	maxLead = 7 * 24 * time.Hour

	// minDelay keeps the fire time from landing in the past or firing
	// effectively immediately.
	minDelay = 10 * time.Second
)

// Planner decides whether and when a reminder should fire for a task,
// and drives the Notifier. Scheduling and cancellation are best-effort:
// a failing notifier never fails the caller's primary operation.
type Planner struct {
	notifier Notifier
	clk      clock.Clock
	logger   *log.Logger
}

func NewPlanner(n Notifier, clk clock.Clock, logger *log.Logger) *Planner {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Planner{notifier: n, clk: clk, logger: logger}
}

// Schedule computes the reminder for t and registers it. It returns the
// notification handle, or nil when no reminder applies or the notifier
// call failed. offsetMinutes nil falls back to DefaultOffsetMinutes; an
// explicit zero is honored and fires at the due time.
func (p *Planner) Schedule(ctx context.Context, t model.Task, offsetMinutes *int) *string {
	if t.DueDate == nil || t.Completed {
		return nil
	}

	now := p.clk.Now()
	diff := t.DueDate.Sub(now)
	if diff <= 0 || diff > maxLead {
		return nil
	}

	offset := DefaultOffsetMinutes
	if offsetMinutes != nil {
		offset = *offsetMinutes
	}

	fireAt := t.DueDate.Add(-time.Duration(offset) * time.Minute)
	if floor := now.Add(minDelay); fireAt.Before(floor) {
		fireAt = floor
	}

	handle, err := p.notifier.Schedule(ctx, Request{
		FireAt: fireAt,
		Title:  "Task due soon",
		Body:   "Don't forget: " + t.Title,
		TaskID: string(t.ID),
	})
	if err != nil {
		p.logger.Printf("notify: schedule for task %s failed: %v", t.ID, err)
		return nil
	}
	return &handle
}

// Cancel revokes the reminder behind handle. A nil handle is a no-op.
// It reports whether cancellation succeeded; failures are logged and
// left to the caller to surface as a warning.
func (p *Planner) Cancel(ctx context.Context, handle *string) bool {
	if handle == nil || *handle == "" {
		return true
	}
	if err := p.notifier.Cancel(ctx, *handle); err != nil {
		p.logger.Printf("notify: cancel %s failed: %v", *handle, err)
		return false
	}
	return true
}

// Package task owns the task collection and binds every mutation to
// reminder scheduling and, on completion transitions, to the reward
// pipeline.
package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"questlog/internal/clock"
	"questlog/internal/model"
	"questlog/internal/notify"
	"questlog/internal/profile"
	"questlog/internal/rewards"
	"questlog/internal/storage"
	"questlog/internal/telemetry"
)

// StorageKey holds the serialized task collection, most-recent-first.
const StorageKey = "tasks_v1"

var ErrNotFound = errors.New("task not found")

// Result is the outcome of a primary mutation. Warnings carry
// best-effort reminder failures that never fail the mutation itself;
// Rewards is non-nil only when this mutation completed the task.
type Result struct {
	Task     model.Task       `json:"task"`
	Rewards  *rewards.Summary `json:"rewards,omitempty"`
	Warnings []string         `json:"warnings,omitempty"`
}

type Options struct {
	Storage  storage.Store
	Profiles *profile.Store
	Planner  *notify.Planner
	Events   telemetry.Recorder
	Clock    clock.Clock
	Logger   *log.Logger

	// ReminderOffsetMinutes overrides how long before the due date
	// reminders fire. nil keeps the planner default.
	ReminderOffsetMinutes *int
}

// Store is the task collection. Every operation is a full
// read-modify-write of the collection; a single mutex serializes those
// spans so concurrent callers cannot lose updates.
type Store struct {
	mu sync.Mutex

	kv       storage.Store
	profiles *profile.Store
	planner  *notify.Planner
	events   telemetry.Recorder
	clk      clock.Clock
	logger   *log.Logger
	offset   *int
}

func NewStore(opts Options) *Store {
	clk := opts.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Store{
		kv:       opts.Storage,
		profiles: opts.Profiles,
		planner:  opts.Planner,
		events:   opts.Events,
		clk:      clk,
		logger:   logger,
		offset:   opts.ReminderOffsetMinutes,
	}
}

func (s *Store) loadLocked(ctx context.Context) ([]model.Task, error) {
	raw, ok, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []model.Task{}, nil
	}
	var tasks []model.Task
	if err := json.Unmarshal(raw, &tasks); err != nil {
		// Corrupt collection reads as empty; the next write replaces it.
		s.logger.Printf("task: corrupt collection, treating as empty: %v", err)
		return []model.Task{}, nil
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

// saveLocked persists the collection and returns the previous stored
// blob so callers can roll the write back.
func (s *Store) saveLocked(ctx context.Context, tasks []model.Task) ([]byte, error) {
	b, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("task: encode collection: %w", err)
	}
	prev, err := s.kv.Set(ctx, StorageKey, b)
	if err != nil {
		return nil, err
	}
	return prev, nil
}

func (s *Store) record(t telemetry.EventType, meta telemetry.EventMetadata) {
	if s.events == nil {
		return
	}
	_ = s.events.RecordEvent(t, meta)
}

func indexOf(tasks []model.Task, id model.TaskID) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// GetAll returns the stored collection, most-recent-first. An absent
// collection is empty, not an error.
func (s *Store) GetAll(ctx context.Context) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadLocked(ctx)
}

// Add stamps identity, computes the task's reminder, and prepends it to
// the collection.
func (s *Store) Add(ctx context.Context, t model.Task) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.loadLocked(ctx)
	if err != nil {
		return Result{}, err
	}

	if t.ID == "" {
		t.ID = model.TaskID(uuid.NewString())
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.clk.Now()
	}

	t.NotificationID = s.planner.Schedule(ctx, t, s.offset)

	tasks = append([]model.Task{t}, tasks...)
	if _, err := s.saveLocked(ctx, tasks); err != nil {
		// The collection is unchanged on disk; the reminder we just
		// scheduled is now orphaned, so try to take it back.
		s.planner.Cancel(ctx, t.NotificationID)
		return Result{}, err
	}

	s.record(telemetry.EventTaskCreated, telemetry.EventMetadata{"task_id": string(t.ID)})
	if t.NotificationID != nil {
		s.record(telemetry.EventReminderScheduled, telemetry.EventMetadata{"task_id": string(t.ID)})
	}
	return Result{Task: t}, nil
}

// Update replaces the record with the same ID wholesale, re-deriving
// its reminder. If no record matches, the update degrades to an insert.
// A pending->completed transition triggers the reward pipeline before
// the update reports success.
func (s *Store) Update(ctx context.Context, t model.Task) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.putLocked(ctx, t, true)
}

// Import is Update without reward evaluation: reconciled snapshots
// never re-trigger the gamification pipeline, even for records arriving
// completed.
func (s *Store) Import(ctx context.Context, t model.Task) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.putLocked(ctx, t, false)
}

func (s *Store) putLocked(ctx context.Context, t model.Task, runRewards bool) (Result, error) {
	if t.ID == "" {
		return Result{}, fmt.Errorf("task: update requires an id")
	}

	tasks, err := s.loadLocked(ctx)
	if err != nil {
		return Result{}, err
	}

	idx := indexOf(tasks, t.ID)
	completionTransition := false
	var prevHandle *string
	if idx >= 0 {
		prevHandle = tasks[idx].NotificationID
		completionTransition = !tasks[idx].Completed && t.Completed
	}

	if completionTransition && t.CompletedAt == nil {
		now := s.clk.Now()
		t.CompletedAt = &now
	}

	if t.Completed {
		t.NotificationID = nil
	} else {
		t.NotificationID = s.planner.Schedule(ctx, t, s.offset)
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.clk.Now()
	}

	if idx >= 0 {
		tasks[idx] = t
	} else {
		tasks = append([]model.Task{t}, tasks...)
	}

	// The previous reminder stays scheduled until the whole mutation is
	// durable: a failed write must leave the stored record and its
	// outstanding reminder exactly as they were.
	prevRaw, err := s.saveLocked(ctx, tasks)
	if err != nil {
		s.planner.Cancel(ctx, t.NotificationID)
		return Result{}, err
	}

	res := Result{Task: t}

	if completionTransition && runRewards {
		sum, err := s.applyRewards(ctx, t)
		if err != nil {
			// Profile state is the durable record of rewards: the
			// completion is not reported successful without it. Roll the
			// collection back so a retry re-runs the transition instead
			// of no-opping on an already-completed record.
			if err := s.rollbackLocked(ctx, prevRaw); err != nil {
				s.logger.Printf("task: rollback after reward failure for %s: %v", t.ID, err)
			}
			return Result{}, fmt.Errorf("task: apply completion rewards: %w", err)
		}
		res.Rewards = sum
	}

	if prevHandle != nil {
		if !s.planner.Cancel(ctx, prevHandle) {
			res.Warnings = append(res.Warnings, fmt.Sprintf("reminder for task %s could not be cancelled", t.ID))
		}
		s.record(telemetry.EventReminderCancelled, telemetry.EventMetadata{"task_id": string(t.ID)})
	}

	if t.NotificationID != nil {
		s.record(telemetry.EventReminderScheduled, telemetry.EventMetadata{"task_id": string(t.ID)})
	}
	s.record(telemetry.EventTaskUpdated, telemetry.EventMetadata{"task_id": string(t.ID)})
	return res, nil
}

// rollbackLocked restores the collection to the blob saveLocked
// returned. A nil blob means the key was absent before the write.
func (s *Store) rollbackLocked(ctx context.Context, prevRaw []byte) error {
	if prevRaw == nil {
		return s.kv.Delete(ctx, StorageKey)
	}
	_, err := s.kv.Set(ctx, StorageKey, prevRaw)
	return err
}

func (s *Store) applyRewards(ctx context.Context, t model.Task) (*rewards.Summary, error) {
	p, err := s.profiles.Load(ctx)
	if err != nil {
		return nil, err
	}

	p, sum := rewards.ApplyCompletion(t, p, s.clk.Now())
	if err := s.profiles.Save(ctx, p); err != nil {
		return nil, err
	}

	s.record(telemetry.EventTaskCompleted, telemetry.EventMetadata{
		"task_id": string(t.ID),
		"points":  sum.Points,
		"xp":      sum.XPGain,
	})
	if sum.LeveledUp {
		s.record(telemetry.EventLevelUp, telemetry.EventMetadata{
			"level": sum.Level,
			"coins": sum.Coins,
		})
	}
	for _, b := range sum.NewBadges {
		s.record(telemetry.EventBadgeAwarded, telemetry.EventMetadata{"badge_id": b.ID})
	}
	return &sum, nil
}

// Remove deletes the record, cancelling its outstanding reminder first.
// Cancellation failures are reported as warnings, never as errors.
func (s *Store) Remove(ctx context.Context, id model.TaskID) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.loadLocked(ctx)
	if err != nil {
		return Result{}, err
	}

	idx := indexOf(tasks, id)
	if idx < 0 {
		return Result{}, ErrNotFound
	}

	removed := tasks[idx]
	tasks = append(tasks[:idx], tasks[idx+1:]...)
	if _, err := s.saveLocked(ctx, tasks); err != nil {
		// Record and reminder stay as they were.
		return Result{}, err
	}

	var warnings []string
	if removed.NotificationID != nil {
		if !s.planner.Cancel(ctx, removed.NotificationID) {
			warnings = append(warnings, fmt.Sprintf("reminder for task %s could not be cancelled", id))
		}
		s.record(telemetry.EventReminderCancelled, telemetry.EventMetadata{"task_id": string(id)})
	}

	s.record(telemetry.EventTaskRemoved, telemetry.EventMetadata{"task_id": string(id)})
	return Result{Task: removed, Warnings: warnings}, nil
}

// CompleteByID flips the completion flag of a pending task. It is
// idempotent: completing an already-completed task is a no-op and the
// reward pipeline fires at most once per transition.
func (s *Store) CompleteByID(ctx context.Context, id model.TaskID) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.loadLocked(ctx)
	if err != nil {
		return Result{}, err
	}

	idx := indexOf(tasks, id)
	if idx < 0 {
		return Result{}, ErrNotFound
	}
	cur := tasks[idx]
	if cur.Completed {
		return Result{Task: cur}, nil
	}

	cur.Completed = true
	cur.CompletedAt = nil // stamped by putLocked at transition time
	return s.putLocked(ctx, cur, true)
}

package notify

import (
	"context"
	"fmt"
	"sync"
)

// MemNotifier records schedule/cancel calls in memory (dev/test use).
type MemNotifier struct {
	mu     sync.Mutex
	nextID int

	// ScheduleErr / CancelErr, when set, fail the next calls.
	ScheduleErr error
	CancelErr   error

	scheduled map[string]Request
	cancelled []string
}

func NewMemNotifier() *MemNotifier {
	return &MemNotifier{
		nextID:    1,
		scheduled: map[string]Request{},
	}
}

func (n *MemNotifier) Schedule(ctx context.Context, req Request) (string, error) {
	_ = ctx

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.ScheduleErr != nil {
		return "", n.ScheduleErr
	}
	handle := fmt.Sprintf("ntf_%d", n.nextID)
	n.nextID++
	n.scheduled[handle] = req
	return handle, nil
}

func (n *MemNotifier) Cancel(ctx context.Context, handle string) error {
	_ = ctx

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.CancelErr != nil {
		return n.CancelErr
	}
	delete(n.scheduled, handle)
	n.cancelled = append(n.cancelled, handle)
	return nil
}

// Outstanding returns the requests that are scheduled and not cancelled.
func (n *MemNotifier) Outstanding() map[string]Request {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make(map[string]Request, len(n.scheduled))
	for k, v := range n.scheduled {
		out[k] = v
	}
	return out
}

// Cancelled returns the handles cancelled so far, in order.
func (n *MemNotifier) Cancelled() []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	return append([]string{}, n.cancelled...)
}

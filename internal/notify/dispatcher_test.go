package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"citizenhub/internal/complaint"

	"github.com/stretchr/testify/assert"
)

type recordingSender struct {
	mu        sync.Mutex
	submitted []int64
	resolved  []int64
	block     chan struct{}
	err       error
}

func (s *recordingSender) SendSubmitted(_ context.Context, rec complaint.Record) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitted = append(s.submitted, rec.ID)
	return s.err
}

func (s *recordingSender) SendResolved(_ context.Context, rec complaint.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolved = append(s.resolved, rec.ID)
	return s.err
}

func TestDispatcherDeliversBeforeClose(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(sender, 3, time.Second)

	for i := int64(1); i <= 10; i++ {
		d.ComplaintSubmitted(complaint.Record{ID: i})
	}
	d.ComplaintResolved(complaint.Record{ID: 4})
	d.Close()

	assert.ElementsMatch(t, []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, sender.submitted)
	assert.Equal(t, []int64{4}, sender.resolved)
}

// slowSender takes a while to post new complaints, like a laggy Bot API.
type slowSender struct {
	mu     sync.Mutex
	events []string
}

func (s *slowSender) SendSubmitted(_ context.Context, rec complaint.Record) error {
	time.Sleep(50 * time.Millisecond)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, fmt.Sprintf("submitted:%d", rec.ID))
	return nil
}

func (s *slowSender) SendResolved(_ context.Context, rec complaint.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, fmt.Sprintf("resolved:%d", rec.ID))
	return nil
}

func indexOf(events []string, want string) int {
	for i, e := range events {
		if e == want {
			return i
		}
	}
	return -1
}

func TestDispatcherKeepsPerComplaintOrder(t *testing.T) {
	sender := &slowSender{}
	d := NewDispatcher(sender, 2, time.Second)

	ids := []int64{42, 43, 44, 45}
	for _, id := range ids {
		d.ComplaintSubmitted(complaint.Record{ID: id})
	}
	for _, id := range ids {
		d.ComplaintResolved(complaint.Record{ID: id})
	}
	d.Close()

	assert.Len(t, sender.events, 2*len(ids))
	for _, id := range ids {
		submitted := indexOf(sender.events, fmt.Sprintf("submitted:%d", id))
		resolved := indexOf(sender.events, fmt.Sprintf("resolved:%d", id))
		assert.GreaterOrEqual(t, submitted, 0)
		assert.Greater(t, resolved, submitted, "complaint %d resolved before it was posted: %v", id, sender.events)
	}
}

func TestDispatcherSendErrorsAreSwallowed(t *testing.T) {
	sender := &recordingSender{err: errors.New("telegram down")}
	d := NewDispatcher(sender, 1, time.Second)

	d.ComplaintSubmitted(complaint.Record{ID: 1})
	d.ComplaintSubmitted(complaint.Record{ID: 2})
	d.Close()

	assert.Len(t, sender.submitted, 2)
}

func TestDispatcherDropsWhenQueueFull(t *testing.T) {
	sender := &recordingSender{block: make(chan struct{})}
	d := NewDispatcher(sender, 1, time.Second)

	// one job is held by the blocked worker, the rest fill the buffer
	for i := 0; i < queueSize+20; i++ {
		d.ComplaintSubmitted(complaint.Record{ID: int64(i)})
	}
	close(sender.block)
	d.Close()

	assert.Less(t, len(sender.submitted), queueSize+20)
	assert.GreaterOrEqual(t, len(sender.submitted), queueSize)
}

func TestDispatcherIgnoresEventsAfterClose(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(sender, 1, time.Second)
	d.Close()
	d.Close()

	d.ComplaintSubmitted(complaint.Record{ID: 1})
	assert.Empty(t, sender.submitted)
}

type countingNotifier struct{ submitted, resolved int }

func (c *countingNotifier) ComplaintSubmitted(complaint.Record) { c.submitted++ }
func (c *countingNotifier) ComplaintResolved(complaint.Record)  { c.resolved++ }

func TestMulti(t *testing.T) {
	a, b := &countingNotifier{}, &countingNotifier{}
	m := Multi{a, b}

	m.ComplaintSubmitted(complaint.Record{})
	m.ComplaintResolved(complaint.Record{})
	m.ComplaintResolved(complaint.Record{})

	assert.Equal(t, 1, a.submitted)
	assert.Equal(t, 2, b.resolved)
}

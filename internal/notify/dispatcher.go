// Package notify delivers complaint lifecycle events to external channels
// without blocking the request that caused them.
package notify

import (
	"context"
	"log"
	"sync"
	"time"

	"citizenhub/internal/complaint"
)

// Sender delivers one event. Implementations may block on network I/O.
type Sender interface {
	SendSubmitted(ctx context.Context, rec complaint.Record) error
	SendResolved(ctx context.Context, rec complaint.Record) error
}

type eventKind int

const (
	eventSubmitted eventKind = iota
	eventResolved
)

func (k eventKind) String() string {
	if k == eventResolved {
		return "resolved"
	}
	return "submitted"
}

type job struct {
	kind eventKind
	rec  complaint.Record
}

// queueSize bounds pending events per worker; beyond it events are dropped.
const queueSize = 100

// Dispatcher is a worker pool feeding a Sender.
//
// Architecture:
//   - ComplaintSubmitted/ComplaintResolved enqueue and return immediately
//   - Each worker owns a buffered queue; a complaint always maps to the
//     same worker (ID modulo worker count), so its resolved event is sent
//     after its submitted event
//   - Send errors are logged; a failed notification never fails a complaint
//   - A full queue drops the event with a warning
//
// Shutdown:
//  1. Close stops accepting events
//  2. Workers drain what is queued
//  3. Close returns once every worker exited
type Dispatcher struct {
	sender  Sender
	queues  []chan job
	timeout time.Duration
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher starts workerCount workers sending through sender. Each
// send is bounded by timeout.
func NewDispatcher(sender Sender, workerCount int, timeout time.Duration) *Dispatcher {
	if workerCount < 1 {
		workerCount = 1
	}
	log.Printf("  → Creating notification pool with %d workers...", workerCount)

	d := &Dispatcher{
		sender:  sender,
		queues:  make([]chan job, workerCount),
		timeout: timeout,
	}
	for i := range d.queues {
		d.queues[i] = make(chan job, queueSize)
		d.wg.Add(1)
		go d.work(i+1, d.queues[i])
	}
	return d
}

// ComplaintSubmitted queues a new-complaint notification.
func (d *Dispatcher) ComplaintSubmitted(rec complaint.Record) {
	d.enqueue(job{kind: eventSubmitted, rec: rec})
}

// ComplaintResolved queues a resolution notification.
func (d *Dispatcher) ComplaintResolved(rec complaint.Record) {
	d.enqueue(job{kind: eventResolved, rec: rec})
}

func (d *Dispatcher) enqueue(j job) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		log.Printf("  ⚠️  Notifier closed, dropping %s event for complaint %d", j.kind, j.rec.ID)
		return
	}
	select {
	case d.queueFor(j.rec.ID) <- j:
	default:
		log.Printf("  ⚠️  Notification queue full, dropping %s event for complaint %d", j.kind, j.rec.ID)
	}
}

// Close stops intake and waits for queued events to be sent.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, q := range d.queues {
		close(q)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

// queueFor picks the worker queue that owns a complaint.
func (d *Dispatcher) queueFor(complaintID int64) chan job {
	return d.queues[uint64(complaintID)%uint64(len(d.queues))]
}

func (d *Dispatcher) work(id int, jobs <-chan job) {
	defer d.wg.Done()

	for j := range jobs {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		var err error
		switch j.kind {
		case eventSubmitted:
			err = d.sender.SendSubmitted(ctx, j.rec)
		case eventResolved:
			err = d.sender.SendResolved(ctx, j.rec)
		}
		cancel()

		if err != nil {
			log.Printf("  [Worker #%d] ✗ Failed to send %s notification for %d: %v", id, j.kind, j.rec.ID, err)
		}
	}
}

// Multi fans events out to several notifiers in order.
type Multi []complaint.Notifier

// ComplaintSubmitted forwards to every notifier.
func (m Multi) ComplaintSubmitted(rec complaint.Record) {
	for _, n := range m {
		n.ComplaintSubmitted(rec)
	}
}

// ComplaintResolved forwards to every notifier.
func (m Multi) ComplaintResolved(rec complaint.Record) {
	for _, n := range m {
		n.ComplaintResolved(rec)
	}
}

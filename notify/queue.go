package notify

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

var (
	ErrQueueClosed = errors.New("notify: queue closed")
	ErrQueueFull   = errors.New("notify: queue full")
)

// Queue holds envelopes waiting for delivery. Deferred envelopes stay parked
// until PromoteDue moves them back to the ready list.
type Queue interface {
	Push(ctx context.Context, env Envelope) error
	// Pop blocks until an envelope is ready, ctx is done or the queue is closed.
	Pop(ctx context.Context) (Envelope, error)
	Defer(ctx context.Context, env Envelope, at time.Time) error
	PromoteDue(ctx context.Context, now time.Time) (int, error)
	Len(ctx context.Context) (int, error)
	Close() error
}

type delayed struct {
	env Envelope
	at  time.Time
}

// MemoryQueue is an in-process Queue. Envelopes are lost on restart.
type MemoryQueue struct {
	ready chan Envelope
	done  chan struct{}

	mu      sync.Mutex
	delayed []delayed
	closed  bool
}

var _ Queue = (*MemoryQueue)(nil)

func NewMemoryQueue(size int) *MemoryQueue {
	if size <= 0 {
		size = 1024
	}
	return &MemoryQueue{
		ready: make(chan Envelope, size),
		done:  make(chan struct{}),
	}
}

// Push never blocks. A full ready buffer rejects the envelope with ErrQueueFull.
func (q *MemoryQueue) Push(_ context.Context, env Envelope) error {
	select {
	case <-q.done:
		return ErrQueueClosed
	default:
	}
	select {
	case q.ready <- env:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *MemoryQueue) Pop(ctx context.Context) (Envelope, error) {
	select {
	case env := <-q.ready:
		return env, nil
	case <-q.done:
		return Envelope{}, ErrQueueClosed
	case <-ctx.Done():
		return Envelope{}, ctx.Err()
	}
}

func (q *MemoryQueue) Defer(_ context.Context, env Envelope, at time.Time) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrQueueClosed
	}
	q.delayed = append(q.delayed, delayed{env: env, at: at})
	sort.SliceStable(q.delayed, func(i, j int) bool {
		return q.delayed[i].at.Before(q.delayed[j].at)
	})
	return nil
}

func (q *MemoryQueue) PromoteDue(ctx context.Context, now time.Time) (int, error) {
	q.mu.Lock()
	n := 0
	for n < len(q.delayed) && !q.delayed[n].at.After(now) {
		n++
	}
	due := make([]delayed, n)
	copy(due, q.delayed[:n])
	q.delayed = q.delayed[n:]
	q.mu.Unlock()

	for i, d := range due {
		if err := q.Push(ctx, d.env); err != nil {
			// Put back whatever could not be promoted.
			q.mu.Lock()
			q.delayed = append(append([]delayed{}, due[i:]...), q.delayed...)
			q.mu.Unlock()
			return i, err
		}
	}
	return n, nil
}

func (q *MemoryQueue) Len(context.Context) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.ready) + len(q.delayed), nil
}

func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.done)
	}
	return nil
}

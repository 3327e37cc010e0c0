package core

import (
	"container/heap"
	"time"
)

// Token identifies the state a deferred task was scheduled against.
// Epoch changes on every new round; Generation changes on every board publish.
type Token struct {
	Epoch      uint64
	Generation uint64
}

type task struct {
	at    time.Duration
	seq   uint64
	token Token
	fn    func(Token)
}

type taskQueue []task

func (q taskQueue) Len() int { return len(q) }
func (q taskQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].seq < q[j].seq
}
func (q taskQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *taskQueue) Push(x any)   { *q = append(*q, x.(task)) }
func (q *taskQueue) Pop() any {
	old := *q
	t := old[len(old)-1]
	*q = old[:len(old)-1]
	return t
}

// Scheduler runs deferred callbacks against a caller-driven clock.
// Nothing runs until Advance is called, so all callbacks execute on the
// caller's goroutine between ticks.
type Scheduler struct {
	queue taskQueue
	seq   uint64
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Schedule queues fn to run once the clock reaches at.
// Tasks with equal deadlines run in scheduling order.
func (s *Scheduler) Schedule(at time.Duration, tok Token, fn func(Token)) {
	s.seq++
	heap.Push(&s.queue, task{at: at, seq: s.seq, token: tok, fn: fn})
}

// Advance runs every task due at or before now.
// Tasks scheduled by a running task are picked up if they are already due.
func (s *Scheduler) Advance(now time.Duration) int {
	ran := 0
	for s.queue.Len() > 0 && s.queue[0].at <= now {
		t := heap.Pop(&s.queue).(task)
		t.fn(t.token)
		ran++
	}
	return ran
}

// CancelBefore drops every task scheduled for an epoch older than epoch.
func (s *Scheduler) CancelBefore(epoch uint64) {
	kept := s.queue[:0]
	for _, t := range s.queue {
		if t.token.Epoch >= epoch {
			kept = append(kept, t)
		}
	}
	s.queue = kept
	heap.Init(&s.queue)
}

// Pending returns the number of queued tasks.
func (s *Scheduler) Pending() int {
	return s.queue.Len()
}

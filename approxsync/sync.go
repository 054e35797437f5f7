// Package approxsync pairs up three independently timestamped message
// streams into synchronized triples, the way an approximate-time policy
// does: each emitted triple is the pending combination with the smallest
// total timestamp spread, subject to a slop window. Per-stream queues are
// bounded; the oldest entry is evicted on overflow.
package approxsync

import (
	"sync"
	"time"
)

// DefaultQueueDepth is the per-stream pending-message bound.
const DefaultQueueDepth = 10

// Stamped wraps a payload with its capture time.
type Stamped[T any] struct {
	Stamp time.Time
	Value T
}

// Synchronizer matches three streams with payload types A, B, and C. The
// emit callback runs on the goroutine that pushed the completing message,
// outside the synchronizer's lock.
type Synchronizer[A, B, C any] struct {
	mu    sync.Mutex
	slop  time.Duration
	depth int
	qa    []Stamped[A]
	qb    []Stamped[B]
	qc    []Stamped[C]
	emit  func(Stamped[A], Stamped[B], Stamped[C])
}

// New returns a synchronizer that emits triples whose stamps all lie within
// slop of each other. depth <= 0 selects DefaultQueueDepth.
func New[A, B, C any](slop time.Duration, depth int, emit func(Stamped[A], Stamped[B], Stamped[C])) *Synchronizer[A, B, C] {
	if depth <= 0 {
		depth = DefaultQueueDepth
	}
	return &Synchronizer[A, B, C]{slop: slop, depth: depth, emit: emit}
}

// PushA queues a message on the first stream and attempts a match.
func (s *Synchronizer[A, B, C]) PushA(m Stamped[A]) {
	s.mu.Lock()
	s.qa = enqueue(s.qa, m, s.depth)
	a, b, c, ok := s.tryMatch()
	s.mu.Unlock()
	if ok {
		s.emit(a, b, c)
	}
}

// PushB queues a message on the second stream and attempts a match.
func (s *Synchronizer[A, B, C]) PushB(m Stamped[B]) {
	s.mu.Lock()
	s.qb = enqueue(s.qb, m, s.depth)
	a, b, c, ok := s.tryMatch()
	s.mu.Unlock()
	if ok {
		s.emit(a, b, c)
	}
}

// PushC queues a message on the third stream and attempts a match.
func (s *Synchronizer[A, B, C]) PushC(m Stamped[C]) {
	s.mu.Lock()
	s.qc = enqueue(s.qc, m, s.depth)
	a, b, c, ok := s.tryMatch()
	s.mu.Unlock()
	if ok {
		s.emit(a, b, c)
	}
}

// Pending reports the queue lengths, for diagnostics.
func (s *Synchronizer[A, B, C]) Pending() (int, int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.qa), len(s.qb), len(s.qc)
}

func enqueue[T any](q []Stamped[T], m Stamped[T], depth int) []Stamped[T] {
	q = append(q, m)
	if len(q) > depth {
		q = q[1:]
	}
	return q
}

// tryMatch scans all pending combinations for the one minimizing the stamp
// spread. On a match the chosen entries, and everything older than them,
// are dropped from their queues. Caller holds the lock.
func (s *Synchronizer[A, B, C]) tryMatch() (Stamped[A], Stamped[B], Stamped[C], bool) {
	var bestA, bestB, bestC = -1, -1, -1
	bestSpread := s.slop

	for ia, a := range s.qa {
		for ib, b := range s.qb {
			for ic, c := range s.qc {
				spread := stampSpread(a.Stamp, b.Stamp, c.Stamp)
				if spread <= bestSpread {
					bestSpread = spread
					bestA, bestB, bestC = ia, ib, ic
				}
			}
		}
	}

	if bestA < 0 {
		var za Stamped[A]
		var zb Stamped[B]
		var zc Stamped[C]
		return za, zb, zc, false
	}

	a, b, c := s.qa[bestA], s.qb[bestB], s.qc[bestC]
	s.qa = append([]Stamped[A]{}, s.qa[bestA+1:]...)
	s.qb = append([]Stamped[B]{}, s.qb[bestB+1:]...)
	s.qc = append([]Stamped[C]{}, s.qc[bestC+1:]...)
	return a, b, c, true
}

// stampSpread is the span from the earliest to the latest of three stamps.
func stampSpread(a, b, c time.Time) time.Duration {
	min, max := a, a
	for _, t := range []time.Time{b, c} {
		if t.Before(min) {
			min = t
		}
		if t.After(max) {
			max = t
		}
	}
	return max.Sub(min)
}

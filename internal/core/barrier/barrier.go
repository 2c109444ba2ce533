// Package barrier provides a countdown gate whose count grows while work is discovered.
package barrier

import (
	"sync"
	"sync/atomic"
)

// Barrier runs a callback once every registered unit of work has left.
//
// The count starts at 1 for the producer itself; the producer's own Leave marks
// that no more work will be registered, so the callback cannot fire while new
// work may still arrive.
type Barrier struct {
	pending atomic.Int64
	once    sync.Once
	onZero  func()
}

// New creates a Barrier holding the producer's initial count
func New(onZero func()) *Barrier {
	b := &Barrier{onZero: onZero}
	b.pending.Store(1)
	return b
}

// Enter registers one unit of work; call it before dispatching the work
func (b *Barrier) Enter() {
	b.pending.Add(1)
}

// Leave releases one unit of work; the Leave reaching zero runs the callback synchronously
func (b *Barrier) Leave() {
	n := b.pending.Add(-1)
	if n < 0 {
		panic("barrier: Leave called more often than Enter")
	}
	if n == 0 {
		b.once.Do(b.onZero)
	}
}

// Pending returns the current count
func (b *Barrier) Pending() int64 {
	return b.pending.Load()
}

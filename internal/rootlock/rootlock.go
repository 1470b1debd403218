// Package rootlock serializes conversion jobs per target root. Two jobs
// racing on the same subtree would interleave deletes, renames and output
// writes; the design keeps roots disjoint by refusing the second job
// outright instead of queueing it.
package rootlock

import (
	"fmt"
	"sync"
)

// Locker hands out at most one lock per normalized root path.
type Locker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// New creates an empty locker.
func New() *Locker {
	return &Locker{held: make(map[string]struct{})}
}

// Acquire takes the lock for root, returning a release func. It fails
// immediately when another job already holds the same root; overlap of
// distinct roots is not detected, callers scope jobs to disjoint trees.
func (l *Locker) Acquire(root string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, busy := l.held[root]; busy {
		return nil, fmt.Errorf("conversion already running for root %q", root)
	}
	l.held[root] = struct{}{}

	var once sync.Once
	release := func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			delete(l.held, root)
		})
	}
	return release, nil
}

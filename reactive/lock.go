package reactive

import (
	"sync"
	"sync/atomic"

	"github.com/petermattis/goid"
)

// serialLock is held by one goroutine at a time but can be re-entered by its
// owner, so bodies and listeners may call back into the system.
type serialLock struct {
	mu    sync.Mutex
	owner atomic.Int64
	depth int
}

func (l *serialLock) lock() {
	gid := goid.Get()
	if l.owner.Load() == gid {
		l.depth++
		return
	}
	l.mu.Lock()
	l.owner.Store(gid)
	l.depth = 1
}

func (l *serialLock) unlock() {
	l.depth--
	if l.depth > 0 {
		return
	}
	l.owner.Store(0)
	l.mu.Unlock()
}

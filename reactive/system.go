package reactive

import (
	"errors"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
)

// ErrRecomputeLimit is returned by Flush when a single flush exceeds the
// limit set with WithRecomputeLimit, usually because of a dependency cycle.
var ErrRecomputeLimit = errors.New("recompute limit exceeded")

// OnErrorFunc receives errors from computation bodies and flush listeners.
// from is the failing *Computation, or nil for a listener.
type OnErrorFunc func(from *Computation, err error)

type Option func(*ReactiveSystem)

// WithErrorHandler makes Flush report errors to fn and keep draining instead
// of stopping at the first error.
func WithErrorHandler(fn OnErrorFunc) Option {
	return func(rs *ReactiveSystem) {
		rs.onError = fn
	}
}

// WithRecomputeLimit caps the number of recomputes a single Flush may run.
// Zero means no limit.
func WithRecomputeLimit(n int) Option {
	return func(rs *ReactiveSystem) {
		rs.recomputeLimit = n
	}
}

// ReactiveSystem tracks the currently running computation and owns the
// queues drained by Flush. All methods may be called from any goroutine;
// calls are serialized, and the goroutine inside a call may re-enter. A body
// or listener must not wait on another goroutine that uses the same system.
type ReactiveSystem struct {
	mu serialLock

	// ambient computations, innermost last; nil entries escape tracking
	stack []*Computation

	pending    []*Computation
	pendingSet mapset.Set[*Computation]

	flushListeners     []func() error
	postFlushListeners []func() error
	collectors         listenerList[ChangeListener]

	flushing bool

	onError        OnErrorFunc
	recomputeLimit int
}

func NewReactiveSystem(opts ...Option) *ReactiveSystem {
	rs := &ReactiveSystem{
		pendingSet: mapset.NewThreadUnsafeSet[*Computation](),
	}
	for _, opt := range opts {
		opt(rs)
	}
	return rs
}

// Lock acquires the system lock shared by every router and computation of
// rs. The holding goroutine may lock again; each Lock needs an Unlock.
// Reactive values use it to guard their own state.
func (rs *ReactiveSystem) Lock() {
	rs.mu.lock()
}

func (rs *ReactiveSystem) Unlock() {
	rs.mu.unlock()
}

// CurrentComputation returns the computation that reads are attributed to,
// or nil outside of a tracked run.
func (rs *ReactiveSystem) CurrentComputation() *Computation {
	rs.mu.lock()
	defer rs.mu.unlock()

	if len(rs.stack) == 0 {
		return nil
	}
	return rs.stack[len(rs.stack)-1]
}

// RunWithComputation runs fn with c as the current computation. A nil c runs
// fn without tracking. The previous computation is restored however fn
// returns.
func (rs *ReactiveSystem) RunWithComputation(c *Computation, fn func() error) error {
	rs.mu.lock()
	defer rs.mu.unlock()

	rs.stack = append(rs.stack, c)
	defer func() {
		if n := len(rs.stack); n > 0 {
			rs.stack = rs.stack[:n-1]
		}
	}()
	return fn()
}

// Untrack runs fn without attributing its reads to the current computation.
func (rs *ReactiveSystem) Untrack(fn func() error) error {
	return rs.RunWithComputation(nil, fn)
}

// RunWhenDependenciesChange runs fn once right away and again after every
// flush that follows a change to something fn read.
func (rs *ReactiveSystem) RunWhenDependenciesChange(fn func() error) (*Computation, error) {
	rs.mu.lock()
	defer rs.mu.unlock()

	c := &Computation{
		rs:          rs,
		fn:          fn,
		invalidated: true,
	}
	if err := c.Recompute(); err != nil {
		return c, fmt.Errorf("initial run: %w", err)
	}
	return c, nil
}

func (rs *ReactiveSystem) AddFlushListener(fn func() error) {
	rs.mu.lock()
	defer rs.mu.unlock()
	rs.flushListeners = append(rs.flushListeners, fn)
}

// AddPostFlushListener registers fn to run once after all computations and
// flush listeners of the current or next flush.
func (rs *ReactiveSystem) AddPostFlushListener(fn func() error) {
	rs.mu.lock()
	defer rs.mu.unlock()
	rs.postFlushListeners = append(rs.postFlushListeners, fn)
}

// AddEventCollector registers fn to receive every event fired by any router
// of this system until remove is called.
func (rs *ReactiveSystem) AddEventCollector(fn ChangeListener) (remove func()) {
	rs.mu.lock()
	defer rs.mu.unlock()

	entry := rs.collectors.add(fn)
	return func() {
		rs.mu.lock()
		defer rs.mu.unlock()
		rs.collectors.remove(entry)
	}
}

func (rs *ReactiveSystem) notifyEventCollectors(event Event) {
	for _, fn := range rs.collectors.snapshot() {
		fn(event)
	}
}

func (rs *ReactiveSystem) IsFlushing() bool {
	rs.mu.lock()
	defer rs.mu.unlock()
	return rs.flushing
}

func (rs *ReactiveSystem) HasPendingWork() bool {
	rs.mu.lock()
	defer rs.mu.unlock()
	return rs.hasPendingWork()
}

func (rs *ReactiveSystem) hasPendingWork() bool {
	return len(rs.pending) > 0 || len(rs.flushListeners) > 0 || len(rs.postFlushListeners) > 0
}

func (rs *ReactiveSystem) enqueue(c *Computation) {
	if rs.pendingSet.Contains(c) {
		return
	}
	rs.pendingSet.Add(c)
	rs.pending = append(rs.pending, c)
}

func (rs *ReactiveSystem) requeueFront(c *Computation) {
	rs.pendingSet.Add(c)
	rs.pending = append([]*Computation{c}, rs.pending...)
}

func (rs *ReactiveSystem) report(from *Computation, err error) bool {
	if rs.onError == nil {
		return false
	}
	rs.onError(from, err)
	return true
}

// Flush recomputes every invalidated computation and drains the flush
// listeners until both queues are empty, then drains the post-flush
// listeners. Work queued while draining is handled by the same call. A Flush
// issued while another is running on the system returns immediately.
func (rs *ReactiveSystem) Flush() error {
	rs.mu.lock()
	defer rs.mu.unlock()

	if rs.flushing {
		return nil
	}
	rs.flushing = true
	defer func() {
		rs.flushing = false
	}()

	recomputes := 0
	for rs.hasPendingWork() {
		for len(rs.pending) > 0 || len(rs.flushListeners) > 0 {
			for len(rs.pending) > 0 {
				c := rs.pending[0]
				rs.pending = rs.pending[1:]
				rs.pendingSet.Remove(c)

				if !c.invalidated || c.stopped {
					continue
				}
				if rs.recomputeLimit > 0 && recomputes >= rs.recomputeLimit {
					rs.requeueFront(c)
					return fmt.Errorf("flush after %d recomputes: %w", recomputes, ErrRecomputeLimit)
				}
				recomputes++
				if err := c.Recompute(); err != nil && !rs.report(c, err) {
					return fmt.Errorf("recompute: %w", err)
				}
			}

			for len(rs.flushListeners) > 0 {
				fn := rs.flushListeners[0]
				rs.flushListeners = rs.flushListeners[1:]
				if err := fn(); err != nil && !rs.report(nil, err) {
					return fmt.Errorf("flush listener: %w", err)
				}
			}
		}

		for len(rs.postFlushListeners) > 0 {
			fn := rs.postFlushListeners[0]
			rs.postFlushListeners = rs.postFlushListeners[1:]
			if err := fn(); err != nil && !rs.report(nil, err) {
				return fmt.Errorf("post-flush listener: %w", err)
			}
		}
	}
	return nil
}

// Reset drops all queued work, collectors and tracking state.
func (rs *ReactiveSystem) Reset() {
	rs.mu.lock()
	defer rs.mu.unlock()

	rs.stack = nil
	rs.pending = nil
	rs.pendingSet.Clear()
	rs.flushListeners = nil
	rs.postFlushListeners = nil
	rs.collectors.clear()
}

package reactive

// A Computation is a re-runnable unit of work. While it runs, every value it
// reads becomes a dependency; when any dependency changes the computation is
// invalidated and queued for the next Flush.
type Computation struct {
	rs *ReactiveSystem
	fn func() error

	invalidated bool
	stopped     bool

	// registrations made during the latest run, keyed by the value read
	dependencies map[Value]func()

	invalidateListeners []func(InvalidateEvent)
}

// NewComputation creates a computation that runs fn on the next Flush.
func NewComputation(rs *ReactiveSystem, fn func() error) *Computation {
	rs.mu.lock()
	defer rs.mu.unlock()

	c := &Computation{
		rs:          rs,
		fn:          fn,
		invalidated: true,
	}
	rs.enqueue(c)
	return c
}

func (c *Computation) System() *ReactiveSystem {
	return c.rs
}

func (c *Computation) IsInvalidated() bool {
	c.rs.mu.lock()
	defer c.rs.mu.unlock()
	return c.invalidated
}

func (c *Computation) IsStopped() bool {
	c.rs.mu.lock()
	defer c.rs.mu.unlock()
	return c.stopped
}

// AddDependency invalidates this computation the next time value changes.
// Reading the same value more than once in a run registers a single listener.
func (c *Computation) AddDependency(value Value) {
	c.rs.mu.lock()
	defer c.rs.mu.unlock()

	if c.stopped {
		return
	}
	if _, ok := c.dependencies[value]; ok {
		return
	}
	if c.dependencies == nil {
		c.dependencies = map[Value]func(){}
	}
	c.dependencies[value] = value.AddReactiveListener(func(Event) {
		c.Invalidate()
	})
}

// Invalidate marks the computation dirty, releases its dependencies and
// queues it for recompute. Repeated calls before the next recompute are
// no-ops.
func (c *Computation) Invalidate() {
	c.rs.mu.lock()
	defer c.rs.mu.unlock()

	if c.invalidated {
		return
	}
	c.invalidated = true
	c.clearDependencies()
	if !c.stopped {
		c.rs.enqueue(c)
	}
	c.fireInvalidateListeners()
}

// Recompute runs the computation if it is invalidated and not stopped. The
// dependencies read during this run replace the previous ones.
func (c *Computation) Recompute() error {
	c.rs.mu.lock()
	defer c.rs.mu.unlock()

	if !c.invalidated || c.stopped {
		return nil
	}
	c.invalidated = false
	c.clearDependencies()
	return c.rs.RunWithComputation(c, c.fn)
}

// Stop permanently disables the computation. Any pending invalidate
// listeners fire before Stop returns. Calling Stop again does nothing.
func (c *Computation) Stop() {
	c.rs.mu.lock()
	defer c.rs.mu.unlock()

	if c.stopped {
		return
	}
	c.stopped = true
	if !c.invalidated {
		c.Invalidate()
	}
	c.clearDependencies()
	c.fireInvalidateListeners()
}

// OnNextInvalidate registers a one-shot listener for the next invalidation.
// On a stopped computation the listener runs immediately.
func (c *Computation) OnNextInvalidate(listener func(InvalidateEvent)) {
	c.rs.mu.lock()
	defer c.rs.mu.unlock()

	if c.stopped {
		listener(InvalidateEvent{Computation: c})
		return
	}
	c.invalidateListeners = append(c.invalidateListeners, listener)
}

func (c *Computation) clearDependencies() {
	deps := c.dependencies
	c.dependencies = nil
	for _, remove := range deps {
		remove()
	}
}

func (c *Computation) fireInvalidateListeners() {
	listeners := c.invalidateListeners
	c.invalidateListeners = nil
	for _, listener := range listeners {
		listener(InvalidateEvent{Computation: c})
	}
}

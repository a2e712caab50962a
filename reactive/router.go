package reactive

// EventRouter owns the listeners of one reactive value and dispatches its
// change events. L is the listener type exposed to callers and E the event
// type; wrap adapts a plain ChangeListener to L so computations can depend
// on any router.
type EventRouter[L any, E Event] struct {
	rs        *ReactiveSystem
	source    Value
	wrap      func(ChangeListener) L
	dispatch  func(L, E)
	listeners listenerList[L]
}

func NewEventRouter[L any, E Event](
	rs *ReactiveSystem,
	source Value,
	wrap func(ChangeListener) L,
	dispatch func(L, E),
) *EventRouter[L, E] {
	return &EventRouter[L, E]{
		rs:       rs,
		source:   source,
		wrap:     wrap,
		dispatch: dispatch,
	}
}

// NewChangeRouter creates a router whose listeners receive the plain Event.
func NewChangeRouter(rs *ReactiveSystem, source Value) *EventRouter[ChangeListener, Event] {
	return NewEventRouter(
		rs,
		source,
		func(l ChangeListener) ChangeListener { return l },
		func(l ChangeListener, e Event) { l(e) },
	)
}

func (r *EventRouter[L, E]) System() *ReactiveSystem {
	return r.rs
}

func (r *EventRouter[L, E]) Source() Value {
	return r.source
}

// AddListener registers a listener. Listeners added while an event is being
// dispatched only see later events.
func (r *EventRouter[L, E]) AddListener(listener L) (remove func()) {
	r.rs.mu.lock()
	defer r.rs.mu.unlock()

	entry := r.listeners.add(listener)
	return func() {
		r.rs.mu.lock()
		defer r.rs.mu.unlock()
		r.listeners.remove(entry)
	}
}

func (r *EventRouter[L, E]) AddReactiveListener(listener ChangeListener) (remove func()) {
	return r.AddListener(r.wrap(listener))
}

// FireEvent delivers event to every listener registered when the call began,
// in registration order, and then to the system's event collectors.
func (r *EventRouter[L, E]) FireEvent(event E) {
	r.rs.mu.lock()
	defer r.rs.mu.unlock()

	for _, l := range r.listeners.snapshot() {
		r.dispatch(l, event)
	}
	r.rs.notifyEventCollectors(event)
}

// RegisterRead makes the current computation, if any, depend on this router.
func (r *EventRouter[L, E]) RegisterRead() {
	r.rs.mu.lock()
	defer r.rs.mu.unlock()

	if c := r.rs.CurrentComputation(); c != nil {
		c.AddDependency(r)
	}
}

func (r *EventRouter[L, E]) ListenerCount() int {
	r.rs.mu.lock()
	defer r.rs.mu.unlock()
	return r.listeners.len()
}

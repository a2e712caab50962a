package reactive

// Value is anything that can be read inside a computation and that notifies
// listeners when it changes.
type Value interface {
	AddReactiveListener(listener ChangeListener) (remove func())
}

// Event is fired by an EventRouter when its value changes.
type Event interface {
	Source() Value
}

type ChangeListener func(event Event)

// ChangeEvent is the plain change event, carrying only its source.
type ChangeEvent struct {
	source Value
}

func NewChangeEvent(source Value) ChangeEvent {
	return ChangeEvent{source: source}
}

func (e ChangeEvent) Source() Value {
	return e.source
}

// InvalidateEvent is passed to OnNextInvalidate listeners.
type InvalidateEvent struct {
	Computation *Computation
}

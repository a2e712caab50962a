package statetree

import (
	"fmt"
	"reflect"

	"github.com/delaneyj/flowreactive/reactive"
)

// PropertyChangeEvent is fired when a property gets a new value or loses it.
type PropertyChangeEvent[T comparable] struct {
	property    *Property[T]
	Old, New    T
	HadValue    bool
	HasNewValue bool
}

func (e PropertyChangeEvent[T]) Source() reactive.Value {
	return e.property
}

func (e PropertyChangeEvent[T]) Property() *Property[T] {
	return e.property
}

type PropertyChangeListener[T comparable] func(PropertyChangeEvent[T])

// Property is a named reactive value. Reading it inside a computation makes
// the computation depend on it.
type Property[T comparable] struct {
	rs       *reactive.ReactiveSystem
	name     string
	value    T
	hasValue bool
	router   *reactive.EventRouter[PropertyChangeListener[T], PropertyChangeEvent[T]]
}

func NewProperty[T comparable](rs *reactive.ReactiveSystem, name string) *Property[T] {
	p := &Property[T]{rs: rs, name: name}
	p.router = reactive.NewEventRouter(
		rs,
		reactive.Value(p),
		func(l reactive.ChangeListener) PropertyChangeListener[T] {
			return func(e PropertyChangeEvent[T]) { l(e) }
		},
		func(l PropertyChangeListener[T], e PropertyChangeEvent[T]) { l(e) },
	)
	return p
}

func (p *Property[T]) Name() string {
	return p.name
}

func (p *Property[T]) String() string {
	return fmt.Sprintf("property %q", p.name)
}

// Value returns the current value, or the zero value if there is none.
func (p *Property[T]) Value() T {
	p.rs.Lock()
	defer p.rs.Unlock()

	p.router.RegisterRead()
	return p.value
}

func (p *Property[T]) ValueOrDefault(defaultValue T) T {
	p.rs.Lock()
	defer p.rs.Unlock()

	p.router.RegisterRead()
	if !p.hasValue {
		return defaultValue
	}
	return p.value
}

func (p *Property[T]) HasValue() bool {
	p.rs.Lock()
	defer p.rs.Unlock()

	p.router.RegisterRead()
	return p.hasValue
}

// SetValue stores v and notifies listeners unless v equals the current value.
// Values that cannot be compared, such as slices held in a Property[any],
// always count as a change.
func (p *Property[T]) SetValue(v T) {
	p.rs.Lock()
	defer p.rs.Unlock()

	if p.hasValue && sameValue(p.value, v) {
		return
	}
	e := PropertyChangeEvent[T]{
		property:    p,
		Old:         p.value,
		New:         v,
		HadValue:    p.hasValue,
		HasNewValue: true,
	}
	p.value = v
	p.hasValue = true
	p.router.FireEvent(e)
}

func (p *Property[T]) RemoveValue() {
	p.rs.Lock()
	defer p.rs.Unlock()

	if !p.hasValue {
		return
	}
	var zero T
	e := PropertyChangeEvent[T]{
		property: p,
		Old:      p.value,
		New:      zero,
		HadValue: true,
	}
	p.value = zero
	p.hasValue = false
	p.router.FireEvent(e)
}

func (p *Property[T]) AddChangeListener(l PropertyChangeListener[T]) (remove func()) {
	return p.router.AddListener(l)
}

func (p *Property[T]) AddReactiveListener(l reactive.ChangeListener) (remove func()) {
	return p.router.AddReactiveListener(l)
}

func sameValue[T comparable](a, b T) bool {
	av, bv := reflect.ValueOf(any(a)), reflect.ValueOf(any(b))
	if (av.IsValid() && !av.Comparable()) || (bv.IsValid() && !bv.Comparable()) {
		return false
	}
	return a == b
}

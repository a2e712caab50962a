package statetree

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/delaneyj/flowreactive/reactive"
)

type PropertyAddEvent struct {
	nodeMap  *NodeMap
	Property *Property[any]
}

func (e PropertyAddEvent) Source() reactive.Value {
	return e.nodeMap
}

type PropertyAddListener func(PropertyAddEvent)

// NodeMap is a set of named properties. The map itself is reactive: reading
// which properties exist makes a computation rerun when one is added.
type NodeMap struct {
	rs   *reactive.ReactiveSystem
	name string

	// buckets keyed by xxhash of the property name
	properties map[uint64][]*Property[any]
	order      []*Property[any]

	router *reactive.EventRouter[PropertyAddListener, PropertyAddEvent]
}

func NewNodeMap(rs *reactive.ReactiveSystem, name string) *NodeMap {
	m := &NodeMap{
		rs:         rs,
		name:       name,
		properties: map[uint64][]*Property[any]{},
	}
	m.router = reactive.NewEventRouter(
		rs,
		reactive.Value(m),
		func(l reactive.ChangeListener) PropertyAddListener {
			return func(e PropertyAddEvent) { l(e) }
		},
		func(l PropertyAddListener, e PropertyAddEvent) { l(e) },
	)
	return m
}

func (m *NodeMap) Name() string {
	return m.name
}

func (m *NodeMap) String() string {
	return fmt.Sprintf("map %q", m.name)
}

func (m *NodeMap) lookup(name string) (*Property[any], uint64) {
	key := xxhash.Sum64String(name)
	for _, p := range m.properties[key] {
		if p.name == name {
			return p, key
		}
	}
	return nil, key
}

// Property returns the named property, creating it and notifying property
// add listeners if it does not exist yet.
func (m *NodeMap) Property(name string) *Property[any] {
	m.rs.Lock()
	defer m.rs.Unlock()

	p, key := m.lookup(name)
	if p != nil {
		return p
	}
	p = NewProperty[any](m.rs, name)
	m.properties[key] = append(m.properties[key], p)
	m.order = append(m.order, p)
	m.router.FireEvent(PropertyAddEvent{nodeMap: m, Property: p})
	return p
}

func (m *NodeMap) HasProperty(name string) bool {
	m.rs.Lock()
	defer m.rs.Unlock()

	m.router.RegisterRead()
	p, _ := m.lookup(name)
	return p != nil
}

// HasPropertyWithValue reports whether the named property exists and has a
// value, depending on both the map and the property.
func (m *NodeMap) HasPropertyWithValue(name string) bool {
	m.rs.Lock()
	defer m.rs.Unlock()

	m.router.RegisterRead()
	p, _ := m.lookup(name)
	return p != nil && p.HasValue()
}

func (m *NodeMap) PropertyNames() []string {
	m.rs.Lock()
	defer m.rs.Unlock()

	m.router.RegisterRead()
	names := make([]string, len(m.order))
	for i, p := range m.order {
		names[i] = p.name
	}
	return names
}

// ForEachProperty calls fn for every property in creation order.
func (m *NodeMap) ForEachProperty(fn func(p *Property[any])) {
	m.rs.Lock()
	defer m.rs.Unlock()

	m.router.RegisterRead()
	for _, p := range append([]*Property[any](nil), m.order...) {
		fn(p)
	}
}

func (m *NodeMap) AddPropertyAddListener(l PropertyAddListener) (remove func()) {
	return m.router.AddListener(l)
}

func (m *NodeMap) AddReactiveListener(l reactive.ChangeListener) (remove func()) {
	return m.router.AddReactiveListener(l)
}

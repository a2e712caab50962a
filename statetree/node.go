package statetree

import (
	"fmt"

	"github.com/delaneyj/flowreactive/reactive"
)

type UnregisterEvent struct {
	node *StateNode
}

func (e UnregisterEvent) Source() reactive.Value {
	return e.node
}

func (e UnregisterEvent) Node() *StateNode {
	return e.node
}

type UnregisterListener func(UnregisterEvent)

// StateNode groups the maps and lists that describe one element. Features
// are created on first access.
type StateNode struct {
	rs           *reactive.ReactiveSystem
	id           int
	maps         map[string]*NodeMap
	lists        map[string]*NodeList
	unregistered bool
	router       *reactive.EventRouter[UnregisterListener, UnregisterEvent]
}

func NewStateNode(rs *reactive.ReactiveSystem, id int) *StateNode {
	n := &StateNode{
		rs:    rs,
		id:    id,
		maps:  map[string]*NodeMap{},
		lists: map[string]*NodeList{},
	}
	n.router = reactive.NewEventRouter(
		rs,
		reactive.Value(n),
		func(l reactive.ChangeListener) UnregisterListener {
			return func(e UnregisterEvent) { l(e) }
		},
		func(l UnregisterListener, e UnregisterEvent) { l(e) },
	)
	return n
}

func (n *StateNode) ID() int {
	return n.id
}

func (n *StateNode) String() string {
	return fmt.Sprintf("node %d", n.id)
}

func (n *StateNode) Map(feature string) *NodeMap {
	n.rs.Lock()
	defer n.rs.Unlock()

	m, ok := n.maps[feature]
	if !ok {
		m = NewNodeMap(n.rs, feature)
		n.maps[feature] = m
	}
	return m
}

func (n *StateNode) List(feature string) *NodeList {
	n.rs.Lock()
	defer n.rs.Unlock()

	l, ok := n.lists[feature]
	if !ok {
		l = NewNodeList(n.rs, feature)
		n.lists[feature] = l
	}
	return l
}

func (n *StateNode) HasFeature(feature string) bool {
	n.rs.Lock()
	defer n.rs.Unlock()

	_, isMap := n.maps[feature]
	_, isList := n.lists[feature]
	return isMap || isList
}

func (n *StateNode) IsUnregistered() bool {
	n.rs.Lock()
	defer n.rs.Unlock()

	n.router.RegisterRead()
	return n.unregistered
}

// Unregister detaches the node and notifies unregister listeners. Only the
// first call has an effect.
func (n *StateNode) Unregister() {
	n.rs.Lock()
	defer n.rs.Unlock()

	if n.unregistered {
		return
	}
	n.unregistered = true
	n.router.FireEvent(UnregisterEvent{node: n})
}

func (n *StateNode) AddUnregisterListener(l UnregisterListener) (remove func()) {
	return n.router.AddListener(l)
}

func (n *StateNode) AddReactiveListener(l reactive.ChangeListener) (remove func()) {
	return n.router.AddReactiveListener(l)
}

// Bind runs fn now and whenever its dependencies change, until the node is
// unregistered.
func (n *StateNode) Bind(fn func() error) (*reactive.Computation, error) {
	n.rs.Lock()
	defer n.rs.Unlock()

	c, err := n.rs.RunWhenDependenciesChange(fn)
	if n.unregistered {
		c.Stop()
		return c, err
	}
	remove := n.AddUnregisterListener(func(UnregisterEvent) {
		c.Stop()
	})
	var release func(reactive.InvalidateEvent)
	release = func(e reactive.InvalidateEvent) {
		if e.Computation.IsStopped() {
			remove()
			return
		}
		e.Computation.OnNextInvalidate(release)
	}
	c.OnNextInvalidate(release)
	return c, err
}

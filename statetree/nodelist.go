package statetree

import (
	"errors"
	"fmt"

	"github.com/delaneyj/flowreactive/reactive"
)

var ErrIndexOutOfRange = errors.New("index out of range")

// SpliceEvent describes a single change to a NodeList.
type SpliceEvent struct {
	list    *NodeList
	Index   int
	Removed []any
	Added   []any
}

func (e SpliceEvent) Source() reactive.Value {
	return e.list
}

type SpliceListener func(SpliceEvent)

// NodeList is a reactive ordered list.
type NodeList struct {
	rs     *reactive.ReactiveSystem
	name   string
	values []any
	router *reactive.EventRouter[SpliceListener, SpliceEvent]
}

func NewNodeList(rs *reactive.ReactiveSystem, name string) *NodeList {
	l := &NodeList{rs: rs, name: name}
	l.router = reactive.NewEventRouter(
		rs,
		reactive.Value(l),
		func(cl reactive.ChangeListener) SpliceListener {
			return func(e SpliceEvent) { cl(e) }
		},
		func(sl SpliceListener, e SpliceEvent) { sl(e) },
	)
	return l
}

func (l *NodeList) Name() string {
	return l.name
}

func (l *NodeList) String() string {
	return fmt.Sprintf("list %q", l.name)
}

func (l *NodeList) Length() int {
	l.rs.Lock()
	defer l.rs.Unlock()

	l.router.RegisterRead()
	return len(l.values)
}

func (l *NodeList) Get(index int) (any, error) {
	l.rs.Lock()
	defer l.rs.Unlock()

	l.router.RegisterRead()
	if index < 0 || index >= len(l.values) {
		return nil, fmt.Errorf("get %d of %d: %w", index, len(l.values), ErrIndexOutOfRange)
	}
	return l.values[index], nil
}

// Values returns a copy of the list contents.
func (l *NodeList) Values() []any {
	l.rs.Lock()
	defer l.rs.Unlock()

	l.router.RegisterRead()
	return append([]any(nil), l.values...)
}

// Splice removes remove items at index, inserts add in their place and
// notifies splice listeners.
func (l *NodeList) Splice(index, remove int, add ...any) error {
	l.rs.Lock()
	defer l.rs.Unlock()

	if index < 0 || index > len(l.values) || remove < 0 || index+remove > len(l.values) {
		return fmt.Errorf("splice %d+%d of %d: %w", index, remove, len(l.values), ErrIndexOutOfRange)
	}
	if remove == 0 && len(add) == 0 {
		return nil
	}

	removed := append([]any(nil), l.values[index:index+remove]...)
	next := make([]any, 0, len(l.values)-remove+len(add))
	next = append(next, l.values[:index]...)
	next = append(next, add...)
	next = append(next, l.values[index+remove:]...)
	l.values = next

	l.router.FireEvent(SpliceEvent{
		list:    l,
		Index:   index,
		Removed: removed,
		Added:   append([]any(nil), add...),
	})
	return nil
}

func (l *NodeList) Add(index int, value any) error {
	return l.Splice(index, 0, value)
}

func (l *NodeList) Clear() error {
	l.rs.Lock()
	defer l.rs.Unlock()

	return l.Splice(0, len(l.values))
}

func (l *NodeList) AddSpliceListener(sl SpliceListener) (remove func()) {
	return l.router.AddListener(sl)
}

func (l *NodeList) AddReactiveListener(cl reactive.ChangeListener) (remove func()) {
	return l.router.AddReactiveListener(cl)
}

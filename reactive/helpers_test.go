package reactive

type testValue struct {
	router *EventRouter[ChangeListener, Event]
}

func newTestValue(rs *ReactiveSystem) *testValue {
	v := &testValue{}
	v.router = NewChangeRouter(rs, v)
	return v
}

func (v *testValue) AddReactiveListener(l ChangeListener) func() {
	return v.router.AddReactiveListener(l)
}

func (v *testValue) read() {
	v.router.RegisterRead()
}

func (v *testValue) invalidate() {
	v.router.FireEvent(NewChangeEvent(v))
}

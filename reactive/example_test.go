package reactive_test

import (
	"fmt"

	"github.com/delaneyj/flowreactive/reactive"
	"github.com/delaneyj/flowreactive/statetree"
)

func ExampleReactiveSystem_RunWhenDependenciesChange() {
	rs := reactive.NewReactiveSystem()
	name := statetree.NewProperty[string](rs, "name")
	name.SetValue("world")

	c, _ := rs.RunWhenDependenciesChange(func() error {
		fmt.Println("hello", name.Value())
		return nil
	})

	name.SetValue("flush")
	rs.AddPostFlushListener(func() error {
		fmt.Println("flushed")
		return nil
	})
	rs.Flush()

	c.Stop()
	name.SetValue("stopped")
	rs.Flush()
	// Output:
	// hello world
	// hello flush
	// flushed
}

package statetree_test

import (
	"testing"

	"github.com/delaneyj/flowreactive/reactive"
	"github.com/delaneyj/flowreactive/statetree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeMap(t *testing.T) {
	t.Run("properties are created once", func(t *testing.T) {
		rs := reactive.NewReactiveSystem()
		m := statetree.NewNodeMap(rs, "attributes")
		var added []string
		m.AddPropertyAddListener(func(e statetree.PropertyAddEvent) {
			added = append(added, e.Property.Name())
		})

		id := m.Property("id")
		assert.Same(t, id, m.Property("id"))
		m.Property("class")

		assert.Equal(t, []string{"id", "class"}, added)
		assert.Equal(t, []string{"id", "class"}, m.PropertyNames())
		assert.True(t, m.HasProperty("id"))
		assert.False(t, m.HasProperty("style"))
	})

	t.Run("presence is reactive", func(t *testing.T) {
		rs := reactive.NewReactiveSystem()
		m := statetree.NewNodeMap(rs, "listeners")
		var seen []string
		_, err := rs.RunWhenDependenciesChange(func() error {
			seen = seen[:0]
			m.ForEachProperty(func(p *statetree.Property[any]) {
				seen = append(seen, p.Name())
			})
			return nil
		})
		require.NoError(t, err)
		assert.Empty(t, seen)

		m.Property("click")
		m.Property("keydown")
		require.NoError(t, rs.Flush())
		assert.Equal(t, []string{"click", "keydown"}, seen)
	})

	t.Run("has property with value", func(t *testing.T) {
		rs := reactive.NewReactiveSystem()
		m := statetree.NewNodeMap(rs, "listeners")
		bound := false
		_, err := rs.RunWhenDependenciesChange(func() error {
			bound = m.HasPropertyWithValue("click")
			return nil
		})
		require.NoError(t, err)
		assert.False(t, bound)

		m.Property("click").SetValue("handler")
		require.NoError(t, rs.Flush())
		assert.True(t, bound)

		m.Property("click").RemoveValue()
		require.NoError(t, rs.Flush())
		assert.False(t, bound)
	})

	t.Run("uncomparable values always count as changed", func(t *testing.T) {
		rs := reactive.NewReactiveSystem()
		m := statetree.NewNodeMap(rs, "properties")
		l := statetree.NewNodeList(rs, "children")
		require.NoError(t, l.Splice(0, 0, "a", "b"))

		changes := 0
		m.Property("copy").AddChangeListener(func(statetree.PropertyChangeEvent[any]) {
			changes++
		})

		assert.NotPanics(t, func() {
			m.Property("copy").SetValue(l.Values())
			m.Property("copy").SetValue(l.Values())
			m.Property("copy").SetValue(map[string]int{"a": 1})
		})
		assert.Equal(t, 3, changes)
		assert.Equal(t, map[string]int{"a": 1}, m.Property("copy").Value())

		m.Property("copy").SetValue("plain")
		m.Property("copy").SetValue("plain")
		assert.Equal(t, 4, changes)
	})
}

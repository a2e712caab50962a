package reactive

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlushListeners(t *testing.T) {
	t.Run("fire once in registration order", func(t *testing.T) {
		rs := NewReactiveSystem()
		var order []int
		for i := 0; i < 10; i++ {
			i := i
			rs.AddFlushListener(func() error {
				order = append(order, i)
				return nil
			})
		}

		require.NoError(t, rs.Flush())
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, order)

		require.NoError(t, rs.Flush())
		assert.Len(t, order, 10)
	})

	t.Run("same function can be registered again", func(t *testing.T) {
		rs := NewReactiveSystem()
		count := 0
		fn := func() error {
			count++
			return nil
		}
		rs.AddFlushListener(fn)
		require.NoError(t, rs.Flush())
		rs.AddFlushListener(fn)
		require.NoError(t, rs.Flush())
		assert.Equal(t, 2, count)
	})

	t.Run("listeners added while draining run in the same flush", func(t *testing.T) {
		rs := NewReactiveSystem()
		var log []string
		rs.AddFlushListener(func() error {
			log = append(log, "first")
			rs.AddFlushListener(func() error {
				log = append(log, "added")
				return nil
			})
			return nil
		})
		rs.AddFlushListener(func() error {
			log = append(log, "second")
			return nil
		})

		require.NoError(t, rs.Flush())
		assert.Equal(t, []string{"first", "second", "added"}, log)
	})

	t.Run("post-flush listeners run after every flush listener", func(t *testing.T) {
		rs := NewReactiveSystem()
		var log []string
		rs.AddPostFlushListener(func() error {
			log = append(log, "post")
			rs.AddPostFlushListener(func() error {
				log = append(log, "nested post")
				return nil
			})
			return nil
		})
		rs.AddFlushListener(func() error {
			log = append(log, "flush")
			rs.AddFlushListener(func() error {
				log = append(log, "added flush")
				rs.AddPostFlushListener(func() error {
					log = append(log, "post from added flush")
					return nil
				})
				return nil
			})
			return nil
		})

		require.NoError(t, rs.Flush())
		assert.Equal(t, []string{
			"flush",
			"added flush",
			"post",
			"post from added flush",
			"nested post",
		}, log)
	})

	t.Run("computations run before flush listeners", func(t *testing.T) {
		rs := NewReactiveSystem()
		v := newTestValue(rs)
		var log []string
		NewComputation(rs, func() error {
			log = append(log, "computation")
			v.read()
			return nil
		})
		rs.AddFlushListener(func() error {
			log = append(log, "listener")
			return nil
		})

		require.NoError(t, rs.Flush())
		assert.Equal(t, []string{"computation", "listener"}, log)
	})

	t.Run("post-flush listener can queue more flush work", func(t *testing.T) {
		rs := NewReactiveSystem()
		v := newTestValue(rs)
		count := 0
		NewComputation(rs, func() error {
			count++
			v.read()
			return nil
		})
		rs.AddPostFlushListener(func() error {
			v.invalidate()
			return nil
		})

		require.NoError(t, rs.Flush())
		assert.Equal(t, 2, count)
		assert.False(t, rs.HasPendingWork())
	})
}

func TestFlushReentrancy(t *testing.T) {
	t.Run("nested flush is absorbed", func(t *testing.T) {
		rs := NewReactiveSystem()
		var log []string
		rs.AddFlushListener(func() error {
			log = append(log, "outer")
			rs.AddFlushListener(func() error {
				log = append(log, "queued")
				return nil
			})
			assert.True(t, rs.IsFlushing())
			require.NoError(t, rs.Flush())
			log = append(log, "after nested flush")
			return nil
		})

		require.NoError(t, rs.Flush())
		assert.Equal(t, []string{"outer", "after nested flush", "queued"}, log)
		assert.False(t, rs.IsFlushing())
	})

	t.Run("nested flush from a computation", func(t *testing.T) {
		rs := NewReactiveSystem()
		a := newTestValue(rs)
		b := newTestValue(rs)
		aRuns, bRuns := 0, 0
		NewComputation(rs, func() error {
			aRuns++
			a.read()
			return rs.Flush()
		})
		NewComputation(rs, func() error {
			bRuns++
			b.read()
			return nil
		})

		require.NoError(t, rs.Flush())
		assert.Equal(t, 1, aRuns)
		assert.Equal(t, 1, bRuns)
	})
}

func TestFlushErrors(t *testing.T) {
	t.Run("aborts and keeps remaining work queued", func(t *testing.T) {
		rs := NewReactiveSystem()
		boom := errors.New("boom")
		var log []string
		rs.AddFlushListener(func() error {
			log = append(log, "failing")
			return boom
		})
		rs.AddFlushListener(func() error {
			log = append(log, "second")
			return nil
		})
		rs.AddPostFlushListener(func() error {
			log = append(log, "post")
			return nil
		})

		err := rs.Flush()
		require.ErrorIs(t, err, boom)
		assert.Equal(t, []string{"failing"}, log)
		assert.False(t, rs.IsFlushing())
		assert.True(t, rs.HasPendingWork())

		require.NoError(t, rs.Flush())
		assert.Equal(t, []string{"failing", "second", "post"}, log)
	})

	t.Run("computation error is returned", func(t *testing.T) {
		rs := NewReactiveSystem()
		boom := errors.New("boom")
		NewComputation(rs, func() error {
			return boom
		})
		require.ErrorIs(t, rs.Flush(), boom)
	})

	t.Run("error handler continues the drain", func(t *testing.T) {
		boom := errors.New("boom")
		var reported []error
		var from []*Computation
		rs := NewReactiveSystem(WithErrorHandler(func(c *Computation, err error) {
			from = append(from, c)
			reported = append(reported, err)
		}))

		c := NewComputation(rs, func() error {
			return boom
		})
		ran := false
		rs.AddFlushListener(func() error {
			return boom
		})
		rs.AddPostFlushListener(func() error {
			ran = true
			return nil
		})

		require.NoError(t, rs.Flush())
		assert.True(t, ran)
		assert.Equal(t, []error{boom, boom}, reported)
		assert.Equal(t, []*Computation{c, nil}, from)
	})

	t.Run("panics restore the system", func(t *testing.T) {
		rs := NewReactiveSystem()
		NewComputation(rs, func() error {
			panic("boom")
		})
		assert.Panics(t, func() {
			rs.Flush()
		})
		assert.False(t, rs.IsFlushing())
		assert.Nil(t, rs.CurrentComputation())

		ran := false
		rs.AddFlushListener(func() error {
			ran = true
			return nil
		})
		require.NoError(t, rs.Flush())
		assert.True(t, ran)
	})

	t.Run("recompute limit stops cycles", func(t *testing.T) {
		rs := NewReactiveSystem(WithRecomputeLimit(5))
		v := newTestValue(rs)
		count := 0
		NewComputation(rs, func() error {
			count++
			v.read()
			v.invalidate()
			return nil
		})

		err := rs.Flush()
		require.ErrorIs(t, err, ErrRecomputeLimit)
		assert.Equal(t, 5, count)
		assert.True(t, rs.HasPendingWork())
	})
}

func TestReset(t *testing.T) {
	rs := NewReactiveSystem()
	count := 0
	NewComputation(rs, func() error {
		count++
		return nil
	})
	rs.AddFlushListener(func() error {
		count++
		return nil
	})
	rs.AddEventCollector(func(Event) {
		count++
	})

	rs.Reset()
	assert.False(t, rs.HasPendingWork())
	require.NoError(t, rs.Flush())
	newTestValue(rs).invalidate()
	assert.Equal(t, 0, count)
}

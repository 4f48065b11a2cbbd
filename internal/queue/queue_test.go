package queue

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitgud/gitgud/internal/graph"
)

func op(base, target string) graph.PendingOperation {
	return graph.PendingOperation{Kind: graph.PendingOperationEvolve, BaseID: base, TargetID: target}
}

func TestPushPopOrder(t *testing.T) {
	q := New(nil)
	q.Push(op("a", "b"))
	q.Push(op("b", "c"))

	first, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, "a", first.BaseID)

	second, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, "b", second.BaseID)

	_, ok = q.Pop()
	assert.False(t, ok)
}

func TestPeekDoesNotRemove(t *testing.T) {
	q := New([]graph.PendingOperation{op("a", "b")})
	_, ok := q.Peek()
	require.True(t, ok)
	assert.Equal(t, 1, q.Len())
}

func TestDrainStopsOnFirstError(t *testing.T) {
	q := New([]graph.PendingOperation{op("a", "b"), op("b", "c"), op("c", "d")})

	var dispatched []string
	failAt := "b"
	err := q.Drain(func(o graph.PendingOperation) error {
		dispatched = append(dispatched, o.BaseID)
		if o.BaseID == failAt {
			return errors.New("conflict")
		}
		return nil
	})

	require.Error(t, err)
	assert.Equal(t, []string{"a", "b"}, dispatched)
	assert.Equal(t, 2, q.Len())

	remaining := q.Items()
	assert.Equal(t, "b", remaining[0].BaseID)
	assert.Equal(t, "c", remaining[1].BaseID)
}

func TestDrainEmptyQueueIsNoop(t *testing.T) {
	q := New(nil)
	called := false
	err := q.Drain(func(graph.PendingOperation) error {
		called = true
		return nil
	})
	assert.NoError(t, err)
	assert.False(t, called)
}

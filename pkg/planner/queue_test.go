package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundedQueue(t *testing.T) {
	queue := newBoundedQueue(3)

	for i, priority := range []float64{5, 1, 3} {
		assert.True(t, queue.Push(&searchState{priority: priority, sequence: i}))
	}

	// full: a worse state is refused, a better one evicts the worst
	assert.False(t, queue.Push(&searchState{priority: 0, sequence: 3}))
	assert.True(t, queue.Push(&searchState{priority: 4, sequence: 4}))
	require.Equal(t, 3, queue.Len())

	var order []float64
	for queue.Len() > 0 {
		order = append(order, queue.Pop().priority)
	}
	assert.Equal(t, []float64{5, 4, 3}, order)
}

func TestBoundedQueueTiesKeepPushOrder(t *testing.T) {
	queue := newBoundedQueue(0)
	queue.Push(&searchState{priority: 1, sequence: 0})
	queue.Push(&searchState{priority: 1, sequence: 1})
	queue.Push(&searchState{priority: 2, sequence: 2})

	assert.Equal(t, 2, queue.Pop().sequence)
	assert.Equal(t, 0, queue.Pop().sequence)
	assert.Equal(t, 1, queue.Pop().sequence)
}

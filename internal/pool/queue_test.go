package pool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueFIFOForSingleConsumer(t *testing.T) {
	q := newJobQueue()

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		require.NoError(t, q.enqueue(func() { order = append(order, i) }))
	}

	for i := 0; i < 5; i++ {
		job, ok := q.dequeue()
		require.True(t, ok)
		job()
	}

	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestQueueEnqueueAfterCloseFails(t *testing.T) {
	q := newJobQueue()
	q.close()

	err := q.enqueue(func() {})
	assert.ErrorIs(t, err, ErrPoolClosed)
}

func TestQueueDrainsBeforeReportingClosed(t *testing.T) {
	q := newJobQueue()

	require.NoError(t, q.enqueue(func() {}))
	require.NoError(t, q.enqueue(func() {}))
	q.close()

	_, ok := q.dequeue()
	assert.True(t, ok)
	_, ok = q.dequeue()
	assert.True(t, ok)

	// Only once empty does the consumer see the closed signal.
	job, ok := q.dequeue()
	assert.False(t, ok)
	assert.Nil(t, job)
}

func TestQueueCloseWakesBlockedConsumer(t *testing.T) {
	q := newJobQueue()

	woke := make(chan bool, 1)
	go func() {
		_, ok := q.dequeue()
		woke <- ok
	}()

	// Give the consumer time to block in dequeue.
	time.Sleep(10 * time.Millisecond)
	q.close()

	select {
	case ok := <-woke:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("blocked dequeue was not woken by close")
	}
}

func TestQueuePending(t *testing.T) {
	q := newJobQueue()
	assert.Equal(t, 0, q.pending())

	require.NoError(t, q.enqueue(func() {}))
	require.NoError(t, q.enqueue(func() {}))
	assert.Equal(t, 2, q.pending())

	_, ok := q.dequeue()
	require.True(t, ok)
	assert.Equal(t, 1, q.pending())
}

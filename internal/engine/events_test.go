package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventQueue_FIFO(t *testing.T) {
	q := newEventQueue()
	q.enqueue(event{kind: eventMeasureDone, token: "a"})
	q.enqueue(event{kind: eventMeasureDone, token: "b"})
	q.enqueue(event{kind: eventClockDone})

	e1, ok := q.tryDequeue()
	require.True(t, ok)
	assert.Equal(t, "a", e1.token)

	e2, ok := q.tryDequeue()
	require.True(t, ok)
	assert.Equal(t, "b", e2.token)

	e3, ok := q.tryDequeue()
	require.True(t, ok)
	assert.Equal(t, eventClockDone, e3.kind)

	_, ok = q.tryDequeue()
	assert.False(t, ok)
	assert.Equal(t, 0, q.len())
}

func TestEventQueue_ConcurrentEnqueue(t *testing.T) {
	q := newEventQueue()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				q.enqueue(event{kind: eventMeasureDone})
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 800, q.len())
}

func TestContractError_Formatting(t *testing.T) {
	err := newOutOfBounds(7, 3, 5)
	assert.Contains(t, err.Error(), "OUT_OF_BOUNDS")
	assert.Contains(t, err.Error(), "index=7")
	assert.True(t, IsContractError(err))
	assert.True(t, IsOutOfBounds(err))
	assert.False(t, IsReorderActive(err))
	assert.False(t, IsContractError(nil))
}

func TestUpdateMode_String(t *testing.T) {
	assert.Equal(t, "replace", UpdateReplace.String())
	assert.Equal(t, "rebuild", UpdateRebuild.String())
	assert.Equal(t, "unbind", UpdateUnbind.String())
}

package queue

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var handled atomic.Int64

type countingJob struct {
	Delta int64 `json:"delta"`
}

func (j *countingJob) Handle() error {
	handled.Add(j.Delta)
	return nil
}

func TestMemoryDriverRoundTrip(t *testing.T) {
	d := NewMemoryDriver()
	require.NoError(t, d.Push([]byte("hello")))

	payload, err := d.Pop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), payload)
}

func TestMemoryDriverPopHonoursContext(t *testing.T) {
	d := NewMemoryDriver()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := d.Pop(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDispatchAndProcess(t *testing.T) {
	handled.Store(0)
	SetDriver(NewMemoryDriver())
	Register("*queue.countingJob", func() Job { return &countingJob{} })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartWorkers(ctx, 2)

	for i := 0; i < 5; i++ {
		require.NoError(t, Dispatch(&countingJob{Delta: 1}))
	}

	assert.Eventually(t, func() bool {
		return handled.Load() == 5
	}, 3*time.Second, 20*time.Millisecond)
}

func TestUnregisteredJobIsDropped(t *testing.T) {
	handled.Store(0)
	d := NewMemoryDriver()
	SetDriver(d)

	// Not registered: the worker must skip it without panicking.
	require.NoError(t, defaultManager.push(jobAdapter{}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartWorkers(ctx, 1)

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int64(0), handled.Load())
}

type jobAdapter struct{}

func (jobAdapter) Handle() error { return nil }

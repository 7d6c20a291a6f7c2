package async

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunResolves(t *testing.T) {
	task := Run(nil, 5*time.Millisecond, func() (int, error) { return 42, nil })
	v, err := task.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestRunPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	task := Run(nil, 0, func() (string, error) { return "", boom })
	_, err := task.Await(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestEffectLandsAfterCallerGivesUp(t *testing.T) {
	var applied atomic.Bool
	task := Run(nil, 30*time.Millisecond, func() (struct{}, error) {
		applied.Store(true)
		return struct{}{}, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	_, err := task.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, applied.Load())

	select {
	case <-task.Done():
	case <-time.After(time.Second):
		t.Fatal("task never finished")
	}
	assert.True(t, applied.Load())
}

func TestGroupWaitsForEffects(t *testing.T) {
	var g Group
	var applied atomic.Int32
	for i := 0; i < 3; i++ {
		Run(&g, 10*time.Millisecond, func() (struct{}, error) {
			applied.Add(1)
			return struct{}{}, nil
		})
	}
	require.NoError(t, g.Wait(context.Background()))
	assert.Equal(t, int32(3), applied.Load())
}

func TestGroupWaitGivesUp(t *testing.T) {
	var g Group
	task := Run(&g, 50*time.Millisecond, func() (int, error) { return 1, nil })

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, g.Wait(ctx), context.DeadlineExceeded)
	<-task.Done()
}

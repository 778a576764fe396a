package services

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFanOut_CountsOutcomes(t *testing.T) {
	result := fanOut(context.Background(), 3, []int{1, 2, 3, 4}, func(_ context.Context, id int) (bool, error) {
		switch id {
		case 1:
			return true, nil
		case 2:
			return false, errServer
		default:
			return false, nil
		}
	})

	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 3, result.Attempted)
	assert.Equal(t, 2, result.Succeeded)
	require.Len(t, result.Failed, 1)
	assert.ErrorIs(t, result.Failed[2], errServer)
	require.Error(t, result.Err)
	assert.ErrorIs(t, result.Err, errServer)
	assert.Contains(t, result.Err.Error(), "item 2")
}

func TestFanOut_FailureDoesNotStopOthers(t *testing.T) {
	var calls atomic.Int32
	result := fanOut(context.Background(), 1, []int{1, 2, 3}, func(_ context.Context, _ int) (bool, error) {
		calls.Add(1)
		return false, errServer
	})

	assert.Equal(t, int32(3), calls.Load())
	assert.Len(t, result.Failed, 3)
}

func TestFanOut_Empty(t *testing.T) {
	result := fanOut(context.Background(), 4, nil, func(context.Context, int) (bool, error) {
		t.Fatal("fn must not be called")
		return false, nil
	})

	assert.True(t, result.OK())
	assert.NoError(t, result.Err)
	assert.Zero(t, result.Attempted)
}

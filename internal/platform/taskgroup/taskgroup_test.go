package taskgroup

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSettle_FailureDoesNotCancelSiblings(t *testing.T) {
	var done atomic.Int32
	results := Settle(context.Background(), 3, func(ctx context.Context, i int) (string, error) {
		if i == 1 {
			return "", errors.New("boom")
		}
		time.Sleep(10 * time.Millisecond)
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		done.Add(1)
		return "ok", nil
	})

	require.Len(t, results, 3)
	assert.True(t, results[0].OK())
	assert.Equal(t, "ok", results[2].Value)
	assert.EqualError(t, results[1].Err, "boom")
	assert.Equal(t, int32(2), done.Load())
	assert.False(t, results[1].OK())
}

func TestSettle_RecoversPanics(t *testing.T) {
	results := Settle(context.Background(), 2, func(_ context.Context, i int) (int, error) {
		if i == 0 {
			panic("bad file")
		}
		return i, nil
	})
	require.Error(t, results[0].Err)
	assert.Contains(t, results[0].Err.Error(), "panicked")
	assert.Equal(t, 1, results[1].Value)
}

func TestSettleBatched_BoundsConcurrencyAndOrdersSlices(t *testing.T) {
	var (
		mu        sync.Mutex
		inFlight  int
		maxFlight int
		finished  []int
	)

	results := SettleBatched(context.Background(), 7, 3, func(_ context.Context, i int) (int, error) {
		mu.Lock()
		inFlight++
		if inFlight > maxFlight {
			maxFlight = inFlight
		}
		mu.Unlock()

		time.Sleep(5 * time.Millisecond)

		mu.Lock()
		inFlight--
		finished = append(finished, i)
		mu.Unlock()
		return i * 10, nil
	})

	require.Len(t, results, 7)
	assert.LessOrEqual(t, maxFlight, 3)
	for i, r := range results {
		assert.Equal(t, i*10, r.Value)
	}

	// todas las tareas de la tanda 0 (0..2) terminan antes que cualquiera de la tanda 1 (3..5)
	pos := map[int]int{}
	for p, i := range finished {
		pos[i] = p
	}
	for _, a := range []int{0, 1, 2} {
		for _, b := range []int{3, 4, 5, 6} {
			assert.Less(t, pos[a], pos[b])
		}
	}
}

func TestSettleBatched_Empty(t *testing.T) {
	assert.Nil(t, SettleBatched(context.Background(), 0, 5, func(context.Context, int) (int, error) { return 0, nil }))
}

func TestPair_IndependentOutcomes(t *testing.T) {
	a, b := Pair(context.Background(),
		func(context.Context) (string, error) { return "asset-1", nil },
		func(context.Context) (int, error) { return 0, errors.New("caption timeout") },
	)
	assert.Equal(t, "asset-1", a.Value)
	assert.True(t, a.OK())
	assert.EqualError(t, b.Err, "caption timeout")

	a, _ = Pair(context.Background(),
		func(context.Context) (string, error) { panic("publish") },
		func(context.Context) (int, error) { return 1, nil },
	)
	assert.Error(t, a.Err)
}

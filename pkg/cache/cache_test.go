package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrSet(t *testing.T) {
	t.Parallel()

	t.Run("computes on miss and caches", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		c := NewMemory[int]()
		t.Cleanup(func() { _ = c.Close() })

		var calls atomic.Int32
		fn := func(context.Context) (int, time.Duration, error) {
			calls.Add(1)
			return 42, 0, nil
		}

		v, err := GetOrSet(ctx, c, "getorset-miss", fn)
		require.NoError(t, err)
		assert.Equal(t, 42, v)

		v, err = GetOrSet(ctx, c, "getorset-miss", fn)
		require.NoError(t, err)
		assert.Equal(t, 42, v)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("does not cache errors", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		c := NewMemory[int]()
		t.Cleanup(func() { _ = c.Close() })

		boom := errors.New("boom")
		_, err := GetOrSet(ctx, c, "getorset-err", func(context.Context) (int, time.Duration, error) {
			return 0, 0, boom
		})
		require.ErrorIs(t, err, boom)

		_, err = c.Get(ctx, "getorset-err")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("collapses concurrent misses", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		c := NewMemory[int]()
		t.Cleanup(func() { _ = c.Close() })

		var calls atomic.Int32
		release := make(chan struct{})
		fn := func(context.Context) (int, time.Duration, error) {
			calls.Add(1)
			<-release
			return 7, 0, nil
		}

		var wg sync.WaitGroup
		for range 8 {
			wg.Go(func() {
				v, err := GetOrSet(ctx, c, "getorset-flight", fn)
				assert.NoError(t, err)
				assert.Equal(t, 7, v)
			})
		}
		time.Sleep(20 * time.Millisecond)
		close(release)
		wg.Wait()

		assert.LessOrEqual(t, calls.Load(), int32(2))
	})
}

func TestJSONMarshaler(t *testing.T) {
	t.Parallel()

	type payload struct {
		Users int `json:"users"`
		Files int `json:"files"`
	}

	m := jsonMarshaler[payload]{}
	data, err := m.Marshal(payload{Users: 2, Files: 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"users":2,"files":3}`, string(data))

	_, err = m.Unmarshal([]byte("{"))
	require.ErrorIs(t, err, ErrUnmarshal)

	_, err = jsonMarshaler[chan int]{}.Marshal(make(chan int))
	require.ErrorIs(t, err, ErrMarshal)
}

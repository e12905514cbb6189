package listview

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoaderRefresh(t *testing.T) {
	l := NewLoader(func(ctx context.Context) ([]int, error) { return []int{1, 2}, nil })

	items, err := l.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, items)
	assert.Equal(t, []int{1, 2}, l.Items())
}

func TestLoaderSequentialRefreshesAreNeverStale(t *testing.T) {
	calls := 0
	l := NewLoader(func(ctx context.Context) ([]int, error) {
		calls++
		return []int{calls}, nil
	})

	for want := 1; want <= 3; want++ {
		items, err := l.Refresh(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []int{want}, items)
		assert.Equal(t, []int{want}, l.Items())
	}
}

func TestLoaderSupersededRefreshIsStale(t *testing.T) {
	started := make(chan struct{})
	calls := 0
	l := NewLoader(func(ctx context.Context) ([]int, error) {
		calls++
		if calls == 1 {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return []int{2}, nil
	})

	done := make(chan error, 1)
	go func() {
		_, err := l.Refresh(context.Background())
		done <- err
	}()
	<-started

	items, err := l.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{2}, items)

	assert.ErrorIs(t, <-done, ErrStale)
	assert.Equal(t, []int{2}, l.Items())
}

func TestLoaderClose(t *testing.T) {
	started := make(chan struct{})
	l := NewLoader(func(ctx context.Context) ([]int, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	})

	done := make(chan error, 1)
	go func() {
		_, err := l.Refresh(context.Background())
		done <- err
	}()
	<-started
	l.Close()

	assert.ErrorIs(t, <-done, ErrClosed)
	_, err := l.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestLoaderFetchError(t *testing.T) {
	boom := errors.New("boom")
	l := NewLoader(func(ctx context.Context) ([]int, error) { return nil, boom })

	_, err := l.Refresh(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, l.Items())
}

package listview

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrStale is returned by a Refresh that was superseded by a newer one.
	ErrStale = errors.New("listview: refresh superseded")

	// ErrClosed is returned once the loader has been closed.
	ErrClosed = errors.New("listview: loader closed")
)

// FetchFunc loads a full collection.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// Loader runs refetches of a list so that only the latest one counts. A new
// Refresh cancels the one in flight, and its result is discarded.
//
// Only overlapping calls are superseded. A caller that waits for each Refresh
// before starting the next, such as a polling loop, never gets ErrStale and
// every call returns its own fetch.
type Loader[T any] struct {
	fetch FetchFunc[T]

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	closed bool
	items  []T
}

// NewLoader creates a loader around fetch.
func NewLoader[T any](fetch FetchFunc[T]) *Loader[T] {
	return &Loader[T]{fetch: fetch}
}

// Refresh fetches the collection, cancelling any earlier fetch still running.
func (l *Loader[T]) Refresh(ctx context.Context) ([]T, error) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil, ErrClosed
	}
	if l.cancel != nil {
		l.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	l.gen++
	gen := l.gen
	l.cancel = cancel
	l.mu.Unlock()

	items, err := l.fetch(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		return nil, ErrStale
	}
	cancel()
	l.cancel = nil
	if l.closed {
		return nil, ErrClosed
	}
	if err != nil {
		return nil, err
	}
	l.items = items
	return items, nil
}

// Items returns the result of the last successful refresh.
func (l *Loader[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.items
}

// Close aborts the fetch in flight and rejects further refreshes.
func (l *Loader[T]) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

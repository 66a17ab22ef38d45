package docstore

import (
	"context"
	"sync"
)

// Opener builds a backend. It runs at most once per Lazy.
type Opener func(ctx context.Context) (Store, error)

// Lazy defers backend construction to the first call and memoizes the result,
// including a construction error, for the life of the process.
type Lazy struct {
	open Opener

	once  sync.Once
	store Store
	err   error
}

var _ Store = (*Lazy)(nil)

func NewLazy(open Opener) *Lazy {
	return &Lazy{open: open}
}

// Client returns the memoized backend, opening it on first use.
func (l *Lazy) Client(ctx context.Context) (Store, error) {
	l.once.Do(func() {
		if l.open == nil {
			l.err = ErrNotConfigured
			return
		}
		l.store, l.err = l.open(context.WithoutCancel(ctx))
	})
	return l.store, l.err
}

func (l *Lazy) Get(ctx context.Context, collection, id string) (Document, error) {
	s, err := l.Client(ctx)
	if err != nil {
		return Document{}, err
	}
	return s.Get(ctx, collection, id)
}

func (l *Lazy) Create(ctx context.Context, collection string, data map[string]any) (Document, error) {
	s, err := l.Client(ctx)
	if err != nil {
		return Document{}, err
	}
	return s.Create(ctx, collection, data)
}

func (l *Lazy) Set(ctx context.Context, collection, id string, data map[string]any, opts SetOptions) error {
	s, err := l.Client(ctx)
	if err != nil {
		return err
	}
	return s.Set(ctx, collection, id, data, opts)
}

func (l *Lazy) Query(ctx context.Context, collection string, filters ...Filter) ([]Document, error) {
	s, err := l.Client(ctx)
	if err != nil {
		return nil, err
	}
	return s.Query(ctx, collection, filters...)
}

// Close closes the backend if it was ever opened. A Lazy that was never
// used cannot be opened afterwards.
func (l *Lazy) Close() error {
	l.once.Do(func() { l.err = ErrNotConfigured })
	if l.store == nil {
		return nil
	}
	return l.store.Close()
}

package cart

import (
	"context"
	"sync"
)

/*
Store is an interface to manage a store where whole classification
trees are kept under a voice-specific name.

All its methods take a context that may allow cancelling the operation
(thus forcing the return of an error) if the implementation allows it.
*/
type Store interface {
	// Save takes a name and a tree and stores the tree under the
	// name, replacing any tree previously stored under it. It
	// returns an error if the tree cannot be stored.
	Save(ctx context.Context, name string, c *CART) error
	// Load takes a name and returns the tree stored under it (or nil
	// if there is none) or an error if the store cannot be queried.
	Load(ctx context.Context, name string) (*CART, error)
	// Delete takes a name and removes the tree stored under it. It
	// returns an error if a stored tree exists but cannot be
	// removed.
	Delete(ctx context.Context, name string) error
	// Close closes the store; implementations should free any
	// resources in use as well as ensure any pending changes are
	// applied before returning (unless the context expires).
	Close(ctx context.Context) error
}

type memoryStore struct {
	trees map[string]*CART
	lock  *sync.RWMutex
}

// NewMemoryStore returns an implementation of Store with the process
// memory space as underlying backend.
func NewMemoryStore() Store {
	return &memoryStore{
		trees: make(map[string]*CART),
		lock:  &sync.RWMutex{},
	}
}

func (ms *memoryStore) Save(ctx context.Context, name string, c *CART) error {
	return ms.withLock(ctx, func(ctx context.Context) error {
		ms.trees[name] = c
		return nil
	})
}

func (ms *memoryStore) Load(ctx context.Context, name string) (*CART, error) {
	var c *CART
	err := ms.withRLock(ctx, func(ctx context.Context) error {
		c = ms.trees[name]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (ms *memoryStore) Delete(ctx context.Context, name string) error {
	return ms.withLock(ctx, func(ctx context.Context) error {
		delete(ms.trees, name)
		return nil
	})
}

func (ms *memoryStore) Close(ctx context.Context) error {
	return nil
}

func (ms *memoryStore) withLock(ctx context.Context, f func(ctx context.Context) error) error {
	gotLock := make(chan struct{})
	go func() {
		ms.lock.Lock()
		select {
		case <-ctx.Done():
			ms.lock.Unlock()
		case gotLock <- struct{}{}:
		}
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-gotLock:
		defer ms.lock.Unlock()
	}
	return f(ctx)
}

func (ms *memoryStore) withRLock(ctx context.Context, f func(ctx context.Context) error) error {
	gotLock := make(chan struct{})
	go func() {
		ms.lock.RLock()
		select {
		case <-ctx.Done():
			ms.lock.RUnlock()
		case gotLock <- struct{}{}:
		}
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-gotLock:
		defer ms.lock.RUnlock()
	}
	return f(ctx)
}

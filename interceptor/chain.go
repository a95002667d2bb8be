package interceptor

import (
	"sync"
)

// Chain is an ordered list of interceptors. All methods are safe for
// concurrent use; RunAll works on a snapshot and holds no lock while
// interceptors run.
type Chain[R any] struct {
	mu    sync.RWMutex
	items []Interceptor[R]
	ids   map[ID]struct{}
}

// NewChain creates an empty chain.
func NewChain[R any]() *Chain[R] {
	return &Chain[R]{ids: make(map[ID]struct{})}
}

// Add appends i to the tail. It returns false, leaving the chain unchanged,
// if an interceptor with the same id is already present.
func (c *Chain[R]) Add(i Interceptor[R]) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.claim(i) {
		return false
	}
	c.items = append(c.items, i)
	return true
}

// AddFront prepends i so it runs before everything already in the chain.
func (c *Chain[R]) AddFront(i Interceptor[R]) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.claim(i) {
		return false
	}
	c.items = append([]Interceptor[R]{i}, c.items...)
	return true
}

// AddFunc wraps fn, appends it and returns it for later removal.
func (c *Chain[R]) AddFunc(fn func(R) error) Interceptor[R] {
	f := NewFunc(fn)
	c.Add(f)
	return f
}

// Remove removes the interceptor with i's id. It is a no-op if absent.
func (c *Chain[R]) Remove(i Interceptor[R]) bool {
	return c.RemoveID(i.ID())
}

// RemoveID removes the interceptor with the given id.
func (c *Chain[R]) RemoveID(id ID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.ids[id]; !ok {
		return false
	}
	delete(c.ids, id)
	for idx, it := range c.items {
		if it.ID() == id {
			c.items = append(c.items[:idx:idx], c.items[idx+1:]...)
			break
		}
	}
	return true
}

// RunAll invokes every interceptor in order against req and returns the
// first error unchanged. Mutations made by interceptors that ran before the
// failure are kept.
func (c *Chain[R]) RunAll(req R) error {
	for _, i := range c.Snapshot() {
		if err := i.Intercept(req); err != nil {
			return err
		}
	}
	return nil
}

// Snapshot returns a copy of the current order.
func (c *Chain[R]) Snapshot() []Interceptor[R] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Interceptor[R], len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of interceptors.
func (c *Chain[R]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Contains reports whether an interceptor with id is in the chain.
func (c *Chain[R]) Contains(id ID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.ids[id]
	return ok
}

// Clear removes every interceptor.
func (c *Chain[R]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.ids = make(map[ID]struct{})
}

// claim records i's id; caller holds the write lock.
func (c *Chain[R]) claim(i Interceptor[R]) bool {
	if c.ids == nil {
		c.ids = make(map[ID]struct{})
	}
	id := i.ID()
	if _, dup := c.ids[id]; dup {
		return false
	}
	c.ids[id] = struct{}{}
	return true
}

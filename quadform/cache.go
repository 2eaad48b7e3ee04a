package quadform

import (
	"sync"
)

// Cache memoizes reduced form representatives per discriminant. A single
// isogeny class computation asks for the same class group many times, and
// callers computing several classes can share one cache across them.
//
// The zero value is not usable; use NewCache.
type Cache struct {
	mu    sync.RWMutex
	forms map[int64][]Form
}

// NewCache returns an empty class group cache.
func NewCache() *Cache {
	return &Cache{forms: make(map[int64][]Form)}
}

// ReducedForms returns the reduced primitive forms of discriminant d,
// computing and retaining them on first use.
func (c *Cache) ReducedForms(d int64) ([]Form, error) {
	c.mu.RLock()
	forms, ok := c.forms[d]
	c.mu.RUnlock()
	if ok {
		return forms, nil
	}
	forms, err := ReducedForms(d)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.forms[d] = forms
	c.mu.Unlock()
	return forms, nil
}

// Len returns the number of cached discriminants.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.forms)
}

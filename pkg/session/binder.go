package session

import "sync"

// Binder attaches the global move and up listeners a drag needs. Bind is
// called once when a drag begins; the returned function detaches them and
// is called exactly once when the drag ends.
type Binder interface {
	Bind() (release func())
}

// BinderFunc adapts a function to [Binder].
type BinderFunc func() (release func())

// Bind calls f.
func (f BinderFunc) Bind() func() { return f() }

// NopBinder acquires nothing.
var NopBinder Binder = BinderFunc(func() func() { return func() {} })

// Counter is a [Binder] that tracks how many acquisitions are outstanding.
// Hosts without real listeners use it to assert that every drag released
// what it acquired.
type Counter struct {
	mu       sync.Mutex
	active   int
	acquired int
}

// Bind records an acquisition. The returned release is idempotent.
func (c *Counter) Bind() func() {
	c.mu.Lock()
	c.active++
	c.acquired++
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			c.active--
			c.mu.Unlock()
		})
	}
}

// Active returns the number of acquisitions not yet released.
func (c *Counter) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Acquired returns the total number of acquisitions.
func (c *Counter) Acquired() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.acquired
}

// Package gate provides an at-most-once invocation guard with an
// observable "has fired" state.
package gate

import "sync"

// Gate wraps a zero-argument operation so it runs at most once. The
// zero value is ready to use. Unlike sync.Once, a Gate exposes whether
// it already fired, and Do reports whether this call was the one that
// ran the operation.
type Gate struct {
	mu    sync.Mutex
	fired bool
}

// Do invokes fn unless the gate already fired. It returns true together
// with fn's error when fn ran, and false otherwise. A failed fn still
// counts as fired.
func (g *Gate) Do(fn func() error) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.fired {
		return false, nil
	}
	g.fired = true

	return true, fn()
}

// HasFired reports whether the gate already ran its operation.
func (g *Gate) HasFired() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.fired
}

// Reset arms the gate again.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.fired = false
}

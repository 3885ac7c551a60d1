package query

import "sync/atomic"

// Holder publishes the engine of the most recently built model. Readers get
// a consistent engine; a rebuild swaps the whole engine at once.
type Holder struct {
	current atomic.Pointer[Engine]
}

// Load returns the current engine, or nil before the first Store
func (h *Holder) Load() *Engine {
	return h.current.Load()
}

// Store publishes e
func (h *Holder) Store(e *Engine) {
	h.current.Store(e)
}

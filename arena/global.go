package arena

import (
	"sync"
	"sync/atomic"
)

var (
	global     atomic.Pointer[Arena]
	globalInit sync.Mutex
)

// Global returns the process-wide arena, constructing it on first use with
// double-checked initialization: an atomic fast-path load, and only on a
// miss the init lock plus a recheck. The instance is intentionally never
// torn down, so code running during other subsystems' shutdown can still
// release memory through it. Its bookkeeping lives on the Go heap, outside
// the arena's own allocation path.
func Global() *Arena {
	if a := global.Load(); a != nil {
		return a
	}

	globalInit.Lock()
	defer globalInit.Unlock()

	if a := global.Load(); a != nil {
		return a
	}
	a := NewArena()
	global.Store(a)
	return a
}

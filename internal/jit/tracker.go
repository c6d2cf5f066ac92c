package jit

// ResourceTracker owns the functions loaded through it. Removing the
// tracker unloads them all at once.
type ResourceTracker struct {
	e       *Engine
	id      int
	syms    []*Symbol
	removed bool
}

// NewResourceTracker returns an empty tracker.
func (e *Engine) NewResourceTracker() *ResourceTracker {
	e.mu.Lock()
	defer e.mu.Unlock()
	rt := &ResourceTracker{e: e, id: e.trackers}
	e.trackers++
	return rt
}

// DefaultTracker returns the tracker used by AddModule when none is given.
func (e *Engine) DefaultTracker() *ResourceTracker { return e.def }

// ID returns a number identifying the tracker within its engine.
func (rt *ResourceTracker) ID() int { return rt.id }

// Remove unloads every function loaded through rt. Their names become
// free for new definitions, and code still holding one of them fails
// when it calls it.
func (rt *ResourceTracker) Remove() error {
	e := rt.e
	e.mu.Lock()
	defer e.mu.Unlock()

	if rt.removed {
		return ErrTrackerRemoved
	}
	rt.removed = true
	for _, sym := range rt.syms {
		sym.unloaded.Store(true)
		if e.syms[sym.name] == sym {
			delete(e.syms, sym.name)
		}
	}
	rt.syms = nil
	return nil
}

// Len returns the number of functions loaded through rt.
func (rt *ResourceTracker) Len() int {
	rt.e.mu.Lock()
	defer rt.e.mu.Unlock()
	return len(rt.syms)
}

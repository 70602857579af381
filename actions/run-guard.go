package actions

import "sync"

// RunGuard allows one run at a time per destination.
type RunGuard struct {
	mu      sync.Mutex
	running map[string]struct{}
}

func NewRunGuard() *RunGuard {
	return &RunGuard{running: make(map[string]struct{})}
}

// TryAcquire marks destination as busy and returns the func that frees it.
// ok is false if a run is already in progress for destination.
func (g *RunGuard) TryAcquire(destination string) (release func(), ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.running[destination]; busy {
		return nil, false
	}
	g.running[destination] = struct{}{}
	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.running, destination)
			g.mu.Unlock()
		})
	}, true
}

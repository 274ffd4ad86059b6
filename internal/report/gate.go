package report

import "sync"

// Gate tracks which requesters have a report in progress so a second
// request is refused until the first settles.
type Gate struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func NewGate() *Gate {
	return &Gate{active: make(map[string]struct{})}
}

// TryAcquire marks key as in progress. It returns false if it already was.
func (g *Gate) TryAcquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.active[key]; busy {
		return false
	}
	g.active[key] = struct{}{}
	return true
}

// Release clears key.
func (g *Gate) Release(key string) {
	g.mu.Lock()
	delete(g.active, key)
	g.mu.Unlock()
}

// InProgress reports whether key currently holds the gate.
func (g *Gate) InProgress(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.active[key]
	return busy
}

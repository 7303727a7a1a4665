// Package launch swaps the splash surface for the main surface once the
// front end reports it is ready.
package launch

import "sync"

// Well-known surface identifiers.
const (
	SplashID = "splashscreen"
	MainID   = "main"
)

// Surface is a top-level window (or window layer) that can be shown or
// hidden. Implementations must tolerate repeated calls.
type Surface interface {
	Show() error
	Hide() error
}

// Visibility of a surface as seen from outside.
type Visibility int

const (
	Hidden Visibility = iota
	Visible
)

func (v Visibility) String() string {
	if v == Visible {
		return "visible"
	}
	return "hidden"
}

// Registry looks surfaces up by identifier. Closing a surface removes it.
type Registry struct {
	mu       sync.RWMutex
	surfaces map[string]Surface
}

func NewRegistry() *Registry {
	return &Registry{surfaces: make(map[string]Surface)}
}

func (r *Registry) Register(id string, s Surface) {
	r.mu.Lock()
	r.surfaces[id] = s
	r.mu.Unlock()
}

func (r *Registry) Lookup(id string) (Surface, bool) {
	r.mu.RLock()
	s, ok := r.surfaces[id]
	r.mu.RUnlock()
	return s, ok
}

func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.surfaces, id)
	r.mu.Unlock()
}

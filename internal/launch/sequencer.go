package launch

import (
	"errors"
	"fmt"
	"log"
	"sync"
)

// ErrMainSurfaceMissing means there is no window left to show the user.
var ErrMainSurfaceMissing = errors.New("launch: main surface not found")

// SurfaceState is the externally observable outcome of the launch handshake.
type SurfaceState struct {
	Splash Visibility `json:"splash"`
	Main   Visibility `json:"main"`
}

type Sequencer struct {
	reg *Registry

	mu       sync.Mutex
	launched bool
}

func NewSequencer(reg *Registry) *Sequencer {
	return &Sequencer{reg: reg}
}

// CompleteLaunch closes the splash surface if it is still there and shows the
// main surface. Calling it again after success changes nothing.
func (s *Sequencer) CompleteLaunch() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if splash, ok := s.reg.Lookup(SplashID); ok {
		if err := splash.Hide(); err != nil {
			log.Printf("LAUNCH: hide splash: %v", err)
		}
		s.reg.Remove(SplashID)
	}

	main, ok := s.reg.Lookup(MainID)
	if !ok {
		log.Printf("LAUNCH: %v", ErrMainSurfaceMissing)
		return ErrMainSurfaceMissing
	}
	if err := main.Show(); err != nil {
		return fmt.Errorf("launch: show main surface: %w", err)
	}

	if !s.launched {
		s.launched = true
		log.Println("LAUNCH: splash closed, main window shown")
	}
	return nil
}

// Launched reports whether CompleteLaunch has succeeded at least once.
func (s *Sequencer) Launched() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.launched
}

// State reports the two end states only; there is nothing in between.
func (s *Sequencer) State() SurfaceState {
	if s.Launched() {
		return SurfaceState{Splash: Hidden, Main: Visible}
	}
	return SurfaceState{Splash: Visible, Main: Hidden}
}

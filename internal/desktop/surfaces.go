package desktop

import (
	"log"
	"sync"

	"github.com/petervdpas/personalcloud/internal/events"
)

// Wails v2 has a single native window. The splash is a layer inside it,
// drawn by the front end, and the window starts at splash size. Revealing the
// main surface grows the window to its working size.

// Publisher is the outbound side of the event bus.
type Publisher interface {
	Publish(channel string, payload any) error
}

// SplashSurface is the front end's splash layer.
type SplashSurface struct {
	pub Publisher

	mu     sync.Mutex
	closed bool
}

func NewSplashSurface(pub Publisher) *SplashSurface {
	return &SplashSurface{pub: pub}
}

// Show is a no-op: the splash is visible from the first paint.
func (s *SplashSurface) Show() error { return nil }

// Hide asks the front end to drop the splash layer. Only the first call emits.
func (s *SplashSurface) Hide() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	if err := s.pub.Publish(events.ChannelSplashClose, nil); err != nil {
		return err
	}
	s.closed = true
	return nil
}

// Window is the native window control a WindowSurface drives. *Runtime
// implements it.
type Window interface {
	ShowWindow(width, height int) error
	HideWindow() error
}

// WindowSurface is the native application window at its working size.
type WindowSurface struct {
	win           Window
	pub           Publisher
	width, height int

	mu      sync.Mutex
	visible bool
}

func NewWindowSurface(win Window, pub Publisher, width, height int) *WindowSurface {
	return &WindowSurface{win: win, pub: pub, width: width, height: height}
}

func (w *WindowSurface) Show() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.visible {
		return nil
	}

	if err := w.win.ShowWindow(w.width, w.height); err != nil {
		return err
	}
	w.visible = true

	// The window is up either way; the front end only uses this as a hint.
	if err := w.pub.Publish(events.ChannelMainShow, nil); err != nil {
		log.Printf("LAUNCH: emit %s: %v", events.ChannelMainShow, err)
	}
	return nil
}

func (w *WindowSurface) Hide() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.visible {
		return nil
	}

	if err := w.win.HideWindow(); err != nil {
		return err
	}
	w.visible = false
	return nil
}

package desktop

import (
	"errors"
	"testing"

	"github.com/petervdpas/personalcloud/internal/events"
)

type countingPublisher struct {
	channels []string
}

func (c *countingPublisher) Publish(channel string, _ any) error {
	c.channels = append(c.channels, channel)
	return nil
}

type failingPublisher struct{}

func (failingPublisher) Publish(string, any) error { return errors.New("bus closed") }

type fakeWindow struct {
	shows, hides  int
	width, height int
}

func (f *fakeWindow) ShowWindow(width, height int) error {
	f.shows++
	f.width, f.height = width, height
	return nil
}

func (f *fakeWindow) HideWindow() error {
	f.hides++
	return nil
}

func TestRuntimeWithoutContext(t *testing.T) {
	var rt Runtime

	if err := rt.Emit(events.ChannelMenu, "refresh"); !errors.Is(err, events.ErrNoTransport) {
		t.Fatalf("Emit: expected ErrNoTransport, got %v", err)
	}
	if err := rt.OpenURL("https://example.org"); !errors.Is(err, events.ErrNoTransport) {
		t.Fatalf("OpenURL: expected ErrNoTransport, got %v", err)
	}
	if _, err := rt.SelectDirectory("pick"); !errors.Is(err, events.ErrNoTransport) {
		t.Fatalf("SelectDirectory: expected ErrNoTransport, got %v", err)
	}
	if err := rt.ShowWindow(800, 600); !errors.Is(err, events.ErrNoTransport) {
		t.Fatalf("ShowWindow: expected ErrNoTransport, got %v", err)
	}
	if err := rt.HideWindow(); !errors.Is(err, events.ErrNoTransport) {
		t.Fatalf("HideWindow: expected ErrNoTransport, got %v", err)
	}
	rt.Quit() // must not panic
}

func TestSplashHideEmitsOnce(t *testing.T) {
	pub := &countingPublisher{}
	s := NewSplashSurface(pub)

	for i := 0; i < 3; i++ {
		if err := s.Hide(); err != nil {
			t.Fatal(err)
		}
	}
	if len(pub.channels) != 1 || pub.channels[0] != events.ChannelSplashClose {
		t.Fatalf("unexpected emissions %v", pub.channels)
	}
}

func TestWindowShowNeedsRuntime(t *testing.T) {
	pub := &countingPublisher{}
	w := NewWindowSurface(&Runtime{}, pub, 1200, 800)

	if err := w.Show(); !errors.Is(err, events.ErrNoTransport) {
		t.Fatalf("expected ErrNoTransport, got %v", err)
	}
	if len(pub.channels) != 0 {
		t.Fatalf("main:show emitted without a window: %v", pub.channels)
	}
	if err := w.Hide(); err != nil {
		t.Fatalf("hiding a hidden window should be a no-op, got %v", err)
	}
}

func TestWindowShowResizesOnce(t *testing.T) {
	win := &fakeWindow{}
	pub := &countingPublisher{}
	w := NewWindowSurface(win, pub, 1200, 800)

	for i := 0; i < 2; i++ {
		if err := w.Show(); err != nil {
			t.Fatal(err)
		}
	}
	if win.shows != 1 || win.width != 1200 || win.height != 800 {
		t.Fatalf("shows=%d size=%dx%d", win.shows, win.width, win.height)
	}
	if len(pub.channels) != 1 || pub.channels[0] != events.ChannelMainShow {
		t.Fatalf("unexpected emissions %v", pub.channels)
	}

	if err := w.Hide(); err != nil {
		t.Fatal(err)
	}
	if win.hides != 1 {
		t.Fatalf("hides=%d", win.hides)
	}
}

func TestWindowShowIgnoresPublishFailure(t *testing.T) {
	win := &fakeWindow{}
	w := NewWindowSurface(win, failingPublisher{}, 1200, 800)

	if err := w.Show(); err != nil {
		t.Fatalf("window is up, Show should succeed: %v", err)
	}
	if err := w.Show(); err != nil || win.shows != 1 {
		t.Fatalf("second Show: err=%v shows=%d", err, win.shows)
	}
}

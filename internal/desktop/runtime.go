// Package desktop adapts the Wails runtime to the small interfaces the rest of
// the application is written against.
package desktop

import (
	"context"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/petervdpas/personalcloud/internal/events"
)

// Runtime holds the context Wails passes to OnStartup. Every runtime call
// needs it; before startup and after shutdown there is nothing to talk to.
type Runtime struct {
	mu  sync.RWMutex
	ctx context.Context
}

func (r *Runtime) Attach(ctx context.Context) {
	r.mu.Lock()
	r.ctx = ctx
	r.mu.Unlock()
}

func (r *Runtime) Detach() {
	r.mu.Lock()
	r.ctx = nil
	r.mu.Unlock()
}

func (r *Runtime) context() (context.Context, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ctx, r.ctx != nil
}

// Emit implements events.Sink.
func (r *Runtime) Emit(channel string, payload any) error {
	ctx, ok := r.context()
	if !ok {
		return events.ErrNoTransport
	}
	runtime.EventsEmit(ctx, channel, payload)
	return nil
}

// Quit ends the Wails event loop; wails.Run then returns and main exits 0.
func (r *Runtime) Quit() {
	if ctx, ok := r.context(); ok {
		runtime.Quit(ctx)
	}
}

func (r *Runtime) OpenURL(url string) error {
	ctx, ok := r.context()
	if !ok {
		return events.ErrNoTransport
	}
	runtime.BrowserOpenURL(ctx, url)
	return nil
}

// SelectDirectory opens a native directory picker. An empty result means the
// user cancelled.
func (r *Runtime) SelectDirectory(title string) (string, error) {
	ctx, ok := r.context()
	if !ok {
		return "", events.ErrNoTransport
	}
	return runtime.OpenDirectoryDialog(ctx, runtime.OpenDialogOptions{Title: title})
}

// ShowWindow resizes, centres and raises the native window.
func (r *Runtime) ShowWindow(width, height int) error {
	ctx, ok := r.context()
	if !ok {
		return events.ErrNoTransport
	}
	runtime.WindowSetSize(ctx, width, height)
	runtime.WindowCenter(ctx)
	runtime.WindowShow(ctx)
	return nil
}

func (r *Runtime) HideWindow() error {
	ctx, ok := r.context()
	if !ok {
		return events.ErrNoTransport
	}
	runtime.WindowHide(ctx)
	return nil
}

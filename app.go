// app.go
package main

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/petervdpas/personalcloud/internal/config"
	"github.com/petervdpas/personalcloud/internal/desktop"
	"github.com/petervdpas/personalcloud/internal/events"
	"github.com/petervdpas/personalcloud/internal/launch"
	"github.com/petervdpas/personalcloud/internal/logbuf"
	"github.com/petervdpas/personalcloud/internal/server"
	"github.com/petervdpas/personalcloud/internal/sidecar"
)

// App is bound to the Wails front end; its exported methods are the
// commands the web UI can invoke.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	rt      *desktop.Runtime
	bus     *events.Bus
	shared  *server.Shared
	seq     *launch.Sequencer
	sidecar *sidecar.Supervisor
	logs    *logbuf.Buffer

	cfgPath string
	cfgMu   sync.Mutex
	cfg     config.Config
}

type appDeps struct {
	Runtime   *desktop.Runtime
	Bus       *events.Bus
	Shared    *server.Shared
	Sequencer *launch.Sequencer
	Sidecar   *sidecar.Supervisor
	Logs      *logbuf.Buffer
	CfgPath   string
	Cfg       config.Config
}

func NewApp(d appDeps) *App {
	return &App{
		rt:      d.Runtime,
		bus:     d.Bus,
		shared:  d.Shared,
		seq:     d.Sequencer,
		sidecar: d.Sidecar,
		logs:    d.Logs,
		cfgPath: d.CfgPath,
		cfg:     d.Cfg,
	}
}

func (a *App) startup(ctx context.Context) {
	a.rt.Attach(ctx)
	a.ctx, a.cancel = context.WithCancel(ctx)

	// Stream the log panel. Errors are dropped on purpose: logging them
	// would feed this same stream.
	go a.logs.Forward(a.ctx, func(e logbuf.Entry) {
		_ = a.bus.Publish(events.ChannelLogLine, e)
	})

	if err := config.Watch(a.ctx, a.cfgPath, a.applyConfig); err != nil {
		log.Printf("CONFIG: hot reload disabled: %v", err)
	}

	if err := a.sidecar.Start(a.ctx, a.shared.Get()); err != nil {
		log.Printf("SIDECAR: %v", err)
	}
}

func (a *App) shutdown(ctx context.Context) {
	log.Println("SHUTDOWN: stopping sidecar")
	if a.cancel != nil {
		a.cancel()
	}
	a.sidecar.Stop()
	a.rt.Detach()
	log.Println("SHUTDOWN: complete")
}

func (a *App) applyConfig(cfg config.Config) {
	a.cfgMu.Lock()
	a.cfg = cfg
	a.cfgMu.Unlock()

	log.Printf("CONFIG: reloaded %s", a.cfgPath)
	if err := a.bus.Publish(events.ChannelConfig, map[string]string{"theme": cfg.UI.Theme}); err != nil {
		log.Printf("CONFIG: emit: %v", err)
	}
}

// -------------------------
// Commands
// -------------------------

// GetServerConfig returns the backend port and bearer token.
func (a *App) GetServerConfig() server.Config {
	return a.shared.Get()
}

// CloseSplashscreen is called by the front end once it is ready to be seen.
func (a *App) CloseSplashscreen() error {
	return a.seq.CompleteLaunch()
}

// GetLogs returns the buffered system log for the log panel.
func (a *App) GetLogs() []logbuf.Entry {
	return a.logs.Snapshot()
}

func (a *App) GetStatus() map[string]string {
	state := a.seq.State()
	return map[string]string{
		"launched": fmt.Sprintf("%v", a.seq.Launched()),
		"splash":   state.Splash.String(),
		"main":     state.Main.String(),
		"sidecar":  string(a.sidecar.State()),
		"runID":    a.sidecar.RunID(),
		"port":     fmt.Sprintf("%d", a.shared.Get().Port),
	}
}

// -------------------------
// Theme
// -------------------------

func (a *App) GetTheme() string {
	a.cfgMu.Lock()
	defer a.cfgMu.Unlock()
	return config.NormalizeTheme(a.cfg.UI.Theme)
}

func (a *App) SetTheme(theme string) error {
	a.cfgMu.Lock()
	defer a.cfgMu.Unlock()

	next := a.cfg
	next.UI.Theme = config.NormalizeTheme(theme)
	if err := config.Save(a.cfgPath, next); err != nil {
		return err
	}
	a.cfg = next
	return nil
}

// -------------------------
// Shell / dialog bridges
// -------------------------

// OpenInBrowser opens a URL in the default browser.
func (a *App) OpenInBrowser(url string) error {
	return a.rt.OpenURL(url)
}

// SelectFolder opens a native directory picker and returns the chosen path.
// Returns empty string if the user cancels.
func (a *App) SelectFolder() (string, error) {
	return a.rt.SelectDirectory("Choose folder")
}

// main.go
package main

import (
	"context"
	"embed"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/petervdpas/personalcloud/internal/config"
	"github.com/petervdpas/personalcloud/internal/desktop"
	"github.com/petervdpas/personalcloud/internal/events"
	"github.com/petervdpas/personalcloud/internal/launch"
	"github.com/petervdpas/personalcloud/internal/logbuf"
	"github.com/petervdpas/personalcloud/internal/menu"
	"github.com/petervdpas/personalcloud/internal/server"
	"github.com/petervdpas/personalcloud/internal/sidecar"
	"github.com/petervdpas/personalcloud/internal/util"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

//go:embed all:frontend/dist
var assets embed.FS

var (
	showHelp = flag.Bool("h", false, "Show help")
	version  = flag.Bool("version", false, "Show version")
	cfgFlag  = flag.String("config", config.DefaultPath, "Path to the settings file")
)

// appVersion is set at build time via -ldflags "-X main.appVersion=x.y.z"
var appVersion = "dev"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("Personal Cloud v%s\n", appVersion)
		return
	}

	if *showHelp {
		showUsage()
		return
	}

	args := flag.Args()

	if len(args) == 0 {
		runDesktopApp(*cfgFlag)
		return
	}

	switch args[0] {
	case "headless":
		runHeadless(*cfgFlag)

	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command '%s'\n", args[0])
		fmt.Fprintln(os.Stderr)
		showUsage()
		os.Exit(1)
	}
}

// boot loads settings, routes the log into the in-memory buffer and mints the
// server credentials. Any failure here means there is no usable environment,
// so it exits before a window exists.
func boot(cfgPath string) (config.Config, *logbuf.Buffer, *server.Shared) {
	cfg, created, err := config.Ensure(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logs := logbuf.New(cfg.Logs.BufferSize)
	log.SetOutput(io.MultiWriter(os.Stderr, logs))

	if created {
		log.Printf("CONFIG: wrote defaults to %s", cfgPath)
	}

	shared, err := server.Bootstrap()
	if err != nil {
		log.Fatalf("Failed to create server config: %v", err)
	}
	return cfg, logs, shared
}

func newSupervisor(cfgPath string, cfg config.Config, pub sidecar.Publisher) *sidecar.Supervisor {
	dir := ""
	if cfg.Sidecar.Dir != "" {
		dir = util.ResolvePath(filepath.Dir(cfgPath), cfg.Sidecar.Dir)
	}
	return sidecar.New(sidecar.Options{
		Command:     cfg.Sidecar.Command,
		Args:        cfg.Sidecar.Args,
		Dir:         dir,
		ReadyMarker: cfg.Sidecar.ReadyMarker,
	}, pub)
}

func runDesktopApp(cfgPath string) {
	cfg, logs, shared := boot(cfgPath)

	rt := &desktop.Runtime{}
	bus := events.NewBus()
	bus.SetSink(rt)

	surfaces := launch.NewRegistry()
	surfaces.Register(launch.SplashID, desktop.NewSplashSurface(bus))
	surfaces.Register(launch.MainID, desktop.NewWindowSurface(rt, bus, cfg.Window.Width, cfg.Window.Height))

	dispatcher := menu.NewDispatcher(bus, rt.Quit)

	app := NewApp(appDeps{
		Runtime:   rt,
		Bus:       bus,
		Shared:    shared,
		Sequencer: launch.NewSequencer(surfaces),
		Sidecar:   newSupervisor(cfgPath, cfg, bus),
		Logs:      logs,
		CfgPath:   cfgPath,
		Cfg:       cfg,
	})

	// The window opens at splash size; CloseSplashscreen grows it.
	err := wails.Run(&options.App{
		Title:  cfg.Window.Title,
		Width:  cfg.Window.SplashWidth,
		Height: cfg.Window.SplashHeight,

		AssetServer: &assetserver.Options{
			Assets: assets,
		},

		Menu: menu.Build(cfg.Window.Title, dispatcher),

		OnStartup:  app.startup,
		OnShutdown: app.shutdown,
		Bind:       []any{app},
	})
	if err != nil {
		log.Fatal(err)
	}
}

// runHeadless starts only the backend sidecar with fresh credentials, for
// working on the backend without the desktop window.
func runHeadless(cfgPath string) {
	cfg, _, shared := boot(cfgPath)

	if cfg.Sidecar.Command == "" {
		log.Fatalf("headless mode needs sidecar.command in %s", cfgPath)
	}

	bus := events.NewBus()
	sup := newSupervisor(cfgPath, cfg, bus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Println("\nShutting down gracefully...")
		cancel()
	}()

	creds := shared.Get()
	fmt.Printf("Backend URL:    %s\n", creds.BaseURL())
	fmt.Printf("Authorization:  %s\n", creds.AuthorizationHeader())
	fmt.Println("Starting backend... (Press Ctrl+C to stop)")
	fmt.Println("────────────────────────────────────────────────────────")

	if err := sup.Start(ctx, creds); err != nil {
		log.Fatalf("Backend failed: %v", err)
	}
	_ = sup.Wait(context.Background())
}

func showUsage() {
	fmt.Println("Personal Cloud")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  personalcloud              Run desktop application (default)")
	fmt.Println("  personalcloud headless     Run only the backend with fresh credentials")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -config   Settings file (default " + config.DefaultPath + ")")
	fmt.Println("  -h        Show this help message")
	fmt.Println("  -version  Show version information")
}

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/petervdpas/personalcloud/internal/util"
)

// DefaultPath is where the desktop app keeps its settings, relative to the
// working directory.
const DefaultPath = "data/app.json"

type Config struct {
	Window  Window  `json:"window"`
	Sidecar Sidecar `json:"sidecar"`
	Logs    Logs    `json:"logs"`
	UI      UI      `json:"ui"`
}

type Window struct {
	Title        string `json:"title"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	SplashWidth  int    `json:"splash_width"`
	SplashHeight int    `json:"splash_height"`
}

// Sidecar describes the backend process started with the server credentials.
// An empty Command disables it.
type Sidecar struct {
	Command string   `json:"command"`
	Args    []string `json:"args"`

	// Working directory, relative to the config file's directory.
	Dir string `json:"dir"`

	// Output line that means the backend is accepting requests.
	ReadyMarker string `json:"ready_marker"`
}

type Logs struct {
	BufferSize int `json:"buffer_size"`
}

type UI struct {
	Theme string `json:"theme"`
}

func Default() Config {
	return Config{
		Window: Window{
			Title:        "Personal Cloud",
			Width:        1200,
			Height:       800,
			SplashWidth:  480,
			SplashHeight: 320,
		},
		Sidecar: Sidecar{
			Command:     "",
			ReadyMarker: "Application startup complete",
		},
		Logs: Logs{
			BufferSize: 800,
		},
		UI: UI{
			Theme: "dark",
		},
	}
}

func (c *Config) Validate() error {
	// Window
	if strings.TrimSpace(c.Window.Title) == "" {
		return errors.New("window.title is required")
	}
	if c.Window.Width < 320 || c.Window.Height < 240 {
		return errors.New("window.width/height must be at least 320x240")
	}
	if c.Window.SplashWidth <= 0 || c.Window.SplashHeight <= 0 {
		return errors.New("window.splash_width/splash_height must be > 0")
	}
	if c.Window.SplashWidth > c.Window.Width || c.Window.SplashHeight > c.Window.Height {
		return errors.New("window splash size must not exceed the main window size")
	}

	// Sidecar
	if strings.TrimSpace(c.Sidecar.Command) != "" && strings.TrimSpace(c.Sidecar.ReadyMarker) == "" {
		return errors.New("sidecar.ready_marker is required when sidecar.command is set")
	}

	// Logs
	if c.Logs.BufferSize < 1 || c.Logs.BufferSize > 100000 {
		return errors.New("logs.buffer_size must be 1..100000")
	}

	// UI
	if c.UI.Theme != "" && NormalizeTheme(c.UI.Theme) != c.UI.Theme {
		return fmt.Errorf("ui.theme must be dark or light, got %q", c.UI.Theme)
	}

	return nil
}

// NormalizeTheme maps anything unknown to "dark".
func NormalizeTheme(t string) string {
	if t == "light" || t == "dark" {
		return t
	}
	return "dark"
}

func Load(path string) (Config, error) {
	cfg, err := LoadPartial(path)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadPartial reads a config file without validation.
func LoadPartial(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	// Strip UTF-8 BOM if present (common when editing JSON on Windows).
	b = stripBOM(b)

	// Start from defaults so missing JSON fields remain initialized.
	cfg := Default()
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func stripBOM(b []byte) []byte {
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		return b[3:]
	}
	return b
}

func Save(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return util.WriteJSONFile(path, cfg)
}

// Ensure loads config if it exists; otherwise creates a default config file.
// Returns (cfg, createdNew, err).
func Ensure(path string) (Config, bool, error) {
	if _, err := os.Stat(path); err == nil {
		cfg, err := Load(path)
		return cfg, false, err
	} else if !os.IsNotExist(err) {
		return Config{}, false, err
	}

	cfg := Default()
	if err := Save(path, cfg); err != nil {
		return Config{}, false, fmt.Errorf("create default config: %w", err)
	}
	return cfg, true, nil
}

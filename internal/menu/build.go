package menu

import (
	goruntime "runtime"

	wailsmenu "github.com/wailsapp/wails/v2/pkg/menu"
	"github.com/wailsapp/wails/v2/pkg/menu/keys"
)

// Build returns the application menu bar. Each item carries its identifier
// into d.Dispatch.
func Build(appName string, d *Dispatcher) *wailsmenu.Menu {
	click := func(id string) wailsmenu.Callback {
		return func(*wailsmenu.CallbackData) { d.Dispatch(id) }
	}

	bar := wailsmenu.NewMenu()

	app := bar.AddSubmenu(appName)
	app.AddText("Quit", keys.CmdOrCtrl("q"), click(IDQuit))

	if goruntime.GOOS == "darwin" {
		// Copy/paste shortcuts only reach the webview through an Edit menu on macOS.
		bar.Append(wailsmenu.EditMenu())
	}

	file := bar.AddSubmenu("File")
	file.AddText("Refresh Files", keys.CmdOrCtrl("r"), click(IDRefresh))

	view := bar.AddSubmenu("View")
	view.AddText("Toggle System Logs", keys.CmdOrCtrl("l"), click(IDToggleLogs))

	return bar
}

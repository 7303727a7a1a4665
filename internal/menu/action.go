// Package menu builds the native menu bar and turns its clicks into signals
// for the front end.
package menu

// Menu item identifiers. The builder assigns them and the dispatcher reads
// them back, so a mismatch is a bug in this package rather than user input.
const (
	IDQuit       = "quit"
	IDRefresh    = "refresh"
	IDToggleLogs = "toggle_logs"
)

// Action is what a menu click does.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionRefresh
	ActionToggleLogs
)

func (a Action) String() string {
	switch a {
	case ActionQuit:
		return "quit"
	case ActionRefresh:
		return "refresh"
	case ActionToggleLogs:
		return "toggle_logs"
	default:
		return "none"
	}
}

// Signal is the payload sent on the menu channel for actions that notify the
// front end. Quit and None have no signal.
func (a Action) Signal() (string, bool) {
	switch a {
	case ActionRefresh:
		return IDRefresh, true
	case ActionToggleLogs:
		return IDToggleLogs, true
	default:
		return "", false
	}
}

var actions = map[string]Action{
	IDQuit:       ActionQuit,
	IDRefresh:    ActionRefresh,
	IDToggleLogs: ActionToggleLogs,
}

// ParseAction maps every identifier to an Action; unknown ones are ActionNone.
func ParseAction(id string) Action {
	if a, ok := actions[id]; ok {
		return a
	}
	return ActionNone
}

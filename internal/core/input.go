package core

// Action represents a semantic platform action, abstracted from physical key
// presses. Hosts map their own input (keys, signals) onto these.
type Action int

const (
	ActionNone       Action = iota
	ActionQuit              // Q, Ctrl+C - end the session
	ActionFullscreen        // F - toggle fullscreen display mode
	ActionScreenshot        // Ctrl+S - dump the logical screen to a file
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionQuit:
		return "Quit"
	case ActionFullscreen:
		return "Fullscreen"
	case ActionScreenshot:
		return "Screenshot"
	default:
		return "Unknown"
	}
}

package carousel

// Command is a manual carousel action.
type Command string

const (
	CommandNext   Command = "next"
	CommandPrev   Command = "prev"
	CommandToggle Command = "toggle"
	CommandGoto   Command = "goto"
)

// KeyCommand maps a keyboard key name to its command.
func KeyCommand(key string) (Command, bool) {
	switch key {
	case "ArrowLeft":
		return CommandPrev, true
	case "ArrowRight":
		return CommandNext, true
	case " ", "Space", "Spacebar":
		return CommandToggle, true
	default:
		return "", false
	}
}

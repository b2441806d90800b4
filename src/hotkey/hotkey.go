// Package hotkey turns raw key events into overlay commands.
package hotkey

import "screen-answer-overlay/src/keys"

// Command is the semantic result of interpreting one key event.
type Command int

const (
	None Command = iota
	Dismiss
	ToggleVisibility
	TriggerDirectAnswer
	TriggerTranscribeThenAnswer
)

func (c Command) String() string {
	switch c {
	case Dismiss:
		return "dismiss"
	case ToggleVisibility:
		return "toggle-visibility"
	case TriggerDirectAnswer:
		return "direct-answer"
	case TriggerTranscribeThenAnswer:
		return "transcribe-then-answer"
	default:
		return "none"
	}
}

// IsTrigger reports whether c starts a capture.
func (c Command) IsTrigger() bool {
	return c == TriggerDirectAnswer || c == TriggerTranscribeThenAnswer
}

// Interpreter tracks whether Control is held. It is not safe for concurrent
// use; the event loop goroutine owns it.
//
// Only ControlLeft sets the held flag (ControlRight dismisses), but releasing
// either Control clears it.
type Interpreter struct {
	controlHeld bool
}

// NewInterpreter returns an interpreter with Control released.
func NewInterpreter() *Interpreter { return &Interpreter{} }

// ControlHeld reports the current modifier level.
func (i *Interpreter) ControlHeld() bool { return i.controlHeld }

// Interpret applies ev to the modifier state and returns the command it maps to.
func (i *Interpreter) Interpret(ev keys.Event) Command {
	switch ev.Kind {
	case keys.Press:
		switch ev.Key {
		case keys.KeyControlLeft:
			i.controlHeld = true
		case keys.KeyControlRight:
			return Dismiss
		case keys.KeyO:
			if i.controlHeld {
				return TriggerTranscribeThenAnswer
			}
		case keys.KeyI:
			if i.controlHeld {
				return TriggerDirectAnswer
			}
		case keys.KeyAlt, keys.KeyAltGr:
			return ToggleVisibility
		}
	case keys.Release:
		if ev.Key == keys.KeyControlLeft || ev.Key == keys.KeyControlRight {
			i.controlHeld = false
		}
	}
	return None
}

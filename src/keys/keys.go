// Package keys defines the key events the overlay reacts to and the per-OS
// rawcode tables that name them. It has no hook dependency.
package keys

import "fmt"

// Key identifies the keys the overlay reacts to. Everything else is
// reported as KeyUnknown with its rawcode kept for diagnostics.
type Key int

const (
	KeyUnknown Key = iota
	KeyControlLeft
	KeyControlRight
	KeyAlt
	KeyAltGr
	KeyO
	KeyI
)

func (k Key) String() string {
	switch k {
	case KeyControlLeft:
		return "ControlLeft"
	case KeyControlRight:
		return "ControlRight"
	case KeyAlt:
		return "Alt"
	case KeyAltGr:
		return "AltGr"
	case KeyO:
		return "KeyO"
	case KeyI:
		return "KeyI"
	default:
		return "Unknown"
	}
}

// Kind is the edge of a key event.
type Kind int

const (
	Press Kind = iota + 1
	Release
)

func (k Kind) String() string {
	switch k {
	case Press:
		return "press"
	case Release:
		return "release"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Event is one raw key transition as reported by the OS hook.
type Event struct {
	Kind    Kind
	Key     Key
	Rawcode uint16
}

func (e Event) String() string {
	if e.Key == KeyUnknown {
		return fmt.Sprintf("%s %s(%d)", e.Kind, e.Key, e.Rawcode)
	}
	return fmt.Sprintf("%s %s", e.Kind, e.Key)
}

// Pressed builds a press event for k.
func Pressed(k Key) Event { return Event{Kind: Press, Key: k} }

// Released builds a release event for k.
func Released(k Key) Event { return Event{Kind: Release, Key: k} }

// FromRawcode names the hook rawcode raw, or returns KeyUnknown.
func FromRawcode(raw uint16) Key {
	if k, ok := rawcodeKeys[raw]; ok {
		return k
	}
	return KeyUnknown
}

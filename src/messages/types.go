// Package messages defines the UI messages consumed by the overlay reducer.
// They are the only way overlay state changes.
package messages

// Message is the base interface for all overlay messages.
type Message interface {
	Type() string
}

// MessageType constants for type identification in logs.
const (
	TypeShowText         = "ShowText"
	TypeSetIndicator     = "SetIndicator"
	TypeToggleVisibility = "ToggleVisibility"
)

// Indicator is the overlay status shown while no answer text is displayed.
type Indicator int

const (
	Idle Indicator = iota
	Loading
	Error
)

func (i Indicator) String() string {
	switch i {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// ShowText replaces the displayed text. A nil Text clears it.
type ShowText struct {
	Text *string
}

func (m ShowText) Type() string { return TypeShowText }

// SetIndicator replaces the overlay status indicator.
type SetIndicator struct {
	Indicator Indicator
}

func (m SetIndicator) Type() string { return TypeSetIndicator }

// ToggleVisibility flips overlay visibility.
type ToggleVisibility struct{}

func (m ToggleVisibility) Type() string { return TypeToggleVisibility }

// Text returns a ShowText carrying s.
func Text(s string) ShowText { return ShowText{Text: &s} }

// ClearText returns a ShowText that clears the displayed text.
func ClearText() ShowText { return ShowText{} }

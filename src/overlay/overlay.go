// Package overlay holds the overlay state machine: a pure reducer over
// messages.Message and a pure render policy.
package overlay

import (
	"image/color"

	"screen-answer-overlay/src/messages"
)

// Indicator tag colors.
var (
	IdleColor    = rgb(0.996, 0.871, 0.545)
	LoadingColor = rgb(0.0, 0.5, 0.0)
	ErrorColor   = rgb(0.8, 0.0, 0.0)
)

// TagSize is the edge length in pixels of the indicator tag.
const TagSize = 25

// Answer text style.
const TextSize = 20

var TextColor color.Color = color.Black

// State is the whole overlay state. The zero value is not the initial
// state; use Initial.
type State struct {
	Visible   bool
	Text      *string
	Indicator messages.Indicator
}

// Initial is the state the overlay starts in.
func Initial() State {
	return State{Visible: true, Indicator: messages.Idle}
}

// Reduce returns the state after applying msg. Unknown messages leave the
// state unchanged.
func Reduce(s State, msg messages.Message) State {
	switch m := msg.(type) {
	case messages.ShowText:
		s.Text = copyText(m.Text)
	case messages.SetIndicator:
		s.Indicator = m.Indicator
	case messages.ToggleVisibility:
		s.Visible = !s.Visible
	}
	return s
}

// View is what the presentation layer should show for a state.
type View struct {
	Visible bool
	// HasText selects between the text body and the indicator tag.
	HasText bool
	Text    string
	Tint    color.Color
}

// Render maps state to a view.
func Render(s State) View {
	if !s.Visible {
		return View{Tint: color.Transparent}
	}
	if s.Text != nil {
		return View{Visible: true, HasText: true, Text: *s.Text, Tint: color.Transparent}
	}
	return View{Visible: true, Tint: IndicatorColor(s.Indicator)}
}

// IndicatorColor returns the tag color for i.
func IndicatorColor(i messages.Indicator) color.Color {
	switch i {
	case messages.Loading:
		return LoadingColor
	case messages.Error:
		return ErrorColor
	default:
		return IdleColor
	}
}

func copyText(t *string) *string {
	if t == nil {
		return nil
	}
	s := *t
	return &s
}

func rgb(r, g, b float64) color.NRGBA {
	return color.NRGBA{R: channel(r), G: channel(g), B: channel(b), A: 0xff}
}

func channel(v float64) uint8 {
	return uint8(v*255 + 0.5)
}

package gui

import (
	"image/color"

	"github.com/rs/zerolog"

	"screen-answer-overlay/src/overlay"
)

// Headless is a presenter that writes every repaint to the log instead of a
// window. Identical consecutive frames are logged once.
type Headless struct {
	log     zerolog.Logger
	text    string
	tint    color.Color
	lastKey string
}

func NewHeadless(log zerolog.Logger) *Headless {
	return &Headless{log: log.With().Str("component", "overlay").Logger()}
}

func (h *Headless) SetBodyText(text string) { h.text = text }

func (h *Headless) SetBackgroundTint(c color.Color) { h.tint = c }

func (h *Headless) SetVisible(visible bool) {
	key := "hidden"
	if visible {
		key = "tag:" + tintName(h.tint)
		if h.text != "" {
			key = "text:" + h.text
		}
	}
	if key == h.lastKey {
		return
	}
	h.lastKey = key

	ev := h.log.Info().Bool("visible", visible)
	switch {
	case !visible:
	case h.text != "":
		ev = ev.Str("text", h.text)
	default:
		ev = ev.Str("indicator", tintName(h.tint))
	}
	ev.Msg("overlay repainted")
}

func tintName(c color.Color) string {
	switch c {
	case overlay.IdleColor:
		return "idle"
	case overlay.LoadingColor:
		return "loading"
	case overlay.ErrorColor:
		return "error"
	default:
		return "none"
	}
}

package overlay

import "image/color"

// Presenter is the presentation collaborator. Calls must be idempotent; the
// loop repaints the full view after every message.
type Presenter interface {
	SetVisible(visible bool)
	SetBackgroundTint(c color.Color)
	SetBodyText(text string)
}

// Paint pushes v to p.
func Paint(p Presenter, v View) {
	if !v.Visible {
		p.SetVisible(false)
		return
	}
	p.SetBodyText(v.Text)
	p.SetBackgroundTint(v.Tint)
	p.SetVisible(true)
}

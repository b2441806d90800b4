package gui

import (
	"image/color"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"screen-answer-overlay/src/overlay"
)

func TestOverlayPaintsTextAndTag(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	o := newOverlay(a, Options{Log: zerolog.Nop()})

	overlay.Paint(o, overlay.View{Visible: true, HasText: true, Text: "42", Tint: color.Transparent})
	assert.Equal(t, "42", o.body.Text)
	assert.True(t, o.body.Visible())
	assert.Equal(t, color.Color(color.Transparent), o.bg.FillColor)

	overlay.Paint(o, overlay.View{Visible: true, Tint: overlay.ErrorColor})
	assert.False(t, o.body.Visible())
	assert.Equal(t, color.Color(overlay.ErrorColor), o.bg.FillColor)
}

func TestOverlayQuitRunsCallbackOnce(t *testing.T) {
	a := test.NewApp()
	calls := 0
	o := newOverlay(a, Options{OnQuit: func() { calls++ }, Log: zerolog.Nop()})

	o.Quit()
	o.Quit()
	assert.Equal(t, 1, calls)
}

func TestAnswerTextIsBlackAtOverlaySize(t *testing.T) {
	th := answerTheme{theme.DefaultTheme()}

	for _, v := range []fyne.ThemeVariant{theme.VariantDark, theme.VariantLight} {
		assert.Equal(t, overlay.TextColor, th.Color(theme.ColorNameForeground, v))
		assert.Equal(t, theme.DefaultTheme().Color(theme.ColorNameBackground, v), th.Color(theme.ColorNameBackground, v))
	}
	assert.Equal(t, float32(20), th.Size(theme.SizeNameText))
	assert.Equal(t, theme.DefaultTheme().Size(theme.SizeNamePadding), th.Size(theme.SizeNamePadding))
}

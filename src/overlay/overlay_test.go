package overlay

import (
	"image/color"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screen-answer-overlay/src/messages"
)

func TestInitial(t *testing.T) {
	s := Initial()
	assert.True(t, s.Visible)
	assert.Nil(t, s.Text)
	assert.Equal(t, messages.Idle, s.Indicator)
}

func TestReduce(t *testing.T) {
	s := Reduce(Initial(), messages.SetIndicator{Indicator: messages.Loading})
	assert.Equal(t, messages.Loading, s.Indicator)

	s = Reduce(s, messages.Text("42"))
	require.NotNil(t, s.Text)
	assert.Equal(t, "42", *s.Text)
	assert.Equal(t, messages.Loading, s.Indicator, "ShowText must not touch the indicator")

	s = Reduce(s, messages.ClearText())
	assert.Nil(t, s.Text)

	s = Reduce(s, messages.ToggleVisibility{})
	assert.False(t, s.Visible)
}

func TestReduceDoesNotAliasMessageText(t *testing.T) {
	text := "first"
	s := Reduce(Initial(), messages.ShowText{Text: &text})
	text = "mutated"

	require.NotNil(t, s.Text)
	assert.Equal(t, "first", *s.Text)
}

func TestToggleTwiceRestoresVisibility(t *testing.T) {
	for _, start := range []bool{true, false} {
		s := Initial()
		s.Visible = start
		s = Reduce(Reduce(s, messages.ToggleVisibility{}), messages.ToggleVisibility{})
		assert.Equal(t, start, s.Visible)
	}
}

func TestReduceIsDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	msgs := make([]messages.Message, 0, 500)
	for i := 0; i < 500; i++ {
		switch rng.Intn(4) {
		case 0:
			msgs = append(msgs, messages.Text("answer"))
		case 1:
			msgs = append(msgs, messages.ClearText())
		case 2:
			msgs = append(msgs, messages.SetIndicator{Indicator: messages.Indicator(rng.Intn(3))})
		default:
			msgs = append(msgs, messages.ToggleVisibility{})
		}
	}

	run := func() State {
		s := Initial()
		for _, m := range msgs {
			s = Reduce(s, m)
		}
		return s
	}

	assert.Equal(t, run(), run())
}

func TestRender(t *testing.T) {
	hidden := Initial()
	hidden.Visible = false
	hidden.Text = ptr("ignored")
	assert.Equal(t, View{Tint: color.Transparent}, Render(hidden))

	withText := Initial()
	withText.Text = ptr("B")
	withText.Indicator = messages.Error
	assert.Equal(t, View{Visible: true, HasText: true, Text: "B", Tint: color.Transparent}, Render(withText))

	for ind, want := range map[messages.Indicator]color.Color{
		messages.Idle:    IdleColor,
		messages.Loading: LoadingColor,
		messages.Error:   ErrorColor,
	} {
		s := Initial()
		s.Indicator = ind
		v := Render(s)
		assert.True(t, v.Visible)
		assert.False(t, v.HasText)
		assert.Equal(t, want, v.Tint, ind.String())
	}
}

func TestIndicatorColors(t *testing.T) {
	assert.Equal(t, color.NRGBA{R: 254, G: 222, B: 139, A: 255}, IdleColor)
	assert.Equal(t, color.NRGBA{R: 0, G: 128, B: 0, A: 255}, LoadingColor)
	assert.Equal(t, color.NRGBA{R: 204, G: 0, B: 0, A: 255}, ErrorColor)
}

type recordingPresenter struct {
	visible bool
	tint    color.Color
	text    string
	calls   int
}

func (r *recordingPresenter) SetVisible(v bool)               { r.visible = v; r.calls++ }
func (r *recordingPresenter) SetBackgroundTint(c color.Color) { r.tint = c; r.calls++ }
func (r *recordingPresenter) SetBodyText(s string)            { r.text = s; r.calls++ }

func TestPaint(t *testing.T) {
	p := &recordingPresenter{}
	Paint(p, Render(Initial()))
	assert.True(t, p.visible)
	assert.Equal(t, IdleColor, p.tint)
	assert.Empty(t, p.text)

	hidden := Initial()
	hidden.Visible = false
	Paint(p, Render(hidden))
	assert.False(t, p.visible)
}

func ptr(s string) *string { return &s }

package hotkey

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"screen-answer-overlay/src/keys"
)

func TestInterpret(t *testing.T) {
	tests := []struct {
		name     string
		held     bool
		event    keys.Event
		expected Command
		heldNext bool
	}{
		{"ctrl left press holds", false, keys.Pressed(keys.KeyControlLeft), None, true},
		{"ctrl right press dismisses", false, keys.Pressed(keys.KeyControlRight), Dismiss, false},
		{"ctrl right press dismisses while held", true, keys.Pressed(keys.KeyControlRight), Dismiss, true},
		{"ctrl+o transcribes", true, keys.Pressed(keys.KeyO), TriggerTranscribeThenAnswer, true},
		{"ctrl+i answers", true, keys.Pressed(keys.KeyI), TriggerDirectAnswer, true},
		{"o alone", false, keys.Pressed(keys.KeyO), None, false},
		{"i alone", false, keys.Pressed(keys.KeyI), None, false},
		{"alt toggles", false, keys.Pressed(keys.KeyAlt), ToggleVisibility, false},
		{"altgr toggles", true, keys.Pressed(keys.KeyAltGr), ToggleVisibility, true},
		{"ctrl left release", true, keys.Released(keys.KeyControlLeft), None, false},
		{"ctrl right release", true, keys.Released(keys.KeyControlRight), None, false},
		{"o release", true, keys.Released(keys.KeyO), None, true},
		{"unknown press", true, keys.Pressed(keys.KeyUnknown), None, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := &Interpreter{controlHeld: tt.held}
			assert.Equal(t, tt.expected, in.Interpret(tt.event))
			assert.Equal(t, tt.heldNext, in.ControlHeld())
		})
	}
}

func TestReleaseOfOtherControlClearsHeld(t *testing.T) {
	in := NewInterpreter()
	in.Interpret(keys.Pressed(keys.KeyControlLeft))
	in.Interpret(keys.Released(keys.KeyControlRight))

	assert.False(t, in.ControlHeld())
	assert.Equal(t, None, in.Interpret(keys.Pressed(keys.KeyI)))
}

// controlHeld is true iff the most recent ControlLeft press has not been
// followed by any Control release.
func TestControlHeldTracksLastControlEdge(t *testing.T) {
	pool := []keys.Key{
		keys.KeyControlLeft, keys.KeyControlRight, keys.KeyAlt,
		keys.KeyAltGr, keys.KeyO, keys.KeyI, keys.KeyUnknown,
	}
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 200; run++ {
		in := NewInterpreter()
		expected := false
		for step := 0; step < 50; step++ {
			ev := keys.Event{Key: pool[rng.Intn(len(pool))], Kind: keys.Press}
			if rng.Intn(2) == 0 {
				ev.Kind = keys.Release
			}

			wasHeld := in.ControlHeld()
			cmd := in.Interpret(ev)

			switch {
			case ev.Kind == keys.Press && ev.Key == keys.KeyControlLeft:
				expected = true
			case ev.Kind == keys.Release && (ev.Key == keys.KeyControlLeft || ev.Key == keys.KeyControlRight):
				expected = false
			}
			assert.Equal(t, expected, in.ControlHeld(), "run %d step %d", run, step)

			if cmd.IsTrigger() {
				assert.True(t, wasHeld, "trigger emitted without control held")
			}
			if ev.Kind == keys.Press && ev.Key == keys.KeyControlRight {
				assert.Equal(t, Dismiss, cmd)
			}
		}
	}
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "direct-answer", TriggerDirectAnswer.String())
	assert.Equal(t, "none", None.String())
	assert.False(t, Dismiss.IsTrigger())
	assert.True(t, TriggerTranscribeThenAnswer.IsTrigger())
}

package keyboard

import (
	"sync"
	"testing"
	"time"

	gohook "github.com/robotn/gohook"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screen-answer-overlay/src/keys"
)

const testEnableTimeout = 100 * time.Millisecond

// fakeHook hands out ch, optionally preloaded with HookEnabled the way
// libuiohook reports a successful registration.
type fakeHook struct {
	ch      chan gohook.Event
	enabled bool
	// stopped closes ch inside Start, as a hook that dies immediately does.
	stopped bool
	once    sync.Once
	ended   chan struct{}
}

func newFakeHook(enabled bool) *fakeHook {
	return &fakeHook{ch: make(chan gohook.Event, 16), enabled: enabled, ended: make(chan struct{})}
}

func (f *fakeHook) Start() chan gohook.Event {
	if f.enabled {
		f.ch <- gohook.Event{Kind: gohook.HookEnabled}
	}
	if f.stopped {
		f.once.Do(func() { close(f.ch) })
	}
	return f.ch
}

func (f *fakeHook) End() {
	f.once.Do(func() {
		if f.ch != nil {
			close(f.ch)
		}
		if f.ended != nil {
			close(f.ended)
		}
	})
}

func rawcodeFor(t *testing.T, k keys.Key) uint16 {
	t.Helper()
	for raw := 0; raw <= 0xffff; raw++ {
		if keys.FromRawcode(uint16(raw)) == k {
			return uint16(raw)
		}
	}
	t.Skipf("no rawcode for %s on this platform", k)
	return 0
}

func receive(t *testing.T, ch <-chan keys.Event) keys.Event {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "event stream closed early")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for key event")
		return keys.Event{}
	}
}

func TestStartFailsOnNilChannel(t *testing.T) {
	src := newSource(&fakeHook{}, testEnableTimeout, zerolog.Nop())

	ch, err := src.Start()
	assert.ErrorIs(t, err, ErrHookUnavailable)
	assert.Nil(t, ch)
}

func TestStartFailsWhenHookNeverEnables(t *testing.T) {
	h := newFakeHook(false)
	src := newSource(h, testEnableTimeout, zerolog.Nop())

	ch, err := src.Start()
	require.ErrorIs(t, err, ErrHookUnavailable)
	assert.Contains(t, err.Error(), "not enabled within")
	assert.Nil(t, ch)

	select {
	case <-h.ended:
	case <-time.After(2 * time.Second):
		t.Fatal("hook not ended after failed registration")
	}
}

func TestStartFailsWhenChannelClosesBeforeEnabled(t *testing.T) {
	h := newFakeHook(false)
	h.stopped = true
	src := newSource(h, time.Minute, zerolog.Nop())

	_, err := src.Start()
	require.ErrorIs(t, err, ErrHookUnavailable)
	assert.Contains(t, err.Error(), "stopped before it was enabled")
}

func TestStartFailsWhenHookDisabledDuringRegistration(t *testing.T) {
	h := newFakeHook(false)
	h.ch <- gohook.Event{Kind: gohook.HookDisabled}
	src := newSource(h, time.Minute, zerolog.Nop())

	_, err := src.Start()
	assert.ErrorIs(t, err, ErrHookUnavailable)
}

func TestStartTwiceFails(t *testing.T) {
	h := newFakeHook(true)
	src := newSource(h, testEnableTimeout, zerolog.Nop())
	defer src.Stop()

	_, err := src.Start()
	require.NoError(t, err)
	_, err = src.Start()
	assert.Error(t, err)
}

func TestSourceForwardsTranslatedEvents(t *testing.T) {
	ctrl := rawcodeFor(t, keys.KeyControlLeft)
	keyI := rawcodeFor(t, keys.KeyI)

	h := newFakeHook(true)
	src := newSource(h, testEnableTimeout, zerolog.Nop())
	events, err := src.Start()
	require.NoError(t, err)

	h.ch <- gohook.Event{Kind: gohook.KeyHold, Rawcode: ctrl}
	h.ch <- gohook.Event{Kind: gohook.MouseMove}
	h.ch <- gohook.Event{Kind: gohook.HookEnabled}
	h.ch <- gohook.Event{Kind: gohook.KeyHold, Rawcode: keyI}
	h.ch <- gohook.Event{Kind: gohook.KeyDown, Rawcode: keyI}
	h.ch <- gohook.Event{Kind: gohook.KeyUp, Rawcode: ctrl}

	assert.Equal(t, keys.Event{Kind: keys.Press, Key: keys.KeyControlLeft, Rawcode: ctrl}, receive(t, events))
	assert.Equal(t, keys.Event{Kind: keys.Press, Key: keys.KeyI, Rawcode: keyI}, receive(t, events))
	assert.Equal(t, keys.Event{Kind: keys.Release, Key: keys.KeyControlLeft, Rawcode: ctrl}, receive(t, events))

	src.Stop()
	select {
	case _, ok := <-events:
		assert.False(t, ok, "stream should close after Stop")
	case <-time.After(2 * time.Second):
		t.Fatal("event stream not closed after Stop")
	}
}

func TestKeyEventsBeforeEnabledAreForwarded(t *testing.T) {
	keyO := rawcodeFor(t, keys.KeyO)

	h := newFakeHook(false)
	h.ch <- gohook.Event{Kind: gohook.KeyHold, Rawcode: keyO}
	h.ch <- gohook.Event{Kind: gohook.HookEnabled}
	src := newSource(h, testEnableTimeout, zerolog.Nop())
	defer src.Stop()

	events, err := src.Start()
	require.NoError(t, err)
	assert.Equal(t, keys.KeyO, receive(t, events).Key)
}

func TestTranslatorDropsTypedDuplicate(t *testing.T) {
	var tr translator

	_, ok := tr.translate(gohook.Event{Kind: gohook.KeyHold, Rawcode: 1})
	assert.True(t, ok)
	_, ok = tr.translate(gohook.Event{Kind: gohook.KeyDown, Rawcode: 1})
	assert.False(t, ok, "typed event after pressed event is a duplicate")

	// Auto-repeat produces a fresh pressed/typed pair.
	_, ok = tr.translate(gohook.Event{Kind: gohook.KeyHold, Rawcode: 1})
	assert.True(t, ok)
	_, ok = tr.translate(gohook.Event{Kind: gohook.KeyDown, Rawcode: 1})
	assert.False(t, ok)

	// Backends that only report typed events still produce presses.
	_, ok = tr.translate(gohook.Event{Kind: gohook.KeyDown, Rawcode: 2})
	assert.True(t, ok)
	_, ok = tr.translate(gohook.Event{Kind: gohook.KeyDown, Rawcode: 2})
	assert.True(t, ok)

	ev, ok := tr.translate(gohook.Event{Kind: gohook.KeyUp, Rawcode: 2})
	assert.True(t, ok)
	assert.Equal(t, keys.Release, ev.Kind)
}

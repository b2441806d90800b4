// Package keyboard bridges the process-wide keyboard hook into a typed event
// stream that a single consumer goroutine can select on.
package keyboard

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	gohook "github.com/robotn/gohook"
	"github.com/rs/zerolog"

	"screen-answer-overlay/src/keys"
	"screen-answer-overlay/src/queue"
)

// ErrHookUnavailable means the OS refused or failed to install the global hook.
var ErrHookUnavailable = errors.New("global keyboard hook unavailable")

// DefaultEnableTimeout bounds how long Start waits for the hook to report
// that it is running.
const DefaultEnableTimeout = 5 * time.Second

// Hook is the process-wide hook backend. gohook is the only production one.
// A backend reports successful registration by sending a HookEnabled event.
type Hook interface {
	Start() chan gohook.Event
	End()
}

type gohookBackend struct{}

func (gohookBackend) Start() chan gohook.Event { return gohook.Start() }
func (gohookBackend) End()                     { gohook.End() }

// Source owns the hook goroutine. The goroutine never touches overlay state;
// it only pushes onto the event queue.
type Source struct {
	hook          Hook
	events        *queue.Queue[keys.Event]
	enableTimeout time.Duration
	log           zerolog.Logger

	mu      sync.Mutex
	started bool
}

// NewSource returns a Source backed by gohook.
func NewSource(log zerolog.Logger) *Source {
	return newSource(gohookBackend{}, DefaultEnableTimeout, log)
}

func newSource(h Hook, enableTimeout time.Duration, log zerolog.Logger) *Source {
	return &Source{
		hook:          h,
		events:        queue.New[keys.Event](),
		enableTimeout: enableTimeout,
		log:           log.With().Str("component", "keyboard").Logger(),
	}
}

// Start installs the hook on a dedicated goroutine and waits until the
// backend reports HookEnabled. A closed channel, a nil channel or no
// HookEnabled within the enable timeout yields ErrHookUnavailable.
// It may be called once.
func (s *Source) Start() (<-chan keys.Event, error) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil, errors.New("keyboard source already started")
	}
	s.started = true
	s.mu.Unlock()

	ready := make(chan error, 1)
	go s.listen(ready)
	if err := <-ready; err != nil {
		s.events.Close()
		return nil, err
	}
	return s.events.Out(), nil
}

// Stop ends the hook and closes the event stream.
func (s *Source) Stop() {
	s.hook.End()
	s.events.Close()
}

func (s *Source) listen(ready chan<- error) {
	// libuiohook blocks its calling thread for the lifetime of the hook.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	reported := false
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Msg("keyboard hook goroutine panicked")
			if !reported {
				ready <- fmt.Errorf("%w: %v", ErrHookUnavailable, r)
			}
		}
		s.events.Close()
	}()

	s.log.Debug().Msg("starting gohook")
	evChan := s.hook.Start()
	if evChan == nil {
		reported = true
		ready <- ErrHookUnavailable
		return
	}

	var tr translator
	err := s.awaitEnabled(evChan, &tr)
	reported = true
	ready <- err
	if err != nil {
		s.log.Error().Err(err).Msg("keyboard hook failed to register")
		s.hook.End()
		return
	}
	s.log.Info().Msg("keyboard hook registered")

	for raw := range evChan {
		switch raw.Kind {
		case gohook.HookEnabled:
			s.log.Debug().Msg("keyboard hook re-enabled")
			continue
		case gohook.HookDisabled:
			s.log.Warn().Msg("keyboard hook disabled")
			continue
		}
		s.forward(&tr, raw)
	}
	s.log.Info().Msg("keyboard hook channel closed")
}

// awaitEnabled consumes events until the backend reports HookEnabled. Key
// events seen earlier are still forwarded.
func (s *Source) awaitEnabled(evChan <-chan gohook.Event, tr *translator) error {
	timer := time.NewTimer(s.enableTimeout)
	defer timer.Stop()

	for {
		select {
		case raw, ok := <-evChan:
			if !ok {
				return fmt.Errorf("%w: hook stopped before it was enabled", ErrHookUnavailable)
			}
			switch raw.Kind {
			case gohook.HookEnabled:
				return nil
			case gohook.HookDisabled:
				return fmt.Errorf("%w: hook disabled during registration", ErrHookUnavailable)
			}
			s.forward(tr, raw)
		case <-timer.C:
			return fmt.Errorf("%w: not enabled within %s", ErrHookUnavailable, s.enableTimeout)
		}
	}
}

func (s *Source) forward(tr *translator, raw gohook.Event) {
	ev, ok := tr.translate(raw)
	if !ok {
		return
	}
	if err := s.events.Push(ev); err != nil {
		s.log.Warn().Err(err).Stringer("key", ev.Key).Stringer("kind", ev.Kind).Msg("dropping key event")
	}
}

// translator turns gohook key events into key events. libuiohook may report
// a key as both "pressed" (KeyHold) and "typed" (KeyDown); the second of such
// a pair is dropped so one physical press yields one Press event.
type translator struct {
	havePress bool
	lastRaw   uint16
	lastKind  uint8
}

func (t *translator) translate(ev gohook.Event) (keys.Event, bool) {
	switch ev.Kind {
	case gohook.KeyHold, gohook.KeyDown:
		if t.havePress && t.lastRaw == ev.Rawcode && t.lastKind != ev.Kind {
			t.havePress = false
			return keys.Event{}, false
		}
		t.havePress, t.lastRaw, t.lastKind = true, ev.Rawcode, ev.Kind
		return keys.Event{Kind: keys.Press, Key: keys.FromRawcode(ev.Rawcode), Rawcode: ev.Rawcode}, true
	case gohook.KeyUp:
		t.havePress = false
		return keys.Event{Kind: keys.Release, Key: keys.FromRawcode(ev.Rawcode), Rawcode: ev.Rawcode}, true
	default:
		return keys.Event{}, false
	}
}

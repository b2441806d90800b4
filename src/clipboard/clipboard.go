package clipboard

import (
	"errors"
	"image/color"
	"sync"

	"github.com/rs/zerolog"
	"golang.design/x/clipboard"

	"screen-answer-overlay/src/overlay"
)

// ErrWriteFailed is returned when the system clipboard rejects a write.
var ErrWriteFailed = errors.New("clipboard write failed")

var (
	writeMu sync.Mutex
	// write is swapped in tests. The library reports a failed write by
	// returning a nil change channel.
	write = func(text string) <-chan struct{} { return clipboard.Write(clipboard.FmtText, []byte(text)) }
)

func Init() error {
	return clipboard.Init()
}

// Write performs a mutex-guarded clipboard write to prevent corruption under parallel writes.
func Write(text string) error {
	writeMu.Lock()
	defer writeMu.Unlock()
	if write(text) == nil {
		return ErrWriteFailed
	}
	return nil
}

// Mirror wraps a presenter and copies every newly shown answer to the
// clipboard. Repaints of the same text are not copied again.
type Mirror struct {
	next overlay.Presenter
	log  zerolog.Logger
	last string
}

func NewMirror(next overlay.Presenter, log zerolog.Logger) *Mirror {
	return &Mirror{next: next, log: log.With().Str("component", "clipboard").Logger()}
}

func (m *Mirror) SetVisible(visible bool) { m.next.SetVisible(visible) }

func (m *Mirror) SetBackgroundTint(c color.Color) { m.next.SetBackgroundTint(c) }

func (m *Mirror) SetBodyText(text string) {
	m.next.SetBodyText(text)
	if text == m.last {
		return
	}
	m.last = text
	if text == "" {
		return
	}
	if err := Write(text); err != nil {
		m.log.Warn().Err(err).Msg("could not copy answer")
		return
	}
	m.log.Debug().Int("chars", len(text)).Msg("answer copied to clipboard")
}

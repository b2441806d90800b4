// Package tray runs a system tray icon for headless mode, where no fyne
// window owns the main thread.
package tray

import (
	"context"

	"github.com/getlantern/systray"
	"github.com/rs/zerolog"
)

type Callbacks struct {
	OnToggle func()
	OnQuit   func()
}

type Tray struct {
	title     string
	callbacks Callbacks
	log       zerolog.Logger
}

func New(title string, callbacks Callbacks, log zerolog.Logger) *Tray {
	return &Tray{title: title, callbacks: callbacks, log: log.With().Str("component", "tray").Logger()}
}

// Run blocks until Quit is chosen or ctx is cancelled. Call it from the main
// goroutine.
func (t *Tray) Run(ctx context.Context) {
	systray.Run(func() { t.onReady(ctx) }, func() { t.log.Debug().Msg("tray exited") })
}

func (t *Tray) onReady(ctx context.Context) {
	systray.SetIcon(platformIcon())
	systray.SetTitle(t.title)
	systray.SetTooltip(t.title)

	toggle := systray.AddMenuItem("Show/Hide", "Toggle the overlay")
	systray.AddSeparator()
	quit := systray.AddMenuItem("Quit", "Quit the application")

	go func() {
		for {
			select {
			case <-ctx.Done():
				systray.Quit()
				return
			case <-toggle.ClickedCh:
				if t.callbacks.OnToggle != nil {
					t.callbacks.OnToggle()
				}
			case <-quit.ClickedCh:
				t.log.Info().Msg("quit requested from tray")
				if t.callbacks.OnQuit != nil {
					t.callbacks.OnQuit()
				}
				systray.Quit()
				return
			}
		}
	}()
}

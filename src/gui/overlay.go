// Package gui hosts the presenters: a fyne overlay window for desktop use
// and a logging presenter for headless runs.
package gui

import (
	"context"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"screen-answer-overlay/src/overlay"
	"screen-answer-overlay/src/tray"
)

const AppID = "io.github.screen-answer-overlay"

var (
	tagSize  = fyne.NewSize(overlay.TagSize, overlay.TagSize)
	textSize = fyne.NewSize(420, 160)
)

type Options struct {
	Title string
	// OnToggle is called from the tray Show/Hide item.
	OnToggle func()
	// OnQuit is called once before the application quits from the tray.
	OnQuit func()
	Log    zerolog.Logger
}

// Overlay is a borderless fyne window showing either the indicator tag or
// the answer text. It implements overlay.Presenter; every call is marshalled
// onto the fyne main goroutine.
type Overlay struct {
	app    fyne.App
	win    fyne.Window
	bg     *canvas.Rectangle
	body   *widget.Label
	onQuit func()
	log    zerolog.Logger
}

func New(opts Options) *Overlay {
	return newOverlay(app.NewWithID(AppID), opts)
}

func newOverlay(a fyne.App, opts Options) *Overlay {
	if opts.Title == "" {
		opts.Title = "Screen Answer Overlay"
	}
	o := &Overlay{
		app:    a,
		onQuit: opts.OnQuit,
		log:    opts.Log.With().Str("component", "gui").Logger(),
	}

	if drv, ok := a.Driver().(desktop.Driver); ok {
		o.win = drv.CreateSplashWindow()
		o.win.SetTitle(opts.Title)
	} else {
		o.win = a.NewWindow(opts.Title)
	}

	o.bg = canvas.NewRectangle(overlay.IdleColor)
	o.bg.SetMinSize(tagSize)
	o.body = widget.NewLabel("")
	o.body.Wrapping = fyne.TextWrapWord
	o.body.Hide()

	o.win.SetContent(container.NewStack(o.bg, container.NewThemeOverride(o.body, answerTheme{theme.DefaultTheme()})))
	o.win.SetPadded(false)
	o.win.SetFixedSize(true)
	o.win.Resize(tagSize)
	o.win.SetMaster()

	o.installTray(opts)
	return o
}

// answerTheme draws the answer in black at the overlay text size whatever
// the system theme variant.
type answerTheme struct {
	fyne.Theme
}

func (t answerTheme) Color(n fyne.ThemeColorName, v fyne.ThemeVariant) color.Color {
	if n == theme.ColorNameForeground {
		return overlay.TextColor
	}
	return t.Theme.Color(n, v)
}

func (t answerTheme) Size(n fyne.ThemeSizeName) float32 {
	if n == theme.SizeNameText {
		return overlay.TextSize
	}
	return t.Theme.Size(n)
}

func (o *Overlay) installTray(opts Options) {
	desk, ok := o.app.(desktop.App)
	if !ok {
		o.log.Debug().Msg("no system tray support")
		return
	}
	toggle := fyne.NewMenuItem("Show/Hide", func() {
		if opts.OnToggle != nil {
			opts.OnToggle()
		}
	})
	quit := fyne.NewMenuItem("Quit", o.Quit)
	quit.IsQuit = true

	desk.SetSystemTrayMenu(fyne.NewMenu(opts.Title, toggle, fyne.NewMenuItemSeparator(), quit))
	desk.SetSystemTrayIcon(fyne.NewStaticResource("tray.png", tray.IconPNG()))
}

func (o *Overlay) SetVisible(visible bool) {
	fyne.Do(func() {
		if visible {
			o.win.Show()
		} else {
			o.win.Hide()
		}
	})
}

func (o *Overlay) SetBackgroundTint(c color.Color) {
	fyne.Do(func() {
		o.bg.FillColor = c
		o.bg.Refresh()
	})
}

func (o *Overlay) SetBodyText(text string) {
	fyne.Do(func() {
		if text == "" {
			o.body.Hide()
			o.win.Resize(tagSize)
			return
		}
		o.body.SetText(text)
		o.body.Show()
		o.win.Resize(textSize)
	})
}

// Quit runs the quit callback and stops the application.
func (o *Overlay) Quit() {
	if o.onQuit != nil {
		o.onQuit()
		o.onQuit = nil
	}
	o.app.Quit()
}

// Run shows the window and blocks in the fyne event loop until the window is
// closed, Quit is chosen from the tray or ctx is cancelled. It must be called
// from the main goroutine.
func (o *Overlay) Run(ctx context.Context) {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			o.log.Debug().Msg("context cancelled, quitting")
			fyne.Do(o.app.Quit)
		case <-stop:
		}
	}()
	o.win.ShowAndRun()
}

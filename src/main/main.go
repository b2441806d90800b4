package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"screen-answer-overlay/src/clipboard"
	"screen-answer-overlay/src/config"
	"screen-answer-overlay/src/eventloop"
	"screen-answer-overlay/src/gui"
	"screen-answer-overlay/src/keyboard"
	"screen-answer-overlay/src/messages"
	"screen-answer-overlay/src/notification"
	"screen-answer-overlay/src/overlay"
	"screen-answer-overlay/src/runtimeinit"
	"screen-answer-overlay/src/session"
	"screen-answer-overlay/src/singleinstance"
	"screen-answer-overlay/src/tray"
)

const appTitle = "Screen Answer Overlay"

type mainOptions struct {
	apiKeyPath string
	headless   bool
	logLevel   string
	toggle     bool
}

// frontEnd owns the main goroutine until the user quits or ctx ends.
type frontEnd interface {
	Run(ctx context.Context)
}

func main() {
	if err := runWithArgs(normalizeLegacyArgs(os.Args)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runWithArgs(args []string) error {
	if len(args) == 0 {
		args = []string{"screen-answer-overlay"}
	}

	opts := &mainOptions{}
	cmd := newRootCmd(opts)
	cmd.SetArgs(args[1:])
	return cmd.Execute()
}

func newRootCmd(opts *mainOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "screen-answer-overlay",
		Short: "Answer on-screen quizzes from a global hotkey",
		Long: `Keeps a small always-present overlay. Hotkeys:
  Ctrl+I       answer from a screenshot in one call
  Ctrl+O       transcribe the screenshot, then extract the exact answer
  Alt / AltGr  show or hide the overlay
  Right Ctrl   clear the displayed answer`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.toggle {
				return toggleResident(cmd.Context())
			}
			return runOverlay(*opts)
		},
	}

	cmd.Flags().StringVar(&opts.apiKeyPath, "api-key-path", "", "Path to API key file (highest precedence)")
	cmd.Flags().BoolVar(&opts.headless, "headless", false, "Log overlay updates instead of opening a window")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides LOG_LEVEL)")
	cmd.Flags().BoolVar(&opts.toggle, "toggle", false, "Show or hide the overlay of the running instance and exit")

	return cmd
}

func runOverlay(opts mainOptions) error {
	rt, err := runtimeinit.Bootstrap(runtimeinit.Options{
		LoadOptions: config.LoadOptions{
			APIKeyPathOverride: opts.apiKeyPath,
			LogLevelOverride:   opts.logLevel,
		},
		PrettyLogs:     true,
		RequireDisplay: true,
	})
	if err != nil {
		notification.ShowBlockingError(zerolog.Nop(), "Startup failed", err.Error())
		return err
	}
	defer rt.Close()
	log := rt.Log

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var loop *eventloop.Loop
	toggle := func() {
		if err := loop.Post(messages.ToggleVisibility{}); err != nil {
			log.Warn().Err(err).Msg("toggle dropped")
		}
	}

	var (
		presenter overlay.Presenter
		front     frontEnd
	)
	if opts.headless {
		presenter = gui.NewHeadless(log)
		front = tray.New(appTitle, tray.Callbacks{OnToggle: toggle, OnQuit: cancel}, log)
	} else {
		win := gui.New(gui.Options{Title: appTitle, OnToggle: toggle, OnQuit: cancel, Log: log})
		presenter, front = win, win
	}
	if rt.Config.CopyToClipboard {
		presenter = clipboard.NewMirror(presenter, log)
	}

	loop = eventloop.New(eventloop.Options{
		Presenter: presenter,
		Session:   session.Options{Answerer: rt.LLM},
		Log:       log,
	})

	guard, err := singleinstance.Acquire(log, toggle)
	if err != nil {
		return err
	}
	defer guard.Close()

	source := keyboard.NewSource(log)
	events, err := source.Start()
	if err != nil {
		notification.ShowBlockingError(log, "Keyboard hook", err.Error())
		return fmt.Errorf("failed to start keyboard hook: %w", err)
	}
	defer source.Stop()

	loopErr := make(chan error, 1)
	go func() {
		err := loop.Run(ctx, events)
		cancel()
		loopErr <- err
	}()

	log.Info().Bool("headless", opts.headless).Msg("overlay running")
	front.Run(ctx)
	cancel()

	err = <-loopErr
	if errors.Is(err, context.Canceled) {
		log.Info().Msg("shutting down")
		return nil
	}
	return err
}

// toggleResident asks the running overlay to show or hide itself.
func toggleResident(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, err := singleinstance.Send(ctx, singleinstance.Toggle); err != nil {
		return fmt.Errorf("toggle: %w", err)
	}
	return nil
}

var legacyFlags = []string{"api-key-path", "headless", "log-level", "toggle"}

// normalizeLegacyArgs maps single-dash long flags (-headless, -log-level=debug)
// to the double-dash form cobra expects.
func normalizeLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}

	normalized := make([]string, len(args))
	copy(normalized, args)

	for i := 1; i < len(normalized); i++ {
		arg := normalized[i]
		for _, name := range legacyFlags {
			switch {
			case arg == "-"+name:
				normalized[i] = "--" + name
			case strings.HasPrefix(arg, "-"+name+"="):
				normalized[i] = "-" + arg
			}
		}
	}

	return normalized
}

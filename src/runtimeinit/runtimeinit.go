package runtimeinit

import (
	"fmt"
	"io"
	stdlog "log"

	"github.com/rs/zerolog"

	"screen-answer-overlay/src/clipboard"
	"screen-answer-overlay/src/config"
	"screen-answer-overlay/src/llm"
	"screen-answer-overlay/src/logutil"
	"screen-answer-overlay/src/screenshot"
)

type Options struct {
	LoadOptions config.LoadOptions
	// PrettyLogs selects console formatting for stderr output.
	PrettyLogs bool
	LogOutput  io.Writer
	// RequireDisplay fails startup when no display can be captured.
	RequireDisplay bool
}

// Runtime is everything a front end needs after a successful bootstrap.
type Runtime struct {
	Config *config.Config
	Log    zerolog.Logger
	LLM    *llm.Client

	logCloser io.Closer
}

// Close flushes and releases the log file.
func (r *Runtime) Close() error {
	if r.logCloser == nil {
		return nil
	}
	return r.logCloser.Close()
}

var (
	initDisplay   = screenshot.Init
	initClipboard = clipboard.Init
)

func Bootstrap(opts Options) (*Runtime, error) {
	cfg, err := config.LoadWithOptions(opts.LoadOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, closer, err := logutil.New(logutil.Config{
		Level:  cfg.LogLevel,
		Pretty: opts.PrettyLogs,
		File:   cfg.EnableFileLogging,
		Output: opts.LogOutput,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	rt := &Runtime{Config: cfg, Log: log, logCloser: closer}
	// Libraries that log through the standard logger end up in the same sink.
	stdlog.SetFlags(0)
	stdlog.SetOutput(log.With().Str("component", "stdlog").Logger())

	enableDPIAwareness(log)

	if err := cfg.Validate(); err != nil {
		_ = rt.Close()
		return nil, fmt.Errorf("invalid configuration (key file %s): %w", cfg.APIKeyPath, err)
	}

	rt.LLM, err = llm.New(llm.Config{
		APIKey:          cfg.APIKey,
		BaseURL:         cfg.BaseURL,
		DirectModel:     cfg.DirectModel,
		TranscribeModel: cfg.TranscribeModel,
		AnswerModel:     cfg.AnswerModel,
	}, log)
	if err != nil {
		_ = rt.Close()
		return nil, fmt.Errorf("failed to create inference client: %w", err)
	}

	if opts.RequireDisplay {
		if err := initDisplay(); err != nil {
			_ = rt.Close()
			return nil, fmt.Errorf("screen capture unavailable: %w", err)
		}
	}
	if cfg.CopyToClipboard {
		if err := initClipboard(); err != nil {
			_ = rt.Close()
			return nil, fmt.Errorf("failed to initialize clipboard: %w", err)
		}
	}

	direct, transcribe, answer := rt.LLM.Models()
	log.Info().
		Str("api_key", logutil.RedactKey(cfg.APIKey)).
		Str("base_url", cfg.BaseURL).
		Str("direct_model", direct).
		Str("transcribe_model", transcribe).
		Str("answer_model", answer).
		Bool("clipboard", cfg.CopyToClipboard).
		Msg("runtime initialized")

	return rt, nil
}

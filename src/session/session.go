package session

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/rs/zerolog"

	"screen-answer-overlay/src/messages"
	"screen-answer-overlay/src/screenshot"
)

// Strategy selects how a captured screen is turned into an answer.
type Strategy int

const (
	Direct Strategy = iota
	TranscribeThenAnswer
)

func (s Strategy) String() string {
	switch s {
	case Direct:
		return "direct"
	case TranscribeThenAnswer:
		return "transcribe-then-answer"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy accepts the names printed by String plus the short
// "transcribe" alias used on the command line.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "direct":
		return Direct, nil
	case "transcribe", "transcribe-then-answer":
		return TranscribeThenAnswer, nil
	}
	return 0, fmt.Errorf("unknown strategy %q (want direct or transcribe)", name)
}

var ErrNoAnswerer = errors.New("no answerer configured")

// CaptureFunc grabs the screen.
type CaptureFunc func() (*image.RGBA, error)

// EncodeFunc turns an image into a data URL the inference endpoint accepts.
type EncodeFunc func(img image.Image) (string, error)

// Answerer is the inference side of a job. *llm.Client implements it.
type Answerer interface {
	AnswerFromImage(ctx context.Context, imageURL string) (string, error)
	AnswerFromImageViaTranscription(ctx context.Context, imageURL string) (string, error)
}

type Options struct {
	Capture  CaptureFunc
	Encode   EncodeFunc
	Answerer Answerer
	Log      zerolog.Logger
}

type Job struct {
	ID       string
	Strategy Strategy
}

// Outcome is the result of one job. Exactly one of Text or Err is meaningful.
type Outcome struct {
	Text string
	Err  error
}

// Messages converts the outcome into the batch the overlay consumes:
// success clears the indicator before showing the answer, failure only
// flips the indicator and leaves whatever text is displayed alone.
func (o Outcome) Messages() []messages.Message {
	if o.Err != nil {
		return []messages.Message{messages.SetIndicator{Indicator: messages.Error}}
	}
	return []messages.Message{
		messages.SetIndicator{Indicator: messages.Idle},
		messages.Text(o.Text),
	}
}

// Run executes one job to completion: capture, encode, answer. The first
// failing step short-circuits the rest.
func Run(ctx context.Context, opts Options, job Job) Outcome {
	log := opts.Log.With().Str("job_id", job.ID).Str("strategy", job.Strategy.String()).Logger()

	text, err := run(ctx, opts, job.Strategy)
	if err != nil {
		log.Error().Err(err).Msg("job failed")
		return Outcome{Err: err}
	}
	log.Info().Int("answer_len", len(text)).Msg("job finished")
	return Outcome{Text: text}
}

func run(ctx context.Context, opts Options, strategy Strategy) (string, error) {
	if opts.Answerer == nil {
		return "", ErrNoAnswerer
	}
	capture := opts.Capture
	if capture == nil {
		capture = screenshot.CaptureScreen
	}
	encode := opts.Encode
	if encode == nil {
		encode = screenshot.EncodeDataURL
	}

	img, err := capture()
	if err != nil {
		return "", fmt.Errorf("capture: %w", err)
	}
	url, err := encode(img)
	if err != nil {
		return "", fmt.Errorf("encode: %w", err)
	}

	return Answer(ctx, opts.Answerer, strategy, url)
}

// Answer runs strategy against an already encoded image.
func Answer(ctx context.Context, a Answerer, strategy Strategy, imageURL string) (string, error) {
	switch strategy {
	case Direct:
		return a.AnswerFromImage(ctx, imageURL)
	case TranscribeThenAnswer:
		return a.AnswerFromImageViaTranscription(ctx, imageURL)
	default:
		return "", fmt.Errorf("unsupported strategy %s", strategy)
	}
}

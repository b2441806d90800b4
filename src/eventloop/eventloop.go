package eventloop

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"screen-answer-overlay/src/hotkey"
	"screen-answer-overlay/src/keys"
	"screen-answer-overlay/src/messages"
	"screen-answer-overlay/src/overlay"
	"screen-answer-overlay/src/queue"
	"screen-answer-overlay/src/session"
	"screen-answer-overlay/src/worker"
)

// ErrInputClosed is returned by Run when the key event stream ends.
var ErrInputClosed = errors.New("input event stream closed")

type Options struct {
	Presenter overlay.Presenter
	// Session carries the capture, encode and answer collaborators handed to
	// every job. Its Log field is ignored; jobs log through the loop's logger.
	Session session.Options
	Log     zerolog.Logger
	// NewJobID defaults to uuid.NewString.
	NewJobID func() string
}

// Loop is the single-goroutine coordinator. It owns the hotkey interpreter
// and the overlay state; jobs talk back to it only through the feedback
// queue.
type Loop struct {
	presenter   overlay.Presenter
	interpreter *hotkey.Interpreter
	state       overlay.State
	feedback    *queue.Queue[[]messages.Message]
	jobs        *worker.Group
	session     session.Options
	newJobID    func() string
	log         zerolog.Logger
}

// New creates a loop in the initial overlay state.
func New(opts Options) *Loop {
	log := opts.Log.With().Str("component", "eventloop").Logger()
	newJobID := opts.NewJobID
	if newJobID == nil {
		newJobID = uuid.NewString
	}
	sess := opts.Session
	sess.Log = opts.Log.With().Str("component", "session").Logger()

	l := &Loop{
		presenter:   opts.Presenter,
		interpreter: hotkey.NewInterpreter(),
		state:       overlay.Initial(),
		feedback:    queue.New[[]messages.Message](),
		jobs:        worker.New(opts.Log),
		session:     sess,
		newJobID:    newJobID,
		log:         log,
	}
	l.jobs.OnPanic(func(any) {
		l.deliver(session.Outcome{Err: errors.New("job panicked")}.Messages())
	})
	return l
}

// Post hands messages to the loop from any goroutine. They are applied in
// order and never interleaved with another batch.
func (l *Loop) Post(msgs ...messages.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	return l.feedback.Push(msgs)
}

// Wait blocks until every job started so far has delivered its outcome.
func (l *Loop) Wait() { l.jobs.Wait() }

// Run paints the initial state and then processes key events and job
// feedback until ctx is cancelled or input is closed.
func (l *Loop) Run(ctx context.Context, input <-chan keys.Event) error {
	defer l.feedback.Close()
	l.paint()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-input:
			if !ok {
				return ErrInputClosed
			}
			l.handleKey(ctx, ev)
		case batch, ok := <-l.feedback.Out():
			if !ok {
				return ctx.Err()
			}
			for _, msg := range batch {
				l.apply(msg)
			}
		}
	}
}

func (l *Loop) handleKey(ctx context.Context, ev keys.Event) {
	cmd := l.interpreter.Interpret(ev)
	if cmd == hotkey.None {
		return
	}
	l.log.Debug().Str("event", ev.String()).Str("command", cmd.String()).Msg("hotkey")

	switch cmd {
	case hotkey.Dismiss:
		l.apply(messages.ClearText())
	case hotkey.ToggleVisibility:
		l.apply(messages.ToggleVisibility{})
	case hotkey.TriggerDirectAnswer:
		l.trigger(ctx, session.Direct)
	case hotkey.TriggerTranscribeThenAnswer:
		l.trigger(ctx, session.TranscribeThenAnswer)
	}
}

func (l *Loop) trigger(ctx context.Context, strategy session.Strategy) {
	l.apply(messages.SetIndicator{Indicator: messages.Loading})
	l.apply(messages.ClearText())

	job := session.Job{ID: l.newJobID(), Strategy: strategy}
	l.log.Info().Str("job_id", job.ID).Str("strategy", strategy.String()).Msg("starting answer job")
	l.jobs.Go(job.ID, func() {
		l.deliver(session.Run(ctx, l.session, job).Messages())
	})
}

func (l *Loop) deliver(msgs []messages.Message) {
	if err := l.Post(msgs...); err != nil {
		l.log.Warn().Err(err).Int("messages", len(msgs)).Msg("dropping job outcome")
	}
}

func (l *Loop) apply(msg messages.Message) {
	l.state = overlay.Reduce(l.state, msg)
	l.paint()
}

func (l *Loop) paint() {
	if l.presenter == nil {
		return
	}
	overlay.Paint(l.presenter, overlay.Render(l.state))
}

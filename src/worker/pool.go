package worker

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Job is a detached unit of work. It reports its result on its own (through
// a channel it closes over); the group only tracks its lifetime.
type Job func()

// PanicHandler receives the recovered value of a panicking job.
type PanicHandler func(recovered any)

// Group runs every submitted job on its own goroutine. There is no queue, no
// size limit and no cancellation: a job runs to completion.
type Group struct {
	wg      sync.WaitGroup
	log     zerolog.Logger
	onPanic PanicHandler

	mu       sync.Mutex
	inFlight int
}

// New creates a job group.
func New(log zerolog.Logger) *Group {
	return &Group{log: log.With().Str("component", "worker").Logger()}
}

// OnPanic installs a handler called after a job panics.
func (g *Group) OnPanic(h PanicHandler) { g.onPanic = h }

// Go starts job on a new goroutine and returns immediately.
func (g *Group) Go(name string, job Job) {
	g.wg.Add(1)
	g.mu.Lock()
	g.inFlight++
	n := g.inFlight
	g.mu.Unlock()
	g.log.Debug().Str("job", name).Int("in_flight", n).Msg("starting job")

	go func() {
		defer g.wg.Done()
		defer func() {
			g.mu.Lock()
			g.inFlight--
			g.mu.Unlock()
		}()
		defer func() {
			if r := recover(); r != nil {
				g.log.Error().Str("job", name).Str("panic", fmt.Sprint(r)).Msg("job panicked")
				if g.onPanic != nil {
					g.onPanic(r)
				}
			}
		}()
		job()
		g.log.Debug().Str("job", name).Msg("job finished")
	}()
}

// InFlight returns the number of jobs currently running.
func (g *Group) InFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inFlight
}

// Wait blocks until every started job has returned.
func (g *Group) Wait() { g.wg.Wait() }

package worker

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestGroupRunsJobsConcurrently(t *testing.T) {
	g := New(zerolog.Nop())
	release := make(chan struct{})
	var done int32

	for i := 0; i < 5; i++ {
		g.Go("blocked", func() {
			<-release
			atomic.AddInt32(&done, 1)
		})
	}

	assert.Eventually(t, func() bool { return g.InFlight() == 5 }, time.Second, 5*time.Millisecond,
		"overlapping jobs must all run, none are dropped or queued")

	close(release)
	g.Wait()
	assert.Equal(t, int32(5), atomic.LoadInt32(&done))
	assert.Equal(t, 0, g.InFlight())
}

func TestGroupRecoversPanics(t *testing.T) {
	g := New(zerolog.Nop())
	recovered := make(chan any, 1)
	g.OnPanic(func(r any) { recovered <- r })

	g.Go("panics", func() { panic("boom") })
	g.Wait()

	select {
	case r := <-recovered:
		assert.Equal(t, "boom", r)
	default:
		t.Fatal("panic handler not called")
	}
}

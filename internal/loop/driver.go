package loop

import (
	"context"
	"fmt"
	"time"

	"github.com/vovakirdan/letterbox/internal/core"
)

// Mode names a driver strategy.
type Mode string

const (
	ModeAuto        Mode = "auto"
	ModeCooperative Mode = "cooperative"
	ModeBlocking    Mode = "blocking"
)

// ParseMode validates a mode name. The empty string means auto.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeAuto:
		return ModeAuto, nil
	case ModeCooperative, ModeBlocking:
		return Mode(s), nil
	}
	return "", fmt.Errorf("loop: unknown driver mode %q: %w", s, core.ErrConfiguration)
}

// Resolve picks the strategy once at startup. Auto chooses cooperative when
// the host owns a scheduler and blocking otherwise. Asking for cooperative
// on a host without a scheduler is a configuration error.
func Resolve(requested Mode, hostScheduled bool) (Mode, error) {
	switch requested {
	case "", ModeAuto:
		if hostScheduled {
			return ModeCooperative, nil
		}
		return ModeBlocking, nil
	case ModeCooperative:
		if !hostScheduled {
			return "", fmt.Errorf("loop: host has no external scheduler: %w", core.ErrConfiguration)
		}
		return ModeCooperative, nil
	case ModeBlocking:
		return ModeBlocking, nil
	}
	return "", fmt.Errorf("loop: unknown driver mode %q: %w", requested, core.ErrConfiguration)
}

// Canceler stops an external scheduler from invoking further iterations.
type Canceler interface {
	Cancel()
}

// CancelFunc adapts a function to Canceler.
type CancelFunc func()

// Cancel calls f.
func (f CancelFunc) Cancel() { f() }

// Cooperative runs the engine under a scheduler it does not own (a UI
// event loop, a tick message). The host calls Iterate once per scheduled
// callback and never blocks inside it.
type Cooperative struct {
	engine   *Engine
	cancel   Canceler
	ctx      context.Context
	canceled bool
}

// NewCooperative binds an engine to a host scheduler.
func NewCooperative(e *Engine, cancel Canceler) *Cooperative {
	return &Cooperative{engine: e, cancel: cancel, ctx: context.Background()}
}

// Start acquires resources and registers the context. It returns without
// iterating; the host scheduler drives from here on.
func (c *Cooperative) Start(ctx context.Context) error {
	if ctx != nil {
		c.ctx = ctx
	}
	return c.engine.Start()
}

// Iterate performs one scheduled iteration. Once the engine has torn down,
// the scheduler is canceled exactly once and further calls are no-ops.
func (c *Cooperative) Iterate() error {
	if c.canceled {
		return nil
	}
	if c.ctx.Err() != nil {
		c.engine.RequestQuit()
	}

	more, err := c.engine.Iterate()
	if !more {
		c.canceled = true
		if c.cancel != nil {
			c.cancel.Cancel()
		}
	}
	return err
}

// Done reports whether the scheduler has been canceled.
func (c *Cooperative) Done() bool {
	return c.canceled
}

// Engine returns the driven engine.
func (c *Cooperative) Engine() *Engine {
	return c.engine
}

// Blocking owns the loop: it iterates until the engine stops and sleeps
// off whatever is left of a fixed step after each iteration.
type Blocking struct {
	engine *Engine
	// Sleep defaults to time.Sleep.
	Sleep func(time.Duration)
}

// NewBlocking returns a blocking driver for e.
func NewBlocking(e *Engine) *Blocking {
	return &Blocking{engine: e, Sleep: time.Sleep}
}

// Run starts the engine and blocks until it stops. Canceling ctx requests
// a quit; the loop still exits through the normal teardown path.
func (b *Blocking) Run(ctx context.Context) error {
	if err := b.engine.Start(); err != nil {
		return err
	}

	clk := b.engine.Clock()
	tps := clk.TicksPerSecond()
	step := b.engine.FixedStep()
	sleep := b.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	for {
		if ctx.Err() != nil {
			b.engine.RequestQuit()
		}

		start := clk.NowTicks()
		more, err := b.engine.Iterate()
		if !more {
			return err
		}

		end := clk.NowTicks()
		var elapsed time.Duration
		if end > start && tps > 0 {
			elapsed = time.Duration(float64(end-start) / float64(tps) * float64(time.Second))
		}
		if elapsed < step {
			sleep(step - elapsed)
		}
	}
}

// Engine returns the driven engine.
func (b *Blocking) Engine() *Engine {
	return b.engine
}

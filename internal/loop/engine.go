// Package loop runs the fixed-timestep presentation loop: drain events,
// advance the frame clock, step the simulation, draw once.
package loop

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/letterbox/internal/clock"
	"github.com/vovakirdan/letterbox/internal/core"
	"github.com/vovakirdan/letterbox/internal/surface"
	"github.com/vovakirdan/letterbox/internal/viewport"
)

var (
	// ErrProgramming is wrapped by the panics raised on lifecycle misuse.
	ErrProgramming = errors.New("loop: programming error")
	// ErrBackend wraps resource acquisition failures at start.
	ErrBackend = errors.New("loop: backend failure")
	// ErrRender wraps a renderer failure. It ends the loop.
	ErrRender = errors.New("loop: render failure")
)

// State is the engine lifecycle state.
type State int

const (
	StateNotStarted State = iota
	StateRunning
	StateTerminating
	StateStopped
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not-started"
	case StateRunning:
		return "running"
	case StateTerminating:
		return "terminating"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Simulation consumes fixed steps. It must never read the wall clock.
type Simulation interface {
	Step(dt float64)
}

// Frame is everything a renderer needs for one presented frame.
type Frame struct {
	Viewport viewport.Viewport
	Clip     viewport.ClipRegion
	Geometry surface.Geometry
	Logical  core.Size
	State    Simulation
	Number   uint64 // 1-based count of frames drawn
	Steps    int    // steps simulated in this iteration
}

// Renderer presents a frame. An error is fatal to the loop.
type Renderer interface {
	Draw(f Frame) error
}

// Backend is a resource acquired once at start and released once at
// teardown (terminal mode, database handle, log file).
type Backend interface {
	Acquire() error
	Release() error
}

// Stats summarises a run.
type Stats struct {
	Frames       uint64
	Steps        uint64
	Stalls       uint64
	SkippedDraws uint64
	Surface      surface.Stats
	Duration     time.Duration
}

// Config wires an engine to its collaborators.
type Config struct {
	Clock      clock.PlatformClock
	Frames     *clock.FrameClock
	Tracker    *surface.Tracker
	Events     EventSource
	Simulation Simulation
	Renderer   Renderer
	Backends   []Backend
	Logger     *log.Logger

	// OnAction receives actions the engine does not handle itself.
	OnAction func(core.Action)
	// OnStop runs once after teardown.
	OnStop func(Stats)
}

// Engine owns the iteration body and the lifecycle state machine. All
// methods must be called from the same goroutine.
type Engine struct {
	cfg    Config
	logger *log.Logger

	state    State
	acquired []Backend

	startTicks uint64
	stopTicks  uint64

	frames       uint64
	skippedDraws uint64
	invalidSeen  bool
}

// NewEngine validates the wiring and returns an engine in StateNotStarted.
func NewEngine(cfg Config) (*Engine, error) {
	switch {
	case cfg.Clock == nil:
		return nil, fmt.Errorf("loop: missing clock: %w", core.ErrConfiguration)
	case cfg.Frames == nil:
		return nil, fmt.Errorf("loop: missing frame clock: %w", core.ErrConfiguration)
	case cfg.Tracker == nil:
		return nil, fmt.Errorf("loop: missing surface tracker: %w", core.ErrConfiguration)
	case cfg.Events == nil:
		return nil, fmt.Errorf("loop: missing event source: %w", core.ErrConfiguration)
	case cfg.Simulation == nil:
		return nil, fmt.Errorf("loop: missing simulation: %w", core.ErrConfiguration)
	case cfg.Renderer == nil:
		return nil, fmt.Errorf("loop: missing renderer: %w", core.ErrConfiguration)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{cfg: cfg, logger: logger}, nil
}

// State returns the lifecycle state.
func (e *Engine) State() State {
	return e.state
}

// FixedStep returns the simulation step duration.
func (e *Engine) FixedStep() time.Duration {
	return e.cfg.Frames.StepDuration()
}

// Clock returns the platform clock the engine samples.
func (e *Engine) Clock() clock.PlatformClock {
	return e.cfg.Clock
}

// Start acquires the backends in order and enters StateRunning. If any
// backend fails, the ones already acquired are released in reverse order
// and the error wraps ErrBackend. Calling Start twice panics.
func (e *Engine) Start() error {
	if e.state != StateNotStarted {
		panic(fmt.Errorf("%w: Start called in state %s", ErrProgramming, e.state))
	}

	for _, b := range e.cfg.Backends {
		if err := b.Acquire(); err != nil {
			releaseErr := e.release()
			e.state = StateStopped
			return errors.Join(fmt.Errorf("%w: %w", ErrBackend, err), releaseErr)
		}
		e.acquired = append(e.acquired, b)
	}

	e.startTicks = e.cfg.Clock.NowTicks()
	e.cfg.Frames.Start(e.startTicks)
	e.state = StateRunning

	g := e.cfg.Tracker.Geometry()
	e.logger.Info("loop started",
		"step", e.FixedStep(),
		"logical", e.cfg.Tracker.Logical(),
		"surface", g.Size,
		"mode", g.Mode,
		"polling", !e.cfg.Tracker.Capabilities().ResizeNotifications,
	)
	return nil
}

// RequestQuit moves a running engine to StateTerminating. Repeated requests
// collapse into one transition. The current iteration, if any, still
// finishes its steps and its draw; teardown happens at the next boundary.
func (e *Engine) RequestQuit() {
	if e.state != StateRunning {
		return
	}
	e.logger.Debug("quit requested")
	e.state = StateTerminating
}

// Iterate runs one loop iteration. It returns false once the engine has torn
// down, after which it must not be called again. Calling Iterate before
// Start or after it returned false panics.
func (e *Engine) Iterate() (bool, error) {
	switch e.state {
	case StateNotStarted, StateStopped:
		panic(fmt.Errorf("%w: Iterate called in state %s", ErrProgramming, e.state))
	case StateTerminating:
		return false, e.teardown()
	}

	for ev := range e.cfg.Events.Drain() {
		e.handle(ev)
	}
	e.cfg.Tracker.Poll()

	stalls := e.cfg.Frames.Stalls()
	steps := 0
	for step := range e.cfg.Frames.Advance(e.cfg.Clock.NowTicks()) {
		e.cfg.Simulation.Step(step.DT)
		steps++
	}
	if e.cfg.Frames.Stalls() != stalls {
		e.logger.Debug("stall detected, accumulator clamped to one step")
	}

	if err := e.draw(steps); err != nil {
		teardownErr := e.teardown()
		return false, errors.Join(fmt.Errorf("%w: %w", ErrRender, err), teardownErr)
	}
	return true, nil
}

// Stats returns the counters collected so far.
func (e *Engine) Stats() Stats {
	end := e.stopTicks
	if e.state != StateStopped {
		end = e.cfg.Clock.NowTicks()
	}
	var d time.Duration
	if tps := e.cfg.Clock.TicksPerSecond(); tps > 0 && end > e.startTicks {
		d = time.Duration(float64(end-e.startTicks) / float64(tps) * float64(time.Second))
	}
	return Stats{
		Frames:       e.frames,
		Steps:        e.cfg.Frames.Steps(),
		Stalls:       e.cfg.Frames.Stalls(),
		SkippedDraws: e.skippedDraws,
		Surface:      e.cfg.Tracker.Stats(),
		Duration:     d,
	}
}

func (e *Engine) handle(ev Event) {
	switch ev := ev.(type) {
	case QuitEvent:
		e.RequestQuit()
	case ResizeEvent:
		e.cfg.Tracker.OnPlatformResize(ev.W, ev.H)
	case FullscreenEvent:
		e.cfg.Tracker.OnPlatformFullscreen(ev.Enabled, ev.Size)
	case ActionEvent:
		switch ev.Action {
		case core.ActionQuit:
			e.RequestQuit()
		case core.ActionFullscreen:
			enable := e.cfg.Tracker.Geometry().Mode != surface.Fullscreen
			e.setFullscreen(enable, core.Size{})
		case core.ActionNone:
		default:
			if e.cfg.OnAction != nil {
				e.cfg.OnAction(ev.Action)
			}
		}
	}
}

func (e *Engine) setFullscreen(enable bool, size core.Size) {
	if err := e.cfg.Tracker.SetFullscreen(enable, size); err != nil {
		e.logger.Error("display mode change failed", "fullscreen", enable, "error", err)
	}
}

func (e *Engine) draw(steps int) error {
	vp, clip, err := e.cfg.Tracker.Viewport()
	if err != nil {
		// Expected transiently while a resize is in flight: keep the last
		// presented frame on screen.
		e.skippedDraws++
		if !e.invalidSeen {
			e.logger.Warn("skipping draw", "error", err)
			e.invalidSeen = true
		}
		return nil
	}
	e.invalidSeen = false

	e.frames++
	return e.cfg.Renderer.Draw(Frame{
		Viewport: vp,
		Clip:     clip,
		Geometry: e.cfg.Tracker.Geometry(),
		Logical:  e.cfg.Tracker.Logical(),
		State:    e.cfg.Simulation,
		Number:   e.frames,
		Steps:    steps,
	})
}

func (e *Engine) teardown() error {
	err := e.release()
	e.stopTicks = e.cfg.Clock.NowTicks()
	e.state = StateStopped

	stats := e.Stats()
	e.logger.Info("loop stopped",
		"frames", stats.Frames,
		"steps", stats.Steps,
		"stalls", stats.Stalls,
		"skipped", stats.SkippedDraws,
		"duration", stats.Duration,
	)
	if e.cfg.OnStop != nil {
		e.cfg.OnStop(stats)
	}
	return err
}

// release frees acquired backends in reverse order, best effort.
func (e *Engine) release() error {
	var errs []error
	for i := len(e.acquired) - 1; i >= 0; i-- {
		if err := e.acquired[i].Release(); err != nil {
			errs = append(errs, fmt.Errorf("loop: release backend: %w", err))
		}
	}
	e.acquired = nil
	return errors.Join(errs...)
}

// Package clock converts platform clock samples into a bounded sequence of
// fixed-size simulation steps.
package clock

import (
	"fmt"
	"iter"
	"time"

	"github.com/vovakirdan/letterbox/internal/core"
)

// DefaultStallSteps is the number of pending steps above which the
// accumulator is considered stalled (debugger pause, SIGSTOP, suspended
// laptop) and collapsed to a single step.
const DefaultStallSteps = 10

// PlatformClock is a monotonic tick source.
type PlatformClock interface {
	NowTicks() uint64
	TicksPerSecond() uint64
}

// SystemClock reads the Go monotonic clock with nanosecond ticks.
type SystemClock struct {
	start time.Time
}

// NewSystemClock creates a clock whose tick zero is the moment of creation.
func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

// NowTicks returns nanoseconds since the clock was created.
func (c *SystemClock) NowTicks() uint64 {
	return uint64(time.Since(c.start))
}

// TicksPerSecond returns 1e9.
func (c *SystemClock) TicksPerSecond() uint64 {
	return uint64(time.Second)
}

// ManualClock is a clock that only moves when told to. Used by headless
// runs and tests.
type ManualClock struct {
	ticks uint64
	tps   uint64
}

// NewManualClock creates a manual clock with the given resolution.
func NewManualClock(ticksPerSecond uint64) *ManualClock {
	return &ManualClock{tps: ticksPerSecond}
}

// NowTicks returns the current tick count.
func (c *ManualClock) NowTicks() uint64 { return c.ticks }

// TicksPerSecond returns the configured resolution.
func (c *ManualClock) TicksPerSecond() uint64 { return c.tps }

// Add moves the clock forward by n ticks.
func (c *ManualClock) Add(n uint64) { c.ticks += n }

// Set moves the clock to an absolute tick count. Moving backwards is allowed
// so tests can simulate a misbehaving platform clock.
func (c *ManualClock) Set(ticks uint64) { c.ticks = ticks }

// Step is a single fixed simulation step produced by FrameClock.Advance.
type Step struct {
	Seq uint64  // 1-based index since the clock was created
	DT  float64 // step duration in seconds, always the FixedStep
}

// FrameClock owns the accumulator of unconsumed elapsed time.
// It is not safe for concurrent use; the loop drives it from one goroutine.
type FrameClock struct {
	step           float64
	stallSteps     int
	ticksPerSecond uint64

	accumulator float64
	lastTicks   uint64
	started     bool
	generation  uint64

	steps  uint64
	stalls uint64
}

// NewFrameClock creates a frame clock for the given tick rate (steps per
// second). The accumulator starts with one step pre-loaded so the first
// iteration always simulates before it draws.
func NewFrameClock(tickRate int, ticksPerSecond uint64, stallSteps int) (*FrameClock, error) {
	if tickRate <= 0 {
		return nil, fmt.Errorf("clock: tick rate %d: %w", tickRate, core.ErrConfiguration)
	}
	if ticksPerSecond == 0 {
		return nil, fmt.Errorf("clock: zero ticks per second: %w", core.ErrConfiguration)
	}
	if stallSteps < 1 {
		return nil, fmt.Errorf("clock: stall steps %d: %w", stallSteps, core.ErrConfiguration)
	}

	step := 1.0 / float64(tickRate)
	return &FrameClock{
		step:           step,
		stallSteps:     stallSteps,
		ticksPerSecond: ticksPerSecond,
		accumulator:    step,
	}, nil
}

// Start sets the tick baseline. Elapsed time before Start is never counted.
func (c *FrameClock) Start(nowTicks uint64) {
	c.lastTicks = nowTicks
	c.started = true
}

// Advance folds the time elapsed since the previous sample into the
// accumulator and returns the steps that are now due. The sequence is lazy:
// each step is subtracted from the accumulator as it is consumed. It is not
// restartable and becomes empty once a later Advance is made.
//
// When the accumulator exceeds stallSteps steps it is clamped to exactly one
// step, trading simulation continuity for responsiveness.
func (c *FrameClock) Advance(nowTicks uint64) iter.Seq[Step] {
	var elapsed float64
	// A clock that goes backwards contributes nothing.
	if c.started && nowTicks > c.lastTicks {
		elapsed = float64(nowTicks-c.lastTicks) / float64(c.ticksPerSecond)
	}
	c.lastTicks = nowTicks
	c.started = true

	c.accumulator += elapsed
	if c.accumulator > float64(c.stallSteps)*c.step {
		c.accumulator = c.step
		c.stalls++
	}

	c.generation++
	gen := c.generation
	return func(yield func(Step) bool) {
		for c.generation == gen && c.accumulator >= c.step {
			c.accumulator -= c.step
			c.steps++
			if !yield(Step{Seq: c.steps, DT: c.step}) {
				return
			}
		}
	}
}

// FixedStep returns the step duration in seconds.
func (c *FrameClock) FixedStep() float64 {
	return c.step
}

// StepDuration returns the step duration as a time.Duration.
func (c *FrameClock) StepDuration() time.Duration {
	return time.Duration(c.step * float64(time.Second))
}

// Accumulator returns the unconsumed elapsed time in seconds.
func (c *FrameClock) Accumulator() float64 {
	return c.accumulator
}

// Pending returns how many whole steps the accumulator currently holds.
func (c *FrameClock) Pending() int {
	return int(c.accumulator / c.step)
}

// Steps returns the total number of steps emitted.
func (c *FrameClock) Steps() uint64 {
	return c.steps
}

// Stalls returns how many times the stall guard has clamped the accumulator.
func (c *FrameClock) Stalls() uint64 {
	return c.stalls
}

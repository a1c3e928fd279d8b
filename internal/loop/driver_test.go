package loop

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/letterbox/internal/core"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in       string
		expected Mode
		wantErr  bool
	}{
		{"", ModeAuto, false},
		{"auto", ModeAuto, false},
		{"cooperative", ModeCooperative, false},
		{"blocking", ModeBlocking, false},
		{"threaded", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.expected {
			t.Errorf("ParseMode(%q) = %q, expected %q", tt.in, got, tt.expected)
		}
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		requested Mode
		scheduled bool
		expected  Mode
		wantErr   bool
	}{
		{ModeAuto, true, ModeCooperative, false},
		{ModeAuto, false, ModeBlocking, false},
		{ModeBlocking, true, ModeBlocking, false},
		{ModeCooperative, true, ModeCooperative, false},
		{ModeCooperative, false, "", true},
		{Mode("bogus"), true, "", true},
	}
	for _, tt := range tests {
		got, err := Resolve(tt.requested, tt.scheduled)
		if (err != nil) != tt.wantErr {
			t.Errorf("Resolve(%q, %v) error = %v, wantErr %v", tt.requested, tt.scheduled, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, core.ErrConfiguration) {
			t.Errorf("Resolve(%q, %v) error = %v, expected ErrConfiguration", tt.requested, tt.scheduled, err)
		}
		if got != tt.expected {
			t.Errorf("Resolve(%q, %v) = %q, expected %q", tt.requested, tt.scheduled, got, tt.expected)
		}
	}
}

func TestCooperativeCancelsOnce(t *testing.T) {
	h := newHarness(t, false)
	cancels := 0
	c := NewCooperative(h.engine, CancelFunc(func() { cancels++ }))

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	for i := 0; i < 3; i++ {
		h.clock.Add(stepTicks)
		if err := c.Iterate(); err != nil {
			t.Fatalf("Iterate() error = %v", err)
		}
	}
	if cancels != 0 || c.Done() {
		t.Fatalf("canceled before quit")
	}

	h.events.Push(QuitEvent{})
	c.Iterate()
	if cancels != 0 {
		t.Errorf("canceled during the quitting iteration")
	}
	c.Iterate()
	c.Iterate()
	if cancels != 1 {
		t.Errorf("cancels = %d, expected 1", cancels)
	}
	if !c.Done() {
		t.Error("Done() = false after cancel")
	}
	if len(h.renderer.frames) != 4 {
		t.Errorf("frames = %d, expected 4", len(h.renderer.frames))
	}
}

func TestCooperativeContextRequestsQuit(t *testing.T) {
	h := newHarness(t, false)
	ctx, cancel := context.WithCancel(context.Background())
	c := NewCooperative(h.engine, nil)
	c.Start(ctx)
	c.Iterate()

	cancel()
	c.Iterate()
	c.Iterate()
	if !c.Done() {
		t.Error("Done() = false after context cancel")
	}
}

func TestCooperativeReturnsRenderError(t *testing.T) {
	h := newHarness(t, false)
	cancels := 0
	c := NewCooperative(h.engine, CancelFunc(func() { cancels++ }))
	c.Start(context.Background())

	h.renderer.err = errors.New("closed")
	if err := c.Iterate(); !errors.Is(err, ErrRender) {
		t.Errorf("Iterate() error = %v, expected ErrRender", err)
	}
	if cancels != 1 {
		t.Errorf("cancels = %d, expected 1", cancels)
	}
}

func TestBlockingSleepsRemainderOfStep(t *testing.T) {
	h := newHarness(t, false)
	const work = 4

	h.renderer.onDraw = func(f Frame) {
		h.clock.Add(work)
		if f.Number == 5 {
			h.events.Push(QuitEvent{})
		}
	}

	var sleeps []time.Duration
	b := NewBlocking(h.engine)
	b.Sleep = func(d time.Duration) {
		sleeps = append(sleeps, d)
		h.clock.Add(uint64(d * tps / time.Second))
	}

	if err := b.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if h.engine.State() != StateStopped {
		t.Errorf("State() = %v, expected stopped", h.engine.State())
	}
	if len(h.renderer.frames) != 5 {
		t.Errorf("frames = %d, expected 5", len(h.renderer.frames))
	}
	// Work plus sleep spans exactly one step, so every iteration steps once.
	if len(h.sim.dts) != 5 {
		t.Errorf("steps = %d, expected 5", len(h.sim.dts))
	}

	expected := time.Second/tickRate - work*time.Second/tps
	if len(sleeps) != 5 {
		t.Fatalf("sleeps = %d, expected 5", len(sleeps))
	}
	for i, d := range sleeps {
		if d != expected {
			t.Errorf("sleep[%d] = %v, expected %v", i, d, expected)
		}
	}
}

func TestBlockingSkipsSleepWhenBehind(t *testing.T) {
	h := newHarness(t, false)
	h.renderer.onDraw = func(f Frame) {
		h.clock.Add(2 * stepTicks)
		if f.Number == 3 {
			h.events.Push(QuitEvent{})
		}
	}

	slept := false
	b := NewBlocking(h.engine)
	b.Sleep = func(time.Duration) { slept = true }

	if err := b.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if slept {
		t.Error("slept while behind schedule")
	}
}

func TestBlockingStopsOnContextCancel(t *testing.T) {
	h := newHarness(t, false)
	ctx, cancel := context.WithCancel(context.Background())
	h.renderer.onDraw = func(f Frame) {
		if f.Number == 2 {
			cancel()
		}
	}

	b := NewBlocking(h.engine)
	b.Sleep = func(time.Duration) {}
	if err := b.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(h.renderer.frames) != 2 {
		t.Errorf("frames = %d, expected 2", len(h.renderer.frames))
	}
}

func TestBlockingStartFailure(t *testing.T) {
	h := newHarness(t, false)
	var calls []string
	h.engine.cfg.Backends = []Backend{&fakeBackend{name: "term", log: &calls, acquireErr: errors.New("not a tty")}}

	b := NewBlocking(h.engine)
	b.Sleep = func(time.Duration) { t.Error("slept after failed start") }
	if err := b.Run(context.Background()); !errors.Is(err, ErrBackend) {
		t.Errorf("Run() error = %v, expected ErrBackend", err)
	}
}

func TestQueueDrainKeepsUnconsumed(t *testing.T) {
	q := &Queue{}
	q.Push(QuitEvent{})
	q.Push(ResizeEvent{W: 1, H: 1})
	q.Push(ResizeEvent{W: 2, H: 2})

	for ev := range q.Drain() {
		if _, ok := ev.(ResizeEvent); ok {
			break
		}
	}
	if q.Len() != 1 {
		t.Fatalf("Len() = %d, expected 1", q.Len())
	}
	for ev := range q.Drain() {
		if got, ok := ev.(ResizeEvent); !ok || got.W != 2 {
			t.Errorf("remaining event = %#v, expected 2x2 resize", ev)
		}
	}
	if q.Len() != 0 {
		t.Errorf("Len() = %d, expected 0", q.Len())
	}
}

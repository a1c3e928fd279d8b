package console

import (
	"context"
	"fmt"
	"io"
	"iter"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/letterbox/internal/clock"
	"github.com/vovakirdan/letterbox/internal/config"
	"github.com/vovakirdan/letterbox/internal/core"
	"github.com/vovakirdan/letterbox/internal/loop"
	"github.com/vovakirdan/letterbox/internal/registry"
	"github.com/vovakirdan/letterbox/internal/render"
	"github.com/vovakirdan/letterbox/internal/surface"
)

// Options configures a console run. Zero values use the process terminal.
type Options struct {
	Scene  registry.Scene
	Config config.Config
	Logger *log.Logger

	In  io.Reader // defaults to os.Stdin
	Out io.Writer // defaults to os.Stdout
	// Fd is the terminal descriptor for raw mode and size queries.
	Fd      int
	GetSize SizeFunc

	Clock clock.PlatformClock
	// Sleep replaces time.Sleep in the blocking loop.
	Sleep func(time.Duration)

	ScreenshotDir string
	Backends      []loop.Backend
	OnStop        func(loop.Stats)
}

// Host runs one scene on a blocking loop.
type Host struct {
	scene      registry.Scene
	logger     *log.Logger
	in         io.Reader
	surface    *Surface
	raw        *RawMode
	compositor *render.Compositor
	events     *events
	engine     *loop.Engine
	driver     *loop.Blocking
	shotDir    string
}

// NewHost wires a scene to a blocking engine. Nothing touches the
// terminal until Run.
func NewHost(opts Options) (*Host, error) {
	if opts.Scene == nil {
		return nil, fmt.Errorf("console: no scene: %w", core.ErrConfiguration)
	}
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	in := opts.In
	if in == nil {
		in = os.Stdin
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	fd := opts.Fd
	clk := opts.Clock
	if clk == nil {
		clk = clock.NewSystemClock()
	}

	frames, err := clock.NewFrameClock(cfg.Loop.TickRate, clk.TicksPerSecond(), cfg.Loop.StallSteps)
	if err != nil {
		return nil, err
	}
	windowed, fullscreen, err := cfg.BarColors()
	if err != nil {
		return nil, err
	}

	s := NewSurface(fd, out, opts.GetSize)
	tracker, err := surface.NewTracker(cfg.Logical(), s, surface.Capabilities{ResizeNotifications: false}, logger)
	if err != nil {
		return nil, err
	}

	compositor := render.NewCompositor(cfg.Logical(), render.Bars{Windowed: windowed, Fullscreen: fullscreen})
	styler := render.NewStyler(lipgloss.NewRenderer(out))

	h := &Host{
		scene:      opts.Scene,
		logger:     logger,
		in:         in,
		surface:    s,
		raw:        NewRawMode(fd, out, s),
		compositor: compositor,
		events:     &events{startup: &loop.Queue{}},
		shotDir:    opts.ScreenshotDir,
	}
	if cfg.Display.Fullscreen {
		h.events.startup.Push(loop.ActionEvent{Action: core.ActionFullscreen})
	}

	backends := append([]loop.Backend{h.raw}, opts.Backends...)
	h.engine, err = loop.NewEngine(loop.Config{
		Clock:      clk,
		Frames:     frames,
		Tracker:    tracker,
		Events:     h.events,
		Simulation: opts.Scene,
		Renderer:   NewPainter(out, compositor, styler),
		Backends:   backends,
		Logger:     logger,
		OnAction:   h.handleAction,
		OnStop:     opts.OnStop,
	})
	if err != nil {
		return nil, err
	}

	h.driver = loop.NewBlocking(h.engine)
	if opts.Sleep != nil {
		h.driver.Sleep = opts.Sleep
	}
	return h, nil
}

// Engine returns the driven engine.
func (h *Host) Engine() *loop.Engine {
	return h.engine
}

// Run blocks until the scene quits or ctx is canceled. SIGINT and SIGTERM
// cancel the run.
func (h *Host) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The reader goroutine stays blocked on the terminal after Run returns.
	h.events.input = NewInput(h.in)
	return h.driver.Run(ctx)
}

// events drains startup events before keyboard input.
type events struct {
	startup *loop.Queue
	input   loop.EventSource
}

func (e *events) Drain() iter.Seq[loop.Event] {
	return func(yield func(loop.Event) bool) {
		for ev := range e.startup.Drain() {
			if !yield(ev) {
				return
			}
		}
		if e.input == nil {
			return
		}
		for ev := range e.input.Drain() {
			if !yield(ev) {
				return
			}
		}
	}
}

func (h *Host) handleAction(a core.Action) {
	if a != core.ActionScreenshot {
		return
	}
	if h.shotDir == "" {
		h.logger.Warn("screenshot ignored, no directory configured")
		return
	}
	path, err := render.SaveScreenshot(h.shotDir, h.scene.ID(), h.compositor.Logical(), time.Now())
	if err != nil {
		h.logger.Error("screenshot failed", "error", err)
		return
	}
	h.logger.Info("screenshot saved", "path", path)
}

// Run hosts one scene on the process terminal until it quits.
func Run(ctx context.Context, opts Options) error {
	h, err := NewHost(opts)
	if err != nil {
		return err
	}
	return h.Run(ctx)
}

package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
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

// Options configures a hosted run.
type Options struct {
	Scene  registry.Scene
	Config config.Config
	Logger *log.Logger

	// Size is the terminal size before the first WindowSizeMsg arrives.
	Size core.Size
	// Output receives resize requests. Defaults to os.Stdout.
	Output io.Writer
	// Renderer styles the output; SSH sessions pass their own.
	Renderer *lipgloss.Renderer
	// Clock defaults to the system clock.
	Clock clock.PlatformClock

	ScreenshotDir string
	Backends      []loop.Backend
	OnStop        func(loop.Stats)
}

// Model is the Bubble Tea model that drives one engine cooperatively.
type Model struct {
	scene      registry.Scene
	logger     *log.Logger
	queue      *loop.Queue
	surface    *TerminalSurface
	tracker    *surface.Tracker
	engine     *loop.Engine
	driver     *loop.Cooperative
	compositor *render.Compositor
	styler     *render.Styler
	keys       KeyMap
	shotDir    string
	step       time.Duration

	view string
	done bool
	err  error
}

// NewModel wires a scene to a cooperative engine. The engine is not
// started until Start.
func NewModel(opts Options) (*Model, error) {
	if opts.Scene == nil {
		return nil, fmt.Errorf("tui: no scene: %w", core.ErrConfiguration)
	}
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
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

	ts := NewTerminalSurface(opts.Size, out)
	tracker, err := surface.NewTracker(cfg.Logical(), ts, surface.Capabilities{ResizeNotifications: true}, logger)
	if err != nil {
		return nil, err
	}

	m := &Model{
		scene:      opts.Scene,
		logger:     logger,
		queue:      &loop.Queue{},
		surface:    ts,
		tracker:    tracker,
		compositor: render.NewCompositor(cfg.Logical(), render.Bars{Windowed: windowed, Fullscreen: fullscreen}),
		styler:     render.NewStyler(opts.Renderer),
		keys:       DefaultKeyMap(),
		shotDir:    opts.ScreenshotDir,
		step:       frames.StepDuration(),
	}

	m.engine, err = loop.NewEngine(loop.Config{
		Clock:      clk,
		Frames:     frames,
		Tracker:    tracker,
		Events:     m.queue,
		Simulation: opts.Scene,
		Renderer:   m,
		Backends:   opts.Backends,
		Logger:     logger,
		OnAction:   m.handleAction,
		OnStop:     opts.OnStop,
	})
	if err != nil {
		return nil, err
	}
	m.driver = loop.NewCooperative(m.engine, loop.CancelFunc(func() { m.done = true }))

	if cfg.Display.Fullscreen {
		m.queue.Push(loop.ActionEvent{Action: core.ActionFullscreen})
	}
	return m, nil
}

// Start acquires the engine's backends. Canceling ctx quits at the next
// tick.
func (m *Model) Start(ctx context.Context) error {
	return m.driver.Start(ctx)
}

// Shutdown tears the engine down if the program exited without letting it
// finish, e.g. when the connection dropped.
func (m *Model) Shutdown() error {
	switch m.engine.State() {
	case loop.StateRunning, loop.StateTerminating:
		m.engine.RequestQuit()
		return m.driver.Iterate()
	}
	return nil
}

// Engine returns the driven engine.
func (m *Model) Engine() *loop.Engine {
	return m.engine
}

// Err returns the error that ended the run, if any.
func (m *Model) Err() error {
	return m.err
}

// Init starts the tick loop.
func (m *Model) Init() tea.Cmd {
	return tickCmd(m.step)
}

// Update turns messages into loop events and runs an iteration per tick.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch action := m.keys.Action(msg); action {
		case core.ActionQuit:
			m.queue.Push(loop.QuitEvent{})
		case core.ActionNone:
		default:
			m.queue.Push(loop.ActionEvent{Action: action})
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.surface.SetSize(msg.Width, msg.Height)
		m.queue.Push(loop.ResizeEvent{W: msg.Width, H: msg.Height})
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

func (m *Model) handleTick() (tea.Model, tea.Cmd) {
	err := m.driver.Iterate()
	cmds := m.surface.TakeCommands()

	if err != nil {
		m.err = err
		m.done = true
		return m, tea.Quit
	}
	if m.done {
		if len(cmds) == 0 {
			return m, tea.Quit
		}
		return m, tea.Sequence(tea.Batch(cmds...), tea.Quit)
	}

	cmds = append(cmds, tickCmd(m.step))
	return m, tea.Batch(cmds...)
}

// Draw implements loop.Renderer by composing the frame into the view.
func (m *Model) Draw(f loop.Frame) error {
	screen, err := m.compositor.Compose(f)
	if err != nil {
		return err
	}
	m.view = m.styler.Render(screen)
	return nil
}

// View returns the last composed frame.
func (m *Model) View() string {
	if m.done {
		return ""
	}
	return m.view
}

func (m *Model) handleAction(a core.Action) {
	if a != core.ActionScreenshot {
		return
	}
	if m.shotDir == "" {
		m.logger.Warn("screenshot ignored, no directory configured")
		return
	}
	path, err := render.SaveScreenshot(m.shotDir, m.scene.ID(), m.compositor.Logical(), time.Now())
	if err != nil {
		m.logger.Error("screenshot failed", "error", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// Run hosts one scene in a local Bubble Tea program until it quits.
func Run(ctx context.Context, opts Options) error {
	m, err := NewModel(opts)
	if err != nil {
		return err
	}
	if err := m.Start(ctx); err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, runErr := p.Run()
	if errors.Is(runErr, tea.ErrProgramKilled) && ctx.Err() != nil {
		runErr = nil
	}

	return errors.Join(runErr, m.Shutdown(), m.Err())
}

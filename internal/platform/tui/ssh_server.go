package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/letterbox/internal/config"
	"github.com/vovakirdan/letterbox/internal/core"
	"github.com/vovakirdan/letterbox/internal/loop"
	"github.com/vovakirdan/letterbox/internal/registry"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.letterbox/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Scene skips the picker when set.
	Scene string

	// Loop is the configuration every session runs with.
	Loop config.Config
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
		Loop:        config.Default(),
	}
}

// SSHServer serves one cooperative engine per SSH session.
type SSHServer struct {
	config   SSHServerConfig
	server   *ssh.Server
	logger   *log.Logger
	onStop   func(sceneID string, stats loop.Stats)
	sessions sync.Map // ssh.Session -> *SessionModel
}

// NewSSHServer creates a new SSH server. onStop, if set, is called from the
// session goroutine when a session's engine stops.
func NewSSHServer(cfg SSHServerConfig, logger *log.Logger, onStop func(sceneID string, stats loop.Stats)) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "letterbox-ssh",
		})
	}
	if err := cfg.Loop.Validate(); err != nil {
		return nil, err
	}
	if cfg.Scene != "" && !registry.Exists(cfg.Scene) {
		return nil, fmt.Errorf("tui: unknown scene %q: %w", cfg.Scene, core.ErrConfiguration)
	}

	srv := &SSHServer{
		config: cfg,
		logger: logger,
		onStop: onStop,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		dir := config.Dir()
		if dir == "" {
			return nil, errors.New("tui: cannot get home directory for host key")
		}
		hostKeyPath = filepath.Join(dir, "host_key")
	}

	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("tui: cannot create host key directory: %w", mkdirErr)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.cleanupMiddleware,
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("tui: cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a session model for each connection.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		wish.Fatalln(sshSession, "letterbox needs an interactive terminal (ssh -t)")
		return nil, nil
	}

	model := &SessionModel{
		server:   s,
		session:  sshSession,
		renderer: bubbletea.MakeRenderer(sshSession),
		size:     core.NewSize(pty.Window.Width, pty.Window.Height),
		logger:   s.logger.With("user", sshSession.User()),
	}
	model.picker = NewPickerModel(pty.Window.Width, pty.Window.Height, model.renderer)
	s.sessions.Store(sshSession, model)

	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

// cleanupMiddleware stops a session's engine once its program has exited.
func (s *SSHServer) cleanupMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		next(sshSession)
		if v, ok := s.sessions.LoadAndDelete(sshSession); ok {
			if err := v.(*SessionModel).Shutdown(); err != nil {
				s.logger.Error("session teardown failed", "user", sshSession.User(), "error", err)
			}
		}
	}
}

// loggingMiddleware logs connection events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until interrupted.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-done:
	case err := <-errCh:
		s.logger.Error("server error", "error", err)
		return err
	}
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully shuts down the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// SessionModel shows the picker, then runs the chosen scene.
type SessionModel struct {
	server   *SSHServer
	session  ssh.Session
	renderer *lipgloss.Renderer
	size     core.Size
	logger   *log.Logger

	picker   PickerModel
	scene    *Model
	quitting bool
}

// Init initializes the session.
func (m *SessionModel) Init() tea.Cmd {
	if id := m.server.config.Scene; id != "" {
		return m.startScene(id)
	}
	return m.picker.Init()
}

// Update routes messages to the picker or the running scene.
func (m *SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.size = core.NewSize(wsm.Width, wsm.Height)
	}

	if m.scene != nil {
		_, cmd := m.scene.Update(msg)
		return m, cmd
	}

	next, cmd := m.picker.Update(msg)
	if picker, ok := next.(PickerModel); ok {
		m.picker = picker
	}
	if m.picker.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if selected := m.picker.Selected(); selected != nil {
		return m, m.startScene(selected.ID)
	}
	return m, cmd
}

func (m *SessionModel) startScene(id string) tea.Cmd {
	scene, err := registry.Create(id)
	if err != nil {
		m.logger.Error("cannot create scene", "scene", id, "error", err)
		m.quitting = true
		return tea.Quit
	}

	model, err := NewModel(Options{
		Scene:    scene,
		Config:   m.server.config.Loop,
		Logger:   m.logger.With("scene", id),
		Size:     m.size,
		Output:   m.session,
		Renderer: m.renderer,
		OnStop: func(stats loop.Stats) {
			if m.server.onStop != nil {
				m.server.onStop(id, stats)
			}
		},
	})
	if err == nil {
		err = model.Start(m.session.Context())
	}
	if err != nil {
		m.logger.Error("cannot start scene", "scene", id, "error", err)
		m.quitting = true
		return tea.Quit
	}

	m.scene = model
	// The picker consumed the initial size; replay it for the engine.
	return tea.Batch(model.Init(), func() tea.Msg {
		return tea.WindowSizeMsg{Width: m.size.W, Height: m.size.H}
	})
}

// View renders the picker or the running scene.
func (m *SessionModel) View() string {
	if m.quitting {
		return ""
	}
	if m.scene != nil {
		return m.scene.View()
	}
	return m.picker.View()
}

// Shutdown tears down the scene's engine if it is still running.
func (m *SessionModel) Shutdown() error {
	if m.scene == nil {
		return nil
	}
	return m.scene.Shutdown()
}

package tui

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Iron-Ham/duechat/internal/logging"
	"github.com/Iron-Ham/duechat/internal/tui/msg"
	tea "github.com/charmbracelet/bubbletea"
)

// App wraps the Bubbletea program
type App struct {
	program    *tea.Program
	model      Model
	controller Controller
	logger     *logging.Logger
}

// New creates a new TUI application
func New(ctx context.Context, controller Controller, opts Options, logger *logging.Logger) *App {
	if logger == nil {
		logger = logging.NopLogger()
	}
	model := NewModel(ctx, controller, opts).WithLogger(logger)
	return &App{
		model:      model,
		controller: controller,
		logger:     logger,
	}
}

// Run starts the TUI application
func (a *App) Run() error {
	a.program = tea.NewProgram(
		a.model,
		tea.WithAltScreen(),
	)

	// Quit cleanly on termination signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	done := make(chan struct{})
	program := a.program
	go quitOnSignal(sigChan, done, func() { program.Send(tea.Quit()) })

	// Changes the controller makes on its own, such as resetting an expired
	// session, are forwarded to the event loop
	a.controller.SetChangeCallback(func() {
		a.program.Send(msg.SessionChangedMsg{})
	})

	a.logger.Info("tui started")
	_, err := a.program.Run()

	a.controller.SetChangeCallback(nil)
	signal.Stop(sigChan)
	close(done)
	a.controller.Reset()
	a.logger.Info("tui stopped")

	return err
}

// quitOnSignal calls quit on the first signal, or returns once done is closed.
func quitOnSignal(sigChan <-chan os.Signal, done <-chan struct{}, quit func()) {
	select {
	case <-sigChan:
		quit()
	case <-done:
	}
}

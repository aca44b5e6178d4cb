package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/Iron-Ham/duechat/internal/api"
	"github.com/Iron-Ham/duechat/internal/config"
	"github.com/Iron-Ham/duechat/internal/conversation"
	"github.com/Iron-Ham/duechat/internal/logging"
	"github.com/Iron-Ham/duechat/internal/session"
	"github.com/Iron-Ham/duechat/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Smallest terminal the chat layout fits in.
const (
	minTerminalWidth  = 40
	minTerminalHeight = 15
)

var chatPhone string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start a chat with the collections agent",
	Long: `Start a chat with the collections agent.

Opens the phone entry screen. With --phone the number is pre-filled,
so pressing enter starts the call. Press ctrl+r at any time to start over.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringVarP(&chatPhone, "phone", "p", "", "phone number to pre-fill (e.g., +919876543210)")
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return fmt.Errorf("duechat chat needs an interactive terminal")
	}
	if width, height, err := term.GetSize(fd); err == nil {
		if width < minTerminalWidth || height < minTerminalHeight {
			return fmt.Errorf("terminal too small (%dx%d), need at least %dx%d",
				width, height, minTerminalWidth, minTerminalHeight)
		}
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	client := api.NewHTTPClient(cfg.API.BaseURL,
		api.WithTimeout(cfg.API.Timeout()),
		api.WithLogger(logger),
	)
	controller := session.NewController(client,
		session.WithPacer(session.NewRandomPacer(cfg.Pacing.MinDelay(), cfg.Pacing.MaxDelay())),
		session.WithReconciler(conversation.Reconciler{StickyCompletion: cfg.Conversation.StickyCompletion}),
		session.WithExpiredResetDelay(cfg.Pacing.ExpiredResetDelay()),
		session.WithLogger(logger),
	)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	logger.Info("starting chat", "base_url", cfg.API.BaseURL)

	app := tui.New(ctx, controller, tui.Options{
		ShowTimestamps:   cfg.TUI.ShowTimestamps,
		ShowQuickReplies: cfg.TUI.ShowQuickReplies,
		Phone:            chatPhone,
	}, logger)
	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}

// newLogger opens the log file, or returns a no-op logger when logging is
// disabled. The TUI owns the terminal, so nothing is written to stderr.
func newLogger(cfg *config.Config) (*logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NopLogger(), nil
	}
	logger, err := logging.NewLogger(cfg.Logging.ResolveDir(), cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}
	return logger, nil
}

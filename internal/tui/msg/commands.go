package msg

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Iron-Ham/duechat/internal/api"
	"github.com/Iron-Ham/duechat/internal/errors"
	tea "github.com/charmbracelet/bubbletea"
)

// FeedbackCloseDelay is how long the thank-you note stays up.
const FeedbackCloseDelay = 500 * time.Millisecond

// Session is the part of the session controller the commands drive.
type Session interface {
	Start(ctx context.Context, phone string) (bool, error)
	Send(ctx context.Context, text string) (bool, error)
	UploadScreenshot(ctx context.Context, filename string, r io.Reader) (bool, error)
	SubmitFeedback(ctx context.Context, rating int, text string) (api.FeedbackAck, error)
}

// StartSession returns a command that opens a session for phone.
func StartSession(ctx context.Context, s Session, phone string) tea.Cmd {
	return func() tea.Msg {
		handled, err := s.Start(ctx, phone)
		return StartedMsg{Handled: handled, Err: err}
	}
}

// SendMessage returns a command that submits one user turn.
func SendMessage(ctx context.Context, s Session, text string) tea.Cmd {
	return func() tea.Msg {
		handled, err := s.Send(ctx, text)
		return SentMsg{Handled: handled, Err: err}
	}
}

// UploadScreenshot returns a command that reads the file at path and posts
// it as payment proof. A leading ~ expands to the home directory.
func UploadScreenshot(ctx context.Context, s Session, path string) tea.Cmd {
	return func() tea.Msg {
		path = expandHome(strings.TrimSpace(path))
		name := filepath.Base(path)
		if path == "" {
			return UploadedMsg{Err: errors.NewValidationError("Choose a screenshot file to upload").WithField("screenshot")}
		}

		f, err := os.Open(path)
		if err != nil {
			return UploadedMsg{Filename: name, Err: errors.Wrapf(err, "open screenshot %s", name)}
		}
		defer func() { _ = f.Close() }()

		handled, err := s.UploadScreenshot(ctx, name, f)
		return UploadedMsg{Filename: name, Handled: handled, Err: err}
	}
}

// SubmitFeedback returns a command that posts the rating and comment.
func SubmitFeedback(ctx context.Context, s Session, rating int, text string) tea.Cmd {
	return func() tea.Msg {
		ack, err := s.SubmitFeedback(ctx, rating, text)
		return FeedbackMsg{Ack: ack, Err: err}
	}
}

// CloseFeedback returns a command that sends FeedbackCloseMsg after
// FeedbackCloseDelay.
func CloseFeedback() tea.Cmd {
	return tea.Tick(FeedbackCloseDelay, func(time.Time) tea.Msg {
		return FeedbackCloseMsg{}
	})
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Package tui provides the terminal user interface for duechat.
//
// The [Model] is a Bubble Tea model with three screens: phone entry, the
// chat, and the feedback modal. It owns only presentation state; the
// conversation itself lives in the session controller, which the model
// reads through snapshots and drives through the commands in package msg.
package tui

import (
	"github.com/Iron-Ham/duechat/internal/session"
	"github.com/Iron-Ham/duechat/internal/tui/msg"
)

// Controller is what the TUI needs from the session controller.
type Controller interface {
	msg.Session

	Snapshot() session.Snapshot
	SetChangeCallback(cb session.ChangeCallback)
	Reset()
	ClearError()
	ScreenshotVisible() bool
}

var _ Controller = (*session.Controller)(nil)

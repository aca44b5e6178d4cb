package msg

import "github.com/Iron-Ham/duechat/internal/api"

// StartedMsg is sent when a session start attempt finishes. Handled is
// false when the controller dropped the request.
type StartedMsg struct {
	Handled bool
	Err     error
}

// SentMsg is sent when a user turn has been answered or has failed.
type SentMsg struct {
	Handled bool
	Err     error
}

// UploadedMsg is sent when a screenshot upload finishes.
type UploadedMsg struct {
	Filename string
	Handled  bool
	Err      error
}

// FeedbackMsg is sent when the feedback submission finishes.
type FeedbackMsg struct {
	Ack api.FeedbackAck
	Err error
}

// FeedbackCloseMsg closes the feedback modal after a successful submit.
type FeedbackCloseMsg struct{}

// SessionChangedMsg signals that the controller changed state on its own,
// such as the delayed reset after a session expired.
type SessionChangedMsg struct{}

// Package conversation holds the client-side view of a collection call:
// the transcript, the stage the backend reports, the plans on offer and the
// customer/loan fields shown in the header.
//
// The backend answers every request with a partial snapshot. Reconcile merges
// such a Patch into the previous State so that no field is ever left without
// a value.
package conversation

import "strings"

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Payment statuses the UI reacts to. The backend set is open.
const (
	PaymentPaid     = "paid"
	PaymentDisputed = "disputed"
)

// Default stages used when neither the patch nor the previous state has one.
const (
	StageInit    = "init"
	StageUnknown = "unknown"
)

// Message is one transcript entry.
type Message struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp,omitempty"`
}

// IsUser reports whether the message was written by the customer.
func (m Message) IsUser() bool { return m.Role == RoleUser }

// IsAssistant reports whether the message came from the agent.
func (m Message) IsAssistant() bool { return m.Role == RoleAssistant }

// Plan is a negotiation option offered by the backend.
type Plan struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// State is the reconciled conversation. Empty strings stand for null.
type State struct {
	SessionID         string
	Messages          []Message
	Stage             string
	AwaitingUser      bool
	OfferedPlans      []Plan
	IsComplete        bool
	PaymentStatus     string
	IsVerified        bool
	CustomerName      string
	LoanID            string
	OutstandingAmount *float64
	DaysPastDue       int
}

// NewState returns the state a fresh session starts from.
func NewState() State {
	return State{
		Messages:     []Message{},
		Stage:        StageInit,
		OfferedPlans: []Plan{},
	}
}

// Clone returns a deep copy so callers can hand snapshots to renderers.
func (s State) Clone() State {
	out := s
	out.Messages = append(make([]Message, 0, len(s.Messages)), s.Messages...)
	out.OfferedPlans = append(make([]Plan, 0, len(s.OfferedPlans)), s.OfferedPlans...)
	if s.OutstandingAmount != nil {
		amount := *s.OutstandingAmount
		out.OutstandingAmount = &amount
	}
	return out
}

// LastAssistantMessage returns the most recent agent message, if any.
func (s State) LastAssistantMessage() (Message, bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].IsAssistant() {
			return s.Messages[i], true
		}
	}
	return Message{}, false
}

// paidPhrases mark a customer claiming an earlier payment.
var paidPhrases = []string{"paid", "already paid", "i paid", "made payment", "payment done"}

// ScreenshotEligible reports whether the screenshot upload affordance should
// be offered: the backend marked the account paid or disputed, or the
// customer said anything payment-like. Completion does not matter.
func ScreenshotEligible(s State) bool {
	if s.PaymentStatus == PaymentPaid || s.PaymentStatus == PaymentDisputed {
		return true
	}
	for _, m := range s.Messages {
		if !m.IsUser() {
			continue
		}
		content := strings.ToLower(m.Content)
		for _, phrase := range paidPhrases {
			if strings.Contains(content, phrase) {
				return true
			}
		}
	}
	return false
}

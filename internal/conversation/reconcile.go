package conversation

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/Iron-Ham/duechat/internal/errors"
)

// Reconciler merges backend patches into the previous state.
type Reconciler struct {
	// StickyCompletion keeps the previous IsComplete when a patch omits
	// is_complete. By default an omitted flag resets completion to false.
	StickyCompletion bool
}

// Reconcile merges p into prev with the default policy.
func Reconcile(prev *State, p Patch) (State, error) {
	return Reconciler{}.Reconcile(prev, p)
}

// Reconcile merges p into prev field by field. prev == nil means the session
// is being created. A scalar field of the wrong JSON type makes the whole
// patch malformed: the result is then prev with only a validated messages
// array spliced in, and the returned error wraps errors.ErrMalformedPatch.
func (r Reconciler) Reconcile(prev *State, p Patch) (State, error) {
	base := NewState()
	defaultStage := StageInit
	if prev != nil {
		base = prev.Clone()
		defaultStage = StageUnknown
	}

	next, err := r.merge(base, p)
	if err != nil {
		return safeMerge(base, p), fmt.Errorf("%w: %v", errors.ErrMalformedPatch, err)
	}
	if next.Stage == "" {
		next.Stage = defaultStage
	}
	return next, nil
}

func (r Reconciler) merge(s State, p Patch) (State, error) {
	if msgs, ok := decodeMessages(p.Messages); ok {
		s.Messages = msgs
	}
	if plans, ok := decodePlans(p.OfferedPlans); ok {
		s.OfferedPlans = plans
	}

	var err error
	if s.SessionID, err = mergeString("session_id", p.SessionID, s.SessionID); err != nil {
		return s, err
	}
	if s.Stage, err = mergeString("stage", p.Stage, s.Stage); err != nil {
		return s, err
	}
	if s.PaymentStatus, err = mergeString("payment_status", p.PaymentStatus, s.PaymentStatus); err != nil {
		return s, err
	}
	if s.CustomerName, err = mergeString("customer_name", p.CustomerName, s.CustomerName); err != nil {
		return s, err
	}
	if s.LoanID, err = mergeString("loan_id", p.LoanID, s.LoanID); err != nil {
		return s, err
	}

	if present(p.AwaitingUser) {
		s.AwaitingUser = truthy(p.AwaitingUser)
	}
	if present(p.IsVerified) {
		s.IsVerified = truthy(p.IsVerified)
	}

	if !r.StickyCompletion || present(p.IsComplete) {
		s.IsComplete = truthy(p.IsComplete)
	}

	if present(p.OutstandingAmount) {
		var amount float64
		if err := json.Unmarshal(p.OutstandingAmount, &amount); err != nil {
			return s, fieldError("outstanding_amount", err)
		}
		s.OutstandingAmount = &amount
	}
	if present(p.DaysPastDue) {
		days, err := decodeDays(p.DaysPastDue)
		if err != nil {
			return s, fieldError("days_past_due", err)
		}
		s.DaysPastDue = days
	}

	return s, nil
}

// safeMerge keeps everything from prev except a messages array that decodes.
func safeMerge(prev State, p Patch) State {
	out := prev.Clone()
	if msgs, ok := decodeMessages(p.Messages); ok {
		out.Messages = msgs
	}
	if out.Stage == "" {
		out.Stage = StageInit
	}
	return out
}

// mergeString returns the patch value when it is truthy, otherwise prev.
// A truthy value that is not a JSON string is an error.
func mergeString(field string, raw json.RawMessage, prev string) (string, error) {
	if !truthy(raw) {
		return prev, nil
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return prev, fieldError(field, err)
	}
	return v, nil
}

func decodeMessages(raw json.RawMessage) ([]Message, bool) {
	if !present(raw) {
		return nil, false
	}
	var msgs []Message
	if err := json.Unmarshal(raw, &msgs); err != nil || msgs == nil {
		return nil, false
	}
	return msgs, true
}

func decodePlans(raw json.RawMessage) ([]Plan, bool) {
	if !present(raw) {
		return nil, false
	}
	var plans []Plan
	if err := json.Unmarshal(raw, &plans); err != nil || plans == nil {
		return nil, false
	}
	return plans, true
}

// decodeDays accepts whole numbers, including 32.0, within int32 range.
func decodeDays(raw json.RawMessage) (int, error) {
	var days float64
	if err := json.Unmarshal(raw, &days); err != nil {
		return 0, err
	}
	if days != math.Trunc(days) || math.Abs(days) > math.MaxInt32 {
		return 0, fmt.Errorf("%v is not a whole number of days", days)
	}
	return int(days), nil
}

func fieldError(field string, err error) error {
	return fmt.Errorf("%s: %w", field, err)
}

package conversation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Patch is a backend response body kept as raw JSON per field, so absence,
// null and wrong types can be told apart during reconciliation.
type Patch struct {
	SessionID         json.RawMessage `json:"session_id,omitempty"`
	Messages          json.RawMessage `json:"messages,omitempty"`
	Stage             json.RawMessage `json:"stage,omitempty"`
	AwaitingUser      json.RawMessage `json:"awaiting_user,omitempty"`
	OfferedPlans      json.RawMessage `json:"offered_plans,omitempty"`
	IsComplete        json.RawMessage `json:"is_complete,omitempty"`
	PaymentStatus     json.RawMessage `json:"payment_status,omitempty"`
	IsVerified        json.RawMessage `json:"is_verified,omitempty"`
	CustomerName      json.RawMessage `json:"customer_name,omitempty"`
	OutstandingAmount json.RawMessage `json:"outstanding_amount,omitempty"`
	DaysPastDue       json.RawMessage `json:"days_past_due,omitempty"`
	LoanID            json.RawMessage `json:"loan_id,omitempty"`
}

// ParsePatch decodes a response body. Anything but a JSON object is an error.
func ParsePatch(data []byte) (Patch, error) {
	var p Patch
	if err := json.Unmarshal(data, &p); err != nil {
		return Patch{}, fmt.Errorf("decode response: %w", err)
	}
	return p, nil
}

// HasMessages reports whether the patch carries a non-null messages field.
func (p Patch) HasMessages() bool { return present(p.Messages) }

// HasStage reports whether the patch carries a truthy stage.
func (p Patch) HasStage() bool { return truthy(p.Stage) }

// present reports whether raw holds a value other than null.
func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// truthy applies loose boolean coercion to a raw JSON value: null, false,
// 0 and "" are false; every other value, including [] and {}, is true.
func truthy(raw json.RawMessage) bool {
	if !present(raw) {
		return false
	}
	trimmed := bytes.TrimSpace(raw)
	switch trimmed[0] {
	case 'f':
		return false
	case 't', '[', '{':
		return true
	case '"':
		return !bytes.Equal(trimmed, []byte(`""`))
	default:
		n, err := strconv.ParseFloat(string(trimmed), 64)
		return err != nil || n != 0
	}
}

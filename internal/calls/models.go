package calls

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CallRequest describes one outbound call as entered in the dashboard form.
//
// Normalized values only: strings are trimmed, Notes is empty when blank and
// ScheduledAt is either empty or an ISO 8601 datetime string.
type CallRequest struct {
	ContactName string      `json:"contactName"`
	PhoneNumber string      `json:"phoneNumber"`
	Objective   string      `json:"objective"`
	ScriptStyle ScriptStyle `json:"scriptStyle"`
	ScheduledAt string      `json:"scheduledAt,omitempty"`
	Notes       string      `json:"notes,omitempty"`
}

// HasSchedule reports whether a schedule time was supplied.
func (r CallRequest) HasSchedule() bool {
	return strings.TrimSpace(r.ScheduledAt) != ""
}

// ScriptStyle is the conversational tone used for preview and spoken scripts.
type ScriptStyle string

const (
	ScriptStyleFriendly     ScriptStyle = "friendly"
	ScriptStyleDirect       ScriptStyle = "direct"
	ScriptStyleConsultative ScriptStyle = "consultative"
)

// ScriptStyles lists the accepted styles in display order.
var ScriptStyles = []ScriptStyle{ScriptStyleFriendly, ScriptStyleDirect, ScriptStyleConsultative}

func (s ScriptStyle) Valid() bool {
	switch s {
	case ScriptStyleFriendly, ScriptStyleDirect, ScriptStyleConsultative:
		return true
	default:
		return false
	}
}

// CallStatus is the status recorded for a dispatched call.
type CallStatus string

const (
	CallStatusQueued     CallStatus = "queued"
	CallStatusInProgress CallStatus = "in-progress"
	CallStatusCompleted  CallStatus = "completed"
	CallStatusFailed     CallStatus = "failed"
)

func (s CallStatus) Valid() bool {
	switch s {
	case CallStatusQueued, CallStatusInProgress, CallStatusCompleted, CallStatusFailed:
		return true
	default:
		return false
	}
}

// CallLogEntry is one row of the dashboard history.
//
// Entries are created once, right after a dispatch response, and never updated:
// status reflects what the dispatch endpoint answered, not the final call outcome.
type CallLogEntry struct {
	CallRequest

	ID        string     `json:"id"`
	CreatedAt time.Time  `json:"createdAt"`
	Status    CallStatus `json:"status"`
	Message   string     `json:"message,omitempty"`
	CallSid   string     `json:"callSid,omitempty"`
}

// NewLogEntry builds a history entry for req with a fresh identifier.
func NewLogEntry(req CallRequest, status CallStatus, message, callSid string, now time.Time) CallLogEntry {
	return CallLogEntry{
		CallRequest: req,
		ID:          uuid.NewString(),
		CreatedAt:   now.UTC(),
		Status:      status,
		Message:     message,
		CallSid:     callSid,
	}
}

func (e CallLogEntry) String() string {
	return fmt.Sprintf("%s %s <%s> %s", e.CreatedAt.Format(time.RFC3339), e.ContactName, e.PhoneNumber, e.Status)
}

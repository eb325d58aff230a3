package reporting

import (
	"time"

	"outbound-caller/internal/calls"
)

// Common filtering inputs.

type TimeRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains reports whether t falls in [From, To). A zero bound is open.
func (r TimeRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && !t.Before(r.To) {
		return false
	}
	return true
}

// SummaryRequest filters the entries that are summarized. A zero Range
// covers the whole history.
type SummaryRequest struct {
	Range TimeRange `json:"range"`
}

type CallsSummary struct {
	TotalCalls      int `json:"total_calls"`
	QueuedCalls     int `json:"queued_calls"`
	InProgressCalls int `json:"in_progress_calls"`
	CompletedCalls  int `json:"completed_calls"`
	FailedCalls     int `json:"failed_calls"`

	// ScheduledCalls had a scheduledAt value; ImmediateCalls did not.
	ScheduledCalls int `json:"scheduled_calls"`
	ImmediateCalls int `json:"immediate_calls"`

	ByStyle map[calls.ScriptStyle]int `json:"by_style"`

	// SuccessRate is the share of non-failed entries, 0 when empty.
	SuccessRate float64 `json:"success_rate"`
}

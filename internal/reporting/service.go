package reporting

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"outbound-caller/internal/calls"
)

var ErrInvalidRequest = errors.New("reporting: invalid request")

// Source provides the history entries to report on. *history.Store
// satisfies it.
type Source interface {
	Entries() []calls.CallLogEntry
}

type Service struct {
	src Source
}

func NewService(src Source) *Service { return &Service{src: src} }

func (s *Service) CallsSummary(ctx context.Context, req SummaryRequest) (CallsSummary, error) {
	if !req.Range.From.IsZero() && !req.Range.To.IsZero() && !req.Range.To.After(req.Range.From) {
		return CallsSummary{}, ErrInvalidRequest
	}
	if s.src == nil {
		return CallsSummary{}, errors.New("reporting: source not configured")
	}

	out := CallsSummary{ByStyle: map[calls.ScriptStyle]int{}}
	for _, e := range s.src.Entries() {
		if !req.Range.Contains(e.CreatedAt) {
			continue
		}
		out.TotalCalls++
		if e.HasSchedule() {
			out.ScheduledCalls++
		} else {
			out.ImmediateCalls++
		}
		out.ByStyle[e.ScriptStyle]++
		switch e.Status {
		case calls.CallStatusQueued:
			out.QueuedCalls++
		case calls.CallStatusInProgress:
			out.InProgressCalls++
		case calls.CallStatusCompleted:
			out.CompletedCalls++
		case calls.CallStatusFailed:
			out.FailedCalls++
		}
	}
	if out.TotalCalls > 0 {
		out.SuccessRate = float64(out.TotalCalls-out.FailedCalls) / float64(out.TotalCalls)
	}
	return out, nil
}

// Write prints a human readable summary.
func (c CallsSummary) Write(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Total calls:  %d\n", c.TotalCalls)
	fmt.Fprintf(&b, "  queued:      %d\n", c.QueuedCalls)
	fmt.Fprintf(&b, "  in-progress: %d\n", c.InProgressCalls)
	fmt.Fprintf(&b, "  completed:   %d\n", c.CompletedCalls)
	fmt.Fprintf(&b, "  failed:      %d\n", c.FailedCalls)
	fmt.Fprintf(&b, "Scheduled:    %d\n", c.ScheduledCalls)
	fmt.Fprintf(&b, "Immediate:    %d\n", c.ImmediateCalls)
	for _, st := range calls.ScriptStyles {
		fmt.Fprintf(&b, "Style %-13s %d\n", string(st)+":", c.ByStyle[st])
	}
	fmt.Fprintf(&b, "Success rate: %.0f%%\n", c.SuccessRate*100)
	_, err := io.WriteString(w, b.String())
	return err
}

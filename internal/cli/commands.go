package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"outbound-caller/internal/calls"
	"outbound-caller/internal/client"
	"outbound-caller/internal/reporting"
	"outbound-caller/internal/script"
)

// PreviewCmd prints the script preview for the current form.
type PreviewCmd struct {
	FormFlags `group:"Call form"`

	Remote bool `long:"remote" description:"render the preview on the API server"`

	app *App
}

func (c *PreviewCmd) Execute(_ []string) error {
	a := c.app
	if err := a.setup(); err != nil {
		return err
	}
	form, err := a.form(c.FormFlags)
	if err != nil {
		return err
	}
	req, ok, err := a.validate(form)
	if err != nil {
		return err
	}
	if !ok {
		// The preview is still useful while the form is incomplete.
		req = form
	}
	text := script.Preview(req)
	if c.Remote {
		if text, err = a.client.Preview(a.ctx, req); err != nil {
			a.log.Debug("remote preview failed", "err", err)
			_, message := outcome(req, "", "", err)
			fmt.Fprintln(a.Stderr, "ERROR: "+message)
			return errReported
		}
	}
	fmt.Fprintln(a.Stdout, text)
	if !ok {
		return errInvalidForm
	}
	return nil
}

// CallCmd validates the form, places the call and records the outcome.
type CallCmd struct {
	FormFlags `group:"Call form"`

	Quiet bool `short:"q" long:"quiet" description:"do not print the script preview"`

	app *App
}

func (c *CallCmd) Execute(_ []string) error {
	a := c.app
	if err := a.setup(); err != nil {
		return err
	}
	form, err := a.form(c.FormFlags)
	if err != nil {
		return err
	}
	req, ok, err := a.validate(form)
	if err != nil {
		return err
	}
	if !ok {
		return errInvalidForm
	}
	if !c.Quiet {
		fmt.Fprintln(a.Stdout, script.Preview(req))
		fmt.Fprintln(a.Stdout)
	}

	res, callErr := a.client.CreateCall(a.ctx, req)
	status, message := outcome(req, res.Status, res.Message, callErr)
	if callErr != nil {
		a.log.Debug("call submission failed", "err", callErr)
	}

	entry := calls.NewLogEntry(req, status, message, res.CallSid, a.Now())
	if err := a.store.Append(a.ctx, entry); err != nil {
		a.log.Warn("could not save call history", "err", err)
	}

	if callErr != nil {
		fmt.Fprintln(a.Stderr, "ERROR: "+message)
		return errReported
	}
	fmt.Fprintln(a.Stdout, "SUCCESS: "+message)
	if res.CallSid != "" {
		fmt.Fprintln(a.Stdout, "Call SID: "+res.CallSid)
	}
	return nil
}

// outcome maps a submission result to what is recorded and shown.
func outcome(req calls.CallRequest, status calls.CallStatus, message string, err error) (calls.CallStatus, string) {
	var se *client.StatusError
	switch {
	case err == nil:
		if !status.Valid() {
			status = calls.CallStatusInProgress
			if req.HasSchedule() {
				status = calls.CallStatusQueued
			}
		}
		if message == "" {
			message = "Call submitted."
		}
		return status, message
	case errors.Is(err, client.ErrUnreachable):
		return calls.CallStatusFailed, client.ConnectivityMessage
	case errors.As(err, &se) && se.Message != "":
		return calls.CallStatusFailed, se.Message
	default:
		return calls.CallStatusFailed, "The call service returned an unexpected response."
	}
}

// HistoryCmd lists the stored history, newest first.
type HistoryCmd struct {
	Clear   bool `long:"clear" description:"delete every history entry"`
	Summary bool `long:"summary" description:"print totals instead of the list"`

	app *App
}

func (c *HistoryCmd) Execute(_ []string) error {
	a := c.app
	if err := a.setup(); err != nil {
		return err
	}
	if c.Clear {
		if err := a.store.Clear(a.ctx); err != nil {
			return err
		}
		fmt.Fprintln(a.Stdout, "History cleared.")
		return nil
	}
	if c.Summary {
		sum, err := reporting.NewService(a.store).CallsSummary(a.ctx, reporting.SummaryRequest{})
		if err != nil {
			return err
		}
		return sum.Write(a.Stdout)
	}

	entries := a.store.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(a.Stdout, "No calls yet.")
		return nil
	}
	tw := tabwriter.NewWriter(a.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CREATED\tSTATUS\tCONTACT\tPHONE\tSTYLE\tSCHEDULED\tMESSAGE")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.CreatedAt.In(a.Location).Format("2006-01-02 15:04"),
			e.Status,
			e.ContactName,
			e.PhoneNumber,
			e.ScriptStyle,
			scheduled(e, a.Location),
			e.Message,
		)
	}
	return tw.Flush()
}

func scheduled(e calls.CallLogEntry, loc *time.Location) string {
	if !e.HasSchedule() {
		return "-"
	}
	t, err := calls.ParseLenientTime(e.ScheduledAt, loc)
	if err != nil {
		return e.ScheduledAt
	}
	return t.In(loc).Format("2006-01-02 15:04")
}

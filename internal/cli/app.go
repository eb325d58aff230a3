// Package cli implements the dialer dashboard: a terminal rendition of the
// call form, the script preview and the local call history.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"outbound-caller/internal/calls"
	"outbound-caller/internal/client"
	"outbound-caller/internal/config"
	"outbound-caller/internal/history"
	"outbound-caller/pkg/logger"

	"github.com/jessevdk/go-flags"
)

// errReported marks failures that were already printed to the user.
var errReported = errors.New("cli: reported")

// errInvalidForm is returned when client validation rejects the form.
var errInvalidForm = errors.New("cli: invalid form")

// App holds what the commands share. Zero fields get defaults in Run.
type App struct {
	Stdout io.Writer
	Stderr io.Writer

	// Now and Location are used for history timestamps and schedule input.
	Now      func() time.Time
	Location *time.Location

	HTTPClient *http.Client

	opts   *Options
	ctx    context.Context
	log    *slog.Logger
	cfg    config.DashboardConfig
	store  *history.Store
	close  func() error
	client *client.Client
}

// Run parses args, executes the selected command and returns the exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	if a.Stdout == nil {
		a.Stdout = os.Stdout
	}
	if a.Stderr == nil {
		a.Stderr = os.Stderr
	}
	if a.Now == nil {
		a.Now = time.Now
	}
	if a.Location == nil {
		a.Location = time.Local
	}
	a.ctx = ctx
	a.opts = &Options{}
	a.opts.init(a)
	defer a.shutdown()

	parser := flags.NewParser(a.opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "dialer"
	if _, err := parser.ParseArgs(args); err != nil {
		var ferr *flags.Error
		switch {
		case errors.As(err, &ferr) && ferr.Type == flags.ErrHelp:
			fmt.Fprintln(a.Stdout, ferr.Message)
			return 0
		case errors.Is(err, errInvalidForm):
			return 2
		case errors.Is(err, errReported):
			return 1
		default:
			fmt.Fprintln(a.Stderr, "error:", err)
			return 1
		}
	}
	return 0
}

// setup loads config and opens history storage once per run.
func (a *App) setup() error {
	if a.store != nil {
		return nil
	}
	a.log = logger.NewConsole(a.Stderr, a.opts.Verbose)

	cfg, err := config.LoadDashboard(a.opts.Config)
	if err != nil {
		return err
	}
	a.cfg = cfg

	storage, err := history.OpenStorage(a.ctx, cfg.History)
	if err != nil {
		return err
	}
	a.close = storage.Close
	store, err := history.Open(a.ctx, storage, a.log)
	if err != nil {
		return err
	}
	a.store = store

	a.client = client.New(cfg.APIBaseURL, cfg.Timeout)
	if a.HTTPClient != nil {
		a.client.WithHTTPClient(a.HTTPClient)
	}
	a.log.Debug("dashboard ready", "api", cfg.APIBaseURL, "history_driver", cfg.History.Driver)
	return nil
}

func (a *App) shutdown() {
	if a.close != nil {
		if err := a.close(); err != nil && a.log != nil {
			a.log.Warn("close history storage", "err", err)
		}
	}
}

// form merges the flags over the saved draft.
func (a *App) form(f FormFlags) (calls.CallRequest, error) {
	draft, _, err := a.store.LoadDraft(a.ctx)
	if err != nil {
		return calls.CallRequest{}, err
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	style := string(draft.ScriptStyle)
	set(&draft.ContactName, f.Name)
	set(&draft.PhoneNumber, f.Phone)
	set(&draft.Objective, f.Objective)
	set(&style, f.Style)
	set(&draft.ScheduledAt, f.At)
	set(&draft.Notes, f.Notes)
	if style == "" {
		style = string(calls.ScriptStyleFriendly)
	}
	draft.ScriptStyle = calls.ScriptStyle(style)
	return draft, nil
}

// validate checks the form with client rules, prints field errors and saves
// the draft when the form is valid.
func (a *App) validate(form calls.CallRequest) (calls.CallRequest, bool, error) {
	req, err := calls.NewClientValidator(a.Location).ValidateRequest(form)
	if err != nil {
		var fe calls.FieldErrors
		if !errors.As(err, &fe) {
			return calls.CallRequest{}, false, err
		}
		fmt.Fprintln(a.Stderr, "Please fix the following fields:")
		for _, e := range fe {
			fmt.Fprintf(a.Stderr, "  %-12s %s\n", e.Field+":", e.Message)
		}
		return calls.CallRequest{}, false, nil
	}
	if err := a.store.SaveDraft(a.ctx, req); err != nil {
		return calls.CallRequest{}, false, err
	}
	return req, true, nil
}

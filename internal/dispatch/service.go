// Package dispatch turns a submitted call form into a provider call.
//
// Every request is validated again here regardless of what the dashboard
// checked. The schedule delay is encoded as a <Pause> in the spoken markup;
// nothing in this package sleeps or holds state between requests.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"outbound-caller/internal/calls"
	"outbound-caller/internal/config"
	"outbound-caller/internal/telephony"
	"outbound-caller/pkg/logger"
)

// MaxDelaySeconds is the provider's pause ceiling. It is a policy limit, not a setting.
const MaxDelaySeconds = telephony.MaxPauseSeconds

// StatusCallbackEvents are requested whenever a status callback URL is configured.
var StatusCallbackEvents = []string{"initiated", "ringing", "answered", "completed"}

const (
	msgMissingConfig   = "Calling service is not configured. Please contact the administrator."
	msgInvalidSchedule = "Scheduled time is not a valid date"
	msgProviderFailed  = "Failed to place the call with the telephony provider"
)

// Error is a dispatch failure carrying the HTTP status to answer with.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("dispatch: %s: %v", e.Message, e.Err)
	}
	return "dispatch: " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Result is the normalized outcome returned to the dashboard.
type Result struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	CallSid string           `json:"callSid,omitempty"`
	Status  calls.CallStatus `json:"status,omitempty"`

	// DelaySeconds is what was encoded as the leading pause.
	DelaySeconds int `json:"-"`
}

// Service validates, renders and submits outbound calls.
type Service struct {
	provider  telephony.Provider
	twilio    config.TwilioConfig
	validator *calls.Validator
	clock     func() time.Time
}

// NewService wires a provider with the account settings used to call it.
func NewService(provider telephony.Provider, twilio config.TwilioConfig) *Service {
	return &Service{
		provider:  provider,
		twilio:    twilio,
		validator: calls.NewServerValidator(),
		clock:     time.Now,
	}
}

// WithClock replaces the time source; used by tests.
func (s *Service) WithClock(clock func() time.Time) *Service {
	s.clock = clock
	return s
}

// Dispatch runs the full flow for one decoded JSON body.
//
// Order of checks: schema (400), provider configuration (500), schedule date
// (400), schedule window (422), provider call (502).
func (s *Service) Dispatch(ctx context.Context, input map[string]any) (Result, error) {
	log := logger.From(ctx)

	req, err := s.validator.Validate(input)
	if err != nil {
		var fe calls.FieldErrors
		if errors.As(err, &fe) {
			return Result{}, &Error{Status: http.StatusBadRequest, Message: fe.First(), Err: err}
		}
		return Result{}, &Error{Status: http.StatusBadRequest, Message: "Invalid request", Err: err}
	}

	if s.provider == nil || !s.twilio.Configured() {
		log.Error("telephony provider credentials missing")
		return Result{}, &Error{Status: http.StatusInternalServerError, Message: msgMissingConfig}
	}

	now := s.clock()
	delay := 0
	if req.HasSchedule() {
		at, err := calls.ParseSchedule(req.ScheduledAt)
		if err != nil {
			return Result{}, &Error{Status: http.StatusBadRequest, Message: msgInvalidSchedule, Err: err}
		}
		delay = DelaySeconds(at, now)
	}
	if delay > MaxDelaySeconds {
		return Result{}, &Error{
			Status:  http.StatusUnprocessableEntity,
			Message: fmt.Sprintf("Calls can be scheduled at most %d minutes ahead. Choose an earlier time.", MaxDelaySeconds/60),
		}
	}

	twiml, err := telephony.RenderSpeech(delay, telephony.SpokenSegments(req))
	if err != nil {
		return Result{}, &Error{Status: http.StatusInternalServerError, Message: "Failed to build call script", Err: err}
	}

	out := telephony.OutboundCallRequest{
		To:               req.PhoneNumber,
		From:             s.twilio.FromNumber,
		TwiML:            twiml,
		MachineDetection: true,
	}
	if s.twilio.StatusCallbackURL != "" {
		out.StatusCallbackURL = s.twilio.StatusCallbackURL
		out.StatusCallbackEvents = StatusCallbackEvents
	}

	created, err := s.provider.CreateCall(ctx, out)
	if err != nil {
		log.Warn("provider call creation failed", "provider", s.provider.Name(), "err", err)
		return Result{}, &Error{Status: http.StatusBadGateway, Message: providerMessage(err), Err: err}
	}

	res := Result{Success: true, CallSid: created.ProviderCallID, DelaySeconds: delay}
	if delay > 0 {
		res.Status = calls.CallStatusQueued
		res.Message = fmt.Sprintf("Call scheduled. It will start in %s.", humanDelay(delay))
	} else {
		res.Status = calls.CallStatusInProgress
		res.Message = "Call started. The phone should ring shortly."
	}
	log.Info("call dispatched",
		"provider", s.provider.Name(),
		"call_sid", created.ProviderCallID,
		"delay_seconds", delay,
		"style", string(req.ScriptStyle),
	)
	return res, nil
}

// DelaySeconds is max(0, floor((at - now) / 1s)) on millisecond timestamps.
func DelaySeconds(at, now time.Time) int {
	ms := at.UnixMilli() - now.UnixMilli()
	if ms <= 0 {
		return 0
	}
	return int(ms / 1000)
}

func providerMessage(err error) string {
	var perr *telephony.ProviderError
	if errors.As(err, &perr) && strings.TrimSpace(perr.Message) != "" {
		return msgProviderFailed + ": " + perr.Message
	}
	return msgProviderFailed + "."
}

func humanDelay(seconds int) string {
	m, s := seconds/60, seconds%60
	switch {
	case m == 0:
		return plural(s, "second")
	case s == 0:
		return plural(m, "minute")
	default:
		return plural(m, "minute") + " " + plural(s, "second")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

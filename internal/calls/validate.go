package calls

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	phonePattern = regexp.MustCompile(`^\+?[1-9]\d{7,14}$`)

	// isoDateTimePattern is the shape accepted by the server: date, time with
	// optional seconds and fraction, and an explicit zone.
	isoDateTimePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}(:\d{2}(\.\d+)?)?(Z|[+-]\d{2}:\d{2})$`)
)

// Field names as they appear on the wire, in form order.
const (
	FieldContactName = "contactName"
	FieldPhoneNumber = "phoneNumber"
	FieldObjective   = "objective"
	FieldScriptStyle = "scriptStyle"
	FieldScheduledAt = "scheduledAt"
	FieldNotes       = "notes"
)

var fieldOrder = []string{FieldContactName, FieldPhoneNumber, FieldObjective, FieldScriptStyle, FieldScheduledAt, FieldNotes}

var fieldMessages = map[string]string{
	FieldContactName: "Contact name must be at least 2 characters",
	FieldPhoneNumber: "Phone number must be in international format, e.g. +15551234567",
	FieldObjective:   "Objective must be at least 3 characters",
	FieldScriptStyle: "Script style must be friendly, direct or consultative",
}

// FieldError is a single message attached to an input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors holds at most one error per field, in form order.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, e := range fe {
		parts = append(parts, e.Field+": "+e.Message)
	}
	return "calls: invalid request: " + strings.Join(parts, "; ")
}

// First returns the message of the first failing field.
func (fe FieldErrors) First() string {
	if len(fe) == 0 {
		return ""
	}
	return fe[0].Message
}

// For returns the message attached to field, if any.
func (fe FieldErrors) For(field string) (string, bool) {
	for _, e := range fe {
		if e.Field == field {
			return e.Message, true
		}
	}
	return "", false
}

// Rules selects how strictly the schedule field is checked.
type Rules int

const (
	// ClientRules accept any parseable date and normalize it to RFC 3339 UTC.
	ClientRules Rules = iota
	// ServerRules require an ISO 8601 datetime with an explicit zone.
	ServerRules
)

// callForm is the schema checked by the validator. All fields are strings so
// loosely typed input can be checked before it becomes a CallRequest.
type callForm struct {
	ContactName string `json:"contactName" validate:"required,min=2"`
	PhoneNumber string `json:"phoneNumber" validate:"required,phone"`
	Objective   string `json:"objective" validate:"required,min=3"`
	ScriptStyle string `json:"scriptStyle" validate:"required,oneof=friendly direct consultative"`
	ScheduledAt string `json:"scheduledAt" validate:"omitempty,schedule"`
	Notes       string `json:"notes"`
}

// Validator checks call requests. Client and server each build their own
// instance; the rule definitions are shared, the runtime objects are not.
type Validator struct {
	rules    Rules
	location *time.Location
	validate *validator.Validate
}

// NewClientValidator returns the dashboard-side validator. Schedule values
// without a zone are read in loc (time.Local when nil).
func NewClientValidator(loc *time.Location) *Validator {
	if loc == nil {
		loc = time.Local
	}
	return newValidator(ClientRules, loc)
}

// NewServerValidator returns the dispatch-side validator.
func NewServerValidator() *Validator {
	return newValidator(ServerRules, time.UTC)
}

func newValidator(rules Rules, loc *time.Location) *Validator {
	v := &Validator{rules: rules, location: loc, validate: validator.New()}

	v.validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails for empty tags or nil funcs.
	_ = v.validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.validate.RegisterValidation("schedule", func(fl validator.FieldLevel) bool {
		return v.scheduleOK(fl.Field().String())
	})
	return v
}

func (v *Validator) scheduleOK(s string) bool {
	if v.rules == ServerRules {
		return isoDateTimePattern.MatchString(s)
	}
	_, err := ParseLenientTime(s, v.location)
	return err == nil
}

func (v *Validator) scheduleMessage() string {
	if v.rules == ServerRules {
		return "Scheduled time must be an ISO 8601 datetime, e.g. 2025-01-31T15:04:05Z"
	}
	return "Scheduled time must be a valid date"
}

// Validate checks loosely typed input (for example a decoded JSON object) and
// returns the normalized request or FieldErrors.
func (v *Validator) Validate(input map[string]any) (CallRequest, error) {
	var (
		form     callForm
		typeErrs = map[string]string{}
	)
	take := func(field string, dst *string) {
		raw, ok := input[field]
		if !ok || raw == nil {
			return
		}
		s, ok := raw.(string)
		if !ok {
			typeErrs[field] = fmt.Sprintf("Expected text for %s", field)
			return
		}
		*dst = strings.TrimSpace(s)
	}
	take(FieldContactName, &form.ContactName)
	take(FieldPhoneNumber, &form.PhoneNumber)
	take(FieldObjective, &form.Objective)
	take(FieldScriptStyle, &form.ScriptStyle)
	take(FieldScheduledAt, &form.ScheduledAt)
	take(FieldNotes, &form.Notes)

	messages := map[string]string{}
	if err := v.validate.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return CallRequest{}, err
		}
		for _, fe := range verrs {
			field := fe.Field()
			if _, seen := messages[field]; seen {
				continue
			}
			if field == FieldScheduledAt {
				messages[field] = v.scheduleMessage()
				continue
			}
			messages[field] = fieldMessages[field]
		}
	}
	for field, msg := range typeErrs {
		messages[field] = msg
	}

	if len(messages) > 0 {
		out := make(FieldErrors, 0, len(messages))
		for _, field := range fieldOrder {
			if msg, ok := messages[field]; ok {
				out = append(out, FieldError{Field: field, Message: msg})
			}
		}
		return CallRequest{}, out
	}

	req := CallRequest{
		ContactName: form.ContactName,
		PhoneNumber: form.PhoneNumber,
		Objective:   form.Objective,
		ScriptStyle: ScriptStyle(form.ScriptStyle),
		ScheduledAt: form.ScheduledAt,
		Notes:       form.Notes,
	}
	if req.ScheduledAt != "" && v.rules == ClientRules {
		t, err := ParseLenientTime(req.ScheduledAt, v.location)
		if err != nil {
			return CallRequest{}, FieldErrors{{Field: FieldScheduledAt, Message: v.scheduleMessage()}}
		}
		req.ScheduledAt = t.UTC().Format(time.RFC3339)
	}
	return req, nil
}

// ValidateRequest validates an already typed request, e.g. a form draft.
func (v *Validator) ValidateRequest(req CallRequest) (CallRequest, error) {
	return v.Validate(map[string]any{
		FieldContactName: req.ContactName,
		FieldPhoneNumber: req.PhoneNumber,
		FieldObjective:   req.Objective,
		FieldScriptStyle: string(req.ScriptStyle),
		FieldScheduledAt: req.ScheduledAt,
		FieldNotes:       req.Notes,
	})
}

var lenientLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseLenientTime parses the date formats a person is likely to type.
// Values without a zone are read in loc.
func ParseLenientTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range lenientLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("calls: unrecognized date %q", s)
}

// ParseSchedule parses a server-side schedule value. It accepts RFC 3339 with
// or without seconds and fails for impossible dates such as February 30.
func ParseSchedule(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02T15:04Z07:00", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("calls: invalid schedule %q: %w", s, err)
	}
	return t, nil
}

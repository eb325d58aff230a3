package calls

import (
	"errors"
	"testing"
	"time"
)

func validInput() map[string]any {
	return map[string]any{
		"contactName": "Jo",
		"phoneNumber": "+15551234567",
		"objective":   "Confirm meeting",
		"scriptStyle": "direct",
		"notes":       "",
	}
}

func fieldErrors(t *testing.T, err error) FieldErrors {
	t.Helper()
	var fe FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("expected FieldErrors, got %v", err)
	}
	return fe
}

func TestValidate_AcceptsAndNormalizes(t *testing.T) {
	in := validInput()
	in["contactName"] = "  Jo  "
	in["notes"] = "   "

	for _, v := range []*Validator{NewClientValidator(time.UTC), NewServerValidator()} {
		req, err := v.Validate(in)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if req.ContactName != "Jo" {
			t.Fatalf("expected trimmed name, got %q", req.ContactName)
		}
		if req.Notes != "" {
			t.Fatalf("expected blank notes to be omitted, got %q", req.Notes)
		}
		if req.ScriptStyle != ScriptStyleDirect {
			t.Fatalf("unexpected style %q", req.ScriptStyle)
		}
	}
}

func TestValidate_RejectsBadPhoneOnBothSides(t *testing.T) {
	bad := []string{"", "12345", "+0123456789", "555-123-4567", "+1 555 123 4567", "+1234567890123456", "abcdefghij"}
	for _, v := range []*Validator{NewClientValidator(time.UTC), NewServerValidator()} {
		for _, phone := range bad {
			in := validInput()
			in["phoneNumber"] = phone
			_, err := v.Validate(in)
			fe := fieldErrors(t, err)
			if _, ok := fe.For(FieldPhoneNumber); !ok {
				t.Fatalf("expected phoneNumber error for %q, got %v", phone, fe)
			}
			if len(fe) != 1 {
				t.Fatalf("expected only the phone error for %q, got %v", phone, fe)
			}
		}
	}
}

func TestValidate_AcceptsPhoneShapes(t *testing.T) {
	v := NewServerValidator()
	for _, phone := range []string{"15551234", "+15551234567", "+123456789012345"} {
		in := validInput()
		in["phoneNumber"] = phone
		if _, err := v.Validate(in); err != nil {
			t.Fatalf("expected %q to be accepted, got %v", phone, err)
		}
	}
}

func TestValidate_OneMessagePerFieldInFormOrder(t *testing.T) {
	v := NewServerValidator()
	_, err := v.Validate(map[string]any{"scriptStyle": "loud"})
	fe := fieldErrors(t, err)

	want := []string{FieldContactName, FieldPhoneNumber, FieldObjective, FieldScriptStyle}
	if len(fe) != len(want) {
		t.Fatalf("expected %d errors, got %v", len(want), fe)
	}
	for i, f := range want {
		if fe[i].Field != f {
			t.Fatalf("expected field %q at %d, got %q", f, i, fe[i].Field)
		}
	}
	if fe.First() != fieldMessages[FieldContactName] {
		t.Fatalf("unexpected first message %q", fe.First())
	}
}

func TestValidate_MinimumLengths(t *testing.T) {
	v := NewServerValidator()

	in := validInput()
	in["contactName"] = "J"
	fe := fieldErrors(t, func() error { _, err := v.Validate(in); return err }())
	if _, ok := fe.For(FieldContactName); !ok {
		t.Fatalf("expected contactName error, got %v", fe)
	}

	in = validInput()
	in["objective"] = "ok"
	fe = fieldErrors(t, func() error { _, err := v.Validate(in); return err }())
	if _, ok := fe.For(FieldObjective); !ok {
		t.Fatalf("expected objective error, got %v", fe)
	}
}

func TestValidate_RejectsNonStringValues(t *testing.T) {
	in := validInput()
	in["phoneNumber"] = 15551234567.0
	_, err := NewServerValidator().Validate(in)
	fe := fieldErrors(t, err)
	if msg, ok := fe.For(FieldPhoneNumber); !ok || msg != "Expected text for phoneNumber" {
		t.Fatalf("expected type error, got %v", fe)
	}
}

func TestValidate_ServerScheduleMustBeISODateTime(t *testing.T) {
	v := NewServerValidator()
	for _, s := range []string{"2030-01-01T10:00:00Z", "2030-01-01T10:00:00.123+02:00", "2030-01-01T10:00Z"} {
		in := validInput()
		in["scheduledAt"] = s
		req, err := v.Validate(in)
		if err != nil {
			t.Fatalf("expected %q accepted, got %v", s, err)
		}
		if req.ScheduledAt != s {
			t.Fatalf("server must keep the schedule as sent, got %q", req.ScheduledAt)
		}
	}
	for _, s := range []string{"2030-01-01", "2030-01-01T10:00:00", "tomorrow", "01/02/2030 10:00"} {
		in := validInput()
		in["scheduledAt"] = s
		_, err := v.Validate(in)
		if _, ok := fieldErrors(t, err).For(FieldScheduledAt); !ok {
			t.Fatalf("expected scheduledAt error for %q", s)
		}
	}
}

func TestValidate_ClientScheduleIsLenientAndNormalized(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	v := NewClientValidator(loc)

	in := validInput()
	in["scheduledAt"] = "2030-01-01T10:00"
	req, err := v.Validate(in)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if req.ScheduledAt != "2030-01-01T08:00:00Z" {
		t.Fatalf("expected UTC normalization, got %q", req.ScheduledAt)
	}

	in["scheduledAt"] = "not a date"
	_, err = v.Validate(in)
	if msg, ok := fieldErrors(t, err).For(FieldScheduledAt); !ok || msg != "Scheduled time must be a valid date" {
		t.Fatalf("unexpected schedule error %q", msg)
	}
}

func TestValidateRequest(t *testing.T) {
	req, err := NewClientValidator(time.UTC).ValidateRequest(CallRequest{
		ContactName: "Jo",
		PhoneNumber: "+15551234567",
		Objective:   "Confirm meeting",
		ScriptStyle: ScriptStyleFriendly,
		Notes:       " bring slides ",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if req.Notes != "bring slides" {
		t.Fatalf("expected trimmed notes, got %q", req.Notes)
	}
}

func TestParseSchedule_RejectsImpossibleDates(t *testing.T) {
	if _, err := ParseSchedule("2030-02-30T10:00:00Z"); err == nil {
		t.Fatalf("expected error for February 30")
	}
	got, err := ParseSchedule("2030-01-01T10:00Z")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.Second() != 0 || got.Hour() != 10 {
		t.Fatalf("unexpected time %v", got)
	}
}

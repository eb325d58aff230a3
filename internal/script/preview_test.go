package script

import (
	"strings"
	"testing"

	"outbound-caller/internal/calls"
)

func TestPreview_Deterministic(t *testing.T) {
	req := calls.CallRequest{
		ContactName: "Jo",
		PhoneNumber: "+15551234567",
		Objective:   "Confirm meeting",
		ScriptStyle: calls.ScriptStyleConsultative,
		Notes:       "Mention the new pricing",
	}
	first := Preview(req)
	for i := 0; i < 10; i++ {
		if got := Preview(req); got != first {
			t.Fatalf("preview changed between calls:\n%s\n---\n%s", first, got)
		}
	}
}

func TestPreview_SegmentsInOrder(t *testing.T) {
	req := calls.CallRequest{ContactName: "Jo", Objective: "Confirm meeting", ScriptStyle: calls.ScriptStyleDirect}
	got := Preview(req)

	segments := strings.Split(got, "\n\n")
	if len(segments) != 5 {
		t.Fatalf("expected 5 segments without notes, got %d:\n%s", len(segments), got)
	}
	prefixes := []string{"Introduction:", "Objective:", "Tone (Direct and to the point):", "Call flow:", "Closing:"}
	for i, p := range prefixes {
		if !strings.HasPrefix(segments[i], p) {
			t.Fatalf("segment %d: expected prefix %q, got %q", i, p, segments[i])
		}
	}
	if !strings.Contains(segments[0], "Hi Jo,") {
		t.Fatalf("expected contact name in introduction: %q", segments[0])
	}
	if !strings.Contains(segments[1], "Confirm meeting") {
		t.Fatalf("expected objective: %q", segments[1])
	}
	if segments[4] != "Closing:\n"+PresetFor(calls.ScriptStyleDirect).Closing {
		t.Fatalf("unexpected closing %q", segments[4])
	}
}

func TestPreview_NotesOnlyWhenNonBlank(t *testing.T) {
	req := calls.CallRequest{ContactName: "Jo", Objective: "Confirm meeting", ScriptStyle: calls.ScriptStyleFriendly, Notes: "  "}
	if strings.Contains(Preview(req), "Notes:") {
		t.Fatalf("blank notes must not produce a segment")
	}
	req.Notes = "Call after lunch"
	got := Preview(req)
	if !strings.HasSuffix(got, "\n\nNotes:\nCall after lunch") {
		t.Fatalf("expected trailing notes segment, got:\n%s", got)
	}
	if n := len(strings.Split(got, "\n\n")); n != 6 {
		t.Fatalf("expected 6 segments, got %d", n)
	}
}

func TestPreview_Fallbacks(t *testing.T) {
	got := Preview(calls.CallRequest{})
	if !strings.Contains(got, "Hi there,") {
		t.Fatalf("expected name fallback, got:\n%s", got)
	}
	if !strings.Contains(got, fallbackObjective) {
		t.Fatalf("expected objective fallback, got:\n%s", got)
	}
	if !strings.Contains(got, PresetFor(calls.ScriptStyleFriendly).Tone) {
		t.Fatalf("expected friendly preset for unknown style")
	}
}

func TestPreview_FlowIsNotPersonalized(t *testing.T) {
	a := strings.Split(Preview(calls.CallRequest{ContactName: "Jo", ScriptStyle: calls.ScriptStyleDirect}), "\n\n")[3]
	b := strings.Split(Preview(calls.CallRequest{ContactName: "Sam", Objective: "Renew contract"}), "\n\n")[3]
	if a != b || a != flow {
		t.Fatalf("expected identical flow text")
	}
}

package telephony

import (
	"strings"
	"testing"

	"outbound-caller/internal/calls"
)

func TestSpokenSegments_WithoutNotes(t *testing.T) {
	segs := SpokenSegments(calls.CallRequest{ContactName: "Jo", Objective: "Confirm meeting", ScriptStyle: calls.ScriptStyleDirect})
	if len(segs) != 3 {
		t.Fatalf("expected intro, objective, sign-off; got %v", segs)
	}
	if !strings.Contains(segs[0], "Jo") || !strings.Contains(segs[1], "Confirm meeting") {
		t.Fatalf("unexpected segments %v", segs)
	}
	if segs[2] != signOffs[calls.ScriptStyleDirect] {
		t.Fatalf("unexpected sign-off %q", segs[2])
	}
}

func TestSpokenSegments_WithNotes(t *testing.T) {
	segs := SpokenSegments(calls.CallRequest{ContactName: "Jo", Objective: "Confirm meeting", ScriptStyle: calls.ScriptStyleConsultative, Notes: "Room 4"})
	if len(segs) != 4 {
		t.Fatalf("expected 4 segments, got %v", segs)
	}
	if !strings.Contains(segs[2], "Room 4") {
		t.Fatalf("expected notes third, got %v", segs)
	}
}

func TestSignOffsCoverEveryStyle(t *testing.T) {
	for _, s := range calls.ScriptStyles {
		if signOffs[s] == "" {
			t.Fatalf("missing sign-off for %q", s)
		}
	}
}

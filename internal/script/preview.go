// Package script renders the human-readable call script shown as a live
// preview while the form is being filled in.
//
// The preview is cosmetic. The text actually read to the contact is built by
// the telephony package from its own table and may differ.
package script

import (
	"strings"

	"outbound-caller/internal/calls"
)

const (
	fallbackContact   = "there"
	fallbackObjective = "the purpose of this call has not been described yet"
)

// flow is the same for every call.
var flow = strings.Join([]string{
	"Call flow:",
	"1. Greet the contact and confirm you are speaking with the right person.",
	"2. Explain why you are calling in one sentence.",
	"3. Ask whether now is a good time and listen to the answer.",
	"4. Cover the objective and handle questions or objections.",
	"5. Agree on the next step and thank the contact.",
}, "\n")

// Preview renders the preview script for req. It is a pure function of its
// input: equal requests always produce identical text.
func Preview(req calls.CallRequest) string {
	name := strings.TrimSpace(req.ContactName)
	if name == "" {
		name = fallbackContact
	}
	objective := strings.TrimSpace(req.Objective)
	if objective == "" {
		objective = fallbackObjective
	}
	preset := PresetFor(req.ScriptStyle)

	segments := []string{
		"Introduction:\nHi " + name + ", this is a quick call on behalf of our team.",
		"Objective:\nI'm reaching out about " + objective + ".",
		"Tone (" + preset.Label + "):\n" + preset.Tone,
		flow,
		"Closing:\n" + preset.Closing,
	}
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		segments = append(segments, "Notes:\n"+notes)
	}
	return strings.Join(segments, "\n\n")
}

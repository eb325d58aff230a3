package telephony

import (
	"fmt"

	"outbound-caller/internal/calls"
)

// signOffs is read aloud at the end of every call. The preview closings in
// package script are separate text.
var signOffs = map[calls.ScriptStyle]string{
	calls.ScriptStyleFriendly:     "Thanks so much for your time. Have a wonderful day. Goodbye!",
	calls.ScriptStyleDirect:       "That is all for now. Thank you and goodbye.",
	calls.ScriptStyleConsultative: "Thank you for listening. A member of our team will follow up with more details. Goodbye.",
}

// SpokenSegments returns the lines read to the contact, in order: intro,
// objective, optional notes, sign-off.
func SpokenSegments(req calls.CallRequest) []string {
	segments := []string{
		fmt.Sprintf("Hello %s, this is an automated call from our team.", req.ContactName),
		fmt.Sprintf("I'm calling about the following: %s.", req.Objective),
	}
	if req.Notes != "" {
		segments = append(segments, fmt.Sprintf("Additional notes: %s.", req.Notes))
	}
	signOff, ok := signOffs[req.ScriptStyle]
	if !ok {
		signOff = signOffs[calls.ScriptStyleFriendly]
	}
	return append(segments, signOff)
}

package script

import "outbound-caller/internal/calls"

// Preset holds the static wording for one script style.
type Preset struct {
	Label   string
	Tone    string
	Closing string
}

var presets = map[calls.ScriptStyle]Preset{
	calls.ScriptStyleFriendly: {
		Label:   "Friendly check-in",
		Tone:    "Warm and upbeat. Use the contact's first name, smile while speaking and keep the pace relaxed.",
		Closing: "Thanks so much for your time today. It was great catching up, and have a wonderful rest of your day!",
	},
	calls.ScriptStyleDirect: {
		Label:   "Direct and to the point",
		Tone:    "Clear and efficient. State the purpose in the first sentence and keep every answer short.",
		Closing: "Thank you. I'll send a short recap of what we agreed right after this call.",
	},
	calls.ScriptStyleConsultative: {
		Label:   "Consultative conversation",
		Tone:    "Curious and advisory. Ask open questions, listen more than you talk and summarize what you hear.",
		Closing: "Thank you for walking me through that. I'll put together a few recommendations and follow up shortly.",
	},
}

// PresetFor returns the preset for style, falling back to friendly.
func PresetFor(style calls.ScriptStyle) Preset {
	if p, ok := presets[style]; ok {
		return p
	}
	return presets[calls.ScriptStyleFriendly]
}

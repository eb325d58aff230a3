package telephony

import (
	"bytes"
	"encoding/xml"
	"errors"
	"strings"
	"unicode/utf8"
)

// MaxPauseSeconds is the longest <Pause> the provider executes.
const MaxPauseSeconds = 600

// TwiML is built with encoding/xml structs; no provider SDK is involved.
// Say text goes through escapeSpeech and is written as inner XML so the
// escaping is exactly & < > " and nothing else.

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Verbs   []any    `xml:",any"`
}

type twimlPause struct {
	XMLName xml.Name `xml:"Pause"`
	Length  int      `xml:"length,attr"`
}

type twimlSay struct {
	XMLName xml.Name `xml:"Say"`
	Text    string   `xml:",innerxml"`
}

type twimlHangup struct {
	XMLName xml.Name `xml:"Hangup"`
}

var speechEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// escapeSpeech replaces characters XML 1.0 forbids (C0 controls, invalid
// UTF-8) with a space, then escapes & < > ".
func escapeSpeech(s string) string {
	return speechEscaper.Replace(strings.Map(xmlSafeRune, s))
}

func xmlSafeRune(r rune) rune {
	switch {
	case r == '\t', r == '\n', r == '\r':
		return r
	case r == utf8.RuneError:
		return ' '
	case r >= 0x20 && r <= 0xD7FF, r >= 0xE000 && r <= 0xFFFD, r >= 0x10000 && r <= 0x10FFFF:
		return r
	default:
		return ' '
	}
}

// RenderSpeech renders an optional leading pause, one <Say> per segment and a
// final <Hangup/>. The pause is omitted when pauseSeconds <= 0 and clamped to
// MaxPauseSeconds.
func RenderSpeech(pauseSeconds int, segments []string) (string, error) {
	if len(segments) == 0 {
		return "", errors.New("telephony: at least one spoken segment is required")
	}

	var r twimlResponse
	if pauseSeconds > 0 {
		r.Verbs = append(r.Verbs, twimlPause{Length: min(pauseSeconds, MaxPauseSeconds)})
	}
	for _, s := range segments {
		r.Verbs = append(r.Verbs, twimlSay{Text: escapeSpeech(s)})
	}
	r.Verbs = append(r.Verbs, twimlHangup{})

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	if err := enc.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

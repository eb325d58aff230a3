package cli

// Options is the root command that groups sub-commands. The struct tags are
// interpreted by github.com/jessevdk/go-flags.
type Options struct {
	Config  string `short:"f" long:"config" description:"dashboard config YAML path"`
	Verbose bool   `short:"v" long:"verbose" description:"log debug output to stderr"`

	Preview *PreviewCmd `command:"preview" description:"Validate the call form and print the script preview"`
	Call    *CallCmd    `command:"call" description:"Validate the call form and place the call"`
	History *HistoryCmd `command:"history" description:"List, summarize or clear the call history"`
}

// init wires every sub-command to a so that Execute can reach shared state.
func (o *Options) init(a *App) {
	o.Preview = &PreviewCmd{app: a}
	o.Call = &CallCmd{app: a}
	o.History = &HistoryCmd{app: a}
}

// FormFlags are the call form fields. Unset flags fall back to the saved draft.
type FormFlags struct {
	Name      *string `short:"n" long:"name" description:"contact name"`
	Phone     *string `short:"p" long:"phone" description:"phone number in international format, e.g. +15551234567"`
	Objective *string `short:"o" long:"objective" description:"what the call is about"`
	Style     *string `short:"s" long:"style" description:"script style: friendly, direct or consultative"`
	At        *string `long:"at" description:"schedule time, e.g. 2030-01-31T15:04 (local) or RFC 3339"`
	Notes     *string `long:"notes" description:"additional notes read at the end of the call"`
}

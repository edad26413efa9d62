// Package ui is the terminal surface of the nns commands: status lines,
// aligned record blocks, tables, a spinner while transactions are mined
// and the confirmation prompt before anything is signed.
package ui

import (
	"encoding/json"
	"io"
)

// Severity classifies the visual weight of a piece of inline text.
type Severity uint8

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityWarn
	SeverityError
	SeverityCritical
)

// StyledText pairs a plain string with a Severity. It marshals to JSON as
// the plain string so --json output never carries ANSI codes.
type StyledText struct {
	Text     string
	Severity Severity
}

func (s StyledText) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Text)
}

// Available renders availability of a name: green when free, red when
// taken.
func Available(available bool) StyledText {
	if available {
		return StyledText{"available", SeveritySuccess}
	}
	return StyledText{"taken", SeverityError}
}

// OrNone renders an optional record value, "-" in yellow when unset.
func OrNone(value *string) StyledText {
	if value == nil {
		return StyledText{"-", SeverityWarn}
	}
	return StyledText{*value, SeverityInfo}
}

// UI is implemented by TerminalUI for the commands and RecordingUI for
// their tests.
type UI interface {
	// Style colours t by its Severity. Plain text when colours are off.
	Style(t StyledText) string

	Info(format string, args ...any)
	Success(format string, args ...any)
	Warn(format string, args ...any)
	// Error does not exit, callers decide what happens next.
	Error(format string, args ...any)
	// Critical is for what the user must review before signing, and for
	// the proof of what was just broadcast.
	Critical(format string, args ...any)

	Section(title string)
	// KeyValue renders label/value rows with the values aligned.
	KeyValue(rows [][2]string)
	// Table renders a bordered table. No header row when headers is empty.
	Table(headers []string, rows [][]string)

	// Spinner shows msg until the returned stop function is called.
	Spinner(msg string) func()

	// Confirm asks a yes/no question. An empty answer takes the default.
	Confirm(prompt string, defaultYes bool) bool

	// Indent returns a child UI one level deeper sharing the same streams.
	Indent() UI
	// Writer prefixes the current indentation to every written line.
	Writer() io.Writer
}

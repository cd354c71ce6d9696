package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Level represents the severity of a diagnostic
type Level string

const (
	Error   Level = "error"
	Warning Level = "warning"
	Note    Level = "note"
	Help    Level = "help"
)

// Position is a 1-based location in a language definition file
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Diagnostic is a structured problem report with suggestions and context
type Diagnostic struct {
	Level       Level
	Code        string   // Code like E0101
	Message     string   // Primary message
	Position    Position // Location in source
	Length      int      // Length of the problematic region
	Suggestions []string // Suggested fixes
	Notes       []string // Additional context notes
	HelpText    string   // Help text for the diagnostic
}

func (d Diagnostic) Error() string {
	if d.Code != "" {
		return fmt.Sprintf("%s: %s[%s]: %s", d.Position, d.Level, d.Code, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.Position, d.Level, d.Message)
}

// Diagnostics is a list of diagnostics usable as a single error.
type Diagnostics []Diagnostic

func (ds Diagnostics) Error() string {
	msgs := make([]string, len(ds))
	for i, d := range ds {
		msgs[i] = d.Error()
	}
	return strings.Join(msgs, "\n")
}

// HasErrors reports whether any diagnostic is at error level.
func (ds Diagnostics) HasErrors() bool {
	for _, d := range ds {
		if d.Level == Error {
			return true
		}
	}
	return false
}

// ErrorReporter renders diagnostics against the source they refer to
type ErrorReporter struct {
	filename string
	lines    []string
}

// NewErrorReporter creates a new reporter for a file
func NewErrorReporter(filename, source string) *ErrorReporter {
	return &ErrorReporter{
		filename: filename,
		lines:    strings.Split(source, "\n"),
	}
}

// FormatError formats a diagnostic with the offending line, a caret marker,
// suggestions and notes
func (er *ErrorReporter) FormatError(d Diagnostic) string {
	var result strings.Builder

	levelColor := levelColor(d.Level)
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	// Header: error[E0101]: message
	if d.Code != "" {
		result.WriteString(fmt.Sprintf("%s[%s]: %s\n", levelColor(string(d.Level)), d.Code, d.Message))
	} else {
		result.WriteString(fmt.Sprintf("%s: %s\n", levelColor(string(d.Level)), d.Message))
	}

	// Location line: --> filename:line:column
	width := lineNumberWidth(d.Position.Line)
	indent := strings.Repeat(" ", width)
	result.WriteString(fmt.Sprintf("%s %s %s:%d:%d\n", indent, dim("-->"), er.filename, d.Position.Line, d.Position.Column))
	result.WriteString(fmt.Sprintf("%s %s\n", indent, dim("│")))

	if d.Position.Line > 0 && d.Position.Line <= len(er.lines) {
		result.WriteString(fmt.Sprintf("%s %s %s\n",
			bold(fmt.Sprintf("%*d", width, d.Position.Line)),
			dim("│"),
			er.lines[d.Position.Line-1]))
		result.WriteString(fmt.Sprintf("%s %s %s\n", indent, dim("│"), createMarker(d.Position.Column, d.Length, d.Level)))
	}

	for i, suggestion := range d.Suggestions {
		cyan := color.New(color.FgCyan).SprintFunc()
		if i == 0 {
			result.WriteString(fmt.Sprintf("%s %s %s: %s\n", indent, cyan("help"), cyan("try"), suggestion))
		} else {
			result.WriteString(fmt.Sprintf("%s %s %s\n", indent, cyan("    "), suggestion))
		}
	}

	for _, note := range d.Notes {
		blue := color.New(color.FgBlue).SprintFunc()
		result.WriteString(fmt.Sprintf("%s %s %s %s\n", indent, dim("│"), blue("note:"), note))
	}

	if d.HelpText != "" {
		green := color.New(color.FgGreen).SprintFunc()
		result.WriteString(fmt.Sprintf("%s %s %s %s\n", indent, dim("│"), green("help:"), d.HelpText))
	}

	result.WriteString("\n")
	return result.String()
}

// FormatAll formats every diagnostic in order
func (er *ErrorReporter) FormatAll(ds []Diagnostic) string {
	var b strings.Builder
	for _, d := range ds {
		b.WriteString(er.FormatError(d))
	}
	return b.String()
}

func levelColor(level Level) func(...interface{}) string {
	switch level {
	case Warning:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	case Note:
		return color.New(color.FgBlue, color.Bold).SprintFunc()
	case Help:
		return color.New(color.FgGreen, color.Bold).SprintFunc()
	default:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	}
}

// createMarker creates the underline marker for a diagnostic
func createMarker(column, length int, level Level) string {
	if length <= 0 {
		length = 1
	}
	spaces := strings.Repeat(" ", max(0, column-1))
	return spaces + levelColor(level)(strings.Repeat("^", length))
}

// lineNumberWidth calculates the width needed for line numbers
func lineNumberWidth(line int) int {
	return max(3, len(fmt.Sprintf("%d", line)))
}

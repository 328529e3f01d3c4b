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

// Position is a 1-based location in a source file. The zero Position means
// the diagnostic has no location.
type Position struct {
	Line   int
	Column int
}

// IsValid reports whether p points into a file
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Diagnostic represents a structured error with suggestions and context
type Diagnostic struct {
	Level       Level
	Code        string   // Error code like E0001
	Message     string   // Primary error message
	Position    Position // Location in source, if any
	Length      int      // Length of the problematic region
	Suggestions []string // Suggested fixes
	Notes       []string // Additional context notes
	HelpText    string   // Help text for the error
}

func (d Diagnostic) Error() string {
	if d.Code != "" {
		return fmt.Sprintf("%s[%s]: %s", d.Level, d.Code, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Level, d.Message)
}

// Reporter handles consistent diagnostic formatting
type Reporter struct {
	filename string
	lines    []string
}

// NewReporter creates a new reporter for a file. source may be empty when
// the input is not text (bitcode) or was never read.
func NewReporter(filename, source string) *Reporter {
	r := &Reporter{filename: filename}
	if source != "" {
		r.lines = strings.Split(source, "\n")
	}
	return r
}

// Format formats a diagnostic with Rust-like styling
func (r *Reporter) Format(d Diagnostic) string {
	var result strings.Builder

	levelColor := r.getLevelColor(d.Level)
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	// Header: error[E0001]: message
	if d.Code != "" {
		result.WriteString(fmt.Sprintf("%s[%s]: %s\n",
			levelColor(string(d.Level)), d.Code, d.Message))
	} else {
		result.WriteString(fmt.Sprintf("%s: %s\n",
			levelColor(string(d.Level)), d.Message))
	}

	lineNumberWidth := r.getLineNumberWidth(d.Position.Line)
	indent := strings.Repeat(" ", lineNumberWidth)

	// Location line: --> filename:line:column
	switch {
	case r.filename != "" && d.Position.IsValid():
		result.WriteString(fmt.Sprintf("%s %s %s:%d:%d\n",
			indent, dim("-->"), r.filename, d.Position.Line, d.Position.Column))
	case r.filename != "":
		result.WriteString(fmt.Sprintf("%s %s %s\n", indent, dim("-->"), r.filename))
	}

	if d.Position.IsValid() && d.Position.Line <= len(r.lines) {
		result.WriteString(fmt.Sprintf("%s %s\n", indent, dim("│")))

		if d.Position.Line > 1 {
			result.WriteString(fmt.Sprintf("%s %s %s\n",
				dim(fmt.Sprintf("%*d", lineNumberWidth, d.Position.Line-1)),
				dim("│"),
				r.lines[d.Position.Line-2]))
		}

		result.WriteString(fmt.Sprintf("%s %s %s\n",
			bold(fmt.Sprintf("%*d", lineNumberWidth, d.Position.Line)),
			dim("│"),
			r.lines[d.Position.Line-1]))

		marker := r.createMarker(d.Position.Column, d.Length, d.Level)
		result.WriteString(fmt.Sprintf("%s %s %s\n", indent, dim("│"), marker))

		if d.Position.Line < len(r.lines) {
			result.WriteString(fmt.Sprintf("%s %s %s\n",
				dim(fmt.Sprintf("%*d", lineNumberWidth, d.Position.Line+1)),
				dim("│"),
				r.lines[d.Position.Line]))
		}
	}

	if len(d.Suggestions) > 0 {
		suggestionColor := color.New(color.FgCyan).SprintFunc()
		result.WriteString(fmt.Sprintf("%s %s\n", indent, dim("│")))
		for i, suggestion := range d.Suggestions {
			if i == 0 {
				result.WriteString(fmt.Sprintf("%s %s %s: %s\n",
					indent, suggestionColor("help"), suggestionColor("try"), suggestion))
			} else {
				result.WriteString(fmt.Sprintf("%s %s %s\n",
					indent, suggestionColor("    "), suggestion))
			}
		}
	}

	noteColor := color.New(color.FgBlue).SprintFunc()
	for _, note := range d.Notes {
		// Multi-line notes (verifier output) keep their gutter.
		note = strings.ReplaceAll(strings.TrimRight(note, "\n"), "\n", fmt.Sprintf("\n%s %s       ", indent, dim("│")))
		result.WriteString(fmt.Sprintf("%s %s %s %s\n",
			indent, dim("│"), noteColor("note:"), note))
	}

	if d.HelpText != "" {
		helpColor := color.New(color.FgGreen).SprintFunc()
		result.WriteString(fmt.Sprintf("%s %s %s %s\n",
			indent, dim("│"), helpColor("help:"), d.HelpText))
	}

	result.WriteString("\n")
	return result.String()
}

// getLevelColor returns the appropriate color function for a level
func (r *Reporter) getLevelColor(level Level) func(...interface{}) string {
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
func (r *Reporter) createMarker(column, length int, level Level) string {
	if length <= 0 {
		length = 1
	}

	spaces := strings.Repeat(" ", max(0, column-1))

	markerColor := color.New(color.FgRed, color.Bold).SprintFunc()
	if level == Warning {
		markerColor = color.New(color.FgYellow, color.Bold).SprintFunc()
	}

	return spaces + markerColor(strings.Repeat("^", length))
}

// getLineNumberWidth calculates the width needed for line numbers
func (r *Reporter) getLineNumberWidth(line int) int {
	width := len(fmt.Sprintf("%d", line))
	if width < 3 {
		width = 3 // minimum width for visual alignment
	}
	return width
}

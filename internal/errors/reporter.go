package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"zl/internal/parser"
)

// ErrorLevel represents the severity of an error
type ErrorLevel string

const (
	Error   ErrorLevel = "error"
	Warning ErrorLevel = "warning"
	Note    ErrorLevel = "note"
	Help    ErrorLevel = "help"
)

// CompilerError represents a structured diagnostic with suggestions and context
type CompilerError struct {
	Level       ErrorLevel
	Kind        Kind
	Code        string          // Error code like E0001
	Message     string          // Primary error message
	Position    parser.Position // Location in source, zero when unknown
	Length      int             // Length of the problematic region
	Suggestions []Suggestion    // Suggested fixes
	Notes       []string        // Additional context notes
	HelpText    string          // Help text for the error
}

// Error renders the diagnostic as "Kind: message" so it can travel as a Go error.
func (e CompilerError) Error() string {
	if e.Kind == "" {
		return e.Message
	}
	return string(e.Kind) + ": " + e.Message
}

// Suggestion represents a suggested fix
type Suggestion struct {
	Message     string // Description of the suggestion
	Replacement string // Suggested replacement text (optional)
}

// Locate resolves the line and column of every diagnostic from its byte offset.
func Locate(source string, diagnostics []CompilerError) {
	for i := range diagnostics {
		diagnostics[i].Position = parser.PositionOf(source, diagnostics[i].Position.Offset)
	}
}

// ErrorReporter handles consistent error formatting and suggestions
type ErrorReporter struct {
	filename string
	lines    []string
}

// NewErrorReporter creates a new error reporter for a file
func NewErrorReporter(filename, source string) *ErrorReporter {
	return &ErrorReporter{
		filename: filename,
		lines:    strings.Split(source, "\n"),
	}
}

// FormatAll formats every diagnostic in order.
func (er *ErrorReporter) FormatAll(diagnostics []CompilerError) string {
	var result strings.Builder
	for _, d := range diagnostics {
		result.WriteString(er.FormatError(d))
	}
	return result.String()
}

// FormatError formats a diagnostic with Rust-like styling and suggestions.
// The source snippet is shown only when the position is known.
func (er *ErrorReporter) FormatError(err CompilerError) string {
	var result strings.Builder

	levelColor := er.getLevelColor(err.Level)
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	// Header: error[E0005]: message
	if err.Code != "" {
		result.WriteString(fmt.Sprintf("%s[%s]: %s\n",
			levelColor(string(err.Level)), err.Code, err.Message))
	} else {
		result.WriteString(fmt.Sprintf("%s: %s\n",
			levelColor(string(err.Level)), err.Message))
	}

	lineNumberWidth := er.getLineNumberWidth(err.Position.Line)
	indent := strings.Repeat(" ", lineNumberWidth)

	if !err.Position.Known() {
		result.WriteString(fmt.Sprintf("%s %s %s\n", indent, dim("-->"), er.filename))
	} else {
		result.WriteString(fmt.Sprintf("%s %s %s:%d:%d\n",
			indent, dim("-->"), er.filename, err.Position.Line, err.Position.Column))
		result.WriteString(fmt.Sprintf("%s %s\n", indent, dim("│")))

		line := err.Position.Line
		if line > 1 && line-1 <= len(er.lines) {
			result.WriteString(fmt.Sprintf("%s %s %s\n",
				dim(fmt.Sprintf("%*d", lineNumberWidth, line-1)),
				dim("│"),
				er.lines[line-2]))
		}

		if line <= len(er.lines) {
			result.WriteString(fmt.Sprintf("%s %s %s\n",
				bold(fmt.Sprintf("%*d", lineNumberWidth, line)),
				dim("│"),
				er.lines[line-1]))
			result.WriteString(fmt.Sprintf("%s %s %s\n",
				indent, dim("│"), er.createMarker(err.Position.Column, err.Length, err.Level)))
		}
	}

	if len(err.Suggestions) > 0 {
		suggestionColor := color.New(color.FgCyan).SprintFunc()
		result.WriteString(fmt.Sprintf("%s %s\n", indent, dim("│")))
		for i, suggestion := range err.Suggestions {
			if i == 0 {
				result.WriteString(fmt.Sprintf("%s %s %s: %s\n",
					indent, suggestionColor("help"), suggestionColor("try"), suggestion.Message))
			} else {
				result.WriteString(fmt.Sprintf("%s %s %s\n",
					indent, suggestionColor("    "), suggestion.Message))
			}

			if suggestion.Replacement != "" {
				result.WriteString(fmt.Sprintf("%s %s %s\n",
					indent, suggestionColor("│"), suggestionColor(suggestion.Replacement)))
			}
		}
	}

	noteColor := color.New(color.FgBlue).SprintFunc()
	for _, note := range err.Notes {
		result.WriteString(fmt.Sprintf("%s %s %s %s\n",
			indent, dim("│"), noteColor("note:"), note))
	}

	if err.HelpText != "" {
		helpColor := color.New(color.FgGreen).SprintFunc()
		result.WriteString(fmt.Sprintf("%s %s %s %s\n",
			indent, dim("│"), helpColor("help:"), err.HelpText))
	}

	result.WriteString("\n")
	return result.String()
}

func (er *ErrorReporter) getLevelColor(level ErrorLevel) func(...interface{}) string {
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

// createMarker creates the underline marker for errors
func (er *ErrorReporter) createMarker(column, length int, level ErrorLevel) string {
	if length <= 0 {
		length = 1
	}
	spaces := strings.Repeat(" ", max(0, column-1))
	return spaces + er.getLevelColor(level)(strings.Repeat("^", length))
}

func (er *ErrorReporter) getLineNumberWidth(line int) int {
	width := len(fmt.Sprintf("%d", line))
	if width < 3 {
		width = 3 // minimum width for visual alignment
	}
	return width
}

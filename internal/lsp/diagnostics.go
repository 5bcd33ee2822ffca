package lsp

import (
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"zl/internal/errors"
)

const diagnosticSource = "zl"

// ConvertDiagnostics turns compiler diagnostics into LSP diagnostics, one
// per error. Notes, help text and suggestions are appended to the message.
func ConvertDiagnostics(diagnostics []errors.CompilerError) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(diagnostics))

	for _, d := range diagnostics {
		line, char := uint32(0), uint32(0)
		if d.Position.Known() {
			line = uint32(d.Position.Line - 1)
			char = uint32(d.Position.Column - 1)
		}
		length := d.Length
		if length <= 0 {
			length = 1
		}

		out = append(out, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: line, Character: char},
				End:   protocol.Position{Line: line, Character: char + uint32(length)},
			},
			Severity: ptrSeverity(severityOf(d.Level)),
			Code:     &protocol.IntegerOrString{Value: d.Code},
			Source:   ptrString(diagnosticSource),
			Message:  diagnosticMessage(d),
		})
	}

	return out
}

func diagnosticMessage(d errors.CompilerError) string {
	var b strings.Builder
	b.WriteString(d.Message)
	for _, note := range d.Notes {
		b.WriteString("\nnote: ")
		b.WriteString(note)
	}
	for _, s := range d.Suggestions {
		b.WriteString("\nsuggestion: ")
		b.WriteString(s.Message)
		if s.Replacement != "" {
			b.WriteString(": ")
			b.WriteString(s.Replacement)
		}
	}
	if d.HelpText != "" {
		b.WriteString("\nhelp: ")
		b.WriteString(d.HelpText)
	}
	return b.String()
}

func severityOf(level errors.ErrorLevel) protocol.DiagnosticSeverity {
	switch level {
	case errors.Warning:
		return protocol.DiagnosticSeverityWarning
	case errors.Note:
		return protocol.DiagnosticSeverityInformation
	case errors.Help:
		return protocol.DiagnosticSeverityHint
	default:
		return protocol.DiagnosticSeverityError
	}
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

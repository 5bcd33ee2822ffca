package errors

import (
	"fmt"
	"sort"
	"strings"

	"zl/internal/parser"
)

// DiagnosticBuilder provides a fluent interface for creating diagnostics with suggestions
type DiagnosticBuilder struct {
	err CompilerError
}

// NewDiagnostic creates an error-level builder for the given kind.
func NewDiagnostic(kind Kind, message string, pos parser.Position) *DiagnosticBuilder {
	return &DiagnosticBuilder{
		err: CompilerError{
			Level:    Error,
			Kind:     kind,
			Code:     kind.Code(),
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// WithLength sets the length of the error span
func (b *DiagnosticBuilder) WithLength(length int) *DiagnosticBuilder {
	b.err.Length = length
	return b
}

// WithSuggestion adds a suggestion to the error
func (b *DiagnosticBuilder) WithSuggestion(message string) *DiagnosticBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{Message: message})
	return b
}

// WithReplacement adds a suggestion with replacement text
func (b *DiagnosticBuilder) WithReplacement(message, replacement string) *DiagnosticBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{Message: message, Replacement: replacement})
	return b
}

// WithNote adds a note to the error
func (b *DiagnosticBuilder) WithNote(note string) *DiagnosticBuilder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

// WithHelp adds help text to the error
func (b *DiagnosticBuilder) WithHelp(help string) *DiagnosticBuilder {
	b.err.HelpText = help
	return b
}

// Build returns the completed diagnostic
func (b *DiagnosticBuilder) Build() CompilerError {
	return b.err
}

// UnmatchedBracket creates the lexer error for an opener without a closer.
func UnmatchedBracket(char byte, pos parser.Position) CompilerError {
	return NewDiagnostic(KindLexError, fmt.Sprintf("unmatched '%c'", char), pos).
		WithSuggestion(fmt.Sprintf("add the closing '%s'", closerFor(char))).
		WithNote("brackets inside strings and comments are not counted").
		Build()
}

// NestingTooDeep creates the lexer error for brackets nested past the limit.
func NestingTooDeep(char byte, limit int, pos parser.Position) CompilerError {
	return NewDiagnostic(KindLexError, fmt.Sprintf("nesting too deep at '%c'", char), pos).
		WithNote(fmt.Sprintf("brackets may nest at most %d levels", limit)).
		WithHelp("raise [check] max_depth in zl.toml if the nesting is intended").
		Build()
}

// RawValue creates the fatal error for a structured value passed to a rule.
func RawValue(callName string, pos parser.Position) CompilerError {
	return NewDiagnostic(KindTagError, fmt.Sprintf("raw type instead of tagged variable in call to '%s'", callName), pos).
		WithLength(len(callName)).
		WithSuggestion("declare the value first: const name : Type = ...").
		WithHelp("arguments of checked calls must be tagged identifiers").
		Build()
}

// UntaggedArgument creates the error for a literal or expression argument.
func UntaggedArgument(callName, arg string, position int, pos parser.Position) CompilerError {
	return NewDiagnostic(KindTagError,
		fmt.Sprintf("argument %d of '%s' is not a tagged variable: %s", position, callName, arg), pos).
		WithLength(len(arg)).
		WithReplacement("bind the value to a tagged variable", fmt.Sprintf("const arg%d : Type = %s", position, arg)).
		Build()
}

// ArityMismatch creates the error for a call with the wrong argument count.
func ArityMismatch(callName string, expected, actual int, pos parser.Position) CompilerError {
	return NewDiagnostic(KindArityError,
		fmt.Sprintf("'%s' expects %d %s, got %d", callName, expected, plural(expected, "argument"), actual), pos).
		WithLength(len(callName)).
		WithSuggestion(fmt.Sprintf("provide exactly %d %s", expected, plural(expected, "argument"))).
		Build()
}

// UnresolvedVariable creates the error for an argument without a recorded type.
func UnresolvedVariable(name string, pos parser.Position, similarNames []string) CompilerError {
	builder := NewDiagnostic(KindUnresolvedVariableError, fmt.Sprintf("unresolved variable '%s'", name), pos).
		WithLength(len(name))

	switch len(similarNames) {
	case 0:
		builder = builder.WithSuggestion(fmt.Sprintf("declare it with a tag: const %s : Type = ...", name))
	case 1:
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean '%s'?", similarNames[0]))
	default:
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean one of: '%s'?", strings.Join(similarNames, "', '")))
	}

	return builder.WithNote("only variables declared with a type tag can be passed to checked calls").Build()
}

// TypeMismatch creates the error for an argument whose tag differs from the
// declared parameter type. position is 1-based.
func TypeMismatch(callName string, position int, param, expected, actual string, pos parser.Position) CompilerError {
	builder := NewDiagnostic(KindTypeMismatchError,
		fmt.Sprintf("type mismatch at position %d of '%s': expected %s, found %s", position, callName, expected, actual), pos)

	if param != "" {
		builder = builder.WithNote(fmt.Sprintf("parameter '%s' is declared as %s", param, expected))
	}
	if strings.EqualFold(expected, actual) {
		builder = builder.WithSuggestion("type tags are compared case-sensitively")
	}

	return builder.Build()
}

// SimilarNames returns the candidates within edit distance 2 of target,
// sorted. Very short candidates are ignored.
func SimilarNames(target string, candidates []string) []string {
	var similar []string
	for _, candidate := range candidates {
		if candidate != target && len(candidate) > 2 && levenshteinDistance(target, candidate) <= 2 {
			similar = append(similar, candidate)
		}
	}
	sort.Strings(similar)
	return similar
}

func closerFor(open byte) string {
	if open == '{' {
		return "}"
	}
	return ")"
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// Simple Levenshtein distance implementation for finding similar names
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

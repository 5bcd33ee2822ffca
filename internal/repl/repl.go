// Package repl runs an interactive session where every entry is checked
// against the tags and rules of the entries accepted before it.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"zl/internal/compiler"
	"zl/internal/errors"
)

const PROMPT = ">> "

// Session accumulates accepted entries. An entry that fails to compile is
// reported and dropped.
type Session struct {
	opts    compiler.Options
	source  strings.Builder
	output  string
	entries int
}

func NewSession(opts compiler.Options) *Session {
	return &Session{opts: opts}
}

// Eval compiles the session source extended by entry. On success it returns
// the newly generated text; on failure the diagnostics, located within the
// candidate source, and the session is left unchanged.
func (s *Session) Eval(entry string) (string, []errors.CompilerError) {
	candidate := s.Candidate(entry)
	result := compiler.Compile(candidate, s.opts)
	if result.Failed() {
		return "", result.Diagnostics
	}

	s.source.Reset()
	s.source.WriteString(candidate)
	s.entries++

	added := result.Output
	if strings.HasPrefix(result.Output, s.output) {
		added = strings.TrimPrefix(strings.TrimPrefix(result.Output, s.output), "\n")
	}
	s.output = result.Output
	return added, nil
}

// Candidate returns the source Eval compiles for entry. Diagnostics of a
// failed entry are located within it.
func (s *Session) Candidate(entry string) string {
	if s.source.Len() == 0 {
		return entry
	}
	return s.source.String() + "\n" + entry
}

// Source returns the accepted entries joined by newlines.
func (s *Session) Source() string { return s.source.String() }

// Len returns the number of accepted entries.
func (s *Session) Len() int { return s.entries }

// Start reads entries from in until EOF and writes results to out.
func Start(in io.Reader, out io.Writer, opts compiler.Options) {
	session := NewSession(opts)
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, PROMPT)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return
		}

		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		candidate := session.Candidate(line)
		generated, diagnostics := session.Eval(line)
		if len(diagnostics) > 0 {
			reporter := errors.NewErrorReporter("<repl>", candidate)
			fmt.Fprint(out, reporter.FormatAll(diagnostics))
			continue
		}
		if generated != "" {
			fmt.Fprintln(out, generated)
		}
	}
}

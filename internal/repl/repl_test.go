package repl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"zl/internal/compiler"
	"zl/internal/errors"
)

func TestSessionKeepsTagsAcrossEntries(t *testing.T) {
	s := NewSession(compiler.Options{})

	out, diags := s.Eval("function area(w|Number, h|Number) { return w * h }")
	require.Empty(t, diags)
	assert.Contains(t, out, "function area(\nw,h\n)")

	out, diags = s.Eval("const side : Number = 2")
	require.Empty(t, diags)
	assert.Equal(t, "const side = 2", out)

	out, diags = s.Eval("area(side, side)")
	require.Empty(t, diags)
	assert.Equal(t, "area(\nside, side\n)", out)
	assert.Equal(t, 3, s.Len())
}

func TestSessionDropsFailedEntry(t *testing.T) {
	s := NewSession(compiler.Options{})
	_, diags := s.Eval("function area(w|Number, h|Number) { return w * h }")
	require.Empty(t, diags)

	before := s.Source()
	_, diags = s.Eval("area(side, side)")
	require.Len(t, diags, 2)
	assert.Equal(t, errors.KindUnresolvedVariableError, diags[0].Kind)
	assert.Equal(t, before, s.Source())
	assert.Equal(t, 1, s.Len())
}

func TestStart(t *testing.T) {
	color.NoColor = true
	in := strings.NewReader("const n : Number = 1\n\nrun(\n")
	var out bytes.Buffer

	Start(in, &out, compiler.Options{})

	text := out.String()
	assert.Contains(t, text, ">> const n = 1\n")
	assert.Contains(t, text, "unmatched")
	assert.True(t, strings.HasSuffix(text, PROMPT+"\n"))
}

func TestStartLocatesDiagnosticsInCompiledSource(t *testing.T) {
	color.NoColor = true
	in := strings.NewReader("run(\nconst n : Number = 1\nstep(\n")
	var out bytes.Buffer

	Start(in, &out, compiler.Options{})

	text := out.String()
	assert.Contains(t, text, "<repl>:1:4")
	assert.Contains(t, text, "1 │ run(")
	assert.Contains(t, text, "<repl>:2:5")
	assert.Contains(t, text, "2 │ step(")
}

func TestCandidateJoinsAcceptedEntries(t *testing.T) {
	s := NewSession(compiler.Options{})
	assert.Equal(t, "a()", s.Candidate("a()"))

	_, diags := s.Eval("const n : Number = 1")
	require.Empty(t, diags)
	assert.Equal(t, "const n : Number = 1\na()", s.Candidate("a()"))
}

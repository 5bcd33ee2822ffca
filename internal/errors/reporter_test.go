package errors

import (
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"zl/internal/parser"
)

func init() {
	color.NoColor = true
}

func TestErrorReporter(t *testing.T) {
	source := `const x : Number = 1
const y : String = "a"
add(x, y)`

	reporter := NewErrorReporter("main.zl", source)

	err := TypeMismatch("add", 2, "b", "Number", "String", parser.Position{Line: 3, Column: 8, Offset: 48})
	formatted := reporter.FormatError(err)

	assert.Contains(t, formatted, "error["+ErrorTypeMismatch+"]")
	assert.Contains(t, formatted, "position 2")
	assert.Contains(t, formatted, "main.zl:3:8")
	assert.Contains(t, formatted, "add(x, y)")
	assert.Contains(t, formatted, "parameter 'b' is declared as Number")
}

func TestUnknownPositionOmitsSnippet(t *testing.T) {
	reporter := NewErrorReporter("main.zl", "add(x)")

	formatted := reporter.FormatError(ArityMismatch("add", 2, 1, parser.Position{}))

	assert.Contains(t, formatted, "--> main.zl\n")
	assert.NotContains(t, formatted, "add(x)\n")
	assert.Contains(t, formatted, "'add' expects 2 arguments, got 1")
}

func TestUnresolvedVariableError(t *testing.T) {
	pos := parser.Position{Line: 1, Column: 5}

	err := UnresolvedVariable("widht", pos, []string{"width"})
	assert.Equal(t, KindUnresolvedVariableError, err.Kind)
	assert.Equal(t, ErrorUnresolvedVariable, err.Code)
	assert.Contains(t, err.Message, "widht")
	require.Len(t, err.Suggestions, 1)
	assert.Contains(t, err.Suggestions[0].Message, "did you mean 'width'")

	err = UnresolvedVariable("z", pos, nil)
	require.Len(t, err.Suggestions, 1)
	assert.Contains(t, err.Suggestions[0].Message, "const z : Type")

	err = UnresolvedVariable("cout", pos, []string{"count", "cost"})
	assert.Contains(t, err.Suggestions[0].Message, "one of: 'count', 'cost'")
}

func TestRawValueIsTagError(t *testing.T) {
	err := RawValue("draw", parser.Position{})

	assert.Equal(t, KindTagError, err.Kind)
	assert.Equal(t, ErrorTag, err.Code)
	assert.Contains(t, err.Message, "raw type instead of tagged variable")
	assert.Equal(t, "TagError: "+err.Message, err.Error())
}

func TestUntaggedArgumentSuggestsBinding(t *testing.T) {
	err := UntaggedArgument("add", "5", 1, parser.Position{})

	assert.Equal(t, KindTagError, err.Kind)
	require.Len(t, err.Suggestions, 1)
	assert.Equal(t, "const arg1 : Type = 5", err.Suggestions[0].Replacement)
}

func TestArityMismatchWording(t *testing.T) {
	assert.Equal(t, "'neg' expects 1 argument, got 2", ArityMismatch("neg", 1, 2, parser.Position{}).Message)
	assert.Equal(t, "'add' expects 2 arguments, got 3", ArityMismatch("add", 2, 3, parser.Position{}).Message)
}

func TestLexErrors(t *testing.T) {
	err := UnmatchedBracket('{', parser.Position{Line: 1, Column: 6, Offset: 5})
	assert.Equal(t, KindLexError, err.Kind)
	assert.Equal(t, ErrorLex, err.Code)
	assert.Contains(t, err.Suggestions[0].Message, "'}'")

	err = NestingTooDeep('(', 10, parser.Position{})
	assert.Contains(t, err.Notes[0], "10 levels")
}

func TestLocate(t *testing.T) {
	diagnostics := []CompilerError{
		ArityMismatch("f", 1, 0, parser.Position{Offset: 4}),
		ArityMismatch("g", 1, 0, parser.Position{Offset: 0}),
	}

	Locate("ab\ncd", diagnostics)

	assert.Equal(t, parser.Position{Line: 2, Column: 2, Offset: 4}, diagnostics[0].Position)
	assert.Equal(t, parser.Position{Line: 1, Column: 1, Offset: 0}, diagnostics[1].Position)
}

func TestFormatAll(t *testing.T) {
	reporter := NewErrorReporter("main.zl", "f()")
	out := reporter.FormatAll([]CompilerError{
		ArityMismatch("f", 1, 0, parser.Position{}),
		RawValue("f", parser.Position{}),
	})

	assert.Equal(t, 2, strings.Count(out, "error["))
}

func TestErrorMarkerCreation(t *testing.T) {
	reporter := NewErrorReporter("main.zl", "add(width, height)")

	marker := reporter.createMarker(5, 5, Error)

	assert.Equal(t, "    ^^^^^", marker)
}

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, levenshteinDistance("hello", "hello"))
	assert.Equal(t, 1, levenshteinDistance("hello", "hallo"))
	assert.Equal(t, 1, levenshteinDistance("hello", "helo"))
	assert.Equal(t, 5, levenshteinDistance("hello", ""))
	assert.Equal(t, 3, levenshteinDistance("kitten", "sitting"))
}

func TestSimilarNames(t *testing.T) {
	candidates := []string{"width", "height", "xy", "widths", "total"}

	assert.Equal(t, []string{"width", "widths"}, SimilarNames("widt", candidates))
	assert.Empty(t, SimilarNames("verydifferent", candidates))
	assert.Empty(t, SimilarNames("width", []string{"width"}))
}

func TestCodesAndCategories(t *testing.T) {
	kinds := []Kind{KindLexError, KindTagError, KindArityError, KindUnresolvedVariableError, KindTypeMismatchError}
	seen := map[string]bool{}
	for _, k := range kinds {
		code := k.Code()
		require.NotEmpty(t, code, "kind %s", k)
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
		assert.NotEqual(t, "Unknown error code", GetErrorDescription(code))
	}

	assert.Equal(t, "Lexer", GetErrorCategory(ErrorLex))
	assert.Equal(t, "Tag Checking", GetErrorCategory(ErrorTypeMismatch))
	assert.Equal(t, "", Kind("Other").Code())
}

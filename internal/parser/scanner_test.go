package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTokenize(t *testing.T, source string) []Token {
	t.Helper()
	tokens, err := Tokenize(source)
	require.NoError(t, err)
	return tokens
}

func leaf(text string) *Leaf { return &Leaf{Text: text} }

func block(signature string, children ...Token) *Block {
	return &Block{Signature: signature, Children: children}
}

func TestStatementSplitting(t *testing.T) {
	tokens := mustTokenize(t, "let a = 1; let b = 2\n\n  let c = 3  ")

	expected := []Token{leaf("let a = 1"), leaf("let b = 2"), leaf("let c = 3")}
	assert.True(t, Equal(expected, tokens), "got %#v", tokens)
}

func TestBlockSignatureIncludesBracket(t *testing.T) {
	tokens := mustTokenize(t, "function add(a|Number, b|Number) {\n  return a + b\n}")

	expected := []Token{
		block("function add(", leaf("a|Number, b|Number")),
		block("{", leaf("return a + b")),
	}
	assert.True(t, Equal(expected, tokens), "got %#v", tokens)
}

func TestBracketInsideStringIsIgnored(t *testing.T) {
	tokens := mustTokenize(t, `console.log("(")`)

	require.Len(t, tokens, 1)
	b, ok := tokens[0].(*Block)
	require.True(t, ok, "expected a block, got %T", tokens[0])
	assert.Equal(t, "console.log(", b.Signature)
	assert.True(t, Equal([]Token{leaf(`"("`)}, b.Children))
}

func TestEscapedQuoteKeepsStringOpen(t *testing.T) {
	tokens := mustTokenize(t, `say("a\"(;", 'b)')`)

	require.Len(t, tokens, 1)
	b := tokens[0].(*Block)
	assert.True(t, Equal([]Token{leaf(`"a\"(;", 'b)'`)}, b.Children), "got %#v", b.Children)
}

func TestTemplateLiteralBraces(t *testing.T) {
	tokens := mustTokenize(t, "console.log(`Hello ${name}`)")

	require.Len(t, tokens, 1)
	b := tokens[0].(*Block)
	assert.True(t, Equal([]Token{leaf("`Hello ${name}`")}, b.Children))
}

func TestLineCommentIsKeptButInert(t *testing.T) {
	tokens := mustTokenize(t, "// call( ; {\nrun()")

	expected := []Token{leaf("// call( ; {"), block("run(")}
	assert.True(t, Equal(expected, tokens), "got %#v", tokens)
}

func TestBlockCommentIsKeptButInert(t *testing.T) {
	tokens := mustTokenize(t, "/* ( ;\n } */ a = 1")

	expected := []Token{leaf("/* ( ;\n } */ a = 1")}
	assert.True(t, Equal(expected, tokens), "got %#v", tokens)
}

func TestQuoteInsideCommentDoesNotOpenString(t *testing.T) {
	tokens := mustTokenize(t, "// don't\nf(x)")

	expected := []Token{leaf("// don't"), block("f(", leaf("x"))}
	assert.True(t, Equal(expected, tokens), "got %#v", tokens)
}

func TestForHeaderSplitsOnSemicolons(t *testing.T) {
	tokens := mustTokenize(t, "for (let i = 0; i < 3; i++) console.log(i)")

	expected := []Token{
		block("for (", leaf("let i = 0"), leaf("i < 3"), leaf("i++")),
		block("console.log(", leaf("i")),
	}
	assert.True(t, Equal(expected, tokens), "got %#v", tokens)
}

func TestForHeaderKeepsEmptyClauses(t *testing.T) {
	tokens := mustTokenize(t, "for (;; i++) {}")

	expected := []Token{
		block("for (", leaf(""), leaf(""), leaf("i++")),
		block("{"),
	}
	assert.True(t, Equal(expected, tokens), "got %#v", tokens)
}

func TestForHeaderClauseWithBlock(t *testing.T) {
	tokens := mustTokenize(t, "for (let i = f(a); ; ) {}")

	expected := []Token{
		block("for (", block("let i = f(", leaf("a")), leaf(""), leaf("")),
		block("{"),
	}
	assert.True(t, Equal(expected, tokens), "got %#v", tokens)
}

func TestIsForHeader(t *testing.T) {
	assert.True(t, IsForHeader("for ("))
	assert.True(t, IsForHeader("  for await ("))
	assert.False(t, IsForHeader("format("))
	assert.False(t, IsForHeader("x.for("))
}

func TestNestingMirrorsBrackets(t *testing.T) {
	tokens := mustTokenize(t, "f(g(h({ a: 1 })))")

	assert.Equal(t, 4, Depth(tokens))
}

func TestUnmatchedOpener(t *testing.T) {
	tests := []struct {
		input    string
		char     byte
		position int
	}{
		{"foo(bar", '(', 3},
		{"a(b) {", '{', 5},
		{"x\n  if (ok) { run( }", '(', 17},
		{"( { )", '{', 2},
		{`log(")"`, '(', 3},
	}

	for _, tt := range tests {
		_, err := Tokenize(tt.input)
		require.Error(t, err, "input %q", tt.input)

		var lexErr *LexError
		require.True(t, errors.As(err, &lexErr), "input %q: expected *LexError, got %T", tt.input, err)
		assert.Equal(t, tt.char, lexErr.Char, "input %q", tt.input)
		assert.Equal(t, tt.position, lexErr.Position, "input %q", tt.input)
		assert.Empty(t, lexErr.Reason)
	}
}

func TestUnmatchedCloserIsText(t *testing.T) {
	tokens := mustTokenize(t, "a)\nb}")

	expected := []Token{leaf("a)"), leaf("b}")}
	assert.True(t, Equal(expected, tokens), "got %#v", tokens)
}

func TestMaxDepth(t *testing.T) {
	_, err := NewScanner("((()))").WithMaxDepth(2).ScanTokens()

	var lexErr *LexError
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, 2, lexErr.Position)
	assert.Equal(t, "nesting too deep", lexErr.Reason)

	_, err = NewScanner("((()))").WithMaxDepth(3).ScanTokens()
	assert.NoError(t, err)
}

func TestTokenOffsets(t *testing.T) {
	tokens := mustTokenize(t, "  x\n  y(z)")

	require.Len(t, tokens, 2)
	assert.Equal(t, 2, tokens[0].Pos())
	assert.Equal(t, 6, tokens[1].Pos())
	assert.Equal(t, 8, tokens[1].(*Block).Children[0].Pos())
}

func TestEmptyInput(t *testing.T) {
	tokens := mustTokenize(t, " \n;\n ")
	assert.Empty(t, tokens)
}

func TestPositionOf(t *testing.T) {
	source := "ab\ncd(\n"

	assert.Equal(t, Position{Line: 1, Column: 1, Offset: 0}, PositionOf(source, 0))
	assert.Equal(t, Position{Line: 2, Column: 3, Offset: 5}, PositionOf(source, 5))
	assert.False(t, PositionOf(source, 99).Known())
}

func TestEqualIgnoresOffsets(t *testing.T) {
	a := []Token{&Block{Signature: "f(", Offset: 3, Children: []Token{&Leaf{Text: "x", Offset: 5}}}}
	b := []Token{block("f(", leaf("x"))}

	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, []Token{block("f(", leaf("y"))}))
	assert.False(t, Equal(a, []Token{leaf("f(")}))
}

func TestBlockCloser(t *testing.T) {
	assert.Equal(t, ")", block("f(").Closer())
	assert.Equal(t, "}", block("if (x) {").Closer())
	assert.Equal(t, "\n", block("odd").Closer())
}

func TestCloneIsDeep(t *testing.T) {
	original := []Token{block("f(", leaf("a|Number"), block("g(", leaf("b|Number")))}
	copied := Clone(original)
	require.True(t, Equal(original, copied))

	copied[0].(*Block).Children[0].SetHead("a")
	copied[0].(*Block).Children[1].(*Block).Children[0].SetHead("b")

	assert.Equal(t, "a|Number", original[0].(*Block).Children[0].Head())
	assert.Equal(t, "b|Number", original[0].(*Block).Children[1].(*Block).Children[0].Head())
	assert.Nil(t, Clone(nil))
}

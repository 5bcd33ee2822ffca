package lsp

import (
	"regexp"
	"sort"

	"zl/internal/parser"
	"zl/internal/semantic"
)

// SemanticToken represents a single LSP semantic token entry
// Line and StartChar are 0-based positions
// TokenType is an index into SemanticTokenTypes
// TokenModifiers is a bitmask based on SemanticTokenModifiers
type SemanticToken struct {
	Line           uint32
	StartChar      uint32
	Length         uint32
	TokenType      int
	TokenModifiers int
}

var (
	declTagPattern  = regexp.MustCompile(`^(const|let|var)\s+([A-Za-z_$][\w$]*)\s*:\s*([^=]*[^=\s])\s*=`)
	paramTagPattern = regexp.MustCompile(`([A-Za-z_$][\w$]*)\s*\|\s*([A-Za-z_$][\w$.]*)`)
)

// collectSemanticTokens highlights declaration tags and the pipe-tagged
// parameters of declaring blocks. Sources that fail to tokenize yield no
// tokens.
func collectSemanticTokens(source string) []SemanticToken {
	tree, err := parser.Tokenize(source)
	if err != nil {
		return nil
	}

	var tokens []SemanticToken
	tokens = append(tokens, walkTags(source, tree)...)
	for _, decl := range semantic.Declarations(tree) {
		for _, leaf := range parser.Leaves(decl.Children) {
			tokens = append(tokens, walkParams(source, leaf)...)
		}
	}

	sort.Slice(tokens, func(i, j int) bool {
		if tokens[i].Line != tokens[j].Line {
			return tokens[i].Line < tokens[j].Line
		}
		return tokens[i].StartChar < tokens[j].StartChar
	})
	return tokens
}

func walkTags(source string, tree []parser.Token) []SemanticToken {
	var tokens []SemanticToken

	for _, tok := range tree {
		if m := declTagPattern.FindStringSubmatchIndex(tok.Head()); m != nil {
			base := tok.Pos()
			tokens = append(tokens, makeToken(source, base+m[2], m[3]-m[2], "keyword", 0)...)
			tokens = append(tokens, makeToken(source, base+m[4], m[5]-m[4], "variable", 1)...)
			tokens = append(tokens, makeToken(source, base+m[6], m[7]-m[6], "type", 0)...)
		}
		if b, ok := tok.(*parser.Block); ok {
			tokens = append(tokens, walkTags(source, b.Children)...)
		}
	}

	return tokens
}

func walkParams(source string, leaf *parser.Leaf) []SemanticToken {
	var tokens []SemanticToken

	for _, m := range paramTagPattern.FindAllStringSubmatchIndex(leaf.Text, -1) {
		tokens = append(tokens, makeToken(source, leaf.Offset+m[2], m[3]-m[2], "parameter", 1)...)
		tokens = append(tokens, makeToken(source, leaf.Offset+m[4], m[5]-m[4], "type", 0)...)
	}

	return tokens
}

// makeToken creates a semantic token for the source range [offset, offset+length)
func makeToken(source string, offset, length int, tokenType string, declModifier int) []SemanticToken {
	if length <= 0 {
		return nil
	}
	pos := parser.PositionOf(source, offset)
	if !pos.Known() {
		return nil
	}

	return []SemanticToken{{
		Line:           uint32(pos.Line - 1),
		StartChar:      uint32(pos.Column - 1),
		Length:         uint32(length),
		TokenType:      indexOf(tokenType, SemanticTokenTypes),
		TokenModifiers: declModifier << indexOf("declaration", SemanticTokenModifiers),
	}}
}

// encodeSemanticTokens packs tokens into the LSP wire format using
// delta-line and delta-start compression.
func encodeSemanticTokens(tokens []SemanticToken) []uint32 {
	data := make([]uint32, 0, len(tokens)*5)
	var prevLine, prevStart uint32

	for _, token := range tokens {
		deltaLine := token.Line - prevLine
		deltaStart := token.StartChar
		if deltaLine == 0 {
			deltaStart = token.StartChar - prevStart
		}

		data = append(data, deltaLine, deltaStart, token.Length, uint32(token.TokenType), uint32(token.TokenModifiers))

		prevLine = token.Line
		prevStart = token.StartChar
	}

	return data
}

// indexOf returns the index of a string in a slice, or 0 if not found
func indexOf(target string, list []string) int {
	for i, v := range list {
		if v == target {
			return i
		}
	}
	return 0
}

package parser

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Dump renders a token tree one entry per line, children indented under
// their block.
func Dump(tokens []Token) string {
	var b strings.Builder
	dump(&b, tokens, 0)
	return b.String()
}

func dump(b *strings.Builder, tokens []Token, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, tok := range tokens {
		switch t := tok.(type) {
		case *Leaf:
			fmt.Fprintf(b, "%sleaf  @%-5d %q\n", indent, t.Offset, t.Text)
		case *Block:
			fmt.Fprintf(b, "%sblock @%-5d %q\n", indent, t.Offset, t.Signature)
			dump(b, t.Children, depth+1)
		}
	}
}

type jsonToken struct {
	Kind     string      `json:"kind"`
	Text     string      `json:"text"`
	Offset   int         `json:"offset"`
	Children []jsonToken `json:"children,omitempty"`
}

// MarshalTree encodes a token tree as indented JSON.
func MarshalTree(tokens []Token) ([]byte, error) {
	return json.MarshalIndent(toJSON(tokens), "", "  ")
}

func toJSON(tokens []Token) []jsonToken {
	out := make([]jsonToken, 0, len(tokens))
	for _, tok := range tokens {
		switch t := tok.(type) {
		case *Leaf:
			out = append(out, jsonToken{Kind: "leaf", Text: t.Text, Offset: t.Offset})
		case *Block:
			out = append(out, jsonToken{Kind: "block", Text: t.Signature, Offset: t.Offset, Children: toJSON(t.Children)})
		}
	}
	return out
}

// Package codegen renders a stripped token tree back into script text.
package codegen

import (
	"strings"

	"zl/internal/parser"
)

const arrowMarker = "=>"

// Generate renders tokens as output text. The result equals the source the
// tokens came from modulo whitespace layout.
func Generate(tokens []parser.Token) string {
	return strings.Join(render(tokens, false), "\n")
}

// render turns one sibling sequence into its output entries.
// Arrow continuations are glued onto the entry before them so that the
// parameter list and "=>" stay on one logical line. Empty leaves are kept
// only for the clauses of a for-loop header.
func render(tokens []parser.Token, clauses bool) []string {
	entries := make([]string, 0, len(tokens))

	for _, tok := range tokens {
		switch t := tok.(type) {
		case *parser.Leaf:
			text := strings.TrimSpace(t.Text)
			if text == "" {
				if clauses {
					entries = append(entries, text)
				}
				continue
			}
			if strings.HasPrefix(text, arrowMarker) && len(entries) > 0 {
				entries[len(entries)-1] += " " + text
				continue
			}
			entries = append(entries, text)

		case *parser.Block:
			signature := strings.TrimSpace(t.Signature)
			if strings.HasPrefix(signature, arrowMarker) && len(entries) > 0 {
				entries[len(entries)-1] += " " + arrowMarker
				signature = strings.TrimSpace(signature[len(arrowMarker):])
			}
			entries = append(entries, renderBlock(signature, t))
		}
	}
	return entries
}

func renderBlock(signature string, b *parser.Block) string {
	if parser.IsForHeader(signature) {
		return signature + "\n" + strings.Join(render(b.Children, true), ";") + "\n" + b.Closer()
	}
	body := strings.Join(render(b.Children, false), "\n")
	return signature + "\n" + body + "\n" + b.Closer()
}

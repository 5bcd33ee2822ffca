package semantic

import (
	"regexp"
	"strings"

	"zl/grammar"
	"zl/internal/parser"
)

const arrowMarker = "=>"

var functionKeyword = regexp.MustCompile(`(^|[^\w$])function([^\w$]|$)`)

// extractTags records every tagged declaration at this level into tags and
// rewrites the entry to its untagged form.
func extractTags(tokens []parser.Token, tags *TagMap) {
	for _, tok := range tokens {
		tag, ok := grammar.ParseTag(tok.Head())
		if !ok {
			continue
		}
		tags.Define(tag.Name, tag.Type)
		tok.SetHead(tag.Stripped())
	}
}

// ruleCandidates returns the blocks at this level that declare parameters:
// any block whose signature names the function keyword, and the entry that
// owns an arrow, either as a following "=> ..." block or leaf.
func ruleCandidates(tokens []parser.Token) []*parser.Block {
	var candidates []*parser.Block
	seen := make(map[*parser.Block]bool)

	add := func(tok parser.Token) {
		b, ok := tok.(*parser.Block)
		if !ok || len(b.Children) == 0 || seen[b] {
			return
		}
		seen[b] = true
		candidates = append(candidates, b)
	}

	for i, tok := range tokens {
		head := strings.TrimSpace(tok.Head())
		switch tok.(type) {
		case *parser.Block:
			if functionKeyword.MatchString(head) {
				add(tok)
			} else if strings.HasPrefix(head, arrowMarker) && i > 0 {
				add(tokens[i-1])
			}
		case *parser.Leaf:
			if strings.HasPrefix(head, arrowMarker) && i > 0 {
				add(tokens[i-1])
			}
		}
	}
	return candidates
}

// Declarations returns every parameter-declaring block in the tree, level
// by level.
func Declarations(tokens []parser.Token) []*parser.Block {
	var out []*parser.Block
	out = append(out, ruleCandidates(tokens)...)
	for _, tok := range tokens {
		if b, ok := tok.(*parser.Block); ok {
			out = append(out, Declarations(b.Children)...)
		}
	}
	return out
}

// ruleName extracts the declared name from a candidate's signature. It
// returns "" for anonymous declarations.
func ruleName(signature string) string {
	var name string
	if eq := strings.Index(signature, "="); eq >= 0 {
		fields := strings.Fields(signature[:eq])
		if len(fields) > 0 {
			name = fields[len(fields)-1]
		}
	} else if loc := functionKeyword.FindStringSubmatchIndex(signature); loc != nil {
		// loc[4] is where the keyword ends
		name = strings.TrimSpace(signature[loc[4]:])
		name = strings.TrimSpace(strings.TrimPrefix(name, "*"))
		name = strings.TrimSpace(strings.TrimSuffix(name, "("))
	}

	if !grammar.IsIdent(name) {
		return ""
	}
	return name
}

// decodeParams reads the pipe-tagged parameters of a declaration. Nested
// groups are flattened and fragments without a tag are dropped.
func decodeParams(declaration []parser.Token) []Param {
	leaves := parser.Leaves(declaration)
	texts := make([]string, 0, len(leaves))
	for _, l := range leaves {
		texts = append(texts, l.Text)
	}

	var params []Param
	for _, p := range grammar.DecodeParameters(strings.Join(texts, "\n")) {
		if p.Type == "" {
			continue
		}
		params = append(params, Param{Name: p.Name, Type: p.Type})
	}
	return params
}

// collectRules builds the rules declared at this level. Every candidate
// block, named or not, is returned in decls so that its tags get stripped.
func collectRules(tokens []parser.Token, parent *RuleSet) (*RuleSet, []*Rule, map[*parser.Block]bool) {
	rules := NewRuleSet(parent)
	decls := make(map[*parser.Block]bool)
	var declared []*Rule

	for _, b := range ruleCandidates(tokens) {
		decls[b] = true

		name := ruleName(b.Signature)
		if name == "" {
			continue
		}
		params := decodeParams(b.Children)
		if len(params) == 0 {
			continue
		}

		rule := &Rule{
			Name:        name,
			Params:      params,
			Declaration: parser.Clone(b.Children),
			Offset:      b.Offset,
		}
		rules.Define(rule)
		declared = append(declared, rule)
	}
	return rules, declared, decls
}

// stripParams removes every "name|Type" tag from the tokens in place. A
// default value after the tag is kept.
func stripParams(tokens []parser.Token) {
	for _, tok := range tokens {
		tok.SetHead(stripPipeTags(tok.Head()))
		if b, ok := tok.(*parser.Block); ok {
			stripParams(b.Children)
		}
	}
}

func stripPipeTags(text string) string {
	if grammar.PipeIndex(text) < 0 {
		return text
	}
	fragments := strings.Split(text, ",")
	for i, fragment := range fragments {
		fragment = strings.TrimSpace(fragment)
		if at := grammar.PipeIndex(fragment); at >= 0 {
			name := strings.TrimSpace(fragment[:at])
			if eq := strings.Index(fragment[at:], "="); eq >= 0 {
				name += " " + strings.TrimSpace(fragment[at+eq:])
			}
			fragment = name
		}
		fragments[i] = fragment
	}
	return strings.Join(fragments, ",")
}

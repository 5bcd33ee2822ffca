package semantic

import (
	"regexp"
	"strings"

	"zl/grammar"
	"zl/internal/errors"
	"zl/internal/parser"
)

var (
	// identifier right before the trailing '(' of a signature
	calleePattern = regexp.MustCompile(`(?:^|[^\w$.])([A-Za-z_$][\w$]*)\s*\($`)

	// leading identifier after an optional declaration keyword
	leadingPattern = regexp.MustCompile(`^(?:(?:const|let|var)\s+)?([A-Za-z_$][\w$]*)`)
)

// Keywords that precede '(' without naming a callee.
var nonCallees = map[string]bool{
	"function": true, "if": true, "for": true, "while": true, "switch": true,
	"catch": true, "with": true, "return": true, "typeof": true, "void": true,
	"delete": true, "await": true, "yield": true, "in": true, "of": true,
	"do": true, "else": true, "case": true, "throw": true, "new": true,
	"const": true, "let": true, "var": true, "async": true,
}

// Options tunes the checker. The zero value gives per-level rule visibility
// and unlimited diagnostics.
type Options struct {
	// InheritRules makes the rules of enclosing levels visible in nested
	// levels. Inner rules with the same name win.
	InheritRules bool

	// TagParameters records the tagged parameters of every declaration in
	// the tag map.
	TagParameters bool

	// MaxDiagnostics caps the collected diagnostics. 0 means unlimited.
	MaxDiagnostics int
}

// Result is the outcome of CheckAndStrip. Tokens is nil when the check failed.
type Result struct {
	Tokens      []parser.Token
	Diagnostics []errors.CompilerError
	Tags        *TagMap
	Rules       []*Rule
	failed      bool
}

// Failed reports whether any check failed.
func (r *Result) Failed() bool { return r.failed }

type Analyzer struct {
	opts   Options
	tags   *TagMap
	rules  []*Rule
	errors []errors.CompilerError
	count  int // diagnostics raised, including those past the cap
}

func NewAnalyzer(opts Options) *Analyzer {
	return &Analyzer{
		opts: opts,
		tags: NewTagMap(),
	}
}

// CheckAndStrip validates every call site against the rules declared in
// tokens and strips all type tags in place.
func CheckAndStrip(tokens []parser.Token, opts Options) *Result {
	return NewAnalyzer(opts).Analyze(tokens)
}

// Analyze runs the checker over one file. An Analyzer is meant for a single
// file; its tag map is not reset between calls.
func (a *Analyzer) Analyze(tokens []parser.Token) *Result {
	ok := a.analyzeLevel(tokens, nil)

	result := &Result{
		Diagnostics: a.errors,
		Tags:        a.tags,
		Rules:       a.rules,
		failed:      !ok || a.count > 0,
	}
	if !result.failed {
		result.Tokens = tokens
	}
	return result
}

// analyzeLevel checks one sibling sequence. Siblings of a failed entry are
// still checked so that every diagnostic of the file is reported.
func (a *Analyzer) analyzeLevel(tokens []parser.Token, parent *RuleSet) bool {
	extractTags(tokens, a.tags)

	if !a.opts.InheritRules {
		parent = nil
	}
	rules, declared, decls := collectRules(tokens, parent)
	a.rules = append(a.rules, declared...)
	if a.opts.TagParameters {
		for _, rule := range declared {
			for _, p := range rule.Params {
				a.tags.Define(p.Name, p.Type)
			}
		}
	}

	ok := true
	for _, tok := range tokens {
		b, isBlock := tok.(*parser.Block)
		if !isBlock {
			continue
		}

		if decls[b] {
			stripParams(b.Children)
			continue
		}

		name := callName(b.Signature)
		if rule := rules.Lookup(name); rule != nil {
			if parser.Equal(b.Children, rule.Declaration) {
				stripParams(b.Children)
				continue
			}
			if !a.checkCall(b, name, rule) {
				ok = false
			}
			continue
		}

		if !a.analyzeLevel(b.Children, rules) {
			ok = false
		}
	}
	return ok
}

// checkCall validates one call site against its rule.
func (a *Analyzer) checkCall(call *parser.Block, name string, rule *Rule) bool {
	leaves := make([]*parser.Leaf, 0, len(call.Children))
	for _, child := range call.Children {
		switch c := child.(type) {
		case *parser.Block:
			a.addRawValueError(name, c.Offset)
			return false
		case *parser.Leaf:
			leaves = append(leaves, c)
		}
	}

	texts := make([]string, len(leaves))
	for i, l := range leaves {
		texts[i] = l.Text
	}
	args := grammar.SplitArguments(strings.Join(texts, "\n"))
	offsets := argumentOffsets(args, leaves, call.Offset)

	ok := true
	if len(args) != len(rule.Params) {
		a.addArityError(name, len(rule.Params), len(args), call.Offset)
		ok = false
	}

	for i := 0; i < len(args) && i < len(rule.Params); i++ {
		arg, param := args[i], rule.Params[i]

		if !arg.IsIdent() {
			a.addUntaggedArgumentError(name, arg.Text, i+1, offsets[i])
			ok = false
			continue
		}

		typ, found := a.tags.Lookup(arg.Text)
		if !found {
			a.addUnresolvedVariableError(arg.Text, offsets[i])
			ok = false
			continue
		}

		if strings.TrimSpace(typ) != strings.TrimSpace(param.Type) {
			a.addTypeMismatchError(name, i+1, param, typ, offsets[i])
			ok = false
		}
	}
	return ok
}

// callName derives the name a block's signature calls or declares.
func callName(signature string) string {
	signature = strings.TrimSpace(signature)

	if m := calleePattern.FindStringSubmatch(signature); m != nil && !nonCallees[m[1]] {
		return m[1]
	}
	if m := leadingPattern.FindStringSubmatch(signature); m != nil && !nonCallees[m[1]] {
		return m[1]
	}
	return ""
}

// argumentOffsets locates each argument in the leaves it was split from.
// Arguments that cannot be found fall back to the call's offset.
func argumentOffsets(args []grammar.Arg, leaves []*parser.Leaf, fallback int) []int {
	offsets := make([]int, len(args))
	leaf, cursor := 0, 0
	for i, arg := range args {
		offsets[i] = fallback
		if arg.Text == "" {
			continue
		}
		for leaf < len(leaves) {
			text := leaves[leaf].Text
			if idx := strings.Index(text[cursor:], arg.Text); idx >= 0 {
				offsets[i] = leaves[leaf].Offset + cursor + idx
				cursor += idx + len(arg.Text)
				break
			}
			leaf, cursor = leaf+1, 0
		}
	}
	return offsets
}

package grammar

import (
	"regexp"
	"strings"

	"github.com/alecthomas/participle/v2"
)

var parserOptions = []participle.Option{
	participle.Lexer(TagLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(3),
}

var (
	declarationParser = participle.MustBuild[Declaration](parserOptions...)
	argumentParser    = participle.MustBuild[ArgumentList](parserOptions...)
	parameterParser   = participle.MustBuild[ParameterList](parserOptions...)
)

var (
	identPattern = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)

	// Split-based reading of a declaration tag, used when the grammar
	// rejects the header.
	tagPattern = regexp.MustCompile(`(?s)^(const|let|var)\s+([A-Za-z_$][\w$]*)\s*:([^=]*)=(.*)$`)
)

// IsIdent reports whether text is a single bare identifier.
func IsIdent(text string) bool {
	return identPattern.MatchString(text)
}

// Tag is a decoded declaration tag.
type Tag struct {
	Keyword string
	Name    string
	Type    string
	Value   string // source text after '=', trimmed
}

// Stripped returns the declaration with its type tag removed.
func (t Tag) Stripped() string {
	if t.Value == "" {
		return t.Keyword + " " + t.Name + " ="
	}
	return t.Keyword + " " + t.Name + " = " + t.Value
}

// ParseTag decodes `("const"|"let"|"var") name : Type = value`. It reports
// false when text carries no tag.
func ParseTag(text string) (Tag, bool) {
	decl, err := declarationParser.ParseString("", text, participle.AllowTrailing(true))
	if err == nil && decl.Assign != nil {
		rest := ""
		if at := decl.Assign.Pos.Offset + len(decl.Assign.Op); at <= len(text) {
			rest = text[at:]
		}
		return Tag{
			Keyword: decl.Keyword,
			Name:    decl.Name,
			Type:    strings.Join(decl.Type, ""),
			Value:   strings.TrimSpace(rest),
		}, true
	}

	m := tagPattern.FindStringSubmatch(text)
	if m == nil {
		return Tag{}, false
	}
	typ := strings.TrimSpace(m[3])
	if typ == "" {
		return Tag{}, false
	}
	return Tag{Keyword: m[1], Name: m[2], Type: typ, Value: strings.TrimSpace(m[4])}, true
}

// Arg is the raw, trimmed text of one call-site argument.
type Arg struct {
	Text string
}

// IsIdent reports whether the argument is a bare identifier.
func (a Arg) IsIdent() bool { return IsIdent(a.Text) }

// SplitArguments splits call-site argument text on top-level commas.
// Commas inside string literals do not split. Empty text yields no arguments.
func SplitArguments(text string) []Arg {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	list, err := argumentParser.ParseString("", text)
	if err != nil {
		return splitArgumentsLoosely(text)
	}

	args := make([]Arg, 0, len(list.Args))
	for i, arg := range list.Args {
		end := len(text)
		if i+1 < len(list.Args) {
			end = list.Args[i+1].Pos.Offset
		}
		args = append(args, Arg{Text: trimSeparators(text[arg.Pos.Offset:end])})
	}
	return args
}

// trimSeparators drops the whitespace and commas that follow an argument.
func trimSeparators(segment string) string {
	segment = strings.TrimSpace(segment)
	for strings.HasSuffix(segment, ",") {
		segment = strings.TrimSpace(strings.TrimSuffix(segment, ","))
	}
	return segment
}

func splitArgumentsLoosely(text string) []Arg {
	parts := strings.Split(text, ",")
	if strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}
	args := make([]Arg, 0, len(parts))
	for _, part := range parts {
		args = append(args, Arg{Text: strings.TrimSpace(part)})
	}
	return args
}

// Param is one decoded parameter fragment. Type is empty when the fragment
// carries no pipe tag.
type Param struct {
	Name string
	Type string
}

// DecodeParameters reads `name|Type` fragments from parameter text.
func DecodeParameters(text string) []Param {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	list, err := parameterParser.ParseString("", text)
	if err != nil {
		return decodeParametersLoosely(text)
	}

	params := make([]Param, 0, len(list.Params))
	for _, p := range list.Params {
		params = append(params, Param{Name: p.Name, Type: strings.Join(p.Type, "")})
	}
	return params
}

func decodeParametersLoosely(text string) []Param {
	var params []Param
	for _, fragment := range strings.Split(text, ",") {
		fragment = strings.TrimSpace(fragment)
		if fragment == "" {
			continue
		}
		at := PipeIndex(fragment)
		if at < 0 {
			params = append(params, Param{Name: fragment})
			continue
		}
		typ := fragment[at+1:]
		if eq := strings.Index(typ, "="); eq >= 0 {
			typ = typ[:eq]
		}
		params = append(params, Param{
			Name: strings.TrimSpace(fragment[:at]),
			Type: strings.TrimSpace(typ),
		})
	}
	return params
}

// PipeIndex returns the index of the first '|' in text that is not part of
// a "||" operator, or -1.
func PipeIndex(text string) int {
	for i := 0; i < len(text); i++ {
		if text[i] != '|' {
			continue
		}
		if i+1 < len(text) && text[i+1] == '|' {
			i++
			continue
		}
		return i
	}
	return -1
}

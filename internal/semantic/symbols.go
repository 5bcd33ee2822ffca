package semantic

import (
	"sort"
	"strings"

	"zl/internal/parser"
)

// TagMap records the declared type of each tagged variable. There is one
// map per file; a later declaration of a name overwrites the earlier one.
type TagMap struct {
	types map[string]string
}

func NewTagMap() *TagMap {
	return &TagMap{types: make(map[string]string)}
}

func (m *TagMap) Define(name, typ string) {
	m.types[name] = strings.TrimSpace(typ)
}

// Lookup reports the recorded type of name. A name recorded without a type
// counts as missing.
func (m *TagMap) Lookup(name string) (string, bool) {
	typ, ok := m.types[name]
	if !ok || typ == "" {
		return "", false
	}
	return typ, true
}

func (m *TagMap) Len() int { return len(m.types) }

// Names returns the recorded variable names in sorted order.
func (m *TagMap) Names() []string {
	names := make([]string, 0, len(m.types))
	for name := range m.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Param is one pipe-tagged parameter of a rule.
type Param struct {
	Name string
	Type string
}

// Rule is the parameter contract of one declared function or arrow function.
type Rule struct {
	Name        string
	Params      []Param
	Declaration []parser.Token // untouched copy of the declaring block's content
	Offset      int
}

// RuleSet holds the rules visible at one level of the token tree.
type RuleSet struct {
	rules  map[string]*Rule
	parent *RuleSet
}

func NewRuleSet(parent *RuleSet) *RuleSet {
	return &RuleSet{
		rules:  make(map[string]*Rule),
		parent: parent,
	}
}

func (rs *RuleSet) Define(rule *Rule) {
	rs.rules[rule.Name] = rule
}

func (rs *RuleSet) Lookup(name string) *Rule {
	if name == "" {
		return nil
	}
	if rule, exists := rs.rules[name]; exists {
		return rule
	}
	if rs.parent != nil {
		return rs.parent.Lookup(name)
	}
	return nil
}

func (rs *RuleSet) LookupLocal(name string) *Rule {
	return rs.rules[name]
}

func (rs *RuleSet) Len() int { return len(rs.rules) }

package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// TagLexer splits declaration headers, argument lists and parameter lists.
// Every input lexes: anything not covered by a named rule becomes Other.
var TagLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		// String literals in all three quote styles
		{Name: "String", Pattern: `"(\\.|[^"\\])*"|'(\\.|[^'\\])*'|` + "`(\\\\.|[^`\\\\])*`", Action: nil},

		// Identifiers, including keywords
		{Name: "Ident", Pattern: `[a-zA-Z_$][a-zA-Z0-9_$]*`, Action: nil},

		// Numeric literals, loosely
		{Name: "Number", Pattern: `[0-9][0-9a-zA-Z_.]*`, Action: nil},

		// Arrow marker (before operators and '=')
		{Name: "Arrow", Pattern: `=>`, Action: nil},

		// Operators
		{Name: "Operator", Pattern: `(===|!==|==|!=|<=|>=|&&|\|\||\?\?|\.\.\.|[-+*/%<>!?.&^~])`, Action: nil},

		// Punctuation that carries meaning in tags
		{Name: "Pipe", Pattern: `\|`, Action: nil},
		{Name: "Comma", Pattern: `,`, Action: nil},
		{Name: "Colon", Pattern: `:`, Action: nil},
		{Name: "Assign", Pattern: `=`, Action: nil},
		{Name: "Bracket", Pattern: `[\[\]{}()]`, Action: nil},

		// Whitespace
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`, Action: nil},

		{Name: "Other", Pattern: `.`, Action: nil},
	},
})

package grammar

import "github.com/alecthomas/participle/v2/lexer"

// Declaration is the header of a tagged declaration.
// Example: "const total : Number = a + b" (the header ends at '=')
type Declaration struct {
	Keyword string      `parser:"@(\"const\" | \"let\" | \"var\")"`
	Name    string      `parser:"@Ident Colon"`
	Type    []string    `parser:"@(Ident | Operator | Bracket | Number | Pipe | Other)+"`
	Assign  *AssignSign `parser:"@@"`
}

// AssignSign records where the declaration's '=' sits in the input.
type AssignSign struct {
	Pos lexer.Position
	Op  string `parser:"@Assign"`
}

// ArgumentList is the content of a call site's parentheses.
// Example: "width, height"
type ArgumentList struct {
	Args []*Argument `parser:"( @@ ( Comma @@? )* )?"`
}

// Argument is one comma separated entry of an ArgumentList.
type Argument struct {
	Pos   lexer.Position
	Parts []string `parser:"@(Ident | Number | String | Operator | Arrow | Bracket | Colon | Assign | Pipe | Other)+"`
}

// ParameterList is the content of a declaration's parameter parentheses.
// Example: "a|Number, b|Number = 0"
type ParameterList struct {
	Params []*Parameter `parser:"( @@ ( Comma @@? )* )?"`
}

// Parameter is one fragment of a ParameterList. Type is empty for untagged
// parameters.
type Parameter struct {
	Name    string   `parser:"@Ident"`
	Type    []string `parser:"( Pipe @(Ident | Operator | Bracket)+ )?"`
	Default []string `parser:"( Assign @(Ident | Number | String | Operator | Arrow | Bracket | Colon | Assign | Pipe | Other)+ )?"`
}

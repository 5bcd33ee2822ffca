// Package compiler chains the lexer, the tag checker and the code generator
// for one source file.
package compiler

import (
	goerrors "errors"

	"zl/internal/codegen"
	"zl/internal/errors"
	"zl/internal/parser"
	"zl/internal/semantic"
)

// Options configures one compilation.
type Options struct {
	MaxDepth int // bracket nesting limit; 0 keeps parser.DefaultMaxDepth
	semantic.Options
}

// FileResult is the outcome of compiling one file. Output is empty and
// Failed reports true when any diagnostic was raised.
type FileResult struct {
	Output      string
	Diagnostics []errors.CompilerError
	Tokens      []parser.Token
	Tags        *semantic.TagMap
	Rules       []*semantic.Rule
}

func (r *FileResult) Failed() bool { return len(r.Diagnostics) > 0 }

// Compile transpiles source. Diagnostics carry resolved line and column
// positions.
func Compile(source string, opts Options) *FileResult {
	tokens, err := parser.NewScanner(source).WithMaxDepth(opts.MaxDepth).ScanTokens()
	if err != nil {
		return &FileResult{Diagnostics: []errors.CompilerError{LexDiagnostic(source, err, opts.MaxDepth)}}
	}

	checked := semantic.CheckAndStrip(tokens, opts.Options)
	result := &FileResult{
		Tags:  checked.Tags,
		Rules: checked.Rules,
	}
	if checked.Failed() {
		result.Diagnostics = checked.Diagnostics
		errors.Locate(source, result.Diagnostics)
		return result
	}

	result.Tokens = checked.Tokens
	result.Output = codegen.Generate(checked.Tokens)
	return result
}

// LexDiagnostic converts a scanner error into a located diagnostic.
func LexDiagnostic(source string, err error, maxDepth int) errors.CompilerError {
	var lexErr *parser.LexError
	if !goerrors.As(err, &lexErr) {
		return errors.NewDiagnostic(errors.KindLexError, err.Error(), parser.Position{}).Build()
	}

	pos := parser.PositionOf(source, lexErr.Position)
	if lexErr.Reason != "" {
		if maxDepth <= 0 {
			maxDepth = parser.DefaultMaxDepth
		}
		return errors.NestingTooDeep(lexErr.Char, maxDepth, pos)
	}
	return errors.UnmatchedBracket(lexErr.Char, pos)
}

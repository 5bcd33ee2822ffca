package semantic

import (
	"zl/internal/errors"
	"zl/internal/parser"
)

// at builds an offset-only position; the compiler resolves lines and columns.
func at(offset int) parser.Position {
	return parser.Position{Offset: offset}
}

func (a *Analyzer) addCompilerError(err errors.CompilerError) {
	a.count++
	if a.opts.MaxDiagnostics > 0 && len(a.errors) >= a.opts.MaxDiagnostics {
		return
	}
	a.errors = append(a.errors, err)
}

func (a *Analyzer) addRawValueError(callName string, offset int) {
	a.addCompilerError(errors.RawValue(callName, at(offset)))
}

func (a *Analyzer) addUntaggedArgumentError(callName, arg string, position, offset int) {
	a.addCompilerError(errors.UntaggedArgument(callName, arg, position, at(offset)))
}

func (a *Analyzer) addArityError(callName string, expected, actual, offset int) {
	a.addCompilerError(errors.ArityMismatch(callName, expected, actual, at(offset)))
}

func (a *Analyzer) addUnresolvedVariableError(name string, offset int) {
	// Typo suggestions come from every tagged name seen so far in the file
	similar := errors.SimilarNames(name, a.tags.Names())
	a.addCompilerError(errors.UnresolvedVariable(name, at(offset), similar))
}

func (a *Analyzer) addTypeMismatchError(callName string, position int, param Param, actual string, offset int) {
	a.addCompilerError(errors.TypeMismatch(callName, position, param.Name, param.Type, actual, at(offset)))
}

package errors

// Error codes for the zl toolchain.
// These codes are used in diagnostics and editor integrations
// to provide consistent error identification across the toolchain.
//
// Error code ranges:
// E0001-E0001: Lexer errors
// E0002-E0099: Tag checking errors
// E0100-E0199: Reserved for driver errors
const (
	// E0001: Unmatched opening bracket or nesting too deep
	ErrorLex = "E0001"

	// E0002: Structured or raw value where a tagged identifier is required
	ErrorTag = "E0002"

	// E0003: Argument count does not match the declared parameters
	ErrorArity = "E0003"

	// E0004: Argument has no recorded type
	ErrorUnresolvedVariable = "E0004"

	// E0005: Recorded type differs from the declared parameter type
	ErrorTypeMismatch = "E0005"
)

// Kind names the diagnostic taxonomy. Each kind maps to one error code.
type Kind string

const (
	KindLexError                Kind = "LexError"
	KindTagError                Kind = "TagError"
	KindArityError              Kind = "ArityError"
	KindUnresolvedVariableError Kind = "UnresolvedVariableError"
	KindTypeMismatchError       Kind = "TypeMismatchError"
)

// Code returns the error code of the kind, or "" for unknown kinds.
func (k Kind) Code() string {
	switch k {
	case KindLexError:
		return ErrorLex
	case KindTagError:
		return ErrorTag
	case KindArityError:
		return ErrorArity
	case KindUnresolvedVariableError:
		return ErrorUnresolvedVariable
	case KindTypeMismatchError:
		return ErrorTypeMismatch
	default:
		return ""
	}
}

// GetErrorDescription returns a human-readable description of the error code
func GetErrorDescription(code string) string {
	switch code {
	case ErrorLex:
		return "Opening bracket has no matching closer, or brackets nest too deep"
	case ErrorTag:
		return "A raw value is passed where a tagged variable is required"
	case ErrorArity:
		return "Call passes a different number of arguments than the declaration takes"
	case ErrorUnresolvedVariable:
		return "Argument is not a variable declared with a type tag"
	case ErrorTypeMismatch:
		return "Argument's tagged type does not match the parameter's declared type"
	default:
		return "Unknown error code"
	}
}

// GetErrorCategory returns the category of the error based on its code
func GetErrorCategory(code string) string {
	switch {
	case code == ErrorLex:
		return "Lexer"
	case code > ErrorLex && code < "E0100":
		return "Tag Checking"
	case code >= "E0100" && code < "E0200":
		return "Driver"
	default:
		return "Unknown"
	}
}

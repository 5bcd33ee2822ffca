package parser

type Position struct {
	Line   int // 1-based, 0 when unknown
	Column int // 1-based, 0 when unknown
	Offset int // 0-based absolute index in input
}

// Known reports whether the position points into a source file.
func (p Position) Known() bool { return p.Line > 0 }

// PositionOf converts a byte offset into a line/column position.
// Offsets outside the source yield the zero Position.
func PositionOf(source string, offset int) Position {
	if offset < 0 || offset > len(source) {
		return Position{}
	}
	line, column := 1, 1
	for i := 0; i < offset; i++ {
		if source[i] == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return Position{Line: line, Column: column, Offset: offset}
}

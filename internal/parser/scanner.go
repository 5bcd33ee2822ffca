package parser

import (
	"fmt"
	"strings"
	"unicode"
)

// DefaultMaxDepth bounds bracket nesting so adversarial input cannot recurse
// without limit.
const DefaultMaxDepth = 1000

type scanState int

const (
	stateNormal scanState = iota
	stateString
	stateLineComment
	stateBlockComment
)

// Scanner splits source text into a token tree. Blocks are found by matching
// brackets; everything else is split on statement terminators.
type Scanner struct {
	source   string
	maxDepth int
}

// LexError reports an opening bracket without a matching closer, or nesting
// beyond the scanner's limit. It is fatal for the file.
type LexError struct {
	Char     byte
	Position int    // byte offset of the opener
	Reason   string // empty for an unmatched bracket
}

func (e *LexError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: '%c' at position %d", e.Reason, e.Char, e.Position)
	}
	return fmt.Sprintf("unmatched '%c' at position %d", e.Char, e.Position)
}

func NewScanner(source string) *Scanner {
	return &Scanner{
		source:   source,
		maxDepth: DefaultMaxDepth,
	}
}

// WithMaxDepth sets the nesting limit. Values below 1 keep the default.
func (s *Scanner) WithMaxDepth(depth int) *Scanner {
	if depth > 0 {
		s.maxDepth = depth
	}
	return s
}

// ScanTokens tokenizes the whole source. No partial tree is returned on error.
func (s *Scanner) ScanTokens() ([]Token, error) {
	return s.scanRange(0, len(s.source), 0, false)
}

// Tokenize is a shorthand for NewScanner(source).ScanTokens().
func Tokenize(source string) ([]Token, error) {
	return NewScanner(source).ScanTokens()
}

// buffer accumulates the text of the current leaf or block signature.
type buffer struct {
	text  strings.Builder
	start int
}

func (b *buffer) write(src string, from, to int) {
	if b.text.Len() == 0 {
		b.start = from
	}
	b.text.WriteString(src[from:to])
}

// take returns the trimmed text and the offset of its first non-space byte,
// then resets the buffer.
func (b *buffer) take() (string, int) {
	raw := b.text.String()
	offset := b.start + len(raw) - len(strings.TrimLeftFunc(raw, unicode.IsSpace))
	b.text.Reset()
	return strings.TrimSpace(raw), offset
}

// scanRange tokenizes source[lo:hi]. Inside a for-loop header only ';'
// separates entries, and a clause with no text becomes an empty leaf.
func (s *Scanner) scanRange(lo, hi, depth int, header bool) ([]Token, error) {
	var (
		tokens []Token
		buf    buffer
		state  = stateNormal
		quote  byte
		clause int // len(tokens) when the current for clause began
		split  bool
	)

	flush := func() {
		if text, offset := buf.take(); text != "" {
			tokens = append(tokens, &Leaf{Text: text, Offset: offset})
		}
	}

	endClause := func(at int) {
		flush()
		if len(tokens) == clause {
			tokens = append(tokens, &Leaf{Offset: at})
		}
		clause = len(tokens)
	}

	i := lo
	for i < hi {
		c := s.source[i]

		switch state {
		case stateString:
			if c == '\\' && i+1 < hi {
				buf.write(s.source, i, i+2)
				i += 2
				continue
			}
			buf.write(s.source, i, i+1)
			if c == quote {
				state = stateNormal
			}
			i++
			continue
		case stateLineComment:
			if c == '\n' {
				state = stateNormal
				if header {
					buf.write(s.source, i, i+1)
				} else {
					flush()
				}
			} else {
				buf.write(s.source, i, i+1)
			}
			i++
			continue
		case stateBlockComment:
			if c == '*' && i+1 < hi && s.source[i+1] == '/' {
				buf.write(s.source, i, i+2)
				state = stateNormal
				i += 2
				continue
			}
			buf.write(s.source, i, i+1)
			i++
			continue
		}

		switch {
		case isQuote(c):
			state = stateString
			quote = c
			buf.write(s.source, i, i+1)
			i++
		case c == '/' && i+1 < hi && s.source[i+1] == '/':
			state = stateLineComment
			buf.write(s.source, i, i+2)
			i += 2
		case c == '/' && i+1 < hi && s.source[i+1] == '*':
			state = stateBlockComment
			buf.write(s.source, i, i+2)
			i += 2
		case c == '{' || c == '(':
			if depth >= s.maxDepth {
				return nil, &LexError{Char: c, Position: i, Reason: "nesting too deep"}
			}
			end := s.matchCloser(i, hi)
			if end < 0 {
				return nil, &LexError{Char: c, Position: i}
			}
			buf.write(s.source, i, i+1)
			signature, offset := buf.take()
			children, err := s.scanRange(i+1, end, depth+1, IsForHeader(signature))
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, &Block{Signature: signature, Children: children, Offset: offset})
			i = end + 1
		case header && c == ';':
			endClause(i)
			split = true
			i++
		case header && c == '\n':
			buf.write(s.source, i, i+1)
			i++
		case c == ';' || c == '\n':
			flush()
			i++
		default:
			buf.write(s.source, i, i+1)
			i++
		}
	}

	if split {
		endClause(hi)
	} else {
		flush()
	}
	return tokens, nil
}

// matchCloser returns the index of the bracket closing the one at open, or -1.
// Only brackets of the same type are counted; strings and comments are skipped.
func (s *Scanner) matchCloser(open, hi int) int {
	openChar := s.source[open]
	closeChar := byte(')')
	if openChar == '{' {
		closeChar = '}'
	}

	depth := 1
	state := stateNormal
	var quote byte

	for i := open + 1; i < hi; i++ {
		c := s.source[i]

		switch state {
		case stateString:
			if c == '\\' {
				i++
			} else if c == quote {
				state = stateNormal
			}
			continue
		case stateLineComment:
			if c == '\n' {
				state = stateNormal
			}
			continue
		case stateBlockComment:
			if c == '*' && i+1 < hi && s.source[i+1] == '/' {
				state = stateNormal
				i++
			}
			continue
		}

		switch {
		case isQuote(c):
			state = stateString
			quote = c
		case c == '/' && i+1 < hi && s.source[i+1] == '/':
			state = stateLineComment
			i++
		case c == '/' && i+1 < hi && s.source[i+1] == '*':
			state = stateBlockComment
			i++
		case c == openChar:
			depth++
		case c == closeChar:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isQuote(c byte) bool {
	return c == '"' || c == '\'' || c == '`'
}

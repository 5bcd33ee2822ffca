package parser

import (
	"regexp"
	"strings"
)

// Token is one entry of a token tree: either a *Leaf or a *Block.
type Token interface {
	// Head returns the leaf text or the block signature.
	Head() string
	// SetHead replaces the leaf text or the block signature.
	SetHead(text string)
	// Pos returns the byte offset of the token's first character in the source.
	Pos() int
	isToken()
}

// Leaf is one statement fragment with no nested brackets.
type Leaf struct {
	Text   string
	Offset int
}

// Block is one matched bracket pair. Signature holds the text buffered before
// the opener, including the opener itself.
type Block struct {
	Signature string
	Children  []Token
	Offset    int
}

func (l *Leaf) Head() string        { return l.Text }
func (l *Leaf) SetHead(text string) { l.Text = text }
func (l *Leaf) Pos() int            { return l.Offset }
func (*Leaf) isToken()              {}

func (b *Block) Head() string        { return b.Signature }
func (b *Block) SetHead(text string) { b.Signature = text }
func (b *Block) Pos() int            { return b.Offset }
func (*Block) isToken()              {}

// Opener returns the bracket the signature ends with, or 0.
func (b *Block) Opener() byte {
	sig := strings.TrimSpace(b.Signature)
	if sig == "" {
		return 0
	}
	switch c := sig[len(sig)-1]; c {
	case '(', '{':
		return c
	}
	return 0
}

// Closer returns the text that closes the block when it is rendered.
func (b *Block) Closer() string {
	switch b.Opener() {
	case '(':
		return ")"
	case '{':
		return "}"
	default:
		return "\n"
	}
}

var forHeaderPattern = regexp.MustCompile(`(^|[^\w$.])for(\s+await)?\s*\($`)

// IsForHeader reports whether a signature opens a for-loop header. The
// children of such a block are its ';' separated clauses, empty ones included.
func IsForHeader(signature string) bool {
	return forHeaderPattern.MatchString(strings.TrimSpace(signature))
}

// Equal reports whether two token sequences have the same shape and text.
// Offsets are ignored.
func Equal(a, b []Token) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !EqualToken(a[i], b[i]) {
			return false
		}
	}
	return true
}

// EqualToken reports whether two tokens have the same shape and text.
func EqualToken(a, b Token) bool {
	switch x := a.(type) {
	case *Leaf:
		y, ok := b.(*Leaf)
		return ok && x.Text == y.Text
	case *Block:
		y, ok := b.(*Block)
		return ok && x.Signature == y.Signature && Equal(x.Children, y.Children)
	}
	return false
}

// Clone returns a deep copy of a sequence. Edits to the copy never reach
// the original.
func Clone(tokens []Token) []Token {
	if tokens == nil {
		return nil
	}
	out := make([]Token, len(tokens))
	for i, tok := range tokens {
		switch t := tok.(type) {
		case *Leaf:
			leaf := *t
			out[i] = &leaf
		case *Block:
			out[i] = &Block{Signature: t.Signature, Children: Clone(t.Children), Offset: t.Offset}
		}
	}
	return out
}

// Leaves returns the leaves of a sequence in source order, descending into
// nested blocks.
func Leaves(tokens []Token) []*Leaf {
	var out []*Leaf
	for _, tok := range tokens {
		switch t := tok.(type) {
		case *Leaf:
			out = append(out, t)
		case *Block:
			out = append(out, Leaves(t.Children)...)
		}
	}
	return out
}

// Depth returns the maximum block nesting depth of a sequence.
func Depth(tokens []Token) int {
	depth := 0
	for _, tok := range tokens {
		if b, ok := tok.(*Block); ok {
			if d := Depth(b.Children) + 1; d > depth {
				depth = d
			}
		}
	}
	return depth
}

package citron

import "fmt"

// --- A general purpose interface for tokens --------------------------------

// TokType is a category type for a Token. Its raw value coincides with the
// symbol code a parser will see for the token, i.e. a terminal's code in the
// grammar the token stream is parsed against. We do not define any constants
// here, as it is up to grammars to define them.
type TokType int

// TokTypeStringer is a type to be provided by a lexer/parser combination to be
// able to print out token categories.
type TokTypeStringer func(TokType) string

// Tokens represent input tokens. They are usually produced by a lexer and
// reflect terminals in a language.
//
// An example would be a token for an integer literal:
//
//    TokType = Num       // identifier for this kind of tokens (grammar specific)
//    Lexeme  = "4711"    // lexeme how it appeared in the input stream
//    Value   = 4711      // is an int64 value
//    Span    = 67…71     // occured from position 67 in the input stream
//
// Token.Value() may have been set by the lexer, or is converted from
// Token.Lexeme() during a semantic action of the parser.
type Token interface {
	TokType() TokType
	Lexeme() string
	Value() interface{}
	Span() Span
}

// TokenRetriever is a type for getting tokens at an input position.
// Most lexer/parser combinations will keep track of input tokens. However, this
// is not a must. Factoring it out into a type helps model this design-decision.
type TokenRetriever func(uint64) Token

// --- Spans ------------------------------------------------------------

// Span is a small type for capturing a length of input token run. For every
// terminal and non-terminal, a parser will track which input positions
// this symbol covers. A span denotes a start position and the position just
// behind the end.
type Span [2]uint64 // (x…y)

// From returns the start value of a span.
func (s Span) From() uint64 {
	return s[0]
}

// To returns the end value of a span.
func (s Span) To() uint64 {
	return s[1]
}

// Len returns the length of (x…y)
func (s Span) Len() uint64 {
	return s[1] - s[0]
}

func (s Span) IsNull() bool {
	return s == Span{}
}

func (s Span) Extend(other Span) Span {
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}

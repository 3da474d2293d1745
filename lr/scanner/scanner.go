/*
Package scanner defines a tokenizer interface for scanners feeding the parser
runtime of package lalr.

A Tokenizer pulls tokens from an input; the token's TokType carries the
terminal symbol code the parser tables use, with code 0 reserved for end of
input. An adapter for lexmachine-based scanners is provided in this package;
the rule-based lexer of package lexer sits on the push side of the parser
instead and needs no adapter.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2025 the citron authors

*/
package scanner

import (
	"github.com/npillmayer/schuko/tracing"

	"github.com/wildthink/citron"
)

// tracer traces with key 'citron.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("citron.scanner")
}

// EOF is the token type of the end-of-input token: the implicit end symbol of
// the parser tables.
const EOF = citron.TokType(0)

// Tokenizer is a scanner interface: a source of tokens in input order,
// terminated by a token of type EOF.
type Tokenizer interface {
	NextToken() citron.Token
	SetErrorHandler(func(error))
}

// Default error reporting function for scanners.
func logError(e error) {
	tracer().Errorf("scanner error: " + e.Error())
}

// --- Default tokens --------------------------------------------------------

// DefaultToken is a plain token value, used by the lexmachine adapter and
// suitable for most grammars.
type DefaultToken struct {
	kind   citron.TokType
	lexeme string
	Val    interface{}
	span   citron.Span
}

// MakeDefaultToken wraps a lexeme into a token.
func MakeDefaultToken(typ citron.TokType, lexeme string, span citron.Span) DefaultToken {
	return DefaultToken{
		kind:   typ,
		lexeme: lexeme,
		span:   span,
	}
}

func (t DefaultToken) TokType() citron.TokType {
	return t.kind
}

func (t DefaultToken) Value() interface{} {
	return t.Val
}

func (t DefaultToken) Lexeme() string {
	return t.lexeme
}

func (t DefaultToken) Span() citron.Span {
	return t.span
}

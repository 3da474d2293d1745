package lalr

import (
	"errors"
	"fmt"

	"github.com/wildthink/citron"
	"github.com/wildthink/citron/lr"
)

// ErrUnexpectedEOF is returned by EndParsing when the automaton cannot accept
// with the input exhausted.
var ErrUnexpectedEOF = errors.New("unexpected end of input")

// ErrStackOverflow is returned by Consume when a shift would exceed the
// configured maximum stack size. The parser is dead afterwards; Reset revives
// it.
var ErrStackOverflow = errors.New("parser stack overflow")

// ErrFinished is returned by Consume and EndParsing after the parse has
// accepted. After a stack overflow they return ErrStackOverflow instead.
var ErrFinished = errors.New("parser already finished")

// SyntaxError reports a token the automaton has no action for.
type SyntaxError struct {
	Token citron.Token // offending token; nil at end of input
	Code  lr.SymCode
	Name  string // symbol name, from the tables' string table
}

func (e *SyntaxError) Error() string {
	if e.Token == nil {
		return fmt.Sprintf("syntax error: unexpected %s", e.Name)
	}
	return fmt.Sprintf("syntax error: unexpected %s %q", e.Name, e.Token.Lexeme())
}

// --- Error capturing --------------------------------------------------------

// CaptureContext is handed to a capture delegate when a syntax error occurs
// below a capturing nonterminal.
type CaptureContext struct {
	Err       *SyntaxError
	Symbol    lr.SymCode      // the capturing nonterminal
	Resolved  []interface{}   // payloads of the partial sub-symbols unwound for the capture
	Unclaimed []citron.Token  // tokens dropped while recovering from this error
	Next      citron.Token    // the offending token; nil at end of input
}

// CaptureResult is the delegate's verdict: capture the error as a placeholder
// value, or let reporting proceed.
type CaptureResult struct {
	captured bool
	value    interface{}
}

// CaptureAs resumes parsing as if the capturing nonterminal had reduced to the
// given placeholder value.
func CaptureAs(value interface{}) CaptureResult {
	return CaptureResult{captured: true, value: value}
}

// Propagate declines the capture; the error falls through to OnSyntaxError.
var Propagate = CaptureResult{}

// A CaptureDelegate decides whether a syntax error is absorbed by a capturing
// nonterminal.
type CaptureDelegate interface {
	CaptureError(ctx CaptureContext) CaptureResult
}

// CaptureFunc adapts a function to the CaptureDelegate interface.
type CaptureFunc func(ctx CaptureContext) CaptureResult

// CaptureError calls f.
func (f CaptureFunc) CaptureError(ctx CaptureContext) CaptureResult {
	return f(ctx)
}

type capturePoint struct {
	sym      lr.SymCode
	delegate CaptureDelegate
}

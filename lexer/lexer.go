/*
Package lexer implements a rule-based lexer.

A Lexer is configured once with an ordered list of match rules — exact
literals and anchored regular expressions — and turns an input string into a
stream of token data by repeatedly applying the first rule that matches at the
current position. Ties between rules are resolved by rule order, never by
match length. Regex rules may produce nothing for a match, which silently
consumes the matched text; this is how whitespace and comments are skipped.

The token data a rule produces is caller-chosen; the idiomatic shape is a
(token, token code) pair which the tokenize callback forwards to a parser's
Consume.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2025 the citron authors

*/
package lexer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'citron.lexer'.
func tracer() tracing.Trace {
	return tracing.Select("citron.lexer")
}

// Position locates the start of the most recent token (or attempted token) in
// the input. Line numbering starts at 1 and advances per newline byte the
// lexer has moved past; LineStart is the offset of the current line's first
// byte, so column = Offset − LineStart.
type Position struct {
	Offset    int
	LineStart int
	Line      int
}

func (pos Position) String() string {
	return fmt.Sprintf("line %d, offset %d", pos.Line, pos.Offset)
}

// NoMatchError reports an input position where no lexing rule applies.
type NoMatchError struct {
	Pos       Position
	Remaining string // unconsumed input suffix, starting at Pos
}

func (e *NoMatchError) Error() string {
	head := e.Remaining
	if len(head) > 10 {
		head = head[:10] + "…"
	}
	return fmt.Sprintf("no lexing rule matches %q at %s", head, e.Pos)
}

// A Rule matches input at the current cursor position. Construct rules with
// Literal and Regex.
type Rule struct {
	lit     string
	pattern string
	re      *regexp.Regexp
	data    interface{}
	action  func(lexeme string) interface{}
}

// Literal matches the exact string lit and produces data. A nil data skips
// the match silently.
func Literal(lit string, data interface{}) Rule {
	return Rule{lit: lit, data: data}
}

// Regex matches the longest prefix of the remaining input satisfying pattern,
// anchored at the cursor, and calls action with the matched text to produce
// the token data. An action returning nil (or a nil action) skips the match
// silently.
func Regex(pattern string, action func(lexeme string) interface{}) Rule {
	return Rule{pattern: pattern, action: action}
}

// TokenFunc receives each token datum a rule produced, together with the
// position of the token's first byte. A non-nil error aborts tokenization and
// propagates to the Tokenize caller.
type TokenFunc func(data interface{}, pos Position) error

// ErrorFunc receives a no-match error during recovering tokenization. A
// non-nil error aborts tokenization and propagates to the Tokenize caller.
type ErrorFunc func(err *NoMatchError) error

// Lexer applies an ordered rule list to an input string. A Lexer tracks the
// position of the current tokenization run and is not safe for concurrent
// use; the rules themselves are immutable after New.
type Lexer struct {
	rules []Rule
	pos   Position
}

// New creates a lexer and compiles the regex rules. Patterns are anchored at
// the cursor and matched in leftmost-longest mode.
func New(rules ...Rule) (*Lexer, error) {
	lx := &Lexer{rules: make([]Rule, len(rules))}
	for i, r := range rules {
		if r.pattern != "" {
			re, err := regexp.Compile(`^(?:` + r.pattern + `)`)
			if err != nil {
				return nil, fmt.Errorf("rule %d: %v", i, err)
			}
			re.Longest()
			r.re = re
		} else if r.lit == "" {
			return nil, fmt.Errorf("rule %d matches the empty string", i)
		}
		lx.rules[i] = r
	}
	return lx, nil
}

// CurrentPosition returns the start position of the most recent token or
// attempted token. After a full tokenization run it points just behind the
// consumed input.
func (lx *Lexer) CurrentPosition() Position {
	return lx.pos
}

// Tokenize applies the rule list to input, calling onToken for every token
// datum produced, in input order. At each cursor position the first rule
// matching at least one byte wins.
//
// When no rule applies at some position, behavior depends on onError: if it
// is nil, Tokenize stops and returns the NoMatchError. Otherwise onError is
// called once for the position, and the cursor advances byte-wise to the next
// offset at which some rule matches, where tokenization resumes.
func (lx *Lexer) Tokenize(input string, onToken TokenFunc, onError ErrorFunc) error {
	lx.pos = Position{Offset: 0, LineStart: 0, Line: 1}
	for lx.pos.Offset < len(input) {
		data, length, matched := lx.match(input[lx.pos.Offset:])
		if !matched {
			nme := &NoMatchError{Pos: lx.pos, Remaining: input[lx.pos.Offset:]}
			if onError == nil {
				return nme
			}
			tracer().Debugf("%v", nme)
			if err := onError(nme); err != nil {
				return err
			}
			lx.skipToMatch(input)
			continue
		}
		if data != nil {
			if err := onToken(data, lx.pos); err != nil {
				return err
			}
		}
		lx.advance(input, length)
	}
	return nil
}

// match tries the rules in order against the remaining input. It returns the
// produced data (nil for a silent match), the match length, and whether any
// rule matched at least one byte.
func (lx *Lexer) match(rest string) (interface{}, int, bool) {
	for _, r := range lx.rules {
		if r.re != nil {
			loc := r.re.FindStringIndex(rest)
			if loc == nil || loc[1] == 0 {
				continue
			}
			lexeme := rest[:loc[1]]
			var data interface{}
			if r.action != nil {
				data = r.action(lexeme)
			}
			return data, loc[1], true
		}
		if strings.HasPrefix(rest, r.lit) {
			return r.data, len(r.lit), true
		}
	}
	return nil, 0, false
}

// advance moves the cursor by length bytes, updating line accounting for
// every newline moved past.
func (lx *Lexer) advance(input string, length int) {
	end := lx.pos.Offset + length
	for i := lx.pos.Offset; i < end; i++ {
		if input[i] == '\n' {
			lx.pos.Line++
			lx.pos.LineStart = i + 1
		}
	}
	lx.pos.Offset = end
}

// skipToMatch advances one byte at a time until some rule matches or the
// input is exhausted.
func (lx *Lexer) skipToMatch(input string) {
	lx.advance(input, 1)
	for lx.pos.Offset < len(input) {
		if _, _, matched := lx.match(input[lx.pos.Offset:]); matched {
			return
		}
		lx.advance(input, 1)
	}
}

/*
Package calclang implements a small arithmetic expression language on top of
the citron parser runtime.

The grammar recognizes integer expressions over + − * / with the usual
precedence and parentheses:

	expr   ::= expr PLUS term | expr MINUS term | term
	term   ::= term TIMES factor | term DIVIDE factor | factor
	factor ::= NUM | LPAREN expr RPAREN

The parse tables in this file are generator output for this grammar: eleven
automaton states, with the five single-reduce states compressed away into
shift-reduce actions and pending-reduce gotos. Semantic actions evaluate the
expression to an int64 while parsing.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2025 the citron authors

*/
package calclang

import (
	"fmt"
	"strconv"

	"github.com/npillmayer/schuko/tracing"
	"github.com/timtadh/lexmachine"

	"github.com/wildthink/citron"
	"github.com/wildthink/citron/lexer"
	"github.com/wildthink/citron/lr"
	"github.com/wildthink/citron/lr/lalr"
	"github.com/wildthink/citron/lr/scanner"
)

// tracer traces with key 'citron.calc'.
func tracer() tracing.Trace {
	return tracing.Select("citron.calc")
}

// Symbol codes of the grammar. Terminals first, with the end-of-input symbol
// at code 0.
const (
	SymEnd lr.SymCode = iota // "$"
	SymPlus
	SymMinus
	SymTimes
	SymDivide
	SymNum
	SymLParen
	SymRParen
	SymExpr
	SymTerm
	SymFactor
)

const inv = lr.InvalidSymCode

// Parse tables for the expression grammar, in the compressed representation
// of package lr.
var calcTables = &lr.Tables{
	NumStates:    11,
	NumRules:     8,
	NumTerminals: 8,

	MaxShift:       10,
	MinShiftReduce: 11,
	MaxShiftReduce: 18,
	MinReduce:      19,
	MaxReduce:      26,
	ErrorAction:    27,
	AcceptAction:   28,
	NoAction:       29,

	Action: []lr.ActCode{
		/* state 0 */ 29, 29, 29, 29, 29, 17, 3, 29,
		/* state 1 */ 28, 4, 5, 29, 29, 29, 29, 29,
		/* state 2 */ 29, 29, 29, 6, 7, 29, 29, 29,
		/* state 3 */ 29, 29, 29, 29, 29, 17, 3, 29,
		/* state 4 */ 29, 29, 29, 29, 29, 17, 3, 29,
		/* state 5 */ 29, 29, 29, 29, 29, 17, 3, 29,
		/* state 6 */ 29, 29, 29, 29, 29, 17, 3, 29,
		/* state 7 */ 29, 29, 29, 29, 29, 17, 3, 29,
		/* state 8 */ 29, 4, 5, 29, 29, 29, 29, 18,
		/* state 9 */ 29, 29, 29, 6, 7, 29, 29, 29,
		/* state 10 */ 29, 29, 29, 6, 7, 29, 29, 29,
		/* gotos 0 */ 1, 2, 24,
		/* gotos 3 */ 8, 2, 24,
		/* gotos 4 */ 9, 24,
		/* gotos 5 */ 10, 24,
		/* gotos 6 */ 22,
		/* gotos 7 */ 23,
	},
	Lookahead: []lr.SymCode{
		/* state 0 */ inv, inv, inv, inv, inv, 5, 6, inv,
		/* state 1 */ 0, 1, 2, inv, inv, inv, inv, inv,
		/* state 2 */ inv, inv, inv, 3, 4, inv, inv, inv,
		/* state 3 */ inv, inv, inv, inv, inv, 5, 6, inv,
		/* state 4 */ inv, inv, inv, inv, inv, 5, 6, inv,
		/* state 5 */ inv, inv, inv, inv, inv, 5, 6, inv,
		/* state 6 */ inv, inv, inv, inv, inv, 5, 6, inv,
		/* state 7 */ inv, inv, inv, inv, inv, 5, 6, inv,
		/* state 8 */ inv, 1, 2, inv, inv, inv, inv, 7,
		/* state 9 */ inv, inv, inv, 3, 4, inv, inv, inv,
		/* state 10 */ inv, inv, inv, 3, 4, inv, inv, inv,
		/* gotos 0 */ 8, 9, 10,
		/* gotos 3 */ 8, 9, 10,
		/* gotos 4 */ 9, 10,
		/* gotos 5 */ 9, 10,
		/* gotos 6 */ 10,
		/* gotos 7 */ 10,
	},

	ShiftOfst:  []int{0, 8, 16, 24, 32, 40, 48, 56, 64, 72, 80},
	ReduceOfst: []int{80, lr.UseDefault, lr.UseDefault, 83, 85, 87, 88, 89, lr.UseDefault, lr.UseDefault, lr.UseDefault},
	Default:    []lr.ActCode{27, 27, 21, 27, 27, 27, 27, 27, 27, 19, 20},

	Fallback: []lr.SymCode{0, 0, 0, 0, 0, 0, 0, 0},
	Wildcard: lr.InvalidSymCode,

	RuleInfo: []lr.RuleInfo{
		{LHS: SymExpr, NRHS: 3},
		{LHS: SymExpr, NRHS: 3},
		{LHS: SymExpr, NRHS: 1},
		{LHS: SymTerm, NRHS: 3},
		{LHS: SymTerm, NRHS: 3},
		{LHS: SymTerm, NRHS: 1},
		{LHS: SymFactor, NRHS: 1},
		{LHS: SymFactor, NRHS: 3},
	},
	TokenName: []string{
		"$", "PLUS", "MINUS", "TIMES", "DIVIDE", "NUM", "LPAREN", "RPAREN",
		"expr", "term", "factor",
	},
	RuleName: []string{
		"expr ::= expr PLUS term",
		"expr ::= expr MINUS term",
		"expr ::= term",
		"term ::= term TIMES factor",
		"term ::= term DIVIDE factor",
		"term ::= factor",
		"factor ::= NUM",
		"factor ::= LPAREN expr RPAREN",
	},
}

// Tables returns the parse tables of the expression grammar. They are
// immutable and shared.
func Tables() *lr.Tables {
	return calcTables
}

// Reducer returns the semantic actions of the grammar: evaluation to int64.
func Reducer() lalr.Reducer {
	return lalr.ReduceFunc(reduce)
}

func reduce(rule int, rhs []interface{}) (interface{}, error) {
	switch rule {
	case 0: // expr ::= expr PLUS term
		return rhs[0].(int64) + rhs[2].(int64), nil
	case 1: // expr ::= expr MINUS term
		return rhs[0].(int64) - rhs[2].(int64), nil
	case 2: // expr ::= term
		return rhs[0], nil
	case 3: // term ::= term TIMES factor
		return rhs[0].(int64) * rhs[2].(int64), nil
	case 4: // term ::= term DIVIDE factor
		d := rhs[2].(int64)
		if d == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return rhs[0].(int64) / d, nil
	case 5: // term ::= factor
		return rhs[0], nil
	case 6: // factor ::= NUM
		tok := rhs[0].(citron.Token)
		return strconv.ParseInt(tok.Lexeme(), 10, 64)
	case 7: // factor ::= LPAREN expr RPAREN
		return rhs[1], nil
	}
	return nil, fmt.Errorf("no semantic action for rule %d", rule)
}

// NewParser creates a parser instance for the expression grammar.
func NewParser() (*lalr.Parser, error) {
	return lalr.NewParser(calcTables, Reducer())
}

// --- Tokenization -----------------------------------------------------------

// TokenData is what the lexing rules produce per token: the token and its
// terminal symbol code, ready to be handed to Parser.Consume.
type TokenData struct {
	Tok  citron.Token
	Code lr.SymCode
}

func literal(lexeme string, code lr.SymCode) lexer.Rule {
	return lexer.Literal(lexeme, TokenData{
		Tok:  scanner.MakeDefaultToken(citron.TokType(code), lexeme, citron.Span{}),
		Code: code,
	})
}

// NewLexer creates a lexer for the expression language.
func NewLexer() (*lexer.Lexer, error) {
	return lexer.New(
		lexer.Regex(`[0-9]+`, func(lexeme string) interface{} {
			return TokenData{
				Tok:  scanner.MakeDefaultToken(citron.TokType(SymNum), lexeme, citron.Span{}),
				Code: SymNum,
			}
		}),
		literal("+", SymPlus),
		literal("-", SymMinus),
		literal("*", SymTimes),
		literal("/", SymDivide),
		literal("(", SymLParen),
		literal(")", SymRParen),
		lexer.Regex(`[ \t\r\n]+`, nil), // whitespace
	)
}

// Eval tokenizes and parses input and returns the expression's value.
func Eval(input string) (int64, error) {
	tracer().Debugf("eval %q", input)
	p, err := NewParser()
	if err != nil {
		return 0, err
	}
	lx, err := NewLexer()
	if err != nil {
		return 0, err
	}
	err = lx.Tokenize(input, func(data interface{}, pos lexer.Position) error {
		td := data.(TokenData)
		return p.Consume(td.Tok, td.Code)
	}, nil)
	if err != nil {
		return 0, err
	}
	result, err := p.EndParsing()
	if err != nil {
		return 0, err
	}
	return result.(int64), nil
}

// --- Lexmachine front-end ---------------------------------------------------

var tokenIds = map[string]int{
	"+": int(SymPlus),
	"-": int(SymMinus),
	"*": int(SymTimes),
	"/": int(SymDivide),
	"(": int(SymLParen),
	")": int(SymRParen),
}

// NewScanner creates a lexmachine-backed tokenizer for the expression
// language, as an alternative to NewLexer.
func NewScanner(input string) (scanner.Tokenizer, error) {
	adapter, err := scanner.NewLMAdapter(func(lx *lexmachine.Lexer) {
		lx.Add([]byte(`[0-9]+`), scanner.MakeToken("NUM", int(SymNum)))
		lx.Add([]byte(`( |\t|\n|\r)+`), scanner.Skip)
	}, []string{"+", "-", "*", "/", "(", ")"}, nil, tokenIds)
	if err != nil {
		return nil, err
	}
	return adapter.Scanner(input)
}

// EvalTokens pulls tokens from a Tokenizer and parses them, returning the
// expression's value.
func EvalTokens(toks scanner.Tokenizer) (int64, error) {
	p, err := NewParser()
	if err != nil {
		return 0, err
	}
	for {
		tok := toks.NextToken()
		if tok.TokType() == scanner.EOF {
			break
		}
		if err := p.Consume(tok, lr.SymCode(tok.TokType())); err != nil {
			return 0, err
		}
	}
	result, err := p.EndParsing()
	if err != nil {
		return 0, err
	}
	return result.(int64), nil
}

package lalr

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/wildthink/citron"
	"github.com/wildthink/citron/lr"
	"github.com/wildthink/citron/lr/scanner"
)

// --- A tiny nesting grammar -------------------------------------------------
//
//	0: S ::= LPAREN S RPAREN
//	1: S ::= NUM
//
// Terminals: $ = 0, LPAREN = 1, RPAREN = 2, NUM = 3; nonterminal S = 4.

func parenTables(t *testing.T) *lr.Tables {
	b := lr.NewTableBuilder(
		[]string{"$", "LPAREN", "RPAREN", "NUM"},
		[]string{"S"},
	)
	b.Rule(4, 3, "S ::= LPAREN S RPAREN")
	b.Rule(4, 1, "S ::= NUM")
	b.State(lr.StateSpec{ // 0
		Shift: map[lr.SymCode]lr.Act{1: lr.Shift(2), 3: lr.ShiftReduce(1)},
		Goto:  map[lr.SymCode]lr.Act{4: lr.Shift(1)},
	})
	b.State(lr.StateSpec{ // 1
		Shift: map[lr.SymCode]lr.Act{0: lr.Accept()},
	})
	b.State(lr.StateSpec{ // 2
		Shift: map[lr.SymCode]lr.Act{1: lr.Shift(2), 3: lr.ShiftReduce(1)},
		Goto:  map[lr.SymCode]lr.Act{4: lr.Shift(3)},
	})
	b.State(lr.StateSpec{ // 3
		Shift: map[lr.SymCode]lr.Act{2: lr.ShiftReduce(0)},
	})
	tab, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return tab
}

func parenReducer() Reducer {
	return ReduceFunc(func(rule int, rhs []interface{}) (interface{}, error) {
		switch rule {
		case 0: // S ::= LPAREN S RPAREN
			return rhs[1], nil
		case 1: // S ::= NUM
			tok := rhs[0].(citron.Token)
			return strconv.ParseInt(tok.Lexeme(), 10, 64)
		}
		return nil, nil
	})
}

func parenParser(t *testing.T) *Parser {
	p, err := NewParser(parenTables(t), parenReducer())
	if err != nil {
		t.Fatal(err)
	}
	return p
}

// tok creates a test token for a symbol code.
func tok(code lr.SymCode, lexeme string) citron.Token {
	return scanner.MakeDefaultToken(citron.TokType(code), lexeme, citron.Span{})
}

// feedParens pushes a blank-separated token string through the parser.
// Lexemes: "(" ")" and integers.
func feedParens(t *testing.T, p *Parser, input string) error {
	for _, lexeme := range strings.Fields(input) {
		var code lr.SymCode
		switch lexeme {
		case "(":
			code = 1
		case ")":
			code = 2
		default:
			code = 3
		}
		if err := p.Consume(tok(code, lexeme), code); err != nil {
			return err
		}
	}
	return nil
}

func TestParseNested(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "citron.lr")
	defer teardown()
	//
	p := parenParser(t)
	if err := feedParens(t, p, "( ( 41 ) )"); err != nil {
		t.Fatal(err)
	}
	result, err := p.EndParsing()
	if err != nil {
		t.Fatal(err)
	}
	if result != int64(41) {
		t.Errorf("expected result 41, got %v", result)
	}
}

func TestStackDiscipline(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "citron.lr")
	defer teardown()
	//
	// Depth after each token: every shift adds a frame, every reduce of a
	// rule with k RHS symbols removes k and adds one.
	p := parenParser(t)
	depths := []int{1, 2, 3, 2, 1}
	for i, lexeme := range strings.Fields("( ( 1 ) )") {
		if err := feedParens(t, p, lexeme); err != nil {
			t.Fatal(err)
		}
		if d := p.StackDepth(); d != depths[i] {
			t.Errorf("after token #%d: expected stack depth %d, got %d", i, depths[i], d)
		}
	}
}

func TestDeterminism(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "citron.lr")
	defer teardown()
	//
	input := "( ( ( 7 ) ) )"
	var results [2]interface{}
	for run := 0; run < 2; run++ {
		p := parenParser(t)
		if err := feedParens(t, p, input); err != nil {
			t.Fatal(err)
		}
		result, err := p.EndParsing()
		if err != nil {
			t.Fatal(err)
		}
		results[run] = result
	}
	if results[0] != results[1] {
		t.Errorf("two runs disagree: %v / %v", results[0], results[1])
	}
}

func TestUnexpectedToken(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "citron.lr")
	defer teardown()
	//
	p := parenParser(t)
	var hooked []lr.SymCode
	p.OnSyntaxError = func(tok citron.Token, code lr.SymCode) {
		hooked = append(hooked, code)
	}
	err := p.Consume(tok(2, ")"), 2)
	var serr *SyntaxError
	if !errors.As(err, &serr) {
		t.Fatalf("expected a SyntaxError, got %v", err)
	}
	if serr.Code != 2 || serr.Name != "RPAREN" {
		t.Errorf("unexpected error contents: %v", serr)
	}
	if len(hooked) != 1 || hooked[0] != 2 {
		t.Errorf("expected OnSyntaxError to fire once, got %v", hooked)
	}
}

func TestUnexpectedEndOfInput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "citron.lr")
	defer teardown()
	//
	p := parenParser(t)
	if err := feedParens(t, p, "( 1"); err != nil {
		t.Fatal(err)
	}
	if _, err := p.EndParsing(); err != ErrUnexpectedEOF {
		t.Errorf("expected ErrUnexpectedEOF, got %v", err)
	}
	// empty input
	p = parenParser(t)
	if _, err := p.EndParsing(); err != ErrUnexpectedEOF {
		t.Errorf("expected ErrUnexpectedEOF on empty input, got %v", err)
	}
}

func TestConsumeAfterAccept(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "citron.lr")
	defer teardown()
	//
	p := parenParser(t)
	if err := feedParens(t, p, "5"); err != nil {
		t.Fatal(err)
	}
	if _, err := p.EndParsing(); err != nil {
		t.Fatal(err)
	}
	if err := p.Consume(tok(3, "6"), 3); err != ErrFinished {
		t.Errorf("expected ErrFinished after accept, got %v", err)
	}
	p.Reset()
	if err := feedParens(t, p, "( 6 )"); err != nil {
		t.Fatal(err)
	}
	result, err := p.EndParsing()
	if err != nil {
		t.Fatal(err)
	}
	if result != int64(6) {
		t.Errorf("expected result 6 after reset, got %v", result)
	}
}

func TestStackOverflow(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "citron.lr")
	defer teardown()
	//
	p := parenParser(t)
	p.MaxStackSize = 4
	overflows := 0
	p.OnStackOverflow = func() {
		overflows++
	}
	var err error
	for i := 0; i < 10; i++ {
		if err = p.Consume(tok(1, "("), 1); err != nil {
			break
		}
	}
	if err != ErrStackOverflow {
		t.Fatalf("expected ErrStackOverflow, got %v", err)
	}
	if overflows != 1 {
		t.Errorf("expected OnStackOverflow to fire once, fired %d times", overflows)
	}
	// the parser is dead: consumes are no-ops and do not push
	if err := p.Consume(tok(3, "1"), 3); err != ErrStackOverflow {
		t.Errorf("expected ErrStackOverflow from a dead parser, got %v", err)
	}
	if d := p.StackDepth(); d != 0 {
		t.Errorf("expected an emptied stack, got depth %d", d)
	}
	if overflows != 1 {
		t.Errorf("expected no further overflow reports, got %d", overflows)
	}
}

// --- Fallback and wildcard dispatch -----------------------------------------

// A keyword grammar: IDENT reduces to S; KEYWORD falls back to IDENT.
//
//	0: S ::= IDENT
func fallbackTables(t *testing.T) *lr.Tables {
	b := lr.NewTableBuilder(
		[]string{"$", "IDENT", "KEYWORD"},
		[]string{"S"},
	)
	b.Rule(3, 1, "S ::= IDENT")
	b.State(lr.StateSpec{ // 0
		Shift: map[lr.SymCode]lr.Act{1: lr.ShiftReduce(0)},
		Goto:  map[lr.SymCode]lr.Act{3: lr.Shift(1)},
	})
	b.State(lr.StateSpec{ // 1
		Shift: map[lr.SymCode]lr.Act{0: lr.Accept()},
	})
	b.SetFallback(2, 1)
	tab, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return tab
}

func TestFallback(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "citron.lr")
	defer teardown()
	//
	red := ReduceFunc(func(rule int, rhs []interface{}) (interface{}, error) {
		return rhs[0].(citron.Token).Lexeme(), nil
	})
	p, err := NewParser(fallbackTables(t), red)
	if err != nil {
		t.Fatal(err)
	}
	// "type" arrives as KEYWORD, which has no action in state 0; the
	// dispatcher must retry it as IDENT
	if err := p.Consume(tok(2, "type"), 2); err != nil {
		t.Fatal(err)
	}
	result, err := p.EndParsing()
	if err != nil {
		t.Fatal(err)
	}
	if result != "type" {
		t.Errorf("expected the fallback token to parse as IDENT, got %v", result)
	}
}

// A wildcard grammar: ANY matches any terminal without an action of its own.
//
//	0: S ::= IDENT
//	1: S ::= ANY
func wildcardTables(t *testing.T) *lr.Tables {
	b := lr.NewTableBuilder(
		[]string{"$", "IDENT", "ANY", "KEYWORD"},
		[]string{"S"},
	)
	b.Rule(4, 1, "S ::= IDENT")
	b.Rule(4, 1, "S ::= ANY")
	b.State(lr.StateSpec{ // 0
		Shift: map[lr.SymCode]lr.Act{1: lr.ShiftReduce(0), 2: lr.ShiftReduce(1)},
		Goto:  map[lr.SymCode]lr.Act{4: lr.Shift(1)},
	})
	b.State(lr.StateSpec{ // 1
		Shift: map[lr.SymCode]lr.Act{0: lr.Accept()},
	})
	b.SetWildcard(2)
	tab, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return tab
}

func TestWildcard(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "citron.lr")
	defer teardown()
	//
	red := ReduceFunc(func(rule int, rhs []interface{}) (interface{}, error) {
		return rule, nil
	})
	p, err := NewParser(wildcardTables(t), red)
	if err != nil {
		t.Fatal(err)
	}
	// KEYWORD has no action and no fallback; the wildcard must catch it
	if err := p.Consume(tok(3, "whatever"), 3); err != nil {
		t.Fatal(err)
	}
	result, err := p.EndParsing()
	if err != nil {
		t.Fatal(err)
	}
	if result != 1 {
		t.Errorf("expected the wildcard rule to fire, got %v", result)
	}
	// the end symbol must never match the wildcard
	p, err = NewParser(wildcardTables(t), red)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.EndParsing(); err != ErrUnexpectedEOF {
		t.Errorf("expected the end symbol to miss the wildcard, got %v", err)
	}
}

// --- Semantic action errors --------------------------------------------------

func TestReducerErrorPropagates(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "citron.lr")
	defer teardown()
	//
	boom := errors.New("boom")
	red := ReduceFunc(func(rule int, rhs []interface{}) (interface{}, error) {
		return nil, boom
	})
	p, err := NewParser(parenTables(t), red)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Consume(tok(3, "1"), 3); err != boom {
		t.Errorf("expected the reducer error to propagate, got %v", err)
	}
}

func TestRejectsBrokenTables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "citron.lr")
	defer teardown()
	//
	tab := parenTables(t)
	tab.Fallback[1] = 2
	tab.Fallback[2] = 1
	if _, err := NewParser(tab, nil); err == nil {
		t.Error("expected NewParser to reject tables with a fallback cycle")
	}
}

/*
Package lalr implements the table-driven runtime for Lemon-style LALR(1)
parsers.

A Parser executes the compressed tables of package lr over a stream of tokens.
It is a push parser: clients call Consume once per token, in lexical order,
and EndParsing when the input is exhausted. Semantic actions are not part of
the runtime; the grammar supplies them through the Reducer interface, and the
value the reducer returns for a rule becomes the payload of the rule's
left-hand-side symbol on the parse stack.

Usage

	p, err := lalr.NewParser(tables, reducer)
	...
	for _, tok := range tokens {
		if err := p.Consume(tok, code(tok)); err != nil { ... }
	}
	result, err := p.EndParsing()

A parser instance owns mutable state and is not safe for concurrent use;
separate instances sharing the same tables are independent.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2025 the citron authors

*/
package lalr

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"

	"github.com/wildthink/citron"
	"github.com/wildthink/citron/lr"
)

// tracer traces with key 'citron.lr'.
func tracer() tracing.Trace {
	return tracing.Select("citron.lr")
}

// A Reducer executes the semantic action of a grammar rule. rhs holds the
// payloads of the rule's right-hand-side symbols in grammar order; the
// returned value becomes the payload of the left-hand-side symbol. An error
// aborts the parse and propagates out of Consume or EndParsing.
//
// Generators emit a Reducer alongside the tables; rule numbers correspond to
// Tables.RuleInfo.
type Reducer interface {
	Reduce(rule int, rhs []interface{}) (interface{}, error)
}

// ReduceFunc adapts a function to the Reducer interface.
type ReduceFunc func(rule int, rhs []interface{}) (interface{}, error)

// Reduce calls f.
func (f ReduceFunc) Reduce(rule int, rhs []interface{}) (interface{}, error) {
	return f(rule, rhs)
}

// Parser is an LALR(1) parser instance. Create one with NewParser; the hook
// fields may be set before the first Consume.
type Parser struct {
	// MaxStackSize limits the parse stack depth, not counting the sentinel
	// frame. 0 means unlimited.
	MaxStackSize int

	// OnSyntaxError is called for every syntax error that is not absorbed by
	// an error capture. The token is nil at end of input.
	OnSyntaxError func(tok citron.Token, code lr.SymCode)

	// OnStackOverflow is called once when a shift exceeds MaxStackSize.
	OnStackOverflow func()

	// TokenValue converts a consumed token into the payload stored on the
	// stack for the terminal. Default is the token itself.
	TokenValue func(tok citron.Token) interface{}

	tab     *lr.Tables
	stack   *Stack
	reducer Reducer

	captures  []capturePoint
	unclaimed []citron.Token
	recovering bool

	dead     bool
	accepted bool
	result   interface{}
}

// NewParser creates a parser for a table set. The tables are validated once;
// they are borrowed, never modified, and may be shared between parsers.
func NewParser(tab *lr.Tables, reducer Reducer) (*Parser, error) {
	if err := tab.Check(); err != nil {
		return nil, err
	}
	return &Parser{
		tab:     tab,
		stack:   NewStack(),
		reducer: reducer,
	}, nil
}

// Tables returns the table set this parser runs on.
func (p *Parser) Tables() *lr.Tables {
	return p.tab
}

// StackDepth returns the number of stack frames above the sentinel.
func (p *Parser) StackDepth() int {
	return p.stack.Depth()
}

// CaptureOn registers an error-capture point: syntax errors occurring while
// nonterminal nt is open may be absorbed by the delegate and replaced with a
// placeholder value. Points are probed in registration order.
func (p *Parser) CaptureOn(nt lr.SymCode, delegate CaptureDelegate) {
	if int(nt) < p.tab.NumTerminals || int(nt) >= p.tab.NumSymbols() {
		tracer().Errorf("capture point %d is not a nonterminal", nt)
		return
	}
	p.captures = append(p.captures, capturePoint{sym: nt, delegate: delegate})
}

// Reset returns the parser to its initial state. The tables, reducer, hooks
// and capture points are kept.
func (p *Parser) Reset() {
	p.stack.Reset()
	p.unclaimed = nil
	p.recovering = false
	p.dead = false
	p.accepted = false
	p.result = nil
}

// Consume feeds the next input token. code is the token's terminal symbol
// code. The token is consumed: its payload (via TokenValue) moves into a
// stack frame on shift. All reduces the token triggers run synchronously
// before Consume returns.
func (p *Parser) Consume(tok citron.Token, code lr.SymCode) error {
	if p.dead {
		return ErrStackOverflow
	}
	if p.accepted {
		return ErrFinished
	}
	if int(code) >= p.tab.NumTerminals {
		return fmt.Errorf("token code %d is not a terminal", code)
	}
	return p.consume(tok, code)
}

// EndParsing signals the end of input. It feeds the implicit end-of-input
// symbol through the automaton until the parse accepts or fails, and returns
// the accepted parse's result value: the payload of the start symbol.
func (p *Parser) EndParsing() (interface{}, error) {
	if p.dead {
		return nil, ErrStackOverflow
	}
	if p.accepted {
		return nil, ErrFinished
	}
	tracer().Debugf("end of input")
	for feeds := 0; feeds <= p.tab.NumStates; feeds++ {
		if err := p.consume(nil, lr.EndSymbol); err != nil {
			if _, ok := err.(*SyntaxError); ok {
				return nil, ErrUnexpectedEOF
			}
			return nil, err
		}
		if p.accepted {
			return p.result, nil
		}
		// the end symbol was shifted as an ordinary terminal; feed it again
	}
	return nil, tableErrf("end of input does not reach accept")
}

// --- Dispatch loop ----------------------------------------------------------

func (p *Parser) consume(tok citron.Token, code lr.SymCode) error {
	t := p.tab
	la := code
	bound := p.stack.Len() + (t.NumRules+1)*(t.NumStates+2)
	for rounds := 0; rounds <= bound; rounds++ {
		act, err := p.findShiftAction(la)
		if err != nil {
			return err
		}
		switch {
		case t.IsShiftReduce(act):
			if err := p.shift(act, la, p.tokenValue(tok)); err != nil {
				return err
			}
			if err := p.reduce(int(act - t.MinShiftReduce)); err != nil {
				return err
			}
			p.recovered()
			return nil
		case t.IsShift(act):
			if err := p.shift(act, la, p.tokenValue(tok)); err != nil {
				return err
			}
			p.recovered()
			return nil
		case t.IsReduce(act):
			if err := p.reduce(int(act - t.MinReduce)); err != nil {
				return err
			}
			if p.accepted {
				return nil
			}
			// the lookahead is not consumed yet; dispatch it again
		case act == t.ErrorAction:
			return p.handleError(tok, code)
		case act == t.AcceptAction:
			p.accept(p.stack.Peek().Val)
			return nil
		default:
			return tableErrf("no action for %s in state %d", t.SymbolName(la), p.stack.Peek().State)
		}
	}
	return tableErrf("dispatch does not terminate for %s", t.SymbolName(code))
}

// findShiftAction computes the action for the current state and a terminal
// lookahead, trying the compressed table, then per-terminal fallbacks, then
// the wildcard, then the state's default action.
func (p *Parser) findShiftAction(la lr.SymCode) (lr.ActCode, error) {
	t := p.tab
	s := p.stack.Peek().State
	if s >= t.MinReduce {
		return s, nil // encoded pending reduce
	}
	ofst := t.ShiftOfst[s]
	cur := la
	for hops := 0; hops <= 2; hops++ {
		if ofst != lr.UseDefault {
			i := ofst + int(cur)
			if i >= 0 && i < len(t.Action) && t.Lookahead[i] == cur {
				if cur != la {
					tracer().Debugf("fallback %s => %s", t.SymbolName(la), t.SymbolName(cur))
				}
				return t.Action[i], nil
			}
		}
		if int(cur) < len(t.Fallback) && t.Fallback[cur] != 0 {
			cur = t.Fallback[cur]
			continue
		}
		if w := t.Wildcard; w != lr.InvalidSymCode && cur > 0 && ofst != lr.UseDefault {
			j := ofst + int(w)
			if j >= 0 && j < len(t.Action) && t.Lookahead[j] == w {
				tracer().Debugf("wildcard matches %s in state %d", t.SymbolName(la), s)
				return t.Action[j], nil
			}
		}
		return t.Default[s], nil
	}
	return 0, tableErrf("fallback chain of %s does not terminate", t.SymbolName(la))
}

// findReduceAction computes the goto after a reduce: the action for a state
// and the reduced rule's left-hand-side nonterminal. By construction of the
// tables this lookup always hits; a miss means the tables are broken.
func (p *Parser) findReduceAction(state lr.ActCode, lhs lr.SymCode) (lr.ActCode, error) {
	t := p.tab
	if int(state) >= t.NumStates {
		return 0, tableErrf("goto from %d, which is not a state", state)
	}
	ofst := t.ReduceOfst[state]
	if ofst == lr.UseDefault {
		return 0, tableErrf("state %d has no goto row", state)
	}
	i := ofst + int(lhs)
	if i < 0 || i >= len(t.Action) || t.Lookahead[i] != lhs {
		return 0, tableErrf("no goto for %s in state %d", t.SymbolName(lhs), state)
	}
	return t.Action[i], nil
}

// shift pushes a frame for a consumed terminal. Shift-reduce actions are
// rewritten into the pending-reduce range before they are stored as states.
func (p *Parser) shift(next lr.ActCode, sym lr.SymCode, val interface{}) error {
	t := p.tab
	if p.MaxStackSize > 0 && p.stack.Depth() >= p.MaxStackSize {
		return p.overflow()
	}
	if next > t.MaxShift {
		next += t.MinReduce - t.MinShiftReduce
	}
	tracer().Debugf("shift %s, next state %s", t.SymbolName(sym), t.ActionString(next))
	p.stack.Push(Frame{State: next, Sym: sym, Val: val})
	return nil
}

// reduce executes rule r: the semantic action reads the top NRHS frames, the
// goto is looked up in the state below them, the frames are popped, and the
// left-hand side is pushed with the action's value.
func (p *Parser) reduce(r int) error {
	t := p.tab
	if r >= t.NumRules {
		return tableErrf("reduce of unknown rule %d", r)
	}
	info := t.RuleInfo[r]
	k := info.NRHS
	n := p.stack.Len()
	if n <= k {
		return tableErrf("reduce of %s needs %d frames, stack has %d", t.RuleName[r], k, n)
	}
	tracer().Debugf("reduce %s", t.RuleName[r])
	rhs := make([]interface{}, k)
	for i := 0; i < k; i++ {
		rhs[i] = p.stack.Frame(n - k + i).Val
	}
	var val interface{}
	if p.reducer != nil {
		var err error
		if val, err = p.reducer.Reduce(r, rhs); err != nil {
			return err
		}
	}
	prev := p.stack.Frame(n - 1 - k).State
	act, err := p.findReduceAction(prev, info.LHS)
	if err != nil {
		return err
	}
	for i := 0; i < k; i++ {
		p.stack.Pop()
	}
	if act == t.AcceptAction {
		p.accept(val)
		return nil
	}
	if !t.IsShift(act) && !t.IsReduce(act) {
		return tableErrf("reduce of %s routes to %s", t.RuleName[r], t.ActionString(act))
	}
	if k == 0 && p.MaxStackSize > 0 && p.stack.Depth() >= p.MaxStackSize {
		return p.overflow()
	}
	p.stack.Push(Frame{State: act, Sym: info.LHS, Val: val})
	return nil
}

func (p *Parser) accept(result interface{}) {
	tracer().Debugf("accept")
	p.result = result
	p.accepted = true
	p.stack.Clear()
}

func (p *Parser) overflow() error {
	tracer().Errorf("parse stack overflows %d frames", p.MaxStackSize)
	if p.OnStackOverflow != nil {
		p.OnStackOverflow()
	}
	p.stack.Clear()
	p.dead = true
	return ErrStackOverflow
}

func (p *Parser) tokenValue(tok citron.Token) interface{} {
	if p.TokenValue != nil {
		return p.TokenValue(tok)
	}
	if tok == nil {
		return nil
	}
	return tok
}

func (p *Parser) recovered() {
	if p.recovering {
		tracer().Debugf("recovered from syntax error, %d tokens dropped", len(p.unclaimed))
		p.recovering = false
		p.unclaimed = nil
	}
}

// --- Error handling ---------------------------------------------------------

func (p *Parser) handleError(tok citron.Token, code lr.SymCode) error {
	t := p.tab
	serr := &SyntaxError{Token: tok, Code: code, Name: t.SymbolName(code)}
	if p.recovering {
		if tok != nil {
			tracer().Debugf("dropping %s while recovering", t.SymbolName(code))
			p.unclaimed = append(p.unclaimed, tok)
			return nil
		}
		// end of input while recovering: recovery failed, report
	} else if captured, err := p.tryCapture(serr, tok, code); captured {
		return err
	}
	tracer().Debugf("%v", serr)
	if p.OnSyntaxError != nil {
		p.OnSyntaxError(tok, code)
	}
	return serr
}

// tryCapture walks the stack top-down for the nearest state with a goto on a
// registered capturing nonterminal. If a delegate captures, the frames of the
// partial right-hand side are unwound, the placeholder is pushed as if the
// nonterminal had reduced, and the offending token is dispatched again in
// recovery mode.
func (p *Parser) tryCapture(serr *SyntaxError, tok citron.Token, code lr.SymCode) (bool, error) {
	if len(p.captures) == 0 {
		return false, nil
	}
	n := p.stack.Len()
	for depth := 0; depth < n; depth++ {
		fr := p.stack.Frame(n - 1 - depth)
		if fr.State >= p.tab.MinReduce {
			continue // encoded pending reduce, no goto row
		}
		for _, cp := range p.captures {
			act, ok := p.gotoFor(fr.State, cp.sym)
			if !ok {
				continue
			}
			resolved := make([]interface{}, 0, depth)
			for i := n - depth; i < n; i++ {
				resolved = append(resolved, p.stack.Frame(i).Val)
			}
			res := cp.delegate.CaptureError(CaptureContext{
				Err:       serr,
				Symbol:    cp.sym,
				Resolved:  resolved,
				Unclaimed: p.unclaimed,
				Next:      tok,
			})
			if !res.captured {
				return false, nil
			}
			tracer().Debugf("error captured as %s", p.tab.SymbolName(cp.sym))
			for i := 0; i < depth; i++ {
				p.stack.Pop()
			}
			p.stack.Push(Frame{State: act, Sym: cp.sym, Val: res.value})
			p.recovering = true
			if tok == nil {
				return true, nil
			}
			return true, p.consume(tok, code)
		}
	}
	return false, nil
}

func (p *Parser) gotoFor(state lr.ActCode, nt lr.SymCode) (lr.ActCode, bool) {
	t := p.tab
	ofst := t.ReduceOfst[state]
	if ofst == lr.UseDefault {
		return 0, false
	}
	i := ofst + int(nt)
	if i < 0 || i >= len(t.Action) || t.Lookahead[i] != nt {
		return 0, false
	}
	return t.Action[i], true
}

func tableErrf(format string, args ...interface{}) error {
	return lr.TableErrf(format, args...)
}

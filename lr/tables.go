package lr

import (
	"fmt"

	"github.com/cnf/structhash"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'citron.lr'.
func tracer() tracing.Trace {
	return tracing.Select("citron.lr")
}

// SymCode is the code of a grammar symbol. Terminals occupy codes
// [0, NumTerminals), nonterminals occupy [NumTerminals, number of symbols).
// Code 0 is the end-of-input terminal.
type SymCode uint16

// ActCode encodes an entry of the compressed action table. Depending on the
// range it falls into, an ActCode is a shift, a shift-reduce, a reduce, or one
// of the distinguished error/accept/no-action codes (see Tables).
type ActCode uint16

// InvalidSymCode marks "no symbol". It is used as a filler in the lookahead
// array and as the wildcard code of grammars without a wildcard terminal.
const InvalidSymCode = SymCode(^SymCode(0))

// EndSymbol is the symbol code of the implicit end-of-input terminal.
const EndSymbol = SymCode(0)

// UseDefault is a sentinel offset: a state whose shift or reduce offset equals
// UseDefault has no row in the action table and falls through to its default
// action.
const UseDefault = -(1 << 30)

// RuleInfo carries the reduce metadata of a grammar rule.
type RuleInfo struct {
	LHS  SymCode // nonterminal the rule reduces to
	NRHS int     // number of right-hand-side symbols popped on reduce
}

// Tables is the complete, immutable output of the grammar generator for one
// grammar. Tables carry no mutable parser state and may be shared between
// parser instances and goroutines.
//
// The action-code space partitions into contiguous ranges:
//
//    [0, MaxShift]                    shift to state = action
//    [MinShiftReduce, MaxShiftReduce] shift, then reduce rule action − MinShiftReduce
//    [MinReduce, MaxReduce]           reduce rule action − MinReduce
//    ErrorAction                      syntax error
//    AcceptAction                     accept
//    NoAction                         no valid action (never returned by dispatch)
//
// Lookup of a shift action for state s and lookahead la computes
// i = ShiftOfst[s] + la and hits iff Lookahead[i] == la; reduce (goto) lookup
// works the same over ReduceOfst. A miss falls through to fallback, wildcard
// and finally Default[s].
type Tables struct {
	NumStates    int // number of automaton states that can appear on the stack
	NumRules     int
	NumTerminals int

	MaxShift       ActCode
	MinShiftReduce ActCode
	MaxShiftReduce ActCode
	MinReduce      ActCode
	MaxReduce      ActCode
	ErrorAction    ActCode
	AcceptAction   ActCode
	NoAction       ActCode

	Action    []ActCode // compressed action table
	Lookahead []SymCode // parallel to Action; detects lookup collisions

	ShiftOfst  []int // per state: base offset of the shift row, or UseDefault
	ReduceOfst []int // per state: base offset of the reduce (goto) row, or UseDefault
	Default    []ActCode

	Fallback []SymCode // per terminal: fallback terminal, 0 = none; may be empty
	Wildcard SymCode   // wildcard terminal, InvalidSymCode when undeclared

	RuleInfo  []RuleInfo
	TokenName []string // names of all symbols, terminals first
	RuleName  []string // printable rules, for tracing
}

// NumSymbols returns the total number of grammar symbols.
func (t *Tables) NumSymbols() int {
	return len(t.TokenName)
}

// HasFallback reports whether any terminal declares a fallback.
func (t *Tables) HasFallback() bool {
	for _, fb := range t.Fallback {
		if fb != 0 {
			return true
		}
	}
	return false
}

// HasWildcard reports whether the grammar declares a wildcard terminal.
func (t *Tables) HasWildcard() bool {
	return t.Wildcard != InvalidSymCode
}

// SymbolName returns the name of a symbol, for tracing.
func (t *Tables) SymbolName(c SymCode) string {
	if int(c) < len(t.TokenName) {
		return t.TokenName[c]
	}
	return fmt.Sprintf("?%d?", c)
}

// IsShift reports whether a is a pure shift action.
func (t *Tables) IsShift(a ActCode) bool {
	return a <= t.MaxShift
}

// IsShiftReduce reports whether a is a compressed shift-reduce action.
func (t *Tables) IsShiftReduce(a ActCode) bool {
	return a >= t.MinShiftReduce && a <= t.MaxShiftReduce
}

// IsReduce reports whether a is a reduce action (including encoded pending
// reduces stored as stack states).
func (t *Tables) IsReduce(a ActCode) bool {
	return a >= t.MinReduce && a <= t.MaxReduce
}

// ActionString renders an action code for tracing.
func (t *Tables) ActionString(a ActCode) string {
	switch {
	case t.IsShift(a):
		return fmt.Sprintf("<shift %d>", a)
	case t.IsShiftReduce(a):
		return fmt.Sprintf("<shift-reduce %s>", t.ruleString(int(a-t.MinShiftReduce)))
	case t.IsReduce(a):
		return fmt.Sprintf("<reduce %s>", t.ruleString(int(a-t.MinReduce)))
	case a == t.ErrorAction:
		return "<error>"
	case a == t.AcceptAction:
		return "<accept>"
	case a == t.NoAction:
		return "<none>"
	}
	return fmt.Sprintf("<?%d?>", a)
}

func (t *Tables) ruleString(r int) string {
	if r < len(t.RuleName) {
		return t.RuleName[r]
	}
	return fmt.Sprintf("rule %d", r)
}

// Signature returns a deterministic fingerprint of the table data. Two Tables
// with identical content have identical signatures, regardless of when or
// where they were assembled.
func (t *Tables) Signature() (string, error) {
	return structhash.Hash(*t, 1)
}

// TableError reports a structurally broken table set. Parsing against broken
// tables is a bug in the generator (or in hand-assembled tables), not in the
// input, so the runtime treats TableError as fatal.
type TableError struct {
	msg string
}

func (e *TableError) Error() string {
	return "table malformed: " + e.msg
}

func TableErrf(format string, args ...interface{}) *TableError {
	return &TableError{msg: fmt.Sprintf(format, args...)}
}

// Check validates the structural invariants of a table set: parallel array
// lengths, action-code range layout, offsets and rule metadata in bounds, and
// fallback chains terminating after at most two hops. The runtime calls Check
// once per parser; generators should call it after emitting tables.
func (t *Tables) Check() error {
	if len(t.Action) != len(t.Lookahead) {
		return TableErrf("action has %d entries, lookahead has %d", len(t.Action), len(t.Lookahead))
	}
	if t.NumStates <= 0 || t.NumRules < 0 {
		return TableErrf("state count %d / rule count %d", t.NumStates, t.NumRules)
	}
	if t.NumTerminals < 1 || t.NumTerminals > t.NumSymbols() {
		return TableErrf("%d terminals but %d symbols", t.NumTerminals, t.NumSymbols())
	}
	if len(t.ShiftOfst) != t.NumStates || len(t.ReduceOfst) != t.NumStates || len(t.Default) != t.NumStates {
		return TableErrf("offset/default arrays do not cover %d states", t.NumStates)
	}
	if len(t.RuleInfo) != t.NumRules || len(t.RuleName) != t.NumRules {
		return TableErrf("rule metadata does not cover %d rules", t.NumRules)
	}
	if err := t.checkRanges(); err != nil {
		return err
	}
	for r, info := range t.RuleInfo {
		if int(info.LHS) < t.NumTerminals || int(info.LHS) >= t.NumSymbols() {
			return TableErrf("rule %d reduces to symbol %d, which is not a nonterminal", r, info.LHS)
		}
		if info.NRHS < 0 {
			return TableErrf("rule %d has negative RHS length", r)
		}
	}
	if len(t.Fallback) != 0 && len(t.Fallback) != t.NumTerminals {
		return TableErrf("fallback array covers %d of %d terminals", len(t.Fallback), t.NumTerminals)
	}
	for term, fb := range t.Fallback {
		if fb == 0 {
			continue
		}
		if int(fb) >= t.NumTerminals {
			return TableErrf("fallback of terminal %d is %d, not a terminal", term, fb)
		}
		if t.Fallback[fb] != 0 { // a fallback chain must end after one hop
			return TableErrf("fallback chain %d -> %d -> %d", term, fb, t.Fallback[fb])
		}
	}
	if t.Wildcard != InvalidSymCode && int(t.Wildcard) >= t.NumTerminals {
		return TableErrf("wildcard %d is not a terminal", t.Wildcard)
	}
	for i, la := range t.Lookahead {
		if la == InvalidSymCode {
			continue
		}
		if int(la) >= t.NumSymbols() {
			return TableErrf("lookahead[%d] = %d is not a symbol", i, la)
		}
		a := t.Action[i]
		if a == t.NoAction || (a > t.MaxReduce && a != t.ErrorAction && a != t.AcceptAction) {
			return TableErrf("action[%d] = %d is outside every legal range", i, a)
		}
	}
	for s := 0; s < t.NumStates; s++ {
		if o := t.ShiftOfst[s]; o != UseDefault && (o+t.NumTerminals <= 0 || o >= len(t.Action)) {
			return TableErrf("shift offset %d of state %d is out of range", o, s)
		}
		if o := t.ReduceOfst[s]; o != UseDefault && (o+t.NumSymbols() <= 0 || o >= len(t.Action)) {
			return TableErrf("reduce offset %d of state %d is out of range", o, s)
		}
		if d := t.Default[s]; d != t.ErrorAction && !t.IsReduce(d) && d != t.AcceptAction {
			return TableErrf("default action %d of state %d is neither reduce nor error", d, s)
		}
	}
	return nil
}

func (t *Tables) checkRanges() error {
	if int(t.MaxShift) != t.NumStates-1 {
		return TableErrf("max shift %d does not match %d states", t.MaxShift, t.NumStates)
	}
	if t.MinShiftReduce != t.MaxShift+1 ||
		int(t.MaxShiftReduce) != int(t.MinShiftReduce)+t.NumRules-1 ||
		t.MinReduce != t.MaxShiftReduce+1 ||
		int(t.MaxReduce) != int(t.MinReduce)+t.NumRules-1 {
		return TableErrf("action ranges are not contiguous")
	}
	if t.ErrorAction != t.MaxReduce+1 || t.AcceptAction != t.ErrorAction+1 || t.NoAction != t.AcceptAction+1 {
		return TableErrf("error/accept/no-action codes are not contiguous after %d", t.MaxReduce)
	}
	return nil
}

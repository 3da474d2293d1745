package lr

import "fmt"

// An Act is an abstract parser action, not yet encoded into the action-code
// space of a concrete table set. TableBuilder performs the encoding.
type Act struct {
	kind actKind
	n    int
}

type actKind int8

const (
	actNone actKind = iota
	actShift
	actShiftReduce
	actReduce
	actAccept
	actError
)

// Shift is the action of pushing state s after consuming the lookahead.
func Shift(s int) Act { return Act{kind: actShift, n: s} }

// ShiftReduce is the compressed action of shifting the lookahead and
// immediately reducing rule r.
func ShiftReduce(r int) Act { return Act{kind: actShiftReduce, n: r} }

// Reduce is the action of reducing rule r. As the target of a goto it encodes
// a pending reduce: the frame pushed for the nonterminal carries the encoded
// reduce instead of a state.
func Reduce(r int) Act { return Act{kind: actReduce, n: r} }

// Accept is the action of accepting the input.
func Accept() Act { return Act{kind: actAccept} }

// Error is the explicit syntax-error action. It is the default of states
// without a default reduce.
func Error() Act { return Act{kind: actError} }

// StateSpec describes the actions of one automaton state: the shift actions
// per terminal, the goto actions per nonterminal, and the default action taken
// when the lookahead misses the shift row. States whose only action is a
// single reduce must not be specified; encode transitions into them as
// ShiftReduce (from terminals) or Reduce (as goto targets) instead.
type StateSpec struct {
	Shift   map[SymCode]Act
	Goto    map[SymCode]Act
	Default Act
}

// TableBuilder packs per-state action specifications into the compressed table
// representation the runtime executes. It performs the same packing step a
// grammar generator runs after resolving the automaton; it does no grammar
// analysis of its own.
//
// The layout is deterministic: shift rows are laid out full-width in state
// order, so that every terminal lookup lands inside its own state's row;
// reduce rows follow, packed to their populated key range, which is safe
// because goto lookups hit by construction.
type TableBuilder struct {
	terminals    []string
	nonterminals []string
	rules        []RuleInfo
	ruleNames    []string
	states       []StateSpec
	fallback     map[SymCode]SymCode
	wildcard     SymCode
}

// NewTableBuilder creates a builder for a grammar with the given symbol names.
// Terminal 0 must be the end-of-input symbol.
func NewTableBuilder(terminals, nonterminals []string) *TableBuilder {
	return &TableBuilder{
		terminals:    terminals,
		nonterminals: nonterminals,
		fallback:     make(map[SymCode]SymCode),
		wildcard:     InvalidSymCode,
	}
}

// Rule registers rule metadata and returns the rule number.
func (b *TableBuilder) Rule(lhs SymCode, nrhs int, name string) int {
	b.rules = append(b.rules, RuleInfo{LHS: lhs, NRHS: nrhs})
	b.ruleNames = append(b.ruleNames, name)
	return len(b.rules) - 1
}

// State appends a state and returns its number.
func (b *TableBuilder) State(spec StateSpec) int {
	b.states = append(b.states, spec)
	return len(b.states) - 1
}

// SetFallback declares that terminal t retries as terminal fb when it has no
// valid action.
func (b *TableBuilder) SetFallback(t, fb SymCode) {
	b.fallback[t] = fb
}

// SetWildcard declares the wildcard terminal.
func (b *TableBuilder) SetWildcard(w SymCode) {
	b.wildcard = w
}

// Build packs the registered states into a Tables value and validates it.
func (b *TableBuilder) Build() (*Tables, error) {
	nstate := len(b.states)
	nrule := len(b.rules)
	nterm := len(b.terminals)
	if nstate == 0 || nterm == 0 {
		return nil, fmt.Errorf("cannot build tables for %d states over %d terminals", nstate, nterm)
	}
	t := &Tables{
		NumStates:    nstate,
		NumRules:     nrule,
		NumTerminals: nterm,
		RuleInfo:     append([]RuleInfo(nil), b.rules...),
		RuleName:     append([]string(nil), b.ruleNames...),
		TokenName:    append(append([]string(nil), b.terminals...), b.nonterminals...),
		Wildcard:     b.wildcard,
	}
	t.MaxShift = ActCode(nstate - 1)
	t.MinShiftReduce = ActCode(nstate)
	t.MaxShiftReduce = ActCode(nstate + nrule - 1)
	t.MinReduce = t.MaxShiftReduce + 1
	t.MaxReduce = ActCode(int(t.MinReduce) + nrule - 1)
	t.ErrorAction = t.MaxReduce + 1
	t.AcceptAction = t.ErrorAction + 1
	t.NoAction = t.AcceptAction + 1

	t.ShiftOfst = make([]int, nstate)
	t.ReduceOfst = make([]int, nstate)
	t.Default = make([]ActCode, nstate)

	// shift rows, full-width in state order
	for s, spec := range b.states {
		if len(spec.Shift) == 0 {
			t.ShiftOfst[s] = UseDefault
			continue
		}
		base := len(t.Action)
		t.ShiftOfst[s] = base
		for i := 0; i < nterm; i++ {
			t.Action = append(t.Action, t.NoAction)
			t.Lookahead = append(t.Lookahead, InvalidSymCode)
		}
		for term, act := range spec.Shift {
			if int(term) >= nterm {
				return nil, fmt.Errorf("state %d shifts on symbol %d, which is not a terminal", s, term)
			}
			a, err := b.encode(t, act, false)
			if err != nil {
				return nil, fmt.Errorf("state %d, terminal %d: %v", s, term, err)
			}
			t.Action[base+int(term)] = a
			t.Lookahead[base+int(term)] = term
		}
	}

	// reduce (goto) rows, packed to their key range
	for s, spec := range b.states {
		if len(spec.Goto) == 0 {
			t.ReduceOfst[s] = UseDefault
			continue
		}
		min, max := InvalidSymCode, SymCode(0)
		for nt := range spec.Goto {
			if nt < min {
				min = nt
			}
			if nt > max {
				max = nt
			}
		}
		if int(min) < nterm || int(max) >= t.NumSymbols() {
			return nil, fmt.Errorf("state %d has a goto on symbol range %d..%d", s, min, max)
		}
		base := len(t.Action)
		t.ReduceOfst[s] = base - int(min)
		for i := min; i <= max; i++ {
			t.Action = append(t.Action, t.NoAction)
			t.Lookahead = append(t.Lookahead, InvalidSymCode)
		}
		for nt, act := range spec.Goto {
			a, err := b.encode(t, act, true)
			if err != nil {
				return nil, fmt.Errorf("state %d, nonterminal %d: %v", s, nt, err)
			}
			t.Action[base+int(nt-min)] = a
			t.Lookahead[base+int(nt-min)] = nt
		}
	}

	for s, spec := range b.states {
		switch spec.Default.kind {
		case actNone, actError:
			t.Default[s] = t.ErrorAction
		case actReduce:
			if spec.Default.n >= nrule {
				return nil, fmt.Errorf("state %d defaults to unknown rule %d", s, spec.Default.n)
			}
			t.Default[s] = t.MinReduce + ActCode(spec.Default.n)
		default:
			return nil, fmt.Errorf("state %d has a default that is neither reduce nor error", s)
		}
	}

	t.Fallback = make([]SymCode, nterm)
	for term, fb := range b.fallback {
		if int(term) >= nterm || int(fb) >= nterm {
			return nil, fmt.Errorf("fallback %d -> %d is not between terminals", term, fb)
		}
		t.Fallback[term] = fb
	}

	if err := t.Check(); err != nil {
		return nil, err
	}
	tracer().Debugf("packed %d states, %d rules into %d action codes", nstate, nrule, len(t.Action))
	return t, nil
}

func (b *TableBuilder) encode(t *Tables, act Act, isGoto bool) (ActCode, error) {
	switch act.kind {
	case actShift:
		if act.n < 0 || act.n >= t.NumStates {
			return 0, fmt.Errorf("shift to unknown state %d", act.n)
		}
		return ActCode(act.n), nil
	case actShiftReduce:
		if isGoto {
			return 0, fmt.Errorf("goto cannot shift-reduce rule %d", act.n)
		}
		if act.n < 0 || act.n >= t.NumRules {
			return 0, fmt.Errorf("shift-reduce of unknown rule %d", act.n)
		}
		return t.MinShiftReduce + ActCode(act.n), nil
	case actReduce:
		if act.n < 0 || act.n >= t.NumRules {
			return 0, fmt.Errorf("reduce of unknown rule %d", act.n)
		}
		return t.MinReduce + ActCode(act.n), nil
	case actAccept:
		return t.AcceptAction, nil
	case actError:
		return t.ErrorAction, nil
	}
	return 0, fmt.Errorf("empty action")
}

package lr

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// A tiny nesting grammar for testing the packer:
//
//	0: S ::= LPAREN S RPAREN
//	1: S ::= NUM
//
// The two single-reduce states of the raw automaton (after NUM and after the
// closing RPAREN) are compressed away: transitions into them become
// shift-reduce actions.
func parenBuilder() *TableBuilder {
	b := NewTableBuilder(
		[]string{"$", "LPAREN", "RPAREN", "NUM"},
		[]string{"S"},
	)
	b.Rule(4, 3, "S ::= LPAREN S RPAREN")
	b.Rule(4, 1, "S ::= NUM")
	b.State(StateSpec{ // 0
		Shift: map[SymCode]Act{1: Shift(2), 3: ShiftReduce(1)},
		Goto:  map[SymCode]Act{4: Shift(1)},
	})
	b.State(StateSpec{ // 1
		Shift: map[SymCode]Act{0: Accept()},
	})
	b.State(StateSpec{ // 2
		Shift: map[SymCode]Act{1: Shift(2), 3: ShiftReduce(1)},
		Goto:  map[SymCode]Act{4: Shift(3)},
	})
	b.State(StateSpec{ // 3
		Shift: map[SymCode]Act{2: ShiftReduce(0)},
	})
	return b
}

func TestBuildConstants(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "citron.lr")
	defer teardown()
	//
	tab, err := parenBuilder().Build()
	if err != nil {
		t.Fatal(err)
	}
	if tab.NumStates != 4 || tab.NumRules != 2 || tab.NumTerminals != 4 {
		t.Errorf("unexpected table dimensions: %d/%d/%d", tab.NumStates, tab.NumRules, tab.NumTerminals)
	}
	if tab.MaxShift != 3 || tab.MinShiftReduce != 4 || tab.MaxShiftReduce != 5 {
		t.Errorf("unexpected shift ranges: %d/%d/%d", tab.MaxShift, tab.MinShiftReduce, tab.MaxShiftReduce)
	}
	if tab.MinReduce != 6 || tab.MaxReduce != 7 {
		t.Errorf("unexpected reduce range: %d/%d", tab.MinReduce, tab.MaxReduce)
	}
	if tab.ErrorAction != 8 || tab.AcceptAction != 9 || tab.NoAction != 10 {
		t.Errorf("unexpected control codes: %d/%d/%d", tab.ErrorAction, tab.AcceptAction, tab.NoAction)
	}
}

// lookup replays the compressed shift lookup by hand.
func lookup(tab *Tables, state int, la SymCode) (ActCode, bool) {
	o := tab.ShiftOfst[state]
	if o == UseDefault {
		return 0, false
	}
	i := o + int(la)
	if i < 0 || i >= len(tab.Action) || tab.Lookahead[i] != la {
		return 0, false
	}
	return tab.Action[i], true
}

func TestBuildRows(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "citron.lr")
	defer teardown()
	//
	tab, err := parenBuilder().Build()
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		state int
		la    SymCode
		act   ActCode
		hit   bool
	}{
		{0, 1, 2, true},               // shift LPAREN
		{0, 3, 5, true},               // shift-reduce NUM
		{0, 2, 0, false},              // RPAREN misses in state 0
		{1, 0, tab.AcceptAction, true},
		{2, 3, 5, true},
		{3, 2, 4, true}, // shift-reduce of rule 0
		{3, 0, 0, false},
	}
	for _, c := range cases {
		act, hit := lookup(tab, c.state, c.la)
		if hit != c.hit || (hit && act != c.act) {
			t.Errorf("lookup(%d, %d): expected (%d, %v), got (%d, %v)", c.state, c.la, c.act, c.hit, act, hit)
		}
	}
	// goto rows hit for the registered nonterminals
	if i := tab.ReduceOfst[0] + 4; tab.Lookahead[i] != 4 || tab.Action[i] != 1 {
		t.Errorf("goto(0, S) is broken: %d/%d", tab.Lookahead[i], tab.Action[i])
	}
	if i := tab.ReduceOfst[2] + 4; tab.Lookahead[i] != 4 || tab.Action[i] != 3 {
		t.Errorf("goto(2, S) is broken: %d/%d", tab.Lookahead[i], tab.Action[i])
	}
	for _, s := range []int{1, 3} {
		if tab.ReduceOfst[s] != UseDefault {
			t.Errorf("state %d should have no goto row", s)
		}
	}
}

func TestBuildRejects(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "citron.lr")
	defer teardown()
	//
	b := parenBuilder()
	b.State(StateSpec{Shift: map[SymCode]Act{0: Shift(99)}})
	if _, err := b.Build(); err == nil {
		t.Error("expected a shift to an unknown state to be rejected")
	}
	b = parenBuilder()
	b.SetFallback(1, 17)
	if _, err := b.Build(); err == nil {
		t.Error("expected a fallback outside the terminals to be rejected")
	}
}

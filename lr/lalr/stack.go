package lalr

import (
	"github.com/emirpasic/gods/lists/arraylist"

	"github.com/wildthink/citron/lr"
)

// Frame is one entry of the parse stack: an automaton state (or an encoded
// pending reduce), the grammar symbol that led into it, and the symbol's
// semantic payload. The runtime never inspects the payload.
type Frame struct {
	State lr.ActCode
	Sym   lr.SymCode
	Val   interface{}
}

// Stack is the parse stack of a single parser instance. A sentinel frame with
// state 0 sits at index 0 from construction on and is never popped during
// normal operation. Stack is not safe for concurrent use.
type Stack struct {
	frames *arraylist.List
}

// NewStack creates a parse stack holding the initial sentinel frame.
func NewStack() *Stack {
	s := &Stack{frames: arraylist.New()}
	s.frames.Add(Frame{})
	return s
}

// Push appends a frame.
func (s *Stack) Push(f Frame) {
	s.frames.Add(f)
}

// Pop removes and returns the top frame. Popping the sentinel is a bug; Pop
// returns the zero frame once the stack is empty.
func (s *Stack) Pop() Frame {
	n := s.frames.Size()
	if n == 0 {
		return Frame{}
	}
	f := s.Frame(n - 1)
	s.frames.Remove(n - 1)
	return f
}

// Peek returns the top frame without removing it.
func (s *Stack) Peek() Frame {
	return s.Frame(s.frames.Size() - 1)
}

// Frame returns the frame at index i, counted from the sentinel upwards.
func (s *Stack) Frame(i int) Frame {
	v, ok := s.frames.Get(i)
	if !ok {
		return Frame{}
	}
	return v.(Frame)
}

// Len returns the number of frames, including the sentinel.
func (s *Stack) Len() int {
	return s.frames.Size()
}

// Depth returns the number of frames above the sentinel.
func (s *Stack) Depth() int {
	if n := s.frames.Size(); n > 0 {
		return n - 1
	}
	return 0
}

// Clear removes all frames, the sentinel included. Used during teardown after
// accept and after a stack overflow.
func (s *Stack) Clear() {
	s.frames.Clear()
}

// Reset empties the stack and re-seeds the sentinel frame.
func (s *Stack) Reset() {
	s.frames.Clear()
	s.frames.Add(Frame{})
}

package wiredriver

import (
	"golang.org/x/exp/slices"
)

// ElementContext is the ordered set of remote element handles a chain link's
// element operations apply to, together with how it was produced.
//
// The root of every chain carries the document context: no handles, depth
// zero. Each Find or FindAll narrows the context one depth level; End
// unwinds narrowing levels again.
type ElementContext struct {
	elements []*Element

	// single records whether the context was produced by a singular find;
	// it decides whether downstream element operations resolve to a scalar
	// or to a slice of per-element results. A single context holds exactly
	// one handle.
	single bool

	// depth counts how many narrowing operations produced this context.
	depth int

	// prev is the context this one narrowed from; nil for the document
	// context.
	prev *ElementContext
}

// documentContext is the whole-document scope every chain starts from.
var documentContext = &ElementContext{}

// narrowed returns a new context holding elements, one depth level below ec.
func (ec *ElementContext) narrowed(elements []*Element, single bool) *ElementContext {
	if single && len(elements) != 1 {
		panic("single element context must hold exactly one element")
	}
	return &ElementContext{
		elements: slices.Clone(elements),
		single:   single,
		depth:    ec.depth + 1,
		prev:     ec,
	}
}

// pop returns the ancestor context n narrowing levels up, clamping at the
// document context when n exceeds the available depth.
func (ec *ElementContext) pop(n int) *ElementContext {
	cur := ec
	for i := 0; i < n && cur.prev != nil; i++ {
		cur = cur.prev
	}
	return cur
}

// Elements returns a copy of the element handles in context order.
func (ec *ElementContext) Elements() []*Element {
	return slices.Clone(ec.elements)
}

// Single reports whether the context was produced by a singular find.
func (ec *ElementContext) Single() bool {
	return ec.single
}

// Depth returns the number of narrowing operations that produced the
// context.
func (ec *ElementContext) Depth() int {
	return ec.depth
}

// Empty reports whether the context holds no element handles.
func (ec *ElementContext) Empty() bool {
	return len(ec.elements) == 0
}

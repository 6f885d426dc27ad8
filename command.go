package wiredriver

import (
	"context"
	"sync"
)

// Continuation is a user supplied chain step. It receives the link's
// ChainContext and the parent link's resolved value, and returns the link's
// own value. Setting a new element scope for downstream links is done
// explicitly through cc.SetScope; when SetScope is never called the parent's
// scope is inherited unchanged.
//
// A Continuation may resolve with another *Command, in which case the link
// adopts that command's eventual value (one level of flattening). Resolving
// with a command whose settlement depends on this link fails fast with
// ErrChainDeadlock instead of hanging.
type Continuation func(ctx context.Context, cc *ChainContext, value interface{}) (interface{}, error)

// Recovery is a user supplied error recovery step. It runs only when the
// parent link settled with a failure; returning a nil error heals the chain,
// so downstream links observe a success. The element scope it starts from is
// the nearest trusted ancestor scope, since the failing link's own scope is
// not trustworthy.
type Recovery func(ctx context.Context, cc *ChainContext, cause error) (interface{}, error)

// ChainContext is the handle passed to every continuation: it exposes the
// session, the element scope the link inherited, and the scope mutation
// callback for downstream links.
type ChainContext struct {
	session *Session
	base    *ElementContext
	scope   *ElementContext
}

// Session returns the session the chain executes against.
func (cc *ChainContext) Session() *Session {
	return cc.session
}

// Scope returns the element scope currently in effect for the link; before
// any SetScope call this is the scope inherited from the parent link.
func (cc *ChainContext) Scope() *ElementContext {
	return cc.scope
}

// SetScope narrows the element scope downstream links will inherit. It may
// be called any number of times before the continuation returns; the last
// call wins. Each call narrows from the inherited scope, not from the
// previous call's result.
func (cc *ChainContext) SetScope(elements []*Element, single bool) {
	cc.scope = cc.base.narrowed(elements, single)
}

// restoreScope rebinds the scope to an already existing context without
// narrowing. Used by End.
func (cc *ChainContext) restoreScope(ec *ElementContext) {
	cc.scope = ec
}

// chainNode is one link of the command dependency DAG. A node holds a read
// only reference to its parent, its initializer and optional recovery step,
// and its latched settlement: value, error and element scope. Nodes never
// reference their children; cancellation reaches descendants through the
// per-node context chain instead.
type chainNode struct {
	session *Session
	parent  *chainNode

	init    Continuation
	errback Recovery

	// ctx is the node's structural context, derived from the parent
	// node's. Cancelling a node therefore cancels its whole subtree, and
	// never its ancestors.
	ctx    context.Context
	cancel context.CancelFunc

	// start latches the first observation; done is closed on settlement.
	start sync.Once
	done  chan struct{}

	value interface{}
	err   error
	scope *ElementContext
}

func newChainNode(s *Session, parent *chainNode, init Continuation, errback Recovery) *chainNode {
	base := context.Background()
	if parent != nil {
		base = parent.ctx
	}
	ctx, cancel := context.WithCancel(base)
	return &chainNode{
		session: s,
		parent:  parent,
		init:    init,
		errback: errback,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
}

// activate starts the node's settlement if it hasn't started yet.
func (n *chainNode) activate() {
	n.start.Do(func() { go n.run() })
}

// run performs the settlement sequence: await the parent, run the
// initializer or the recovery step, flatten a returned command one level,
// and latch the result.
func (n *chainNode) run() {
	defer close(n.done)

	base := documentContext
	var parentValue interface{}
	var parentErr error
	if n.parent != nil {
		n.parent.activate()
		select {
		case <-n.parent.done:
		case <-n.ctx.Done():
			n.err = ErrCancelled
			n.scope = documentContext
			return
		}
		parentValue, parentErr = n.parent.value, n.parent.err
		base = n.parent.scope
	}

	if n.ctx.Err() != nil {
		n.err = ErrCancelled
		n.scope = base
		return
	}

	cc := &ChainContext{session: n.session, base: base, scope: base}

	var v interface{}
	var err error
	switch {
	case parentErr != nil && n.errback == nil:
		// no recovery step; the failure short-circuits this link
		n.err = parentErr
		n.scope = base
		return
	case parentErr != nil:
		v, err = n.errback(n.ctx, cc, parentErr)
	case n.init == nil:
		v = parentValue
	default:
		v, err = n.init(n.ctx, cc, parentValue)
	}
	if err != nil {
		if n.ctx.Err() != nil {
			err = ErrCancelled
		}
		n.err = err
		n.scope = base
		return
	}

	// one level of flattening: a continuation resolving with a command
	// adopts that command's eventual value
	if sub, ok := v.(*Command); ok {
		if dependsOn(sub.node, n) {
			n.err = ErrChainDeadlock
			n.scope = base
			return
		}
		sub.node.activate()
		select {
		case <-sub.node.done:
		case <-n.ctx.Done():
			n.err = ErrCancelled
			n.scope = base
			return
		}
		if sub.node.err != nil {
			n.err = sub.node.err
			n.scope = base
			return
		}
		v = sub.node.value
	}

	n.value = v
	n.scope = cc.scope
}

// dependsOn reports whether node's settlement waits, directly or through
// ancestors, on target.
func dependsOn(node, target *chainNode) bool {
	for cur := node; cur != nil; cur = cur.parent {
		if cur == target {
			return true
		}
	}
	return false
}

// Command is one link of a deferred chain of remote operations against a
// session. Every fluent call returns a new child Command; the receiver is
// never mutated, so multiple independent chains can be forked from any link.
// Execution is deferred until a link is observed with Value, Wait or Scope,
// at which point the link's whole ancestry executes, strictly in order.
type Command struct {
	session *Session
	node    *chainNode
}

// NewCommand creates the root of a chain bound to the session. The root
// settles immediately with a nil value and the whole-document element scope.
func NewCommand(s *Session) *Command {
	return &Command{session: s, node: newChainNode(s, nil, nil, nil)}
}

// next builds the child command wrapping a new chain link.
func (c *Command) next(init Continuation, errback Recovery) *Command {
	return &Command{session: c.session, node: newChainNode(c.session, c.node, init, errback)}
}

// Then chains a continuation to run after the receiver settles
// successfully. A failure of the receiver skips fn and propagates.
func (c *Command) Then(fn Continuation) *Command {
	return c.next(fn, nil)
}

// Catch chains a recovery step to run only if the receiver settles with a
// failure. On success the receiver's value passes through untouched.
func (c *Command) Catch(fn Recovery) *Command {
	return c.next(nil, fn)
}

// End unwinds n element scope narrowing levels, resolving with a nil value.
// Unwinding past the document scope clamps there rather than failing.
// Intervening links that did not narrow the scope do not count as levels.
func (c *Command) End(n int) *Command {
	return c.Then(func(ctx context.Context, cc *ChainContext, _ interface{}) (interface{}, error) {
		cc.restoreScope(cc.Scope().pop(n))
		return nil, nil
	})
}

// Value executes the chain up to and including this link, if it hasn't
// executed yet, and returns the link's resolved value or its first
// unrecovered failure. ctx bounds only the wait, not the chain itself.
func (c *Command) Value(ctx context.Context) (interface{}, error) {
	c.node.activate()
	select {
	case <-c.node.done:
		return c.node.value, c.node.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Wait is Value with the resolved value discarded.
func (c *Command) Wait(ctx context.Context) error {
	_, err := c.Value(ctx)
	return err
}

// Scope executes the chain up to and including this link and returns the
// link's settled element scope.
func (c *Command) Scope(ctx context.Context) (*ElementContext, error) {
	c.node.activate()
	select {
	case <-c.node.done:
		if c.node.err != nil {
			return nil, c.node.err
		}
		return c.node.scope, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Cancel fails this link and every not-yet-settled descendant with
// ErrCancelled. Links that already settled keep their result, and sibling
// branches of the chain are unaffected. An in-flight remote operation is
// abandoned rather than awaited. Cancel is idempotent.
func (c *Command) Cancel() {
	c.node.cancel()
}

// Session returns the session the chain is bound to.
func (c *Command) Session() *Session {
	return c.session
}

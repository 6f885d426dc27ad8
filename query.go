package wiredriver

import (
	"context"
	"fmt"
	"sync"

	"github.com/wiredriver/wiredriver/wire"
)

// Locator strategies understood by Find and FindAll.
const (
	ByClassName       = "class name"
	ByCSSSelector     = "css selector"
	ByID              = "id"
	ByName            = "name"
	ByLinkText        = "link text"
	ByPartialLinkText = "partial link text"
	ByTagName         = "tag name"
	ByXPath           = "xpath"
)

// scopeMode declares what element scope an operation's result becomes.
type scopeMode int

const (
	scopeKeep     scopeMode = iota // result does not touch the scope
	scopeSingle                    // result is one element, becoming a single scope
	scopeMultiple                  // result is an element list, becoming a multiple scope
)

// opDesc is the per-operation descriptor consulted by the dispatch helpers:
// the operation name (used in failure messages), whether the operation
// targets the element scope rather than the session, and the scope its
// result produces.
type opDesc struct {
	name    string
	element bool
	creates scopeMode
}

// sessionOp forwards a session operation: the call goes straight to the
// underlying session regardless of the current element scope. When the
// descriptor declares the operation context-producing, the result becomes
// the new element scope for downstream links.
func (c *Command) sessionOp(d opDesc, fn func(context.Context, *Session) (interface{}, error)) *Command {
	return c.Then(func(ctx context.Context, cc *ChainContext, _ interface{}) (interface{}, error) {
		v, err := fn(ctx, cc.Session())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.name, err)
		}
		switch d.creates {
		case scopeSingle:
			cc.SetScope([]*Element{v.(*Element)}, true)
		case scopeMultiple:
			cc.SetScope(v.([]*Element), false)
		}
		return v, nil
	})
}

// elementOp forwards an element operation against the current element
// scope. An empty scope fails with ErrNoElementContext. A single scope
// resolves with the one element's result as a scalar; a multiple scope runs
// the operation against every element concurrently and resolves with the
// per-element results in scope order. When any per-element call fails, the
// link fails with the first failure in scope order, after all calls have
// finished, so no call is left running unobserved.
func (c *Command) elementOp(d opDesc, fn func(context.Context, *Element) (interface{}, error)) *Command {
	return c.Then(func(ctx context.Context, cc *ChainContext, _ interface{}) (interface{}, error) {
		scope := cc.Scope()
		els := scope.elements
		if len(els) == 0 {
			return nil, fmt.Errorf("%s: %w", d.name, ErrNoElementContext)
		}
		if scope.single {
			v, err := fn(ctx, els[0])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", d.name, err)
			}
			return v, nil
		}

		values := make([]interface{}, len(els))
		errs := make([]error, len(els))
		var wg sync.WaitGroup
		for i, el := range els {
			wg.Add(1)
			go func(i int, el *Element) {
				defer wg.Done()
				values[i], errs[i] = fn(ctx, el)
			}(i, el)
		}
		wg.Wait()

		for _, err := range errs {
			if err != nil {
				return nil, fmt.Errorf("%s: %w", d.name, err)
			}
		}
		return values, nil
	})
}

// Find narrows the chain's element scope to the first element matching the
// locator strategy. A whole-document scope searches the whole document; a
// narrowed scope searches within each element already in scope, in scope
// order, and the first match wins. The resulting scope is always a single
// scope, one depth level down.
func (c *Command) Find(using, value string) *Command {
	return c.find(using, value, true)
}

// FindAll narrows the chain's element scope to all elements matching the
// locator strategy. A narrowed scope searches within each element already in
// scope and flattens the matches in scope order. The resulting scope is
// always a multiple scope, one depth level down, regardless of how many
// elements matched.
func (c *Command) FindAll(using, value string) *Command {
	return c.find(using, value, false)
}

func (c *Command) find(using, value string, single bool) *Command {
	return c.Then(func(ctx context.Context, cc *ChainContext, _ interface{}) (interface{}, error) {
		scope, s := cc.Scope(), cc.Session()

		// whole-document search
		if scope.Empty() {
			if single {
				el, err := s.Find(ctx, using, value)
				if err != nil {
					return nil, err
				}
				cc.SetScope([]*Element{el}, true)
				return el, nil
			}
			els, err := s.FindAll(ctx, using, value)
			if err != nil {
				return nil, err
			}
			cc.SetScope(els, false)
			return els, nil
		}

		// scoped search within each element of the current scope
		found := make([][]*Element, len(scope.elements))
		errs := make([]error, len(scope.elements))
		var wg sync.WaitGroup
		for i, el := range scope.elements {
			wg.Add(1)
			go func(i int, el *Element) {
				defer wg.Done()
				if single {
					sub, err := el.Find(ctx, using, value)
					if err != nil {
						// a miss in one scope element is not fatal as long
						// as another matches
						if wire.StatusOf(err) == wire.StatusNoSuchElement {
							return
						}
						errs[i] = err
						return
					}
					found[i] = []*Element{sub}
					return
				}
				found[i], errs[i] = el.FindAll(ctx, using, value)
			}(i, el)
		}
		wg.Wait()

		for _, err := range errs {
			if err != nil {
				return nil, err
			}
		}

		if single {
			for _, sub := range found {
				if len(sub) > 0 {
					cc.SetScope(sub[:1], true)
					return sub[0], nil
				}
			}
			return nil, &wire.Error{
				Status:  wire.StatusNoSuchElement,
				Kind:    wire.Kind(wire.StatusNoSuchElement),
				Message: fmt.Sprintf("no element matching %q within the current scope", value),
			}
		}

		var flat []*Element
		for _, sub := range found {
			flat = append(flat, sub...)
		}
		cc.SetScope(flat, false)
		return flat, nil
	})
}

// ActiveElement narrows the chain's element scope to the element that
// currently has focus.
func (c *Command) ActiveElement() *Command {
	return c.sessionOp(opDesc{name: "active element", creates: scopeSingle}, func(ctx context.Context, s *Session) (interface{}, error) {
		return s.ActiveElement(ctx)
	})
}

// Click clicks every element in scope.
func (c *Command) Click() *Command {
	return c.elementOp(opDesc{name: "click", element: true}, func(ctx context.Context, e *Element) (interface{}, error) {
		return nil, e.Click(ctx)
	})
}

// Clear clears the value of every input or textarea element in scope.
func (c *Command) Clear() *Command {
	return c.elementOp(opDesc{name: "clear", element: true}, func(ctx context.Context, e *Element) (interface{}, error) {
		return nil, e.Clear(ctx)
	})
}

// Submit submits the form of every element in scope.
func (c *Command) Submit() *Command {
	return c.elementOp(opDesc{name: "submit", element: true}, func(ctx context.Context, e *Element) (interface{}, error) {
		return nil, e.Submit(ctx)
	})
}

// SendKeys types the text into every element in scope.
func (c *Command) SendKeys(text string) *Command {
	return c.elementOp(opDesc{name: "send keys", element: true}, func(ctx context.Context, e *Element) (interface{}, error) {
		return nil, e.SendKeys(ctx, text)
	})
}

// Text resolves with the visible text of the element in scope, or the texts
// of all elements in scope in scope order.
func (c *Command) Text() *Command {
	return c.elementOp(opDesc{name: "text", element: true}, func(ctx context.Context, e *Element) (interface{}, error) {
		return e.Text(ctx)
	})
}

// TagName resolves with the tag name of each element in scope.
func (c *Command) TagName() *Command {
	return c.elementOp(opDesc{name: "tag name", element: true}, func(ctx context.Context, e *Element) (interface{}, error) {
		return e.TagName(ctx)
	})
}

// Attribute resolves with the named attribute value of each element in
// scope; a missing attribute resolves as nil.
func (c *Command) Attribute(name string) *Command {
	return c.elementOp(opDesc{name: "attribute", element: true}, func(ctx context.Context, e *Element) (interface{}, error) {
		v, ok, err := e.Attribute(ctx, name)
		if err != nil || !ok {
			return nil, err
		}
		return v, nil
	})
}

// Property resolves with the named property value of each element in scope;
// a missing property resolves as nil.
func (c *Command) Property(name string) *Command {
	return c.elementOp(opDesc{name: "property", element: true}, func(ctx context.Context, e *Element) (interface{}, error) {
		v, ok, err := e.Property(ctx, name)
		if err != nil || !ok {
			return nil, err
		}
		return v, nil
	})
}

// CSSValue resolves with the computed value of the named CSS property for
// each element in scope.
func (c *Command) CSSValue(name string) *Command {
	return c.elementOp(opDesc{name: "css value", element: true}, func(ctx context.Context, e *Element) (interface{}, error) {
		return e.CSSValue(ctx, name)
	})
}

// Displayed resolves with whether each element in scope is displayed.
func (c *Command) Displayed() *Command {
	return c.elementOp(opDesc{name: "displayed", element: true}, func(ctx context.Context, e *Element) (interface{}, error) {
		return e.Displayed(ctx)
	})
}

// Enabled resolves with whether each element in scope is enabled.
func (c *Command) Enabled() *Command {
	return c.elementOp(opDesc{name: "enabled", element: true}, func(ctx context.Context, e *Element) (interface{}, error) {
		return e.Enabled(ctx)
	})
}

// Selected resolves with whether each element in scope is selected.
func (c *Command) Selected() *Command {
	return c.elementOp(opDesc{name: "selected", element: true}, func(ctx context.Context, e *Element) (interface{}, error) {
		return e.Selected(ctx)
	})
}

// Location resolves with the page position of each element in scope.
func (c *Command) Location() *Command {
	return c.elementOp(opDesc{name: "location", element: true}, func(ctx context.Context, e *Element) (interface{}, error) {
		return e.Location(ctx)
	})
}

// Size resolves with the rendered size of each element in scope.
func (c *Command) Size() *Command {
	return c.elementOp(opDesc{name: "size", element: true}, func(ctx context.Context, e *Element) (interface{}, error) {
		return e.Size(ctx)
	})
}

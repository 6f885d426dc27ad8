package wiredriver

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"github.com/mailru/easyjson"
)

// w3cElementKey is the element reference key used by W3C flavored remote
// ends; legacy remote ends use "ELEMENT". Both are accepted on decode and
// both are emitted on encode.
const w3cElementKey = "element-6066-11e4-a52e-4f735466cecf"

// Element is a handle to a remote DOM node, scoped to its owning session.
// Two Element values may denote the same remote node; equality is a remote
// verified operation (see Equals), not an identity comparison.
type Element struct {
	session *Session
	id      string
}

// ID returns the opaque remote element ID.
func (e *Element) ID() string {
	return e.id
}

// MarshalJSON serializes the element as a remote element reference, so
// handles can be passed as script arguments.
func (e *Element) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{
		"ELEMENT":     e.id,
		w3cElementKey: e.id,
	})
}

// elementFromRef decodes a single element reference value.
func (s *Session) elementFromRef(buf easyjson.RawMessage) (*Element, error) {
	var ref map[string]string
	if err := json.Unmarshal(buf, &ref); err != nil {
		return nil, err
	}
	if id, ok := ref["ELEMENT"]; ok && id != "" {
		return &Element{session: s, id: id}, nil
	}
	if id, ok := ref[w3cElementKey]; ok && id != "" {
		return &Element{session: s, id: id}, nil
	}
	return nil, ErrInvalidElementReference
}

// elementsFromRefs decodes a list of element reference values, preserving
// the remote end's order.
func (s *Session) elementsFromRefs(buf easyjson.RawMessage) ([]*Element, error) {
	var refs []json.RawMessage
	if err := json.Unmarshal(buf, &refs); err != nil {
		return nil, err
	}
	els := make([]*Element, len(refs))
	for i, ref := range refs {
		el, err := s.elementFromRef(easyjson.RawMessage(ref))
		if err != nil {
			return nil, err
		}
		els[i] = el
	}
	return els, nil
}

// path builds an element-scoped command path.
func (e *Element) path(suffix string) string {
	return "element/" + e.id + "/" + suffix
}

// getString executes a GET command whose value is a plain string.
func (e *Element) getString(ctx context.Context, suffix string) (string, error) {
	buf, err := e.session.get(ctx, e.path(suffix))
	if err != nil {
		return "", err
	}
	var v string
	if err := json.Unmarshal(buf, &v); err != nil {
		return "", err
	}
	return v, nil
}

// getBool executes a GET command whose value is a plain bool.
func (e *Element) getBool(ctx context.Context, suffix string) (bool, error) {
	buf, err := e.session.get(ctx, e.path(suffix))
	if err != nil {
		return false, err
	}
	var v bool
	if err := json.Unmarshal(buf, &v); err != nil {
		return false, err
	}
	return v, nil
}

// Click clicks the element.
func (e *Element) Click(ctx context.Context) error {
	_, err := e.session.post(ctx, e.path("click"), nil)
	return err
}

// Clear clears the value of an input or textarea element.
func (e *Element) Clear(ctx context.Context) error {
	_, err := e.session.post(ctx, e.path("clear"), nil)
	return err
}

// Submit submits the form the element belongs to.
func (e *Element) Submit(ctx context.Context) error {
	_, err := e.session.post(ctx, e.path("submit"), nil)
	return err
}

// SendKeys types the text into the element.
func (e *Element) SendKeys(ctx context.Context, text string) error {
	_, err := e.session.post(ctx, e.path("value"), map[string]interface{}{
		"value": []string{text},
	})
	return err
}

// Text returns the visible text of the element.
func (e *Element) Text(ctx context.Context) (string, error) {
	return e.getString(ctx, "text")
}

// TagName returns the element's tag name.
func (e *Element) TagName(ctx context.Context) (string, error) {
	return e.getString(ctx, "name")
}

// Attribute returns the named attribute value and whether the attribute is
// present on the element.
func (e *Element) Attribute(ctx context.Context, name string) (string, bool, error) {
	buf, err := e.session.get(ctx, e.path("attribute/"+name))
	if err != nil {
		return "", false, err
	}
	var v *string
	if err := json.Unmarshal(buf, &v); err != nil {
		return "", false, err
	}
	if v == nil {
		return "", false, nil
	}
	return *v, true, nil
}

// Property returns the named property value and whether the property is set
// on the element.
func (e *Element) Property(ctx context.Context, name string) (string, bool, error) {
	buf, err := e.session.get(ctx, e.path("property/"+name))
	if err != nil {
		return "", false, err
	}
	var v *string
	if err := json.Unmarshal(buf, &v); err != nil {
		return "", false, err
	}
	if v == nil {
		return "", false, nil
	}
	return *v, true, nil
}

// CSSValue returns the computed value of the named CSS property.
func (e *Element) CSSValue(ctx context.Context, name string) (string, error) {
	return e.getString(ctx, "css/"+name)
}

// Displayed reports whether the element is currently displayed.
func (e *Element) Displayed(ctx context.Context) (bool, error) {
	return e.getBool(ctx, "displayed")
}

// Enabled reports whether the element is currently enabled.
func (e *Element) Enabled(ctx context.Context) (bool, error) {
	return e.getBool(ctx, "enabled")
}

// Selected reports whether the element (option, checkbox or radio button) is
// currently selected.
func (e *Element) Selected(ctx context.Context) (bool, error) {
	return e.getBool(ctx, "selected")
}

// Point is an element position in the page, in CSS pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is an element size in CSS pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Location returns the element's position in the page.
func (e *Element) Location(ctx context.Context) (Point, error) {
	buf, err := e.session.get(ctx, e.path("location"))
	if err != nil {
		return Point{}, err
	}
	var p Point
	if err := json.Unmarshal(buf, &p); err != nil {
		return Point{}, err
	}
	return p, nil
}

// Size returns the element's rendered size.
func (e *Element) Size(ctx context.Context) (Size, error) {
	buf, err := e.session.get(ctx, e.path("size"))
	if err != nil {
		return Size{}, err
	}
	var sz Size
	if err := json.Unmarshal(buf, &sz); err != nil {
		return Size{}, err
	}
	return sz, nil
}

// Find locates the first descendant of the element matching the locator
// strategy.
func (e *Element) Find(ctx context.Context, using, value string) (*Element, error) {
	buf, err := e.session.post(ctx, e.path("element"), map[string]interface{}{
		"using": using,
		"value": value,
	})
	if err != nil {
		return nil, err
	}
	return e.session.elementFromRef(buf)
}

// FindAll locates all descendants of the element matching the locator
// strategy.
func (e *Element) FindAll(ctx context.Context, using, value string) ([]*Element, error) {
	buf, err := e.session.post(ctx, e.path("elements"), map[string]interface{}{
		"using": using,
		"value": value,
	})
	if err != nil {
		return nil, err
	}
	return e.session.elementsFromRefs(buf)
}

// Equals reports whether the element and other denote the same remote DOM
// node.
func (e *Element) Equals(ctx context.Context, other *Element) (bool, error) {
	return e.getBool(ctx, "equals/"+other.id)
}

// Screenshot takes a screenshot of the element, returning the decoded PNG
// data.
func (e *Element) Screenshot(ctx context.Context) ([]byte, error) {
	b64, err := e.getString(ctx, "screenshot")
	if err != nil {
		return nil, err
	}
	return base64.StdEncoding.DecodeString(b64)
}

package wiredriver

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"sync"
	"time"

	"github.com/mailru/easyjson"
)

// Timeout types understood by SetTimeout.
const (
	// TimeoutScript bounds asynchronous script execution; it is also the
	// default overall timeout of PollUntil.
	TimeoutScript = "script"

	// TimeoutImplicit bounds how long the remote end keeps retrying element
	// location.
	TimeoutImplicit = "implicit"

	// TimeoutPageLoad bounds page navigation.
	TimeoutPageLoad = "page load"
)

// Session is a live remote control session. It is identified by an opaque
// session ID bound to a Server and carries the negotiated capability set.
// All methods are safe for concurrent use; note however that the remote end
// processes one command at a time per session.
type Session struct {
	srv  *Server
	id   string
	caps Capabilities

	mu sync.Mutex
	// scriptTimeout mirrors the remote asynchronous script timeout, so
	// polling commands can default to it without a round trip.
	scriptTimeout time.Duration
}

// ID returns the opaque remote session ID.
func (s *Session) ID() string {
	return s.id
}

// Capabilities returns a copy of the capability set the remote end granted
// when the session was created.
func (s *Session) Capabilities() Capabilities {
	return s.caps.clone()
}

// path builds a session-scoped command path.
func (s *Session) path(suffix string) string {
	p := "session/" + s.id
	if suffix != "" {
		p += "/" + suffix
	}
	return p
}

func (s *Session) get(ctx context.Context, suffix string) (easyjson.RawMessage, error) {
	s.srv.dbgf("-> GET %s", s.path(suffix))
	return s.srv.cli.Get(ctx, s.path(suffix))
}

func (s *Session) post(ctx context.Context, suffix string, params interface{}) (easyjson.RawMessage, error) {
	s.srv.dbgf("-> POST %s", s.path(suffix))
	return s.srv.cli.Post(ctx, s.path(suffix), params)
}

func (s *Session) del(ctx context.Context, suffix string) error {
	s.srv.dbgf("-> DELETE %s", s.path(suffix))
	_, err := s.srv.cli.Delete(ctx, s.path(suffix))
	return err
}

// getString executes a GET command whose value is a plain string.
func (s *Session) getString(ctx context.Context, suffix string) (string, error) {
	buf, err := s.get(ctx, suffix)
	if err != nil {
		return "", err
	}
	var v string
	if err := json.Unmarshal(buf, &v); err != nil {
		return "", err
	}
	return v, nil
}

// Delete ends the session, releasing the remote browser.
func (s *Session) Delete(ctx context.Context) error {
	s.srv.dbgf("-> DELETE %s", s.path(""))
	_, err := s.srv.cli.Delete(ctx, s.path(""))
	return err
}

// Get navigates to the specified URL.
func (s *Session) Get(ctx context.Context, urlstr string) error {
	_, err := s.post(ctx, "url", map[string]interface{}{"url": urlstr})
	return err
}

// URL returns the URL of the current page.
func (s *Session) URL(ctx context.Context) (string, error) {
	return s.getString(ctx, "url")
}

// Title returns the title of the current page.
func (s *Session) Title(ctx context.Context) (string, error) {
	return s.getString(ctx, "title")
}

// Source returns the serialized source of the current page.
func (s *Session) Source(ctx context.Context) (string, error) {
	return s.getString(ctx, "source")
}

// Refresh reloads the current page.
func (s *Session) Refresh(ctx context.Context) error {
	_, err := s.post(ctx, "refresh", nil)
	return err
}

// Back navigates one step backward in the browser history.
func (s *Session) Back(ctx context.Context) error {
	_, err := s.post(ctx, "back", nil)
	return err
}

// Forward navigates one step forward in the browser history.
func (s *Session) Forward(ctx context.Context) error {
	_, err := s.post(ctx, "forward", nil)
	return err
}

// WindowHandle returns the handle of the currently focused window.
func (s *Session) WindowHandle(ctx context.Context) (string, error) {
	return s.getString(ctx, "window_handle")
}

// WindowHandles returns the handles of all open windows.
func (s *Session) WindowHandles(ctx context.Context) ([]string, error) {
	buf, err := s.get(ctx, "window_handles")
	if err != nil {
		return nil, err
	}
	var v []string
	if err := json.Unmarshal(buf, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// SwitchToWindow changes focus to the named window.
func (s *Session) SwitchToWindow(ctx context.Context, name string) error {
	_, err := s.post(ctx, "window", map[string]interface{}{"name": name})
	return err
}

// CloseWindow closes the currently focused window.
func (s *Session) CloseWindow(ctx context.Context) error {
	return s.del(ctx, "window")
}

// Cookie is a browser cookie visible to the current page.
type Cookie struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Path     string `json:"path,omitempty"`
	Domain   string `json:"domain,omitempty"`
	Secure   bool   `json:"secure,omitempty"`
	HTTPOnly bool   `json:"httpOnly,omitempty"`
	Expiry   int64  `json:"expiry,omitempty"`
}

// Cookies returns all cookies visible to the current page.
func (s *Session) Cookies(ctx context.Context) ([]*Cookie, error) {
	buf, err := s.get(ctx, "cookie")
	if err != nil {
		return nil, err
	}
	var v []*Cookie
	if err := json.Unmarshal(buf, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// SetCookie sets a cookie for the current page's domain.
func (s *Session) SetCookie(ctx context.Context, c *Cookie) error {
	_, err := s.post(ctx, "cookie", map[string]interface{}{"cookie": c})
	return err
}

// DeleteCookie deletes the named cookie.
func (s *Session) DeleteCookie(ctx context.Context, name string) error {
	return s.del(ctx, "cookie/"+name)
}

// DeleteCookies deletes all cookies visible to the current page.
func (s *Session) DeleteCookies(ctx context.Context) error {
	return s.del(ctx, "cookie")
}

// AlertText returns the text of the currently open alert.
func (s *Session) AlertText(ctx context.Context) (string, error) {
	return s.getString(ctx, "alert_text")
}

// AcceptAlert accepts the currently open alert.
func (s *Session) AcceptAlert(ctx context.Context) error {
	_, err := s.post(ctx, "accept_alert", nil)
	return err
}

// DismissAlert dismisses the currently open alert.
func (s *Session) DismissAlert(ctx context.Context) error {
	_, err := s.post(ctx, "dismiss_alert", nil)
	return err
}

// SetTimeout configures one of the session's remote timeouts (TimeoutScript,
// TimeoutImplicit or TimeoutPageLoad).
func (s *Session) SetTimeout(ctx context.Context, typ string, d time.Duration) error {
	_, err := s.post(ctx, "timeouts", map[string]interface{}{
		"type": typ,
		"ms":   d.Milliseconds(),
	})
	if err != nil {
		return err
	}
	if typ == TimeoutScript {
		s.mu.Lock()
		s.scriptTimeout = d
		s.mu.Unlock()
	}
	return nil
}

// currentScriptTimeout returns the locally mirrored asynchronous script
// timeout, zero when it was never set.
func (s *Session) currentScriptTimeout() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scriptTimeout
}

// Find locates the first element matching the locator strategy, searching
// the whole document.
func (s *Session) Find(ctx context.Context, using, value string) (*Element, error) {
	buf, err := s.post(ctx, "element", map[string]interface{}{
		"using": using,
		"value": value,
	})
	if err != nil {
		return nil, err
	}
	return s.elementFromRef(buf)
}

// FindAll locates all elements matching the locator strategy, searching the
// whole document.
func (s *Session) FindAll(ctx context.Context, using, value string) ([]*Element, error) {
	buf, err := s.post(ctx, "elements", map[string]interface{}{
		"using": using,
		"value": value,
	})
	if err != nil {
		return nil, err
	}
	return s.elementsFromRefs(buf)
}

// ActiveElement returns the element that currently has focus.
func (s *Session) ActiveElement(ctx context.Context) (*Element, error) {
	buf, err := s.post(ctx, "element/active", nil)
	if err != nil {
		return nil, err
	}
	return s.elementFromRef(buf)
}

// Execute runs the script synchronously in the page, unmarshaling the
// script's return value into res. Arguments may include *Element handles;
// they are serialized as remote element references. When res is nil the
// return value is discarded.
func (s *Session) Execute(ctx context.Context, script string, args []interface{}, res interface{}) error {
	buf, err := s.executeRaw(ctx, "execute", script, args)
	if err != nil {
		return err
	}
	if res == nil {
		return nil
	}
	return json.Unmarshal(buf, res)
}

// ExecuteAsync runs the script asynchronously in the page; the script
// signals completion by invoking the callback the remote end appends to its
// arguments. The completion value is unmarshaled into res.
func (s *Session) ExecuteAsync(ctx context.Context, script string, args []interface{}, res interface{}) error {
	buf, err := s.executeRaw(ctx, "execute_async", script, args)
	if err != nil {
		return err
	}
	if res == nil {
		return nil
	}
	return json.Unmarshal(buf, res)
}

func (s *Session) executeRaw(ctx context.Context, cmd, script string, args []interface{}) (easyjson.RawMessage, error) {
	if args == nil {
		args = []interface{}{}
	}
	return s.post(ctx, cmd, map[string]interface{}{
		"script": script,
		"args":   args,
	})
}

// Screenshot takes a screenshot of the current page, returning the decoded
// PNG data.
func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	b64, err := s.getString(ctx, "screenshot")
	if err != nil {
		return nil, err
	}
	return base64.StdEncoding.DecodeString(b64)
}

// PrintPDF renders the current page to a PDF document, returning the
// decoded data.
func (s *Session) PrintPDF(ctx context.Context) ([]byte, error) {
	buf, err := s.post(ctx, "print", nil)
	if err != nil {
		return nil, err
	}
	var b64 string
	if err := json.Unmarshal(buf, &b64); err != nil {
		return nil, err
	}
	return base64.StdEncoding.DecodeString(b64)
}

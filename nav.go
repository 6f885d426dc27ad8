package wiredriver

import (
	"context"
	"time"
)

// Get chains a navigation to the specified URL.
func (c *Command) Get(urlstr string) *Command {
	return c.sessionOp(opDesc{name: "get"}, func(ctx context.Context, s *Session) (interface{}, error) {
		return nil, s.Get(ctx, urlstr)
	})
}

// URL resolves with the URL of the current page.
func (c *Command) URL() *Command {
	return c.sessionOp(opDesc{name: "url"}, func(ctx context.Context, s *Session) (interface{}, error) {
		return s.URL(ctx)
	})
}

// Title resolves with the title of the current page.
func (c *Command) Title() *Command {
	return c.sessionOp(opDesc{name: "title"}, func(ctx context.Context, s *Session) (interface{}, error) {
		return s.Title(ctx)
	})
}

// Source resolves with the serialized source of the current page.
func (c *Command) Source() *Command {
	return c.sessionOp(opDesc{name: "source"}, func(ctx context.Context, s *Session) (interface{}, error) {
		return s.Source(ctx)
	})
}

// Refresh chains a reload of the current page.
func (c *Command) Refresh() *Command {
	return c.sessionOp(opDesc{name: "refresh"}, func(ctx context.Context, s *Session) (interface{}, error) {
		return nil, s.Refresh(ctx)
	})
}

// Back chains a backward navigation in the browser history.
func (c *Command) Back() *Command {
	return c.sessionOp(opDesc{name: "back"}, func(ctx context.Context, s *Session) (interface{}, error) {
		return nil, s.Back(ctx)
	})
}

// Forward chains a forward navigation in the browser history.
func (c *Command) Forward() *Command {
	return c.sessionOp(opDesc{name: "forward"}, func(ctx context.Context, s *Session) (interface{}, error) {
		return nil, s.Forward(ctx)
	})
}

// WindowHandle resolves with the handle of the currently focused window.
func (c *Command) WindowHandle() *Command {
	return c.sessionOp(opDesc{name: "window handle"}, func(ctx context.Context, s *Session) (interface{}, error) {
		return s.WindowHandle(ctx)
	})
}

// WindowHandles resolves with the handles of all open windows.
func (c *Command) WindowHandles() *Command {
	return c.sessionOp(opDesc{name: "window handles"}, func(ctx context.Context, s *Session) (interface{}, error) {
		return s.WindowHandles(ctx)
	})
}

// SwitchToWindow chains a focus change to the named window.
func (c *Command) SwitchToWindow(name string) *Command {
	return c.sessionOp(opDesc{name: "switch to window"}, func(ctx context.Context, s *Session) (interface{}, error) {
		return nil, s.SwitchToWindow(ctx, name)
	})
}

// CloseWindow chains closing the currently focused window.
func (c *Command) CloseWindow() *Command {
	return c.sessionOp(opDesc{name: "close window"}, func(ctx context.Context, s *Session) (interface{}, error) {
		return nil, s.CloseWindow(ctx)
	})
}

// Cookies resolves with all cookies visible to the current page.
func (c *Command) Cookies() *Command {
	return c.sessionOp(opDesc{name: "cookies"}, func(ctx context.Context, s *Session) (interface{}, error) {
		return s.Cookies(ctx)
	})
}

// SetCookie chains setting a cookie for the current page's domain.
func (c *Command) SetCookie(cookie *Cookie) *Command {
	return c.sessionOp(opDesc{name: "set cookie"}, func(ctx context.Context, s *Session) (interface{}, error) {
		return nil, s.SetCookie(ctx, cookie)
	})
}

// DeleteCookie chains deleting the named cookie.
func (c *Command) DeleteCookie(name string) *Command {
	return c.sessionOp(opDesc{name: "delete cookie"}, func(ctx context.Context, s *Session) (interface{}, error) {
		return nil, s.DeleteCookie(ctx, name)
	})
}

// AlertText resolves with the text of the currently open alert.
func (c *Command) AlertText() *Command {
	return c.sessionOp(opDesc{name: "alert text"}, func(ctx context.Context, s *Session) (interface{}, error) {
		return s.AlertText(ctx)
	})
}

// AcceptAlert chains accepting the currently open alert.
func (c *Command) AcceptAlert() *Command {
	return c.sessionOp(opDesc{name: "accept alert"}, func(ctx context.Context, s *Session) (interface{}, error) {
		return nil, s.AcceptAlert(ctx)
	})
}

// DismissAlert chains dismissing the currently open alert.
func (c *Command) DismissAlert() *Command {
	return c.sessionOp(opDesc{name: "dismiss alert"}, func(ctx context.Context, s *Session) (interface{}, error) {
		return nil, s.DismissAlert(ctx)
	})
}

// SetTimeout chains configuring one of the session's remote timeouts.
func (c *Command) SetTimeout(typ string, d time.Duration) *Command {
	return c.sessionOp(opDesc{name: "set timeout"}, func(ctx context.Context, s *Session) (interface{}, error) {
		return nil, s.SetTimeout(ctx, typ, d)
	})
}

package wiredriver

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/wiredriver/wiredriver/wire"
)

// Server is a handle to a remote WebDriver endpoint (a driver process or a
// grid hub). It owns the protocol client and the logging funcs shared by the
// sessions created through it.
type Server struct {
	cli *wire.Client

	// logging funcs
	logf, errf, dbgf func(string, ...interface{})
}

// New creates a new Server for the WebDriver endpoint at urlstr.
func New(urlstr string, opts ...ServerOption) *Server {
	srv := &Server{
		cli:  wire.New(urlstr),
		logf: log.Printf,
		dbgf: func(string, ...interface{}) {},
	}

	// apply options
	for _, o := range opts {
		o(srv)
	}

	// ensure errf is set
	if srv.errf == nil {
		srv.errf = func(s string, v ...interface{}) { srv.logf("ERROR: "+s, v...) }
	}
	return srv
}

// Status returns the remote endpoint's status information.
func (srv *Server) Status(ctx context.Context) (map[string]interface{}, error) {
	buf, err := srv.cli.Get(ctx, "status")
	if err != nil {
		return nil, err
	}
	v := make(map[string]interface{})
	if err := json.Unmarshal(buf, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// NewSession negotiates a new session with the desired and required
// capabilities, returning a handle carrying the capabilities the remote end
// actually granted.
func (srv *Server) NewSession(ctx context.Context, desired, required Capabilities) (*Session, error) {
	if desired == nil {
		desired = Capabilities{}
	}
	params := map[string]interface{}{
		"desiredCapabilities": desired,
	}
	if required != nil {
		params["requiredCapabilities"] = required
	}

	res, err := srv.cli.Do(ctx, http.MethodPost, "session", params)
	if err != nil {
		return nil, err
	}

	s := &Session{srv: srv, id: res.SessionID}
	caps := Capabilities{}
	if res.SessionID != "" {
		// legacy shape: session ID in the envelope, capabilities as the value
		if err := json.Unmarshal(res.Value, &caps); err != nil {
			return nil, err
		}
	} else {
		// W3C shape: both nested under the value
		var v struct {
			SessionID    string       `json:"sessionId"`
			Capabilities Capabilities `json:"capabilities"`
		}
		if err := json.Unmarshal(res.Value, &v); err != nil {
			return nil, err
		}
		s.id = v.SessionID
		caps = v.Capabilities
	}
	s.caps = caps

	srv.dbgf("created session %s", s.id)
	return s, nil
}

// Sessions lists the sessions currently active on the remote endpoint.
func (srv *Server) Sessions(ctx context.Context) ([]*Session, error) {
	buf, err := srv.cli.Get(ctx, "sessions")
	if err != nil {
		return nil, err
	}
	var list []struct {
		ID           string       `json:"id"`
		Capabilities Capabilities `json:"capabilities"`
	}
	if err := json.Unmarshal(buf, &list); err != nil {
		return nil, err
	}
	sessions := make([]*Session, len(list))
	for i, v := range list {
		sessions[i] = &Session{srv: srv, id: v.ID, caps: v.Capabilities}
	}
	return sessions, nil
}

// ServerOption is a server option.
type ServerOption = func(*Server)

// WithClientOption is a server option to pass options through to the
// underlying protocol client.
func WithClientOption(opts ...wire.Option) ServerOption {
	return func(srv *Server) {
		srv.cli = wire.New(srv.cli.URL(), opts...)
	}
}

// WithLogf is a server option to set the logging func used by the server
// and its sessions.
func WithLogf(f func(string, ...interface{})) ServerOption {
	return func(srv *Server) { srv.logf = f }
}

// WithErrorf is a server option to set the error logging func.
func WithErrorf(f func(string, ...interface{})) ServerOption {
	return func(srv *Server) { srv.errf = f }
}

// WithDebugf is a server option to set the debug logging func used to trace
// every remote command.
func WithDebugf(f func(string, ...interface{})) ServerOption {
	return func(srv *Server) { srv.dbgf = f }
}

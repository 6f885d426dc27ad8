package wiredriver

import (
	"context"

	"github.com/gorilla/websocket"
	"github.com/mailru/easyjson"
)

// Event is a message received on a session's event stream.
type Event struct {
	Method string              `json:"method"`
	Params easyjson.RawMessage `json:"params"`
}

// Listen connects to the session's event stream endpoint (advertised by the
// remote end through the webSocketUrl capability) and calls fn for every
// event received, until ctx is done. It returns ErrNoEventStream when the
// capability is absent.
//
// fn is called from the stream's read goroutine; it should avoid blocking.
func (s *Session) Listen(ctx context.Context, fn func(*Event)) error {
	urlstr, ok := s.caps.String("webSocketUrl")
	if !ok || urlstr == "" {
		return ErrNoEventStream
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, urlstr, nil)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		conn.Close()
	}()
	go func() {
		defer conn.Close()
		for {
			ev := new(Event)
			if err := conn.ReadJSON(ev); err != nil {
				if ctx.Err() == nil {
					s.srv.errf("event stream read: %v", err)
				}
				return
			}
			fn(ev)
		}
	}()
	return nil
}

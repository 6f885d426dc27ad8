package wiredriver

import (
	"context"
	"encoding/json"
)

// Execute chains a synchronous script execution in the page, resolving with
// the script's JSON-decoded return value. Arguments may include *Element
// handles, which are serialized as remote element references.
func (c *Command) Execute(script string, args ...interface{}) *Command {
	return c.sessionOp(opDesc{name: "execute"}, func(ctx context.Context, s *Session) (interface{}, error) {
		buf, err := s.executeRaw(ctx, "execute", script, args)
		if err != nil {
			return nil, err
		}
		return decodeScriptValue(buf)
	})
}

// ExecuteAsync chains an asynchronous script execution in the page,
// resolving with the value the script passes to its completion callback.
func (c *Command) ExecuteAsync(script string, args ...interface{}) *Command {
	return c.sessionOp(opDesc{name: "execute async"}, func(ctx context.Context, s *Session) (interface{}, error) {
		buf, err := s.executeRaw(ctx, "execute_async", script, args)
		if err != nil {
			return nil, err
		}
		return decodeScriptValue(buf)
	})
}

// decodeScriptValue decodes a script return value into a generic Go value;
// a null or absent value decodes as nil.
func decodeScriptValue(buf []byte) (interface{}, error) {
	if len(buf) == 0 || string(buf) == "null" {
		return nil, nil
	}
	var v interface{}
	if err := json.Unmarshal(buf, &v); err != nil {
		return nil, err
	}
	return v, nil
}

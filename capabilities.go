package wiredriver

import (
	"golang.org/x/exp/maps"
)

// Capabilities is the feature and bug flag set negotiated with the remote
// end. The Command layer never corrects for remote defects itself; it only
// reads flags such as the event stream endpoint.
type Capabilities map[string]interface{}

// Bool returns the named flag as a bool, false when absent or of another
// type.
func (c Capabilities) Bool(name string) bool {
	v, _ := c[name].(bool)
	return v
}

// String returns the named flag as a string and whether it was present.
func (c Capabilities) String(name string) (string, bool) {
	v, ok := c[name].(string)
	return v, ok
}

// clone returns a shallow copy, so callers can't mutate a session's
// negotiated set.
func (c Capabilities) clone() Capabilities {
	if c == nil {
		return nil
	}
	return maps.Clone(c)
}

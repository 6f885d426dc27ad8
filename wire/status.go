package wire

import (
	"errors"
	"fmt"

	"github.com/mailru/easyjson"
)

// Status codes defined by the JSON Wire Protocol.
const (
	StatusSuccess                   = 0
	StatusNoSuchDriver              = 6
	StatusNoSuchElement             = 7
	StatusNoSuchFrame               = 8
	StatusUnknownCommand            = 9
	StatusStaleElementReference     = 10
	StatusElementNotVisible         = 11
	StatusInvalidElementState       = 12
	StatusUnknownError              = 13
	StatusElementIsNotSelectable    = 15
	StatusJavaScriptError           = 17
	StatusXPathLookupError          = 19
	StatusTimeout                   = 21
	StatusNoSuchWindow              = 23
	StatusInvalidCookieDomain       = 24
	StatusUnableToSetCookie         = 25
	StatusUnexpectedAlertOpen       = 26
	StatusNoAlertOpen               = 27
	StatusScriptTimeout             = 28
	StatusInvalidElementCoordinates = 29
	StatusIMENotAvailable           = 30
	StatusIMEEngineActivationFailed = 31
	StatusInvalidSelector           = 32
	StatusSessionNotCreated         = 33
	StatusMoveTargetOutOfBounds     = 34
)

// statusKinds maps protocol status codes to their machine readable kinds.
var statusKinds = map[int]string{
	StatusNoSuchDriver:              "no such driver",
	StatusNoSuchElement:             "no such element",
	StatusNoSuchFrame:               "no such frame",
	StatusUnknownCommand:            "unknown command",
	StatusStaleElementReference:     "stale element reference",
	StatusElementNotVisible:         "element not visible",
	StatusInvalidElementState:       "invalid element state",
	StatusUnknownError:              "unknown error",
	StatusElementIsNotSelectable:    "element is not selectable",
	StatusJavaScriptError:           "javascript error",
	StatusXPathLookupError:          "xpath lookup error",
	StatusTimeout:                   "timeout",
	StatusNoSuchWindow:              "no such window",
	StatusInvalidCookieDomain:       "invalid cookie domain",
	StatusUnableToSetCookie:         "unable to set cookie",
	StatusUnexpectedAlertOpen:       "unexpected alert open",
	StatusNoAlertOpen:               "no alert open",
	StatusScriptTimeout:             "script timeout",
	StatusInvalidElementCoordinates: "invalid element coordinates",
	StatusIMENotAvailable:           "ime not available",
	StatusIMEEngineActivationFailed: "ime engine activation failed",
	StatusInvalidSelector:           "invalid selector",
	StatusSessionNotCreated:         "session not created",
	StatusMoveTargetOutOfBounds:     "move target out of bounds",
}

// Kind returns the machine readable kind for a protocol status code.
func Kind(status int) string {
	if k, ok := statusKinds[status]; ok {
		return k
	}
	return "unknown error"
}

// Error is a remote command failure reported by the remote end. It carries
// the machine readable kind, the human readable message, and the raw
// protocol detail along with the request that failed.
type Error struct {
	Status  int
	Kind    string
	Message string
	Method  string
	Path    string
	Detail  easyjson.RawMessage
}

// Error satisfies the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s (%d): %s [%s /%s]", e.Kind, e.Status, e.Message, e.Method, e.Path)
}

// Timeout reports whether the error is a timeout-kind protocol failure.
func (e *Error) Timeout() bool {
	return e.Status == StatusTimeout || e.Status == StatusScriptTimeout
}

// StatusOf returns the protocol status code carried by err, or -1 when err
// is not a protocol error.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return -1
}

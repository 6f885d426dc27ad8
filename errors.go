package wiredriver

import (
	"errors"
)

// Error types.
var (
	// ErrNoElementContext is the error returned when an element operation is
	// invoked on a chain whose element scope is empty.
	ErrNoElementContext = errors.New("no element context")

	// ErrCancelled is the error a cancelled command and its dependents fail
	// with.
	ErrCancelled = errors.New("cancelled")

	// ErrPollTimeout is the error returned when a poll command's overall
	// timeout elapses before the poller produces a result.
	ErrPollTimeout = errors.New("poll timeout")

	// ErrChainDeadlock is the error returned when a continuation resolves
	// with a command whose settlement depends on the resolving link itself.
	ErrChainDeadlock = errors.New("chain deadlock")

	// ErrNoEventStream is the error returned by Listen when the remote end
	// did not advertise an event stream endpoint.
	ErrNoEventStream = errors.New("no event stream")

	// ErrInvalidElementReference is the error returned when a remote value
	// cannot be decoded as an element reference.
	ErrInvalidElementReference = errors.New("invalid element reference")
)

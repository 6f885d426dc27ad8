package wiredriver

import (
	"context"
	"time"
)

const (
	// DefaultPollInterval is the delay between poller invocations.
	DefaultPollInterval = 67 * time.Millisecond

	// DefaultPollTimeout is the overall poll timeout used when neither
	// WithPollTimeout nor the session's asynchronous script timeout is set.
	DefaultPollTimeout = 30 * time.Second
)

// pollTask holds information pertaining to a poll command.
//
// See PollUntil for details on building poll commands.
type pollTask struct {
	interval time.Duration
	timeout  time.Duration
	args     []interface{}
}

// PollUntil chains a bounded polling loop: the script is executed remotely
// with the fixed argument list at every interval until it returns a value
// other than null.
//
// The chain resolves with the poller's first non-null value. A remote script
// error fails the chain immediately with that error, with no further
// retries. When the overall timeout elapses first, the chain fails with
// ErrPollTimeout. The timeout defaults to the session's asynchronous script
// timeout, falling back to DefaultPollTimeout when that was never set.
func (c *Command) PollUntil(script string, opts ...PollOption) *Command {
	p := &pollTask{
		interval: DefaultPollInterval,
	}

	// apply options
	for _, o := range opts {
		o(p)
	}

	return c.Then(func(ctx context.Context, cc *ChainContext, _ interface{}) (interface{}, error) {
		s := cc.Session()

		timeout := p.timeout
		if timeout == 0 {
			timeout = s.currentScriptTimeout()
		}
		if timeout == 0 {
			timeout = DefaultPollTimeout
		}

		deadline := time.NewTimer(timeout)
		defer deadline.Stop()

		for {
			buf, err := s.executeRaw(ctx, "execute", script, p.args)
			if err != nil {
				return nil, err
			}
			if v, err := decodeScriptValue(buf); err != nil {
				return nil, err
			} else if v != nil {
				return v, nil
			}

			interval := time.NewTimer(p.interval)
			select {
			case <-ctx.Done():
				interval.Stop()
				return nil, ctx.Err()
			case <-deadline.C:
				interval.Stop()
				return nil, ErrPollTimeout
			case <-interval.C:
			}
		}
	})
}

// PollOption is a poll command option.
type PollOption = func(*pollTask)

// WithPollInterval sets the delay between poller invocations.
func WithPollInterval(d time.Duration) PollOption {
	return func(p *pollTask) { p.interval = d }
}

// WithPollTimeout sets the overall poll timeout, overriding the session's
// asynchronous script timeout.
func WithPollTimeout(d time.Duration) PollOption {
	return func(p *pollTask) { p.timeout = d }
}

// WithPollArgs sets the fixed argument list passed to the poller on every
// invocation.
func WithPollArgs(args ...interface{}) PollOption {
	return func(p *pollTask) { p.args = args }
}

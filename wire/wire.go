// Package wire provides the low level JSON Wire Protocol client.
package wire

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mailru/easyjson"
)

const (
	// DefaultEndpoint is the default endpoint to connect to.
	DefaultEndpoint = "http://localhost:4444/wd/hub"

	// DefaultTimeout is the default round-trip timeout for a single remote
	// command.
	DefaultTimeout = 60 * time.Second
)

// Client is a JSON Wire Protocol client. It owns the endpoint URL and the
// underlying HTTP client, and decodes every response envelope, turning
// non-zero protocol statuses into *Error values.
type Client struct {
	url string
	cli *http.Client
}

// New creates a new JSON Wire Protocol client for the specified endpoint URL.
func New(urlstr string, opts ...Option) *Client {
	if urlstr == "" {
		urlstr = DefaultEndpoint
	}
	c := &Client{
		url: strings.TrimSuffix(urlstr, "/"),
	}

	// apply opts
	for _, o := range opts {
		o(c)
	}

	if c.cli == nil {
		c.cli = &http.Client{Timeout: DefaultTimeout}
	}
	return c
}

// URL returns the endpoint URL the client sends commands to.
func (c *Client) URL() string {
	return c.url
}

// Get executes a GET command against the remote endpoint, returning the raw
// value of the response envelope.
func (c *Client) Get(ctx context.Context, path string) (easyjson.RawMessage, error) {
	res, err := c.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return res.Value, nil
}

// Post executes a POST command with the marshaled params as its body,
// returning the raw value of the response envelope.
func (c *Client) Post(ctx context.Context, path string, params interface{}) (easyjson.RawMessage, error) {
	res, err := c.Do(ctx, http.MethodPost, path, params)
	if err != nil {
		return nil, err
	}
	return res.Value, nil
}

// Delete executes a DELETE command against the remote endpoint, returning the
// raw value of the response envelope.
func (c *Client) Delete(ctx context.Context, path string) (easyjson.RawMessage, error) {
	res, err := c.Do(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return nil, err
	}
	return res.Value, nil
}

// Do executes a command and returns the decoded response envelope. Most
// callers want Get, Post or Delete instead; Do is for the few commands (such
// as session creation) that need the envelope's session ID.
func (c *Client) Do(ctx context.Context, method, path string, params interface{}) (*Response, error) {
	var body io.Reader
	if params != nil {
		buf, err := marshalParams(params)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(buf)
	} else if method == http.MethodPost {
		// some remote ends reject POST commands with no body
		body = strings.NewReader("{}")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url+"/"+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json;charset=utf-8")
	}

	res, err := c.cli.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	buf, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	env := new(Response)
	if err := easyjson.Unmarshal(buf, env); err != nil {
		if res.StatusCode >= 400 {
			return nil, &Error{
				Status:  StatusUnknownError,
				Kind:    Kind(StatusUnknownError),
				Message: fmt.Sprintf("remote end returned %s", res.Status),
				Method:  method,
				Path:    path,
				Detail:  buf,
			}
		}
		return nil, err
	}

	if env.Status != StatusSuccess {
		return nil, protocolError(method, path, env)
	}
	return env, nil
}

// marshalParams marshals command parameters, preferring an easyjson
// marshaler when the params provide one.
func marshalParams(params interface{}) ([]byte, error) {
	if m, ok := params.(easyjson.Marshaler); ok {
		return easyjson.Marshal(m)
	}
	return json.Marshal(params)
}

// protocolError builds the *Error for a response envelope with a non-zero
// status, taking the human readable message from the envelope value when one
// is present.
func protocolError(method, path string, env *Response) error {
	e := &Error{
		Status: env.Status,
		Kind:   Kind(env.Status),
		Method: method,
		Path:   path,
		Detail: env.Value,
	}
	var v struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(env.Value, &v); err == nil && v.Message != "" {
		e.Message = v.Message
	} else {
		e.Message = e.Kind
	}
	return e
}

// Option is a protocol client option.
type Option = func(*Client)

// WithHTTPClient is a client option to use h for all outgoing requests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.cli = h }
}

// WithTimeout is a client option to set the round-trip timeout for a single
// remote command.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.cli = &http.Client{Timeout: d}
	}
}

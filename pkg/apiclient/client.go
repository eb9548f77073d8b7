package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/samvad-hq/skillbank-client/pkg/httpclient"
	"github.com/samvad-hq/skillbank-client/pkg/logging"
)

// Logger receives failure diagnostics.
type Logger = logging.Logger

// Client executes single-shot JSON requests against a fixed API base URL.
// It holds no per-request state and is safe for concurrent use.
type Client struct {
	http     httpclient.Client
	baseURL  string
	log      Logger
	recorder Recorder
	now      func() time.Time
}

// Option configures optional collaborators of a Client.
type Option func(*Client)

// WithHTTPClient overrides the transport used to send requests.
func WithHTTPClient(hc httpclient.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the diagnostic channel failures are written to.
func WithLogger(log Logger) Option {
	return func(c *Client) { c.log = logging.OrDiscard(log) }
}

// WithRecorder attaches an invocation recorder.
func WithRecorder(rec Recorder) Option {
	return func(c *Client) { c.recorder = rec }
}

// BaseURL joins a deployment origin with the API base path.
func BaseURL(origin, basePath string) string {
	if strings.TrimSpace(basePath) == "" {
		basePath = DefaultBasePath
	}
	return strings.TrimRight(strings.TrimSpace(origin), "/") + basePath
}

// New builds a client that prefixes every endpoint with baseURL verbatim.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBasePath
	}
	c := &Client{
		http:    httpclient.NewRestyClient(0),
		baseURL: baseURL,
		log:     logging.Discard,
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Execute sends req and returns the decoded JSON body. Every failure is
// returned as *Error and logged before returning.
func (c *Client) Execute(ctx context.Context, req Request) (any, error) {
	var out any
	err := c.run(ctx, req, func(body []byte) error {
		return sonic.ConfigStd.Unmarshal(body, &out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ExecuteInto sends req and decodes the success body into dst.
func (c *Client) ExecuteInto(ctx context.Context, req Request, dst any) error {
	return c.run(ctx, req, func(body []byte) error {
		return sonic.ConfigStd.Unmarshal(body, dst)
	})
}

// Get is Execute for a GET without payload.
func (c *Client) Get(ctx context.Context, endpoint string) (any, error) {
	return c.Execute(ctx, Request{Endpoint: endpoint, Method: http.MethodGet})
}

// Post is Execute for a POST with payload.
func (c *Client) Post(ctx context.Context, endpoint string, payload any) (any, error) {
	return c.Execute(ctx, Request{Endpoint: endpoint, Method: http.MethodPost, Payload: payload})
}

// Put is Execute for a PUT with payload.
func (c *Client) Put(ctx context.Context, endpoint string, payload any) (any, error) {
	return c.Execute(ctx, Request{Endpoint: endpoint, Method: http.MethodPut, Payload: payload})
}

// Patch is Execute for a PATCH with payload.
func (c *Client) Patch(ctx context.Context, endpoint string, payload any) (any, error) {
	return c.Execute(ctx, Request{Endpoint: endpoint, Method: http.MethodPatch, Payload: payload})
}

// Delete is Execute for a DELETE with optional payload.
func (c *Client) Delete(ctx context.Context, endpoint string, payload any) (any, error) {
	return c.Execute(ctx, Request{Endpoint: endpoint, Method: http.MethodDelete, Payload: payload})
}

func (c *Client) run(ctx context.Context, req Request, decode func([]byte) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	start := c.now()
	err := c.roundTrip(ctx, req, decode)
	c.record(ctx, req, start, err)
	if err != nil {
		c.log.ErrorObj("api request failed", "api_error", map[string]any{
			"endpoint": req.Endpoint,
			"method":   req.Method,
			"error":    err.Error(),
		})
		return err
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, req Request, decode func([]byte) error) error {
	method, err := req.NormalizedMethod()
	if err != nil {
		return newError(err.Error(), err)
	}

	body, err := encodeBody(method, req.Payload)
	if err != nil {
		return newError(fmt.Sprintf("encode payload: %v", err), err)
	}

	resp, err := c.http.Do(ctx, method, c.baseURL+req.Endpoint, body, mergeHeaders(req.Headers))
	if err != nil {
		return newError(err.Error(), err)
	}

	if !isSuccess(resp.StatusCode()) {
		return newError(failureMessage(resp.Body()), nil)
	}

	if err := decode(resp.Body()); err != nil {
		return newError(fmt.Sprintf("decode response: %v", err), err)
	}
	return nil
}

func (c *Client) record(ctx context.Context, req Request, start time.Time, err error) {
	if c.recorder == nil {
		return
	}
	method, mErr := req.NormalizedMethod()
	if mErr != nil {
		method = req.Method
	}
	inv := Invocation{
		Endpoint:  req.Endpoint,
		Method:    method,
		Succeeded: err == nil,
		Message:   Message(err),
		Duration:  c.now().Sub(start),
		StartedAt: start.UTC(),
	}
	if recErr := c.recorder.Record(ctx, inv); recErr != nil {
		c.log.WarnObj("invocation record failed", "recorder_error", map[string]any{
			"endpoint": req.Endpoint,
			"error":    recErr.Error(),
		})
	}
}

func isSuccess(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}

// failureMessage pulls the "message" field out of an error body, falling
// back to DefaultErrorMessage for non-JSON bodies or a missing field.
func failureMessage(body []byte) string {
	var payload struct {
		Message any `json:"message"`
	}
	if err := sonic.ConfigStd.Unmarshal(body, &payload); err != nil {
		return DefaultErrorMessage
	}
	if msg, ok := payload.Message.(string); ok && msg != "" {
		return msg
	}
	return DefaultErrorMessage
}

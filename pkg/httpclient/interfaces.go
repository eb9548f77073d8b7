package httpclient

import "context"

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
// A nil body means no request body is sent.
type Client interface {
	Do(ctx context.Context, method, url string, body []byte, headers map[string]string) (Response, error)
}

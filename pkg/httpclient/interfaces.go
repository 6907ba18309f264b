package httpclient

import "context"

// Request is a fully resolved outbound HTTP request.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
	Header(key string) string
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
// Implementations return an error only when no response was completed; any status
// code the server answered with is surfaced as a Response.
type Client interface {
	Do(ctx context.Context, req Request) (Response, error)
}

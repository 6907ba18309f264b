// Package transporter turns API payloads into wire requests and classifies the
// responses into decoded objects, files or typed errors.
package transporter

import (
	"context"
	"errors"

	"github.com/cosminsandu/anaf-go/pkg/httpclient"
)

// Transporter is the contract operation callers depend on.
type Transporter interface {
	RequestObject(ctx context.Context, payload Payload) (map[string]any, error)
	RequestFile(ctx context.Context, payload Payload) (*File, error)
}

// HTTPTransporter sends payloads through an injected httpclient.Client.
// It holds no mutable state and is safe for concurrent use when the client is.
type HTTPTransporter struct {
	client      httpclient.Client
	baseURI     BaseURI
	headers     Headers
	queryParams QueryParams
	log         Logger
}

// NewHTTPTransporter builds a transporter. The client is required.
func NewHTTPTransporter(client httpclient.Client, baseURI BaseURI, headers Headers, queryParams QueryParams, log Logger) (*HTTPTransporter, error) {
	if client == nil {
		return nil, errors.New("http client must not be nil")
	}
	return &HTTPTransporter{
		client:      client,
		baseURI:     baseURI,
		headers:     headers,
		queryParams: queryParams,
		log:         ensureLogger(log),
	}, nil
}

// RequestObject sends payload and decodes the reply as a JSON object.
func (t *HTTPTransporter) RequestObject(ctx context.Context, payload Payload) (map[string]any, error) {
	resp, err := t.send(ctx, payload)
	if err != nil {
		return nil, err
	}

	obj, err := ClassifyObject(resp)
	if err != nil {
		t.logFailure(payload, resp, err)
		return nil, err
	}
	return obj, nil
}

// RequestFile sends payload and returns the reply as a zip or pdf file.
func (t *HTTPTransporter) RequestFile(ctx context.Context, payload Payload) (*File, error) {
	resp, err := t.send(ctx, payload)
	if err != nil {
		return nil, err
	}

	file, err := ClassifyFile(resp)
	if err != nil {
		t.logFailure(payload, resp, err)
		return nil, err
	}
	return file, nil
}

func (t *HTTPTransporter) send(ctx context.Context, payload Payload) (httpclient.Response, error) {
	req := payload.ToRequest(t.baseURI, t.headers, t.queryParams)

	t.log.DebugObj("anaf request", "anaf_request", map[string]any{
		"method":   req.Method,
		"resource": payload.Resource(),
		"body_len": len(req.Body),
	})

	resp, err := t.client.Do(ctx, req)
	if err != nil {
		t.log.WarnObj("anaf request failed", "anaf_transport_error", map[string]any{
			"method":   req.Method,
			"resource": payload.Resource(),
			"error":    err.Error(),
		})
		return nil, &TransportError{Method: req.Method, URL: req.URL, Err: err}
	}
	return resp, nil
}

func (t *HTTPTransporter) logFailure(payload Payload, resp httpclient.Response, err error) {
	t.log.DebugObj("anaf response rejected", "anaf_response_error", map[string]any{
		"resource":     payload.Resource(),
		"status":       resp.StatusCode(),
		"content_type": resp.Header("Content-Type"),
		"kind":         KindOf(err).String(),
		"error":        err.Error(),
	})
}

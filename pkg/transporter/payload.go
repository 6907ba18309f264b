package transporter

import (
	"net/http"
	"strings"

	"github.com/cosminsandu/anaf-go/pkg/httpclient"
)

// Payload describes one logical API call before it becomes a wire request.
type Payload struct {
	method      string
	resource    string
	params      QueryParams
	body        []byte
	contentType string
}

// Get describes a GET call carrying params in the query string.
func Get(resource string, params QueryParams) Payload {
	return Payload{
		method:   http.MethodGet,
		resource: resource,
		params:   params,
	}
}

// Upload describes a POST call carrying body verbatim. contentType may be empty.
func Upload(resource string, body []byte, contentType string) Payload {
	return Payload{
		method:      http.MethodPost,
		resource:    resource,
		body:        append([]byte{}, body...),
		contentType: strings.TrimSpace(contentType),
	}
}

func (p Payload) Method() string   { return p.method }
func (p Payload) Resource() string { return p.resource }

// Params returns the call specific query parameters.
func (p Payload) Params() QueryParams { return p.params }

// Body returns a copy of the request body, or nil for GET payloads.
func (p Payload) Body() []byte {
	if p.body == nil {
		return nil
	}
	return append([]byte{}, p.body...)
}

// ToRequest resolves p against the process-wide defaults into a wire request.
func (p Payload) ToRequest(baseURI BaseURI, headers Headers, defaults QueryParams) httpclient.Request {
	uri := baseURI.String() + p.resource
	if query := defaults.Merge(p.params).Encode(); query != "" {
		uri += "?" + query
	}

	reqHeaders := headers.Map()
	if p.contentType != "" {
		for k := range reqHeaders {
			if strings.EqualFold(k, "Content-Type") {
				delete(reqHeaders, k)
			}
		}
		reqHeaders["Content-Type"] = p.contentType
	}

	return httpclient.Request{
		Method:  p.method,
		URL:     uri,
		Headers: reqHeaders,
		Body:    p.Body(),
	}
}

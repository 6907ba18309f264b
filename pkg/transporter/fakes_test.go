package transporter

import (
	"context"
	"sync"

	"github.com/cosminsandu/anaf-go/pkg/httpclient"
)

// fakeResponse lets us stub the httpclient.Response interface.
type fakeResponse struct {
	body        []byte
	statusCode  int
	contentType string
}

func (f fakeResponse) Body() []byte    { return f.body }
func (f fakeResponse) StatusCode() int { return f.statusCode }
func (f fakeResponse) Header(key string) string {
	if key == "Content-Type" {
		return f.contentType
	}
	return ""
}

func jsonResponse(body string) fakeResponse {
	return fakeResponse{body: []byte(body), statusCode: 200, contentType: "application/json"}
}

// fakeHTTPClient records requests and returns a canned response or error.
type fakeHTTPClient struct {
	mu       sync.Mutex
	resp     httpclient.Response
	err      error
	requests []httpclient.Request
}

func (f *fakeHTTPClient) Do(_ context.Context, req httpclient.Request) (httpclient.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

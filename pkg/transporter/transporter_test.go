package transporter

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"
)

func newTestTransporter(t *testing.T, client *fakeHTTPClient) *HTTPTransporter {
	t.Helper()
	tr, err := NewHTTPTransporter(
		client,
		NewBaseURI("https://api.anaf.ro/"),
		NewHeaders(nil).WithAuthorization("token"),
		NewQueryParams("env", "prod"),
		nil,
	)
	if err != nil {
		t.Fatalf("NewHTTPTransporter: %v", err)
	}
	return tr
}

func TestNewHTTPTransporterRequiresClient(t *testing.T) {
	if _, err := NewHTTPTransporter(nil, NewBaseURI("h"), Headers{}, QueryParams{}, nil); err == nil {
		t.Fatal("expected error for nil client")
	}
}

func TestRequestObjectSendsResolvedRequest(t *testing.T) {
	client := &fakeHTTPClient{resp: jsonResponse(`{"serial":"1234AA456"}`)}
	tr := newTestTransporter(t, client)

	got, err := tr.RequestObject(context.Background(), Get("prod/FCTEL/rest/listaMesajeFactura", NewQueryParams("env", "test", "cif", "123")))
	if err != nil {
		t.Fatalf("RequestObject: %v", err)
	}
	if got["serial"] != "1234AA456" {
		t.Fatalf("unexpected result %#v", got)
	}
	if len(client.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(client.requests))
	}
	req := client.requests[0]
	if req.Method != http.MethodGet {
		t.Fatalf("Method = %s", req.Method)
	}
	if req.URL != "https://api.anaf.ro/prod/FCTEL/rest/listaMesajeFactura?env=test&cif=123" {
		t.Fatalf("URL = %q", req.URL)
	}
	if req.Headers["Authorization"] != "Bearer token" {
		t.Fatalf("missing authorization header: %#v", req.Headers)
	}
}

func TestRequestObjectTransportFailure(t *testing.T) {
	cause := errors.New("connection refused")
	tr := newTestTransporter(t, &fakeHTTPClient{err: cause})

	got, err := tr.RequestObject(context.Background(), Get("x", QueryParams{}))
	if got != nil {
		t.Fatalf("expected no result, got %#v", got)
	}
	if !errors.Is(err, ErrTransport) || !errors.Is(err, cause) {
		t.Fatalf("expected transport error wrapping cause, got %v", err)
	}
	var trErr *TransportError
	if !errors.As(err, &trErr) || trErr.Method != http.MethodGet || trErr.URL != "https://api.anaf.ro/x?env=prod" {
		t.Fatalf("unexpected transport error %#v", err)
	}
}

func TestRequestFileTransportFailure(t *testing.T) {
	tr := newTestTransporter(t, &fakeHTTPClient{err: context.DeadlineExceeded})

	file, err := tr.RequestFile(context.Background(), Upload("x", []byte("<a/>"), ""))
	if file != nil {
		t.Fatalf("expected no file")
	}
	if KindOf(err) != KindTransport || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestRequestObjectPropagatesClassifierErrors(t *testing.T) {
	cases := map[string]ErrorKind{
		`not json`:              KindUnserializable,
		`{"eroare":"boom"}`:     KindServiceReported,
		`{"notFound":["1"]}`:    KindTaxIDNotFound,
		`{"notFound":[],"a":1}`: KindNone,
	}
	for body, want := range cases {
		tr := newTestTransporter(t, &fakeHTTPClient{resp: jsonResponse(body)})
		_, err := tr.RequestObject(context.Background(), Get("x", QueryParams{}))
		if got := KindOf(err); got != want {
			t.Errorf("%s: kind = %s want %s (err=%v)", body, got, want, err)
		}
	}
}

func TestRequestFileSavesContent(t *testing.T) {
	client := &fakeHTTPClient{resp: fakeResponse{body: []byte("dummy content"), statusCode: 200, contentType: ContentTypeZip}}
	tr := newTestTransporter(t, client)

	file, err := tr.RequestFile(context.Background(), Get("prod/FCTEL/rest/descarcare", NewQueryParams("id", "1234AA456")))
	if err != nil {
		t.Fatalf("RequestFile: %v", err)
	}
	if string(file.Content()) != "dummy content" {
		t.Fatalf("Content = %q", file.Content())
	}

	path := filepath.Join(t.TempDir(), "nested", "1234AA456"+file.Extension())
	if err := file.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if string(raw) != "dummy content" {
		t.Fatalf("saved content = %q", raw)
	}
}

func TestRequestFileRejectsWrongType(t *testing.T) {
	tr := newTestTransporter(t, &fakeHTTPClient{resp: jsonResponse(`{"eroare":"x"}`)})
	file, err := tr.RequestFile(context.Background(), Get("x", QueryParams{}))
	if file != nil || !errors.Is(err, ErrFileType) {
		t.Fatalf("expected file type error, got file=%v err=%v", file, err)
	}
}

func TestKindOfUnknownAndString(t *testing.T) {
	if KindOf(errors.New("other")) != KindUnknown {
		t.Fatal("expected unknown kind")
	}
	if KindTaxIDNotFound.String() != "tax_id_not_found" || ErrorKind(99).String() != "unknown" {
		t.Fatal("unexpected kind names")
	}
}

package transporter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/cosminsandu/anaf-go/pkg/httpclient"
)

const (
	// KeyError is the reserved key the service uses for application errors.
	KeyError = "eroare"
	// KeyNotFound is the reserved key listing unrecognized tax identification numbers.
	KeyNotFound = "notFound"

	maxSnippetLen = 512
)

// ClassifyObject decodes resp as a JSON object and screens it for embedded error signals.
// It is a pure function of the response.
func ClassifyObject(resp httpclient.Response) (map[string]any, error) {
	body := resp.Body()

	decoded, err := decodeObject(body)
	if err != nil {
		return nil, &UnserializableResponseError{
			StatusCode: resp.StatusCode(),
			Snippet:    responseSnippet(body),
			Err:        err,
		}
	}

	if raw, ok := decoded[KeyError]; ok {
		return nil, &ServiceError{Message: errorMessage(raw)}
	}

	if raw, ok := decoded[KeyNotFound]; ok && !isEmptyList(raw) {
		return nil, ErrTaxIdentificationNumberNotFound
	}

	return decoded, nil
}

// ClassifyFile validates the response content type and wraps the body.
func ClassifyFile(resp httpclient.Response) (*File, error) {
	contentType := resp.Header("Content-Type")
	if _, ok := fileExtensions[contentType]; !ok {
		return nil, &FileTypeError{
			ContentType: contentType,
			Detail:      describeBody(contentType, resp.Body()),
		}
	}
	return NewFile(resp.Body(), contentType), nil
}

func decodeObject(body []byte) (map[string]any, error) {
	// encoding/json replaces invalid bytes with U+FFFD instead of failing.
	if !utf8.Valid(body) {
		return nil, errors.New("decode json: invalid UTF-8")
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("decode json: unexpected data after top-level value")
	}

	obj, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("decode json: top-level value is %s, want object", jsonKind(value))
	}
	return obj, nil
}

func errorMessage(raw any) string {
	if s, ok := raw.(string); ok {
		return s
	}
	return fmt.Sprint(raw)
}

// isEmptyList reports whether raw is a JSON array with no elements.
func isEmptyList(raw any) bool {
	list, ok := raw.([]any)
	return ok && len(list) == 0
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// describeBody extracts a short diagnostic from an unexpected file response.
// HTML error pages are reduced to their title.
func describeBody(contentType string, body []byte) string {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil && mediaType == "text/html" {
		if doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body)); err == nil {
			if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
				return title
			}
		}
	}
	if len(body) == 0 {
		return ""
	}
	return responseSnippet(body)
}

func responseSnippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxSnippetLen {
		cut := maxSnippetLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		return s[:cut] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}

package transporter

import (
	"maps"
	"net/url"
	"slices"
	"strings"
)

// BaseURI is the scheme+host+prefix every resource path is appended to.
type BaseURI struct {
	uri string
}

// NewBaseURI normalizes raw into an absolute base URI ending in "/".
// A missing scheme defaults to https.
func NewBaseURI(raw string) BaseURI {
	raw = strings.TrimSpace(raw)
	if raw != "" && !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	return BaseURI{uri: raw}
}

func (b BaseURI) String() string { return b.uri }

// Headers is an immutable set of headers applied to every request.
type Headers struct {
	values map[string]string
}

// NewHeaders copies values into a new Headers set, skipping blank keys.
func NewHeaders(values map[string]string) Headers {
	h := Headers{values: make(map[string]string, len(values))}
	for k, v := range values {
		if k = strings.TrimSpace(k); k == "" {
			continue
		}
		h.values[k] = v
	}
	return h
}

// With returns a copy of h with key set to value.
func (h Headers) With(key, value string) Headers {
	out := NewHeaders(h.values)
	if key = strings.TrimSpace(key); key != "" {
		out.values[key] = value
	}
	return out
}

// WithAuthorization returns a copy of h carrying a bearer token.
func (h Headers) WithAuthorization(token string) Headers {
	return h.With("Authorization", "Bearer "+strings.TrimSpace(token))
}

// Get returns the value stored for key.
func (h Headers) Get(key string) string { return h.values[key] }

// Len reports the number of headers.
func (h Headers) Len() int { return len(h.values) }

// Map returns a copy of the headers.
func (h Headers) Map() map[string]string {
	out := make(map[string]string, len(h.values))
	for k, v := range h.values {
		out[k] = v
	}
	return out
}

// QueryParams is an insertion-ordered string mapping. All methods return
// copies; a QueryParams value is never mutated once built.
type QueryParams struct {
	keys   []string
	values map[string]string
}

// NewQueryParams builds params from alternating key/value pairs. A trailing
// key without a value is ignored.
func NewQueryParams(pairs ...string) QueryParams {
	q := QueryParams{}
	for i := 0; i+1 < len(pairs); i += 2 {
		q = q.With(pairs[i], pairs[i+1])
	}
	return q
}

// QueryParamsFromMap builds params from m. Map iteration order is random, so
// keys are added in sorted order to keep the encoding stable.
func QueryParamsFromMap(m map[string]string) QueryParams {
	q := QueryParams{}
	for _, k := range slices.Sorted(maps.Keys(m)) {
		q = q.With(k, m[k])
	}
	return q
}

// With returns a copy of q with key set to value. An existing key keeps its position.
func (q QueryParams) With(key, value string) QueryParams {
	out := q.clone()
	if _, ok := out.values[key]; !ok {
		out.keys = append(out.keys, key)
	}
	out.values[key] = value
	return out
}

// Merge starts from q and overlays every key of overlay; overlay wins on collision.
func (q QueryParams) Merge(overlay QueryParams) QueryParams {
	out := q.clone()
	for _, k := range overlay.keys {
		if _, ok := out.values[k]; !ok {
			out.keys = append(out.keys, k)
		}
		out.values[k] = overlay.values[k]
	}
	return out
}

// Get returns the value for key and whether it was present.
func (q QueryParams) Get(key string) (string, bool) {
	v, ok := q.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (q QueryParams) Keys() []string {
	return append([]string(nil), q.keys...)
}

// Len reports the number of parameters.
func (q QueryParams) Len() int { return len(q.keys) }

// Encode serializes q as a query string in insertion order.
func (q QueryParams) Encode() string {
	if len(q.keys) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, k := range q.keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(k))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(q.values[k]))
	}
	return sb.String()
}

func (q QueryParams) clone() QueryParams {
	out := QueryParams{
		keys:   make([]string, len(q.keys), len(q.keys)+1),
		values: make(map[string]string, len(q.values)+1),
	}
	copy(out.keys, q.keys)
	for k, v := range q.values {
		out.values[k] = v
	}
	return out
}

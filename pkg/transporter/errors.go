package transporter

import (
	"errors"
	"fmt"
)

// Error conditions surfaced by the transporter. Check them with errors.Is.
var (
	// ErrTransport indicates the HTTP client failed before a response was completed.
	ErrTransport = errors.New("transport failure")
	// ErrUnserializableResponse indicates a body that is not a JSON object.
	ErrUnserializableResponse = errors.New("unserializable response")
	// ErrServiceReported indicates the service embedded an "eroare" message in its reply.
	ErrServiceReported = errors.New("service reported error")
	// ErrTaxIdentificationNumberNotFound indicates one or more submitted CIFs were not recognized.
	ErrTaxIdentificationNumberNotFound = errors.New("tax identification number not found")
	// ErrFileType indicates a file response with an unsupported content type.
	ErrFileType = errors.New("unsupported file type")
)

// TransportError wraps the underlying client failure.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// UnserializableResponseError is returned when a structured reply cannot be decoded.
type UnserializableResponseError struct {
	StatusCode int
	Snippet    string
	Err        error
}

func (e *UnserializableResponseError) Error() string {
	return fmt.Sprintf("unserializable response (status %d): %v: %s", e.StatusCode, e.Err, e.Snippet)
}

func (e *UnserializableResponseError) Unwrap() error { return e.Err }

func (e *UnserializableResponseError) Is(target error) bool {
	return target == ErrUnserializableResponse
}

// ServiceError carries the message the service reported under "eroare".
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

func (e *ServiceError) Is(target error) bool { return target == ErrServiceReported }

// FileTypeError is returned when a file response is neither a zip nor a pdf.
type FileTypeError struct {
	ContentType string
	Detail      string
}

func (e *FileTypeError) Error() string {
	ct := e.ContentType
	if ct == "" {
		ct = "<none>"
	}
	if e.Detail != "" {
		return fmt.Sprintf("unsupported file type %q: %s", ct, e.Detail)
	}
	return fmt.Sprintf("unsupported file type %q", ct)
}

func (e *FileTypeError) Is(target error) bool { return target == ErrFileType }

// ErrorKind enumerates the failure variants of a transporter call.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindTransport
	KindUnserializable
	KindServiceReported
	KindTaxIDNotFound
	KindFileType
	KindUnknown
)

var kindNames = map[ErrorKind]string{
	KindNone:            "none",
	KindTransport:       "transport",
	KindUnserializable:  "unserializable_response",
	KindServiceReported: "service_reported",
	KindTaxIDNotFound:   "tax_id_not_found",
	KindFileType:        "file_type",
	KindUnknown:         "unknown",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

// KindOf classifies err into one of the transporter error kinds.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrTransport):
		return KindTransport
	case errors.Is(err, ErrUnserializableResponse):
		return KindUnserializable
	case errors.Is(err, ErrServiceReported):
		return KindServiceReported
	case errors.Is(err, ErrTaxIdentificationNumberNotFound):
		return KindTaxIDNotFound
	case errors.Is(err, ErrFileType):
		return KindFileType
	default:
		return KindUnknown
	}
}

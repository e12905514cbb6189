package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// GenericMessage is shown when no usable message can be extracted.
const GenericMessage = "Something went wrong"

// revokedDetail is the detail the backend sends when a session is no longer
// valid.
const revokedDetail = "Unauthorized"

// Common backend errors, matched with errors.Is against *Error and
// *TransportError.
var (
	// ErrTransport is returned when the request never produced an HTTP response.
	ErrTransport = errors.New("backend unreachable")

	// ErrUnauthorized matches any 401 response.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden matches 403 responses.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound matches 404 responses.
	ErrNotFound = errors.New("not found")

	// ErrServer matches any 5xx response.
	ErrServer = errors.New("backend error")
)

// Error is a non-2xx backend response.
type Error struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte

	// Message is the user-facing message resolved from the body.
	Message string

	// Detail is the raw "detail" string, if the body carried one.
	Detail string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("api: %s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// Is maps status codes onto the package sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrServer:
		return e.StatusCode >= 500
	}
	return false
}

// SessionRevoked reports whether the backend force-ended the session.
func (e *Error) SessionRevoked() bool {
	return e.StatusCode == http.StatusUnauthorized && e.Detail == revokedDetail
}

// TransportError wraps network-level failures.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("api: %s %s: %v", e.Method, e.Path, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *TransportError) Unwrap() error { return e.Err }

// Is makes every TransportError match ErrTransport.
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

func newError(method, path string, status int, body []byte) *Error {
	e := &Error{
		Method:     method,
		Path:       path,
		StatusCode: status,
		Body:       body,
		Message:    GenericMessage,
	}

	if !gjson.ValidBytes(body) {
		return e
	}
	root := gjson.ParseBytes(body)
	if detail := root.Get("detail"); detail.Type == gjson.String {
		e.Detail = detail.Str
	}
	if status >= 500 {
		return e
	}
	if msg := resolveMessage(root); msg != "" {
		e.Message = msg
	}
	return e
}

// resolveMessage looks at detail, then message, then the body itself.
func resolveMessage(root gjson.Result) string {
	if root.IsObject() {
		for _, key := range []string{"detail", "message"} {
			if msg := normalizeMessage(root.Get(key)); msg != "" {
				return msg
			}
		}
	}
	return normalizeMessage(root)
}

// normalizeMessage returns the first usable string in raw, descending into
// arrays (first truthy element) and objects (first value in document order).
func normalizeMessage(raw gjson.Result) string {
	switch {
	case raw.Type == gjson.String:
		return raw.Str
	case raw.IsArray():
		var msg string
		raw.ForEach(func(_, value gjson.Result) bool {
			if !truthy(value) {
				return true
			}
			msg = normalizeMessage(value)
			return false
		})
		return msg
	case raw.IsObject():
		var msg string
		raw.ForEach(func(_, value gjson.Result) bool {
			msg = normalizeMessage(value)
			return false
		})
		return msg
	}
	return ""
}

func truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.Number:
		return v.Num != 0
	case gjson.String:
		return v.Str != ""
	}
	return v.Exists()
}

// ExtractMessage resolves the user-facing message for any error returned by
// this package. Non-backend errors and 5xx responses yield GenericMessage.
func ExtractMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode >= 500 || apiErr.Message == "" {
			return GenericMessage
		}
		return apiErr.Message
	}
	return GenericMessage
}

// ErrorDetail returns the raw "detail" string of a backend error, or "".
func ErrorDetail(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

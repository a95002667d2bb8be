package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"
)

// Error is the tagged error returned by every stage of a call.
type Error struct {
	// Code classifies the failure.
	Code ErrorCode `json:"code"`
	// Message is a human-readable description.
	Message string `json:"message"`
	// Retryable reports whether repeating the call may succeed.
	Retryable bool `json:"retryable"`
	// StatusCode is the HTTP status for STATUS_ERROR, zero otherwise.
	StatusCode int `json:"status_code,omitempty"`
	// Body is the raw response body for STATUS_ERROR.
	Body []byte `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *Error) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *Error) WithDetails(details map[string]any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new Error with automatic retryable detection.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// --- Constructors ---

// InvalidURL creates a URL_ERROR for the given URL reference.
func InvalidURL(ref string, cause error) *Error {
	return &Error{
		Code: ErrCodeURL, Message: fmt.Sprintf("invalid url %q", ref),
		Details: map[string]any{"url": ref}, Cause: cause,
	}
}

// InvalidHeader creates a HEADER_ERROR for the given header name.
func InvalidHeader(name string, cause error) *Error {
	return &Error{
		Code: ErrCodeHeader, Message: fmt.Sprintf("invalid header %q", name),
		Details: map[string]any{"header": name}, Cause: cause,
	}
}

// InvalidRequest creates an INVALID_REQUEST error.
func InvalidRequest(reason string) *Error {
	return &Error{Code: ErrCodeInvalidRequest, Message: reason}
}

// Encode creates an ENCODE_ERROR wrapping a serializer failure.
func Encode(cause error) *Error {
	return &Error{Code: ErrCodeEncode, Message: "encode request body", Cause: cause}
}

// Interceptor creates an INTERCEPTOR_ERROR wrapping the failing interceptor's error.
func Interceptor(cause error) *Error {
	return &Error{Code: ErrCodeInterceptor, Message: "interceptor rejected request", Cause: cause}
}

// Transport creates a TRANSPORT_ERROR wrapping the transport's error.
func Transport(cause error) *Error {
	return &Error{Code: ErrCodeTransport, Message: "transport failed", Retryable: true, Cause: cause}
}

// Timeout creates a TIMEOUT error for a call that exceeded d.
func Timeout(d time.Duration, cause error) *Error {
	return &Error{
		Code: ErrCodeTimeout, Message: fmt.Sprintf("no response within %s", d),
		Retryable: true, Details: map[string]any{"timeout_ms": d.Milliseconds()}, Cause: cause,
	}
}

// Decode creates a DECODE_ERROR wrapping a deserializer failure.
func Decode(cause error) *Error {
	return &Error{Code: ErrCodeDecode, Message: "decode response body", Cause: cause}
}

// Status creates a STATUS_ERROR for a non-2xx response.
// 429 and 5xx responses are retryable.
func Status(statusCode int, body []byte) *Error {
	return &Error{
		Code:       ErrCodeStatus,
		Message:    fmt.Sprintf("HTTP %d %s", statusCode, http.StatusText(statusCode)),
		Retryable:  statusCode == http.StatusTooManyRequests || statusCode >= 500,
		StatusCode: statusCode,
		Body:       body,
	}
}

// InvalidConfig creates an INVALID_CONFIG error.
func InvalidConfig(message string) *Error {
	return &Error{Code: ErrCodeInvalidConfig, Message: message}
}

// --- Inspection ---

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// CodeOf returns the code of the *Error in err's chain, or "" if there is none.
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.Code
	}
	return ""
}

// Is checks whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// IsURL checks if an error is a URL error.
func IsURL(err error) bool { return Is(err, ErrCodeURL) }

// IsHeader checks if an error is a header error.
func IsHeader(err error) bool { return Is(err, ErrCodeHeader) }

// IsEncode checks if an error is an encode error.
func IsEncode(err error) bool { return Is(err, ErrCodeEncode) }

// IsInterceptor checks if an error is an interceptor error.
func IsInterceptor(err error) bool { return Is(err, ErrCodeInterceptor) }

// IsTransport checks if an error is a transport error.
func IsTransport(err error) bool { return Is(err, ErrCodeTransport) }

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool { return Is(err, ErrCodeTimeout) }

// IsDecode checks if an error is a decode error.
func IsDecode(err error) bool { return Is(err, ErrCodeDecode) }

// IsStatus checks if an error is a status error.
func IsStatus(err error) bool { return Is(err, ErrCodeStatus) }

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	e, ok := As(err)
	return ok && e.Retryable
}

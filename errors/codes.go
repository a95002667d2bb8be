package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Request construction errors (never retryable)
const (
	// ErrCodeURL indicates a malformed base URL or a failed relative URL join.
	ErrCodeURL ErrorCode = "URL_ERROR"
	// ErrCodeHeader indicates an illegal header name or value.
	ErrCodeHeader ErrorCode = "HEADER_ERROR"
	// ErrCodeInvalidRequest indicates a request that cannot be built, such as an invalid method.
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	// ErrCodeEncode indicates the request body serializer failed.
	ErrCodeEncode ErrorCode = "ENCODE_ERROR"
	// ErrCodeInterceptor indicates an interceptor rejected the request.
	ErrCodeInterceptor ErrorCode = "INTERCEPTOR_ERROR"
)

// Dispatch errors
const (
	// ErrCodeTransport indicates the underlying transport failed.
	ErrCodeTransport ErrorCode = "TRANSPORT_ERROR"
	// ErrCodeTimeout indicates the transport call did not finish in time.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// Response errors
const (
	// ErrCodeDecode indicates the response body could not be decoded.
	ErrCodeDecode ErrorCode = "DECODE_ERROR"
	// ErrCodeStatus indicates a non-2xx response when status checking is enabled.
	ErrCodeStatus ErrorCode = "STATUS_ERROR"
)

// ErrCodeInvalidConfig indicates a configuration that failed validation.
const ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"

var retryableCodes = map[ErrorCode]bool{
	ErrCodeTransport: true,
	ErrCodeTimeout:   true,
	ErrCodeDecode:    false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}

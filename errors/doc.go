// Package errors defines the error taxonomy shared by every retrokit layer.
//
// Each stage of a call (URL templating, header validation, body encoding,
// interceptors, transport, timeout, response decoding) fails with an *Error
// tagged by an ErrorCode, so callers can tell the kinds apart with the Is*
// predicates or CodeOf instead of matching on error strings. Retryable is
// derived from the code; this library never retries on its own.
package errors

package httpapi

import (
	"net/http"
)

// PathParam maps a placeholder name to its value; "{id}" is replaced by PathParam{"id": ...}.
type PathParam map[string]string

// QueryParam maps query keys to values merged into the request URL.
type QueryParam map[string]string

// Options are the per-call parts of a request.
type Options struct {
	Header http.Header
	Path   PathParam
	Query  QueryParam
}

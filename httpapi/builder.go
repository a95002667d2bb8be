package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/net/http/httpguts"

	"github.com/kbukum/retrokit/errors"
)

// Builder turns an endpoint template and per-call options into an
// *http.Request. It performs no I/O.
type Builder struct {
	BaseURL       string
	DefaultHeader http.Header
}

// Build assembles the request:
//
//  1. every "{name}" in relativeURL is replaced by path[name], keys in sorted order;
//  2. the result is resolved against BaseURL as an RFC 3986 reference;
//  3. query is merged into the URL's existing query;
//  4. headers are DefaultHeader, then Content-Type, then header, later wins per key;
//  5. body is attached as is.
func (b Builder) Build(ctx context.Context, method, relativeURL, contentType string,
	header http.Header, path PathParam, query QueryParam, body io.Reader) (*http.Request, error) {
	u, err := b.resolve(substitute(relativeURL, path))
	if err != nil {
		return nil, err
	}
	applyQuery(u, query)

	if method == "" || !httpguts.ValidHeaderFieldName(method) {
		return nil, errors.InvalidRequest(fmt.Sprintf("invalid method %q", method))
	}

	h, err := mergeHeaders(b.DefaultHeader, contentType, header)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, errors.InvalidRequest("build request").WithCause(err)
	}
	req.Header = h
	return req, nil
}

// substitute replaces placeholders without escaping values.
func substitute(template string, path PathParam) string {
	if len(path) == 0 {
		return template
	}
	keys := make([]string, 0, len(path))
	for k := range path {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, "{"+k+"}", path[k])
	}
	// One left-to-right pass: substituted values are never rescanned.
	return strings.NewReplacer(pairs...).Replace(template)
}

func (b Builder) resolve(ref string) (*url.URL, error) {
	r, err := url.Parse(ref)
	if err != nil {
		return nil, errors.InvalidURL(ref, err)
	}

	if b.BaseURL != "" {
		base, err := url.Parse(b.BaseURL)
		if err != nil {
			return nil, errors.InvalidURL(b.BaseURL, err)
		}
		r = base.ResolveReference(r)
	}

	if !r.IsAbs() || r.Host == "" {
		return nil, errors.InvalidURL(r.String(), fmt.Errorf("no scheme or host after resolving against %q", b.BaseURL))
	}
	return r, nil
}

func applyQuery(u *url.URL, query QueryParam) {
	if len(query) == 0 {
		return
	}
	q := u.Query()
	for k, v := range query {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
}

func mergeHeaders(defaults http.Header, contentType string, call http.Header) (http.Header, error) {
	h := defaults.Clone()
	if h == nil {
		h = make(http.Header)
	}
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	for k, vs := range call {
		ck := http.CanonicalHeaderKey(k)
		h.Del(ck)
		for _, v := range vs {
			h.Add(ck, v)
		}
	}

	for k, vs := range h {
		if !httpguts.ValidHeaderFieldName(k) {
			return nil, errors.InvalidHeader(k, fmt.Errorf("invalid field name"))
		}
		for _, v := range vs {
			if !httpguts.ValidHeaderFieldValue(v) {
				return nil, errors.InvalidHeader(k, fmt.Errorf("invalid field value"))
			}
		}
	}
	return h, nil
}

package httpapi

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/kbukum/retrokit/codec"
	"github.com/kbukum/retrokit/errors"
)

// endpoint is the part every descriptor shares. It is never mutated after
// construction.
type endpoint struct {
	api    *API
	method string
	url    string
}

func (e endpoint) dispatch(ctx context.Context, opts Options, contentType string, body io.Reader) (*Response, error) {
	req, err := e.api.NewRequest(ctx, e.method, e.url, opts, contentType, body)
	if err != nil {
		return nil, err
	}
	resp, err := e.api.dispatcher.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := e.api.checkStatus(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func decode[R any](resp *Response, dec codec.Deserializer[R]) (*Result[R], error) {
	data, err := dec.Decode(resp.Body)
	if err != nil {
		return nil, errors.Decode(err).WithDetail("status_code", resp.StatusCode)
	}
	return &Result[R]{StatusCode: resp.StatusCode, Header: resp.Header, Data: data}, nil
}

func dataOf[R any](res *Result[R], err error) (R, error) {
	if err != nil {
		var zero R
		return zero, err
	}
	return res.Data, nil
}

// ResponseOnly is an endpoint with no path parameters and no request body.
type ResponseOnly[R any] struct {
	endpoint
	dec codec.Deserializer[R]
}

// NewResponseOnly declares an endpoint that only decodes a response.
func NewResponseOnly[R any](api *API, method, url string, dec codec.Deserializer[R]) *ResponseOnly[R] {
	return &ResponseOnly[R]{endpoint: endpoint{api: api, method: method, url: url}, dec: dec}
}

// Call sends the request with no per-call options.
func (e *ResponseOnly[R]) Call(ctx context.Context) (R, error) {
	res, err := e.Exchange(ctx, nil, nil)
	return dataOf(res, err)
}

// CallWithOptions sends the request with extra headers and query parameters.
func (e *ResponseOnly[R]) CallWithOptions(ctx context.Context, header http.Header, query QueryParam) (R, error) {
	res, err := e.Exchange(ctx, header, query)
	return dataOf(res, err)
}

// Exchange is CallWithOptions returning status and headers too.
func (e *ResponseOnly[R]) Exchange(ctx context.Context, header http.Header, query QueryParam) (*Result[R], error) {
	resp, err := e.dispatch(ctx, Options{Header: header, Query: query}, "", nil)
	if err != nil {
		return nil, err
	}
	return decode(resp, e.dec)
}

// NoBody is an endpoint with path parameters and no request body.
type NoBody[R any] struct {
	endpoint
	dec codec.Deserializer[R]
}

// NewNoBody declares an endpoint without a request body.
func NewNoBody[R any](api *API, method, url string, dec codec.Deserializer[R]) *NoBody[R] {
	return &NoBody[R]{endpoint: endpoint{api: api, method: method, url: url}, dec: dec}
}

// Call sends the request with path parameters.
func (e *NoBody[R]) Call(ctx context.Context, path PathParam) (R, error) {
	res, err := e.Exchange(ctx, Options{Path: path})
	return dataOf(res, err)
}

// CallWithOptions sends the request with the given options.
func (e *NoBody[R]) CallWithOptions(ctx context.Context, opts Options) (R, error) {
	res, err := e.Exchange(ctx, opts)
	return dataOf(res, err)
}

// Exchange is CallWithOptions returning status and headers too.
func (e *NoBody[R]) Exchange(ctx context.Context, opts Options) (*Result[R], error) {
	resp, err := e.dispatch(ctx, opts, "", nil)
	if err != nil {
		return nil, err
	}
	return decode(resp, e.dec)
}

// HasBody is an endpoint that serializes a T request body.
type HasBody[T, R any] struct {
	endpoint
	contentType string
	ser         codec.Serializer[T, []byte]
	dec         codec.Deserializer[R]
}

// NewHasBody declares an endpoint with a request body. An empty
// contentType uses the serializer's own media type, if it declares one.
func NewHasBody[T, R any](api *API, method, url, contentType string, ser codec.Serializer[T, []byte], dec codec.Deserializer[R]) *HasBody[T, R] {
	if contentType == "" {
		contentType = codec.ContentTypeOf(ser)
	}
	return &HasBody[T, R]{
		endpoint:    endpoint{api: api, method: method, url: url},
		contentType: contentType,
		ser:         ser,
		dec:         dec,
	}
}

// Call sends body with path parameters.
func (e *HasBody[T, R]) Call(ctx context.Context, path PathParam, body T) (R, error) {
	res, err := e.Exchange(ctx, Options{Path: path}, body)
	return dataOf(res, err)
}

// CallWithOptions sends body with the given options.
func (e *HasBody[T, R]) CallWithOptions(ctx context.Context, opts Options, body T) (R, error) {
	res, err := e.Exchange(ctx, opts, body)
	return dataOf(res, err)
}

// Exchange is CallWithOptions returning status and headers too.
func (e *HasBody[T, R]) Exchange(ctx context.Context, opts Options, body T) (*Result[R], error) {
	data, err := e.ser.Encode(body)
	if err != nil {
		return nil, errors.Encode(err)
	}
	resp, err := e.dispatch(ctx, opts, e.contentType, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return decode(resp, e.dec)
}

// Multipart is an endpoint that sends a multipart form.
type Multipart[R any] struct {
	endpoint
	ser codec.Serializer[*codec.FormData, codec.Payload]
	dec codec.Deserializer[R]
}

// NewMultipart declares a multipart endpoint that encodes the form in memory.
func NewMultipart[R any](api *API, method, url string, dec codec.Deserializer[R]) *Multipart[R] {
	return NewMultipartWith(api, method, url, codec.Multipart, dec)
}

// NewMultipartStream declares a multipart endpoint that streams the form
// while it is being sent.
func NewMultipartStream[R any](api *API, method, url string, dec codec.Deserializer[R]) *Multipart[R] {
	return NewMultipartWith(api, method, url, codec.MultipartStream{}, dec)
}

// NewMultipartWith declares a multipart endpoint with a custom serializer.
func NewMultipartWith[R any](api *API, method, url string, ser codec.Serializer[*codec.FormData, codec.Payload], dec codec.Deserializer[R]) *Multipart[R] {
	return &Multipart[R]{endpoint: endpoint{api: api, method: method, url: url}, ser: ser, dec: dec}
}

// Call sends form with path parameters.
func (e *Multipart[R]) Call(ctx context.Context, path PathParam, form *codec.FormData) (R, error) {
	res, err := e.Exchange(ctx, Options{Path: path}, form)
	return dataOf(res, err)
}

// CallWithOptions sends form with the given options.
func (e *Multipart[R]) CallWithOptions(ctx context.Context, opts Options, form *codec.FormData) (R, error) {
	res, err := e.Exchange(ctx, opts, form)
	return dataOf(res, err)
}

// Exchange is CallWithOptions returning status and headers too.
func (e *Multipart[R]) Exchange(ctx context.Context, opts Options, form *codec.FormData) (*Result[R], error) {
	p, err := e.ser.Encode(form)
	if err != nil {
		return nil, errors.Encode(err)
	}
	// A streamed body must be closed even when it is never sent.
	if c, ok := p.Body.(io.Closer); ok {
		defer c.Close()
	}
	resp, err := e.dispatch(ctx, opts, p.ContentType, p.Body)
	if err != nil {
		if encErr := codec.StreamErr(p.Body); encErr != nil {
			return nil, errors.Encode(encErr)
		}
		return nil, err
	}
	return decode(resp, e.dec)
}

// Package httpapi turns REST endpoint descriptions into typed, reusable
// call descriptors.
//
// An API holds what every call to one service shares: base URL, default
// headers, the dispatcher (interceptors, observers, timeout, transport) and
// the status policy. Endpoints are declared once against it:
//
//	api, _ := httpapi.New(httpapi.Config{BaseURL: "http://localhost:3400"})
//
//	deleteProduct := httpapi.NewNoBody(api, http.MethodDelete, "/products/{id}", codec.String)
//	msg, err := deleteProduct.CallWithOptions(ctx, httpapi.Options{
//	    Path:  httpapi.PathParam{"id": "3"},
//	    Query: httpapi.QueryParam{"soft": "true"},
//	})
//
//	updateProduct := httpapi.NewHasBody(api, http.MethodPut, "/products/{id}",
//	    codec.ContentTypeJSON, codec.JSON[Product]{}, codec.JSON[Product]{})
//	p, err := updateProduct.Call(ctx, httpapi.PathParam{"id": "5"}, product)
//
// A call builds the request (path substitution, reference resolution
// against the base URL, query merge, header merge), runs the interceptor
// chain, sends it through the transport under the dispatcher timeout and
// decodes the body. Every failure is an *errors.Error whose code names the
// stage that failed.
package httpapi

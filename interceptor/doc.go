// Package interceptor provides an ordered, concurrency-safe chain of request
// interceptors.
//
// The chain is generic over the request type, so the same machinery serves
// any transport. Each interceptor carries an id; the chain holds at most one
// interceptor per id, and removal is by id.
//
//	chain := interceptor.NewChain[*http.Request]()
//	a := chain.AddFunc(func(r *http.Request) error { r.Header.Set("X-A", "1"); return nil })
//	chain.AddFront(tracing)  // runs before a
//	err := chain.RunAll(req) // first failure stops the run
//	chain.Remove(a)
package interceptor

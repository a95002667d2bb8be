// Package metrics exports Prometheus metrics for API calls.
//
//	reg := prometheus.NewRegistry()
//	c := metrics.NewCollectorWithRegistry(reg)
//	api, err := httpapi.New(cfg, httpapi.WithObserver(c.Observer("catalog")))
//	http.Handle("/metrics", c.Handler())
package metrics

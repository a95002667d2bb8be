// Package auth mints and attaches credentials for outgoing API calls.
//
// A JWTSource signs short-lived tokens from a Config and caches each one
// until it is close to expiry. BearerInterceptor plugs any TokenSource into
// an API's interceptor chain:
//
//	src, err := auth.NewJWTSource(auth.Config{
//	    Secret:   os.Getenv("CATALOG_SIGNING_KEY"),
//	    Issuer:   "orders-service",
//	    Audience: []string{"catalog"},
//	})
//	api.AddInterceptor(auth.BearerInterceptor(src))
//
// Config follows the usual ApplyDefaults/Validate pattern and carries
// mapstructure tags so it can be loaded with config.LoadConfig.
package auth

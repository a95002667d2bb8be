// Package security builds the client-side TLS settings used by the HTTP
// transport.
//
//	cfg := security.TLSConfig{
//	    CAFile:     "/etc/retrokit/ca.pem",
//	    MinVersion: "1.3",
//	}
//	tlsConfig, err := cfg.Build()
package security

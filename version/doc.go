// Package version carries the retrokit build version and the User-Agent
// string sent on every request that does not set its own.
//
// Version and commit are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/retrokit/version.Version=1.0.0"
package version

package version

import (
	"fmt"
	"runtime/debug"
	"strings"
)

var (
	// These variables are set at build time using -ldflags
	Version   = "dev"
	GitCommit = ""
)

const modulePath = "github.com/kbukum/retrokit"

// Info represents version information.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	GoVersion string `json:"go_version"`
	IsRelease bool   `json:"is_release"`
}

// Get returns the version of retrokit linked into the running binary.
// When retrokit is a dependency, the module version from the build info
// wins over the "dev" default.
func Get() *Info {
	info := &Info{
		Version:   Version,
		GitCommit: GitCommit,
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = bi.GoVersion
		if info.Version == "dev" {
			for _, dep := range bi.Deps {
				if dep.Path == modulePath && dep.Version != "" && dep.Version != "(devel)" {
					info.Version = strings.TrimPrefix(dep.Version, "v")
					break
				}
			}
		}
		if info.GitCommit == "" {
			for _, s := range bi.Settings {
				if s.Key == "vcs.revision" {
					info.GitCommit = s.Value
					break
				}
			}
		}
	}

	info.IsRelease = info.Version != "dev" && !strings.Contains(info.Version, "dirty")
	return info
}

// ShortCommit returns the first 7 characters of the commit, or "unknown".
func (i *Info) ShortCommit() string {
	if i.GitCommit == "" {
		return "unknown"
	}
	if len(i.GitCommit) > 7 {
		return i.GitCommit[:7]
	}
	return i.GitCommit
}

// String returns a human-readable version string.
func (i *Info) String() string {
	if i.GitCommit == "" {
		return i.Version
	}
	return fmt.Sprintf("%s (%s)", i.Version, i.ShortCommit())
}

// UserAgent returns the default User-Agent header value, e.g. "retrokit/1.2.0".
func UserAgent() string {
	return "retrokit/" + Get().Version
}

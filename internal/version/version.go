// Package version carries the build metadata injected at link time:
//
//	go build -ldflags "-X .../internal/version.Version=v1.2.3 ..."
package version

var (
	// Version is the release version (set via -ldflags).
	Version = ""
	// Commit is the git commit hash (set via -ldflags).
	Commit = ""
	// BuildTime is the build timestamp (set via -ldflags).
	BuildTime = ""
)

type Info struct {
	Version   string
	Commit    string
	BuildTime string
}

// Resolve returns the injected build metadata. A build without ldflags
// (go run, tests) reports version "dev".
func Resolve() Info {
	resolved := Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
	}
	if resolved.Version == "" {
		resolved.Version = "dev"
	}
	return resolved
}

// String renders the resolved version with a short commit suffix, e.g.
// "v1.2.3 (0123abcd4567)".
func String() string {
	info := Resolve()
	if info.Commit == "" {
		return info.Version
	}
	return info.Version + " (" + shortCommit(info.Commit) + ")"
}

func shortCommit(commit string) string {
	if len(commit) <= 12 {
		return commit
	}
	return commit[:12]
}

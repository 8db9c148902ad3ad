// Package version tells which build of the tools is running.
package version

import "runtime/debug"

// Version can be set at build time using something like:
//
//	go build -ldflags "-X github.com/opltrack/opltrack/version.Version=$(git describe --dirty)"
var Version string

// Hash is the short VCS revision of the build, with "-dirty" appended when
// the tree had local modifications. Empty when the build carries no VCS info.
var Hash = vcsHash()

var VersionOrHash = func() string {
	if Version != "" {
		return Version
	}
	return Hash
}()

func vcsHash() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	var revision string
	modified := false
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}
	if len(revision) > 7 {
		revision = revision[:7]
	}
	if revision != "" && modified {
		revision += "-dirty"
	}
	return revision
}

// Package version reports the build version and how the binary was installed.
package version

import (
	"fmt"
	"runtime/debug"
)

// Effective returns v, or a version derived from Go build info when v is empty.
func Effective(v string) string {
	if v != "" {
		return v
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	return fromBuildInfo(info)
}

func fromBuildInfo(info *debug.BuildInfo) string {
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	var revision string
	var dirty bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}

	if revision == "" {
		return "devel"
	}
	ver := "devel+" + shortRevision(revision)
	if dirty {
		ver += "+dirty"
	}
	return ver
}

// shortRevision returns the first 12 chars of a revision.
func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}

// UpdateCommand returns how to move to version given the install method.
// version may be "latest".
func UpdateCommand(version string, method InstallMethod) string {
	switch method {
	case InstallMethodHomebrew:
		return "brew upgrade notehub"
	case InstallMethodBinary:
		if version == "latest" {
			return "https://github.com/marcus/notehub/releases/latest"
		}
		return fmt.Sprintf("https://github.com/marcus/notehub/releases/tag/%s", version)
	default:
		return fmt.Sprintf(
			"go install -ldflags \"-X main.Version=%s\" github.com/marcus/notehub/cmd/notehub@%s",
			version, version,
		)
	}
}

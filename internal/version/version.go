// Package version reports the build version of umidoc.
package version

import (
	"path"
	"runtime/debug"
	"strings"
	"time"
)

const defaultModule = "pkt.systems/umidoc"

// buildVersion is set via -ldflags "-X pkt.systems/umidoc/internal/version.buildVersion=...".
var buildVersion = ""

// Info describes the running build.
type Info struct {
	Module   string
	Version  string
	Revision string
	Dirty    bool
}

// Read collects build information from ldflags and the embedded build info.
func Read() Info {
	info := Info{Module: defaultModule, Version: "v0.0.0-unknown"}
	bi, ok := debug.ReadBuildInfo()
	if ok {
		if p := strings.TrimSpace(bi.Main.Path); p != "" {
			info.Module = p
		}
		info.Revision, info.Dirty = vcsState(bi)
		if v := strings.TrimSpace(bi.Main.Version); v != "" && v != "(devel)" {
			info.Version = v
		} else if v := pseudoFromBuildInfo(bi, true); v != "" {
			info.Version = v
		}
	}
	if v := strings.TrimSpace(buildVersion); v != "" {
		info.Version = v
	}
	if strings.HasSuffix(info.Version, "+dirty") {
		info.Dirty = true
	}
	return info
}

// Current returns the best available version string without a dirty suffix.
func Current() string {
	return strings.TrimSuffix(Read().Version, "+dirty")
}

// CurrentWithDirty returns the best available version string including a
// dirty suffix when the build tree was modified.
func CurrentWithDirty() string {
	return Read().Version
}

// Module returns the module path.
func Module() string {
	return Read().Module
}

// String renders the build as "<module> <version>", followed by the short
// VCS revision and a dirty marker when known.
func (i Info) String() string {
	out := i.Module + " " + strings.TrimSuffix(i.Version, "+dirty")
	var extra []string
	if i.Revision != "" {
		rev := i.Revision
		if len(rev) > 12 {
			rev = rev[:12]
		}
		extra = append(extra, "revision "+rev)
	}
	if i.Dirty {
		extra = append(extra, "dirty")
	}
	if len(extra) > 0 {
		out += " (" + strings.Join(extra, ", ") + ")"
	}
	return out
}

// UserAgent identifies umidoc in control requests, e.g. "umidoc/v1.2.0".
func UserAgent() string {
	return path.Base(Module()) + "/" + Current()
}

func vcsState(info *debug.BuildInfo) (string, bool) {
	var revision string
	var modified bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}
	return revision, modified
}

func pseudoFromBuildInfo(info *debug.BuildInfo, includeDirty bool) string {
	if info == nil {
		return ""
	}
	revision, modified := vcsState(info)
	var vcsTime string
	for _, setting := range info.Settings {
		if setting.Key == "vcs.time" {
			vcsTime = setting.Value
		}
	}
	if revision == "" || vcsTime == "" {
		return ""
	}
	parsed, err := time.Parse(time.RFC3339, vcsTime)
	if err != nil {
		return ""
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}
	ver := "v0.0.0-" + parsed.UTC().Format("20060102150405") + "-" + revision
	if modified && includeDirty {
		ver += "+dirty"
	}
	return ver
}

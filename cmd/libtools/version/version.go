// Package version resolves the libtools build version from ldflags or the
// Go build info.
package version

import (
	"context"
	"runtime/debug"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/maranomynet/libtools/pkg/ui"
)

// Version can be set at build time via:
//
//	-ldflags "-X github.com/maranomynet/libtools/cmd/libtools/version.Version=v0.3.0"
var Version = "dev" //nolint:gochecknoglobals // Populated by ldflags.

// Commit is the git commit hash, settable via -ldflags like Version.
var Commit = "" //nolint:gochecknoglobals // Populated by ldflags.

// BuildDate is the RFC3339 build timestamp, settable via -ldflags like Version.
var BuildDate = "" //nolint:gochecknoglobals // Populated by ldflags.

func buildSetting(key string) string {
	bi, ok := debug.ReadBuildInfo()
	if !ok || bi == nil {
		return ""
	}
	for _, s := range bi.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}

// EffectiveVersion returns, in order of preference: the ldflags Version,
// the module version from "go install module@version", the VCS revision
// (with "-dirty" for modified trees), or "dev".
func EffectiveVersion(_ context.Context) string {
	if v := strings.TrimSpace(Version); v != "" && v != "dev" {
		return v
	}

	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		if mv := strings.TrimSpace(bi.Main.Version); mv != "" && mv != "(devel)" {
			return mv
		}
	}

	if rev := buildSetting("vcs.revision"); rev != "" {
		if buildSetting("vcs.modified") == "true" {
			rev += "-dirty"
		}
		return rev
	}

	return "dev"
}

// EffectiveCommit returns the ldflags Commit or the VCS revision.
func EffectiveCommit(_ context.Context) string {
	if c := strings.TrimSpace(Commit); c != "" {
		return c
	}
	return buildSetting("vcs.revision")
}

// EffectiveBuildTime parses the ldflags BuildDate or the VCS commit time.
func EffectiveBuildTime() (time.Time, bool) {
	for _, raw := range []string{strings.TrimSpace(BuildDate), buildSetting("vcs.time")} {
		if raw == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func versionParts(ctx context.Context) []string {
	parts := []string{EffectiveVersion(ctx)}
	if c := EffectiveCommit(ctx); c != "" && c != parts[0] {
		parts = append(parts, c)
	}
	if t, ok := EffectiveBuildTime(); ok {
		parts = append(parts, t.In(time.Local).Format(time.RFC3339))
	}
	return parts
}

// OverallVersionString joins version, commit and build time with "-".
func OverallVersionString(ctx context.Context) string {
	return strings.Join(versionParts(ctx), "-")
}

// OverallVersionStringColorized is OverallVersionString in fang's colors.
func OverallVersionStringColorized(ctx context.Context) string {
	cs := ui.GetFangScheme()
	styles := []lipgloss.Style{
		lipgloss.NewStyle().Foreground(cs.QuotedString),
		lipgloss.NewStyle().Foreground(cs.Program),
		lipgloss.NewStyle().Foreground(cs.Flag),
	}
	sep := lipgloss.NewStyle().Foreground(cs.Base).Render("-")

	parts := versionParts(ctx)
	for i := range parts {
		parts[i] = styles[i].Render(parts[i])
	}
	return strings.Join(parts, sep)
}

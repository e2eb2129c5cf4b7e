package version

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func setVars(t *testing.T, version, commit, date string) {
	t.Helper()
	oldV, oldC, oldD := Version, Commit, BuildDate
	Version, Commit, BuildDate = version, commit, date
	t.Cleanup(func() { Version, Commit, BuildDate = oldV, oldC, oldD })
}

func TestEffectiveVersion_Ldflags(t *testing.T) {
	setVars(t, "v1.2.3", "abc123", "2025-01-02T03:04:05Z")

	assert.Equal(t, "v1.2.3", EffectiveVersion(t.Context()))
	assert.Equal(t, "abc123", EffectiveCommit(t.Context()))

	bt, ok := EffectiveBuildTime()
	assert.True(t, ok)
	assert.True(t, bt.Equal(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)))

	assert.True(t, strings.HasPrefix(OverallVersionString(t.Context()), "v1.2.3-abc123-"))
}

func TestEffectiveVersion_Dev(t *testing.T) {
	setVars(t, "dev", "", "")

	// test binaries carry no module version, so this falls through to
	// vcs.revision or "dev"
	assert.NotEmpty(t, EffectiveVersion(t.Context()))
}

func TestEffectiveBuildTime_Invalid(t *testing.T) {
	setVars(t, "v1.0.0", "c", "yesterday")

	if _, ok := EffectiveBuildTime(); ok {
		// only possible when the test binary carries vcs.time
		assert.NotEmpty(t, OverallVersionString(t.Context()))
	}
}

func TestOverallVersionStringColorized(t *testing.T) {
	setVars(t, "v9.9.9", "", "")
	assert.Contains(t, OverallVersionStringColorized(t.Context()), "v9.9.9")
}

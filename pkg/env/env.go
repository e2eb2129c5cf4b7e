// Package env reads the boolean switches libtools takes from the process
// environment and decides whether the operator can be prompted.
package env

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
)

// NonInteractiveEnv disables all prompts when set to a truthy value.
const NonInteractiveEnv = "LIBTOOLS_NON_INTERACTIVE"

// ErrInvalidBool is returned when a string cannot be parsed as a boolean.
var ErrInvalidBool = errors.New("invalid boolean value")

// ParseBool interprets a string as a boolean after trimming and lowercasing.
// "true", "yes", "y" and "1" are true. "false", "no", "n", "0" and the empty
// string are false. Anything else returns ErrInvalidBool.
func ParseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "yes", "y", "1":
		return true, nil
	case "", "false", "no", "n", "0":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrInvalidBool, value)
	}
}

// FailsafeParseBoolEnv reads an environment variable and parses it as a
// boolean. It returns defaultValue if the variable is unset, empty, or
// contains an invalid value.
func FailsafeParseBoolEnv(envVar string, defaultValue bool) bool {
	v, ok := os.LookupEnv(envVar)
	if !ok || strings.TrimSpace(v) == "" {
		return defaultValue
	}

	b, err := ParseBool(v)
	if err != nil {
		return defaultValue
	}

	return b
}

type ciVar struct {
	name string
	// presence means any non-empty value counts, not just truthy ones.
	presence bool
}

//nolint:gochecknoglobals // package-level lookup table for CI detection
var ciVars = []ciVar{
	{name: "CI"},
	{name: "GITHUB_ACTIONS"},
	{name: "GITLAB_CI"},
	{name: "CIRCLECI"},
	{name: "BUILDKITE"},
	{name: "JENKINS_URL", presence: true},
}

// CIEnvVarNames returns every environment variable that InCI checks, so that
// tests in other packages can clear them.
func CIEnvVarNames() []string {
	return lo.Map(ciVars, func(v ciVar, _ int) string { return v.name })
}

// InCI reports whether the process appears to be running in a CI environment.
func InCI() bool {
	return lo.SomeBy(ciVars, func(v ciVar) bool {
		if v.presence {
			return os.Getenv(v.name) != ""
		}
		return FailsafeParseBoolEnv(v.name, false)
	})
}

// Interactive reports whether prompts may wait for operator input. It is
// false in CI and when NonInteractiveEnv is set.
func Interactive() bool {
	return !InCI() && !FailsafeParseBoolEnv(NonInteractiveEnv, false)
}

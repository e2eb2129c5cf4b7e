package config

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/maranomynet/libtools/pkg/changelog"
	"github.com/maranomynet/libtools/pkg/npmlib"
	"github.com/maranomynet/libtools/pkg/publish"
	"github.com/maranomynet/libtools/pkg/runner"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Field   string
	Message string
}

func (w ValidationWarning) String() string {
	return fmt.Sprintf("config warning: %s: %s", w.Field, w.Message)
}

// ValidationResults holds the results of configuration validation.
type ValidationResults struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// HasErrors returns true if there are validation errors.
func (r ValidationResults) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are validation warnings.
func (r ValidationResults) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// ErrorMessage returns a combined error message for all validation errors.
func (r ValidationResults) ErrorMessage() string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

// WriteWarnings writes all warnings to the given writer.
func (r ValidationResults) WriteWarnings(w io.Writer) {
	for _, warn := range r.Warnings {
		_, _ = fmt.Fprintln(w, warn.String())
	}
}

func (r *ValidationResults) fail(field, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResults) warn(field, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationWarning{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Validate checks the configuration. Errors are values that would break a
// run, warnings are values that are probably mistakes.
func (c *Config) Validate() ValidationResults {
	var result ValidationResults

	if c.Runner != "" && !runner.Runner(c.Runner).Valid() {
		result.fail("runner", "invalid runner %q, must be one of: npm, yarn, bun", c.Runner)
	}

	if _, err := npmlib.ParseModuleType(c.ModuleType); err != nil {
		result.fail("module_type", "invalid module type %q, must be one of: both, commonjs, esm", c.ModuleType)
	}

	switch c.HeadingPolicy {
	case HeadingPolicyFirst, HeadingPolicySkip:
	default:
		result.fail("heading_policy", "invalid policy %q, must be %q or %q", c.HeadingPolicy, HeadingPolicyFirst, HeadingPolicySkip)
	}

	switch c.EmptyVersion {
	case EmptyVersionInvalid, EmptyVersionInitial:
	default:
		result.fail("empty_version", "invalid value %q, must be %q or %q", c.EmptyVersion, EmptyVersionInvalid, EmptyVersionInitial)
	}

	if strings.TrimSpace(c.VersionKey) == "" {
		result.fail("version_key", "must not be empty")
	}

	if c.DistDir == "" || c.DistDir == "." || c.DistDir == c.SrcDir {
		result.fail("dist_dir", "%q would delete the sources on build", c.DistDir)
	}

	if c.Publish.Tag != "" {
		if err := changelog.ValidatePreReleaseName(c.Publish.Tag); err != nil {
			result.fail("publish.tag", "%v", err)
		} else if _, err := semver.NewConstraint(c.Publish.Tag); err == nil {
			result.fail("publish.tag", "%q looks like a version range, which npm refuses as a tag", c.Publish.Tag)
		}
	}

	if u, err := url.Parse(c.Publish.Registry); err != nil || u.Scheme == "" || u.Host == "" {
		result.fail("publish.registry", "invalid URL %q", c.Publish.Registry)
	}

	suffixes := []struct{ field, value string }{
		{"changelog_suffix", c.ChangelogSuffix},
		{"pkg_json_suffix", c.PkgJSONSuffix},
		{"readme_suffix", c.ReadmeSuffix},
	}
	for _, suffix := range suffixes {
		if strings.ContainsAny(suffix.value, `/\`) {
			result.warn(suffix.field, "suffix %q contains a path separator", suffix.value)
		}
	}

	if c.Publish.CheckRegistry && c.Publish.Registry != publish.DefaultRegistry {
		result.warn("publish.registry", "registry checks against %s assume npm-compatible metadata", c.Publish.Registry)
	}

	return result
}

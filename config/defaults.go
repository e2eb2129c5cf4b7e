package config

import (
	"github.com/spf13/viper"

	"github.com/maranomynet/libtools/pkg/manifest"
	"github.com/maranomynet/libtools/pkg/npmlib"
	"github.com/maranomynet/libtools/pkg/publish"
)

// Heading policy and empty-version names accepted in config files.
const (
	HeadingPolicyFirst = "first"
	HeadingPolicySkip  = "skip"

	EmptyVersionInvalid = "invalid"
	EmptyVersionInitial = "initial"
)

// Default configuration values.
const (
	DefaultRoot          = "."
	DefaultModuleType    = "both"
	DefaultHeadingPolicy = HeadingPolicyFirst
	DefaultEmptyVersion  = EmptyVersionInvalid
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("root", DefaultRoot)
	v.SetDefault("src_dir", npmlib.DefaultSrcDir)
	v.SetDefault("dist_dir", npmlib.DefaultDistDir)
	v.SetDefault("runner", "")
	v.SetDefault("module_type", DefaultModuleType)
	v.SetDefault("changelog_suffix", "")
	v.SetDefault("pkg_json_suffix", "")
	v.SetDefault("readme_suffix", "")
	v.SetDefault("version_key", manifest.DefaultVersionKey)
	v.SetDefault("heading_policy", DefaultHeadingPolicy)
	v.SetDefault("empty_version", DefaultEmptyVersion)
	v.SetDefault("strict_prefixes", false)
	v.SetDefault("zero_major_unstable", false)
	v.SetDefault("offer_date_shift", false)
	v.SetDefault("tsconfigs", []string{})
	v.SetDefault("verify_git", false)
	v.SetDefault("publish.tag", "")
	v.SetDefault("publish.show_name", false)
	v.SetDefault("publish.registry", publish.DefaultRegistry)
	v.SetDefault("publish.check_registry", true)
}

// defaultConfigYAML is what "libtools config init" writes.
func defaultConfigYAML() string {
	return `# libtools configuration

# Project root, relative to the working directory.
root: .

# Where the TypeScript sources live and where the library is built.
src_dir: src
dist_dir: _npm-lib

# npm, yarn or bun. Detected from the lock file when empty.
runner: ""

# both, commonjs or esm.
module_type: both

# Suffixes for package<suffix>.json, README<suffix>.md and CHANGELOG<suffix>.md.
changelog_suffix: ""
pkg_json_suffix: ""
readme_suffix: ""

# package.json key holding the version.
version_key: version

# first: only the first "## " heading counts. skip: look past invalid ones.
heading_policy: first
# invalid or initial: how an empty "## " heading is read.
empty_version: invalid

# Recognize "perf:" bullets.
strict_prefixes: false
# Breaking changes on 0.x bump the minor number.
zero_major_unstable: false
# Ask for a release date offset when bumping.
offer_date_shift: false
# Compare the new version with the conventional commits in git.
verify_git: false

# Extra tsconfig folders for "libtools typecheck".
tsconfigs: []

publish:
  tag: ""
  show_name: false
  registry: https://registry.npmjs.org
  check_registry: true
`
}

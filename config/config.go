package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/maranomynet/libtools/pkg/changelog"
	"github.com/maranomynet/libtools/pkg/npmlib"
	"github.com/maranomynet/libtools/pkg/runner"
)

// EnvPrefix prefixes every environment override, e.g. LIBTOOLS_DIST_DIR
// or LIBTOOLS_PUBLISH_TAG.
const EnvPrefix = "LIBTOOLS"

// PublishConfig holds the publish.* keys.
type PublishConfig struct {
	Tag           string `mapstructure:"tag" yaml:"tag"`
	ShowName      bool   `mapstructure:"show_name" yaml:"show_name"`
	Registry      string `mapstructure:"registry" yaml:"registry"`
	CheckRegistry bool   `mapstructure:"check_registry" yaml:"check_registry"`
}

// Config holds all libtools configuration values.
type Config struct {
	Root       string `mapstructure:"root" yaml:"root"`
	SrcDir     string `mapstructure:"src_dir" yaml:"src_dir"`
	DistDir    string `mapstructure:"dist_dir" yaml:"dist_dir"`
	Runner     string `mapstructure:"runner" yaml:"runner"`
	ModuleType string `mapstructure:"module_type" yaml:"module_type"`

	ChangelogSuffix string `mapstructure:"changelog_suffix" yaml:"changelog_suffix"`
	PkgJSONSuffix   string `mapstructure:"pkg_json_suffix" yaml:"pkg_json_suffix"`
	ReadmeSuffix    string `mapstructure:"readme_suffix" yaml:"readme_suffix"`
	VersionKey      string `mapstructure:"version_key" yaml:"version_key"`

	HeadingPolicy     string `mapstructure:"heading_policy" yaml:"heading_policy"`
	EmptyVersion      string `mapstructure:"empty_version" yaml:"empty_version"`
	StrictPrefixes    bool   `mapstructure:"strict_prefixes" yaml:"strict_prefixes"`
	ZeroMajorUnstable bool   `mapstructure:"zero_major_unstable" yaml:"zero_major_unstable"`
	OfferDateShift    bool   `mapstructure:"offer_date_shift" yaml:"offer_date_shift"`
	VerifyGit         bool   `mapstructure:"verify_git" yaml:"verify_git"`

	TSConfigs []string `mapstructure:"tsconfigs" yaml:"tsconfigs"`

	Publish PublishConfig `mapstructure:"publish" yaml:"publish"`

	// configFiles lists the files that were merged, in load order.
	configFiles []string
}

// ConfigFiles returns the configuration files that were loaded, in order.
func (c *Config) ConfigFiles() []string {
	return c.configFiles
}

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	// ProjectDir is the directory to search for libtools.yaml.
	// If empty, the current working directory is used.
	ProjectDir string

	// Stderr is where warnings are written. If nil, os.Stderr is used.
	Stderr io.Writer

	SkipProjectConfig bool
	SkipUserConfig    bool
	SkipEnv           bool
}

// Load reads configuration from all sources. Later sources override earlier:
//  1. Defaults
//  2. User config file (~/.config/libtools/config.yaml)
//  3. Project config file (./libtools.yaml)
//  4. LIBTOOLS_* environment variables
//
// If opts is nil, default options are used.
func Load(opts *LoadOptions) (*Config, error) {
	if opts == nil {
		opts = &LoadOptions{}
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")

	var files []string

	if !opts.SkipUserConfig {
		v.SetConfigName(ConfigFileName)
		v.AddConfigPath(ResolveXDGPaths().ConfigDir())

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read user config file: %w", err)
			}
		} else {
			files = append(files, v.ConfigFileUsed())
		}
	}

	if !opts.SkipProjectConfig {
		projectDir := opts.ProjectDir
		if projectDir == "" {
			var err error
			if projectDir, err = os.Getwd(); err != nil {
				return nil, fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		projectConfigPath := filepath.Join(projectDir, ProjectConfigFileName+".yaml")
		if _, err := os.Stat(projectConfigPath); err == nil {
			v.SetConfigFile(projectConfigPath)
			if err := v.MergeInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read project config file: %w", err)
			}
			files = append(files, projectConfigPath)
		}
	}

	if !opts.SkipEnv {
		v.SetEnvPrefix(EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.configFiles = files

	result := cfg.Validate()
	if result.HasWarnings() {
		result.WriteWarnings(opts.Stderr)
	}
	if result.HasErrors() {
		return nil, errors.New(result.ErrorMessage())
	}

	return &cfg, nil
}

// DefaultConfig returns a Config with all default values.
func DefaultConfig() *Config {
	cfg, err := Load(&LoadOptions{SkipUserConfig: true, SkipProjectConfig: true, SkipEnv: true})
	if err != nil {
		panic(fmt.Sprintf("default config is invalid: %v", err))
	}
	return cfg
}

// WriteDefaultConfig writes the default configuration to path, or to the
// user config file when path is empty. An existing file is never replaced.
func WriteDefaultConfig(path string) (string, error) {
	if path == "" {
		path = ResolveXDGPaths().ConfigFilePath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config file already exists: %s", path)
	}

	if err := os.WriteFile(path, []byte(defaultConfigYAML()), 0o600); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return path, nil
}

// ExtractOptions maps the heading keys to changelog options.
func (c *Config) ExtractOptions() changelog.ExtractOptions {
	var opts changelog.ExtractOptions
	if c.HeadingPolicy == HeadingPolicySkip {
		opts.Headings = changelog.SkipInvalidHeadings
	}
	if c.EmptyVersion == EmptyVersionInitial {
		opts.EmptyVersion = changelog.EmptyIsInitial
	}
	return opts
}

// ClassifyOptions maps strict_prefixes to changelog options.
func (c *Config) ClassifyOptions() changelog.ClassifyOptions {
	return changelog.ClassifyOptions{Strict: c.StrictPrefixes}
}

// RunnerFor returns the configured runner, or the one detected in root.
func (c *Config) RunnerFor(root string) runner.Runner {
	return runner.Parse(c.Runner, runner.Detect(root))
}

// ModuleTypeValue parses module_type. Validate has already rejected bad
// values, so the error is only possible on hand-built configs.
func (c *Config) ModuleTypeValue() (npmlib.ModuleType, error) {
	return npmlib.ParseModuleType(c.ModuleType)
}

package config

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/maranomynet/libtools/pkg/changelog"
	"github.com/maranomynet/libtools/pkg/npmlib"
)

func loadIsolated(t *testing.T, opts LoadOptions) *Config {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if opts.ProjectDir == "" {
		opts.ProjectDir = t.TempDir()
	}
	cfg, err := Load(&opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	cfg := loadIsolated(t, LoadOptions{SkipEnv: true})

	if cfg.Root != DefaultRoot {
		t.Errorf("Root = %q, want %q", cfg.Root, DefaultRoot)
	}
	if cfg.SrcDir != npmlib.DefaultSrcDir || cfg.DistDir != npmlib.DefaultDistDir {
		t.Errorf("dirs = %q/%q", cfg.SrcDir, cfg.DistDir)
	}
	if cfg.VersionKey != "version" {
		t.Errorf("VersionKey = %q, want version", cfg.VersionKey)
	}
	if !cfg.Publish.CheckRegistry {
		t.Error("publish.check_registry should default to true")
	}
	if len(cfg.ConfigFiles()) != 0 {
		t.Errorf("ConfigFiles() = %v, want none", cfg.ConfigFiles())
	}
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("LIBTOOLS_DIST_DIR", "out")
	t.Setenv("LIBTOOLS_ZERO_MAJOR_UNSTABLE", "true")
	t.Setenv("LIBTOOLS_PUBLISH_TAG", "next")

	cfg := loadIsolated(t, LoadOptions{})

	if cfg.DistDir != "out" {
		t.Errorf("DistDir = %q, want out", cfg.DistDir)
	}
	if !cfg.ZeroMajorUnstable {
		t.Error("ZeroMajorUnstable should be true from LIBTOOLS_ZERO_MAJOR_UNSTABLE")
	}
	if cfg.Publish.Tag != "next" {
		t.Errorf("Publish.Tag = %q, want next", cfg.Publish.Tag)
	}
}

func TestLoad_SkipEnv(t *testing.T) {
	t.Setenv("LIBTOOLS_DIST_DIR", "out")

	cfg := loadIsolated(t, LoadOptions{SkipEnv: true})
	if cfg.DistDir != npmlib.DefaultDistDir {
		t.Errorf("DistDir = %q, want the default", cfg.DistDir)
	}
}

func TestLoad_Layers(t *testing.T) {
	xdg := t.TempDir()
	userDir := filepath.Join(xdg, AppName)
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		t.Fatal(err)
	}
	userFile := filepath.Join(userDir, "config.yaml")
	if err := os.WriteFile(userFile, []byte("runner: yarn\nchangelog_suffix: -user\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	project := t.TempDir()
	projectFile := filepath.Join(project, "libtools.yaml")
	projectYAML := "changelog_suffix: -proj\ntsconfigs: [api, web]\npublish:\n  show_name: true\n"
	if err := os.WriteFile(projectFile, []byte(projectYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("LIBTOOLS_RUNNER", "bun")

	cfg, err := Load(&LoadOptions{ProjectDir: project})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Runner != "bun" {
		t.Errorf("Runner = %q, want bun from the environment", cfg.Runner)
	}
	if cfg.ChangelogSuffix != "-proj" {
		t.Errorf("ChangelogSuffix = %q, want the project value", cfg.ChangelogSuffix)
	}
	if !reflect.DeepEqual(cfg.TSConfigs, []string{"api", "web"}) {
		t.Errorf("TSConfigs = %v", cfg.TSConfigs)
	}
	if !cfg.Publish.ShowName {
		t.Error("Publish.ShowName should be true from project config")
	}
	if !reflect.DeepEqual(cfg.ConfigFiles(), []string{userFile, projectFile}) {
		t.Errorf("ConfigFiles() = %v", cfg.ConfigFiles())
	}
}

func TestLoad_InvalidProjectConfig(t *testing.T) {
	project := t.TempDir()
	if err := os.WriteFile(filepath.Join(project, "libtools.yaml"), []byte("module_type: umd\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	_, err := Load(&LoadOptions{ProjectDir: project, SkipEnv: true})
	if err == nil || !strings.Contains(err.Error(), "module_type") {
		t.Fatalf("Load() error = %v, want a module_type error", err)
	}
}

func TestLoad_WarningsGoToStderr(t *testing.T) {
	project := t.TempDir()
	if err := os.WriteFile(filepath.Join(project, "libtools.yaml"), []byte("readme_suffix: a/b\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var stderr bytes.Buffer
	loadIsolated(t, LoadOptions{ProjectDir: project, SkipEnv: true, Stderr: &stderr})

	if !strings.Contains(stderr.String(), "readme_suffix") {
		t.Errorf("stderr = %q, want a readme_suffix warning", stderr.String())
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"valid defaults", func(*Config) {}, ""},
		{"bad runner", func(c *Config) { c.Runner = "pnpm" }, "runner"},
		{"bad module type", func(c *Config) { c.ModuleType = "umd" }, "module_type"},
		{"bad heading policy", func(c *Config) { c.HeadingPolicy = "all" }, "heading_policy"},
		{"bad empty version", func(c *Config) { c.EmptyVersion = "zero" }, "empty_version"},
		{"empty version key", func(c *Config) { c.VersionKey = " " }, "version_key"},
		{"dist is src", func(c *Config) { c.DistDir = c.SrcDir }, "dist_dir"},
		{"dist is root", func(c *Config) { c.DistDir = "." }, "dist_dir"},
		{"tag with capitals", func(c *Config) { c.Publish.Tag = "Beta" }, "publish.tag"},
		{"tag that is a range", func(c *Config) { c.Publish.Tag = "1.x" }, "publish.tag"},
		{"valid tag", func(c *Config) { c.Publish.Tag = "next" }, ""},
		{"bad registry", func(c *Config) { c.Publish.Registry = "registry" }, "publish.registry"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			result := cfg.Validate()
			if tt.wantField == "" {
				if result.HasErrors() {
					t.Fatalf("unexpected errors: %s", result.ErrorMessage())
				}
				return
			}
			if len(result.Errors) != 1 || result.Errors[0].Field != tt.wantField {
				t.Fatalf("errors = %v, want one on %s", result.Errors, tt.wantField)
			}
		})
	}
}

func TestConfig_Options(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.ExtractOptions(); got != (changelog.ExtractOptions{}) {
		t.Errorf("default ExtractOptions = %+v, want zero value", got)
	}

	cfg.HeadingPolicy = HeadingPolicySkip
	cfg.EmptyVersion = EmptyVersionInitial
	cfg.StrictPrefixes = true
	want := changelog.ExtractOptions{Headings: changelog.SkipInvalidHeadings, EmptyVersion: changelog.EmptyIsInitial}
	if got := cfg.ExtractOptions(); got != want {
		t.Errorf("ExtractOptions = %+v, want %+v", got, want)
	}
	if !cfg.ClassifyOptions().Strict {
		t.Error("ClassifyOptions().Strict should follow strict_prefixes")
	}

	cfg.ModuleType = "esm"
	if mt, err := cfg.ModuleTypeValue(); err != nil || mt != npmlib.ESM {
		t.Errorf("ModuleTypeValue() = %v, %v", mt, err)
	}

	cfg.Runner = "yarn"
	if r := cfg.RunnerFor(t.TempDir()); r.String() != "yarn" {
		t.Errorf("RunnerFor() = %q, want yarn", r)
	}
	cfg.Runner = ""
	if r := cfg.RunnerFor(t.TempDir()); r.String() != "npm" {
		t.Errorf("RunnerFor() = %q, want the detected npm", r)
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "libtools.yaml")

	got, err := WriteDefaultConfig(path)
	if err != nil {
		t.Fatalf("WriteDefaultConfig() error = %v", err)
	}
	if got != path {
		t.Errorf("path = %q, want %q", got, path)
	}

	cfg, err := Load(&LoadOptions{ProjectDir: filepath.Dir(path), SkipUserConfig: true, SkipEnv: true})
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if len(cfg.TSConfigs) != 0 {
		t.Errorf("TSConfigs = %v", cfg.TSConfigs)
	}

	if _, err := WriteDefaultConfig(path); err == nil {
		t.Error("second write should refuse to overwrite")
	}
}

func TestValidationResults_WriteWarnings(t *testing.T) {
	result := ValidationResults{
		Warnings: []ValidationWarning{
			{Field: "test", Message: "warning 1"},
			{Field: "test2", Message: "warning 2"},
		},
	}

	var buf bytes.Buffer
	result.WriteWarnings(&buf)

	want := "config warning: test: warning 1\nconfig warning: test2: warning 2\n"
	if buf.String() != want {
		t.Errorf("WriteWarnings() = %q, want %q", buf.String(), want)
	}
}

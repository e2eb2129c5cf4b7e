// Package manifest reads and updates package.json files and derives the
// manifest that is published with the built library.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// DefaultVersionKey is the manifest key holding the package version.
const DefaultVersionKey = "version"

var (
	// ErrNotJSON is returned for manifest paths that do not end in ".json".
	ErrNotJSON = errors.New("manifest path does not end with .json")

	// ErrInvalidVersion is returned when the version key does not hold a
	// semantic version string.
	ErrInvalidVersion = errors.New("invalid version value")
)

// Manifest is a parsed package.json together with its source bytes.
type Manifest struct {
	Path   string
	Source []byte
	Object *Object
}

// Read parses the manifest at path.
func Read(path string) (*Manifest, error) {
	if !strings.HasSuffix(path, ".json") {
		return nil, fmt.Errorf("%w: %q", ErrNotJSON, path)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	obj := NewObject()
	if err := json.Unmarshal(source, obj); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return &Manifest{Path: path, Source: source, Object: obj}, nil
}

// Name returns the package name, or "" when it has none.
func (m *Manifest) Name() string {
	name, _ := m.Object.String("name")
	return name
}

// Version returns the semver-validated value of key.
func (m *Manifest) Version(key string) (*semver.Version, error) {
	if key == "" {
		key = DefaultVersionKey
	}

	value, ok := m.Object.String(key)
	if !ok {
		raw, _ := m.Object.Raw(key)
		return nil, fmt.Errorf("%w: '%s' in '%s': %s", ErrInvalidVersion, key, m.Path, describeRaw(raw))
	}

	version, err := semver.StrictNewVersion(value)
	if err != nil {
		return nil, fmt.Errorf("%w: '%s' in '%s': %q: %w", ErrInvalidVersion, key, m.Path, value, err)
	}

	return version, nil
}

func describeRaw(raw json.RawMessage) string {
	if raw == nil {
		return "undefined"
	}
	return string(raw)
}

// GetVersion reads the manifest at path and returns the version stored under
// key, exactly as written.
func GetVersion(path, key string) (string, error) {
	m, err := Read(path)
	if err != nil {
		return "", err
	}

	version, err := m.Version(key)
	if err != nil {
		return "", err
	}

	return version.Original(), nil
}

// WithVersion returns the manifest source with the top-level key set to
// version. An existing value is replaced in place so that the rest of the
// file keeps its formatting. A missing key is appended and the file is
// re-indented with two spaces.
func (m *Manifest) WithVersion(key, version string) ([]byte, error) {
	if key == "" {
		key = DefaultVersionKey
	}

	quoted, err := json.Marshal(version)
	if err != nil {
		return nil, err
	}

	start, end, found, err := topLevelValueSpan(m.Source, key)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", m.Path, err)
	}
	if found {
		var out bytes.Buffer
		out.Write(m.Source[:start])
		out.Write(quoted)
		out.Write(m.Source[end:])
		return out.Bytes(), nil
	}

	obj := m.Object.Clone()
	obj.SetRaw(key, quoted)

	return obj.Indent("  ")
}

// topLevelValueSpan locates the raw bytes of the value stored under a
// top-level key.
func topLevelValueSpan(source []byte, key string) (int, int, bool, error) {
	dec := json.NewDecoder(bytes.NewReader(source))

	if _, err := dec.Token(); err != nil {
		return 0, 0, false, err
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return 0, 0, false, err
		}
		afterKey := int(dec.InputOffset())

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return 0, 0, false, err
		}
		if tok != key {
			continue
		}

		end := int(dec.InputOffset())
		start := afterKey + bytes.IndexByte(source[afterKey:end], raw[0])

		return start, end, true, nil
	}

	return 0, 0, false, nil
}

// SetVersion writes version under key in the manifest at path. writeFile is
// called with the new content, which lets callers honor dry-run.
func SetVersion(path, key, version string, writeFile func(path string, data []byte) error) error {
	m, err := Read(path)
	if err != nil {
		return err
	}

	updated, err := m.WithVersion(key, version)
	if err != nil {
		return err
	}

	return writeFile(path, updated)
}

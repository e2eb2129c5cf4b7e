package npmlib

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/maranomynet/libtools/pkg/fsutils"
)

// BuildTSConfig is the tsconfig file that drives the library build.
const BuildTSConfig = "tsconfig.build.json"

// ErrNoIncludePatterns is returned when the build tsconfig has an empty
// "include" list.
var ErrNoIncludePatterns = errors.New("no include patterns found")

// TSConfig holds the parts of a tsconfig file the build reads.
type TSConfig struct {
	Include []string `json:"include"`
	Exclude []string `json:"exclude"`
}

// ReadTSConfig parses the tsconfig file at path.
func ReadTSConfig(path string) (*TSConfig, error) {
	if !strings.HasSuffix(path, ".json") {
		return nil, fmt.Errorf("%q does not end with .json", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tsconfig: %w", err)
	}

	var cfg TSConfig
	if err := json.Unmarshal(standardizeJSON(data), &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(cfg.Include) == 0 {
		return nil, fmt.Errorf("%w in %q", ErrNoIncludePatterns, path)
	}

	return &cfg, nil
}

// standardizeJSON turns tsconfig's JSON-with-comments into plain JSON. Line
// and block comments become spaces, and commas before a closing bracket are
// dropped. String contents are left untouched.
func standardizeJSON(data []byte) []byte {
	out := make([]byte, 0, len(data))
	pendingComma := -1

	for i := 0; i < len(data); i++ {
		c := data[i]
		switch {
		case c == '"':
			pendingComma = -1
			end := i + 1
			for end < len(data) && data[end] != '"' {
				if data[end] == '\\' {
					end++
				}
				end++
			}
			end = min(end, len(data)-1)
			out = append(out, data[i:end+1]...)
			i = end
		case c == '/' && i+1 < len(data) && data[i+1] == '/':
			for i < len(data) && data[i] != '\n' {
				out = append(out, ' ')
				i++
			}
			i--
		case c == '/' && i+1 < len(data) && data[i+1] == '*':
			end := bytes.Index(data[i+2:], []byte("*/"))
			stop := len(data)
			if end >= 0 {
				stop = i + 2 + end + 2
			}
			for ; i < stop; i++ {
				if data[i] == '\n' {
					out = append(out, '\n')
				} else {
					out = append(out, ' ')
				}
			}
			i--
		case c == ',':
			pendingComma = len(out)
			out = append(out, c)
		case c == '}' || c == ']':
			if pendingComma >= 0 {
				out[pendingComma] = ' '
				pendingComma = -1
			}
			out = append(out, c)
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			out = append(out, c)
		default:
			pendingComma = -1
			out = append(out, c)
		}
	}

	return out
}

// EntryPoints expands the include/exclude globs below root and returns the
// matches relative to srcDir.
func (c *TSConfig) EntryPoints(root, srcDir string) ([]string, error) {
	files, err := fsutils.Glob(root, c.Include, c.Exclude)
	if err != nil {
		return nil, err
	}

	prefix := strings.Trim(srcDir, "/") + "/"
	entries := make([]string, 0, len(files))
	for _, f := range files {
		entries = append(entries, strings.TrimPrefix(f, prefix))
	}

	return entries, nil
}

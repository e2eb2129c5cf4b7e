package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultRegistry is the public npm registry.
	DefaultRegistry = "https://registry.npmjs.org"
	defaultTimeout  = 10 * time.Second
	// abbreviated metadata: dist-tags and version keys only
	packumentAccept = "application/vnd.npm.install-v1+json; q=1.0, application/json; q=0.8"
)

// ErrPackageNotFound is returned when the registry has never seen the package.
var ErrPackageNotFound = errors.New("package not found in registry")

// Packument is the subset of the registry's package document needed for
// publish checks.
type Packument struct {
	Name     string                     `json:"name"`
	DistTags map[string]string          `json:"dist-tags"`
	Versions map[string]json.RawMessage `json:"versions"`
}

// HasVersion reports whether version has been published.
func (p *Packument) HasVersion(version string) bool {
	_, ok := p.Versions[version]
	return ok
}

// Latest returns the version behind the "latest" dist-tag.
func (p *Packument) Latest() string {
	return p.DistTags["latest"]
}

// RegistryClient fetches package metadata from an npm registry.
type RegistryClient struct {
	httpClient *http.Client
	baseURL    string
}

// RegistryClientOption configures a RegistryClient.
type RegistryClientOption func(*RegistryClient)

// WithBaseURL sets the registry URL. This is primarily useful for testing
// with httptest servers and for private registries.
func WithBaseURL(url string) RegistryClientOption {
	return func(c *RegistryClient) {
		if url != "" {
			c.baseURL = strings.TrimRight(url, "/")
		}
	}
}

// WithHTTPClient sets the HTTP client used for registry requests.
func WithHTTPClient(hc *http.Client) RegistryClientOption {
	return func(c *RegistryClient) {
		c.httpClient = hc
	}
}

// NewRegistryClient creates a RegistryClient for the public npm registry.
// Use functional options to override defaults.
func NewRegistryClient(opts ...RegistryClientOption) *RegistryClient {
	rc := &RegistryClient{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    DefaultRegistry,
	}

	for _, opt := range opts {
		opt(rc)
	}

	return rc
}

// FetchPackument queries the registry for the named package. Scoped names
// keep their "@" and have the slash escaped, as the registry expects.
func (c *RegistryClient) FetchPackument(ctx context.Context, name string) (*Packument, error) {
	endpoint := c.baseURL + "/" + url.PathEscape(name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", packumentAccept)

	resp, err := c.httpClient.Do(req) //nolint:gosec // URL built from configured registry
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrPackageNotFound, name)
	default:
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var doc Packument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &doc, nil
}

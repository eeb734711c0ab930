package urlstrategy

import (
	"net/url"
	"strings"
)

// BaseURLStrategy serves blobs below an arbitrary base URL, for local and
// filesystem deployments (e.g. http://localhost:8080/media/<key>)
type BaseURLStrategy struct {
	BaseURL string
	base    *url.URL
}

// NewBaseURLStrategy creates a base URL strategy. It returns nil when baseURL
// is not an absolute URL.
func NewBaseURLStrategy(baseURL string) *BaseURLStrategy {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil
	}
	return &BaseURLStrategy{BaseURL: baseURL, base: u}
}

func (s *BaseURLStrategy) Name() string { return "base-url" }

// PublicURL creates base + "/" + key
func (s *BaseURLStrategy) PublicURL(key string) string {
	return s.BaseURL + "/" + escapeKey(key)
}

// Match recognises URLs on the same scheme and host below the base path
func (s *BaseURLStrategy) Match(u *url.URL) (string, bool) {
	if !strings.EqualFold(u.Scheme, s.base.Scheme) || !strings.EqualFold(u.Host, s.base.Host) {
		return "", false
	}
	return keyFromPath(u, s.base.Path)
}

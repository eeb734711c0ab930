package urlstrategy

import (
	"net/url"
	"strings"
)

// CDNStrategy serves blobs from a content-delivery domain mapped onto the
// bucket root, e.g. https://media.example.com/<key>
type CDNStrategy struct {
	Domain string // host name only, e.g. "media.example.com"
}

// NewCDNStrategy creates a CDN strategy. A scheme or trailing slash on domain
// is tolerated.
func NewCDNStrategy(domain string) *CDNStrategy {
	domain = strings.TrimSpace(domain)
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	return &CDNStrategy{Domain: strings.TrimSuffix(domain, "/")}
}

func (s *CDNStrategy) Name() string { return "cdn" }

// PublicURL creates a direct CDN URL for the key
func (s *CDNStrategy) PublicURL(key string) string {
	return "https://" + s.Domain + "/" + escapeKey(key)
}

// Match recognises URLs whose host is the CDN domain; the key is the path with
// the origin stripped
func (s *CDNStrategy) Match(u *url.URL) (string, bool) {
	if s.Domain == "" || !strings.EqualFold(u.Hostname(), s.Domain) {
		return "", false
	}
	return keyFromPath(u, "")
}

package urlstrategy

import (
	"net/url"
	"strings"
)

// Strategy builds public URLs for storage keys and recognises the URLs it
// builds. Strategies are pure; they never talk to the object store.
type Strategy interface {
	// Name identifies the strategy in logs and resolutions
	Name() string

	// PublicURL returns the absolute URL a browser uses to fetch key
	PublicURL(key string) string

	// Match reports whether u has this strategy's form and, if so, the key
	Match(u *url.URL) (key string, ok bool)
}

// Resolution is the outcome of mapping a persisted URL back to a storage key
type Resolution struct {
	Key      string
	Strategy string
	Resolved bool
}

// Resolved returns a successful resolution
func Resolved(key, strategy string) Resolution {
	return Resolution{Key: key, Strategy: strategy, Resolved: true}
}

// Unresolvable returns the resolution for URLs no strategy recognises.
// Callers treat it as "nothing to delete", not as an error.
func Unresolvable() Resolution {
	return Resolution{}
}

// Resolver tries its strategies in order. The first strategy is also the
// primary one used to build URLs for newly stored blobs.
type Resolver struct {
	strategies []Strategy
	direct     Strategy
}

// NewResolver creates a resolver over the given strategies. The first one is
// the primary; at least one is required.
func NewResolver(primary Strategy, others ...Strategy) *Resolver {
	r := &Resolver{strategies: append([]Strategy{primary}, others...)}
	r.direct = primary
	for _, s := range r.strategies {
		if _, ok := s.(*S3Strategy); ok {
			r.direct = s
			break
		}
	}
	return r
}

// PublicURL builds the canonical public URL for key
func (r *Resolver) PublicURL(key string) string {
	return r.strategies[0].PublicURL(key)
}

// DirectURL builds the object-store URL for key, falling back to the public
// URL when no object-store strategy is configured
func (r *Resolver) DirectURL(key string) string {
	return r.direct.PublicURL(key)
}

// Strategies returns the configured strategies in resolution order
func (r *Resolver) Strategies() []Strategy {
	return append([]Strategy(nil), r.strategies...)
}

// Resolve maps rawURL to the storage key it refers to
func (r *Resolver) Resolve(rawURL string) Resolution {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return Unresolvable()
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return Unresolvable()
	}
	for _, s := range r.strategies {
		if key, ok := s.Match(u); ok {
			if key == "" {
				return Unresolvable()
			}
			return Resolved(key, s.Name())
		}
	}
	return Unresolvable()
}

// escapeKey escapes each path segment of key so that url.Parse followed by
// reading URL.Path gives back the key unchanged
func escapeKey(key string) string {
	segments := strings.Split(strings.TrimPrefix(key, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

// keyFromPath strips the leading separator and an optional path prefix
func keyFromPath(u *url.URL, prefix string) (string, bool) {
	p := u.Path
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		if !strings.HasPrefix(p, "/"+prefix+"/") {
			return "", false
		}
		p = p[len(prefix)+1:]
	}
	return strings.TrimPrefix(p, "/"), true
}

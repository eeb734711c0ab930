package urlstrategy

import (
	"fmt"
)

// Config holds configuration for resolver creation
type Config struct {
	CDNDomain  string // optional; when set, CDN URLs are canonical
	Bucket     string // object store bucket, when the blob store is S3
	Region     string
	PublicBase string // base URL for non-S3 blob stores
}

// New creates a resolver from the configuration. Strategy order, which is
// also the resolution order: CDN, S3, base URL. The first configured strategy
// builds URLs for new blobs.
func New(config Config) (*Resolver, error) {
	var strategies []Strategy

	if config.CDNDomain != "" {
		strategies = append(strategies, NewCDNStrategy(config.CDNDomain))
	}
	if config.Bucket != "" {
		strategies = append(strategies, NewS3Strategy(config.Bucket, config.Region))
	}
	if config.PublicBase != "" {
		base := NewBaseURLStrategy(config.PublicBase)
		if base == nil {
			return nil, fmt.Errorf("invalid public base URL %q", config.PublicBase)
		}
		strategies = append(strategies, base)
	}

	if len(strategies) == 0 {
		return nil, fmt.Errorf("one of CDN domain, bucket or public base URL is required")
	}
	return NewResolver(strategies[0], strategies[1:]...), nil
}

package urlstrategy

import (
	"fmt"
	"net/url"
	"strings"
)

// S3Strategy handles virtual-hosted-style object store URLs:
//
//	https://<bucket>.s3.<region>.amazonaws.com/<key>
//	https://<bucket>.s3-<region>.amazonaws.com/<key>   (legacy)
//	https://<bucket>.s3.amazonaws.com/<key>            (global)
type S3Strategy struct {
	Bucket string
	Region string
}

// NewS3Strategy creates a virtual-hosted S3 URL strategy
func NewS3Strategy(bucket, region string) *S3Strategy {
	if region == "" {
		region = "us-east-1"
	}
	return &S3Strategy{Bucket: bucket, Region: region}
}

func (s *S3Strategy) Name() string { return "s3" }

// PublicURL creates the virtual-hosted URL for key
func (s *S3Strategy) PublicURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.Bucket, s.Region, escapeKey(key))
}

// Match recognises hosts carrying the object store's regional suffix. When a
// bucket is configured, URLs naming another bucket do not match.
func (s *S3Strategy) Match(u *url.URL) (string, bool) {
	host := strings.ToLower(u.Hostname())
	if !strings.HasSuffix(host, ".amazonaws.com") {
		return "", false
	}
	i := strings.Index(host, ".s3.")
	if i < 0 {
		i = strings.Index(host, ".s3-")
	}
	if i <= 0 {
		return "", false
	}
	if s.Bucket != "" && host[:i] != strings.ToLower(s.Bucket) {
		return "", false
	}
	return keyFromPath(u, "")
}

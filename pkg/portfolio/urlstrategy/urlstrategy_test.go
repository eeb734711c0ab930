package urlstrategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_DualForm(t *testing.T) {
	r, err := New(Config{CDNDomain: "media.example.com", Bucket: "folio-media", Region: "eu-west-2"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		url      string
		key      string
		strategy string
	}{
		{"cdn", "https://media.example.com/travel/1700000000000-abc-photo.jpg", "travel/1700000000000-abc-photo.jpg", "cdn"},
		{"cdn uppercase host", "https://MEDIA.example.com/artwork/a.png", "artwork/a.png", "cdn"},
		{"s3 regional", "https://folio-media.s3.eu-west-2.amazonaws.com/artwork/1-x-a.png", "artwork/1-x-a.png", "s3"},
		{"s3 legacy dash", "https://folio-media.s3-eu-west-2.amazonaws.com/artwork/a.png", "artwork/a.png", "s3"},
		{"s3 global", "https://folio-media.s3.amazonaws.com/media/a.mp4", "media/a.mp4", "s3"},
		{"escaped path", "https://media.example.com/travel/my%20trip.jpg", "travel/my trip.jpg", "cdn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.Resolve(tt.url)
			require.True(t, res.Resolved)
			assert.Equal(t, tt.key, res.Key)
			assert.Equal(t, tt.strategy, res.Strategy)
		})
	}
}

func TestResolver_Unresolvable(t *testing.T) {
	r, err := New(Config{CDNDomain: "media.example.com", Bucket: "folio-media", Region: "eu-west-2"})
	require.NoError(t, err)

	for _, raw := range []string{
		"",
		"   ",
		"not a url",
		"/relative/path.jpg",
		"https://elsewhere.example.org/artwork/a.png",
		"https://other-bucket.s3.eu-west-2.amazonaws.com/artwork/a.png",
		"https://media.example.com/",
		"https://example.s3.fake-domain.com/artwork/a.png",
	} {
		res := r.Resolve(raw)
		assert.False(t, res.Resolved, raw)
		assert.Empty(t, res.Key, raw)
	}
}

func TestResolver_LeftInverse(t *testing.T) {
	keys := []string{
		"artwork/1700000000000-5f0c-painting.png",
		"travel/1700000000000-5f0c-Lisbon_2024.jpg",
		"media/1700000000000-5f0c-clip.mp4",
		"travel/1-2-name with spaces.jpg",
		"travel/1-2-café#1?.jpg",
	}
	strategies := []Strategy{
		NewCDNStrategy("media.example.com"),
		NewS3Strategy("folio-media", "us-west-1"),
		NewBaseURLStrategy("http://localhost:8080/files"),
	}

	for _, s := range strategies {
		r := NewResolver(s)
		for _, k := range keys {
			res := r.Resolve(s.PublicURL(k))
			require.True(t, res.Resolved, "%s: %s", s.Name(), k)
			assert.Equal(t, k, res.Key, s.Name())
		}
	}
}

func TestResolver_BothFormsSameKey(t *testing.T) {
	r, err := New(Config{CDNDomain: "media.example.com", Bucket: "folio-media", Region: "us-east-1"})
	require.NoError(t, err)

	key := "travel/1700000000000-abc-photo.jpg"
	cdn := r.PublicURL(key)
	direct := r.DirectURL(key)

	assert.Equal(t, "https://media.example.com/"+key, cdn)
	assert.Equal(t, "https://folio-media.s3.us-east-1.amazonaws.com/"+key, direct)
	assert.Equal(t, key, r.Resolve(cdn).Key)
	assert.Equal(t, key, r.Resolve(direct).Key)
}

func TestNew(t *testing.T) {
	t.Run("requires a strategy", func(t *testing.T) {
		_, err := New(Config{})
		assert.Error(t, err)
	})

	t.Run("invalid base url", func(t *testing.T) {
		_, err := New(Config{PublicBase: "localhost/files"})
		assert.Error(t, err)
	})

	t.Run("s3 primary without cdn", func(t *testing.T) {
		r, err := New(Config{Bucket: "b", Region: "ap-south-1"})
		require.NoError(t, err)
		assert.Equal(t, "https://b.s3.ap-south-1.amazonaws.com/artwork/x.png", r.PublicURL("artwork/x.png"))
	})

	t.Run("base url strips trailing slash", func(t *testing.T) {
		r, err := New(Config{PublicBase: "http://localhost:8080/files/"})
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8080/files/media/a.png", r.PublicURL("media/a.png"))
		assert.Equal(t, r.PublicURL("media/a.png"), r.DirectURL("media/a.png"))
	})

	t.Run("cdn domain tolerates scheme", func(t *testing.T) {
		s := NewCDNStrategy("https://media.example.com/")
		assert.Equal(t, "media.example.com", s.Domain)
	})
}

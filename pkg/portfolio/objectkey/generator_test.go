package objectkey

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedGenerator() *TimestampGenerator {
	return &TimestampGenerator{
		Now:   func() time.Time { return time.UnixMilli(1700000000123) },
		NewID: func() string { return "5f0c9e1e-8d7a-4a57-9d43-1f2a3b4c5d6e" },
	}
}

func TestTimestampGenerator(t *testing.T) {
	g := fixedGenerator()

	tests := []struct {
		name     string
		kind     string
		fileName string
		expected string
	}{
		{
			name:     "artwork with file name",
			kind:     "artwork",
			fileName: "sunset.png",
			expected: "artwork/1700000000123-5f0c9e1e-8d7a-4a57-9d43-1f2a3b4c5d6e-sunset.png",
		},
		{
			name:     "spaces and reserved characters",
			kind:     "travel",
			fileName: "Lisbon day 1?.jpg",
			expected: "travel/1700000000123-5f0c9e1e-8d7a-4a57-9d43-1f2a3b4c5d6e-Lisbon_day_1_.jpg",
		},
		{
			name:     "client path is stripped",
			kind:     "media",
			fileName: `C:\Users\me\clip.mp4`,
			expected: "media/1700000000123-5f0c9e1e-8d7a-4a57-9d43-1f2a3b4c5d6e-clip.mp4",
		},
		{
			name:     "no file name",
			kind:     "travel",
			fileName: "",
			expected: "travel/1700000000123-5f0c9e1e-8d7a-4a57-9d43-1f2a3b4c5d6e",
		},
		{
			name:     "kind is lower-cased",
			kind:     "Artwork",
			fileName: "a.png",
			expected: "artwork/1700000000123-5f0c9e1e-8d7a-4a57-9d43-1f2a3b4c5d6e-a.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, g.GenerateKey(tt.kind, tt.fileName))
		})
	}
}

func TestTimestampGenerator_Unique(t *testing.T) {
	g := NewTimestampGenerator()
	pattern := regexp.MustCompile(`^artwork/\d{13}-[0-9a-f-]{36}-a\.png$`)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		key := g.GenerateKey("artwork", "a.png")
		assert.Regexp(t, pattern, key)
		assert.False(t, seen[key], "duplicate key %s", key)
		seen[key] = true
	}
}

func TestCustomFuncGenerator(t *testing.T) {
	g := NewCustomFuncGenerator(func(kind, fileName string) string {
		return strings.ToUpper(kind) + "/" + fileName
	})
	assert.Equal(t, "TRAVEL/x.jpg", g.GenerateKey("travel", "x.jpg"))
}

func TestKeyInNamespace(t *testing.T) {
	assert.True(t, KeyInNamespace("media/1-2-a.png", "media"))
	assert.False(t, KeyInNamespace("artwork/1-2-a.png", "media"))
	assert.False(t, KeyInNamespace("mediax/1-2-a.png", "media"))
}

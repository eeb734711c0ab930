package objectkey

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Generator defines the interface for object key generation strategies
type Generator interface {
	// GenerateKey creates an object key under the kind namespace
	GenerateKey(kind string, fileName string) string
}

// TimestampGenerator produces collision-resistant keys of the form
//
//	<kind>/<epoch-millis>-<uuid>-<file name>
//
// The file name is sanitized and dropped entirely when empty.
type TimestampGenerator struct {
	Now   func() time.Time
	NewID func() string
}

// NewTimestampGenerator creates a generator using the wall clock and random UUIDs
func NewTimestampGenerator() *TimestampGenerator {
	return &TimestampGenerator{
		Now:   time.Now,
		NewID: uuid.NewString,
	}
}

func (g *TimestampGenerator) GenerateKey(kind string, fileName string) string {
	prefix := fmt.Sprintf("%s/%d-%s", sanitizePathComponent(kind), g.Now().UnixMilli(), g.NewID())

	name := sanitizeFilename(path.Base(strings.ReplaceAll(fileName, "\\", "/")))
	if name == "" || name == "." || name == "_" {
		return prefix
	}
	return prefix + "-" + name
}

// CustomFuncGenerator allows users to provide their own key generation function
type CustomFuncGenerator struct {
	GenerateFunc func(kind string, fileName string) string
}

func NewCustomFuncGenerator(fn func(kind string, fileName string) string) *CustomFuncGenerator {
	return &CustomFuncGenerator{
		GenerateFunc: fn,
	}
}

func (g *CustomFuncGenerator) GenerateKey(kind string, fileName string) string {
	return g.GenerateFunc(kind, fileName)
}

// KeyInNamespace reports whether key was generated under kind
func KeyInNamespace(key, kind string) bool {
	return strings.HasPrefix(key, sanitizePathComponent(kind)+"/")
}

// Helper functions for path sanitization
func sanitizeFilename(filename string) string {
	// Replace characters that are awkward in URLs and filesystems
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"#", "_",
		"%", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "_",
	)
	return strings.TrimSpace(replacer.Replace(strings.TrimSpace(filename)))
}

func sanitizePathComponent(component string) string {
	return strings.ToLower(sanitizeFilename(component))
}

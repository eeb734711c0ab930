package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes a fresh command tree with a clean storage environment
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, k := range []string{"DATABASE_URL", "STORAGE_URL", "CDN_DOMAIN", "PUBLIC_BASE_URL", "LOG_FORMAT", "LOG_LEVEL"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	t.Setenv("PUBLIC_BASE_URL", "http://localhost:8080/files")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--env-file", ""}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestResolveKey(t *testing.T) {
	out, err := run(t, "resolve-key", "http://localhost:8080/files/artwork/1700000000000-abc-vase.jpg")
	require.NoError(t, err)
	assert.Equal(t, "artwork/1700000000000-abc-vase.jpg\tbase-url\n", out)
}

func TestResolveKeyUnresolvable(t *testing.T) {
	_, err := run(t, "resolve-key", "https://elsewhere.example/vase.jpg")
	assert.ErrorIs(t, err, errUnresolvable)
}

func TestExifWithoutMetadata(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.jpg")
	require.NoError(t, os.WriteFile(path, []byte("not a jpeg"), 0o600))

	out, err := run(t, "exif", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"hasMetadata": false`)
	assert.Contains(t, out, `"location": null`)
}

func TestPurgeRequiresConfirmation(t *testing.T) {
	_, err := run(t, "purge", "artwork")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")

	_, err = run(t, "purge", "sculpture", "--yes")
	require.Error(t, err)
}

func TestPurgeMemory(t *testing.T) {
	out, err := run(t, "purge", "travel", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, `"recordsDeleted": 0`)
}

func TestEnv(t *testing.T) {
	out, err := run(t, "env")
	require.NoError(t, err)
	assert.Contains(t, out, "DATABASE_URL")
	assert.Contains(t, out, "STORAGE_URL")
}

func TestMigrateRequiresPostgres(t *testing.T) {
	_, err := run(t, "migrate")
	assert.Error(t, err)
}

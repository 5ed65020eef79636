package configsrc

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libproxy-go/libproxy/internal/uri"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "proxy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	return path
}

func TestFileSourceManualMode(t *testing.T) {
	path := writeConfigFile(t, "mode: manual\nproxies:\n  - scheme: http\n    host: 10.0.0.1\n    port: 3128\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := NewFileSource(ctx, path)
	require.True(t, src.IsAvailable())

	dest, _ := uri.Parse("http://example.com/")

	var b Builder
	src.GetConfig(dest, &b)

	assert.Equal(t, []string{"http://10.0.0.1:3128"}, b.Candidates())
}

func TestFileSourceMissingFileUnavailable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := NewFileSource(ctx, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.False(t, src.IsAvailable())
}

func TestFileSourceIgnoreList(t *testing.T) {
	path := writeConfigFile(t, "mode: manual\nproxies:\n  - scheme: http\n    host: 10.0.0.1\n    port: 3128\nignore:\n  - \"*.internal.example.com\"\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := NewFileSource(ctx, path)

	dest, _ := uri.Parse("http://host.internal.example.com/")

	var b Builder
	src.GetConfig(dest, &b)

	assert.Empty(t, b.Candidates())
}

func TestFileSourceReloadsOnWrite(t *testing.T) {
	path := writeConfigFile(t, "mode: manual\nproxies:\n  - scheme: http\n    host: 10.0.0.1\n    port: 3128\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := NewFileSource(ctx, path)

	require.NoError(t, os.WriteFile(path, []byte("mode: manual\nproxies:\n  - scheme: http\n    host: 10.0.0.2\n    port: 8080\n"), 0o600))

	deadline := time.Now().Add(2 * time.Second)

	var b Builder

	for time.Now().Before(deadline) {
		b = Builder{}

		dest, _ := uri.Parse("http://example.com/")
		src.GetConfig(dest, &b)

		if len(b.Candidates()) == 1 && b.Candidates()[0] == "http://10.0.0.2:8080" {
			break
		}

		time.Sleep(20 * time.Millisecond)
	}

	assert.Equal(t, []string{"http://10.0.0.2:8080"}, b.Candidates())
}

package configsrc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libproxy-go/libproxy/internal/uri"
)

func envSourceWith(env map[string]string) *EnvSource {
	return &EnvSource{lookup: func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}}
}

func TestEnvSourceHTTPProxy(t *testing.T) {
	src := envSourceWith(map[string]string{"http_proxy": "http://127.0.0.1:8080"})

	dest, err := uri.Parse("http://www.example.com")
	require.NoError(t, err)

	var b Builder
	src.GetConfig(dest, &b)

	assert.Equal(t, []string{"http://127.0.0.1:8080"}, b.Candidates())
}

func TestEnvSourceBareHostPortDefaultsToHTTP(t *testing.T) {
	src := envSourceWith(map[string]string{"http_proxy": "127.0.0.1:8080"})

	dest, _ := uri.Parse("http://www.example.com")

	var b Builder
	src.GetConfig(dest, &b)

	assert.Equal(t, []string{"http://127.0.0.1:8080"}, b.Candidates())
}

func TestEnvSourceNoProxyExactHostSuppresses(t *testing.T) {
	src := envSourceWith(map[string]string{
		"https_proxy": "http://127.0.0.1:8080",
		"no_proxy":    "www.example.com",
	})

	dest, _ := uri.Parse("https://www.example.com")

	var b Builder
	src.GetConfig(dest, &b)

	assert.Empty(t, b.Candidates())
}

func TestEnvSourceNoProxyCIDRSuppresses(t *testing.T) {
	src := envSourceWith(map[string]string{
		"http_proxy": "http://127.0.0.1:8080",
		"no_proxy":   "127.0.0.0/24",
	})

	dest, _ := uri.Parse("http://127.0.0.1")

	var b Builder
	src.GetConfig(dest, &b)

	assert.Empty(t, b.Candidates())
}

func TestEnvSourceNothingSetYieldsNoCandidate(t *testing.T) {
	src := envSourceWith(map[string]string{})

	dest, _ := uri.Parse("http://example.com")

	var b Builder
	src.GetConfig(dest, &b)

	assert.Empty(t, b.Candidates())
}

func TestEnvSourceAllProxyFallback(t *testing.T) {
	src := envSourceWith(map[string]string{"all_proxy": "http://10.0.0.1:3128"})

	dest, _ := uri.Parse("https://example.com")

	var b Builder
	src.GetConfig(dest, &b)

	assert.Equal(t, []string{"http://10.0.0.1:3128"}, b.Candidates())
}

func TestEnvSourceInvalidProxyValueYieldsNoCandidate(t *testing.T) {
	src := envSourceWith(map[string]string{"http_proxy": "::::not a proxy::::"})

	dest, _ := uri.Parse("http://example.com")

	var b Builder
	src.GetConfig(dest, &b)

	assert.Empty(t, b.Candidates())
}

func TestEnvSourceIsAlwaysAvailable(t *testing.T) {
	assert.True(t, NewEnvSource().IsAvailable())
	assert.Equal(t, "envvar", NewEnvSource().Name())
}

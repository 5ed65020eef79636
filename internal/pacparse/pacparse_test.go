package pacparse_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/libproxy-go/libproxy/internal/pacparse"
)

func TestParseBasic(t *testing.T) {
	t.Parallel()

	got := pacparse.Parse("PROXY p1:8080; SOCKS5 s1:1080; DIRECT")
	assert.Equal(t, []string{"http://p1:8080", "socks5://s1:1080", "direct://"}, got)
}

func TestParseEmpty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"direct://"}, pacparse.Parse(""))
	assert.Equal(t, []string{"direct://"}, pacparse.Parse("   "))
}

func TestParseMalformedFallsBackToDirect(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"direct://"}, pacparse.Parse("BOGUS entry here"))
	assert.Equal(t, []string{"direct://"}, pacparse.Parse("PROXY"))
}

func TestParseDeduplicatesPreservingOrder(t *testing.T) {
	t.Parallel()

	got := pacparse.Parse("PROXY p1:8080; PROXY p1:8080; SOCKS s2:1080")
	assert.Equal(t, []string{"http://p1:8080", "socks://s2:1080"}, got)
}

func TestParseIdempotentUnderReparsing(t *testing.T) {
	t.Parallel()

	first := pacparse.Parse("PROXY p1:8080; SOCKS4 s1:1080; SOCKS4A s2:1081; DIRECT")
	second := pacparse.Parse(strings.Join(first, "; "))
	assert.Equal(t, first, second)
}

func TestParseCaseInsensitiveMethod(t *testing.T) {
	t.Parallel()

	got := pacparse.Parse("proxy p1:8080")
	assert.Equal(t, []string{"http://p1:8080"}, got)
}

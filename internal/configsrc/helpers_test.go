package configsrc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/libproxy-go/libproxy/internal/uri"
)

func uriMustParse(t *testing.T, s string) uri.URI {
	t.Helper()

	u, err := uri.Parse(s)
	require.NoError(t, err)

	return u
}

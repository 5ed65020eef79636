package pacrt_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libproxy-go/libproxy/internal/pacrt"
	"github.com/libproxy-go/libproxy/internal/uri"
)

type fakeResolver struct {
	addrs map[string]string
}

func (f fakeResolver) LookupHost(host string) (string, bool) {
	addr, ok := f.addrs[host]

	return addr, ok
}

func mustDest(t *testing.T, s string) uri.URI {
	t.Helper()

	u, err := uri.Parse(s)
	require.NoError(t, err)

	return u
}

func TestSetPACAndRun(t *testing.T) {
	t.Parallel()

	script := `function FindProxyForURL(url, host) {
		if (shExpMatch(host, "*.example.com")) {
			return "PROXY p1:8080; DIRECT";
		}
		if (isInNet(host, "192.168.10.0", "255.255.255.0")) {
			return "SOCKS5 127.0.0.1:1983";
		}
		return "DIRECT";
	}`

	rt := pacrt.New(fakeResolver{addrs: map[string]string{"192.168.10.7": "192.168.10.7"}}, nil, false)
	require.True(t, rt.SetPAC([]byte(script)))

	assert.Equal(t, "PROXY p1:8080; DIRECT", rt.Run(mustDest(t, "http://www.example.com")))
	assert.Equal(t, "SOCKS5 127.0.0.1:1983", rt.Run(mustDest(t, "https://192.168.10.7")))
	assert.Equal(t, "DIRECT", rt.Run(mustDest(t, "http://other.org")))
}

func TestSetPACCompileError(t *testing.T) {
	t.Parallel()

	rt := pacrt.New(nil, nil, false)
	assert.False(t, rt.SetPAC([]byte("function FindProxyForURL( { this is not js")))
}

func TestSetPACMissingFunction(t *testing.T) {
	t.Parallel()

	rt := pacrt.New(nil, nil, false)
	assert.False(t, rt.SetPAC([]byte("var x = 1;")))
}

func TestRunWithoutSetPACReturnsEmpty(t *testing.T) {
	t.Parallel()

	rt := pacrt.New(nil, nil, false)
	assert.Equal(t, "", rt.Run(mustDest(t, "http://example.com")))
}

func TestRunReturningNonStringIsEmpty(t *testing.T) {
	t.Parallel()

	rt := pacrt.New(nil, nil, false)
	require.True(t, rt.SetPAC([]byte(`function FindProxyForURL(url, host) { return 42; }`)))
	assert.Equal(t, "", rt.Run(mustDest(t, "http://example.com")))
}

func TestRunThrowingIsEmpty(t *testing.T) {
	t.Parallel()

	rt := pacrt.New(nil, nil, false)
	require.True(t, rt.SetPAC([]byte(`function FindProxyForURL(url, host) { throw "boom"; }`)))
	assert.Equal(t, "", rt.Run(mustDest(t, "http://example.com")))
}

func TestAlertRoutesToSinkWhenEnabled(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	rt := pacrt.New(nil, &buf, true)
	require.True(t, rt.SetPAC([]byte(`function FindProxyForURL(url, host) { alert("hi"); return "DIRECT"; }`)))
	rt.Run(mustDest(t, "http://example.com"))
	assert.Contains(t, buf.String(), "hi")
}

func TestAlertSilentWhenDisabled(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	rt := pacrt.New(nil, &buf, false)
	require.True(t, rt.SetPAC([]byte(`function FindProxyForURL(url, host) { alert("hi"); return "DIRECT"; }`)))
	rt.Run(mustDest(t, "http://example.com"))
	assert.Empty(t, buf.String())
}

// Package pacfetch implements the PAC downloader contract (§4.3): fetch a
// PAC script's bytes, refusing to route the fetch through any proxy
// (avoiding recursion), following redirects, and enforcing a size cap.
package pacfetch

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	apperrors "github.com/libproxy-go/libproxy/internal/errors"
)

// DefaultMaxBytes is the default PAC response size cap (~100 KiB, §4.3).
const DefaultMaxBytes = 100 * 1024

// DefaultConnectTimeout is the recommended connect timeout (§5).
const DefaultConnectTimeout = 30 * time.Second

// Downloader fetches PAC bytes for a URI. A "pac+" prefix, if present, is
// stripped before fetching.
type Downloader interface {
	Download(ctx context.Context, uri string) ([]byte, error)
}

// HTTPDownloader is the default Downloader, built on net/http. Its
// Transport has Proxy explicitly nil'd out: PAC fetches are never
// themselves routed through a proxy, since that could recurse into the
// engine that's trying to resolve this very script.
//
// net/http's Transport already handles redirects, Content-Length, and
// Transfer-Encoding: chunked, so none of that needs reimplementing here;
// the only extra behavior this type adds is the size cap and the "pac+"
// prefix strip.
type HTTPDownloader struct {
	client   *http.Client
	maxBytes int64
}

// NewHTTPDownloader constructs an HTTPDownloader. maxBytes <= 0 uses
// DefaultMaxBytes; connectTimeout <= 0 uses DefaultConnectTimeout.
func NewHTTPDownloader(maxBytes int64, connectTimeout time.Duration) *HTTPDownloader {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	if connectTimeout <= 0 {
		connectTimeout = DefaultConnectTimeout
	}

	transport := &http.Transport{
		Proxy: nil, // never fetch a PAC script through a proxy
		DialContext: (&net.Dialer{
			Timeout: connectTimeout,
		}).DialContext,
	}

	return &HTTPDownloader{
		client:   &http.Client{Transport: transport},
		maxBytes: maxBytes,
	}
}

// Download fetches uri (after stripping a leading "pac+"), enforcing the
// size cap. It prefers MIME type application/x-ns-proxy-autoconfig but
// accepts any 2xx response body up to the cap, per §4.3 ("A response with
// neither [Content-Length nor chunked] is accepted up to the size cap").
func (d *HTTPDownloader) Download(ctx context.Context, uri string) ([]byte, error) {
	fetchURL := strings.TrimPrefix(uri, "pac+")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/x-ns-proxy-autoconfig, text/plain;q=0.9, */*;q=0.1")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.ErrUnexpectedStatus
	}

	limited := io.LimitReader(resp.Body, d.maxBytes+1)

	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, err
	}

	if int64(len(data)) > d.maxBytes {
		return nil, apperrors.ErrResponseTooLarge
	}

	return data, nil
}

// NewWPADRetryLimiter returns a rate limiter for gating repeated WPAD fetch
// attempts after a failure, so a persistently broken network doesn't cause
// the engine to hammer http://wpad/wpad.dat on every GetProxies call.
func NewWPADRetryLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Every(10*time.Second), 1)
}

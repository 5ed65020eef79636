// Package pacparse converts the return value of FindProxyForURL into a
// de-duplicated, order-preserving list of normalized proxy URIs (§4.5).
package pacparse

import (
	"strings"

	"github.com/libproxy-go/libproxy/internal/uri"
)

// methodScheme maps a PAC method keyword (case-insensitive) to the scheme
// used for its normalized proxy URI. DIRECT is handled separately since it
// carries no server.
var methodScheme = map[string]string{ //nolint:gochecknoglobals // static lookup table
	"PROXY":  "http",
	"SOCKS":  "socks",
	"SOCKS4": "socks4",
	"SOCKS4A": "socks4a",
	"SOCKS5": "socks5",
}

// Parse parses a PAC return string such as
// "PROXY p1:8080; SOCKS5 s1:1080; DIRECT" into normalized proxy URI
// strings. Malformed entries normalize to "direct://"; duplicates are
// suppressed while preserving first-occurrence order. An empty or entirely
// malformed response yields ["direct://"].
func Parse(response string) []string {
	entries := strings.Split(response, ";")

	seen := make(map[string]bool, len(entries))
	out := make([]string, 0, len(entries))

	for _, entry := range entries {
		normalized := parseEntry(entry)
		if seen[normalized] {
			continue
		}

		seen[normalized] = true

		out = append(out, normalized)
	}

	if len(out) == 0 {
		return []string{"direct://"}
	}

	return out
}

// parseEntry normalizes a single ";"-delimited PAC directive. An entry that
// is already a normalized proxy URI (as produced by a prior Parse call) is
// accepted as-is, which is what makes Parse idempotent under re-parsing of
// its own joined output.
func parseEntry(entry string) string {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return "direct://"
	}

	if strings.Contains(entry, "://") {
		p, err := uri.ParseProxyURI(entry)
		if err != nil || !uri.ValidProxySchemes[p.Scheme] {
			return "direct://"
		}

		return p.String()
	}

	fields := strings.Fields(entry)

	method := strings.ToUpper(fields[0])

	if method == "DIRECT" {
		return "direct://"
	}

	if len(fields) != 2 {
		return "direct://"
	}

	scheme, ok := methodScheme[method]
	if !ok {
		return "direct://"
	}

	server := fields[1]
	if server == "" {
		return "direct://"
	}

	candidate := scheme + "://" + server
	if _, err := uri.ParseProxyURI(candidate); err != nil {
		return "direct://"
	}

	return candidate
}

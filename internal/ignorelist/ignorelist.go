// Package ignorelist implements the ignore-list pattern language and
// matcher (§4.2): hostnames, domain suffixes, CIDR blocks and IP/port
// pairs that exempt a destination from proxying.
package ignorelist

import (
	"net"
	"strconv"
	"strings"

	"github.com/libproxy-go/libproxy/internal/uri"
)

// Kind tags the variant of a parsed Pattern.
type Kind int

const (
	KindWildcard Kind = iota
	KindLocalHostname
	KindHostExact
	KindDomainSuffix
	KindIPExact
	KindIPNetwork
)

// localToken is the `<local>` sentinel recognized in ignore lists.
const localToken = "<local>"

// Pattern is a single parsed ignore-list entry.
type Pattern struct {
	Kind Kind

	// HostExact, DomainSuffix
	Host string
	Port int // 0 = no port constraint
	// DomainSuffix only: whether the source text had a leading "." or "*."
	LeadingDot bool

	// IPExact
	IP net.IP

	// IPNetwork
	Network *net.IPNet
}

// Parse parses a single ignore-list entry per the grammar in §3:
//   - contains "/"                => IP network (CIDR)
//   - starts with "." or "*."     => domain suffix
//   - "host:port" (numeric port)  => host exact or domain suffix with port
//   - "*"                         => wildcard
//   - "<local>"                   => local-hostname token
//   - otherwise                   => host exact (host may be an IP)
func Parse(s string) (Pattern, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Pattern{}, false
	}

	if s == "*" {
		return Pattern{Kind: KindWildcard}, true
	}

	if s == localToken {
		return Pattern{Kind: KindLocalHostname}, true
	}

	if strings.Contains(s, "/") {
		_, network, err := net.ParseCIDR(s)
		if err != nil {
			return Pattern{}, false
		}

		return Pattern{Kind: KindIPNetwork, Network: network}, true
	}

	host, port := splitHostPort(s)

	if strings.HasPrefix(host, "*.") {
		return Pattern{Kind: KindDomainSuffix, Host: strings.TrimPrefix(host, "*."), Port: port, LeadingDot: true}, true
	}

	if strings.HasPrefix(host, ".") {
		return Pattern{Kind: KindDomainSuffix, Host: strings.TrimPrefix(host, "."), Port: port, LeadingDot: true}, true
	}

	if ip := uri.ParseIPHost(host); ip != nil {
		return Pattern{Kind: KindIPExact, IP: ip, Port: port}, true
	}

	return Pattern{Kind: KindHostExact, Host: host, Port: port}, true
}

// splitHostPort splits "host:port" into host and a numeric port, returning
// port=0 when there is no ":" or the trailing segment isn't numeric (in
// which case the whole string is treated as the host, e.g. IPv6 literals
// without brackets are not supported here and pass through unsplit).
func splitHostPort(s string) (string, int) {
	if strings.Count(s, ":") > 1 && !strings.HasPrefix(s, "[") {
		return s, 0
	}

	idx := strings.LastIndexByte(s, ':')
	if idx < 0 {
		return s, 0
	}

	portStr := s[idx+1:]

	p, err := strconv.Atoi(portStr)
	if err != nil || p < 0 || p > 65535 {
		return s, 0
	}

	return s[:idx], p
}

// ParseList parses each line of patterns, silently skipping blank entries
// and entries that fail to parse.
func ParseList(patterns []string) []Pattern {
	out := make([]Pattern, 0, len(patterns))

	for _, p := range patterns {
		if pat, ok := Parse(p); ok {
			out = append(out, pat)
		}
	}

	return out
}

// IsIgnored reports whether dest matches any pattern. First match wins;
// evaluation order follows patterns.
func IsIgnored(dest uri.URI, patterns []Pattern) bool {
	for _, p := range patterns {
		if matches(dest, p) {
			return true
		}
	}

	return false
}

func matches(dest uri.URI, p Pattern) bool {
	switch p.Kind {
	case KindWildcard:
		return true
	case KindLocalHostname:
		return !strings.ContainsAny(dest.Host, ".:")
	case KindHostExact:
		return strings.EqualFold(dest.NormalizedHost(), p.Host) && portMatches(dest, p.Port)
	case KindDomainSuffix:
		return domainSuffixMatches(dest.NormalizedHost(), p.Host) && portMatches(dest, p.Port)
	case KindIPExact:
		ip := uri.ParseIPHost(dest.Host)

		return ip != nil && ip.Equal(p.IP) && portMatches(dest, p.Port)
	case KindIPNetwork:
		ip := uri.ParseIPHost(dest.Host)

		return ip != nil && p.Network != nil && p.Network.Contains(ip)
	default:
		return false
	}
}

func portMatches(dest uri.URI, want int) bool {
	if want == 0 {
		return true
	}

	return dest.Port() == want
}

// domainSuffixMatches reports whether host equals suffix or is a strict
// subdomain of it ("a.b.domain.com" matches suffix "domain.com"). Hostname
// resolution is never performed: only the literal host string is compared.
func domainSuffixMatches(host, suffix string) bool {
	host = strings.ToLower(host)
	suffix = strings.ToLower(suffix)

	if strings.EqualFold(host, suffix) {
		return true
	}

	return strings.HasSuffix(host, "."+suffix)
}

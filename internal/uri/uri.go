// Package uri implements the destination/proxy URI model shared by the
// resolution engine: parsing, normalized re-serialization, and the
// scheme/host/port/userinfo accessors the rest of the engine needs.
package uri

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"golang.org/x/net/idna"

	apperrors "github.com/libproxy-go/libproxy/internal/errors"
)

// Parse returns one of these for malformed input, wrapped in
// apperrors.ErrParseFailed.
var (
	ErrMissingSchemeSeparator = errors.New("uri: missing \"://\" scheme separator")
	ErrEmptyHost              = errors.New("uri: empty host")
	ErrInvalidPort            = errors.New("uri: port is not numeric")
)

// defaultPorts covers the proxy/PAC schemes this engine cares about;
// anything else falls back to a services(5)-style lookup via net.LookupPort
// and finally to 0.
var defaultPorts = map[string]int{ //nolint:gochecknoglobals // static lookup table, never mutated
	"http":    80,
	"https":   443,
	"ftp":     21,
	"ws":      80,
	"wss":     443,
	"socks":   1080,
	"socks4":  1080,
	"socks4a": 1080,
	"socks5":  1080,
}

// URI is a parsed destination or proxy URI.
//
// Re-serialization via String reproduces the exact input that Parse was
// given; Port resolves a default when the input did not carry one
// explicitly.
type URI struct {
	Scheme string

	HasUserinfo bool
	User        string
	HasPassword bool
	Password    string

	Host string

	HasPort      bool
	ExplicitPort int

	Path     string
	HasQuery bool
	RawQuery string
}

// Parse parses s into a URI of the form
// scheme://[user[:pass]@]host[:port][path][?query]; the host may be empty
// only for the direct, wpad and file schemes.
// Any failure is wrapped in apperrors.ErrParseFailed (§7 ParseError), the
// boundary the engine absorbs into a direct:// result rather than
// surfacing to the caller.
func Parse(s string) (URI, error) {
	out, err := parse(s)
	if err != nil {
		return URI{}, fmt.Errorf("%w: %w", apperrors.ErrParseFailed, err)
	}

	return out, nil
}

func parse(s string) (URI, error) {
	var out URI

	sepIdx := strings.Index(s, "://")
	if sepIdx < 0 {
		return URI{}, ErrMissingSchemeSeparator
	}

	out.Scheme = s[:sepIdx]
	rest := s[sepIdx+3:]

	// Split off path/query from the authority component.
	authEnd := len(rest)
	if i := strings.IndexAny(rest, "/?"); i >= 0 {
		authEnd = i
	}

	authority := rest[:authEnd]
	tail := rest[authEnd:]

	if err := out.parseAuthority(authority); err != nil {
		return URI{}, err
	}

	if out.Host == "" && !isHostlessScheme(out.Scheme) {
		return URI{}, ErrEmptyHost
	}

	if q := strings.IndexByte(tail, '?'); q >= 0 {
		out.Path = tail[:q]
		out.HasQuery = true
		out.RawQuery = tail[q+1:]
	} else {
		out.Path = tail
	}

	return out, nil
}

// isHostlessScheme reports whether scheme is permitted the degenerate
// "scheme://" form with no authority (direct, wpad) or an empty host with a
// path (file).
func isHostlessScheme(scheme string) bool {
	switch strings.ToLower(scheme) {
	case "direct", "wpad", "file":
		return true
	default:
		return false
	}
}

func (u *URI) parseAuthority(authority string) error {
	if authority == "" {
		return nil
	}

	hostport := authority

	if at := strings.LastIndexByte(authority, '@'); at >= 0 {
		userinfo := authority[:at]
		hostport = authority[at+1:]
		u.HasUserinfo = true

		if colon := strings.IndexByte(userinfo, ':'); colon >= 0 {
			u.User = userinfo[:colon]
			u.Password = userinfo[colon+1:]
			u.HasPassword = true
		} else {
			u.User = userinfo
		}
	}

	return u.parseHostport(hostport)
}

func (u *URI) parseHostport(hostport string) error {
	if hostport == "" {
		return nil
	}

	// IPv6 literal: [::1]:8080
	if hostport[0] == '[' {
		end := strings.IndexByte(hostport, ']')
		if end < 0 {
			u.Host = hostport

			return nil
		}

		u.Host = hostport[:end+1]

		rest := hostport[end+1:]
		if strings.HasPrefix(rest, ":") {
			return u.setExplicitPort(rest[1:])
		}

		return nil
	}

	if colon := strings.LastIndexByte(hostport, ':'); colon >= 0 {
		return u.setHostAndPort(hostport[:colon], hostport[colon+1:])
	}

	u.Host = hostport

	return nil
}

func (u *URI) setHostAndPort(host, portStr string) error {
	u.Host = host

	return u.setExplicitPort(portStr)
}

func (u *URI) setExplicitPort(portStr string) error {
	p, err := strconv.Atoi(portStr)
	if err != nil || p < 0 || p > 65535 {
		return ErrInvalidPort
	}

	u.HasPort = true
	u.ExplicitPort = p

	return nil
}

// String re-serializes u to the exact form Parse would have accepted.
func (u URI) String() string {
	var b strings.Builder

	b.WriteString(u.Scheme)
	b.WriteString("://")

	if u.HasUserinfo {
		b.WriteString(u.User)

		if u.HasPassword {
			b.WriteByte(':')
			b.WriteString(u.Password)
		}

		b.WriteByte('@')
	}

	b.WriteString(u.Host)

	if u.HasPort {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(u.ExplicitPort))
	}

	b.WriteString(u.Path)

	if u.HasQuery {
		b.WriteByte('?')
		b.WriteString(u.RawQuery)
	}

	return b.String()
}

// Port returns the explicit port if present, otherwise a scheme-derived
// default. 0 means "no default known".
func (u URI) Port() int {
	if u.HasPort {
		return u.ExplicitPort
	}

	scheme := strings.ToLower(u.Scheme)
	if p, ok := defaultPorts[scheme]; ok {
		return p
	}

	if p, err := net.LookupPort("tcp", scheme); err == nil {
		return p
	}

	return 0
}

// IsIPLiteral reports whether Host parses as an IPv4 or IPv6 literal.
func (u URI) IsIPLiteral() bool {
	return ParseIPHost(u.Host) != nil
}

// ParseIPHost parses host, stripping IPv6 brackets if present.
func ParseIPHost(host string) net.IP {
	h := host
	if len(h) >= 2 && h[0] == '[' && h[len(h)-1] == ']' {
		h = h[1 : len(h)-1]
	}

	return net.ParseIP(h)
}

// NormalizedHost returns Host converted to ASCII-compatible (IDNA/punycode)
// form and lower-cased, for use as a comparison/cache key. It never fails:
// on IDNA conversion error it falls back to the lower-cased original host.
func (u URI) NormalizedHost() string {
	h := strings.ToLower(u.Host)

	ascii, err := idna.Lookup.ToASCII(h)
	if err != nil {
		return h
	}

	return ascii
}

// IsValid reports whether s parses without error.
func IsValid(s string) bool {
	_, err := Parse(s)

	return err == nil
}

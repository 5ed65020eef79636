package uri

import (
	"strconv"
	"strings"
)

// ValidProxySchemes are the proxy method schemes this engine understands as
// final resolution output (§6.4).
var ValidProxySchemes = map[string]bool{ //nolint:gochecknoglobals // static allow-list
	"http":    true,
	"https":   true,
	"socks":   true,
	"socks4":  true,
	"socks4a": true,
	"socks5":  true,
	"direct":  true,
}

// ProxyURI is a normalized proxy URI: scheme plus optional host/port/userinfo.
// "direct" carries no host.
type ProxyURI struct {
	Scheme   string
	User     string
	Password string
	HasUser  bool
	Host     string
	Port     int
}

// String renders the canonical form: scheme://[user:pass@]host:port or
// direct:// for the direct scheme.
func (p ProxyURI) String() string {
	if strings.EqualFold(p.Scheme, "direct") {
		return "direct://"
	}

	var b strings.Builder

	b.WriteString(strings.ToLower(p.Scheme))
	b.WriteString("://")

	if p.HasUser {
		b.WriteString(p.User)

		if p.Password != "" {
			b.WriteByte(':')
			b.WriteString(p.Password)
		}

		b.WriteByte('@')
	}

	b.WriteString(p.Host)
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(p.Port))

	return b.String()
}

// Direct is the canonical "no proxy" output.
var Direct = ProxyURI{Scheme: "direct"} //nolint:gochecknoglobals // immutable constant value

// ParseProxyURI parses a normalized proxy URI string (as produced by
// pacparse or a manual-proxy config candidate) into a ProxyURI. A missing
// port is filled in with URI.Port's scheme-derived default (0 when none is
// known), so String always renders a port for non-direct schemes (§6.4).
func ParseProxyURI(s string) (ProxyURI, error) {
	if strings.EqualFold(s, "direct://") {
		return Direct, nil
	}

	u, err := Parse(s)
	if err != nil {
		return ProxyURI{}, err
	}

	return ProxyURI{
		Scheme:   strings.ToLower(u.Scheme),
		User:     u.User,
		Password: u.Password,
		HasUser:  u.HasUserinfo,
		Host:     u.Host,
		Port:     u.Port(),
	}, nil
}

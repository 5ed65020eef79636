package configsrc

import (
	"os"
	"strings"

	"github.com/libproxy-go/libproxy/internal/ignorelist"
	"github.com/libproxy-go/libproxy/internal/uri"
)

// EnvSource reads the classic http_proxy/https_proxy/ftp_proxy/all_proxy
// and no_proxy environment variables, the lowest-ceremony config source and
// historically the first one libproxy checks (config_envvar.cpp in
// original_source).
type EnvSource struct {
	// lookup is injected for testability; defaults to os.LookupEnv.
	lookup func(key string) (string, bool)
}

// NewEnvSource constructs the environment-variable config source.
func NewEnvSource() *EnvSource {
	return &EnvSource{lookup: os.LookupEnv}
}

func (e *EnvSource) Name() string             { return "envvar" }
func (e *EnvSource) SourcePriority() Priority { return PriorityDefault }
func (e *EnvSource) IsAvailable() bool        { return true }

// schemeEnvVars maps a destination scheme to the environment variables that
// carry its proxy, checked in order; the first set one is accepted.
func schemeEnvVars(scheme string) []string {
	switch strings.ToLower(scheme) {
	case "https":
		return []string{"https_proxy", "HTTPS_PROXY", "all_proxy", "ALL_PROXY"}
	case "ftp":
		return []string{"ftp_proxy", "FTP_PROXY", "all_proxy", "ALL_PROXY"}
	default:
		return []string{"http_proxy", "HTTP_PROXY", "all_proxy", "ALL_PROXY"}
	}
}

func (e *EnvSource) GetConfig(dest uri.URI, out *Builder) {
	noProxy, _ := e.getenv("no_proxy", "NO_PROXY")
	if noProxy != "" {
		patterns := ignorelist.ParseList(strings.Split(noProxy, ","))
		if ignorelist.IsIgnored(dest, patterns) {
			return
		}
	}

	for _, key := range schemeEnvVars(dest.Scheme) {
		if v, ok := e.lookup(key); ok && v != "" {
			if candidate := normalizeEnvProxy(v); candidate != "" {
				out.Add(candidate)
			}

			return
		}
	}
}

func (e *EnvSource) getenv(keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := e.lookup(k); ok && v != "" {
			return v, true
		}
	}

	return "", false
}

// normalizeEnvProxy accepts either a scheme-qualified proxy URI
// ("http://host:port") or a bare "host:port" and normalizes to the former,
// defaulting to the http scheme as most *_proxy environment variables do in
// practice.
func normalizeEnvProxy(v string) string {
	if strings.Contains(v, "://") {
		if _, err := uri.ParseProxyURI(v); err != nil {
			return ""
		}

		return v
	}

	candidate := "http://" + v
	if _, err := uri.ParseProxyURI(candidate); err != nil {
		return ""
	}

	return candidate
}

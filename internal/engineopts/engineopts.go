// Package engineopts holds the resolution engine's construction options
// (§4.6) and the environment variables the engine recognizes (§6.1):
// PX_FORCE_CONFIG, PX_DEBUG, PX_DEBUG_PACALERT.
package engineopts

import "os"

const (
	EnvForceConfig = "PX_FORCE_CONFIG"
	EnvDebug       = "PX_DEBUG"
	EnvDebugAlert  = "PX_DEBUG_PACALERT"
)

// Options configures a new Engine.
type Options struct {
	// ConfigPlugin restricts resolution to a single named config source.
	// Empty means "respect PX_FORCE_CONFIG, else use all sources".
	ConfigPlugin string

	// ConfigOption is an opaque per-source parameter, e.g. a file path for
	// a file-backed source.
	ConfigOption string

	// ForceOnline skips the network monitor and treats the network as
	// always available (for tests and for --dry-run style tooling).
	ForceOnline bool
}

// ResolveConfigPlugin applies the PX_FORCE_CONFIG fallback described in
// §4.6: an explicit o.ConfigPlugin wins; otherwise the environment
// variable; otherwise "" (use all sources).
func (o Options) ResolveConfigPlugin() string {
	if o.ConfigPlugin != "" {
		return o.ConfigPlugin
	}

	return os.Getenv(EnvForceConfig)
}

// DebugEnabled reports whether PX_DEBUG is set to a non-empty value.
func DebugEnabled() bool {
	return os.Getenv(EnvDebug) != ""
}

// DebugPACAlertEnabled reports whether PX_DEBUG_PACALERT is set, routing
// PAC alert() calls to stderr (§6.1).
func DebugPACAlertEnabled() bool {
	return os.Getenv(EnvDebugAlert) != ""
}

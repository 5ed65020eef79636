package configsrc

import (
	"os"
	"strings"
)

// desktopSessionIs reports whether XDG_CURRENT_DESKTOP (or the legacy
// DESKTOP_SESSION) names one of candidates, matched case-insensitively
// against any colon-separated component.
func desktopSessionIs(candidates ...string) bool {
	session := os.Getenv("XDG_CURRENT_DESKTOP")
	if session == "" {
		session = os.Getenv("DESKTOP_SESSION")
	}

	if session == "" {
		return false
	}

	for _, part := range strings.Split(session, ":") {
		for _, c := range candidates {
			if strings.EqualFold(part, c) {
				return true
			}
		}
	}

	return false
}

package configsrc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDesktopSessionIs(t *testing.T) {
	t.Setenv("XDG_CURRENT_DESKTOP", "GNOME")
	assert.True(t, desktopSessionIs("gnome"))
	assert.False(t, desktopSessionIs("kde"))
}

func TestDesktopSessionIsColonSeparated(t *testing.T) {
	t.Setenv("XDG_CURRENT_DESKTOP", "ubuntu:GNOME")
	assert.True(t, desktopSessionIs("gnome"))
}

func TestDesktopSessionIsFallsBackToLegacyVar(t *testing.T) {
	t.Setenv("XDG_CURRENT_DESKTOP", "")
	t.Setenv("DESKTOP_SESSION", "plasma")
	assert.True(t, desktopSessionIs("plasma"))
}

func TestDesktopSessionIsEmptyWhenUnset(t *testing.T) {
	t.Setenv("XDG_CURRENT_DESKTOP", "")
	t.Setenv("DESKTOP_SESSION", "")
	assert.False(t, desktopSessionIs("gnome"))
}

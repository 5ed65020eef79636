package configsrc

import (
	"errors"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
)

func TestPacRunnerSourceUnavailableWhenNoBus(t *testing.T) {
	src := NewPacRunnerSource()
	src.dial = func() (*dbus.Conn, error) {
		return nil, errors.New("no bus")
	}

	assert.False(t, src.IsAvailable())
}

func TestPacRunnerSourceGetConfigNoOpWhenNoBus(t *testing.T) {
	src := NewPacRunnerSource()
	src.dial = func() (*dbus.Conn, error) {
		return nil, errors.New("no bus")
	}

	var b Builder
	src.GetConfig(uriMustParse(t, "http://example.com/"), &b)

	assert.Empty(t, b.Candidates())
}

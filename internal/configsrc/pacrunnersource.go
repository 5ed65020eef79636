package configsrc

import (
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/libproxy-go/libproxy/internal/pacparse"
	"github.com/libproxy-go/libproxy/internal/uri"
)

// PacRunnerSource queries an external PACRunner-style D-Bus service (the
// same protocol ConnMan's pacrunner daemon speaks) for the proxy
// configuration of a destination, grounded on config_pacrunner.cpp in
// original_source. Unlike the other sources, the result here is already a
// resolved proxy list — no wpad:// / pac+ expansion needed — so GetConfig
// emits already-parsed proxy URIs and the engine's PAC runtime is never
// involved for this source.
type PacRunnerSource struct {
	busName    string
	objectPath dbus.ObjectPath
	dial       func() (*dbus.Conn, error)
	timeout    time.Duration
}

const (
	pacRunnerBusName    = "org.pacrunner"
	pacRunnerObjectPath = dbus.ObjectPath("/org/pacrunner/client")
)

// NewPacRunnerSource builds a source that talks to the system bus pacrunner
// service. It is available only when that service is actually reachable;
// IsAvailable checks reachability on every call and does not cache the
// result.
func NewPacRunnerSource() *PacRunnerSource {
	return &PacRunnerSource{
		busName:    pacRunnerBusName,
		objectPath: pacRunnerObjectPath,
		dial:       dbus.ConnectSystemBus,
		timeout:    2 * time.Second,
	}
}

func (p *PacRunnerSource) Name() string             { return "pacrunner" }
func (p *PacRunnerSource) SourcePriority() Priority { return PriorityLast }

// IsAvailable dials the system bus and asks it for the owner of the
// well-known name (GetNameOwner); any failure (no bus, no pacrunner service registered) reports
// unavailable rather than erroring the whole resolution.
func (p *PacRunnerSource) IsAvailable() bool {
	conn, err := p.dial()
	if err != nil {
		return false
	}
	defer conn.Close()

	var owner string
	call := conn.BusObject().Call("org.freedesktop.DBus.GetNameOwner", 0, p.busName)

	return call.Store(&owner) == nil
}

func (p *PacRunnerSource) GetConfig(dest uri.URI, out *Builder) {
	conn, err := p.dial()
	if err != nil {
		return
	}
	defer conn.Close()

	obj := conn.Object(p.busName, p.objectPath)

	var response string

	call := obj.Call("org.pacrunner.Client.FindProxyForURL", 0, dest.String(), dest.Host)
	if call.Err != nil {
		return
	}

	if err := call.Store(&response); err != nil {
		return
	}

	for _, candidate := range pacparse.Parse(response) {
		out.Add(candidate)
	}
}

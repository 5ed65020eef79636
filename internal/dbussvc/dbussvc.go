// Package dbussvc exposes the resolution engine over D-Bus (§6.2): bus name
// org.libproxy.proxy, object path /org/libproxy/proxy, a Query method and
// an APIVersion property. godbus/dbus/v5 has no analogue in the retrieval
// pack; it is the only library that can speak this protocol at all, so it
// is adopted here without a teacher precedent.
package dbussvc

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/rs/zerolog"

	apperrors "github.com/libproxy-go/libproxy/internal/errors"
)

const (
	busName    = "org.libproxy.proxy"
	objectPath = dbus.ObjectPath("/org/libproxy/proxy")
	ifaceName  = "org.libproxy.proxy"
	apiVersion = "1.0"
)

// Resolver is the subset of engine.Engine the service depends on.
type Resolver interface {
	GetProxies(ctx context.Context, url string) []string
}

// Service exports Resolver over the configured D-Bus bus.
type Service struct {
	resolver Resolver
	conn     *dbus.Conn
}

// Options controls how the service attaches to the bus (§6.2 "startup
// options").
type Options struct {
	System  bool // attach to the system bus instead of the session bus
	Replace bool // take ownership from any existing owner
}

// Run connects, exports resolver, requests busName, and blocks until ctx is
// cancelled. It returns a non-nil error (and the process should exit 1, per
// §6.2) if the bus name cannot be acquired.
func Run(ctx context.Context, resolver Resolver, opts Options) error {
	conn, err := connect(opts.System)
	if err != nil {
		return fmt.Errorf("dbussvc: connect: %w", err)
	}
	defer conn.Close()

	svc := &Service{resolver: resolver, conn: conn}

	if err := conn.Export(svc, objectPath, ifaceName); err != nil {
		return fmt.Errorf("dbussvc: export methods: %w", err)
	}

	if err := conn.Export(newPropsHandler(), objectPath, "org.freedesktop.DBus.Properties"); err != nil {
		return fmt.Errorf("dbussvc: export properties: %w", err)
	}

	if err := conn.Export(introspect.NewIntrospectable(introspectNode()), objectPath, "org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("dbussvc: export introspection: %w", err)
	}

	flags := dbus.NameFlagDoNotQueue
	if opts.Replace {
		flags = dbus.NameFlagReplaceExisting | dbus.NameFlagDoNotQueue
	}

	reply, err := conn.RequestName(busName, flags)
	if err != nil {
		return fmt.Errorf("dbussvc: request name: %w", err)
	}

	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("%w: %s", apperrors.ErrDBusNameTaken, busName)
	}

	zerolog.Ctx(ctx).Info().Str("bus_name", busName).Str("path", string(objectPath)).Msg("dbus service listening")

	<-ctx.Done()

	return nil
}

func connect(system bool) (*dbus.Conn, error) {
	if system {
		return dbus.ConnectSystemBus()
	}

	return dbus.ConnectSessionBus()
}

// Query implements the org.libproxy.proxy.Query method (§6.2): returns the
// same list get_proxies would, with "direct://" substituted for an empty
// result (GetProxies already guarantees this, kept here to match the
// method's documented contract explicitly).
func (s *Service) Query(url string) ([]string, *dbus.Error) {
	result := s.resolver.GetProxies(context.Background(), url)
	if len(result) == 0 {
		result = []string{"direct://"}
	}

	return result, nil
}

func introspectNode() *introspect.Node {
	return &introspect.Node{
		Name: string(objectPath),
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name: ifaceName,
				Methods: []introspect.Method{
					{
						Name: "Query",
						Args: []introspect.Arg{
							{Name: "url", Type: "s", Direction: "in"},
							{Name: "proxies", Type: "as", Direction: "out"},
						},
					},
				},
				Properties: []introspect.Property{
					{Name: "APIVersion", Type: "s", Access: "read"},
				},
			},
		},
	}
}

// propsHandler implements org.freedesktop.DBus.Properties.Get/GetAll for
// the single read-only APIVersion property.
type propsHandler struct{}

func newPropsHandler() *propsHandler { return &propsHandler{} }

func (propsHandler) Get(iface, prop string) (dbus.Variant, *dbus.Error) {
	if iface == ifaceName && prop == "APIVersion" {
		return dbus.MakeVariant(apiVersion), nil
	}

	return dbus.Variant{}, dbus.MakeFailedError(apperrors.ErrDBusUnknownMethod)
}

func (propsHandler) GetAll(iface string) (map[string]dbus.Variant, *dbus.Error) {
	if iface != ifaceName {
		return nil, dbus.MakeFailedError(apperrors.ErrDBusUnknownMethod)
	}

	return map[string]dbus.Variant{"APIVersion": dbus.MakeVariant(apiVersion)}, nil
}

// Package pacrt embeds a JavaScript interpreter (github.com/dop251/goja) to
// execute a PAC script under the FindProxyForURL(url, host) contract
// (§4.4). It is grounded on the same library saucelabs/forwarder uses for
// PAC evaluation in the retrieval pack.
package pacrt

import (
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/dop251/goja"

	"github.com/libproxy-go/libproxy/internal/pacutils"
	"github.com/libproxy-go/libproxy/internal/uri"
)

// scriptTimeout bounds a single FindProxyForURL evaluation as a defense
// against a hostile or looping PAC script (§5, "watchdog").
const scriptTimeout = 5 * time.Second

// Resolver performs the getaddrinfo-style lookups the PAC sandbox needs for
// dnsResolve/myIpAddress. The default implementation wraps net.LookupHost.
type Resolver interface {
	LookupHost(host string) (addr string, ok bool)
}

// SystemResolver is the default Resolver, backed by net.LookupHost.
type SystemResolver struct{}

// LookupHost performs getaddrinfo and returns the first resolved address.
func (SystemResolver) LookupHost(host string) (string, bool) {
	addrs, err := net.LookupHost(host)
	if err != nil || len(addrs) == 0 {
		return "", false
	}

	return addrs[0], true
}

// Runtime executes a single PAC script. It is not safe for concurrent use;
// the resolution engine serializes access with its own mutex (§4.4, §5).
type Runtime struct {
	resolver     Resolver
	alertSink    io.Writer
	alertEnabled bool

	vm        *goja.Runtime
	findProxy goja.Callable
}

// New constructs a Runtime. alertSink receives PAC alert() output when
// alertEnabled is true (PX_DEBUG_PACALERT, §4.4 point 3); a nil alertSink
// defaults to os.Stderr, and alertEnabled false keeps alert() silent.
func New(resolver Resolver, alertSink io.Writer, alertEnabled bool) *Runtime {
	if resolver == nil {
		resolver = SystemResolver{}
	}

	if alertSink == nil {
		alertSink = os.Stderr
	}

	return &Runtime{resolver: resolver, alertSink: alertSink, alertEnabled: alertEnabled}
}

// SetPAC compiles and installs pacBytes as the active script. It returns
// false on a compile error, a missing FindProxyForURL, or a failure
// executing the pacutils helper preamble; the caller must not call Run
// after a false return (§4.4: "set_pac → false" on syntax error).
func (r *Runtime) SetPAC(pacBytes []byte) bool {
	vm := goja.New()
	r.bindHostFunctions(vm)

	if _, err := vm.RunString(pacutils.Source); err != nil {
		return false
	}

	if _, err := vm.RunString(string(pacBytes)); err != nil {
		return false
	}

	fn, ok := goja.AssertFunction(vm.Get("FindProxyForURL"))
	if !ok {
		return false
	}

	r.vm = vm
	r.findProxy = fn

	return true
}

func (r *Runtime) bindHostFunctions(vm *goja.Runtime) {
	_ = vm.Set("dnsResolve", func(host string) interface{} {
		if addr, ok := r.resolver.LookupHost(host); ok {
			return addr
		}

		return nil
	})

	_ = vm.Set("myIpAddress", func() interface{} {
		hostname, err := os.Hostname()
		if err != nil {
			return nil
		}

		if addr, ok := r.resolver.LookupHost(hostname); ok {
			return addr
		}

		return nil
	})

	_ = vm.Set("alert", func(msg string) {
		if r.alertEnabled {
			fmt.Fprintln(r.alertSink, msg)
		}
	})
}

// Run evaluates FindProxyForURL(dest, dest.Host) and returns its result.
// Any runtime error, or a return value that is not a string (including the
// literal "undefined"), is reported as "" (§4.4 failure semantics).
func (r *Runtime) Run(dest uri.URI) string {
	if r.findProxy == nil || r.vm == nil {
		return ""
	}

	timer := time.AfterFunc(scriptTimeout, func() {
		r.vm.Interrupt("pac script exceeded time budget")
	})
	defer timer.Stop()

	result, err := r.findProxy(goja.Undefined(), r.vm.ToValue(dest.String()), r.vm.ToValue(dest.Host))
	if err != nil {
		return ""
	}

	s, ok := result.Export().(string)
	if !ok || s == "undefined" {
		return ""
	}

	return s
}

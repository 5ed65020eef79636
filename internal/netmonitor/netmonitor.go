// Package netmonitor reports network-availability transitions to the
// resolution engine (§4.6 state machine, §5 "network-monitor callbacks take
// the same mutex"). A network-available transition clears the engine's PAC
// cache so the next call re-downloads rather than serving stale state.
package netmonitor

import (
	"context"
	"net"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Monitor reports whether the network is currently usable and lets callers
// subscribe to up/down transitions.
type Monitor interface {
	// Online reports the current state.
	Online() bool
	// OnChange registers fn to be called whenever the state transitions.
	// fn receives the new online state. OnChange itself never blocks.
	OnChange(fn func(online bool))
}

// StaticMonitor always reports online, used when engineopts.Options.ForceOnline
// is set (tests, --dry-run tooling).
type StaticMonitor struct{}

func (StaticMonitor) Online() bool        { return true }
func (StaticMonitor) OnChange(func(bool)) {}

// PollMonitor polls net.Interfaces() for a non-loopback interface carrying a
// unicast address with its up flag set, rate-limited so a flapping link
// doesn't cause a callback storm.
type PollMonitor struct {
	interval time.Duration
	limiter  *rate.Limiter

	mu       sync.Mutex
	online   bool
	handlers []func(bool)
}

// NewPollMonitor starts polling immediately in a background goroutine until
// ctx is cancelled. interval <= 0 defaults to 5s.
func NewPollMonitor(ctx context.Context, interval time.Duration) *PollMonitor {
	if interval <= 0 {
		interval = 5 * time.Second
	}

	m := &PollMonitor{
		interval: interval,
		limiter:  rate.NewLimiter(rate.Every(time.Second), 1),
		online:   detectOnline(),
	}

	go m.loop(ctx)

	return m
}

func (m *PollMonitor) loop(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !m.limiter.Allow() {
				continue
			}

			m.setOnline(detectOnline())
		}
	}
}

func (m *PollMonitor) setOnline(online bool) {
	m.mu.Lock()
	changed := online != m.online
	m.online = online
	handlers := append([]func(bool){}, m.handlers...)
	m.mu.Unlock()

	if !changed {
		return
	}

	for _, h := range handlers {
		h(online)
	}
}

func (m *PollMonitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.online
}

func (m *PollMonitor) OnChange(fn func(bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.handlers = append(m.handlers, fn)
}

// detectOnline looks for any interface that is up, not a loopback, and
// carries at least one address that is not link-local — a coarse but dependency-free
// "do we plausibly have a route to anywhere" check.
func detectOnline() bool {
	ifaces, err := net.Interfaces()
	if err != nil {
		return false
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil || len(addrs) == 0 {
			continue
		}

		for _, a := range addrs {
			if ipNet, ok := a.(*net.IPNet); ok && !ipNet.IP.IsLinkLocalUnicast() {
				return true
			}
		}
	}

	return false
}

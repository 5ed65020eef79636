// Package engine implements the resolution engine (§4.6): the state
// machine that enumerates config sources, expands wpad/pac+ candidates
// through the PAC cache/downloader/runtime/parser pipeline, and always
// returns at least one syntactically valid proxy URI.
package engine

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	apperrors "github.com/libproxy-go/libproxy/internal/errors"
	"github.com/libproxy-go/libproxy/internal/metrics"
	"github.com/libproxy-go/libproxy/internal/netmonitor"
	"github.com/libproxy-go/libproxy/internal/pacfetch"
	"github.com/libproxy-go/libproxy/internal/pacparse"
	"github.com/libproxy-go/libproxy/internal/pacrt"
	"github.com/libproxy-go/libproxy/internal/pacstore"
	"github.com/libproxy-go/libproxy/internal/uri"

	"github.com/libproxy-go/libproxy/internal/configsrc"
	"github.com/libproxy-go/libproxy/internal/engineopts"
)

// directResult is the invariant-satisfying fallback (§8 invariant 1/2):
// get_proxies never returns an empty list or an invalid URI.
var directResult = []string{"direct://"}

// Engine is the thread-safe resolution engine (§5): a single mutex guards
// the PAC cache, PAC runtime, and config registry for the duration of
// GetProxies.
type Engine struct {
	mu sync.Mutex

	opts     engineopts.Options
	registry *configsrc.Registry
	monitor  netmonitor.Monitor
	download pacfetch.Downloader
	runtime  *pacrt.Runtime
	store    *pacstore.Store
	state    pacState

	wpadLimiter *rateLimiterFunc
	fetchGroup  singleflight.Group

	cancelMonitor context.CancelFunc
}

// rateLimiterFunc is a minimal seam so WPAD retry gating can be swapped in
// tests; pacfetch.NewWPADRetryLimiter() supplies the production limiter.
type rateLimiterFunc struct {
	allow func() bool
}

// New constructs an Engine with the given options, wiring the default
// config sources (env var, manual-style desktop stubs, pacrunner), the
// default HTTP PAC downloader, and a poll-based network monitor (or a
// static always-online monitor when opts.ForceOnline is set).
func New(opts engineopts.Options) *Engine {
	metrics.BindService()

	registry := configsrc.NewRegistry()
	registry.Register(configsrc.NewEnvSource())
	registry.Register(configsrc.NewGnomeSource(nil))
	registry.Register(configsrc.NewKDESource(nil))
	registry.Register(configsrc.NewMacOSSource(nil))
	registry.Register(configsrc.NewWindowsSource(nil))
	registry.Register(configsrc.NewXDGPortalSource(nil))
	registry.Register(configsrc.NewPacRunnerSource())

	var monitor netmonitor.Monitor = netmonitor.StaticMonitor{}

	bgCtx, cancel := context.WithCancel(context.Background())

	if !opts.ForceOnline {
		monitor = netmonitor.NewPollMonitor(bgCtx, 5*time.Second)
	}

	if opts.ConfigOption != "" && (opts.ConfigPlugin == "" || opts.ConfigPlugin == "file") {
		registry.Register(configsrc.NewFileSource(bgCtx, opts.ConfigOption))
	}

	e := &Engine{
		opts:          opts,
		registry:      registry,
		monitor:       monitor,
		download:      pacfetch.NewHTTPDownloader(pacfetch.DefaultMaxBytes, pacfetch.DefaultConnectTimeout),
		runtime:       pacrt.New(nil, nil, engineopts.DebugPACAlertEnabled()),
		store:         pacstore.New(0, 0),
		wpadLimiter:   &rateLimiterFunc{allow: pacfetch.NewWPADRetryLimiter().Allow},
		cancelMonitor: cancel,
	}

	monitor.OnChange(func(online bool) {
		if online {
			e.handleNetworkUp()
		}
	})

	return e
}

// WithRegistry lets callers (e.g. tests) replace the default registry
// entirely.
func (e *Engine) WithRegistry(r *configsrc.Registry) *Engine {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.registry = r

	return e
}

// Registry exposes the engine's config-source registry so callers can
// Register additional sources (e.g. a file-backed source built with a
// context the caller owns) before the first GetProxies call.
func (e *Engine) Registry() *configsrc.Registry {
	return e.registry
}

// Close tears down the engine's background network monitor (§5, "the
// runtime is reusable across calls; it is torn down at engine drop").
func (e *Engine) Close() {
	if e.cancelMonitor != nil {
		e.cancelMonitor()
	}
}

func (e *Engine) handleNetworkUp() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state.clear()
	e.store.Purge()
}

// GetProxies resolves url into one or more proxy URIs, per the algorithm in
// §4.6. It never panics and always returns at least one element.
func (e *Engine) GetProxies(ctx context.Context, rawURL string) []string {
	start := time.Now()
	result := e.getProxies(ctx, rawURL)

	metrics.M.Duration.Observe(time.Since(start).Seconds())

	if len(result) == 1 && result[0] == "direct://" {
		metrics.M.ResolutionsDirect.Inc()
	} else {
		metrics.M.ResolutionsProxy.Inc()
	}

	return result
}

func (e *Engine) getProxies(ctx context.Context, rawURL string) []string {
	dest, err := uri.Parse(rawURL)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Str("url", rawURL).Err(err).Msg("destination url rejected")

		return directResult
	}

	if !e.opts.ForceOnline && !e.monitor.Online() {
		zerolog.Ctx(ctx).Debug().Err(apperrors.ErrNetworkDown).Msg("network unavailable, short-circuiting to direct")

		return directResult
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	candidates := e.collectCandidates(ctx, dest)

	out := make([]string, 0, len(candidates))

	for _, c := range candidates {
		out = append(out, e.resolveCandidate(ctx, dest, c)...)
	}

	if len(out) == 0 {
		return directResult
	}

	return out
}

// GetConfiguration returns the raw candidates before PAC expansion (§4.6,
// used by tests and the debug surface). It takes the same engine mutex as
// GetProxies but performs no PAC fetch/compile/run.
func (e *Engine) GetConfiguration(rawURL string) []string {
	dest, err := uri.Parse(rawURL)
	if err != nil {
		return directResult
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	candidates := e.collectCandidates(context.Background(), dest)
	if len(candidates) == 0 {
		return directResult
	}

	return candidates
}

// collectCandidates enumerates available sources in sort order, appending
// each source's raw candidates (§4.6 step 2). Caller must hold e.mu.
func (e *Engine) collectCandidates(ctx context.Context, dest uri.URI) []string {
	for _, s := range e.registry.Unavailable() {
		zerolog.Ctx(ctx).Debug().Str("source", s.Name()).Err(apperrors.ErrConfigUnavailable).Msg("config source skipped")
	}

	sources := e.sourcesForCall(ctx)

	var b configsrc.Builder

	for _, s := range sources {
		s.GetConfig(dest, &b)
	}

	return b.Candidates()
}

// sourcesForCall applies PX_FORCE_CONFIG / Options.ConfigPlugin (§4.6
// Options): an explicit plugin name restricts resolution to that one
// source, even if it reports itself unavailable (the misconfiguration is
// more useful surfaced than silently ignored).
func (e *Engine) sourcesForCall(ctx context.Context) []configsrc.Source {
	if name := e.opts.ResolveConfigPlugin(); name != "" {
		if s, ok := e.registry.ByName(name); ok {
			return []configsrc.Source{s}
		}

		zerolog.Ctx(ctx).Warn().Str("source", name).Err(apperrors.ErrForcedSourceUnknown).Msg("forced config source not registered")

		return nil
	}

	return e.registry.Sorted()
}

// resolveCandidate implements step 3 of the algorithm for one candidate.
// Caller must hold e.mu.
func (e *Engine) resolveCandidate(ctx context.Context, dest uri.URI, candidate string) []string {
	switch {
	case candidate == "wpad://":
		return e.resolveWPAD(ctx, dest)
	case strings.HasPrefix(candidate, "pac+"):
		return e.resolvePAC(ctx, dest, strings.TrimPrefix(candidate, "pac+"))
	default:
		if normalized, ok := normalizedProxyCandidate(candidate); ok {
			return []string{normalized}
		}

		return nil
	}
}

// normalizedProxyCandidate accepts a candidate already in one of the
// output schemes (http[s], socks{,4,4a,5}, direct) and returns its
// canonical string form.
func normalizedProxyCandidate(candidate string) (string, bool) {
	pu, err := uri.ParseProxyURI(candidate)
	if err != nil || !uri.ValidProxySchemes[strings.ToLower(pu.Scheme)] {
		return "", false
	}

	return pu.String(), true
}

func (e *Engine) resolveWPAD(ctx context.Context, dest uri.URI) []string {
	if e.runtime == nil {
		zerolog.Ctx(ctx).Error().Err(apperrors.ErrNoRuntime).Msg("wpad candidate dropped")

		return nil
	}

	if e.state.pacSourceURI != pacfetch.CanonicalWPADURI {
		e.state.clear()
	}

	e.state.wpadActive = true

	if !e.state.hasCachedPAC() {
		bytes, ok := e.fetchWPAD(ctx)
		if !ok {
			e.state.clear()

			return nil
		}

		e.state.pacBytes = bytes
		e.state.pacSourceURI = pacfetch.CanonicalWPADURI

		if !e.runtime.SetPAC(bytes) {
			zerolog.Ctx(ctx).Debug().Str("uri", pacfetch.CanonicalWPADURI).Err(apperrors.ErrPacCompileFailed).Msg("wpad script rejected")
			e.state.clear()

			return nil
		}
	}

	return e.runAndParse(ctx, dest)
}

// fetchWPAD walks the DNS-devolution candidate chain (§4.3), trying each
// wpad.<domain>/wpad.dat URI in turn and returning the first successful
// fetch. Every attempt goes through fetchGroup keyed by URI; since the
// caller holds e.mu, attempts are already serialized and no two downloads
// are ever in flight at once.
func (e *Engine) fetchWPAD(ctx context.Context) ([]byte, bool) {
	if !e.wpadLimiter.allow() {
		return nil, false
	}

	for _, candidate := range pacfetch.DevolutionCandidates(localDomain()) {
		bytes, err, _ := e.fetchGroup.Do(candidate, func() (interface{}, error) {
			return e.download.Download(ctx, candidate)
		})
		if err != nil {
			zerolog.Ctx(ctx).Debug().
				Str("uri", candidate).
				Err(fmt.Errorf("%w: %w", apperrors.ErrDownloadFailed, err)).
				Msg("wpad candidate fetch failed")

			continue
		}

		metrics.M.PacFetchSuccess.Inc()

		return bytes.([]byte), true
	}

	metrics.M.PacFetchFailed.Inc()

	return nil, false
}

// localDomain derives the DNS-devolution seed domain from the machine's
// own FQDN, per the original WPAD devolution algorithm: the domain is
// everything after the first label of the local hostname.
func localDomain() string {
	hostname, err := os.Hostname()
	if err != nil {
		return ""
	}

	idx := strings.IndexByte(hostname, '.')
	if idx < 0 {
		return ""
	}

	return hostname[idx+1:]
}

func (e *Engine) resolvePAC(ctx context.Context, dest uri.URI, sourceURI string) []string {
	if e.runtime == nil {
		zerolog.Ctx(ctx).Error().Err(apperrors.ErrNoRuntime).Msg("pac candidate dropped")

		return nil
	}

	e.state.wpadActive = false

	if e.state.pacSourceURI != sourceURI {
		e.state.clear()
	}

	if !e.state.hasCachedPAC() {
		if cached, ok := e.store.Get(sourceURI); ok {
			e.state.pacBytes = cached
			e.state.pacSourceURI = sourceURI
			metrics.M.PacCacheHits.Inc()
		} else {
			bytes, err, _ := e.fetchGroup.Do(sourceURI, func() (interface{}, error) {
				return e.download.Download(ctx, sourceURI)
			})
			if err != nil {
				zerolog.Ctx(ctx).Debug().
					Str("uri", sourceURI).
					Err(fmt.Errorf("%w: %w", apperrors.ErrDownloadFailed, err)).
					Msg("pac candidate fetch failed")
				metrics.M.PacFetchFailed.Inc()

				return nil
			}

			metrics.M.PacFetchSuccess.Inc()

			data := bytes.([]byte)
			e.state.pacBytes = data
			e.state.pacSourceURI = sourceURI
			e.store.Put(sourceURI, data)
		}

		if !e.runtime.SetPAC(e.state.pacBytes) {
			zerolog.Ctx(ctx).Debug().Str("uri", sourceURI).Err(apperrors.ErrPacCompileFailed).Msg("pac script rejected")
			e.state.clear()

			return nil
		}
	}

	return e.runAndParse(ctx, dest)
}

func (e *Engine) runAndParse(ctx context.Context, dest uri.URI) []string {
	response := e.runtime.Run(dest)
	if response == "" {
		zerolog.Ctx(ctx).Debug().Str("url", dest.String()).Err(apperrors.ErrPacRunFailed).Msg("pac evaluation produced no result, treating as empty")

		return nil
	}

	return pacparse.Parse(response)
}

// Package configsrc defines the config-source abstraction (§6.3): "given a
// destination URI, append zero or more candidate proxy URIs into a
// builder", tagged with a priority and an availability predicate. It also
// holds the registry that sorts sources stably by priority then
// registration order (§3 ConfigPluginRegistration, §9 "plugin polymorphism
// without inheritance").
package configsrc

import (
	"sort"
	"sync"

	"github.com/libproxy-go/libproxy/internal/uri"
)

// Priority is the coarse ordering tag a Source registers with.
type Priority int

const (
	PriorityFirst Priority = iota
	PriorityDefault
	PriorityLast
)

// Builder collects the raw candidates a Source emits for one destination.
type Builder struct {
	candidates []string
}

// Add appends a raw candidate string: "direct://", a manual proxy URI,
// "wpad://", or "pac+<url>".
func (b *Builder) Add(candidate string) {
	b.candidates = append(b.candidates, candidate)
}

// Candidates returns a snapshot of everything added so far, in order.
func (b *Builder) Candidates() []string {
	out := make([]string, len(b.candidates))
	copy(out, b.candidates)

	return out
}

// Source is the capability every config source presents to the engine.
type Source interface {
	// Name identifies the source for PX_FORCE_CONFIG and diagnostics.
	Name() string
	// SourcePriority tags this source's place in the sort order.
	SourcePriority() Priority
	// IsAvailable permits per-environment gating (e.g. desktop detection).
	IsAvailable() bool
	// GetConfig appends zero or more candidates for dest into out.
	GetConfig(dest uri.URI, out *Builder)
}

// Registry holds the process-wide set of compiled-in sources, constructed
// explicitly by the engine at New() — no dlopen/dlsym, no global mutable
// state outside the Registry the engine owns (§9 "global registration").
type Registry struct {
	mu   sync.RWMutex
	regs []registration
}

type registration struct {
	source Source
	order  int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds s to the registry. Registration order is the stable
// tie-break within a priority tier.
func (r *Registry) Register(s Source) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.regs = append(r.regs, registration{source: s, order: len(r.regs)})
}

// Sorted returns the currently-available sources, sorted stably by
// priority then registration order (§3 "Sort is stable by priority then
// registration order").
func (r *Registry) Sorted() []Source {
	r.mu.RLock()
	defer r.mu.RUnlock()

	regs := make([]registration, len(r.regs))
	copy(regs, r.regs)

	sort.SliceStable(regs, func(i, j int) bool {
		return regs[i].source.SourcePriority() < regs[j].source.SourcePriority()
	})

	out := make([]Source, 0, len(regs))

	for _, reg := range regs {
		if reg.source.IsAvailable() {
			out = append(out, reg.source)
		}
	}

	return out
}

// Unavailable returns the currently-unavailable registered sources, for
// diagnostic logging at the config-source-skipped boundary (§7
// ConfigUnavailable).
func (r *Registry) Unavailable() []Source {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Source

	for _, reg := range r.regs {
		if !reg.source.IsAvailable() {
			out = append(out, reg.source)
		}
	}

	return out
}

// ByName returns the single registered source named name, if any,
// regardless of availability (used by PX_FORCE_CONFIG, which should
// surface a misconfigured/unavailable forced source rather than silently
// falling through).
func (r *Registry) ByName(name string) (Source, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, reg := range r.regs {
		if reg.source.Name() == name {
			return reg.source, true
		}
	}

	return nil, false
}

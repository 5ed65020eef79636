package configsrc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/libproxy-go/libproxy/internal/uri"
)

func TestRegistrySortsByPriorityThenOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeSrc{name: "b", prio: PriorityDefault, avail: true})
	r.Register(&fakeSrc{name: "a", prio: PriorityFirst, avail: true})
	r.Register(&fakeSrc{name: "c", prio: PriorityDefault, avail: true})
	r.Register(&fakeSrc{name: "z", prio: PriorityLast, avail: true})

	sorted := r.Sorted()

	var names []string
	for _, s := range sorted {
		names = append(names, s.Name())
	}

	assert.Equal(t, []string{"a", "b", "c", "z"}, names)
}

func TestRegistrySortedSkipsUnavailable(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeSrc{name: "avail", prio: PriorityDefault, avail: true})
	r.Register(&fakeSrc{name: "unavail", prio: PriorityDefault, avail: false})

	sorted := r.Sorted()
	assert.Len(t, sorted, 1)
	assert.Equal(t, "avail", sorted[0].Name())
}

func TestRegistryByNameFindsRegardlessOfAvailability(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeSrc{name: "unavail", prio: PriorityDefault, avail: false})

	s, ok := r.ByName("unavail")
	assert.True(t, ok)
	assert.Equal(t, "unavail", s.Name())

	_, ok = r.ByName("missing")
	assert.False(t, ok)
}

func TestBuilderAddAndCandidates(t *testing.T) {
	var b Builder
	b.Add("direct://")
	b.Add("http://p:8080")

	assert.Equal(t, []string{"direct://", "http://p:8080"}, b.Candidates())
}

type fakeSrc struct {
	name  string
	prio  Priority
	avail bool
}

func (f *fakeSrc) Name() string             { return f.name }
func (f *fakeSrc) SourcePriority() Priority { return f.prio }
func (f *fakeSrc) IsAvailable() bool        { return f.avail }
func (f *fakeSrc) GetConfig(dest uri.URI, out *Builder) {}

package provider

import (
	"cmp"
	"github.com/explore-flights/farefinder/ratelimit"
	"slices"
)

type Entry struct {
	Adapter Adapter
	Config  Config
}

// Registry pairs adapters with their configuration. It is immutable after construction.
type Registry struct {
	entries []Entry
}

// NewRegistry keeps every adapter that has a config; adapters without one are ignored.
// Entries are ordered by ascending priority, then name.
func NewRegistry(configs []Config, adapters ...Adapter) *Registry {
	byName := make(map[string]Config, len(configs))
	for _, c := range configs {
		byName[c.Name] = c
	}

	entries := make([]Entry, 0, len(adapters))
	for _, a := range adapters {
		if c, ok := byName[a.Name()]; ok {
			entries = append(entries, Entry{Adapter: a, Config: c})
		}
	}

	slices.SortStableFunc(entries, func(a, b Entry) int {
		return cmp.Or(
			cmp.Compare(a.Config.Priority, b.Config.Priority),
			cmp.Compare(a.Config.Name, b.Config.Name),
		)
	})

	return &Registry{entries: entries}
}

func (r *Registry) All() []Entry {
	return slices.Clone(r.entries)
}

func (r *Registry) Enabled() []Entry {
	result := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		if e.Config.Enabled {
			result = append(result, e)
		}
	}

	return result
}

func (r *Registry) Config(name string) (Config, bool) {
	for _, e := range r.entries {
		if e.Config.Name == name {
			return e.Config, true
		}
	}

	return Config{}, false
}

func (r *Registry) Limits() map[string]ratelimit.Limit {
	limits := make(map[string]ratelimit.Limit, len(r.entries))
	for _, e := range r.entries {
		limits[e.Config.Name] = e.Config.RateLimit
	}

	return limits
}

package subgraph

import (
	"github.com/iafilius/ChartDrilldown/src/types"
)

// ScopedSet is the range-bounded working copy of a chart's series. Entries are keyed by series name and
// are updated in place on every resync; once added an entry is never removed or replaced.
type ScopedSet struct {
	entries []*types.Series
	byName  map[string]*types.Series
}

// NewScopedSet returns an empty set.
func NewScopedSet() *ScopedSet {
	return &ScopedSet{byName: map[string]*types.Series{}}
}

// Len is the number of entries.
func (s *ScopedSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Get returns the entry for name.
func (s *ScopedSet) Get(name string) (*types.Series, bool) {
	if s == nil {
		return nil, false
	}
	e, ok := s.byName[name]
	return e, ok
}

// Names lists entry names in insertion order.
func (s *ScopedSet) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Name
	}
	return out
}

// Snapshot copies every entry. Surfaces receive snapshots so they never alias the set.
func (s *ScopedSet) Snapshot() []types.Series {
	if s == nil {
		return nil
	}
	out := make([]types.Series, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Clone()
	}
	return out
}

// Points returns the total number of scoped points across entries.
func (s *ScopedSet) Points() int {
	n := 0
	if s == nil {
		return n
	}
	for _, e := range s.entries {
		n += len(e.Data)
	}
	return n
}

// Scope recomputes target from source: every series' points with X inside rng, original order kept.
// Existing entries get new Data and Disabled; unknown names are appended. Entries whose series left the
// source are kept as they are.
func Scope(source []*types.Series, rng types.SelectionRange, target *ScopedSet) {
	if target == nil {
		return
	}
	if target.byName == nil {
		target.byName = map[string]*types.Series{}
	}
	for _, set := range source {
		if set == nil {
			continue
		}
		reduced := make([]types.Point, 0, len(set.Data))
		for _, p := range set.Data {
			if rng.Contains(p.X) {
				reduced = append(reduced, p)
			}
		}
		if existing, ok := target.byName[set.Name]; ok {
			existing.Data = reduced
			existing.Disabled = set.Disabled
			continue
		}
		entry := &types.Series{
			Name:     set.Name,
			Color:    set.Color,
			Renderer: set.Renderer,
			Disabled: set.Disabled,
			Data:     reduced,
		}
		target.entries = append(target.entries, entry)
		target.byName[set.Name] = entry
	}
}

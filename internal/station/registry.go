package station

// Entry describes how a station's relations are stored.
type Entry struct {
	Station   Station
	TableName string
	Enabled   bool
	// Synthetic stations have no relation table; their relations are built
	// from preparer configuration.
	Synthetic bool
}

// Registry is the operator registry. The zero value is empty; use
// DefaultRegistry for the production layout.
type Registry struct {
	entries map[Station]Entry
}

// NewRegistry builds a registry from entries. Later entries for the same
// station replace earlier ones.
func NewRegistry(entries ...Entry) *Registry {
	r := &Registry{entries: make(map[Station]Entry, len(entries))}
	for _, e := range entries {
		r.entries[e.Station] = e
	}
	return r
}

// DefaultRegistry returns the shop's standard station layout. The preparer
// table is disabled and served synthetically.
func DefaultRegistry() *Registry {
	var entries []Entry
	for _, s := range All {
		entries = append(entries, Entry{
			Station:   s,
			TableName: s.Slug(),
			Enabled:   s != Preparer,
			Synthetic: s == Preparer,
		})
	}
	return NewRegistry(entries...)
}

// Lookup returns the registry entry for s.
func (r *Registry) Lookup(s Station) (Entry, bool) {
	e, ok := r.entries[s]
	return e, ok
}

// TableNameFor returns the relation table slug of an enabled station, or
// "" when the station is unknown or disabled.
func (r *Registry) TableNameFor(s Station) string {
	e, ok := r.entries[s]
	if !ok || !e.Enabled {
		return ""
	}
	return e.TableName
}

// Stations returns the registered stations in id order.
func (r *Registry) Stations() []Station {
	var out []Station
	for _, s := range All {
		if _, ok := r.entries[s]; ok {
			out = append(out, s)
		}
	}
	return out
}

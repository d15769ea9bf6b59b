package catalog

import "fmt"

type LoadState uint

const (
	Empty LoadState = iota
	PartiallyLoaded
	FullyLoadedNoChoices
	FullyLoadedWithChoices
)

func (s LoadState) String() string {
	switch s {
	case PartiallyLoaded:
		return "partial"
	case FullyLoadedNoChoices:
		return "all-no-choices"
	case FullyLoadedWithChoices:
		return "all-with-choices"
	}
	return "empty"
}

func (s LoadState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *LoadState) UnmarshalText(b []byte) error {
	for _, state := range []LoadState{Empty, PartiallyLoaded, FullyLoadedNoChoices, FullyLoadedWithChoices} {
		if state.String() == string(b) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown load state %q", b)
}

// FieldTracker remembers which fields a cataloger has already loaded, with
// or without display choices.
type FieldTracker struct {
	allWithChoices bool
	allNoChoices   bool
	withChoices    map[string]struct{}
	noChoices      map[string]struct{}
}

func NewFieldTracker() *FieldTracker {
	return &FieldTracker{
		withChoices: make(map[string]struct{}),
		noChoices:   make(map[string]struct{}),
	}
}

// AllFieldsLoaded reports whether a full load covers the query. A load that
// included choices answers both queries.
func (t *FieldTracker) AllFieldsLoaded(noChoices bool) bool {
	if t.allWithChoices {
		return true
	}
	return noChoices && t.allNoChoices
}

func (t *FieldTracker) isLoaded(name string, noChoices bool) bool {
	if _, ok := t.withChoices[name]; ok {
		return true
	}
	if noChoices {
		_, ok := t.noChoices[name]
		return ok
	}
	return false
}

// FieldsToLoad returns the requested names that still need a fetch, in
// request order without duplicates or empty names.
func (t *FieldTracker) FieldsToLoad(requested []string, noChoices bool) []string {
	if t.AllFieldsLoaded(noChoices) {
		return []string{}
	}
	seen := make(map[string]struct{}, len(requested))
	ret := make([]string, 0, len(requested))
	for _, name := range requested {
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		if !t.isLoaded(name, noChoices) {
			ret = append(ret, name)
		}
	}
	return ret
}

func (t *FieldTracker) AddLoadedFields(fields []string, noChoices bool) {
	for _, name := range fields {
		if name == "" {
			continue
		}
		if noChoices {
			if _, ok := t.withChoices[name]; !ok {
				t.noChoices[name] = struct{}{}
			}
		} else {
			t.withChoices[name] = struct{}{}
			delete(t.noChoices, name)
		}
	}
}

// SetAllLoaded records a completed full load. A load with choices
// supersedes an earlier load without.
func (t *FieldTracker) SetAllLoaded(noChoices bool) {
	if noChoices {
		t.allNoChoices = true
		return
	}
	t.allWithChoices = true
	t.allNoChoices = false
}

func (t *FieldTracker) State() LoadState {
	switch {
	case t.allWithChoices:
		return FullyLoadedWithChoices
	case t.allNoChoices:
		return FullyLoadedNoChoices
	case len(t.withChoices) > 0 || len(t.noChoices) > 0:
		return PartiallyLoaded
	}
	return Empty
}

func (t *FieldTracker) Reset() {
	t.allWithChoices = false
	t.allNoChoices = false
	clear(t.withChoices)
	clear(t.noChoices)
}

// TrackerState is the exported form of a FieldTracker.
type TrackerState struct {
	AllWithChoices bool     `json:"allWithChoices"`
	AllNoChoices   bool     `json:"allNoChoices"`
	WithChoices    []string `json:"withChoices,omitempty"`
	NoChoices      []string `json:"noChoices,omitempty"`
}

func (t *FieldTracker) export() TrackerState {
	return TrackerState{
		AllWithChoices: t.allWithChoices,
		AllNoChoices:   t.allNoChoices,
		WithChoices:    sortedKeys(t.withChoices),
		NoChoices:      sortedKeys(t.noChoices),
	}
}

func (t *FieldTracker) restore(s TrackerState) {
	t.Reset()
	t.AddLoadedFields(s.NoChoices, true)
	t.AddLoadedFields(s.WithChoices, false)
	if s.AllNoChoices {
		t.SetAllLoaded(true)
	}
	if s.AllWithChoices {
		t.SetAllLoaded(false)
	}
}

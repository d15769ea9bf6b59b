package catalog

import (
	"slices"
	"strings"

	"github.com/matst80/slask-catalog/pkg/types"
)

// Snapshot is the exportable state of a cataloger, used to warm start a
// service from disk.
type Snapshot struct {
	System  []types.LightweightField `json:"system"`
	Shared  []types.LightweightField `json:"shared"`
	Local   []types.LightweightField `json:"local"`
	Tracker TrackerState             `json:"tracker"`
}

func sortedFields(m map[string]types.LightweightField) []types.LightweightField {
	ret := make([]types.LightweightField, 0, len(m))
	for _, f := range m {
		ret = append(ret, f.Clone())
	}
	slices.SortFunc(ret, func(a, b types.LightweightField) int {
		return strings.Compare(a.Name, b.Name)
	})
	return ret
}

func (c *FieldCataloger) Snapshot() Snapshot {
	return Snapshot{
		System:  sortedFields(c.system),
		Shared:  sortedFields(c.shared),
		Local:   sortedFields(c.local),
		Tracker: c.tracker.export(),
	}
}

// Restore replaces the catalog content with a snapshot. The content type
// index is rebuilt from the local fields.
func (c *FieldCataloger) Restore(s Snapshot) error {
	sections := map[types.Scope][]types.LightweightField{
		types.SystemScope: s.System,
		types.SharedScope: s.Shared,
		types.LocalScope:  s.Local,
	}
	for _, fields := range sections {
		for _, f := range fields {
			if f.Name == "" {
				return types.NewCatalogError(types.InvalidArgument, "snapshot field without name", nil)
			}
		}
	}
	clear(c.contentTypes)
	for scope, fields := range sections {
		target := c.scopeMap(scope)
		clear(target)
		for _, f := range fields {
			target[f.Name] = f.Clone()
			if scope == types.LocalScope {
				c.indexContentTypes(f)
			}
		}
	}
	c.tracker.restore(s.Tracker)
	return nil
}

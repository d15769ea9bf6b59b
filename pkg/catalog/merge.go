package catalog

import (
	"slices"

	"github.com/matst80/slask-catalog/pkg/types"
)

// candidates groups raw entries by name in document order and picks the
// lowest entry of each group by natural ordering. Content type ids of all
// entries in a group are kept on the candidate.
func candidates(entries []types.LightweightField) []types.LightweightField {
	order := make([]string, 0, len(entries))
	groups := make(map[string][]types.LightweightField, len(entries))
	for _, e := range entries {
		if _, ok := groups[e.Name]; !ok {
			order = append(order, e.Name)
		}
		groups[e.Name] = append(groups[e.Name], e)
	}
	ret := make([]types.LightweightField, 0, len(order))
	for _, name := range order {
		group := groups[name]
		slices.SortStableFunc(group, func(a, b types.LightweightField) int {
			return a.Compare(b)
		})
		best := group[0]
		for _, other := range group[1:] {
			best.ContentTypeIds = unionIds(best.ContentTypeIds, other.ContentTypeIds)
		}
		ret = append(ret, best)
	}
	return ret
}

func unionIds(a, b []types.ContentTypeId) []types.ContentTypeId {
	ret := slices.Clone(a)
	for _, id := range b {
		if !slices.Contains(ret, id) {
			ret = append(ret, id)
		}
	}
	slices.Sort(ret)
	return ret
}

// merge applies a decoded document. An existing field is replaced unless it
// has choices and the candidate has none. A kept local field also collects
// the content types of the candidate.
func (c *FieldCataloger) merge(parsed parsedFields) LoadResult {
	result := LoadResult{}
	for _, scope := range []types.Scope{types.SystemScope, types.SharedScope, types.LocalScope} {
		target := c.scopeMap(scope)
		for _, candidate := range candidates(parsed[scope]) {
			current, exists := target[candidate.Name]
			next := candidate
			replaced := false
			switch {
			case !exists:
				result.Added++
			case candidate.IsBetterThan(current):
				result.Replaced++
				replaced = true
			default:
				result.Kept++
				next = current
			}
			if scope == types.LocalScope {
				if replaced {
					// the replacing entry owns the content types of the field
					c.unindexContentTypes(current)
					next.ContentTypeIds = unionIds(nil, candidate.ContentTypeIds)
				} else {
					next.ContentTypeIds = unionIds(current.ContentTypeIds, candidate.ContentTypeIds)
				}
				c.indexContentTypes(next)
			}
			target[next.Name] = next
		}
	}
	mergedFields.WithLabelValues("added").Add(float64(result.Added))
	mergedFields.WithLabelValues("replaced").Add(float64(result.Replaced))
	mergedFields.WithLabelValues("kept").Add(float64(result.Kept))
	return result
}

func (c *FieldCataloger) indexContentTypes(f types.LightweightField) {
	for _, id := range f.ContentTypeIds {
		names, ok := c.contentTypes[id]
		if !ok {
			names = make(map[string]struct{})
			c.contentTypes[id] = names
		}
		names[f.Name] = struct{}{}
	}
}

func (c *FieldCataloger) unindexContentTypes(f types.LightweightField) {
	for _, id := range f.ContentTypeIds {
		names, ok := c.contentTypes[id]
		if !ok {
			continue
		}
		delete(names, f.Name)
		if len(names) == 0 {
			delete(c.contentTypes, id)
		}
	}
}

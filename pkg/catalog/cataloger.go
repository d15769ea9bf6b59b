// Package catalog keeps the metadata of content editor fields fetched from a
// field cataloger service. Fields are held per scope (system, shared, local)
// and local fields are indexed by content type.
//
// A FieldCataloger is not safe for concurrent use; callers sharing one
// instance must serialize access.
package catalog

import (
	"context"
	"errors"
	"log"
	"maps"
	"slices"

	"github.com/matst80/slask-catalog/pkg/types"
)

type FieldCataloger struct {
	fetcher      Fetcher
	tracker      *FieldTracker
	system       map[string]types.LightweightField
	shared       map[string]types.LightweightField
	local        map[string]types.LightweightField
	contentTypes map[types.ContentTypeId]map[string]struct{}
}

type LoadResult struct {
	Fetched   bool               `json:"fetched"`
	Requested []string           `json:"requested,omitempty"`
	Flags     types.ControlFlags `json:"flags"`
	Added     int                `json:"added"`
	Replaced  int                `json:"replaced"`
	Kept      int                `json:"kept"`
}

func (r LoadResult) Changed() bool {
	return r.Added > 0 || r.Replaced > 0
}

func New(fetcher Fetcher) (*FieldCataloger, error) {
	if fetcher == nil {
		return nil, types.NewCatalogError(types.InvalidArgument, "fetcher must not be nil", nil)
	}
	return &FieldCataloger{
		fetcher:      fetcher,
		tracker:      NewFieldTracker(),
		system:       make(map[string]types.LightweightField),
		shared:       make(map[string]types.LightweightField),
		local:        make(map[string]types.LightweightField),
		contentTypes: make(map[types.ContentTypeId]map[string]struct{}),
	}, nil
}

// LoadFields fetches the named fields (all fields when names is empty) and
// merges them into the catalog. Unless refresh is set, fields that are
// already loaded for the requested choice mode are not fetched again.
// A failed fetch or decode leaves the catalog and the tracker untouched.
func (c *FieldCataloger) LoadFields(ctx context.Context, names []string, flags types.ControlFlags, refresh bool) (LoadResult, error) {
	if slices.Contains(names, "") {
		return LoadResult{}, types.NewCatalogError(types.InvalidArgument, "field name must not be empty", nil)
	}
	noChoices := flags.ExcludesChoices()
	all := len(names) == 0
	toLoad := uniqueNames(names)
	if !refresh {
		if all && c.tracker.AllFieldsLoaded(noChoices) {
			noSkippedLoads.Inc()
			return LoadResult{}, nil
		}
		if !all {
			toLoad = c.tracker.FieldsToLoad(names, noChoices)
			if len(toLoad) == 0 {
				noSkippedLoads.Inc()
				return LoadResult{}, nil
			}
		}
	}

	noFetches.Inc()
	data, err := c.fetcher.FetchFields(ctx, FetchRequest{Names: toLoad, Flags: flags, Refresh: refresh})
	if err != nil {
		var ce *types.CatalogError
		if errors.As(err, &ce) {
			return LoadResult{}, err
		}
		return LoadResult{}, types.NewCatalogError(types.Fetch, "fetch fields", err)
	}
	parsed, err := decodeFields(data)
	if err != nil {
		noDecodeErrors.Inc()
		return LoadResult{}, err
	}

	result := c.merge(parsed)
	result.Fetched = true
	result.Requested = toLoad
	result.Flags = flags
	if all {
		c.tracker.SetAllLoaded(noChoices)
	} else {
		c.tracker.AddLoadedFields(toLoad, noChoices)
	}
	log.Printf("loaded %d catalog entries (flags: %s), added %d, replaced %d, kept %d", parsed.Len(), flags, result.Added, result.Replaced, result.Kept)
	return result, nil
}

func uniqueNames(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	ret := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, ok := seen[n]; !ok {
			seen[n] = struct{}{}
			ret = append(ret, n)
		}
	}
	return ret
}

func (c *FieldCataloger) scopeMap(scope types.Scope) map[string]types.LightweightField {
	switch scope {
	case types.SystemScope:
		return c.system
	case types.SharedScope:
		return c.shared
	case types.LocalScope:
		return c.local
	}
	return nil
}

// AllFieldsLoaded reports whether a complete catalog load covers the given
// choice mode.
func (c *FieldCataloger) AllFieldsLoaded(noChoices bool) bool {
	return c.tracker.AllFieldsLoaded(noChoices)
}

func (c *FieldCataloger) State() LoadState {
	return c.tracker.State()
}

// DisplayChoices resolves the choices of a field looking in local, shared
// and system scope in that order. The name match is case sensitive, the
// data type match is not. Fields without choices are skipped.
func (c *FieldCataloger) DisplayChoices(name, dataType string) (*types.DisplayChoices, bool, error) {
	if name == "" || dataType == "" {
		return nil, false, types.NewCatalogError(types.InvalidArgument, "name and data type must not be empty", nil)
	}
	for _, scope := range types.LookupOrder {
		f, ok := c.scopeMap(scope)[name]
		if ok && f.IsDataType(dataType) && f.HasChoices() {
			return f.Choices.Clone(), true, nil
		}
	}
	return nil, false, nil
}

// MnemonicKey returns the mnemonic of the first field found by name in
// local, shared and system scope.
func (c *FieldCataloger) MnemonicKey(name string) (string, bool, error) {
	if name == "" {
		return "", false, types.NewCatalogError(types.InvalidArgument, "name must not be empty", nil)
	}
	for _, scope := range types.LookupOrder {
		if f, ok := c.scopeMap(scope)[name]; ok {
			return f.Mnemonic, true, nil
		}
	}
	return "", false, nil
}

// Lookup returns the field that wins for name and the scope it was found in.
func (c *FieldCataloger) Lookup(name string) (types.LightweightField, types.Scope, bool) {
	for _, scope := range types.LookupOrder {
		if f, ok := c.scopeMap(scope)[name]; ok {
			return f.Clone(), scope, true
		}
	}
	return types.LightweightField{}, 0, false
}

// Fields returns a copy of the fields of one scope.
func (c *FieldCataloger) Fields(scope types.Scope) map[string]types.LightweightField {
	src := c.scopeMap(scope)
	ret := make(map[string]types.LightweightField, len(src))
	for name, f := range src {
		ret[name] = f.Clone()
	}
	return ret
}

func (c *FieldCataloger) SystemFields() map[string]types.LightweightField {
	return c.Fields(types.SystemScope)
}

func (c *FieldCataloger) SharedFields() map[string]types.LightweightField {
	return c.Fields(types.SharedScope)
}

func (c *FieldCataloger) LocalFields() map[string]types.LightweightField {
	return c.Fields(types.LocalScope)
}

func (c *FieldCataloger) Counts() map[types.Scope]int {
	return map[types.Scope]int{
		types.SystemScope: len(c.system),
		types.SharedScope: len(c.shared),
		types.LocalScope:  len(c.local),
	}
}

// ContentTypes maps each content type to the sorted names of its local fields.
func (c *FieldCataloger) ContentTypes() map[types.ContentTypeId][]string {
	ret := make(map[types.ContentTypeId][]string, len(c.contentTypes))
	for id, names := range c.contentTypes {
		ret[id] = sortedKeys(names)
	}
	return ret
}

// ContentTypeFields returns the local fields of a content type sorted by name.
func (c *FieldCataloger) ContentTypeFields(id types.ContentTypeId) []types.LightweightField {
	names, ok := c.contentTypes[id]
	if !ok {
		return nil
	}
	ret := make([]types.LightweightField, 0, len(names))
	for _, name := range sortedKeys(names) {
		if f, ok := c.local[name]; ok {
			ret = append(ret, f.Clone())
		}
	}
	return ret
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}

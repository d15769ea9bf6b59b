package catalog

import (
	"context"

	"github.com/matst80/slask-catalog/pkg/types"
)

// FetchRequest restricts a fetch to Names (all fields when empty) and Flags.
// Refresh asks caching fetchers to go to the upstream service.
type FetchRequest struct {
	Names   []string
	Flags   types.ControlFlags
	Refresh bool
}

func (r FetchRequest) AllFields() bool {
	return len(r.Names) == 0
}

// Fetcher returns the raw XML document produced by a field cataloger service.
type Fetcher interface {
	FetchFields(ctx context.Context, req FetchRequest) ([]byte, error)
}

type FetcherFunc func(ctx context.Context, req FetchRequest) ([]byte, error)

func (f FetcherFunc) FetchFields(ctx context.Context, req FetchRequest) ([]byte, error) {
	return f(ctx, req)
}

package source

import (
	"context"
	"io"

	"github.com/matst80/slask-catalog/pkg/catalog"
	"github.com/matst80/slask-catalog/pkg/types"
)

type DocumentOpener interface {
	OpenDocument(name string) (io.ReadCloser, error)
}

// FileSource returns the whole catalog document regardless of the request;
// the cataloger merges what it gets.
type FileSource struct {
	storage DocumentOpener
	name    string
}

func NewFileSource(storage DocumentOpener, name string) *FileSource {
	return &FileSource{storage: storage, name: name}
}

func (s *FileSource) FetchFields(ctx context.Context, _ catalog.FetchRequest) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r, err := s.storage.OpenDocument(s.name)
	if err != nil {
		return nil, types.NewCatalogError(types.Fetch, s.name, err)
	}
	defer r.Close()
	return io.ReadAll(r)
}

package server

import (
	"context"
	"log"
	"net/http"
	"sync"

	"github.com/matst80/slask-catalog/pkg/catalog"
	"github.com/matst80/slask-catalog/pkg/common"
	"github.com/matst80/slask-catalog/pkg/types"
)

type SnapshotStore interface {
	SaveSnapshot(snapshot catalog.Snapshot) error
}

type ChangePublisher interface {
	PublishChange(result catalog.LoadResult) error
}

// CatalogServer exposes a FieldCataloger over http. All access to the
// cataloger goes through mu.
type CatalogServer struct {
	mu        sync.Mutex
	catalog   *catalog.FieldCataloger
	Storage   SnapshotStore
	Publisher ChangePublisher
	Auth      *Authenticator
}

func NewCatalogServer(c *catalog.FieldCataloger, storage SnapshotStore, auth *Authenticator) *CatalogServer {
	if auth == nil {
		auth = &Authenticator{}
	}
	return &CatalogServer{
		catalog: c,
		Storage: storage,
		Auth:    auth,
	}
}

// Load runs a load on the cataloger and publishes the change when fields
// were added or replaced.
func (s *CatalogServer) Load(ctx context.Context, names []string, flags types.ControlFlags, refresh bool) (catalog.LoadResult, error) {
	s.mu.Lock()
	result, err := s.catalog.LoadFields(ctx, names, flags, refresh)
	s.mu.Unlock()
	if err != nil {
		noLoadErrors.Inc()
		return result, err
	}
	if result.Changed() && s.Publisher != nil {
		if err := s.Publisher.PublishChange(result); err != nil {
			log.Printf("failed to publish catalog change: %v", err)
		}
	}
	return result, nil
}

func (s *CatalogServer) Snapshot() catalog.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Snapshot()
}

func (s *CatalogServer) Restore(snapshot catalog.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Restore(snapshot)
}

// Save writes a snapshot to storage. It matches common.ShutdownHook.
func (s *CatalogServer) Save(_ context.Context) error {
	if s.Storage == nil {
		return types.NewCatalogError(types.InvalidArgument, "no snapshot storage configured", nil)
	}
	return s.Storage.SaveSnapshot(s.Snapshot())
}

func (s *CatalogServer) withCatalog(fn func(c *catalog.FieldCataloger) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.catalog)
}

func (s *CatalogServer) Handle() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("OPTIONS /", common.RespondToOptions)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /api/fields", counted("fields", s.GetFields))
	mux.HandleFunc("GET /api/fields/{name}", counted("field", s.GetField))
	mux.HandleFunc("GET /api/choices/{name}", counted("choices", s.GetChoices))
	mux.HandleFunc("GET /api/mnemonic/{name}", counted("mnemonic", s.GetMnemonic))
	mux.HandleFunc("GET /api/content-types", counted("content-types", s.GetContentTypes))
	mux.HandleFunc("GET /api/content-types/{id}", counted("content-type", s.GetContentType))
	mux.HandleFunc("GET /api/status", counted("status", s.GetStatus))

	mux.HandleFunc("POST /admin/load", s.Auth.Middleware(counted("load", s.LoadHandler)))
	mux.HandleFunc("POST /admin/save", s.Auth.Middleware(counted("save", s.SaveHandler)))
	mux.HandleFunc("GET /admin/snapshot", s.Auth.Middleware(counted("snapshot", s.SnapshotHandler)))

	return mux
}

package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matst80/slask-catalog/pkg/catalog"
	"github.com/matst80/slask-catalog/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `<FieldCatalog><System><SearchField><Field name="a" datatype="text"/></SearchField></System></FieldCatalog>`

func noSleep(context.Context, time.Duration) error { return nil }

func newTestSource(t *testing.T, url string) *HTTPSource {
	t.Helper()
	opts := DefaultHTTPSourceOptions(url)
	opts.Header = http.Header{"Authorization": {"secret"}}
	s, err := NewHTTPSource(opts)
	require.NoError(t, err)
	s.sleep = noSleep
	return s
}

func TestHTTPSource_FetchFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cataloger/fields", r.URL.Path)
		assert.Equal(t, []string{"a", "b"}, r.URL.Query()["name"])
		assert.Equal(t, "4", r.URL.Query().Get("flags"))
		assert.Equal(t, "secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "text/xml")
		w.Write([]byte(sampleDoc))
	}))
	defer srv.Close()

	s := newTestSource(t, srv.URL+"/cataloger")
	data, err := s.FetchFields(context.Background(), catalog.FetchRequest{Names: []string{"a", "b"}, Flags: types.ExcludeChoices})
	require.NoError(t, err)
	assert.Equal(t, sampleDoc, string(data))
}

func TestHTTPSource_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(sampleDoc))
	}))
	defer srv.Close()

	s := newTestSource(t, srv.URL)
	data, err := s.FetchFields(context.Background(), catalog.FetchRequest{})
	require.NoError(t, err)
	assert.Equal(t, sampleDoc, string(data))
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPSource_GivesUp(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := newTestSource(t, srv.URL)
	_, err := s.FetchFields(context.Background(), catalog.FetchRequest{})
	assert.ErrorIs(t, err, types.ErrFetch)
	assert.Equal(t, int32(4), calls.Load())
}

func TestHTTPSource_NoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	s := newTestSource(t, srv.URL)
	_, err := s.FetchFields(context.Background(), catalog.FetchRequest{Names: []string{"a"}})
	assert.ErrorIs(t, err, types.ErrFetch)
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPSource_Cancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := newTestSource(t, srv.URL)
	s.sleep = sleepContext
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.FetchFields(ctx, catalog.FetchRequest{})
	assert.ErrorIs(t, err, types.ErrFetch)
}

func TestNewHTTPSource_InvalidUrl(t *testing.T) {
	_, err := NewHTTPSource(DefaultHTTPSourceOptions("not a url"))
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
}

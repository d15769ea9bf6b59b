package common

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/matst80/slask-catalog/pkg/common/jsoncompat"
	"github.com/matst80/slask-catalog/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusFor(fmt.Errorf("field x: %w", ErrNotFound)))
	assert.Equal(t, http.StatusBadRequest, StatusFor(types.NewCatalogError(types.InvalidArgument, "x", nil)))
	assert.Equal(t, http.StatusBadGateway, StatusFor(types.NewCatalogError(types.Fetch, "x", nil)))
	assert.Equal(t, http.StatusBadGateway, StatusFor(types.NewCatalogError(types.Unexpected, "x", nil)))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.New("x")))
}

func TestJsonHandler(t *testing.T) {
	h := JsonHandler(func(w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
		if r.URL.Query().Get("fail") != "" {
			return ErrNotFound
		}
		return enc.Encode(map[string]string{"ok": "yes"})
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":"yes"}`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/?fail=1", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"not found"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://example.com")
	h(rec, req)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "https://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestQueueHandler_Batches(t *testing.T) {
	var mu sync.Mutex
	batches := [][]int{}
	q := NewQueueHandler(func(items []int) {
		mu.Lock()
		defer mu.Unlock()
		batches = append(batches, items)
	}, 2, time.Hour)

	q.Add(1, 2, 3)
	assert.Equal(t, 3, q.Len())
	q.Flush()
	q.Add(4)
	q.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, [][]int{{1, 2}, {3}, {4}}, batches)
}

func TestQueueHandler_Interval(t *testing.T) {
	done := make(chan []string, 1)
	q := NewQueueHandler(func(items []string) { done <- items }, 10, 10*time.Millisecond)
	defer q.Stop()
	q.Add("a", "b")

	select {
	case items := <-done:
		assert.Equal(t, []string{"a", "b"}, items)
	case <-time.After(2 * time.Second):
		t.Fatal("queue was not processed")
	}
}

func TestRunHooks(t *testing.T) {
	order := []int{}
	runHooks(context.Background(), time.Second,
		func(context.Context) error { order = append(order, 1); return nil },
		nil,
		func(context.Context) error { order = append(order, 2); return errors.New("ignored") },
	)
	assert.Equal(t, []int{1, 2}, order)
}

func TestLoadTimeoutConfig(t *testing.T) {
	t.Setenv("READ_TIMEOUT", "42")
	t.Setenv("WRITE_TIMEOUT", "nope")
	cfg := LoadTimeoutConfig(DefaultTimeoutConfig())
	assert.Equal(t, 42*time.Second, cfg.Read)
	assert.Equal(t, 60*time.Second, cfg.Write)

	srv := NewServer(":0", http.NotFoundHandler(), cfg)
	assert.Equal(t, 42*time.Second, srv.ReadTimeout)
}

func TestParseTimeout(t *testing.T) {
	d, ok := parseTimeout("90s")
	assert.True(t, ok)
	assert.Equal(t, 90*time.Second, d)

	d, ok = parseTimeout("3")
	assert.True(t, ok)
	assert.Equal(t, 3*time.Second, d)

	_, ok = parseTimeout("0")
	assert.False(t, ok)
	_, ok = parseTimeout("-1m")
	assert.False(t, ok)
}

// Package source implements catalog.Fetcher collaborators: a remote field
// cataloger reached over HTTP, a catalog document on disk and a caching
// wrapper around either.
package source

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/matst80/slask-catalog/pkg/catalog"
	"github.com/matst80/slask-catalog/pkg/types"
)

type HTTPSourceOptions struct {
	// BaseUrl of the field cataloger, fields are requested from BaseUrl/fields.
	BaseUrl        string
	Timeout        time.Duration
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Header         http.Header
	Transport      http.RoundTripper
}

func DefaultHTTPSourceOptions(baseUrl string) HTTPSourceOptions {
	return HTTPSourceOptions{
		BaseUrl:        baseUrl,
		Timeout:        30 * time.Second,
		MaxRetries:     3,
		InitialBackoff: 200 * time.Millisecond,
		MaxBackoff:     5 * time.Second,
	}
}

// HTTPSource asks a remote field cataloger for the XML document.
type HTTPSource struct {
	endpoint       *url.URL
	client         *http.Client
	header         http.Header
	maxRetries     int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	sleep          func(ctx context.Context, d time.Duration) error
}

func NewHTTPSource(opts HTTPSourceOptions) (*HTTPSource, error) {
	base, err := url.Parse(opts.BaseUrl)
	if err != nil || base.Host == "" {
		return nil, types.NewCatalogError(types.InvalidArgument, fmt.Sprintf("invalid catalog url %q", opts.BaseUrl), err)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = 200 * time.Millisecond
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = 5 * time.Second
	}
	return &HTTPSource{
		endpoint:       base.JoinPath("fields"),
		client:         &http.Client{Timeout: opts.Timeout, Transport: opts.Transport},
		header:         opts.Header.Clone(),
		maxRetries:     opts.MaxRetries,
		initialBackoff: opts.InitialBackoff,
		maxBackoff:     opts.MaxBackoff,
		sleep:          sleepContext,
	}, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *HTTPSource) requestUrl(req catalog.FetchRequest) string {
	u := *s.endpoint
	q := url.Values{}
	for _, name := range req.Names {
		q.Add("name", name)
	}
	q.Set("flags", strconv.FormatUint(uint64(req.Flags), 10))
	u.RawQuery = q.Encode()
	return u.String()
}

type statusError struct {
	code int
}

func (e statusError) Error() string {
	return fmt.Sprintf("field cataloger responded %d", e.code)
}

func (e statusError) retryable() bool {
	return e.code >= 500 || e.code == http.StatusTooManyRequests
}

func (s *HTTPSource) FetchFields(ctx context.Context, req catalog.FetchRequest) ([]byte, error) {
	target := s.requestUrl(req)
	backoff := s.initialBackoff
	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			log.Printf("retrying field catalog fetch (%d/%d): %v", attempt, s.maxRetries, lastErr)
			if err := s.sleep(ctx, backoff); err != nil {
				return nil, types.NewCatalogError(types.Fetch, "fetch cancelled", err)
			}
			backoff = min(backoff*2, s.maxBackoff)
		}
		data, err := s.fetchOnce(ctx, target)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		if se, ok := err.(statusError); ok && !se.retryable() {
			break
		}
	}
	return nil, types.NewCatalogError(types.Fetch, target, lastErr)
}

func (s *HTTPSource) fetchOnce(ctx context.Context, target string) ([]byte, error) {
	r, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	for k, vs := range s.header {
		for _, v := range vs {
			r.Header.Add(k, v)
		}
	}
	r.Header.Set("Accept", "text/xml, application/xml")
	res, err := s.client.Do(r)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil, statusError{code: res.StatusCode}
	}
	return io.ReadAll(res.Body)
}

package source

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/matst80/slask-catalog/pkg/catalog"
	"github.com/zeebo/xxh3"
	"golang.org/x/sync/singleflight"
)

var ErrCacheMiss = errors.New("cache miss")

type ByteCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error
}

// CachedSource keeps fetched documents in a ByteCache and collapses
// concurrent identical fetches.
type CachedSource struct {
	next       catalog.Fetcher
	cache      ByteCache
	prefix     string
	expiration time.Duration
	group      singleflight.Group
}

func NewCachedSource(next catalog.Fetcher, cache ByteCache, prefix string, expiration time.Duration) *CachedSource {
	return &CachedSource{
		next:       next,
		cache:      cache,
		prefix:     prefix,
		expiration: expiration,
	}
}

// CacheKey is independent of name order and duplicates.
func CacheKey(prefix string, req catalog.FetchRequest) string {
	names := slices.Clone(req.Names)
	slices.Sort(names)
	names = slices.Compact(names)
	h := xxh3.New()
	var flags [8]byte
	binary.LittleEndian.PutUint64(flags[:], uint64(req.Flags))
	_, _ = h.Write(flags[:])
	for _, n := range names {
		_, _ = h.WriteString(n)
		_, _ = h.Write([]byte{0})
	}
	return fmt.Sprintf("%s:fields:%016x", prefix, h.Sum64())
}

// FetchFields serves req from the cache unless req.Refresh is set. Misses and
// refreshes go to the next fetcher and the result is written back. The shared
// upstream fetch is not canceled when one of the waiting callers gives up.
func (s *CachedSource) FetchFields(ctx context.Context, req catalog.FetchRequest) ([]byte, error) {
	key := CacheKey(s.prefix, req)
	if !req.Refresh {
		data, err := s.cache.Get(ctx, key)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("catalog cache get %s failed: %v", key, err)
		}
	}
	ch := s.group.DoChan(key, func() (any, error) {
		fetchCtx := context.WithoutCancel(ctx)
		data, err := s.next.FetchFields(fetchCtx, req)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(fetchCtx, key, data, s.expiration); err != nil {
			log.Printf("catalog cache set %s failed: %v", key, err)
		}
		return data, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

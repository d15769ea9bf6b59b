package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"strconv"
	"time"

	"github.com/matst80/slask-catalog/pkg/catalog"
	"github.com/matst80/slask-catalog/pkg/common"
	"github.com/matst80/slask-catalog/pkg/server"
	"github.com/matst80/slask-catalog/pkg/source"
	"github.com/matst80/slask-catalog/pkg/storage"
	"github.com/matst80/slask-catalog/pkg/types"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var catalogUrl = os.Getenv("CATALOG_URL")
var catalogFile = os.Getenv("CATALOG_FILE")
var redisUrl = os.Getenv("REDIS_URL")
var redisPassword = os.Getenv("REDIS_PASSWORD")
var rabbitUrl = os.Getenv("RABBIT_HOST")
var apiKey = os.Getenv("API_KEY")
var tokenSecret = os.Getenv("TOKEN_SECRET")

var prefix = "catalog"
var dataDir = "data"
var listenAddress = ":8080"
var debugAddress = ":8081"
var cacheTtl = 10 * time.Minute
var loadOnStart = true

func init() {
	if p, ok := os.LookupEnv("CATALOG_PREFIX"); ok {
		prefix = p
	}
	if d, ok := os.LookupEnv("DATA_DIR"); ok {
		dataDir = d
	}
	if a, ok := os.LookupEnv("LISTEN_ADDRESS"); ok {
		listenAddress = a
	}
	if a, ok := os.LookupEnv("DEBUG_ADDRESS"); ok {
		debugAddress = a
	}
	if ttl, ok := os.LookupEnv("CACHE_TTL"); ok {
		if d, err := time.ParseDuration(ttl); err == nil {
			cacheTtl = d
		} else {
			log.Printf("invalid CACHE_TTL %q, using %v", ttl, cacheTtl)
		}
	}
	if l, ok := os.LookupEnv("LOAD_ON_START"); ok {
		loadOnStart = parseBoolSetting("LOAD_ON_START", l, loadOnStart)
	}
}

func parseBoolSetting(name, value string, def bool) bool {
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("invalid %s %q, using %v", name, value, def)
		return def
	}
	return b
}

// newFetcher builds the source chain: a remote cataloger or a local file,
// wrapped in a redis cache when one is configured.
func newFetcher(diskStorage *storage.DiskStorage) (catalog.Fetcher, func(), error) {
	var fetcher catalog.Fetcher
	switch {
	case catalogUrl != "":
		httpSource, err := source.NewHTTPSource(source.DefaultHTTPSourceOptions(catalogUrl))
		if err != nil {
			return nil, nil, err
		}
		fetcher = httpSource
	case catalogFile != "":
		fetcher = source.NewFileSource(diskStorage, catalogFile)
	default:
		return nil, nil, errors.New("CATALOG_URL or CATALOG_FILE must be set")
	}
	if redisUrl == "" {
		return fetcher, func() {}, nil
	}
	cache := source.NewRedisCache(redisUrl, redisPassword, 0)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := cache.Ping(ctx); err != nil {
		log.Printf("redis not reachable, fetching without cache: %v", err)
		cache.Close()
		return fetcher, func() {}, nil
	}
	log.Printf("caching catalog documents in redis for %v", cacheTtl)
	return source.NewCachedSource(fetcher, cache, prefix, cacheTtl), func() { cache.Close() }, nil
}

func main() {
	diskStorage := storage.NewDiskStorage(prefix, dataDir)

	fetcher, closeCache, err := newFetcher(diskStorage)
	if err != nil {
		log.Fatalf("Failed to create catalog source: %v", err)
	}
	defer closeCache()

	cataloger, err := catalog.New(fetcher)
	if err != nil {
		log.Fatalf("Failed to create cataloger: %v", err)
	}

	auth := &server.Authenticator{ApiKey: apiKey, Secret: []byte(tokenSecret)}
	if !auth.Enabled() {
		log.Println("API_KEY and TOKEN_SECRET not set, admin endpoints are disabled")
	}
	srv := server.NewCatalogServer(cataloger, diskStorage, auth)

	snapshot := catalog.Snapshot{}
	if err := diskStorage.LoadSnapshot(&snapshot); err != nil {
		log.Printf("Could not load catalog snapshot: %v", err)
	} else if err := srv.Restore(snapshot); err != nil {
		log.Printf("Could not restore catalog snapshot: %v", err)
	} else {
		log.Printf("Restored catalog snapshot, %d local fields", len(snapshot.Local))
	}

	if loadOnStart {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		if _, err := srv.Load(ctx, nil, types.ControlFlags(0), false); err != nil {
			log.Printf("Initial catalog load failed: %v", err)
		}
		cancel()
	}

	var refreshQueue *common.QueueHandler[refreshRequest]
	if rabbitUrl != "" {
		a := &app{server: srv}
		if err := a.ConnectAmqp(rabbitUrl); err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer a.Close()
		refreshQueue = a.queue
	}

	timeouts := common.LoadTimeoutConfig(common.DefaultTimeoutConfig())

	debugMux := http.NewServeMux()
	debugMux.Handle("/metrics", promhttp.Handler())
	debugMux.HandleFunc("/debug/pprof/", pprof.Index)
	debugMux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	debugMux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	debugMux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	debugMux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	servers := []*http.Server{
		common.NewServer(listenAddress, srv.Handle(), timeouts),
		common.NewServer(debugAddress, debugMux, timeouts),
	}

	common.RunServersWithShutdown(servers, "catalog", timeouts.Shutdown, timeouts.Hook,
		func(ctx context.Context) error {
			if refreshQueue != nil {
				refreshQueue.Stop()
			}
			return nil
		},
		srv.Save,
	)
}

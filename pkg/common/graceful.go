package common

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
)

// ShutdownHook runs after a stop signal and before the servers shut down.
// Errors are logged and do not stop the remaining hooks.
type ShutdownHook func(ctx context.Context) error

// RunServersWithShutdown starts the servers and blocks until SIGINT or
// SIGTERM. Hooks then run in order, each with its own timeout inside the
// overall shutdown deadline, and finally the servers are shut down.
//
//	api := &http.Server{Addr: ":8080", Handler: mux}
//	debug := &http.Server{Addr: ":8081", Handler: promhttp.Handler()}
//	common.RunServersWithShutdown([]*http.Server{api, debug}, "catalog", 15*time.Second, 5*time.Second, saveHook)
func RunServersWithShutdown(servers []*http.Server, name string, shutdownTimeout, hookTimeout time.Duration, hooks ...ShutdownHook) {
	if hookTimeout <= 0 {
		hookTimeout = 5 * time.Second
	}

	for _, server := range servers {
		go func(server *http.Server) {
			log.Printf("starting %s on %s", name, server.Addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("%s listen error on %s: %v", name, server.Addr, err)
			}
		}(server)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Printf("shutdown signal received for %s", name)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	runHooks(ctx, hookTimeout, hooks...)

	for _, server := range servers {
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("graceful shutdown of %s failed: %v", server.Addr, err)
		}
	}
	log.Printf("%s shutdown complete", name)
}

func runHooks(ctx context.Context, hookTimeout time.Duration, hooks ...ShutdownHook) {
	for i, h := range hooks {
		if h == nil {
			continue
		}
		hCtx, hCancel := context.WithTimeout(ctx, hookTimeout)
		if err := h(hCtx); err != nil {
			log.Printf("shutdown hook %d failed: %v", i, err)
		}
		if errors.Is(hCtx.Err(), context.DeadlineExceeded) {
			log.Printf("shutdown hook %d timed out", i)
		}
		hCancel()
	}
}

// TimeoutConfig collects the http server timeouts and the shutdown budget
// of a service.
type TimeoutConfig struct {
	ReadHeader time.Duration
	Read       time.Duration
	Write      time.Duration
	Idle       time.Duration
	Shutdown   time.Duration
	Hook       time.Duration
}

func DefaultTimeoutConfig() TimeoutConfig {
	return TimeoutConfig{
		ReadHeader: 5 * time.Second,
		Read:       15 * time.Second,
		Write:      60 * time.Second,
		Idle:       120 * time.Second,
		Shutdown:   15 * time.Second,
		Hook:       5 * time.Second,
	}
}

// parseTimeout accepts a Go duration ("90s", "2m") or a plain number of
// seconds. Zero and negative values are rejected.
func parseTimeout(value string) (time.Duration, bool) {
	if n, err := strconv.Atoi(value); err == nil {
		return time.Duration(n) * time.Second, n > 0
	}
	d, err := time.ParseDuration(value)
	return d, err == nil && d > 0
}

// LoadTimeoutConfig overrides cfg with READ_HEADER_TIMEOUT, READ_TIMEOUT,
// WRITE_TIMEOUT, IDLE_TIMEOUT, SHUTDOWN_TIMEOUT and HOOK_TIMEOUT when they
// hold a valid value.
func LoadTimeoutConfig(cfg TimeoutConfig) TimeoutConfig {
	for env, target := range map[string]*time.Duration{
		"READ_HEADER_TIMEOUT": &cfg.ReadHeader,
		"READ_TIMEOUT":        &cfg.Read,
		"WRITE_TIMEOUT":       &cfg.Write,
		"IDLE_TIMEOUT":        &cfg.Idle,
		"SHUTDOWN_TIMEOUT":    &cfg.Shutdown,
		"HOOK_TIMEOUT":        &cfg.Hook,
	} {
		value, ok := os.LookupEnv(env)
		if !ok {
			continue
		}
		if d, valid := parseTimeout(value); valid {
			*target = d
		} else {
			log.Printf("ignoring invalid %s %q", env, value)
		}
	}
	return cfg
}

// NewServer creates a *http.Server with the timeouts applied.
func NewServer(addr string, handler http.Handler, cfg TimeoutConfig) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeader,
		ReadTimeout:       cfg.Read,
		WriteTimeout:      cfg.Write,
		IdleTimeout:       cfg.Idle,
	}
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/statespace"
	"github.com/aretw0/statespace/internal/config"
	"github.com/aretw0/statespace/internal/logging"
	"github.com/aretw0/statespace/pkg/adapters/file"
	"github.com/aretw0/statespace/pkg/adapters/loam"
	"github.com/aretw0/statespace/pkg/adapters/memory"
	"github.com/aretw0/statespace/pkg/adapters/redis"
	"github.com/aretw0/statespace/pkg/domain"
	"github.com/aretw0/statespace/pkg/export"
	"github.com/aretw0/statespace/pkg/observability"
	"github.com/aretw0/statespace/pkg/persistence/middleware"
	"github.com/aretw0/statespace/pkg/ports"
	"github.com/aretw0/statespace/pkg/sanitize"
)

// CreateLogger configures the application logger from the config level.
// It writes to Stderr (to separate from Stdout output and JSON-RPC).
func CreateLogger(cfg *config.Config) *slog.Logger {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return logging.New(slog.LevelInfo)
	}
	return logging.New(level)
}

// OpenLoader builds the SetLoader selected by the config.
// A sets file wins over a sets directory. It returns nil when neither is set.
func OpenLoader(cfg *config.Config) (ports.SetLoader, error) {
	switch {
	case cfg.Sets.File != "":
		l, err := file.NewLoader(cfg.Sets.File)
		if err != nil {
			return nil, err
		}
		return l, nil
	case cfg.Sets.Dir != "":
		l, err := loam.Open(cfg.Sets.Dir)
		if err != nil {
			return nil, err
		}
		return l, nil
	default:
		return nil, nil
	}
}

// OpenCache builds the ExportCache selected by the config.
// The returned close function is never nil.
func OpenCache(ctx context.Context, cfg *config.Config) (ports.ExportCache, func() error, error) {
	noop := func() error { return nil }
	var (
		cache     ports.ExportCache
		closeFunc = noop
	)
	switch cfg.Cache.Backend {
	case config.CacheNone, "":
		return nil, noop, nil
	case config.CacheMemory:
		cache = memory.NewCache()
	case config.CacheRedis:
		c := redis.New(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB,
			redis.WithTTL(cfg.Cache.TTL),
			redis.WithPrefix(cfg.Cache.Prefix),
		)
		if err := c.Ping(ctx); err != nil {
			_ = c.Close()
			return nil, noop, fmt.Errorf("redis cache unavailable at %s: %w", cfg.Cache.RedisAddr, err)
		}
		cache, closeFunc = c, c.Close
	default:
		return nil, noop, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}

	active, fallback, err := cfg.Cache.Keys()
	if err != nil {
		_ = closeFunc()
		return nil, noop, err
	}
	if active != nil {
		cache = middleware.Chain(cache, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    active,
			FallbackKeys: fallback,
		}))
	}
	return cache, closeFunc, nil
}

// NewEngine initializes a statespace engine with standard CLI conventions.
// Debug logging of every engine event is enabled when the logger accepts debug records.
func NewEngine(ctx context.Context, cfg *config.Config, logger *slog.Logger, hooks ...domain.LifecycleHooks) (*statespace.Engine, func() error, error) {
	loader, err := OpenLoader(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening variable sets: %w", err)
	}
	cache, closeCache, err := OpenCache(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	if logger.Enabled(ctx, slog.LevelDebug) {
		hooks = append(hooks, observability.LogHooks(logger))
	}

	opts := []statespace.Option{
		statespace.WithLogger(logger),
		statespace.WithPolicy(cfg.PolicyValue()),
		statespace.WithUniqueNames(cfg.UniqueNames),
		statespace.WithMaxStates(cfg.MaxStates),
		statespace.WithCSVOptions(export.Options{RFC4180: cfg.RFC4180}),
		statespace.WithLifecycleHooks(observability.Combine(hooks...)),
	}
	if loader != nil {
		opts = append(opts, statespace.WithLoader(loader))
	}
	if cache != nil {
		opts = append(opts, statespace.WithCache(cache))
	}
	return statespace.New(opts...), closeCache, nil
}

// ResolveSet picks the variable set a command works on.
// With a name it asks the engine's loader; without one, a sets file holding
// exactly one set is used.
func ResolveSet(ctx context.Context, eng *statespace.Engine, name string) (string, domain.VariableSet, error) {
	if name != "" {
		set, err := eng.LoadSet(ctx, name)
		return name, set, err
	}
	if single, ok := eng.Loader().(*file.Loader); ok {
		return single.Single()
	}
	if eng.Loader() == nil {
		return "", nil, errors.New("no variable set given: use --file, or --dir with a set name")
	}
	return "", nil, errors.New("a set name is required when reading from a directory")
}

// RemoteLimits returns the input limits for the network hosts.
// A configured max_states replaces the default cap, so it can raise it as well as lower it.
func RemoteLimits(cfg *config.Config) sanitize.Limits {
	l := sanitize.Default()
	if cfg.MaxStates > 0 {
		l.MaxStates = cfg.MaxStates
	}
	return l
}

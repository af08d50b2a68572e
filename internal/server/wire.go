package server

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/jobboard/internal/config"
	"github.com/jonathan/jobboard/internal/db"
	"github.com/jonathan/jobboard/internal/events"
	"github.com/jonathan/jobboard/internal/feed"
	"github.com/jonathan/jobboard/internal/postings"
	"github.com/jonathan/jobboard/internal/server/ratelimit"
	"github.com/jonathan/jobboard/internal/store"
	"go.uber.org/zap"
)

// connectTimeout bounds each backing service check during startup.
const connectTimeout = 10 * time.Second

// Auth bundles the credential settings a server needs.
type Auth struct {
	JWT      *config.JWTConfig
	Password *config.PasswordConfig
}

// NewFromConfig connects the backing services named in cfg and assembles a
// Server. Postgres replaces the in-memory store, an upstream URL replaces the
// local posting source, Redis caches the listing and NATS carries posting
// events; each is optional.
func NewFromConfig(ctx context.Context, cfg *config.ServerConfig, auth Auth, logger *zap.Logger) (*Server, error) {
	deps := Deps{
		Logger:         logger,
		Port:           cfg.Port,
		AllowedOrigins: cfg.AllowedOrigins,
		Sessions:       feed.NewRegistry(cfg.SessionTTL, logger),
		JWT:            NewJWTService(auth.JWT),
		RateLimiter:    ratelimit.NewLimiter(ratelimit.LoadConfig()),
	}

	ok := false
	defer func() {
		if ok {
			return
		}
		if deps.Publisher != nil {
			deps.Publisher.Close()
		}
		if deps.Subscriber != nil {
			deps.Subscriber.Close()
		}
		for _, c := range deps.Closers {
			c()
		}
	}()

	var users store.UserStore
	if cfg.DatabaseURL != "" {
		connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		database, err := db.Connect(connectCtx, cfg.DatabaseURL)
		if err != nil {
			cancel()
			return nil, err
		}
		deps.Closers = append(deps.Closers, database.Close)

		applied, err := database.Migrate(connectCtx)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		logger.Info("using postgres store", zap.Strings("migrations", applied))
		deps.Store, users = database, database
	} else {
		mem := store.NewMemory()
		if cfg.SeedDemo {
			mem.Seed(feed.FallbackPostings()...)
		}
		logger.Info("using in-memory store", zap.Bool("seeded", cfg.SeedDemo))
		deps.Store, users = mem, mem
	}

	userService, err := NewUserService(users, auth.Password)
	if err != nil {
		return nil, err
	}
	deps.UserService = userService

	var source postings.Lister = deps.Store
	if cfg.UpstreamURL != "" {
		client, err := postings.NewClient(cfg.UpstreamURL, &postings.Options{Timeout: cfg.UpstreamTimeout}, logger)
		if err != nil {
			return nil, err
		}
		source = client
		deps.Creator = client
		deps.Backend = client
		logger.Info("serving feed from upstream backend", zap.String("url", client.BaseURL()))
	}

	var loaderOpts []postings.LoaderOption
	if cfg.RedisURL != "" {
		cache, err := postings.NewRedisCacheFromURL(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		deps.Closers = append(deps.Closers, func() { _ = cache.Close() })

		pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		err = cache.Ping(pingCtx)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		loaderOpts = append(loaderOpts, postings.WithCache(cache, cfg.CacheTTL))
		logger.Info("listing cache enabled", zap.Duration("ttl", cfg.CacheTTL))
	}
	deps.Loader = postings.NewLoader(source, logger, loaderOpts...)

	if cfg.NATSURL != "" {
		publisher, err := events.NewPublisher(cfg.NATSURL, events.DefaultConnectTimeout, logger)
		if err != nil {
			return nil, err
		}
		deps.Publisher = publisher

		subscriber, err := events.NewSubscriber(cfg.NATSURL, events.DefaultConnectTimeout, logger)
		if err != nil {
			return nil, err
		}
		deps.Subscriber = subscriber
	}

	s, err := New(deps)
	if err != nil {
		return nil, err
	}
	ok = true
	return s, nil
}

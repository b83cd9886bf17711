package main

import (
	"context"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"
	"github.com/samber/oops"

	"github.com/dmitrymomot/drive/pkg/baas"
	"github.com/dmitrymomot/drive/pkg/baas/appwrite"
	"github.com/dmitrymomot/drive/pkg/baas/embedded"
	"github.com/dmitrymomot/drive/pkg/baas/mongostore"
	"github.com/dmitrymomot/drive/pkg/baas/pgstore"
	"github.com/dmitrymomot/drive/pkg/baas/redisstore"
	"github.com/dmitrymomot/drive/pkg/config"
	"github.com/dmitrymomot/drive/pkg/email"
	"github.com/dmitrymomot/drive/pkg/httpserver"
	"github.com/dmitrymomot/drive/pkg/logger"
	"github.com/dmitrymomot/drive/pkg/mongo"
	"github.com/dmitrymomot/drive/pkg/pg"
	"github.com/dmitrymomot/drive/pkg/ratelimiter"
	"github.com/dmitrymomot/drive/pkg/redis"
	"github.com/dmitrymomot/drive/pkg/session"
	"github.com/dmitrymomot/drive/svc/users"
)

// backend is the assembled platform with the resources it holds.
type backend struct {
	factory baas.Factory
	checks  []httpserver.Check
	closers []func()
	// limits is shared by every limiter when the backend runs on Redis.
	limits ratelimiter.Store
}

func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

func newBackend(ctx context.Context, app appConfig, usersCfg users.Config, log *slog.Logger) (*backend, error) {
	switch app.Backend {
	case backendAppwrite:
		var cfg appwrite.Config
		if err := config.Load(&cfg); err != nil {
			return nil, oops.Code("CONFIG_INVALID").With("backend", app.Backend).Wrap(err)
		}
		f, err := appwrite.New(cfg)
		if err != nil {
			return nil, oops.Code("BACKEND_INIT_FAILED").With("backend", app.Backend).Wrap(err)
		}
		return &backend{factory: f}, nil
	case backendEmbedded:
		return newEmbedded(ctx, usersCfg, log)
	}
	return nil, oops.Code("CONFIG_INVALID").Errorf("unknown APP_BACKEND %q", app.Backend)
}

func newEmbedded(ctx context.Context, usersCfg users.Config, log *slog.Logger) (_ *backend, err error) {
	cfg := embedded.DefaultConfig()
	if err := config.Load(&cfg); err != nil {
		return nil, oops.Code("CONFIG_INVALID").With("backend", backendEmbedded).Wrap(err)
	}

	b := &backend{}
	defer func() {
		if err != nil {
			b.Close()
		}
	}()

	usersIndex := embedded.UniqueIndex{
		Database:   usersCfg.DatabaseID,
		Collection: usersCfg.CollectionID,
		Attribute:  "email",
	}

	docs, err := b.documentStore(ctx, cfg.DocumentStore, usersIndex, log)
	if err != nil {
		return nil, err
	}

	var rdb *goredis.Client
	if cfg.ChallengeStore == "redis" || cfg.SessionStore == "redis" {
		var rcfg redis.Config
		if err := config.Load(&rcfg); err != nil {
			return nil, oops.Code("CONFIG_INVALID").With("store", "redis").Wrap(err)
		}
		rdb, err = redis.Connect(ctx, rcfg)
		if err != nil {
			return nil, oops.Code("REDIS_CONNECT_FAILED").Wrap(err)
		}
		b.closers = append(b.closers, func() { _ = rdb.Close() })
		b.checks = append(b.checks, httpserver.Check{Name: "redis", Fn: redis.Healthcheck(rdb)})
		b.limits = ratelimiter.NewRedisStore(rdb, ratelimiter.WithRedisKeyPrefix("drive:ratelimit:"))
	}

	var challenges embedded.ChallengeStore
	switch cfg.ChallengeStore {
	case "memory":
		challenges = embedded.NewMemoryChallenges()
	case "redis":
		challenges = redisstore.New(rdb)
	default:
		return nil, oops.Code("CONFIG_INVALID").Errorf("unknown EMBEDDED_CHALLENGE_STORE %q", cfg.ChallengeStore)
	}

	var sessionCfg session.Config
	if err := config.Load(&sessionCfg); err != nil {
		return nil, oops.Code("CONFIG_INVALID").With("store", "session").Wrap(err)
	}
	var sessions session.Store
	switch cfg.SessionStore {
	case "memory":
		mem := session.NewMemoryStore(sessionCfg.CleanupInterval)
		b.closers = append(b.closers, func() { _ = mem.Close() })
		sessions = mem
	case "redis":
		sessions = session.NewRedisStore(rdb, session.WithKeyPrefix(sessionCfg.RedisKeyPrefix))
	default:
		return nil, oops.Code("CONFIG_INVALID").Errorf("unknown EMBEDDED_SESSION_STORE %q", cfg.SessionStore)
	}

	var mailCfg email.Config
	if err := config.Load(&mailCfg); err != nil {
		return nil, oops.Code("CONFIG_INVALID").With("store", "email").Wrap(err)
	}
	sender, err := email.NewFromConfig(mailCfg)
	if err != nil {
		return nil, oops.Code("EMAIL_INIT_FAILED").Wrap(err)
	}

	opts := []embedded.Option{embedded.WithLogger(log)}
	if b.limits != nil {
		opts = append(opts, embedded.WithRateLimitStore(b.limits))
	}
	platform, err := embedded.New(cfg, docs, challenges, sessions, sender, opts...)
	if err != nil {
		return nil, oops.Code("BACKEND_INIT_FAILED").With("backend", backendEmbedded).Wrap(err)
	}
	b.factory = platform
	return b, nil
}

func (b *backend) documentStore(ctx context.Context, kind string, index embedded.UniqueIndex, log *slog.Logger) (embedded.DocumentStore, error) {
	switch kind {
	case "memory":
		return embedded.NewMemoryDocuments(index), nil
	case "postgres":
		var cfg pg.Config
		if err := config.Load(&cfg); err != nil {
			return nil, oops.Code("CONFIG_INVALID").With("store", kind).Wrap(err)
		}
		pool, err := pg.Connect(ctx, cfg)
		if err != nil {
			return nil, oops.Code("DB_CONNECT_FAILED").With("store", kind).Wrap(err)
		}
		b.closers = append(b.closers, pool.Close)
		b.checks = append(b.checks, httpserver.Check{Name: "postgres", Fn: pg.Healthcheck(pool)})
		if err := pg.Migrate(ctx, pool, pgstore.Migrations, cfg, log); err != nil {
			return nil, oops.Code("MIGRATION_FAILED").Wrap(err)
		}
		return pgstore.New(pool, index), nil
	case "mongo":
		var cfg mongo.Config
		if err := config.Load(&cfg); err != nil {
			return nil, oops.Code("CONFIG_INVALID").With("store", kind).Wrap(err)
		}
		db, err := mongo.ConnectDatabase(ctx, cfg)
		if err != nil {
			return nil, oops.Code("DB_CONNECT_FAILED").With("store", kind).Wrap(err)
		}
		client := db.Client()
		b.closers = append(b.closers, func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Error("failed to disconnect mongo", logger.Error(err))
			}
		})
		b.checks = append(b.checks, httpserver.Check{Name: "mongo", Fn: mongo.Healthcheck(client)})
		store := mongostore.New(db, index)
		if err := store.EnsureIndexes(ctx); err != nil {
			return nil, oops.Code("DB_INDEX_FAILED").With("store", kind).Wrap(err)
		}
		return store, nil
	}
	return nil, oops.Code("CONFIG_INVALID").Errorf("unknown EMBEDDED_DOCUMENT_STORE %q", kind)
}

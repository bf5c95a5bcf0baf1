// Package bootstrap opens the stores a process needs from its configuration.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/SAITARUN432/backendblog/internal/cache"
	"github.com/SAITARUN432/backendblog/internal/config"
	"github.com/SAITARUN432/backendblog/internal/database"
	"github.com/SAITARUN432/backendblog/internal/repository"

	"github.com/redis/go-redis/v9"
	"go.uber.org/multierr"
)

// Options control runtime initialization behavior.
type Options struct {
	// WithRedis connects REDIS_URL. The client stays nil when it is unset or unreachable.
	WithRedis bool
}

// Runtime is the set of opened stores.
type Runtime struct {
	Blogs repository.BlogRepository
	Users repository.UserRepository
	Redis *redis.Client

	// CloseStore releases the blog and user store connection.
	CloseStore func(context.Context) error
}

// InitRuntime connects to the store selected by STORE_DRIVER and, if asked, Redis.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	rt, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if opts.WithRedis {
		rt.Redis = cache.InitRedis(cfg.RedisURL)
	}
	return rt, nil
}

func openStore(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	if cfg.StoreDriver == config.StoreMongo {
		client, db, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("database connection failed: %w", err)
		}
		if err := repository.EnsureUserIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return &Runtime{
			Blogs:      repository.NewMongoBlogRepository(db),
			Users:      repository.NewMongoUserRepository(db),
			CloseStore: client.Disconnect,
		}, nil
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	return &Runtime{
		Blogs: repository.NewGormBlogRepository(db),
		Users: repository.NewGormUserRepository(db),
		CloseStore: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}, nil
}

// Close releases the store and Redis.
func (r *Runtime) Close(ctx context.Context) error {
	var err error
	if r.CloseStore != nil {
		err = multierr.Append(err, r.CloseStore(ctx))
	}
	if r.Redis != nil {
		err = multierr.Append(err, r.Redis.Close())
	}
	return err
}

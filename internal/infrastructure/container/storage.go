package container

import (
	"context"

	"github.com/fitpantry/coach/internal/infrastructure/config"
	gormrepo "github.com/fitpantry/coach/internal/infrastructure/persistence/gorm"
	"github.com/fitpantry/coach/internal/infrastructure/persistence/memory"
	"github.com/fitpantry/coach/internal/infrastructure/persistence/postgres"
	redisrepo "github.com/fitpantry/coach/internal/infrastructure/persistence/redis"
	"github.com/fitpantry/coach/internal/infrastructure/persistence/sqlite"
	"github.com/fitpantry/coach/internal/ports/outbound"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// NewSessionRepository opens the configured backend and registers its teardown
func NewSessionRepository(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (outbound.SessionRepository, error) {
	ctx := context.Background()

	switch cfg.Storage.Driver {
	case "sqlite":
		logLevel := gormLogger.Silent
		if cfg.App.Debug {
			logLevel = gormLogger.Info
		}
		db, err := sqlite.SetupDatabase(cfg.Storage.SQLitePath, logLevel)
		if err != nil {
			return nil, err
		}
		closeOnStop(lc, db, log)
		log.Info("Using SQLite session storage", zap.String("path", cfg.Storage.SQLitePath))
		return gormrepo.NewSessionRepository(db, log), nil

	case "postgres":
		poolCfg := postgres.DefaultConnectionConfig()
		poolCfg.DSN = cfg.GetDSN()
		if cfg.Database.MaxOpenConns > 0 {
			poolCfg.MaxOpenConns = cfg.Database.MaxOpenConns
		}
		if cfg.Database.MaxIdleConns > 0 {
			poolCfg.MaxIdleConns = cfg.Database.MaxIdleConns
		}
		if cfg.Database.ConnMaxLifetime > 0 {
			poolCfg.ConnMaxLifetime = cfg.Database.ConnMaxLifetime
		}
		if cfg.Database.ConnMaxIdleTime > 0 {
			poolCfg.ConnMaxIdleTime = cfg.Database.ConnMaxIdleTime
		}
		if cfg.Database.LogLevel != "" {
			poolCfg.LogLevel = cfg.Database.LogLevel
		}
		db, err := postgres.Connect(ctx, poolCfg, log)
		if err != nil {
			return nil, err
		}
		closeOnStop(lc, db, log)
		return gormrepo.NewSessionRepository(db, log), nil

	case "redis":
		client, err := redisrepo.NewClient(ctx, redisrepo.ClientConfig{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			Database:     cfg.Redis.Database,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			MaxRetries:   cfg.Redis.MaxRetries,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
			ClusterNodes: cfg.Redis.ClusterNodes,
		}, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{OnStop: func(context.Context) error { return client.Close() }})
		return redisrepo.NewSessionRepository(client, cfg.Storage.SessionTTL, log), nil

	default:
		log.Info("Using in-memory session storage")
		return memory.NewSessionRepository(), nil
	}
}

func closeOnStop(lc fx.Lifecycle, db *gorm.DB, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return nil
			}
			if err := sqlDB.Close(); err != nil {
				log.Error("Failed to close database connection", zap.Error(err))
			}
			return nil
		},
	})
}

package app

import (
	"context"
	"database/sql"
	"errors"

	"churchops/internal/config"
	"churchops/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Infra holds the shared connections of one process.
type Infra struct {
	Config *config.Config
	GormDB *gorm.DB
	DB     *sql.DB
	Redis  *redis.Client
	Logger *zap.Logger
}

// Connect opens the database and, when withRedis is set, redis.
func Connect(ctx context.Context, cfg *config.Config, logger *zap.Logger, withRedis bool) (*Infra, error) {
	gormDB, err := connection.ConnectGORMWithRetry(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	infra := &Infra{Config: cfg, GormDB: gormDB, DB: sqlDB, Logger: logger}
	if withRedis {
		rdb, err := connection.ConnectRedisWithRetry(ctx, cfg.Redis, logger)
		if err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		infra.Redis = rdb
	}
	return infra, nil
}

func (i *Infra) Close() error {
	var errs []error
	if i.Redis != nil {
		errs = append(errs, i.Redis.Close())
	}
	if i.DB != nil {
		errs = append(errs, i.DB.Close())
	}
	return errors.Join(errs...)
}

// BuildApp wires every module onto router.
func BuildApp(router *gin.Engine, infra *Infra) error {
	modules, err := newRegistry(infra)
	if err != nil {
		return err
	}
	modules.register(router)
	infra.Logger.Info("modules registered")
	return nil
}

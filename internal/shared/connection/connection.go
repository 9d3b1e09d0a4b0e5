package connection

import (
	"context"
	"fmt"
	"time"

	"churchops/internal/config"

	"github.com/cenkalti/backoff/v5"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func retryOptions(maxRetries uint, logger *zap.Logger, target string) []backoff.RetryOption {
	if maxRetries == 0 {
		maxRetries = 1
	}
	return []backoff.RetryOption{
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(maxRetries),
		backoff.WithNotify(func(err error, next time.Duration) {
			logger.Warn("connection attempt failed",
				zap.String("target", target),
				zap.Duration("retry_in", next),
				zap.Error(err),
			)
		}),
	}
}

func ConnectGORMWithRetry(ctx context.Context, opts config.DatabaseOptions, logger *zap.Logger) (*gorm.DB, error) {
	db, err := backoff.Retry(ctx, func() (*gorm.DB, error) {
		db, err := gorm.Open(postgres.Open(opts.DSN()), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		})
		if err != nil {
			return nil, err
		}

		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return nil, err
		}

		sqlDB.SetMaxOpenConns(opts.MaxOpenConn)
		sqlDB.SetMaxIdleConns(opts.MaxIdleConn)
		sqlDB.SetConnMaxLifetime(time.Hour)
		return db, nil
	}, retryOptions(opts.MaxRetries, logger, "postgres")...)
	if err != nil {
		return nil, fmt.Errorf("database connection failed after %d retries: %w", opts.MaxRetries, err)
	}

	logger.Info("database connection established", zap.String("host", opts.Host), zap.String("db", opts.Name))
	return db, nil
}

func ConnectRedisWithRetry(ctx context.Context, opts config.RedisOptions, logger *zap.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: opts.Addr,
	})

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, rdb.Ping(ctx).Err()
	}, retryOptions(opts.MaxRetries, logger, "redis")...)
	if err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	logger.Info("redis connection established", zap.String("addr", opts.Addr))
	return rdb, nil
}

// ConnectKafkaWithRetry verifies the broker is reachable and returns a
// writer that routes messages by key.
func ConnectKafkaWithRetry(ctx context.Context, broker string, maxRetries uint, logger *zap.Logger) (*kafkago.Writer, error) {
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		conn, err := kafkago.DialContext(ctx, "tcp", broker)
		if err != nil {
			return struct{}{}, err
		}
		return struct{}{}, conn.Close()
	}, retryOptions(maxRetries, logger, "kafka")...)
	if err != nil {
		return nil, fmt.Errorf("kafka connection failed: %w", err)
	}

	logger.Info("kafka broker reachable", zap.String("broker", broker))
	return &kafkago.Writer{
		Addr:                   kafkago.TCP(broker),
		Balancer:               &kafkago.Hash{},
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafkago.RequireOne,
	}, nil
}

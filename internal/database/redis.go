package database

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/ledgerline/backend/internal/logger"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// InitRedis initializes the Redis client. Redis is optional: when it cannot
// be reached nil is returned and token revocation and idempotency guards are
// disabled.
func InitRedis(ctx context.Context) *redis.Client {
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", "6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	addr := viper.GetString("redis.host") + ":" + viper.GetString("redis.port")
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: viper.GetString("redis.password"),
		DB:       viper.GetInt("redis.db"),
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.L().Warn("redis connection failed, continuing without redis",
			zap.String("addr", addr), zap.Error(err))
		rdb.Close()
		return nil
	}

	logger.L().Info("redis connection established", zap.String("addr", addr))
	return rdb
}

package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// Unread-count cache in front of the notification ledger. Redis is optional:
// every helper is a no-op (or a miss) when InitRedis was never called or
// failed, and callers fall back to the database.

var (
	Ctx context.Context = context.Background()

	RedisClient RedisClientInterface
)

const unreadCountTTL = 5 * time.Minute

type RedisClientInterface interface {
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

func InitRedis(addr string) error {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if _, err := client.Ping(Ctx).Result(); err != nil {
		return err
	}
	RedisClient = client
	return nil
}

func UnreadCountKey(userID uint) string {
	return fmt.Sprintf("notifications:unread:%d", userID)
}

func GetUnreadCount(userID uint) (int64, bool) {
	if RedisClient == nil {
		return 0, false
	}
	val, err := RedisClient.Get(Ctx, UnreadCountKey(userID)).Result()
	if err != nil {
		return 0, false
	}
	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return count, true
}

func SetUnreadCount(userID uint, count int64) {
	if RedisClient == nil {
		return
	}
	RedisClient.Set(Ctx, UnreadCountKey(userID), strconv.FormatInt(count, 10), unreadCountTTL)
}

func InvalidateUnreadCount(userID uint) {
	if RedisClient == nil {
		return
	}
	RedisClient.Del(Ctx, UnreadCountKey(userID))
}

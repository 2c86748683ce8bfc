// File: utils/cache.go
package utils

import (
	"context"
	"fmt"
	"log"
	"time"

	"skedy/config"

	"github.com/go-redis/redis/v8"
)

// CacheClient is the generic cache client.
var CacheClient *redis.Client

// InitCache initializes the Redis cache client (using DB from AppConfig).
func InitCache() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := CacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Cache): %v", err)
	}
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}

// AvailabilityCacheKey builds the cache key for one day-availability response.
func AvailabilityCacheKey(businessID, date string, minutes int) string {
	return fmt.Sprintf("%s%s:%s:%d", AvailabilityCachePrefix, businessID, date, minutes)
}

// CacheAvailabilityResponse stores a serialized day-availability response.
func CacheAvailabilityResponse(ctx context.Context, key string, payload []byte) {
	if err := GetCacheClient().Set(ctx, key, payload, AvailabilityCacheTTL).Err(); err != nil {
		GetLogger().Sugar().Warnf("failed to cache availability response for %s: %v", key, err)
	}
}

// GetCachedAvailabilityResponse returns a previously cached response, or nil.
func GetCachedAvailabilityResponse(ctx context.Context, key string) []byte {
	val, err := GetCacheClient().Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	return val
}

// InvalidateAvailabilityCache drops every cached response for a business.
// Called after a booking is applied or a rollover rewrites the store.
func InvalidateAvailabilityCache(ctx context.Context, businessID string) {
	client := GetCacheClient()
	pattern := AvailabilityCachePrefix + businessID + ":*"
	iter := client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		GetLogger().Sugar().Warnf("availability cache scan failed for business %s: %v", businessID, err)
		return
	}
	if len(keys) > 0 {
		if err := client.Del(ctx, keys...).Err(); err != nil {
			GetLogger().Sugar().Warnf("availability cache invalidation failed for business %s: %v", businessID, err)
		}
	}
}

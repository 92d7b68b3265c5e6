package geo

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"agrirent/internal/domain/service"
)

// RedisGeo keeps land coordinates in a Redis GEO set so radius queries skip the document store.
type RedisGeo struct {
	client *redis.Client
	key    string
}

var _ service.GeoIndex = (*RedisGeo)(nil)

func NewRedisGeo(addr, password, key string) *RedisGeo {
	c := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	return &RedisGeo{client: c, key: key}
}

func (r *RedisGeo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisGeo) Upsert(ctx context.Context, id string, lat, lng float64) error {
	if err := r.client.GeoAdd(ctx, r.key, &redis.GeoLocation{Longitude: lng, Latitude: lat, Name: id}).Err(); err != nil {
		return fmt.Errorf("geoadd %s: %w", id, err)
	}
	return nil
}

func (r *RedisGeo) Remove(ctx context.Context, id string) error {
	return r.client.ZRem(ctx, r.key, id).Err()
}

func (r *RedisGeo) WithinRadius(ctx context.Context, lat, lng, radiusKm float64) ([]string, error) {
	ids, err := r.client.GeoSearch(ctx, r.key, &redis.GeoSearchQuery{
		Longitude:  lng,
		Latitude:   lat,
		Radius:     radiusKm,
		RadiusUnit: "km",
		Sort:       "ASC",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("geosearch: %w", err)
	}
	return ids, nil
}

func (r *RedisGeo) Close() error {
	return r.client.Close()
}

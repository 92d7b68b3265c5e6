package service

import "context"

// GeoIndex answers radius queries over land coordinates.
type GeoIndex interface {
	Upsert(ctx context.Context, id string, lat, lng float64) error
	Remove(ctx context.Context, id string) error
	WithinRadius(ctx context.Context, lat, lng, radiusKm float64) ([]string, error)
}

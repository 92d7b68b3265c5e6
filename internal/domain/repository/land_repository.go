package repository

import (
	"context"

	"agrirent/internal/domain/entity"
)

type GeoQuery struct {
	Lat      float64
	Lng      float64
	RadiusKm float64
}

type LandFilter struct {
	MinPrice       float64
	MaxPrice       float64
	MinAcres       float64
	MaxAcres       float64
	SoilType       string
	WaterSource    string
	IrrigationType string
	State          string
	City           string
	District       string
	Village        string
	Search         string
	Near           *GeoQuery
	// IDs restricts results to these ids when non-nil. An empty non-nil slice matches nothing.
	IDs []string
}

const (
	LandSortPrice     = "price"
	LandSortAcres     = "acres"
	LandSortCreatedAt = "createdAt"
	LandSortRating    = "rating"
)

type LandSort struct {
	Field string
	Desc  bool
}

// LandRepository persists land documents. Lookups that miss return errors.ErrNotFound.
type LandRepository interface {
	Create(ctx context.Context, land *entity.Land) error
	GetByID(ctx context.Context, id string) (*entity.Land, error)
	// Update applies fn to the current document and stores the result. The write is atomic with
	// respect to ReserveAcreage, ReleaseAcreage and the counters, so it never restores stale acreage.
	// An error from fn aborts the write and is returned as is. fn may run more than once.
	Update(ctx context.Context, id string, fn func(*entity.Land) error) (*entity.Land, error)
	Delete(ctx context.Context, id string) error

	// List only returns active lands with status available.
	List(ctx context.Context, filter LandFilter, sort LandSort, limit, offset int) ([]*entity.Land, int64, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Land, int64, error)

	IncrementViews(ctx context.Context, id string) error
	IncrementInquiries(ctx context.Context, id string) error

	// ReserveAcreage atomically subtracts acres from an active, available land and marks it rented.
	// It returns errors.ErrConflict when the land is no longer able to cover acres.
	ReserveAcreage(ctx context.Context, id string, acres float64) (*entity.Land, error)
	// ReleaseAcreage returns acres to the land (capped at totalAcres) and marks it available.
	ReleaseAcreage(ctx context.Context, id string, acres float64) error
}

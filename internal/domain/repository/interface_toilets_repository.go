package repository

import (
	"context"

	"Loopee-App/internal/domain/model"
)

type ToiletsRepository interface {
	GetByID(ctx context.Context, id string) (*model.Toilet, error)
	GetNearbyToilets(ctx context.Context, lat, lng float64, radiusMeters int) ([]model.Toilet, error)
	GetByBoundingBox(ctx context.Context, minLng, minLat, maxLng, maxLat float64) ([]model.Toilet, error)
	SearchByName(ctx context.Context, keyword string, limit int) ([]model.Toilet, error)
	Create(ctx context.Context, toilet *model.Toilet) error
	UpdateRating(ctx context.Context, id string, rating float64, reviewCount int) error
}

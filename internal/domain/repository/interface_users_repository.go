package repository

import (
	"context"

	"Loopee-App/internal/domain/model"
)

type UsersRepository interface {
	GetProfile(ctx context.Context, userID string) (*model.UserProfile, error)
	UpsertProfile(ctx context.Context, profile *model.UserProfile) error
}

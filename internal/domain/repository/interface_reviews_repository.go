package repository

import (
	"context"

	"Loopee-App/internal/domain/model"
)

type ReviewsRepository interface {
	Create(ctx context.Context, review *model.Review) error
	GetByToiletID(ctx context.Context, toiletID string) ([]model.Review, error)
	// ExistsByToiletAndUser 同一ユーザーによる同一トイレへのレビュー有無を確認（二重投稿ガード用）
	ExistsByToiletAndUser(ctx context.Context, toiletID, userID string) (bool, error)
}

package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"Loopee-App/internal/domain/model"
	"Loopee-App/internal/domain/repository"
	"Loopee-App/internal/infrastructure/database"
)

type SupabaseReviewsRepository struct {
	client *database.SupabaseClient
}

func NewSupabaseReviewsRepository(client *database.SupabaseClient) repository.ReviewsRepository {
	return &SupabaseReviewsRepository{
		client: client,
	}
}

func (r *SupabaseReviewsRepository) Create(ctx context.Context, review *model.Review) error {
	data, err := json.Marshal(review)
	if err != nil {
		return fmt.Errorf("レビューデータのJSONマーシャル失敗: %w", err)
	}

	_, _, err = r.client.GetClient().From("reviews").Insert(string(data), false, "", "", "").Execute()
	if err != nil {
		return fmt.Errorf("レビューデータの作成失敗: %w", err)
	}

	return nil
}

func (r *SupabaseReviewsRepository) GetByToiletID(ctx context.Context, toiletID string) ([]model.Review, error) {
	var reviews []model.Review
	data, count, err := r.client.GetClient().From("reviews").Select("*", "exact", false).Eq("toilet_id", toiletID).Execute()
	if err != nil {
		return nil, fmt.Errorf("レビューデータの取得失敗: %w", err)
	}
	_ = count

	if err := json.Unmarshal([]byte(data), &reviews); err != nil {
		return nil, fmt.Errorf("レビューデータのJSONアンマーシャル失敗: %w", err)
	}

	return reviews, nil
}

func (r *SupabaseReviewsRepository) ExistsByToiletAndUser(ctx context.Context, toiletID, userID string) (bool, error) {
	var reviews []model.Review
	data, count, err := r.client.GetClient().From("reviews").
		Select("id", "exact", false).
		Eq("toilet_id", toiletID).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return false, fmt.Errorf("レビュー存在チェックの失敗: %w", err)
	}
	_ = count

	if err := json.Unmarshal([]byte(data), &reviews); err != nil {
		return false, fmt.Errorf("レビューデータのJSONアンマーシャル失敗: %w", err)
	}

	return len(reviews) > 0, nil
}

package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"Loopee-App/internal/domain/model"
	"Loopee-App/internal/domain/repository"
	"Loopee-App/internal/infrastructure/database"
)

type SupabaseUsersRepository struct {
	client *database.SupabaseClient
}

func NewSupabaseUsersRepository(client *database.SupabaseClient) repository.UsersRepository {
	return &SupabaseUsersRepository{
		client: client,
	}
}

func (r *SupabaseUsersRepository) GetProfile(ctx context.Context, userID string) (*model.UserProfile, error) {
	var profiles []model.UserProfile
	data, count, err := r.client.GetClient().From("profiles").Select("*", "exact", false).Eq("user_id", userID).Execute()
	if err != nil {
		return nil, fmt.Errorf("プロフィールデータの取得失敗: %w", err)
	}
	_ = count

	if err := json.Unmarshal([]byte(data), &profiles); err != nil {
		return nil, fmt.Errorf("プロフィールデータのJSONアンマーシャル失敗: %w", err)
	}

	if len(profiles) == 0 {
		return nil, fmt.Errorf("ユーザー ID %s のプロフィールが見つかりません", userID)
	}

	return &profiles[0], nil
}

func (r *SupabaseUsersRepository) UpsertProfile(ctx context.Context, profile *model.UserProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("プロフィールデータのJSONマーシャル失敗: %w", err)
	}

	// user_idの競合時は既存行を更新する
	_, _, err = r.client.GetClient().From("profiles").Insert(string(data), true, "user_id", "", "").Execute()
	if err != nil {
		return fmt.Errorf("プロフィールデータの保存失敗: %w", err)
	}

	return nil
}

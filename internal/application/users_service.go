package application

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"Loopee-App/internal/domain/model"
	"Loopee-App/internal/domain/repository"
)

// UsersService ユーザープロフィールに関するビジネスロジックを提供するサービス
type UsersService interface {
	// GetProfile プロフィールを取得
	GetProfile(ctx context.Context, userID string) (*model.UserProfile, error)

	// UpdateProfile プロフィールを更新（存在しない場合は作成）
	UpdateProfile(ctx context.Context, userID string, req *model.UpdateProfileRequest) (*model.UserProfile, error)
}

// usersServiceImpl UsersServiceの実装
type usersServiceImpl struct {
	usersRepo repository.UsersRepository
	logger    *logrus.Logger
}

// NewUsersService UsersServiceの新しいインスタンスを作成
func NewUsersService(usersRepo repository.UsersRepository, logger *logrus.Logger) UsersService {
	return &usersServiceImpl{
		usersRepo: usersRepo,
		logger:    logger,
	}
}

// GetProfile プロフィールを取得
func (s *usersServiceImpl) GetProfile(ctx context.Context, userID string) (*model.UserProfile, error) {
	profile, err := s.usersRepo.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("プロフィールの取得失敗: %w", err)
	}
	return profile, nil
}

// UpdateProfile プロフィールを更新
func (s *usersServiceImpl) UpdateProfile(ctx context.Context, userID string, req *model.UpdateProfileRequest) (*model.UserProfile, error) {
	if req.DisplayName == "" {
		return nil, fmt.Errorf("表示名は必須です")
	}

	profile := &model.UserProfile{
		UserID:      userID,
		DisplayName: req.DisplayName,
	}
	if req.AvatarURL != "" {
		profile.AvatarURL = &req.AvatarURL
	}

	if err := s.usersRepo.UpsertProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("プロフィールの保存失敗: %w", err)
	}

	s.logger.Infof("✅ プロフィールを更新しました (user: %s)", userID)
	return profile, nil
}

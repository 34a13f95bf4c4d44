package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"Loopee-App/internal/domain/model"
	"Loopee-App/internal/domain/repository"
)

// ErrDuplicateReview 同一ユーザーが同一トイレへ再レビューした場合のエラー
var ErrDuplicateReview = errors.New("このトイレには既にレビュー済みです")

// ReviewsService レビューに関するビジネスロジックを提供するサービス
type ReviewsService interface {
	// CreateReview レビューを投稿し、トイレの評価値を再計算する
	CreateReview(ctx context.Context, toiletID, userID string, req *model.CreateReviewRequest) (*model.CreateReviewResponse, error)

	// GetReviews トイレのレビュー一覧を取得
	GetReviews(ctx context.Context, toiletID string) ([]model.Review, error)
}

// reviewsServiceImpl ReviewsServiceの実装
type reviewsServiceImpl struct {
	reviewsRepo repository.ReviewsRepository
	toiletsRepo repository.ToiletsRepository
	logger      *logrus.Logger
}

// NewReviewsService ReviewsServiceの新しいインスタンスを作成
func NewReviewsService(reviewsRepo repository.ReviewsRepository, toiletsRepo repository.ToiletsRepository, logger *logrus.Logger) ReviewsService {
	return &reviewsServiceImpl{
		reviewsRepo: reviewsRepo,
		toiletsRepo: toiletsRepo,
		logger:      logger,
	}
}

// CreateReview レビューを投稿する
func (s *reviewsServiceImpl) CreateReview(ctx context.Context, toiletID, userID string, req *model.CreateReviewRequest) (*model.CreateReviewResponse, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("評価値は1から5の範囲である必要があります")
	}

	// 対象トイレの存在確認
	if _, err := s.toiletsRepo.GetByID(ctx, toiletID); err != nil {
		return nil, fmt.Errorf("レビュー対象トイレの確認失敗: %w", err)
	}

	// 二重投稿ガード
	exists, err := s.reviewsRepo.ExistsByToiletAndUser(ctx, toiletID, userID)
	if err != nil {
		return nil, fmt.Errorf("レビュー存在チェックの失敗: %w", err)
	}
	if exists {
		return nil, ErrDuplicateReview
	}

	review := &model.Review{
		ID:       uuid.New().String(),
		ToiletID: toiletID,
		UserID:   userID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	}

	if err := s.reviewsRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("レビューの保存失敗: %w", err)
	}

	// 評価値の集計を再計算（失敗してもレビュー自体は保存済みのため警告のみ）
	if err := s.recalculateRating(ctx, toiletID); err != nil {
		s.logger.Warnf("⚠️ 評価値の再計算に失敗しました (%s): %v", toiletID, err)
	}

	s.logger.Infof("✅ レビューを投稿しました (toilet: %s, rating: %d)", toiletID, req.Rating)

	return &model.CreateReviewResponse{
		Status:   "success",
		ReviewID: review.ID,
	}, nil
}

// GetReviews トイレのレビュー一覧を取得
func (s *reviewsServiceImpl) GetReviews(ctx context.Context, toiletID string) ([]model.Review, error) {
	reviews, err := s.reviewsRepo.GetByToiletID(ctx, toiletID)
	if err != nil {
		return nil, fmt.Errorf("レビュー一覧の取得失敗: %w", err)
	}
	return reviews, nil
}

// recalculateRating 全レビューの平均からトイレの評価値を更新する
func (s *reviewsServiceImpl) recalculateRating(ctx context.Context, toiletID string) error {
	reviews, err := s.reviewsRepo.GetByToiletID(ctx, toiletID)
	if err != nil {
		return err
	}
	if len(reviews) == 0 {
		return nil
	}

	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	average := float64(sum) / float64(len(reviews))

	return s.toiletsRepo.UpdateRating(ctx, toiletID, average, len(reviews))
}

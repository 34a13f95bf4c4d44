package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"Loopee-App/internal/domain/model"
	"Loopee-App/internal/domain/repository"
)

// draftTTL 下書きの有効期間。期限切れの下書きはFirestoreのTTLポリシーで削除される
const draftTTL = 24 * time.Hour

// ContributionUseCase 複数ステップのトイレ投稿フローを提供するユースケース
type ContributionUseCase interface {
	// CreateDraft 新しい投稿下書きを作成
	CreateDraft(ctx context.Context, userID string) (*model.CreateDraftResponse, error)

	// UpdateLocationStep 位置ステップを保存
	UpdateLocationStep(ctx context.Context, draftID, userID string, req *model.DraftLocationStepRequest) error

	// UpdateDetailsStep 詳細ステップを保存
	UpdateDetailsStep(ctx context.Context, draftID, userID string, req *model.DraftDetailsStepRequest) error

	// UpdateFeaturesStep 設備ステップを保存
	UpdateFeaturesStep(ctx context.Context, draftID, userID string, req *model.DraftFeaturesStepRequest) error

	// Submit 下書きを確定してトイレを登録（二重投稿ガード付き）
	Submit(ctx context.Context, draftID, userID string) (*model.SubmitContributionResponse, error)
}

// contributionUseCaseImpl ContributionUseCaseの実装
type contributionUseCaseImpl struct {
	draftsRepo  repository.ContributionDraftsRepository
	toiletsRepo repository.ToiletsRepository
	logger      *logrus.Logger

	// submitMu 同一プロセス内の同時Submitを直列化する
	// プロセスをまたぐ競合はFirestoreトランザクション（ClaimSubmission）が防ぐ。
	submitMu sync.Mutex
}

// NewContributionUseCase ContributionUseCaseの新しいインスタンスを作成
func NewContributionUseCase(
	draftsRepo repository.ContributionDraftsRepository,
	toiletsRepo repository.ToiletsRepository,
	logger *logrus.Logger,
) ContributionUseCase {
	return &contributionUseCaseImpl{
		draftsRepo:  draftsRepo,
		toiletsRepo: toiletsRepo,
		logger:      logger,
	}
}

// CreateDraft 新しい投稿下書きを作成
func (u *contributionUseCaseImpl) CreateDraft(ctx context.Context, userID string) (*model.CreateDraftResponse, error) {
	if userID == "" {
		return nil, fmt.Errorf("ユーザーIDは必須です")
	}

	now := time.Now()
	draft := &model.ContributionDraft{
		DraftID:   fmt.Sprintf("draft_%s", uuid.New().String()),
		CreatedBy: userID,
		CreatedAt: now,
		ExpireAt:  now.Add(draftTTL),
	}

	if err := u.draftsRepo.Save(ctx, draft); err != nil {
		return nil, fmt.Errorf("下書きの作成失敗: %w", err)
	}

	u.logger.Infof("📝 投稿下書きを作成しました: %s", draft.DraftID)

	return &model.CreateDraftResponse{
		Status:  "success",
		DraftID: draft.DraftID,
	}, nil
}

// UpdateLocationStep 位置ステップを保存
func (u *contributionUseCaseImpl) UpdateLocationStep(ctx context.Context, draftID, userID string, req *model.DraftLocationStepRequest) error {
	draft, err := u.loadEditableDraft(ctx, draftID, userID)
	if err != nil {
		return err
	}

	if req.Latitude < -90 || req.Latitude > 90 || req.Longitude < -180 || req.Longitude > 180 {
		return fmt.Errorf("座標値が有効範囲外です")
	}

	draft.Location = &model.Location{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}

	return u.saveDraft(ctx, draft, model.ContributionStepLocation)
}

// UpdateDetailsStep 詳細ステップを保存
func (u *contributionUseCaseImpl) UpdateDetailsStep(ctx context.Context, draftID, userID string, req *model.DraftDetailsStepRequest) error {
	draft, err := u.loadEditableDraft(ctx, draftID, userID)
	if err != nil {
		return err
	}

	if req.Name == "" {
		return fmt.Errorf("施設名は必須です")
	}

	draft.Name = req.Name
	draft.Floor = req.Floor
	draft.Description = req.Description

	return u.saveDraft(ctx, draft, model.ContributionStepDetails)
}

// UpdateFeaturesStep 設備ステップを保存
func (u *contributionUseCaseImpl) UpdateFeaturesStep(ctx context.Context, draftID, userID string, req *model.DraftFeaturesStepRequest) error {
	draft, err := u.loadEditableDraft(ctx, draftID, userID)
	if err != nil {
		return err
	}

	for _, feature := range req.Features {
		if !model.IsValidFeature(feature) {
			return fmt.Errorf("未定義の設備タグです: %s", feature)
		}
	}

	draft.Features = req.Features
	if req.PhotoURL != "" {
		draft.PhotoURL = &req.PhotoURL
	}

	return u.saveDraft(ctx, draft, model.ContributionStepFeatures)
}

// Submit 下書きを確定してトイレを登録する
// 既にSubmit済みの下書きに対しては新規登録を行わず、確定済みのトイレIDを返す。
func (u *contributionUseCaseImpl) Submit(ctx context.Context, draftID, userID string) (*model.SubmitContributionResponse, error) {
	u.submitMu.Lock()
	defer u.submitMu.Unlock()

	draft, err := u.draftsRepo.GetByID(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("下書きの取得失敗: %w", err)
	}

	if draft.CreatedBy != userID {
		return nil, fmt.Errorf("この下書きを操作する権限がありません")
	}

	if draft.Submitted {
		// 二重投稿ガード: 前回のSubmit結果をそのまま返す
		u.logger.Warnf("⚠️ 下書き %s は既にSubmit済みです", draftID)
		return &model.SubmitContributionResponse{
			Status:   "already_submitted",
			ToiletID: draft.ToiletID,
		}, nil
	}

	if !draft.IsComplete() {
		return nil, fmt.Errorf("必須ステップが未入力です（位置と施設名が必要）")
	}

	toiletID := uuid.New().String()

	claimedID, won, err := u.draftsRepo.ClaimSubmission(ctx, draftID, toiletID)
	if err != nil {
		return nil, fmt.Errorf("Submit状態の更新失敗: %w", err)
	}
	if !won {
		// 別プロセスが先にSubmitを完了していた場合
		return &model.SubmitContributionResponse{
			Status:   "already_submitted",
			ToiletID: claimedID,
		}, nil
	}

	toilet := &model.Toilet{
		ID:          toiletID,
		Name:        draft.Name,
		Location:    draft.Location.ToGeometry(),
		Floor:       draft.Floor,
		Description: draft.Description,
		Features:    draft.Features,
		PhotoURL:    draft.PhotoURL,
		CreatedBy:   userID,
	}

	if err := u.toiletsRepo.Create(ctx, toilet); err != nil {
		// 登録失敗時はSubmitフラグを解除し、再Submit可能な状態に戻す
		if releaseErr := u.draftsRepo.ReleaseSubmission(ctx, draftID); releaseErr != nil {
			u.logger.Errorf("❌ 下書き %s のSubmitフラグ解除に失敗しました: %v", draftID, releaseErr)
		}
		return nil, fmt.Errorf("トイレの登録失敗: %w", err)
	}

	u.logger.Infof("🚽 新しいトイレを登録しました: %s (%s)", toilet.Name, toiletID)

	return &model.SubmitContributionResponse{
		Status:   "success",
		ToiletID: toiletID,
	}, nil
}

// loadEditableDraft 編集可能な下書きを取得する（所有者チェックとSubmit済みチェック付き）
func (u *contributionUseCaseImpl) loadEditableDraft(ctx context.Context, draftID, userID string) (*model.ContributionDraft, error) {
	draft, err := u.draftsRepo.GetByID(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("下書きの取得失敗: %w", err)
	}

	if draft.CreatedBy != userID {
		return nil, fmt.Errorf("この下書きを操作する権限がありません")
	}

	if draft.Submitted {
		return nil, fmt.Errorf("Submit済みの下書きは編集できません")
	}

	return draft, nil
}

// saveDraft 下書きを保存する
func (u *contributionUseCaseImpl) saveDraft(ctx context.Context, draft *model.ContributionDraft, step string) error {
	if err := u.draftsRepo.Save(ctx, draft); err != nil {
		return fmt.Errorf("%sステップの保存失敗: %w", step, err)
	}

	u.logger.Debugf("下書き %s の%sステップを保存しました", draft.DraftID, step)
	return nil
}

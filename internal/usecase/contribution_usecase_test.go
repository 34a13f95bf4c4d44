package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Loopee-App/internal/domain/model"
	"Loopee-App/internal/infrastructure/logging"
)

// fakeDraftsRepository テスト用のインメモリ下書きリポジトリ
// ClaimSubmission はFirestoreトランザクションと同じ勝敗セマンティクスを再現する。
type fakeDraftsRepository struct {
	mu     sync.Mutex
	drafts map[string]*model.ContributionDraft
}

func newFakeDraftsRepository() *fakeDraftsRepository {
	return &fakeDraftsRepository{drafts: make(map[string]*model.ContributionDraft)}
}

func (f *fakeDraftsRepository) Save(ctx context.Context, draft *model.ContributionDraft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *draft
	f.drafts[draft.DraftID] = &copied
	return nil
}

func (f *fakeDraftsRepository) GetByID(ctx context.Context, draftID string) (*model.ContributionDraft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	draft, ok := f.drafts[draftID]
	if !ok {
		return nil, fmt.Errorf("下書きが見つかりません: %s", draftID)
	}
	copied := *draft
	return &copied, nil
}

func (f *fakeDraftsRepository) ClaimSubmission(ctx context.Context, draftID, toiletID string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	draft, ok := f.drafts[draftID]
	if !ok {
		return "", false, fmt.Errorf("下書きが見つかりません: %s", draftID)
	}
	if draft.Submitted {
		return draft.ToiletID, false, nil
	}
	draft.Submitted = true
	draft.ToiletID = toiletID
	return toiletID, true, nil
}

func (f *fakeDraftsRepository) ReleaseSubmission(ctx context.Context, draftID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	draft, ok := f.drafts[draftID]
	if !ok {
		return fmt.Errorf("下書きが見つかりません: %s", draftID)
	}
	draft.Submitted = false
	draft.ToiletID = ""
	return nil
}

// creationCountingToiletsRepository Createの呼び出し回数を記録するリポジトリ
type creationCountingToiletsRepository struct {
	mu         sync.Mutex
	created    []model.Toilet
	failCreate bool
}

func (f *creationCountingToiletsRepository) GetByID(ctx context.Context, id string) (*model.Toilet, error) {
	return nil, fmt.Errorf("トイレが見つかりません: %s", id)
}

func (f *creationCountingToiletsRepository) GetNearbyToilets(ctx context.Context, lat, lng float64, radiusMeters int) ([]model.Toilet, error) {
	return nil, nil
}

func (f *creationCountingToiletsRepository) GetByBoundingBox(ctx context.Context, minLng, minLat, maxLng, maxLat float64) ([]model.Toilet, error) {
	return nil, nil
}

func (f *creationCountingToiletsRepository) SearchByName(ctx context.Context, keyword string, limit int) ([]model.Toilet, error) {
	return nil, nil
}

func (f *creationCountingToiletsRepository) Create(ctx context.Context, toilet *model.Toilet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return fmt.Errorf("データベース接続エラー")
	}
	f.created = append(f.created, *toilet)
	return nil
}

func (f *creationCountingToiletsRepository) UpdateRating(ctx context.Context, id string, rating float64, reviewCount int) error {
	return nil
}

func newTestContributionUseCase() (ContributionUseCase, *fakeDraftsRepository, *creationCountingToiletsRepository) {
	draftsRepo := newFakeDraftsRepository()
	toiletsRepo := &creationCountingToiletsRepository{}
	uc := NewContributionUseCase(draftsRepo, toiletsRepo, logging.NewTestLogger())
	return uc, draftsRepo, toiletsRepo
}

// completeDraftFlow 下書き作成から全ステップ入力までを実行するヘルパー
func completeDraftFlow(t *testing.T, uc ContributionUseCase, userID string) string {
	t.Helper()
	ctx := context.Background()

	res, err := uc.CreateDraft(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, "success", res.Status)

	require.NoError(t, uc.UpdateLocationStep(ctx, res.DraftID, userID, &model.DraftLocationStepRequest{
		Latitude:  1.3521,
		Longitude: 103.8198,
	}))
	require.NoError(t, uc.UpdateDetailsStep(ctx, res.DraftID, userID, &model.DraftDetailsStepRequest{
		Name:  "駅前公衆トイレ",
		Floor: "1F",
	}))
	require.NoError(t, uc.UpdateFeaturesStep(ctx, res.DraftID, userID, &model.DraftFeaturesStepRequest{
		Features: []string{model.FeatureWheelchairAccess, model.FeatureFree},
	}))

	return res.DraftID
}

func TestContributionUseCase_StepFlow(t *testing.T) {
	ctx := context.Background()

	t.Run("全ステップ入力後のSubmitでトイレが登録される", func(t *testing.T) {
		uc, draftsRepo, toiletsRepo := newTestContributionUseCase()
		draftID := completeDraftFlow(t, uc, "user-1")

		res, err := uc.Submit(ctx, draftID, "user-1")
		require.NoError(t, err)
		assert.Equal(t, "success", res.Status)
		assert.NotEmpty(t, res.ToiletID)

		require.Len(t, toiletsRepo.created, 1)
		created := toiletsRepo.created[0]
		assert.Equal(t, "駅前公衆トイレ", created.Name)
		assert.Equal(t, "user-1", created.CreatedBy)
		assert.Contains(t, created.Features, model.FeatureWheelchairAccess)

		saved, err := draftsRepo.GetByID(ctx, draftID)
		require.NoError(t, err)
		assert.True(t, saved.Submitted)
		assert.Equal(t, res.ToiletID, saved.ToiletID)
	})

	t.Run("未定義の設備タグは拒否される", func(t *testing.T) {
		uc, _, _ := newTestContributionUseCase()
		res, err := uc.CreateDraft(ctx, "user-1")
		require.NoError(t, err)

		err = uc.UpdateFeaturesStep(ctx, res.DraftID, "user-1", &model.DraftFeaturesStepRequest{
			Features: []string{"golden_throne"},
		})
		assert.Error(t, err)
	})

	t.Run("範囲外の座標は拒否される", func(t *testing.T) {
		uc, _, _ := newTestContributionUseCase()
		res, err := uc.CreateDraft(ctx, "user-1")
		require.NoError(t, err)

		err = uc.UpdateLocationStep(ctx, res.DraftID, "user-1", &model.DraftLocationStepRequest{
			Latitude:  95.0,
			Longitude: 103.8198,
		})
		assert.Error(t, err)
	})

	t.Run("所有者以外はステップを更新できない", func(t *testing.T) {
		uc, _, _ := newTestContributionUseCase()
		res, err := uc.CreateDraft(ctx, "user-1")
		require.NoError(t, err)

		err = uc.UpdateDetailsStep(ctx, res.DraftID, "user-2", &model.DraftDetailsStepRequest{Name: "乗っ取り"})
		assert.Error(t, err)
	})
}

func TestContributionUseCase_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("二重Submitは1件しか登録せず同じトイレIDを返す", func(t *testing.T) {
		uc, _, toiletsRepo := newTestContributionUseCase()
		draftID := completeDraftFlow(t, uc, "user-1")

		first, err := uc.Submit(ctx, draftID, "user-1")
		require.NoError(t, err)
		require.Equal(t, "success", first.Status)

		second, err := uc.Submit(ctx, draftID, "user-1")
		require.NoError(t, err)
		assert.Equal(t, "already_submitted", second.Status)
		assert.Equal(t, first.ToiletID, second.ToiletID)

		assert.Len(t, toiletsRepo.created, 1)
	})

	t.Run("必須ステップが未入力の下書きはSubmitできない", func(t *testing.T) {
		uc, _, toiletsRepo := newTestContributionUseCase()
		res, err := uc.CreateDraft(ctx, "user-1")
		require.NoError(t, err)

		// 位置のみ入力し施設名が未入力
		require.NoError(t, uc.UpdateLocationStep(ctx, res.DraftID, "user-1", &model.DraftLocationStepRequest{
			Latitude:  1.3521,
			Longitude: 103.8198,
		}))

		_, err = uc.Submit(ctx, res.DraftID, "user-1")
		assert.Error(t, err)
		assert.Empty(t, toiletsRepo.created)
	})

	t.Run("所有者以外はSubmitできない", func(t *testing.T) {
		uc, _, _ := newTestContributionUseCase()
		draftID := completeDraftFlow(t, uc, "user-1")

		_, err := uc.Submit(ctx, draftID, "user-2")
		assert.Error(t, err)
	})

	t.Run("Submit済みの下書きは編集できない", func(t *testing.T) {
		uc, _, _ := newTestContributionUseCase()
		draftID := completeDraftFlow(t, uc, "user-1")

		_, err := uc.Submit(ctx, draftID, "user-1")
		require.NoError(t, err)

		err = uc.UpdateDetailsStep(ctx, draftID, "user-1", &model.DraftDetailsStepRequest{Name: "変更後"})
		assert.Error(t, err)
	})

	t.Run("トイレ登録失敗時はエラーを返す", func(t *testing.T) {
		uc, _, toiletsRepo := newTestContributionUseCase()
		draftID := completeDraftFlow(t, uc, "user-1")
		toiletsRepo.failCreate = true

		_, err := uc.Submit(ctx, draftID, "user-1")
		assert.Error(t, err)
	})

	t.Run("トイレ登録失敗後の再Submitは成功する", func(t *testing.T) {
		uc, draftsRepo, toiletsRepo := newTestContributionUseCase()
		draftID := completeDraftFlow(t, uc, "user-1")

		// 一時的なDB障害でトイレ登録が失敗
		toiletsRepo.failCreate = true
		_, err := uc.Submit(ctx, draftID, "user-1")
		require.Error(t, err)
		assert.Empty(t, toiletsRepo.created)

		// 失敗時はSubmitフラグが解除され、下書きは再Submit可能な状態に戻る
		draft, err := draftsRepo.GetByID(ctx, draftID)
		require.NoError(t, err)
		assert.False(t, draft.Submitted)
		assert.Empty(t, draft.ToiletID)

		// 障害復旧後の再Submitで登録が完了する
		toiletsRepo.failCreate = false
		res, err := uc.Submit(ctx, draftID, "user-1")
		require.NoError(t, err)
		assert.Equal(t, "success", res.Status)
		assert.NotEmpty(t, res.ToiletID)
		assert.Len(t, toiletsRepo.created, 1)
	})
}

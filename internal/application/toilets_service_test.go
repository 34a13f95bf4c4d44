package application

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Loopee-App/internal/domain/model"
	"Loopee-App/internal/domain/service"
	"Loopee-App/internal/infrastructure/logging"
)

const (
	testWaitTimeout  = 2 * time.Second
	testPollInterval = 5 * time.Millisecond
)

// fakeToiletsRepository テスト用のインメモリリポジトリ
// fetchCalls で周辺検索の呼び出し回数を追跡し、failNext でフェッチ失敗を再現する。
type fakeToiletsRepository struct {
	mu         sync.Mutex
	toilets    []model.Toilet
	fetchCalls int
	failNext   bool
	blockCh    chan struct{} // 非nilなら受信まで周辺検索をブロックする
}

func (f *fakeToiletsRepository) GetByID(ctx context.Context, id string) (*model.Toilet, error) {
	for i := range f.toilets {
		if f.toilets[i].ID == id {
			return &f.toilets[i], nil
		}
	}
	return nil, fmt.Errorf("トイレが見つかりません: %s", id)
}

func (f *fakeToiletsRepository) GetNearbyToilets(ctx context.Context, lat, lng float64, radiusMeters int) ([]model.Toilet, error) {
	f.mu.Lock()
	f.fetchCalls++
	fail := f.failNext
	f.failNext = false
	block := f.blockCh
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if fail {
		return nil, fmt.Errorf("データベース接続エラー")
	}
	return append([]model.Toilet(nil), f.toilets...), nil
}

func (f *fakeToiletsRepository) GetByBoundingBox(ctx context.Context, minLng, minLat, maxLng, maxLat float64) ([]model.Toilet, error) {
	return append([]model.Toilet(nil), f.toilets...), nil
}

func (f *fakeToiletsRepository) SearchByName(ctx context.Context, keyword string, limit int) ([]model.Toilet, error) {
	var matched []model.Toilet
	for _, t := range f.toilets {
		matched = append(matched, t)
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (f *fakeToiletsRepository) Create(ctx context.Context, toilet *model.Toilet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toilets = append(f.toilets, *toilet)
	return nil
}

func (f *fakeToiletsRepository) UpdateRating(ctx context.Context, id string, rating float64, reviewCount int) error {
	return nil
}

func (f *fakeToiletsRepository) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchCalls
}

func newTestToiletsService(repo *fakeToiletsRepository, policy service.ValidationPolicy) ToiletsService {
	logger := logging.NewTestLogger()
	return NewToiletsService(
		repo,
		service.NewProximityCacheGate(logger),
		service.NewClusterService(logger),
		service.NewCoordinateValidator(policy),
		logger,
	)
}

func testToilet(id string, lat, lng float64) model.Toilet {
	return model.Toilet{
		ID:   id,
		Name: "テストトイレ " + id,
		Location: &model.Geometry{
			Type:        "Point",
			Coordinates: []float64{lng, lat},
		},
	}
}

func TestToiletsService_GetNearbyToilets(t *testing.T) {
	ctx := context.Background()
	singapore := model.Location{Latitude: 1.3521, Longitude: 103.8198}

	t.Run("初回はフェッチし2回目はキャッシュを返す", func(t *testing.T) {
		repo := &fakeToiletsRepository{toilets: []model.Toilet{testToilet("a", 1.3521, 103.8198)}}
		svc := newTestToiletsService(repo, service.ValidationPolicyStrict)

		first, err := svc.GetNearbyToilets(ctx, singapore)
		require.NoError(t, err)
		assert.Len(t, first, 1)
		assert.Equal(t, 1, repo.calls())

		// 同一地点・有効期間内の再呼び出しはフェッチしない
		second, err := svc.GetNearbyToilets(ctx, singapore)
		require.NoError(t, err)
		assert.Len(t, second, 1)
		assert.Equal(t, 1, repo.calls())
	})

	t.Run("100mを超える移動で再フェッチする", func(t *testing.T) {
		repo := &fakeToiletsRepository{toilets: []model.Toilet{testToilet("a", 1.3521, 103.8198)}}
		svc := newTestToiletsService(repo, service.ValidationPolicyStrict)

		_, err := svc.GetNearbyToilets(ctx, singapore)
		require.NoError(t, err)

		moved := model.Location{Latitude: 1.3600, Longitude: 103.8300}
		_, err = svc.GetNearbyToilets(ctx, moved)
		require.NoError(t, err)
		assert.Equal(t, 2, repo.calls())
	})

	t.Run("フェッチ失敗時はキャッシュ状態を変更せず次回再試行する", func(t *testing.T) {
		repo := &fakeToiletsRepository{
			toilets:  []model.Toilet{testToilet("a", 1.3521, 103.8198)},
			failNext: true,
		}
		svc := newTestToiletsService(repo, service.ValidationPolicyStrict)

		_, err := svc.GetNearbyToilets(ctx, singapore)
		require.Error(t, err)
		assert.Equal(t, 1, repo.calls())

		// 失敗でフェッチ状態が更新されていないため、同一地点でも再フェッチする
		toilets, err := svc.GetNearbyToilets(ctx, singapore)
		require.NoError(t, err)
		assert.Len(t, toilets, 1)
		assert.Equal(t, 2, repo.calls())
	})

	t.Run("フェッチ進行中の呼び出しは重複フェッチせずキャッシュを返す", func(t *testing.T) {
		block := make(chan struct{})
		repo := &fakeToiletsRepository{
			toilets: []model.Toilet{testToilet("a", 1.3521, 103.8198)},
			blockCh: block,
		}
		svc := newTestToiletsService(repo, service.ValidationPolicyStrict)

		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = svc.GetNearbyToilets(ctx, singapore)
		}()

		// 最初のフェッチがブロックしている間の呼び出しはキャッシュ（空）を返す
		assert.Eventually(t, func() bool { return repo.calls() == 1 }, testWaitTimeout, testPollInterval)
		cached, err := svc.GetNearbyToilets(ctx, singapore)
		require.NoError(t, err)
		assert.Empty(t, cached)
		assert.Equal(t, 1, repo.calls())

		close(block)
		<-done
	})

	t.Run("strictポリシーは範囲外座標の行を除外する", func(t *testing.T) {
		repo := &fakeToiletsRepository{toilets: []model.Toilet{
			testToilet("ok", 1.3521, 103.8198),
			testToilet("bad-lat", 95.0, 103.8198),
			testToilet("bad-nan", math.NaN(), 103.8198),
		}}
		svc := newTestToiletsService(repo, service.ValidationPolicyStrict)

		toilets, err := svc.GetNearbyToilets(ctx, singapore)
		require.NoError(t, err)
		require.Len(t, toilets, 1)
		assert.Equal(t, "ok", toilets[0].ID)
	})

	t.Run("返却結果を変更してもキャッシュは汚染されない", func(t *testing.T) {
		repo := &fakeToiletsRepository{toilets: []model.Toilet{testToilet("a", 1.3521, 103.8198)}}
		svc := newTestToiletsService(repo, service.ValidationPolicyStrict)

		first, err := svc.GetNearbyToilets(ctx, singapore)
		require.NoError(t, err)
		require.Len(t, first, 1)

		// 呼び出し側が座標を書き換えてもキャッシュには波及しない
		first[0].Location.Coordinates[0] = -999
		first[0].Location.Coordinates[1] = -999

		second, err := svc.GetNearbyToilets(ctx, singapore)
		require.NoError(t, err)
		require.Len(t, second, 1)
		assert.Equal(t, 103.8198, second[0].Location.Coordinates[0])
		assert.Equal(t, 1.3521, second[0].Location.Coordinates[1])
		assert.Equal(t, 1, repo.calls())
	})

	t.Run("permissiveポリシーは範囲外でも有限値の行を残す", func(t *testing.T) {
		repo := &fakeToiletsRepository{toilets: []model.Toilet{
			testToilet("ok", 1.3521, 103.8198),
			testToilet("bad-lat", 95.0, 103.8198),
			testToilet("bad-nan", math.NaN(), 103.8198),
		}}
		svc := newTestToiletsService(repo, service.ValidationPolicyPermissive)

		toilets, err := svc.GetNearbyToilets(ctx, singapore)
		require.NoError(t, err)
		assert.Len(t, toilets, 2)
	})
}

func TestToiletsService_GetClusters(t *testing.T) {
	ctx := context.Background()
	repo := &fakeToiletsRepository{toilets: []model.Toilet{
		testToilet("a", 1.3500, 103.8200),
		testToilet("b", 1.3520, 103.8250),
		testToilet("broken", math.NaN(), 103.82),
	}}
	svc := newTestToiletsService(repo, service.ValidationPolicyStrict)

	viewport := model.Viewport{
		Latitude:       1.3521,
		Longitude:      103.8198,
		LatitudeDelta:  10,
		LongitudeDelta: 10,
	}

	result, err := svc.GetClusters(ctx, viewport)
	require.NoError(t, err)
	require.Len(t, result.Clusters, 1)
	assert.Equal(t, 2, result.Clusters[0].Count)
	assert.Equal(t, 1, result.Skipped)
}

func TestToiletsService_SearchToilets(t *testing.T) {
	ctx := context.Background()
	repo := &fakeToiletsRepository{toilets: []model.Toilet{
		testToilet("far", 1.3700, 103.8500),
		testToilet("near", 1.3522, 103.8199),
	}}
	svc := newTestToiletsService(repo, service.ValidationPolicyStrict)

	t.Run("キーワード必須", func(t *testing.T) {
		_, err := svc.SearchToilets(ctx, "", nil)
		assert.Error(t, err)
	})

	t.Run("originがあれば距離順にソートされる", func(t *testing.T) {
		origin := model.Location{Latitude: 1.3521, Longitude: 103.8198}
		toilets, err := svc.SearchToilets(ctx, "トイレ", &origin)
		require.NoError(t, err)
		require.Len(t, toilets, 2)
		assert.Equal(t, "near", toilets[0].ID)
		assert.Equal(t, "far", toilets[1].ID)
	})
}

package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"Loopee-App/internal/domain/helper"
	"Loopee-App/internal/domain/model"
	"Loopee-App/internal/domain/repository"
	"Loopee-App/internal/domain/service"
)

const (
	// defaultNearbyRadiusMeters 周辺検索のデフォルト半径 (メートル)
	defaultNearbyRadiusMeters = 1000
	// defaultSearchLimit 名前検索の最大件数
	defaultSearchLimit = 20
)

// ToiletsService トイレ検索に関するビジネスロジックを提供するサービス
type ToiletsService interface {
	// GetNearbyToilets 現在地周辺のトイレ一覧を取得（キャッシュゲートで再取得を制御）
	GetNearbyToilets(ctx context.Context, current model.Location) ([]model.Toilet, error)

	// GetClusters ビューポート内のトイレをクラスタリングして取得
	GetClusters(ctx context.Context, viewport model.Viewport) (*model.ClusterResult, error)

	// GetToiletDetail トイレの詳細を取得
	GetToiletDetail(ctx context.Context, id string) (*model.Toilet, error)

	// SearchToilets キーワードでトイレを検索（originがあれば距離順にソート）
	SearchToilets(ctx context.Context, keyword string, origin *model.Location) ([]model.Toilet, error)
}

// toiletsServiceImpl ToiletsServiceの実装
// 周辺トイレの取得結果とフェッチ状態を保持するシングルライターのストアとして動作し、
// 進行中のフェッチがある場合は重複フェッチを行わずキャッシュを返す。
type toiletsServiceImpl struct {
	toiletsRepo    repository.ToiletsRepository
	gate           *service.ProximityCacheGate
	clusterService *service.ClusterService
	validator      *service.CoordinateValidator
	logger         *logrus.Logger

	mu       sync.Mutex
	cache    model.FetchCacheState
	cached   []model.Toilet
	inFlight bool
	now      func() time.Time
}

// NewToiletsService ToiletsServiceの新しいインスタンスを作成
func NewToiletsService(
	toiletsRepo repository.ToiletsRepository,
	gate *service.ProximityCacheGate,
	clusterService *service.ClusterService,
	validator *service.CoordinateValidator,
	logger *logrus.Logger,
) ToiletsService {
	return &toiletsServiceImpl{
		toiletsRepo:    toiletsRepo,
		gate:           gate,
		clusterService: clusterService,
		validator:      validator,
		logger:         logger,
		now:            time.Now,
	}
}

// GetNearbyToilets 現在地周辺のトイレ一覧を取得
// ゲートがfalseを返した場合はネットワークフェッチをスキップして前回結果を返す。
// フェッチ状態はフェッチ成功時のみ更新し、失敗時は変更しない。
func (s *toiletsServiceImpl) GetNearbyToilets(ctx context.Context, current model.Location) ([]model.Toilet, error) {
	s.mu.Lock()

	if s.inFlight {
		// フェッチ進行中: 重複フェッチは行わずキャッシュを返す
		cached := s.copyCached()
		s.mu.Unlock()
		s.logger.Debug("フェッチ進行中のためキャッシュを返却します")
		return cached, nil
	}

	if !s.gate.ShouldFetchNewData(s.cache.LastFetchLocation, s.cache.LastFetchTime, current) {
		cached := s.copyCached()
		s.mu.Unlock()
		return cached, nil
	}

	s.inFlight = true
	s.mu.Unlock()

	toilets, err := s.toiletsRepo.GetNearbyToilets(ctx, current.Latitude, current.Longitude, defaultNearbyRadiusMeters)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false

	if err != nil {
		// フェッチ失敗時はキャッシュ状態を更新しない
		return nil, fmt.Errorf("周辺トイレの取得失敗: %w", err)
	}

	valid := s.filterByPolicy(toilets)

	fetchedAt := s.now()
	s.cached = valid
	s.cache.LastFetchLocation = &model.Location{
		Latitude:  current.Latitude,
		Longitude: current.Longitude,
	}
	s.cache.LastFetchTime = &fetchedAt

	s.logger.Infof("✅ 周辺トイレを%d件取得しました (lat: %.4f, lng: %.4f)", len(valid), current.Latitude, current.Longitude)
	return s.copyCached(), nil
}

// GetClusters ビューポート内のトイレをクラスタリングして取得
func (s *toiletsServiceImpl) GetClusters(ctx context.Context, viewport model.Viewport) (*model.ClusterResult, error) {
	minLng, minLat, maxLng, maxLat := viewport.BoundingBox()

	toilets, err := s.toiletsRepo.GetByBoundingBox(ctx, minLng, minLat, maxLng, maxLat)
	if err != nil {
		return nil, fmt.Errorf("ビューポート内トイレの取得失敗: %w", err)
	}

	clusters, skipped := s.clusterService.ClusterToilets(toilets, viewport, 0)

	return &model.ClusterResult{
		Clusters: clusters,
		Skipped:  skipped,
	}, nil
}

// GetToiletDetail トイレの詳細を取得
func (s *toiletsServiceImpl) GetToiletDetail(ctx context.Context, id string) (*model.Toilet, error) {
	toilet, err := s.toiletsRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("トイレ詳細の取得失敗: %w", err)
	}
	return toilet, nil
}

// SearchToilets キーワードでトイレを検索
func (s *toiletsServiceImpl) SearchToilets(ctx context.Context, keyword string, origin *model.Location) ([]model.Toilet, error) {
	if keyword == "" {
		return nil, fmt.Errorf("検索キーワードは必須です")
	}

	toilets, err := s.toiletsRepo.SearchByName(ctx, keyword, defaultSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("トイレ検索の失敗: %w", err)
	}

	if origin != nil {
		helper.SortByDistanceFromLocation(origin.ToLatLng(), toilets)
	}

	return toilets, nil
}

// filterByPolicy 検証ポリシーに従って座標が不正な行を除外する
func (s *toiletsServiceImpl) filterByPolicy(toilets []model.Toilet) []model.Toilet {
	valid := make([]model.Toilet, 0, len(toilets))
	rejected := 0

	for _, t := range toilets {
		if t.Location == nil || len(t.Location.Coordinates) < 2 {
			rejected++
			continue
		}
		latLng := t.ToLatLng()
		if !s.validator.IsValid(latLng.Lat, latLng.Lng) {
			rejected++
			continue
		}
		valid = append(valid, t)
	}

	if rejected > 0 {
		s.logger.Warnf("⚠️ 座標が不正なトイレを%d件除外しました (ポリシー: %s)", rejected, s.validator.Policy())
	}

	return valid
}

// copyCached キャッシュ済み結果のディープコピーを返す（呼び出し側の変更から保護）
// ポインタフィールド（Location・PhotoURL）も複製し、返却後の変更がキャッシュに波及しないようにする。
func (s *toiletsServiceImpl) copyCached() []model.Toilet {
	cached := make([]model.Toilet, len(s.cached))
	for i, t := range s.cached {
		if t.Location != nil {
			location := *t.Location
			location.Coordinates = append([]float64(nil), t.Location.Coordinates...)
			t.Location = &location
		}
		if t.PhotoURL != nil {
			photoURL := *t.PhotoURL
			t.PhotoURL = &photoURL
		}
		t.Features = append([]string(nil), t.Features...)
		cached[i] = t
	}
	return cached
}

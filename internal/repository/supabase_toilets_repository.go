package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"Loopee-App/internal/domain/helper"
	"Loopee-App/internal/domain/model"
	"Loopee-App/internal/domain/repository"
	"Loopee-App/internal/infrastructure/database"
)

type SupabaseToiletsRepository struct {
	client *database.SupabaseClient
}

func NewSupabaseToiletsRepository(client *database.SupabaseClient) repository.ToiletsRepository {
	return &SupabaseToiletsRepository{
		client: client,
	}
}

func (r *SupabaseToiletsRepository) GetByID(ctx context.Context, id string) (*model.Toilet, error) {
	var toilets []model.Toilet
	data, count, err := r.client.GetClient().From("toilets").Select("*", "exact", false).Eq("id", id).Execute()
	if err != nil {
		return nil, fmt.Errorf("トイレデータの取得失敗: %w", err)
	}
	_ = count

	if err := json.Unmarshal([]byte(data), &toilets); err != nil {
		return nil, fmt.Errorf("トイレデータのJSONアンマーシャル失敗: %w", err)
	}

	if len(toilets) == 0 {
		return nil, fmt.Errorf("トイレ ID %s が見つかりません", id)
	}

	return &toilets[0], nil
}

func (r *SupabaseToiletsRepository) GetNearbyToilets(ctx context.Context, lat, lng float64, radiusMeters int) ([]model.Toilet, error) {
	// PostgREST経由ではST_DWithin相当の絞り込みができないため、
	// 取得後にHaversine距離でフィルタリングする（PostgreSQL直結クライアントはPostGISで検索する）
	var toilets []model.Toilet
	data, count, err := r.client.GetClient().From("toilets").Select("*", "exact", false).Execute()
	if err != nil {
		return nil, fmt.Errorf("周辺トイレデータの取得失敗: %w", err)
	}
	_ = count

	if err := json.Unmarshal([]byte(data), &toilets); err != nil {
		return nil, fmt.Errorf("トイレデータのJSONアンマーシャル失敗: %w", err)
	}

	origin := model.LatLng{Lat: lat, Lng: lng}
	nearby := helper.FilterWithinRadius(origin, toilets, float64(radiusMeters))
	helper.SortByDistanceFromLocation(origin, nearby)

	if len(nearby) > 50 {
		nearby = nearby[:50]
	}

	return nearby, nil
}

func (r *SupabaseToiletsRepository) GetByBoundingBox(ctx context.Context, minLng, minLat, maxLng, maxLat float64) ([]model.Toilet, error) {
	// 入力値の検証
	if minLng >= maxLng || minLat >= maxLat {
		return nil, fmt.Errorf("無効な境界ボックス: min値がmax値以上です")
	}
	if minLng < -180 || maxLng > 180 || minLat < -90 || maxLat > 90 {
		return nil, fmt.Errorf("座標値が有効範囲外です")
	}

	wktString := BoundingBoxWKT(minLng, minLat, maxLng, maxLat)

	// PostGIS ST_Intersects関数を使用して境界ボックス内のトイレを検索
	var toilets []model.Toilet
	data, count, err := r.client.GetClient().From("toilets").
		Select("*", "exact", false).
		Filter("location", "st_intersects", fmt.Sprintf("ST_GeomFromText('%s', 4326)", wktString)).
		Execute()

	if err != nil {
		return nil, fmt.Errorf("境界ボックス検索エラー: %w", err)
	}
	_ = count

	if err := json.Unmarshal([]byte(data), &toilets); err != nil {
		return nil, fmt.Errorf("トイレデータのJSONアンマーシャル失敗: %w", err)
	}

	return toilets, nil
}

func (r *SupabaseToiletsRepository) SearchByName(ctx context.Context, keyword string, limit int) ([]model.Toilet, error) {
	var toilets []model.Toilet
	data, count, err := r.client.GetClient().From("toilets").
		Select("*", "exact", false).
		Ilike("name", "%"+keyword+"%").
		Limit(limit, "").
		Execute()

	if err != nil {
		return nil, fmt.Errorf("トイレ名検索の失敗: %w", err)
	}
	_ = count

	if err := json.Unmarshal([]byte(data), &toilets); err != nil {
		return nil, fmt.Errorf("トイレデータのJSONアンマーシャル失敗: %w", err)
	}

	return toilets, nil
}

func (r *SupabaseToiletsRepository) Create(ctx context.Context, toilet *model.Toilet) error {
	// 地理情報を含むDB保存用の形式に変換
	toiletDB := ToiletToToiletDB(toilet)

	data, err := json.Marshal(toiletDB)
	if err != nil {
		return fmt.Errorf("トイレデータのJSONマーシャル失敗: %w", err)
	}

	_, _, err = r.client.GetClient().From("toilets").Insert(string(data), false, "", "", "").Execute()
	if err != nil {
		return fmt.Errorf("トイレデータの作成失敗: %w", err)
	}

	return nil
}

func (r *SupabaseToiletsRepository) UpdateRating(ctx context.Context, id string, rating float64, reviewCount int) error {
	update := map[string]interface{}{
		"rating":       rating,
		"review_count": reviewCount,
	}

	data, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("評価値データのJSONマーシャル失敗: %w", err)
	}

	_, _, err = r.client.GetClient().From("toilets").Update(string(data), "", "").Eq("id", id).Execute()
	if err != nil {
		return fmt.Errorf("評価値の更新失敗: %w", err)
	}

	return nil
}

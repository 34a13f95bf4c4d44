package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"Loopee-App/internal/domain/model"
	"Loopee-App/internal/domain/repository"
	"Loopee-App/internal/infrastructure/database"
)

type PostgresToiletsRepository struct {
	client *database.PostgreSQLClient
}

func NewPostgresToiletsRepository(client *database.PostgreSQLClient) repository.ToiletsRepository {
	return &PostgresToiletsRepository{
		client: client,
	}
}

// ToiletResult PostGIS関数の結果を受け取るための構造体
type ToiletResult struct {
	ID             string
	Name           string
	Location       string
	Floor          string
	Description    string
	Features       string
	Rating         float64
	ReviewCount    int
	PhotoURL       sql.NullString
	CreatedBy      string
	DistanceMeters float64
}

// ToToilet ToiletResultをmodel.Toiletに変換
func (tr *ToiletResult) ToToilet() (*model.Toilet, error) {
	var location model.Geometry
	if err := json.Unmarshal([]byte(tr.Location), &location); err != nil {
		return nil, fmt.Errorf("location JSONBパースエラー: %w", err)
	}

	var features []string
	if err := json.Unmarshal([]byte(tr.Features), &features); err != nil {
		return nil, fmt.Errorf("features JSONBパースエラー: %w", err)
	}

	toilet := &model.Toilet{
		ID:          tr.ID,
		Name:        tr.Name,
		Location:    &location,
		Floor:       tr.Floor,
		Description: tr.Description,
		Features:    features,
		Rating:      tr.Rating,
		ReviewCount: tr.ReviewCount,
		CreatedBy:   tr.CreatedBy,
	}

	if tr.PhotoURL.Valid {
		toilet.PhotoURL = &tr.PhotoURL.String
	}

	return toilet, nil
}

func (r *PostgresToiletsRepository) scanToilets(rows *sql.Rows, withDistance bool) ([]model.Toilet, error) {
	var toilets []model.Toilet
	for rows.Next() {
		var result ToiletResult
		var err error
		if withDistance {
			err = rows.Scan(&result.ID, &result.Name, &result.Location, &result.Floor,
				&result.Description, &result.Features, &result.Rating, &result.ReviewCount,
				&result.PhotoURL, &result.CreatedBy, &result.DistanceMeters)
		} else {
			err = rows.Scan(&result.ID, &result.Name, &result.Location, &result.Floor,
				&result.Description, &result.Features, &result.Rating, &result.ReviewCount,
				&result.PhotoURL, &result.CreatedBy)
		}
		if err != nil {
			return nil, fmt.Errorf("トイレデータスキャンエラー: %w", err)
		}

		toilet, err := result.ToToilet()
		if err != nil {
			return nil, err
		}
		toilets = append(toilets, *toilet)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("行イテレーション中のエラー: %w", err)
	}

	return toilets, nil
}

func (r *PostgresToiletsRepository) GetByID(ctx context.Context, id string) (*model.Toilet, error) {
	query := `
		SELECT t.id, t.name,
			ST_AsGeoJSON(t.location)::jsonb as location,
			t.floor, t.description, t.features, t.rating, t.review_count, t.photo_url, t.created_by
		FROM toilets t
		WHERE t.id = $1
	`

	row := r.client.DB.QueryRowContext(ctx, query, id)

	var result ToiletResult
	err := row.Scan(&result.ID, &result.Name, &result.Location, &result.Floor,
		&result.Description, &result.Features, &result.Rating, &result.ReviewCount,
		&result.PhotoURL, &result.CreatedBy)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("トイレ ID %s が見つかりません", id)
		}
		return nil, fmt.Errorf("トイレデータの取得失敗: %w", err)
	}

	return result.ToToilet()
}

func (r *PostgresToiletsRepository) GetNearbyToilets(ctx context.Context, lat, lng float64, radiusMeters int) ([]model.Toilet, error) {
	// PostGIS関数を使用した効率的な周辺検索
	query := `
		SELECT
			t.id, t.name,
			ST_AsGeoJSON(t.location)::jsonb as location,
			t.floor, t.description, t.features, t.rating, t.review_count, t.photo_url, t.created_by,
			ST_Distance(
				ST_GeogFromText('POINT(' || $2 || ' ' || $1 || ')'),
				t.location::geography
			) as distance_meters
		FROM toilets t
		WHERE ST_DWithin(
			ST_GeogFromText('POINT(' || $2 || ' ' || $1 || ')'),
			t.location::geography,
			$3
		)
		ORDER BY distance_meters
		LIMIT 50
	`

	rows, err := r.client.DB.QueryContext(ctx, query, lat, lng, radiusMeters)
	if err != nil {
		return nil, fmt.Errorf("周辺トイレ検索失敗: %w", err)
	}
	defer rows.Close()

	return r.scanToilets(rows, true)
}

func (r *PostgresToiletsRepository) GetByBoundingBox(ctx context.Context, minLng, minLat, maxLng, maxLat float64) ([]model.Toilet, error) {
	if minLng >= maxLng || minLat >= maxLat {
		return nil, fmt.Errorf("無効な境界ボックス: min値がmax値以上です")
	}
	if minLng < -180 || maxLng > 180 || minLat < -90 || maxLat > 90 {
		return nil, fmt.Errorf("座標値が有効範囲外です")
	}

	query := `
		SELECT
			t.id, t.name,
			ST_AsGeoJSON(t.location)::jsonb as location,
			t.floor, t.description, t.features, t.rating, t.review_count, t.photo_url, t.created_by
		FROM toilets t
		WHERE t.location && ST_MakeEnvelope($1, $2, $3, $4, 4326)
		LIMIT 500
	`

	rows, err := r.client.DB.QueryContext(ctx, query, minLng, minLat, maxLng, maxLat)
	if err != nil {
		return nil, fmt.Errorf("境界ボックス検索失敗: %w", err)
	}
	defer rows.Close()

	return r.scanToilets(rows, false)
}

func (r *PostgresToiletsRepository) SearchByName(ctx context.Context, keyword string, limit int) ([]model.Toilet, error) {
	query := `
		SELECT
			t.id, t.name,
			ST_AsGeoJSON(t.location)::jsonb as location,
			t.floor, t.description, t.features, t.rating, t.review_count, t.photo_url, t.created_by
		FROM toilets t
		WHERE t.name ILIKE $1
		ORDER BY t.rating DESC
		LIMIT $2
	`

	rows, err := r.client.DB.QueryContext(ctx, query, "%"+keyword+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("トイレ名検索失敗: %w", err)
	}
	defer rows.Close()

	return r.scanToilets(rows, false)
}

func (r *PostgresToiletsRepository) Create(ctx context.Context, toilet *model.Toilet) error {
	locationJSON, err := json.Marshal(toilet.Location)
	if err != nil {
		return fmt.Errorf("locationのJSONマーシャル失敗: %w", err)
	}

	featuresJSON, err := json.Marshal(toilet.Features)
	if err != nil {
		return fmt.Errorf("featuresのJSONマーシャル失敗: %w", err)
	}

	var photoURL sql.NullString
	if toilet.PhotoURL != nil {
		photoURL = sql.NullString{String: *toilet.PhotoURL, Valid: true}
	}

	query := `
		INSERT INTO toilets (id, name, location, floor, description, features, rating, review_count, photo_url, created_by)
		VALUES ($1, $2, ST_SetSRID(ST_GeomFromGeoJSON($3), 4326), $4, $5, $6::jsonb, $7, $8, $9, $10)
	`

	_, err = r.client.DB.ExecContext(ctx, query,
		toilet.ID, toilet.Name, string(locationJSON), toilet.Floor, toilet.Description,
		string(featuresJSON), toilet.Rating, toilet.ReviewCount, photoURL, toilet.CreatedBy)
	if err != nil {
		return fmt.Errorf("トイレデータの作成失敗: %w", err)
	}

	return nil
}

func (r *PostgresToiletsRepository) UpdateRating(ctx context.Context, id string, rating float64, reviewCount int) error {
	query := `UPDATE toilets SET rating = $2, review_count = $3 WHERE id = $1`

	result, err := r.client.DB.ExecContext(ctx, query, id, rating, reviewCount)
	if err != nil {
		return fmt.Errorf("評価値の更新失敗: %w", err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("トイレ ID %s が見つかりません", id)
	}

	return nil
}

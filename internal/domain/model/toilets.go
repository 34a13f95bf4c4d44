package model

import "time"

// LatLng 緯度経度を表す基本的な型（距離計算などで使用）
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Location struct {
	Latitude  float64 `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"required,min=-180,max=180"`
}

// ToLatLng Location を LatLng 型に変換
func (l *Location) ToLatLng() LatLng {
	return LatLng{
		Lat: l.Latitude,
		Lng: l.Longitude,
	}
}

// ToGeometry Location を PostGIS GEOMETRY 型に変換
func (l *Location) ToGeometry() *Geometry {
	return &Geometry{
		Type:        "Point",
		Coordinates: []float64{l.Longitude, l.Latitude},
	}
}

// FromGeometry PostGIS GEOMETRY 型から Location に変換
func (l *Location) FromGeometry(g *Geometry) {
	if g != nil && len(g.Coordinates) >= 2 {
		l.Longitude = g.Coordinates[0]
		l.Latitude = g.Coordinates[1]
	}
}

// Geometry PostGIS GEOMETRY型に対応する構造体
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"` // [longitude, latitude]
}

// Toilet 公共トイレのスポットを表すモデル
type Toilet struct {
	ID          string    `json:"id" db:"id"`                         // ユニークなトイレID
	Name        string    `json:"name" db:"name"`                     // 施設名（例: "○○モール 3F"）
	Location    *Geometry `json:"location" db:"location"`             // 位置情報（PostGIS GEOMETRY型）
	Floor       string    `json:"floor" db:"floor"`                   // 階数表記
	Description string    `json:"description" db:"description"`       // 補足説明
	Features    []string  `json:"features" db:"features"`             // 設備タグ（複数対応）
	Rating      float64   `json:"rating" db:"rating"`                 // 評価値（レビュー平均）
	ReviewCount int       `json:"review_count" db:"review_count"`     // レビュー件数
	PhotoURL    *string   `json:"photo_url,omitempty" db:"photo_url"` // 写真URL（NULLABLE）
	CreatedBy   string    `json:"created_by" db:"created_by"`         // 投稿ユーザーID
	CreatedAt   time.Time `json:"created_at" db:"created_at"`         // 投稿日時
}

// ToLatLng トイレの位置情報をLatLng型に変換
func (t *Toilet) ToLatLng() LatLng {
	if t.Location != nil && len(t.Location.Coordinates) >= 2 {
		return LatLng{
			Lat: t.Location.Coordinates[1], // latitude
			Lng: t.Location.Coordinates[0], // longitude
		}
	}
	return LatLng{}
}

// HasFeature 指定された設備タグを持つかチェック
func (t *Toilet) HasFeature(feature string) bool {
	for _, f := range t.Features {
		if f == feature {
			return true
		}
	}
	return false
}

// GetPhotoURL 写真URLが存在する場合は値を、存在しない場合は空文字列を返す
func (t *Toilet) GetPhotoURL() string {
	if t.PhotoURL != nil {
		return *t.PhotoURL
	}
	return ""
}

// SetPhotoURL 写真URLを設定する（空文字列の場合はnilのまま保持）
func (t *Toilet) SetPhotoURL(url string) {
	if url != "" {
		t.PhotoURL = &url
	}
}

// Viewport マップの表示領域（中心座標と緯度・経度の表示幅）
type Viewport struct {
	Latitude       float64 `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude      float64 `json:"longitude" validate:"required,min=-180,max=180"`
	LatitudeDelta  float64 `json:"latitude_delta" validate:"required,gt=0"`
	LongitudeDelta float64 `json:"longitude_delta" validate:"required,gt=0"`
}

// BoundingBox ビューポートから境界ボックス (minLng, minLat, maxLng, maxLat) を計算
func (v *Viewport) BoundingBox() (float64, float64, float64, float64) {
	minLng := v.Longitude - v.LongitudeDelta/2
	minLat := v.Latitude - v.LatitudeDelta/2
	maxLng := v.Longitude + v.LongitudeDelta/2
	maxLat := v.Latitude + v.LatitudeDelta/2
	return minLng, minLat, maxLng, maxLat
}

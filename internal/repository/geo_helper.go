package repository

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"

	"Loopee-App/internal/domain/model"
)

// GeoPoint PostGIS POINT 型の JSON 表現
type GeoPoint struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// LocationToGeoPoint model.Location を PostGIS POINT 形式に変換
func LocationToGeoPoint(location *model.Location) *GeoPoint {
	if location == nil {
		return nil
	}

	point := orb.Point{location.Longitude, location.Latitude}

	return &GeoPoint{
		Type:        "Point",
		Coordinates: []float64{point.Lon(), point.Lat()},
	}
}

// GeoPointToLocation PostGIS POINT を model.Location に変換
func GeoPointToLocation(geoPoint *GeoPoint) *model.Location {
	if geoPoint == nil || len(geoPoint.Coordinates) < 2 {
		return nil
	}

	point := orb.Point{geoPoint.Coordinates[0], geoPoint.Coordinates[1]}

	return &model.Location{
		Latitude:  point.Lat(),
		Longitude: point.Lon(),
	}
}

// BoundingBoxWKT 境界ボックスをPostGIS検索用のWKT文字列に変換
func BoundingBoxWKT(minLng, minLat, maxLng, maxLat float64) string {
	bound := orb.Bound{
		Min: orb.Point{minLng, minLat},
		Max: orb.Point{maxLng, maxLat},
	}

	polygon := bound.ToPolygon()
	return wkt.MarshalString(polygon)
}

// ToiletDB Toilet を DB 保存用の構造体に変換
type ToiletDB struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Location    *GeoPoint `json:"location"`
	Floor       string    `json:"floor"`
	Description string    `json:"description"`
	Features    []string  `json:"features"`
	Rating      float64   `json:"rating"`
	ReviewCount int       `json:"review_count"`
	PhotoURL    *string   `json:"photo_url,omitempty"`
	CreatedBy   string    `json:"created_by"`
}

// ToiletToToiletDB model.Toilet を DB 保存用に変換
func ToiletToToiletDB(toilet *model.Toilet) *ToiletDB {
	var location *GeoPoint
	if toilet.Location != nil && len(toilet.Location.Coordinates) >= 2 {
		location = &GeoPoint{
			Type:        "Point",
			Coordinates: toilet.Location.Coordinates,
		}
	}

	return &ToiletDB{
		ID:          toilet.ID,
		Name:        toilet.Name,
		Location:    location,
		Floor:       toilet.Floor,
		Description: toilet.Description,
		Features:    toilet.Features,
		Rating:      toilet.Rating,
		ReviewCount: toilet.ReviewCount,
		PhotoURL:    toilet.PhotoURL,
		CreatedBy:   toilet.CreatedBy,
	}
}

package helper

import (
	"math"
	"sort"

	"Loopee-App/internal/domain/model"
)

const earthRadiusMeters = 6371000.0

// HaversineDistance は2地点間の大円距離を計算する (メートル)
func HaversineDistance(p1, p2 model.LatLng) float64 {
	lat1 := p1.Lat * math.Pi / 180
	lng1 := p1.Lng * math.Pi / 180
	lat2 := p2.Lat * math.Pi / 180
	lng2 := p2.Lng * math.Pi / 180
	dLat := lat2 - lat1
	dLng := lng2 - lng1
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMeters * c
}

// HaversineDistanceToilet は2つのトイレ間の距離を計算する (メートル)
func HaversineDistanceToilet(t1, t2 *model.Toilet) float64 {
	return HaversineDistance(t1.ToLatLng(), t2.ToLatLng())
}

// SortByDistanceFromLocation は基準座標からの距離でトイレスライスをソートする
func SortByDistanceFromLocation(origin model.LatLng, targets []model.Toilet) {
	sort.Slice(targets, func(i, j int) bool {
		distI := HaversineDistance(origin, targets[i].ToLatLng())
		distJ := HaversineDistance(origin, targets[j].ToLatLng())
		return distI < distJ
	})
}

// FilterByFeatures は指定された設備タグを全て持つトイレのみを抽出する
func FilterByFeatures(toilets []model.Toilet, features []string) []model.Toilet {
	if len(features) == 0 {
		return toilets
	}
	var filtered []model.Toilet
	for _, t := range toilets {
		hasAll := true
		for _, f := range features {
			if !t.HasFeature(f) {
				hasAll = false
				break
			}
		}
		if hasAll {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// FilterWithinRadius は基準座標から指定半径内のトイレのみを抽出する
func FilterWithinRadius(origin model.LatLng, toilets []model.Toilet, radiusMeters float64) []model.Toilet {
	var filtered []model.Toilet
	for _, t := range toilets {
		if HaversineDistance(origin, t.ToLatLng()) <= radiusMeters {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// FindHighestRated は最も評価の高いトイレを見つける
func FindHighestRated(toilets []model.Toilet) *model.Toilet {
	if len(toilets) == 0 {
		return nil
	}
	highest := &toilets[0]
	for i := range toilets {
		if toilets[i].Rating > highest.Rating {
			highest = &toilets[i]
		}
	}
	return highest
}

package service

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"Loopee-App/internal/domain/model"
)

// ZoomLevel はビューポートの経度幅からクラスタリング用のズーム値を導出する
// タイルレベルへの厳密な変換ではなく、量子化の粒度を決めるためのヒューリスティック。
func ZoomLevel(longitudeDelta float64) float64 {
	return math.Round(math.Log2(360/longitudeDelta)) * 0.15
}

// GeocellKey は座標をズーム値で量子化したジオセルキーを返す
// 同一キーを持つ2点は同じクラスターにマージされる。
func GeocellKey(lat, lng, zoom float64) string {
	scale := math.Pow(10, zoom)
	latInt := int(math.Floor(lat * scale))
	lngInt := int(math.Floor(lng * scale))
	return fmt.Sprintf("%d-%d-%g", latInt, lngInt, zoom)
}

// ClusterService はマップ描画用にトイレマーカーをジオセル単位でクラスタリングする
// 各呼び出しはゼロから再計算するため、ビューポート変更のたびに再実行しても安全。
type ClusterService struct {
	logger *logrus.Logger
}

// NewClusterService 新しいClusterServiceインスタンスを作成
func NewClusterService(logger *logrus.Logger) *ClusterService {
	return &ClusterService{
		logger: logger,
	}
}

// clusterAccumulator クラスターの重心を逐次計算するためのアキュムレーター
// 合計値と件数を保持することで、追加のたびの平均再計算をO(1)にする。
type clusterAccumulator struct {
	cluster *model.Cluster
	sumLat  float64
	sumLng  float64
}

// ClusterToilets はトイレ一覧をビューポートに応じたクラスターに分割する
// 入力順に走査し、未知のジオセルキーなら新規クラスターを作成、既知なら
// メンバーを追加して重心を全メンバーの算術平均に更新する。
// 座標が不正（欠損・非有限・範囲外）な点はスキップし、件数を第2戻り値で返す。
// radiusHint は将来のピクセル半径ベースのマージ用で、現状のアルゴリズムでは未使用。
func (s *ClusterService) ClusterToilets(toilets []model.Toilet, viewport model.Viewport, radiusHint float64) ([]*model.Cluster, int) {
	_ = radiusHint // 現状は量子化のみでマージしており、半径ヒントは使用しない

	zoom := ZoomLevel(viewport.LongitudeDelta)
	cells := make(map[string]*clusterAccumulator)
	var order []*clusterAccumulator
	skipped := 0

	for _, toilet := range toilets {
		if !isValidClusterPoint(&toilet) {
			skipped++
			s.logger.Debugf("座標が不正なトイレをスキップします (id: %s)", toilet.ID)
			continue
		}

		latLng := toilet.ToLatLng()
		key := GeocellKey(latLng.Lat, latLng.Lng, zoom)

		acc, ok := cells[key]
		if !ok {
			// 未知のジオセル: その点を種としてクラスターを新規作成
			acc = &clusterAccumulator{
				cluster: &model.Cluster{
					ID: key,
					Centroid: model.Location{
						Latitude:  latLng.Lat,
						Longitude: latLng.Lng,
					},
					Toilets: []model.Toilet{toilet},
					Count:   1,
				},
				sumLat: latLng.Lat,
				sumLng: latLng.Lng,
			}
			cells[key] = acc
			order = append(order, acc)
			continue
		}

		// 既知のジオセル: メンバーを追加し重心を全メンバーの平均に更新
		acc.cluster.Toilets = append(acc.cluster.Toilets, toilet)
		acc.cluster.Count++
		acc.sumLat += latLng.Lat
		acc.sumLng += latLng.Lng
		acc.cluster.Centroid = model.Location{
			Latitude:  acc.sumLat / float64(acc.cluster.Count),
			Longitude: acc.sumLng / float64(acc.cluster.Count),
		}
	}

	clusters := make([]*model.Cluster, 0, len(order))
	for _, acc := range order {
		clusters = append(clusters, acc.cluster)
	}

	if skipped > 0 {
		s.logger.Warnf("⚠️ クラスタリングで%d件の不正座標をスキップしました", skipped)
	}

	return clusters, skipped
}

// isValidClusterPoint はクラスタリング可能な座標を持つかチェックする
func isValidClusterPoint(t *model.Toilet) bool {
	if t.Location == nil || len(t.Location.Coordinates) < 2 {
		return false
	}
	lng := t.Location.Coordinates[0]
	lat := t.Location.Coordinates[1]
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

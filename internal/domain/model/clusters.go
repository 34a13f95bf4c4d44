package model

// Cluster ジオセル単位でまとめたマップマーカーのクラスター
type Cluster struct {
	ID       string   `json:"id"`       // ジオセルキー（"{latInt}-{lngInt}-{zoom}"）
	Centroid Location `json:"centroid"` // メンバー座標の算術平均
	Toilets  []Toilet `json:"toilets"`  // クラスターに属するトイレ（追加順）
	Count    int      `json:"count"`    // メンバー数
}

// ClusterResult クラスタリング結果とスキップされた不正座標の件数
type ClusterResult struct {
	Clusters []*Cluster `json:"clusters"`
	Skipped  int        `json:"skipped"` // 座標が不正で除外された件数
}

package model

import "time"

// FetchCacheState 周辺トイレ取得の最終フェッチ状態
// 最初のフェッチ成功時に設定され、以降のフェッチ成功のたびに上書きされる。
// フェッチ失敗時やキャッシュヒット時には変更されない。
type FetchCacheState struct {
	LastFetchLocation *Location  `json:"last_fetch_location"`
	LastFetchTime     *time.Time `json:"last_fetch_time"`
}

package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"Loopee-App/internal/domain/model"
	"Loopee-App/internal/infrastructure/logging"
)

func newTestGate(now time.Time) *ProximityCacheGate {
	gate := NewProximityCacheGate(logging.NewTestLogger())
	gate.now = func() time.Time { return now }
	return gate
}

func TestProximityCacheGate_ShouldFetchNewData(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	singapore := model.Location{Latitude: 1.3521, Longitude: 103.8198}

	t.Run("初回起動時（キャッシュ未初期化）は必ず取得する", func(t *testing.T) {
		gate := newTestGate(base)

		assert.True(t, gate.ShouldFetchNewData(nil, nil, singapore))
		assert.True(t, gate.ShouldFetchNewData(&singapore, nil, singapore))
		assert.True(t, gate.ShouldFetchNewData(nil, &base, singapore))
	})

	t.Run("キャッシュ経過時間が5分を超えたら再取得する", func(t *testing.T) {
		fetchedAt := base
		gate := newTestGate(base.Add(5*time.Minute + time.Millisecond))

		assert.True(t, gate.ShouldFetchNewData(&singapore, &fetchedAt, singapore))
	})

	t.Run("キャッシュ経過時間がちょうど5分以内なら取得しない", func(t *testing.T) {
		fetchedAt := base

		gate := newTestGate(base.Add(5 * time.Minute))
		assert.False(t, gate.ShouldFetchNewData(&singapore, &fetchedAt, singapore))

		gate = newTestGate(base.Add(5*time.Minute - time.Millisecond))
		assert.False(t, gate.ShouldFetchNewData(&singapore, &fetchedAt, singapore))
	})

	t.Run("100mを超えて移動したら再取得する", func(t *testing.T) {
		fetchedAt := base
		gate := newTestGate(base.Add(time.Minute))

		// 約1.4km移動（シンガポール市内）
		moved := model.Location{Latitude: 1.3600, Longitude: 103.8300}
		assert.True(t, gate.ShouldFetchNewData(&singapore, &fetchedAt, moved))
	})

	t.Run("100m以内の移動ならキャッシュを使う", func(t *testing.T) {
		fetchedAt := base
		gate := newTestGate(base.Add(time.Minute))

		// 緯度0.0001度 ≒ 11m の移動
		nearby := model.Location{Latitude: 1.3522, Longitude: 103.8198}
		assert.False(t, gate.ShouldFetchNewData(&singapore, &fetchedAt, nearby))
	})

	t.Run("同一地点・キャッシュ有効期間内なら取得しない", func(t *testing.T) {
		fetchedAt := base
		gate := newTestGate(base.Add(3 * time.Minute))

		assert.False(t, gate.ShouldFetchNewData(&singapore, &fetchedAt, singapore))
	})

	t.Run("期限切れと近距離移動が同時の場合は期限切れ判定が優先される", func(t *testing.T) {
		fetchedAt := base
		gate := newTestGate(base.Add(10 * time.Minute))

		nearby := model.Location{Latitude: 1.3522, Longitude: 103.8198}
		assert.True(t, gate.ShouldFetchNewData(&singapore, &fetchedAt, nearby))
	})
}

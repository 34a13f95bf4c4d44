package service

import (
	"time"

	"github.com/sirupsen/logrus"

	"Loopee-App/internal/domain/helper"
	"Loopee-App/internal/domain/model"
)

const (
	// cacheMaxAge キャッシュの有効期間。これを超えたら再取得する
	cacheMaxAge = 5 * time.Minute
	// cacheMaxDistanceMeters 前回取得地点からの許容移動距離 (メートル)
	cacheMaxDistanceMeters = 100.0
)

// ProximityCacheGate は周辺トイレの再取得が必要かを判定するゲート
// 判定のみを行い、キャッシュ状態の更新は呼び出し側（ストア）の責務。
type ProximityCacheGate struct {
	logger *logrus.Logger
	now    func() time.Time
}

// NewProximityCacheGate 新しいProximityCacheGateインスタンスを作成
func NewProximityCacheGate(logger *logrus.Logger) *ProximityCacheGate {
	return &ProximityCacheGate{
		logger: logger,
		now:    time.Now,
	}
}

// ShouldFetchNewData はキャッシュ状態と現在地から再取得の要否を判定する
// 以下の順序で評価し、最初に一致した条件で確定する:
//  1. 未フェッチ（lastLocation または lastTime が nil）→ 再取得
//  2. キャッシュ経過時間が5分を超過 → 再取得
//  3. 前回取得地点から100mを超えて移動 → 再取得
//  4. それ以外 → キャッシュ有効
func (g *ProximityCacheGate) ShouldFetchNewData(lastLocation *model.Location, lastTime *time.Time, current model.Location) bool {
	if lastLocation == nil || lastTime == nil {
		g.logger.Debug("キャッシュ未初期化のため新規取得します")
		return true
	}

	cacheAge := g.now().Sub(*lastTime)
	if cacheAge > cacheMaxAge {
		g.logger.Debugf("キャッシュ期限切れのため再取得します (経過時間: %v)", cacheAge)
		return true
	}

	distanceMoved := helper.HaversineDistance(lastLocation.ToLatLng(), current.ToLatLng())
	if distanceMoved > cacheMaxDistanceMeters {
		g.logger.Debugf("移動距離が閾値を超えたため再取得します (移動: %.1fm)", distanceMoved)
		return true
	}

	g.logger.Debugf("キャッシュ有効のため再取得をスキップします (経過時間: %v, 移動: %.1fm)", cacheAge, distanceMoved)
	return false
}

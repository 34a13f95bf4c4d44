package test

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"Loopee-App/internal/domain/model"
	"Loopee-App/internal/domain/repository"
	"Loopee-App/internal/infrastructure/database"
	"Loopee-App/internal/infrastructure/logging"
	repoimpl "Loopee-App/internal/repository"
)

// setupTestEnvironment .envファイルから接続情報を読み込む
func setupTestEnvironment() error {
	// プロジェクトルートの.envを読み込む（存在しない場合はシステム環境変数を使用）
	_ = godotenv.Load("../.env")

	if os.Getenv("SUPABASE_URL") == "" || os.Getenv("SUPABASE_ANON_KEY") == "" {
		return fmt.Errorf("SUPABASE_URLとSUPABASE_ANON_KEYが設定されていません")
	}
	return nil
}

// setupTestToiletsRepository は統合テスト用のトイレリポジトリをセットアップする（リトライ付き）
func setupTestToiletsRepository() (repository.ToiletsRepository, func(), error) {
	if err := setupTestEnvironment(); err != nil {
		return nil, nil, err
	}

	// DB直結パスワードがあればPostGIS直接検索を使う
	if os.Getenv("SUPABASE_DB_PASSWORD") != "" {
		postgresClient, err := database.NewPostgreSQLClientWithRetry(5, 1*time.Second)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() { postgresClient.Close() }
		return repoimpl.NewPostgresToiletsRepository(postgresClient), cleanup, nil
	}

	supabaseClient, err := database.NewSupabaseClient()
	if err != nil {
		return nil, nil, err
	}
	return repoimpl.NewSupabaseToiletsRepository(supabaseClient), func() {}, nil
}

// setupTestSupabaseClient 統合テスト用のSupabaseクライアントをセットアップする
func setupTestSupabaseClient() (*database.SupabaseClient, error) {
	if err := setupTestEnvironment(); err != nil {
		return nil, err
	}
	return database.NewSupabaseClient()
}

// testLogger 統合テスト用のロガー（警告以上のみ出力）
var testLogger = logging.NewTestLogger()

// singaporeCityCenter シンガポール中心部のテスト座標
var singaporeCityCenter = model.Location{
	Latitude:  1.3521,
	Longitude: 103.8198,
}

// isWithinMeters 2点間の距離が指定メートル以内かチェックする
func isWithinMeters(a, b model.LatLng, meters float64) bool {
	// 統合テストでは厳密な距離計算ではなく大雑把な範囲チェックで十分
	const metersPerDegree = 111320.0
	dLat := (a.Lat - b.Lat) * metersPerDegree
	dLng := (a.Lng - b.Lng) * metersPerDegree
	return dLat*dLat+dLng*dLng <= meters*meters
}

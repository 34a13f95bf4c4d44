package main

import (
	"context"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"Loopee-App/internal/application"
	"Loopee-App/internal/domain/service"
	"Loopee-App/internal/handler"
	"Loopee-App/internal/handler/middleware"
	"Loopee-App/internal/infrastructure/analytics"
	"Loopee-App/internal/infrastructure/database"
	"Loopee-App/internal/infrastructure/firestore"
	"Loopee-App/internal/infrastructure/logging"
	"Loopee-App/internal/repository"
	"Loopee-App/internal/usecase"
)

func main() {
	logger := logging.NewLogger()

	if err := godotenv.Load(); err != nil {
		logger.Warn("⚠️ .envファイルが見つかりません。システム環境変数を使用します")
	}

	// Supabaseクライアントの初期化
	logger.Info("Initializing Supabase client...")
	supabaseClient, err := database.NewSupabaseClient()
	if err != nil {
		logger.Fatalf("Supabaseクライアント初期化失敗: %v", err)
	}
	if err := supabaseClient.HealthCheck(); err != nil {
		logger.Fatalf("Supabaseヘルスチェック失敗: %v", err)
	}
	logger.Info("✅ Supabase connection successful!")

	// トイレリポジトリの選択
	// DB直結パスワードが設定されている場合はPostGISを直接使用する高速な検索を使う
	toiletsRepo := repository.NewSupabaseToiletsRepository(supabaseClient)
	if os.Getenv("SUPABASE_DB_PASSWORD") != "" {
		postgresClient, err := database.NewPostgreSQLClient()
		if err != nil {
			logger.Warnf("⚠️ PostgreSQL直接接続に失敗したためSupabase経由で検索します: %v", err)
		} else {
			logger.Info("✅ PostgreSQL direct connection established")
			toiletsRepo = repository.NewPostgresToiletsRepository(postgresClient)
		}
	}

	reviewsRepo := repository.NewSupabaseReviewsRepository(supabaseClient)
	usersRepo := repository.NewSupabaseUsersRepository(supabaseClient)

	// ドメインサービスの初期化
	gate := service.NewProximityCacheGate(logger)
	clusterService := service.NewClusterService(logger)
	validator := service.NewCoordinateValidator(service.ParseValidationPolicy(os.Getenv("LOOPEE_VALIDATION_POLICY")))

	// アプリケーションサービスの初期化
	toiletsService := application.NewToiletsService(toiletsRepo, gate, clusterService, validator, logger)
	reviewsService := application.NewReviewsService(reviewsRepo, toiletsRepo, logger)
	usersService := application.NewUsersService(usersRepo, logger)

	// アナリティクスクライアント（APIキー未設定時はno-op）
	analyticsClient := analytics.NewClient(logger)
	defer analyticsClient.Close()

	// ハンドラーの初期化
	toiletsHandler := handler.NewToiletsHandler(toiletsService, analyticsClient)
	reviewsHandler := handler.NewReviewsHandler(reviewsService)
	usersHandler := handler.NewUsersHandler(usersService)

	// ルーターのセットアップ
	engine := gin.Default()
	authRequired := middleware.SupabaseAuth(supabaseClient, logger)

	engine.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Loopee-App",
		})
	})

	engine.GET("/toilets/nearby", toiletsHandler.GetNearbyToilets)
	engine.GET("/toilets/clusters", toiletsHandler.GetClusters)
	engine.GET("/toilets/search", toiletsHandler.SearchToilets)
	engine.GET("/toilets/:id", toiletsHandler.GetToiletDetail)
	engine.GET("/toilets/:id/reviews", reviewsHandler.GetReviews)
	engine.POST("/toilets/:id/reviews", authRequired, reviewsHandler.CreateReview)

	engine.GET("/users/me/profile", authRequired, usersHandler.GetProfile)
	engine.PUT("/users/me/profile", authRequired, usersHandler.UpdateProfile)

	// 投稿フローはFirestoreが必要なため、プロジェクトID設定時のみ有効化する
	projectID := os.Getenv("FIRESTORE_PROJECT_ID")
	if projectID != "" {
		firestoreClient, err := firestore.NewFirestoreClient(context.Background(), projectID, logger)
		if err != nil {
			logger.Fatalf("Firestoreクライアント初期化失敗: %v", err)
		}
		defer firestoreClient.Close()

		draftsRepo := repository.NewFirestoreContributionDraftRepository(firestoreClient.GetClient(), logger)
		contributionUseCase := usecase.NewContributionUseCase(draftsRepo, toiletsRepo, logger)
		contributionsHandler := handler.NewContributionsHandler(contributionUseCase, analyticsClient)

		engine.POST("/contributions", authRequired, contributionsHandler.CreateDraft)
		engine.PUT("/contributions/:id/steps/:step", authRequired, contributionsHandler.UpdateStep)
		engine.POST("/contributions/:id/submit", authRequired, contributionsHandler.Submit)
	} else {
		logger.Warn("⚠️ FIRESTORE_PROJECT_ID未設定のため投稿機能を無効化します")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Infof("🚽 Loopee-App server starting on :%s...", port)
	if err := engine.Run(":" + port); err != nil {
		logger.Fatalf("サーバーの起動に失敗: %v", err)
	}
}

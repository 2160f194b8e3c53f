package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-shop-reservation/internal/api"
	"github.com/sanosuguru/go-shop-reservation/internal/api/handler"
	apimiddleware "github.com/sanosuguru/go-shop-reservation/internal/api/middleware"
	"github.com/sanosuguru/go-shop-reservation/internal/application"
	"github.com/sanosuguru/go-shop-reservation/internal/config"
	"github.com/sanosuguru/go-shop-reservation/internal/infrastructure/postgres"
	redisinfra "github.com/sanosuguru/go-shop-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-shop-reservation/internal/pkg/clock"
	"github.com/sanosuguru/go-shop-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-shop-reservation/internal/pkg/metrics"
	"github.com/sanosuguru/go-shop-reservation/internal/worker"
)

func main() {
	cfg := config.Load()
	defer logger.Sync()

	// PostgreSQL
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("データベース接続に失敗", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.RunMigrations(db.DB, "file://migrations"); err != nil {
		logger.Fatal("マイグレーションに失敗", zap.Error(err))
	}

	// Redis
	redisClient := redisinfra.NewClient(&cfg.Redis)
	defer redisClient.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisinfra.Ping(ctx, redisClient); err != nil {
		cancel()
		logger.Fatal("Redis接続に失敗", zap.Error(err))
	}
	cancel()

	m := metrics.Init()

	// リポジトリとサービス
	txManager := postgres.NewTxManager(db)
	reservationRepo := postgres.NewReservationRepository(db)
	shopRepo := postgres.NewShopRepository(db)
	userRepo := postgres.NewUserRepository(db)
	lockManager := redisinfra.NewLockManager(redisClient)

	reservationService := application.NewReservationService(
		txManager, reservationRepo, shopRepo, userRepo,
		lockManager, clock.System{}, cfg.Lock, m,
	)
	shopService := application.NewShopService(shopRepo)

	// 夜間スイープワーカー
	sweeper := worker.NewSweepWorker(reservationService, &cfg.Redis, cfg.Sweep)
	if err := sweeper.Start(); err != nil {
		logger.Fatal("スイープワーカーの起動に失敗", zap.Error(err))
	}
	defer sweeper.Stop()

	// HTTPサーバー
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	apimiddleware.SetupMiddleware(e)
	e.Use(apimiddleware.PrometheusMiddleware(m))

	registerRoutes(e, reservationService, shopService)

	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("シャットダウン開始")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("サーバーシャットダウンエラー", zap.Error(err))
	}

	logger.Info("シャットダウン完了")
}

func registerRoutes(e *echo.Echo, rs *application.ReservationService, ss *application.ShopService) {
	healthHandler := handler.NewHealthHandler()
	reservationHandler := handler.NewReservationHandler(rs)
	partnerHandler := handler.NewPartnerHandler(rs)
	shopHandler := handler.NewShopHandler(ss)

	e.GET("/health", healthHandler.Check)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), apimiddleware.MetricsBasicAuth())

	v1 := e.Group("/api/v1")

	// 利用者向け
	v1.POST("/reservations", reservationHandler.Create)
	v1.GET("/reservations", reservationHandler.List)
	v1.GET("/reservations/:id", reservationHandler.GetByID)
	v1.DELETE("/reservations/:id", reservationHandler.Cancel)
	v1.GET("/shops/:id", shopHandler.GetByID)

	// パートナー向け
	partner := v1.Group("/partner")
	partner.POST("/shops", shopHandler.Create)
	partner.GET("/shops", shopHandler.List)
	partner.PUT("/shops/:id", shopHandler.Update)
	partner.DELETE("/shops/:id", shopHandler.Delete)
	partner.GET("/shops/:shop_id/reservations", partnerHandler.ListByDay)
	partner.GET("/shops/:shop_id/visits/lookup", partnerHandler.Lookup)
	partner.POST("/reservations/:id/confirm", partnerHandler.Confirm)
	partner.POST("/reservations/:id/reject", partnerHandler.Reject)
	partner.POST("/reservations/:id/visit", partnerHandler.Visit)
}

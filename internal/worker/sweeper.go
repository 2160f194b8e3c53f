package worker

import (
	"context"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-shop-reservation/internal/application"
	"github.com/sanosuguru/go-shop-reservation/internal/config"
	"github.com/sanosuguru/go-shop-reservation/internal/pkg/logger"
)

// TypeReservationSweep は深夜バッチの整合タスク種別
const TypeReservationSweep = "reservation:sweep"

// StaleSweeper は取り残された予約を一括で終端状態へ送るインターフェース
type StaleSweeper interface {
	SweepStale(ctx context.Context) (application.SweepResult, error)
}

// SweepWorker は asynq のスケジューラとサーバーで日次スイープを駆動する
type SweepWorker struct {
	service   StaleSweeper
	redisOpt  asynq.RedisClientOpt
	cfg       config.SweepConfig
	server    *asynq.Server
	scheduler *asynq.Scheduler
}

// NewSweepWorker は新しいスイープワーカーを作成
func NewSweepWorker(service StaleSweeper, redisCfg *config.RedisConfig, cfg config.SweepConfig) *SweepWorker {
	return &SweepWorker{
		service: service,
		redisOpt: asynq.RedisClientOpt{
			Addr:     redisCfg.Addr(),
			Password: redisCfg.Password,
			DB:       redisCfg.DB,
		},
		cfg: cfg,
	}
}

// Start はスケジューラとワーカーサーバーを起動する
// スケジューラが cron 設定に従ってタスクを積み、サーバーがそれを処理する
func (w *SweepWorker) Start() error {
	w.server = asynq.NewServer(w.redisOpt, asynq.Config{
		Concurrency: w.cfg.Concurrency,
		Queues:      map[string]int{"default": 1},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReservationSweep, w.HandleSweep)

	w.scheduler = asynq.NewScheduler(w.redisOpt, nil)
	if _, err := w.scheduler.Register(w.cfg.Cron, asynq.NewTask(TypeReservationSweep, nil)); err != nil {
		return err
	}

	logger.Info("予約スイープワーカー開始",
		zap.String("cron", w.cfg.Cron),
		zap.Int("concurrency", w.cfg.Concurrency),
	)

	if err := w.server.Start(mux); err != nil {
		return err
	}
	return w.scheduler.Start()
}

// Stop はワーカーを停止する
func (w *SweepWorker) Stop() {
	if w.scheduler != nil {
		w.scheduler.Shutdown()
	}
	if w.server != nil {
		w.server.Shutdown()
	}
	logger.Info("予約スイープワーカー停止")
}

// HandleSweep はスイープタスクの本体
// 一括更新が冪等なので、重複実行や取りこぼし後の再実行もそのまま通る
func (w *SweepWorker) HandleSweep(ctx context.Context, t *asynq.Task) error {
	log := logger.Get()
	log.Debug("予約スイープ開始")

	result, err := w.service.SweepStale(ctx)
	if err != nil {
		log.Error("予約スイープ失敗", zap.Error(err))
		return err
	}

	if result.PendingRejected > 0 || result.ConfirmedExpired > 0 {
		log.Info("予約スイープ完了",
			zap.Int64("pending_rejected", result.PendingRejected),
			zap.Int64("confirmed_expired", result.ConfirmedExpired),
		)
	} else {
		log.Debug("対象の予約なし")
	}
	return nil
}

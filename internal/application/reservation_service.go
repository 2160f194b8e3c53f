package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-shop-reservation/internal/config"
	"github.com/sanosuguru/go-shop-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-shop-reservation/internal/domain/shop"
	"github.com/sanosuguru/go-shop-reservation/internal/domain/slot"
	"github.com/sanosuguru/go-shop-reservation/internal/domain/transaction"
	"github.com/sanosuguru/go-shop-reservation/internal/domain/user"
	redisinfra "github.com/sanosuguru/go-shop-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-shop-reservation/internal/pkg/clock"
	"github.com/sanosuguru/go-shop-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-shop-reservation/internal/pkg/metrics"
)

// ReservationService は予約のライフサイクルを司る
// 入場判定は枠ロックの中で行い、状態遷移はエンティティのガードに委ねる
type ReservationService struct {
	txManager       transaction.Manager
	reservationRepo reservation.Repository
	shopRepo        shop.Repository
	userRepo        user.Repository
	lockManager     redisinfra.LockManagerInterface
	admission       *AdmissionChecker
	clk             clock.Clock
	lockCfg         config.LockConfig
	metrics         *metrics.Metrics
}

func NewReservationService(
	txm transaction.Manager,
	rr reservation.Repository,
	sr shop.Repository,
	ur user.Repository,
	lm redisinfra.LockManagerInterface,
	clk clock.Clock,
	lockCfg config.LockConfig,
	m *metrics.Metrics,
) *ReservationService {
	return &ReservationService{
		txManager:       txm,
		reservationRepo: rr,
		shopRepo:        sr,
		userRepo:        ur,
		lockManager:     lm,
		admission:       NewAdmissionChecker(rr, clk),
		clk:             clk,
		lockCfg:         lockCfg,
		metrics:         m,
	}
}

// CreateReservationInput は予約作成の入力
type CreateReservationInput struct {
	ShopID string
	UserID string
	Day    time.Time
	Time   slot.TimeOfDay
	Count  int
	Note   string
}

// CreateReservation は枠ロックの中で入場判定を行い、保留状態の予約を作成する
func (s *ReservationService) CreateReservation(ctx context.Context, input CreateReservationInput) (*reservation.Reservation, error) {
	sh, err := s.shopRepo.GetByID(ctx, input.ShopID)
	if err != nil {
		return nil, err
	}
	if sh.IsDeleted {
		return nil, shop.ErrShopDeleted
	}

	day := clock.DateOf(input.Day)
	lockKey := slot.New(sh.ID, day, input.Time).LockKey()

	lockStart := time.Now()
	lock, err := s.lockManager.AcquireWithWait(ctx, lockKey, s.lockCfg.LeaseTime, s.lockCfg.MaxWait, s.lockCfg.PollInterval)
	if err != nil {
		if errors.Is(err, redisinfra.ErrLockNotAcquired) {
			s.observeLock("acquire", "busy", lockStart)
			s.countReservation("busy")
			return nil, err
		}
		s.observeLock("acquire", "failed", lockStart)
		s.countReservation("error")
		return nil, fmt.Errorf("枠ロックの取得に失敗: %w", err)
	}
	s.observeLock("acquire", "success", lockStart)
	defer func() {
		releaseStart := time.Now()
		// リース失効後の解放は所有者不一致になるだけなので握りつぶす
		if rerr := lock.Release(ctx); rerr != nil && !errors.Is(rerr, redisinfra.ErrLockNotOwned) {
			s.observeLock("release", "failed", releaseStart)
			logger.Warn("枠ロックの解放に失敗", zap.String("lock_key", lockKey), zap.Error(rerr))
			return
		}
		s.observeLock("release", "success", releaseStart)
	}()

	if err := s.admission.Check(ctx, sh, input.UserID, day, input.Time, input.Count); err != nil {
		s.countReservation(admissionResult(err))
		return nil, err
	}

	res := reservation.NewReservation(sh.ID, input.UserID, day, input.Time, input.Count, input.Note, s.clk.Now())
	if err := res.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.reservationRepo.Create(ctx, tx, res); err != nil {
		s.countReservation("error")
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		s.countReservation("error")
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	s.countReservation("created")
	if s.metrics != nil {
		s.metrics.ActiveReservations.WithLabelValues(string(reservation.StatusPending)).Inc()
	}
	logger.Info("予約を作成",
		zap.String("reservation_id", res.ID),
		zap.String("shop_id", sh.ID),
		zap.String("slot", lockKey),
		zap.Int("count", res.Count),
	)
	return res, nil
}

// CancelOutcome は取消の結果種別
// 保留中は行ごと削除し、確定済みは履歴保全のため expired へ遷移させる
type CancelOutcome string

const (
	CancelDeleted CancelOutcome = "deleted"
	CancelExpired CancelOutcome = "expired"
)

// CancelReservation は利用者自身による予約取消
// 枠の使用数は常に合計し直すため、取消にロックは不要（行が消えれば合計も減る）
func (s *ReservationService) CancelReservation(ctx context.Context, userID, id string) (CancelOutcome, error) {
	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if !res.IsOwnedBy(userID) {
		return "", reservation.ErrNotOwner
	}
	if res.IsTerminal() {
		return "", reservation.ErrCannotDelete
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	var outcome CancelOutcome
	if res.Status == reservation.StatusConfirmed {
		if err := res.Expire(s.clk.Now()); err != nil {
			return "", err
		}
		if err := s.reservationRepo.Update(ctx, tx, res); err != nil {
			return "", err
		}
		outcome = CancelExpired
	} else {
		if err := s.reservationRepo.Delete(ctx, tx, res.ID); err != nil {
			return "", err
		}
		outcome = CancelDeleted
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("コミットに失敗: %w", err)
	}
	logger.Info("予約を取消", zap.String("reservation_id", id), zap.String("outcome", string(outcome)))
	return outcome, nil
}

// ConfirmReservation はパートナーによる予約確定
func (s *ReservationService) ConfirmReservation(ctx context.Context, partnerID, id string) (*reservation.Reservation, error) {
	return s.transitionByPartner(ctx, partnerID, id, func(res *reservation.Reservation) error {
		return res.Confirm(clock.Today(s.clk), s.clk.Now())
	})
}

// RejectReservation はパートナーによる予約拒否
func (s *ReservationService) RejectReservation(ctx context.Context, partnerID, id string) (*reservation.Reservation, error) {
	return s.transitionByPartner(ctx, partnerID, id, func(res *reservation.Reservation) error {
		return res.Reject(clock.Today(s.clk), s.clk.Now())
	})
}

// VisitReservation は来店の記録（パートナー端末・キオスクから）
func (s *ReservationService) VisitReservation(ctx context.Context, partnerID, id string) (*reservation.Reservation, error) {
	return s.transitionByPartner(ctx, partnerID, id, func(res *reservation.Reservation) error {
		return res.Visit(s.clk.Now())
	})
}

// transitionByPartner は所有権を確認してから単一行の遷移を適用する
// 枠の合計は減る方向にしか動かないため、ここでは枠ロックを取らない
func (s *ReservationService) transitionByPartner(ctx context.Context, partnerID, id string, apply func(*reservation.Reservation) error) (*reservation.Reservation, error) {
	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sh, err := s.shopRepo.GetByID(ctx, res.ShopID)
	if err != nil {
		return nil, err
	}
	if !sh.IsOwnedBy(partnerID) {
		return nil, reservation.ErrNotOwner
	}
	if err := apply(res); err != nil {
		return nil, err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.reservationRepo.Update(ctx, tx, res); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}
	logger.Info("予約状態を更新", zap.String("reservation_id", res.ID), zap.String("status", string(res.Status)))
	return res, nil
}

// LookupForVisit はキオスク端末の来店照会
// 連絡先キーで利用者を解決し、当日・予約時刻の10分前以降の確定予約を引き当てる
func (s *ReservationService) LookupForVisit(ctx context.Context, partnerID, shopID, phone string) (*reservation.Reservation, error) {
	sh, err := s.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if !sh.IsOwnedBy(partnerID) {
		return nil, reservation.ErrNotOwner
	}

	u, err := s.userRepo.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, reservation.ErrReservationNotFound
		}
		return nil, err
	}

	now := s.clk.Now()
	nowTime := slot.TimeOfDayFrom(now)
	until := nowTime + slot.TimeOfDay(reservation.VisitLookupWindow/time.Minute)

	return s.reservationRepo.GetForVisit(ctx, sh.ID, u.ID, clock.DateOf(now), nowTime, until)
}

// GetReservation は本人確認つきで予約を取得する
func (s *ReservationService) GetReservation(ctx context.Context, userID, id string) (*reservation.Reservation, error) {
	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !res.IsOwnedBy(userID) {
		return nil, reservation.ErrNotOwner
	}
	return res, nil
}

// ListUserReservations は利用者の予約履歴を取得する
func (s *ReservationService) ListUserReservations(ctx context.Context, userID string, limit, offset int) ([]*reservation.Reservation, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.reservationRepo.ListByUser(ctx, userID, limit, offset)
}

// ListShopReservations はパートナー向けの店舗・日別の予約一覧
func (s *ReservationService) ListShopReservations(ctx context.Context, partnerID, shopID string, day time.Time) ([]*reservation.Reservation, error) {
	sh, err := s.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if !sh.IsOwnedBy(partnerID) {
		return nil, reservation.ErrNotOwner
	}
	return s.reservationRepo.ListByShopAndDay(ctx, sh.ID, clock.DateOf(day))
}

// SweepResult は夜間スイープの遷移件数
type SweepResult struct {
	PendingRejected  int64
	ConfirmedExpired int64
}

// SweepStale は日付の切り替わりで stale な予約を終端状態へ送る
// 集合更新のみの冪等な処理で、予約行ごとのロックは取らない
// （confirm/reject/visit は日付境界のガードで stale な行を拒むため競合しない）
func (s *ReservationService) SweepStale(ctx context.Context) (SweepResult, error) {
	today := clock.Today(s.clk)

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return SweepResult{}, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	rejected, err := s.reservationRepo.RejectPendingUpTo(ctx, tx, today)
	if err != nil {
		return SweepResult{}, err
	}
	expired, err := s.reservationRepo.ExpireConfirmedBefore(ctx, tx, today)
	if err != nil {
		return SweepResult{}, err
	}
	if err := tx.Commit(); err != nil {
		return SweepResult{}, fmt.Errorf("コミットに失敗: %w", err)
	}

	if s.metrics != nil {
		s.metrics.SweepTransitionsTotal.WithLabelValues("pending_rejected").Add(float64(rejected))
		s.metrics.SweepTransitionsTotal.WithLabelValues("confirmed_expired").Add(float64(expired))
	}
	return SweepResult{PendingRejected: rejected, ConfirmedExpired: expired}, nil
}

func (s *ReservationService) countReservation(result string) {
	if s.metrics != nil {
		s.metrics.ReservationsTotal.WithLabelValues(result).Inc()
	}
}

func (s *ReservationService) observeLock(operation, status string, start time.Time) {
	if s.metrics != nil {
		s.metrics.SlotLockDuration.WithLabelValues(operation, status).Observe(time.Since(start).Seconds())
	}
}

// admissionResult は入場判定エラーをメトリクスのラベルに対応付ける
func admissionResult(err error) string {
	switch {
	case errors.Is(err, reservation.ErrOverflow):
		return "overflow"
	case errors.Is(err, reservation.ErrGreedyUser):
		return "greedy_user"
	case errors.Is(err, reservation.ErrOutOfWindow),
		errors.Is(err, reservation.ErrNotOpenedDay),
		errors.Is(err, reservation.ErrNotOpenedTime),
		errors.Is(err, reservation.ErrZeroCount):
		return "rejected"
	default:
		return "error"
	}
}

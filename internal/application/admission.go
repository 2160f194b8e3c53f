package application

import (
	"context"
	"time"

	"github.com/sanosuguru/go-shop-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-shop-reservation/internal/domain/shop"
	"github.com/sanosuguru/go-shop-reservation/internal/domain/slot"
	"github.com/sanosuguru/go-shop-reservation/internal/pkg/clock"
)

// AdmissionChecker は枠への予約可否を判定する
//
// 判定と予約の書き込みは同じ枠の他の判定に対してアトミックでなければならない。
// 「残り1席」を2つのリクエストが同時に観測して両方書き込む事故を防ぐのは
// DBトランザクションではなく枠ロックの境界なので、Check は必ず
// 対象枠のロックを保持した状態で呼ぶこと。
type AdmissionChecker struct {
	reservationRepo reservation.Repository
	clk             clock.Clock
}

func NewAdmissionChecker(rr reservation.Repository, clk clock.Clock) *AdmissionChecker {
	return &AdmissionChecker{reservationRepo: rr, clk: clk}
}

// Check は (店舗, 日, 時刻) の枠に count 名の予約が収まるかを判定する
// 収まらない場合は理由を表すドメインエラーを返す
func (a *AdmissionChecker) Check(ctx context.Context, s *shop.Shop, userID string, day time.Time, t slot.TimeOfDay, count int) error {
	if count < 1 {
		return reservation.ErrZeroCount
	}

	today := clock.Today(a.clk)
	if !s.WithinWindow(today, day) {
		return reservation.ErrOutOfWindow
	}
	if !s.IsOpenOn(day.Weekday()) {
		return reservation.ErrNotOpenedDay
	}
	if !s.IsOpenAt(t) {
		return reservation.ErrNotOpenedTime
	}

	// 同じ店舗・同じ日の有効予約は利用者ごとに1件まで
	existingForUser, err := a.reservationRepo.SumActiveCountForUserShopDay(ctx, s.ID, userID, day)
	if err != nil {
		return err
	}
	if existingForUser > 0 {
		return reservation.ErrGreedyUser
	}

	// 使用数はキャッシュせず、ロック内で毎回合計し直す
	existingForSlot, err := a.reservationRepo.SumActiveCountForSlot(ctx, s.ID, day, t)
	if err != nil {
		return err
	}
	if existingForSlot+count > s.MaxConcurrentGuests {
		return reservation.ErrOverflow
	}

	return nil
}

package reservation

import (
	"time"

	"github.com/google/uuid"

	"github.com/sanosuguru/go-shop-reservation/internal/domain/slot"
)

// Status は予約の状態を表す
//
// 遷移: pending → confirmed → visited（来店完了）
//       pending → rejected（パートナー拒否／スイープ）
//       pending, confirmed → expired（強制取消・無断キャンセル）
// visited / rejected / expired は終端状態で、以後の遷移はない
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
	StatusVisited   Status = "visited"
	StatusExpired   Status = "expired"
)

// VisitLookupWindow はキオスク照会で遡れる時間幅
const VisitLookupWindow = 10 * time.Minute

// Reservation は予約エンティティを表す
type Reservation struct {
	ID     string
	ShopID string
	UserID string
	// Day は予約日（時刻部分は常に 00:00）
	Day time.Time
	// Time は予約枠の時刻
	Time   slot.TimeOfDay
	Count  int
	Status Status
	Note   string
	// ReviewID は来店後に投稿されたレビューへの参照
	ReviewID  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewReservation は保留状態の新しい予約を作成する
func NewReservation(shopID, userID string, day time.Time, t slot.TimeOfDay, count int, note string, now time.Time) *Reservation {
	return &Reservation{
		ID:        uuid.New().String(),
		ShopID:    shopID,
		UserID:    userID,
		Day:       day,
		Time:      t,
		Count:     count,
		Status:    StatusPending,
		Note:      note,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate は予約の検証を行う
func (r *Reservation) Validate() error {
	if r.ShopID == "" {
		return ErrShopIDRequired
	}
	if r.UserID == "" {
		return ErrUserIDRequired
	}
	if r.Count < 1 {
		return ErrZeroCount
	}
	return nil
}

// IsOwnedBy は予約が利用者本人のものかを返す
func (r *Reservation) IsOwnedBy(userID string) bool {
	return r.UserID == userID
}

// IsActive は枠の使用数に算入される状態かを返す
func (r *Reservation) IsActive() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

// IsTerminal は終端状態（監査のため削除不可）かを返す
func (r *Reservation) IsTerminal() bool {
	switch r.Status {
	case StatusRejected, StatusVisited, StatusExpired:
		return true
	}
	return false
}

// Slot は予約が属する枠を返す
func (r *Reservation) Slot() slot.Slot {
	return slot.New(r.ShopID, r.Day, r.Time)
}

// Confirm は予約を確定する
// 予約日当日以降はもう手動で操作できず、スイープに委ねる
func (r *Reservation) Confirm(today, now time.Time) error {
	if r.Status != StatusPending {
		return ErrWrongState
	}
	if !r.Day.After(today) {
		return ErrTimeOver
	}
	r.Status = StatusConfirmed
	r.UpdatedAt = now
	return nil
}

// Reject は予約を拒否する（Confirm と同じ日付制約）
func (r *Reservation) Reject(today, now time.Time) error {
	if r.Status != StatusPending {
		return ErrWrongState
	}
	if !r.Day.After(today) {
		return ErrTimeOver
	}
	r.Status = StatusRejected
	r.UpdatedAt = now
	return nil
}

// Visit は来店を記録する
// 予約日当日で、予約時刻より厳密に前の到着のみ受け付ける
func (r *Reservation) Visit(now time.Time) error {
	if r.Status != StatusConfirmed {
		return ErrWrongState
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if !r.Day.Equal(today) {
		return ErrTimeOver
	}
	if slot.TimeOfDayFrom(now) >= r.Time {
		return ErrTimeOver
	}
	r.Status = StatusVisited
	r.UpdatedAt = now
	return nil
}

// Expire は確定済みの予約を期限切れにする（強制取消・無断キャンセル）
func (r *Reservation) Expire(now time.Time) error {
	if r.Status != StatusConfirmed {
		return ErrWrongState
	}
	r.Status = StatusExpired
	r.UpdatedAt = now
	return nil
}

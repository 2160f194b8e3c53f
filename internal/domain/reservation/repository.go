package reservation

import (
	"context"
	"time"

	"github.com/sanosuguru/go-shop-reservation/internal/domain/slot"
	"github.com/sanosuguru/go-shop-reservation/internal/domain/transaction"
)

// Repository は予約リポジトリのインターフェース
// 枠の使用数は都度合計で求める（キャッシュされたカウンタは持たない）
type Repository interface {
	// Create は新しい予約を作成する（トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, r *Reservation) error

	// GetByID はIDから予約を取得する
	GetByID(ctx context.Context, id string) (*Reservation, error)

	// ListByUser は利用者の予約一覧を新しい順に取得する
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*Reservation, error)

	// ListByShopAndDay は店舗の指定日の予約一覧を時刻順に取得する
	ListByShopAndDay(ctx context.Context, shopID string, day time.Time) ([]*Reservation, error)

	// GetForVisit はキオスク照会用に、利用者の当日の確定済み予約のうち
	// 予約時刻が after より後かつ until 以下のものを取得する
	GetForVisit(ctx context.Context, shopID, userID string, day time.Time, after, until slot.TimeOfDay) (*Reservation, error)

	// Update は予約を更新する（トランザクション必須）
	Update(ctx context.Context, tx transaction.Tx, r *Reservation) error

	// Delete は予約行を物理削除する（保留中の取消のみ）
	Delete(ctx context.Context, tx transaction.Tx, id string) error

	// SumActiveCountForUserShopDay は利用者自身の有効予約
	// （pending/confirmed）の人数合計を返す
	SumActiveCountForUserShopDay(ctx context.Context, shopID, userID string, day time.Time) (int, error)

	// SumActiveCountForSlot は枠に算入される予約
	// （pending/confirmed/visited）の人数合計を返す
	SumActiveCountForSlot(ctx context.Context, shopID string, day time.Time, t slot.TimeOfDay) (int, error)

	// RejectPendingUpTo は予約日が day 以前の保留予約を一括で rejected にする
	// 冪等な集合更新で、スイープから呼ばれる
	RejectPendingUpTo(ctx context.Context, tx transaction.Tx, day time.Time) (int64, error)

	// ExpireConfirmedBefore は予約日が day より前の確定予約を一括で expired にする
	ExpireConfirmedBefore(ctx context.Context, tx transaction.Tx, day time.Time) (int64, error)
}

package reservation

import "errors"

// Reservation ドメインのエラー定義
// 予約操作が返す理由は閉じた集合で、HTTP 層はこの単位でステータスに対応付ける
var (
	ErrReservationNotFound = errors.New("予約が見つかりません")
	ErrNotOwner            = errors.New("この予約を操作する権限がありません")
	ErrWrongState          = errors.New("現在の状態ではこの操作はできません")
	ErrCannotDelete        = errors.New("履歴保全のためこの予約は削除できません")
	ErrOutOfWindow         = errors.New("予約受付期間外の日付です")
	ErrTimeOver            = errors.New("操作可能な時刻を過ぎています")
	ErrZeroCount           = errors.New("予約人数は1名以上が必要です")
	ErrOverflow            = errors.New("この枠の定員を超えています")
	ErrGreedyUser          = errors.New("同じ店舗に同じ日の有効な予約が既にあります")
	ErrNotOpenedDay        = errors.New("その曜日は予約を受け付けていません")
	ErrNotOpenedTime       = errors.New("その時刻は予約を受け付けていません")
	ErrShopIDRequired      = errors.New("店舗IDは必須です")
	ErrUserIDRequired      = errors.New("利用者IDは必須です")
)

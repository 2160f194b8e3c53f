package shop

import "errors"

// Shop ドメインのエラー定義
var (
	ErrShopNotFound       = errors.New("店舗が見つかりません")
	ErrShopDeleted        = errors.New("店舗は削除されています")
	ErrPartnerIDRequired  = errors.New("パートナーIDは必須です")
	ErrShopNameRequired   = errors.New("店舗名は必須です")
	ErrInvalidWindowWeeks = errors.New("予約受付期間は1週間以上が必要です")
	ErrInvalidMaxGuests   = errors.New("枠あたりの定員は1名以上が必要です")
)

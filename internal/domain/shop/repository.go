package shop

import "context"

// Repository は店舗リポジトリのインターフェース
type Repository interface {
	// Create は新しい店舗を登録する
	Create(ctx context.Context, shop *Shop) error

	// GetByID はIDから店舗を取得する（削除済みも含む）
	GetByID(ctx context.Context, id string) (*Shop, error)

	// ListByPartner はパートナー所有の店舗一覧を取得する
	ListByPartner(ctx context.Context, partnerID string) ([]*Shop, error)

	// Update は店舗を更新する
	Update(ctx context.Context, shop *Shop) error
}

package user

import "context"

// Repository は利用者リポジトリのインターフェース
type Repository interface {
	// GetByID はIDから利用者を取得する
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByPhone は連絡先キー（電話番号）から利用者を取得する
	GetByPhone(ctx context.Context, phone string) (*User, error)
}

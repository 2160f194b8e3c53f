package transaction

import "context"

// Tx はトランザクションを表すインターフェース
// ドメイン層・アプリケーション層が sqlx などのインフラ実装に依存しないための抽象化
type Tx interface {
	// Commit はトランザクションをコミットする
	Commit() error
	// Rollback はトランザクションをロールバックする
	Rollback() error
}

// Manager はトランザクションを管理するインターフェース
type Manager interface {
	// Begin は新しいトランザクションを開始する
	Begin(ctx context.Context) (Tx, error)
}

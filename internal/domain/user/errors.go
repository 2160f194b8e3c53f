package user

import "errors"

// User ドメインのエラー定義
var (
	ErrUserNotFound = errors.New("利用者が見つかりません")
)

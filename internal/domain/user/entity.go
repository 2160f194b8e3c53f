package user

import (
	"time"

	"github.com/google/uuid"
)

// User は利用者エンティティを表す
type User struct {
	ID   string
	Name string
	// Phone はキオスク端末での本人照合に使う連絡先キー
	Phone     string
	CreatedAt time.Time
}

// NewUser は新しい利用者を作成する
func NewUser(name, phone string) *User {
	return &User{
		ID:        uuid.New().String(),
		Name:      name,
		Phone:     phone,
		CreatedAt: time.Now(),
	}
}

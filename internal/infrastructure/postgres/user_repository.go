package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-shop-reservation/internal/domain/user"
)

type userRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Phone     string    `db:"phone"`
	CreatedAt time.Time `db:"created_at"`
}

type UserRepository struct{ db *sqlx.DB }

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	var row userRow
	if err := r.db.GetContext(ctx, &row, `SELECT id, name, phone, created_at FROM users WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("利用者取得に失敗: %w", err)
	}
	return toUserEntity(&row), nil
}

func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*user.User, error) {
	var row userRow
	if err := r.db.GetContext(ctx, &row, `SELECT id, name, phone, created_at FROM users WHERE phone = $1`, phone); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("利用者取得に失敗: %w", err)
	}
	return toUserEntity(&row), nil
}

func toUserEntity(row *userRow) *user.User {
	return &user.User{
		ID:        row.ID,
		Name:      row.Name,
		Phone:     row.Phone,
		CreatedAt: row.CreatedAt,
	}
}

var _ user.Repository = (*UserRepository)(nil)

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-shop-reservation/internal/domain/shop"
	"github.com/sanosuguru/go-shop-reservation/internal/domain/slot"
)

type shopRow struct {
	ID           string        `db:"id"`
	PartnerID    string        `db:"partner_id"`
	Name         string        `db:"name"`
	WindowWeeks  int           `db:"window_weeks"`
	MaxGuests    int           `db:"max_guests"`
	OpenWeekdays pq.Int64Array `db:"open_weekdays"`
	OpenTimes    pq.Int64Array `db:"open_times"`
	IsDeleted    bool          `db:"is_deleted"`
	CreatedAt    time.Time     `db:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at"`
}

const shopColumns = `id, partner_id, name, window_weeks, max_guests, open_weekdays, open_times, is_deleted, created_at, updated_at`

type ShopRepository struct{ db *sqlx.DB }

func NewShopRepository(db *sqlx.DB) *ShopRepository {
	return &ShopRepository{db: db}
}

func (r *ShopRepository) Create(ctx context.Context, s *shop.Shop) error {
	query := `INSERT INTO shops (id, partner_id, name, window_weeks, max_guests, open_weekdays, open_times, is_deleted, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	if _, err := r.db.ExecContext(ctx, query,
		s.ID, s.PartnerID, s.Name, s.ReservationWindowWeeks, s.MaxConcurrentGuests,
		weekdaysToArray(s.OpenWeekdays), timesToArray(s.OpenTimes),
		s.IsDeleted, s.CreatedAt, s.UpdatedAt,
	); err != nil {
		return fmt.Errorf("店舗作成に失敗: %w", err)
	}
	return nil
}

func (r *ShopRepository) GetByID(ctx context.Context, id string) (*shop.Shop, error) {
	var row shopRow
	query := `SELECT ` + shopColumns + ` FROM shops WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shop.ErrShopNotFound
		}
		return nil, fmt.Errorf("店舗取得に失敗: %w", err)
	}
	return toShopEntity(&row), nil
}

func (r *ShopRepository) ListByPartner(ctx context.Context, partnerID string) ([]*shop.Shop, error) {
	var rows []shopRow
	query := `SELECT ` + shopColumns + ` FROM shops WHERE partner_id = $1 AND is_deleted = FALSE ORDER BY created_at`
	if err := r.db.SelectContext(ctx, &rows, query, partnerID); err != nil {
		return nil, fmt.Errorf("店舗一覧取得に失敗: %w", err)
	}
	result := make([]*shop.Shop, len(rows))
	for i := range rows {
		result[i] = toShopEntity(&rows[i])
	}
	return result, nil
}

func (r *ShopRepository) Update(ctx context.Context, s *shop.Shop) error {
	query := `UPDATE shops SET name = $1, window_weeks = $2, max_guests = $3,
	          open_weekdays = $4, open_times = $5, is_deleted = $6, updated_at = $7
	          WHERE id = $8`
	result, err := r.db.ExecContext(ctx, query,
		s.Name, s.ReservationWindowWeeks, s.MaxConcurrentGuests,
		weekdaysToArray(s.OpenWeekdays), timesToArray(s.OpenTimes),
		s.IsDeleted, s.UpdatedAt, s.ID,
	)
	if err != nil {
		return fmt.Errorf("店舗更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return shop.ErrShopNotFound
	}
	return nil
}

func weekdaysToArray(wd map[time.Weekday]bool) pq.Int64Array {
	arr := make(pq.Int64Array, 0, len(wd))
	for w := time.Sunday; w <= time.Saturday; w++ {
		if wd[w] {
			arr = append(arr, int64(w))
		}
	}
	return arr
}

func timesToArray(times []slot.TimeOfDay) pq.Int64Array {
	arr := make(pq.Int64Array, len(times))
	for i, t := range times {
		arr[i] = int64(t)
	}
	return arr
}

func toShopEntity(row *shopRow) *shop.Shop {
	wd := make(map[time.Weekday]bool, len(row.OpenWeekdays))
	for _, w := range row.OpenWeekdays {
		wd[time.Weekday(w)] = true
	}
	times := make([]slot.TimeOfDay, len(row.OpenTimes))
	for i, t := range row.OpenTimes {
		times[i] = slot.TimeOfDay(t)
	}
	return &shop.Shop{
		ID:                     row.ID,
		PartnerID:              row.PartnerID,
		Name:                   row.Name,
		ReservationWindowWeeks: row.WindowWeeks,
		MaxConcurrentGuests:    row.MaxGuests,
		OpenWeekdays:           wd,
		OpenTimes:              times,
		IsDeleted:              row.IsDeleted,
		CreatedAt:              row.CreatedAt,
		UpdatedAt:              row.UpdatedAt,
	}
}

var _ shop.Repository = (*ShopRepository)(nil)

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-shop-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-shop-reservation/internal/domain/slot"
	"github.com/sanosuguru/go-shop-reservation/internal/domain/transaction"
)

// activeStatuses は枠の使用数に算入する状態
// visited も含める（来店済みの席は当日の枠を消費したままにする）
const (
	slotCountStatuses = `('pending', 'confirmed', 'visited')`
	userActiveStatus  = `('pending', 'confirmed')`
)

type reservationRow struct {
	ID        string         `db:"id"`
	ShopID    string         `db:"shop_id"`
	UserID    string         `db:"user_id"`
	Day       time.Time      `db:"day"`
	TimeOfDay int            `db:"time_of_day"`
	Count     int            `db:"guest_count"`
	Status    string         `db:"status"`
	Note      string         `db:"note"`
	ReviewID  sql.NullString `db:"review_id"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

const reservationColumns = `id, shop_id, user_id, day, time_of_day, guest_count, status, note, review_id, created_at, updated_at`

type ReservationRepository struct{ db *sqlx.DB }

func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) Create(ctx context.Context, tx transaction.Tx, res *reservation.Reservation) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return fmt.Errorf("トランザクションが不正です")
	}
	query := `INSERT INTO reservations (id, shop_id, user_id, day, time_of_day, guest_count, status, note, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	if _, err := sqlxTx.ExecContext(ctx, query,
		res.ID, res.ShopID, res.UserID, res.Day, int(res.Time), res.Count,
		string(res.Status), res.Note, res.CreatedAt, res.UpdatedAt,
	); err != nil {
		return fmt.Errorf("予約作成に失敗: %w", err)
	}
	return nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id string) (*reservation.Reservation, error) {
	var row reservationRow
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, reservation.ErrReservationNotFound
		}
		return nil, fmt.Errorf("予約取得に失敗: %w", err)
	}
	return toReservationEntity(&row), nil
}

func (r *ReservationRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*reservation.Reservation, error) {
	var rows []reservationRow
	query := `SELECT ` + reservationColumns + ` FROM reservations
	          WHERE user_id = $1 ORDER BY day DESC, time_of_day DESC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &rows, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("予約一覧取得に失敗: %w", err)
	}
	return toReservationEntities(rows), nil
}

func (r *ReservationRepository) ListByShopAndDay(ctx context.Context, shopID string, day time.Time) ([]*reservation.Reservation, error) {
	var rows []reservationRow
	query := `SELECT ` + reservationColumns + ` FROM reservations
	          WHERE shop_id = $1 AND day = $2 ORDER BY time_of_day, created_at`
	if err := r.db.SelectContext(ctx, &rows, query, shopID, day); err != nil {
		return nil, fmt.Errorf("予約一覧取得に失敗: %w", err)
	}
	return toReservationEntities(rows), nil
}

func (r *ReservationRepository) GetForVisit(ctx context.Context, shopID, userID string, day time.Time, after, until slot.TimeOfDay) (*reservation.Reservation, error) {
	var row reservationRow
	query := `SELECT ` + reservationColumns + ` FROM reservations
	          WHERE shop_id = $1 AND user_id = $2 AND day = $3
	            AND status = 'confirmed' AND time_of_day > $4 AND time_of_day <= $5
	          ORDER BY time_of_day LIMIT 1`
	if err := r.db.GetContext(ctx, &row, query, shopID, userID, day, int(after), int(until)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, reservation.ErrReservationNotFound
		}
		return nil, fmt.Errorf("来店予約の照会に失敗: %w", err)
	}
	return toReservationEntity(&row), nil
}

func (r *ReservationRepository) Update(ctx context.Context, tx transaction.Tx, res *reservation.Reservation) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return fmt.Errorf("トランザクションが不正です")
	}
	query := `UPDATE reservations SET status = $1, review_id = $2, updated_at = $3 WHERE id = $4`
	var reviewID sql.NullString
	if res.ReviewID != nil {
		reviewID = sql.NullString{String: *res.ReviewID, Valid: true}
	}
	result, err := sqlxTx.ExecContext(ctx, query, string(res.Status), reviewID, res.UpdatedAt, res.ID)
	if err != nil {
		return fmt.Errorf("予約更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return reservation.ErrReservationNotFound
	}
	return nil
}

func (r *ReservationRepository) Delete(ctx context.Context, tx transaction.Tx, id string) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return fmt.Errorf("トランザクションが不正です")
	}
	result, err := sqlxTx.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("予約削除に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return reservation.ErrReservationNotFound
	}
	return nil
}

func (r *ReservationRepository) SumActiveCountForUserShopDay(ctx context.Context, shopID, userID string, day time.Time) (int, error) {
	var sum int
	query := `SELECT COALESCE(SUM(guest_count), 0) FROM reservations
	          WHERE shop_id = $1 AND user_id = $2 AND day = $3 AND status IN ` + userActiveStatus
	if err := r.db.GetContext(ctx, &sum, query, shopID, userID, day); err != nil {
		return 0, fmt.Errorf("利用者の有効予約数取得に失敗: %w", err)
	}
	return sum, nil
}

func (r *ReservationRepository) SumActiveCountForSlot(ctx context.Context, shopID string, day time.Time, t slot.TimeOfDay) (int, error) {
	var sum int
	query := `SELECT COALESCE(SUM(guest_count), 0) FROM reservations
	          WHERE shop_id = $1 AND day = $2 AND time_of_day = $3 AND status IN ` + slotCountStatuses
	if err := r.db.GetContext(ctx, &sum, query, shopID, day, int(t)); err != nil {
		return 0, fmt.Errorf("枠の使用数取得に失敗: %w", err)
	}
	return sum, nil
}

// RejectPendingUpTo は集合更新で、対象行が既に遷移済みなら単に一致しない（冪等）
func (r *ReservationRepository) RejectPendingUpTo(ctx context.Context, tx transaction.Tx, day time.Time) (int64, error) {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return 0, fmt.Errorf("トランザクションが不正です")
	}
	query := `UPDATE reservations SET status = 'rejected', updated_at = NOW()
	          WHERE status = 'pending' AND day <= $1`
	result, err := sqlxTx.ExecContext(ctx, query, day)
	if err != nil {
		return 0, fmt.Errorf("保留予約の一括拒否に失敗: %w", err)
	}
	return result.RowsAffected()
}

func (r *ReservationRepository) ExpireConfirmedBefore(ctx context.Context, tx transaction.Tx, day time.Time) (int64, error) {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return 0, fmt.Errorf("トランザクションが不正です")
	}
	query := `UPDATE reservations SET status = 'expired', updated_at = NOW()
	          WHERE status = 'confirmed' AND day < $1`
	result, err := sqlxTx.ExecContext(ctx, query, day)
	if err != nil {
		return 0, fmt.Errorf("確定予約の一括期限切れに失敗: %w", err)
	}
	return result.RowsAffected()
}

func toReservationEntity(row *reservationRow) *reservation.Reservation {
	var reviewID *string
	if row.ReviewID.Valid {
		v := row.ReviewID.String
		reviewID = &v
	}
	return &reservation.Reservation{
		ID: row.ID, ShopID: row.ShopID, UserID: row.UserID,
		Day: row.Day, Time: slot.TimeOfDay(row.TimeOfDay), Count: row.Count,
		Status: reservation.Status(row.Status), Note: row.Note, ReviewID: reviewID,
		CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt,
	}
}

func toReservationEntities(rows []reservationRow) []*reservation.Reservation {
	result := make([]*reservation.Reservation, len(rows))
	for i := range rows {
		result[i] = toReservationEntity(&rows[i])
	}
	return result
}

var _ reservation.Repository = (*ReservationRepository)(nil)

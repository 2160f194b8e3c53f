package application

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sanosuguru/go-shop-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-shop-reservation/internal/domain/shop"
	"github.com/sanosuguru/go-shop-reservation/internal/domain/slot"
	"github.com/sanosuguru/go-shop-reservation/internal/domain/transaction"
	"github.com/sanosuguru/go-shop-reservation/internal/domain/user"
	redisinfra "github.com/sanosuguru/go-shop-reservation/internal/infrastructure/redis"
)

// === Mock implementations ===

// MockTxManager implements transaction.Manager
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) Begin(ctx context.Context) (transaction.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(transaction.Tx), args.Error(1)
}

// MockTx implements transaction.Tx
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTx) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// MockReservationRepository implements reservation.Repository
type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) Create(ctx context.Context, tx transaction.Tx, r *reservation.Reservation) error {
	args := m.Called(ctx, tx, r)
	return args.Error(0)
}

func (m *MockReservationRepository) GetByID(ctx context.Context, id string) (*reservation.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Reservation), args.Error(1)
}

func (m *MockReservationRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*reservation.Reservation, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*reservation.Reservation), args.Error(1)
}

func (m *MockReservationRepository) ListByShopAndDay(ctx context.Context, shopID string, day time.Time) ([]*reservation.Reservation, error) {
	args := m.Called(ctx, shopID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*reservation.Reservation), args.Error(1)
}

func (m *MockReservationRepository) GetForVisit(ctx context.Context, shopID, userID string, day time.Time, after, until slot.TimeOfDay) (*reservation.Reservation, error) {
	args := m.Called(ctx, shopID, userID, day, after, until)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Reservation), args.Error(1)
}

func (m *MockReservationRepository) Update(ctx context.Context, tx transaction.Tx, r *reservation.Reservation) error {
	args := m.Called(ctx, tx, r)
	return args.Error(0)
}

func (m *MockReservationRepository) Delete(ctx context.Context, tx transaction.Tx, id string) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

func (m *MockReservationRepository) SumActiveCountForUserShopDay(ctx context.Context, shopID, userID string, day time.Time) (int, error) {
	args := m.Called(ctx, shopID, userID, day)
	return args.Int(0), args.Error(1)
}

func (m *MockReservationRepository) SumActiveCountForSlot(ctx context.Context, shopID string, day time.Time, t slot.TimeOfDay) (int, error) {
	args := m.Called(ctx, shopID, day, t)
	return args.Int(0), args.Error(1)
}

func (m *MockReservationRepository) RejectPendingUpTo(ctx context.Context, tx transaction.Tx, day time.Time) (int64, error) {
	args := m.Called(ctx, tx, day)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReservationRepository) ExpireConfirmedBefore(ctx context.Context, tx transaction.Tx, day time.Time) (int64, error) {
	args := m.Called(ctx, tx, day)
	return args.Get(0).(int64), args.Error(1)
}

// MockShopRepository implements shop.Repository
type MockShopRepository struct {
	mock.Mock
}

func (m *MockShopRepository) Create(ctx context.Context, s *shop.Shop) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockShopRepository) GetByID(ctx context.Context, id string) (*shop.Shop, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shop.Shop), args.Error(1)
}

func (m *MockShopRepository) ListByPartner(ctx context.Context, partnerID string) ([]*shop.Shop, error) {
	args := m.Called(ctx, partnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*shop.Shop), args.Error(1)
}

func (m *MockShopRepository) Update(ctx context.Context, s *shop.Shop) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

// MockUserRepository implements user.Repository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) GetByPhone(ctx context.Context, phone string) (*user.User, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

// MockLockManager implements redisinfra.LockManagerInterface
type MockLockManager struct {
	mock.Mock
}

func (m *MockLockManager) Acquire(ctx context.Context, key string, lease time.Duration) (redisinfra.Lock, error) {
	args := m.Called(ctx, key, lease)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(redisinfra.Lock), args.Error(1)
}

func (m *MockLockManager) AcquireWithWait(ctx context.Context, key string, lease, maxWait, pollInterval time.Duration) (redisinfra.Lock, error) {
	args := m.Called(ctx, key, lease, maxWait, pollInterval)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(redisinfra.Lock), args.Error(1)
}

// MockLock implements redisinfra.Lock
type MockLock struct {
	mock.Mock
}

func (m *MockLock) Release(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockLock) Extend(ctx context.Context, ttl time.Duration) error {
	args := m.Called(ctx, ttl)
	return args.Error(0)
}

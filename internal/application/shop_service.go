package application

import (
	"context"
	"time"

	"github.com/sanosuguru/go-shop-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-shop-reservation/internal/domain/shop"
	"github.com/sanosuguru/go-shop-reservation/internal/domain/slot"
)

// ShopService は店舗の登録・設定変更を司る
type ShopService struct {
	shopRepo shop.Repository
}

func NewShopService(sr shop.Repository) *ShopService {
	return &ShopService{shopRepo: sr}
}

// CreateShopInput は店舗登録の入力
type CreateShopInput struct {
	PartnerID              string
	Name                   string
	ReservationWindowWeeks int
	MaxConcurrentGuests    int
	OpenWeekdays           []time.Weekday
	OpenTimes              []slot.TimeOfDay
}

func (s *ShopService) CreateShop(ctx context.Context, input CreateShopInput) (*shop.Shop, error) {
	sh := shop.NewShop(
		input.PartnerID, input.Name,
		input.ReservationWindowWeeks, input.MaxConcurrentGuests,
		input.OpenWeekdays, input.OpenTimes,
	)
	if err := sh.Validate(); err != nil {
		return nil, err
	}
	if err := s.shopRepo.Create(ctx, sh); err != nil {
		return nil, err
	}
	return sh, nil
}

func (s *ShopService) GetShop(ctx context.Context, id string) (*shop.Shop, error) {
	sh, err := s.shopRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sh.IsDeleted {
		return nil, shop.ErrShopNotFound
	}
	return sh, nil
}

func (s *ShopService) ListPartnerShops(ctx context.Context, partnerID string) ([]*shop.Shop, error) {
	return s.shopRepo.ListByPartner(ctx, partnerID)
}

// UpdateShopInput は店舗設定変更の入力
type UpdateShopInput struct {
	PartnerID              string
	ShopID                 string
	Name                   string
	ReservationWindowWeeks int
	MaxConcurrentGuests    int
	OpenWeekdays           []time.Weekday
	OpenTimes              []slot.TimeOfDay
}

func (s *ShopService) UpdateShop(ctx context.Context, input UpdateShopInput) (*shop.Shop, error) {
	sh, err := s.shopRepo.GetByID(ctx, input.ShopID)
	if err != nil {
		return nil, err
	}
	if !sh.IsOwnedBy(input.PartnerID) {
		return nil, reservation.ErrNotOwner
	}
	if sh.IsDeleted {
		return nil, shop.ErrShopDeleted
	}

	sh.Name = input.Name
	sh.ReservationWindowWeeks = input.ReservationWindowWeeks
	sh.MaxConcurrentGuests = input.MaxConcurrentGuests
	wd := make(map[time.Weekday]bool, len(input.OpenWeekdays))
	for _, w := range input.OpenWeekdays {
		wd[w] = true
	}
	sh.OpenWeekdays = wd
	sh.OpenTimes = input.OpenTimes
	sh.UpdatedAt = time.Now()

	if err := sh.Validate(); err != nil {
		return nil, err
	}
	if err := s.shopRepo.Update(ctx, sh); err != nil {
		return nil, err
	}
	return sh, nil
}

// DeleteShop は店舗を論理削除する（既存予約の履歴は残る）
func (s *ShopService) DeleteShop(ctx context.Context, partnerID, shopID string) error {
	sh, err := s.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return err
	}
	if !sh.IsOwnedBy(partnerID) {
		return reservation.ErrNotOwner
	}
	if sh.IsDeleted {
		return shop.ErrShopDeleted
	}
	sh.IsDeleted = true
	sh.UpdatedAt = time.Now()
	return s.shopRepo.Update(ctx, sh)
}

package handler

import (
	"context"
	"time"

	"github.com/sanosuguru/go-shop-reservation/internal/application"
	"github.com/sanosuguru/go-shop-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-shop-reservation/internal/domain/shop"
)

// ShopServiceInterface は店舗サービスのインターフェース
type ShopServiceInterface interface {
	CreateShop(ctx context.Context, input application.CreateShopInput) (*shop.Shop, error)
	GetShop(ctx context.Context, id string) (*shop.Shop, error)
	ListPartnerShops(ctx context.Context, partnerID string) ([]*shop.Shop, error)
	UpdateShop(ctx context.Context, input application.UpdateShopInput) (*shop.Shop, error)
	DeleteShop(ctx context.Context, partnerID, id string) error
}

// ReservationServiceInterface は予約サービスのインターフェース
type ReservationServiceInterface interface {
	CreateReservation(ctx context.Context, input application.CreateReservationInput) (*reservation.Reservation, error)
	GetReservation(ctx context.Context, userID, id string) (*reservation.Reservation, error)
	ListUserReservations(ctx context.Context, userID string, limit, offset int) ([]*reservation.Reservation, error)
	CancelReservation(ctx context.Context, userID, id string) (application.CancelOutcome, error)
	ConfirmReservation(ctx context.Context, partnerID, id string) (*reservation.Reservation, error)
	RejectReservation(ctx context.Context, partnerID, id string) (*reservation.Reservation, error)
	VisitReservation(ctx context.Context, partnerID, id string) (*reservation.Reservation, error)
	LookupForVisit(ctx context.Context, partnerID, shopID, phone string) (*reservation.Reservation, error)
	ListShopReservations(ctx context.Context, partnerID, shopID string, day time.Time) ([]*reservation.Reservation, error)
}

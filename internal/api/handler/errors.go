package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-shop-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-shop-reservation/internal/domain/shop"
	"github.com/sanosuguru/go-shop-reservation/internal/domain/user"
	redisinfra "github.com/sanosuguru/go-shop-reservation/internal/infrastructure/redis"
)

// toHTTPError はドメインエラーをHTTPステータスに写す
// ここに現れないエラーはすべて500として扱う
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, reservation.ErrReservationNotFound),
		errors.Is(err, shop.ErrShopNotFound),
		errors.Is(err, user.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, reservation.ErrNotOwner):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, redisinfra.ErrLockNotAcquired),
		errors.Is(err, reservation.ErrOverflow),
		errors.Is(err, reservation.ErrGreedyUser):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, reservation.ErrWrongState),
		errors.Is(err, reservation.ErrCannotDelete),
		errors.Is(err, reservation.ErrOutOfWindow),
		errors.Is(err, reservation.ErrTimeOver),
		errors.Is(err, reservation.ErrZeroCount),
		errors.Is(err, reservation.ErrNotOpenedDay),
		errors.Is(err, reservation.ErrNotOpenedTime),
		errors.Is(err, shop.ErrShopDeleted):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

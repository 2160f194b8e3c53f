package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// PartnerHandler は店舗パートナー向けの予約操作を受け付ける
type PartnerHandler struct {
	service ReservationServiceInterface
}

func NewPartnerHandler(s ReservationServiceInterface) *PartnerHandler {
	return &PartnerHandler{service: s}
}

func partnerID(c echo.Context) (string, error) {
	id := c.Request().Header.Get("X-Partner-ID")
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "パートナーIDが必要です")
	}
	return id, nil
}

// Confirm godoc
// @Summary 予約を承認
// @Description 保留中の予約を確定します（前日まで）
// @Tags partner
// @Produce json
// @Param X-Partner-ID header string true "パートナーID"
// @Param id path string true "予約ID"
// @Success 200 {object} ReservationResponse
// @Failure 400 {object} map[string]string "状態不正または期限切れ"
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /partner/reservations/{id}/confirm [post]
func (h *PartnerHandler) Confirm(c echo.Context) error {
	pid, err := partnerID(c)
	if err != nil {
		return err
	}
	r, err := h.service.ConfirmReservation(c.Request().Context(), pid, c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toReservationResponse(r))
}

// Reject godoc
// @Summary 予約を拒否
// @Description 保留中の予約を拒否します（前日まで）
// @Tags partner
// @Produce json
// @Param X-Partner-ID header string true "パートナーID"
// @Param id path string true "予約ID"
// @Success 200 {object} ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /partner/reservations/{id}/reject [post]
func (h *PartnerHandler) Reject(c echo.Context) error {
	pid, err := partnerID(c)
	if err != nil {
		return err
	}
	r, err := h.service.RejectReservation(c.Request().Context(), pid, c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toReservationResponse(r))
}

// Visit godoc
// @Summary 来店を記録
// @Description 当日・予約時刻前の確定済み予約を来店済みにします
// @Tags partner
// @Produce json
// @Param X-Partner-ID header string true "パートナーID"
// @Param id path string true "予約ID"
// @Success 200 {object} ReservationResponse
// @Failure 400 {object} map[string]string "予約時刻を過ぎている"
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /partner/reservations/{id}/visit [post]
func (h *PartnerHandler) Visit(c echo.Context) error {
	pid, err := partnerID(c)
	if err != nil {
		return err
	}
	r, err := h.service.VisitReservation(c.Request().Context(), pid, c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toReservationResponse(r))
}

// Lookup godoc
// @Summary 来店予約を電話番号で検索
// @Description 来店端末向け。予約時刻10分前からの受付窓の中にある確定予約を返します
// @Tags partner
// @Produce json
// @Param X-Partner-ID header string true "パートナーID"
// @Param shop_id path string true "店舗ID"
// @Param phone query string true "電話番号"
// @Success 200 {object} ReservationResponse
// @Failure 404 {object} map[string]string "受付窓の中に予約なし"
// @Router /partner/shops/{shop_id}/visits/lookup [get]
func (h *PartnerHandler) Lookup(c echo.Context) error {
	pid, err := partnerID(c)
	if err != nil {
		return err
	}
	phone := c.QueryParam("phone")
	if phone == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "電話番号が必要です")
	}
	r, err := h.service.LookupForVisit(c.Request().Context(), pid, c.Param("shop_id"), phone)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toReservationResponse(r))
}

// ListByDay godoc
// @Summary 店舗の日別予約一覧
// @Tags partner
// @Produce json
// @Param X-Partner-ID header string true "パートナーID"
// @Param shop_id path string true "店舗ID"
// @Param day query string true "日付（YYYY-MM-DD）"
// @Success 200 {array} ReservationResponse
// @Failure 403 {object} map[string]string
// @Router /partner/shops/{shop_id}/reservations [get]
func (h *PartnerHandler) ListByDay(c echo.Context) error {
	pid, err := partnerID(c)
	if err != nil {
		return err
	}
	day, err := time.Parse(dayFormat, c.QueryParam("day"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効な日付です")
	}
	reservations, err := h.service.ListShopReservations(c.Request().Context(), pid, c.Param("shop_id"), day)
	if err != nil {
		return toHTTPError(err)
	}
	resp := make([]ReservationResponse, len(reservations))
	for i, r := range reservations {
		resp[i] = toReservationResponse(r)
	}
	return c.JSON(http.StatusOK, resp)
}

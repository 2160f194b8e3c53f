package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-shop-reservation/internal/application"
	"github.com/sanosuguru/go-shop-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-shop-reservation/internal/domain/slot"
)

const dayFormat = "2006-01-02"

type ReservationHandler struct {
	service ReservationServiceInterface
}

func NewReservationHandler(s ReservationServiceInterface) *ReservationHandler {
	return &ReservationHandler{service: s}
}

type CreateReservationRequest struct {
	ShopID string `json:"shop_id" validate:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	Day    string `json:"day" validate:"required" example:"2025-06-02"`
	Time   string `json:"time" validate:"required" example:"18:00"`
	Count  int    `json:"count" validate:"required,min=1" example:"2"`
	Note   string `json:"note" example:"窓際の席を希望"`
}

type ReservationResponse struct {
	ID        string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	ShopID    string    `json:"shop_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	UserID    string    `json:"user_id" example:"user-123"`
	Day       string    `json:"day" example:"2025-06-02"`
	Time      string    `json:"time" example:"18:00"`
	Count     int       `json:"count" example:"2"`
	Status    string    `json:"status" example:"pending"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toReservationResponse(r *reservation.Reservation) ReservationResponse {
	return ReservationResponse{
		ID: r.ID, ShopID: r.ShopID, UserID: r.UserID,
		Day: r.Day.Format(dayFormat), Time: r.Time.String(),
		Count: r.Count, Status: string(r.Status),
		Note: r.Note, CreatedAt: r.CreatedAt,
	}
}

// Create godoc
// @Summary 予約を作成
// @Description 指定枠の空きを確認し、保留状態の予約を作成します
// @Tags reservations
// @Accept json
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param request body CreateReservationRequest true "予約情報"
// @Success 201 {object} ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string "満席または同日の予約が既に存在"
// @Router /reservations [post]
func (h *ReservationHandler) Create(c echo.Context) error {
	userID := c.Request().Header.Get("X-User-ID")
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
	}
	var req CreateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	day, err := time.Parse(dayFormat, req.Day)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効な日付です")
	}
	t, err := slot.ParseTimeOfDay(req.Time)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効な時刻です")
	}
	r, err := h.service.CreateReservation(c.Request().Context(), application.CreateReservationInput{
		ShopID: req.ShopID, UserID: userID, Day: day, Time: t, Count: req.Count, Note: req.Note,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toReservationResponse(r))
}

// GetByID godoc
// @Summary 予約を取得
// @Description 自分の予約を取得します（他人の予約は参照不可）
// @Tags reservations
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param id path string true "予約ID"
// @Success 200 {object} ReservationResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /reservations/{id} [get]
func (h *ReservationHandler) GetByID(c echo.Context) error {
	userID := c.Request().Header.Get("X-User-ID")
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
	}
	r, err := h.service.GetReservation(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toReservationResponse(r))
}

// List godoc
// @Summary 自分の予約一覧を取得
// @Tags reservations
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} ReservationResponse
// @Failure 401 {object} map[string]string
// @Router /reservations [get]
func (h *ReservationHandler) List(c echo.Context) error {
	userID := c.Request().Header.Get("X-User-ID")
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	reservations, err := h.service.ListUserReservations(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return toHTTPError(err)
	}
	resp := make([]ReservationResponse, len(reservations))
	for i, r := range reservations {
		resp[i] = toReservationResponse(r)
	}
	return c.JSON(http.StatusOK, resp)
}

// CancelResponse は取消結果のレスポンス
type CancelResponse struct {
	Outcome string `json:"outcome" example:"deleted"`
}

// Cancel godoc
// @Summary 予約を取消
// @Description 保留中は削除、確定済みは失効扱いになります
// @Tags reservations
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param id path string true "予約ID"
// @Success 200 {object} CancelResponse
// @Failure 400 {object} map[string]string "既に終了した予約"
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /reservations/{id} [delete]
func (h *ReservationHandler) Cancel(c echo.Context) error {
	userID := c.Request().Header.Get("X-User-ID")
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
	}
	outcome, err := h.service.CancelReservation(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, CancelResponse{Outcome: string(outcome)})
}

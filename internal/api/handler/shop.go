package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-shop-reservation/internal/application"
	"github.com/sanosuguru/go-shop-reservation/internal/domain/shop"
	"github.com/sanosuguru/go-shop-reservation/internal/domain/slot"
)

type ShopHandler struct {
	service ShopServiceInterface
}

func NewShopHandler(s ShopServiceInterface) *ShopHandler {
	return &ShopHandler{service: s}
}

type ShopRequest struct {
	Name                   string   `json:"name" validate:"required" example:"炭火焼鳥 さの"`
	ReservationWindowWeeks int      `json:"reservation_window_weeks" validate:"required,min=1" example:"2"`
	MaxConcurrentGuests    int      `json:"max_concurrent_guests" validate:"required,min=1" example:"8"`
	OpenWeekdays           []int    `json:"open_weekdays" validate:"required,min=1,dive,min=0,max=6" example:"1,3,5"`
	OpenTimes              []string `json:"open_times" validate:"required,min=1" example:"09:00,18:00"`
}

type ShopResponse struct {
	ID                     string    `json:"id"`
	PartnerID              string    `json:"partner_id"`
	Name                   string    `json:"name"`
	ReservationWindowWeeks int       `json:"reservation_window_weeks"`
	MaxConcurrentGuests    int       `json:"max_concurrent_guests"`
	OpenWeekdays           []int     `json:"open_weekdays"`
	OpenTimes              []string  `json:"open_times"`
	CreatedAt              time.Time `json:"created_at"`
}

func toShopResponse(s *shop.Shop) ShopResponse {
	weekdays := make([]int, 0, len(s.OpenWeekdays))
	for w := time.Sunday; w <= time.Saturday; w++ {
		if s.OpenWeekdays[w] {
			weekdays = append(weekdays, int(w))
		}
	}
	times := make([]string, len(s.OpenTimes))
	for i, t := range s.OpenTimes {
		times[i] = t.String()
	}
	return ShopResponse{
		ID: s.ID, PartnerID: s.PartnerID, Name: s.Name,
		ReservationWindowWeeks: s.ReservationWindowWeeks,
		MaxConcurrentGuests:    s.MaxConcurrentGuests,
		OpenWeekdays:           weekdays, OpenTimes: times,
		CreatedAt: s.CreatedAt,
	}
}

func (r *ShopRequest) toInput(partnerID, shopID string) (application.UpdateShopInput, error) {
	weekdays := make([]time.Weekday, len(r.OpenWeekdays))
	for i, w := range r.OpenWeekdays {
		weekdays[i] = time.Weekday(w)
	}
	times := make([]slot.TimeOfDay, len(r.OpenTimes))
	for i, s := range r.OpenTimes {
		t, err := slot.ParseTimeOfDay(s)
		if err != nil {
			return application.UpdateShopInput{}, err
		}
		times[i] = t
	}
	return application.UpdateShopInput{
		PartnerID: partnerID, ShopID: shopID, Name: r.Name,
		ReservationWindowWeeks: r.ReservationWindowWeeks,
		MaxConcurrentGuests:    r.MaxConcurrentGuests,
		OpenWeekdays:           weekdays, OpenTimes: times,
	}, nil
}

// Create godoc
// @Summary 店舗を登録
// @Tags shops
// @Accept json
// @Produce json
// @Param X-Partner-ID header string true "パートナーID"
// @Param request body ShopRequest true "店舗情報"
// @Success 201 {object} ShopResponse
// @Failure 400 {object} map[string]string
// @Router /partner/shops [post]
func (h *ShopHandler) Create(c echo.Context) error {
	pid, err := partnerID(c)
	if err != nil {
		return err
	}
	var req ShopRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	input, err := req.toInput(pid, "")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効な時刻です")
	}
	s, err := h.service.CreateShop(c.Request().Context(), application.CreateShopInput{
		PartnerID: pid, Name: input.Name,
		ReservationWindowWeeks: input.ReservationWindowWeeks,
		MaxConcurrentGuests:    input.MaxConcurrentGuests,
		OpenWeekdays:           input.OpenWeekdays, OpenTimes: input.OpenTimes,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toShopResponse(s))
}

// GetByID godoc
// @Summary 店舗を取得
// @Tags shops
// @Produce json
// @Param id path string true "店舗ID"
// @Success 200 {object} ShopResponse
// @Failure 404 {object} map[string]string
// @Router /shops/{id} [get]
func (h *ShopHandler) GetByID(c echo.Context) error {
	s, err := h.service.GetShop(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toShopResponse(s))
}

// List godoc
// @Summary パートナーの店舗一覧
// @Tags shops
// @Produce json
// @Param X-Partner-ID header string true "パートナーID"
// @Success 200 {array} ShopResponse
// @Router /partner/shops [get]
func (h *ShopHandler) List(c echo.Context) error {
	pid, err := partnerID(c)
	if err != nil {
		return err
	}
	shops, err := h.service.ListPartnerShops(c.Request().Context(), pid)
	if err != nil {
		return toHTTPError(err)
	}
	resp := make([]ShopResponse, len(shops))
	for i, s := range shops {
		resp[i] = toShopResponse(s)
	}
	return c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary 店舗設定を変更
// @Tags shops
// @Accept json
// @Produce json
// @Param X-Partner-ID header string true "パートナーID"
// @Param id path string true "店舗ID"
// @Param request body ShopRequest true "店舗情報"
// @Success 200 {object} ShopResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /partner/shops/{id} [put]
func (h *ShopHandler) Update(c echo.Context) error {
	pid, err := partnerID(c)
	if err != nil {
		return err
	}
	var req ShopRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	input, err := req.toInput(pid, c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効な時刻です")
	}
	s, err := h.service.UpdateShop(c.Request().Context(), input)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toShopResponse(s))
}

// Delete godoc
// @Summary 店舗を削除
// @Description 論理削除。既存予約の履歴は保持されます
// @Tags shops
// @Param X-Partner-ID header string true "パートナーID"
// @Param id path string true "店舗ID"
// @Success 204
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /partner/shops/{id} [delete]
func (h *ShopHandler) Delete(c echo.Context) error {
	pid, err := partnerID(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteShop(c.Request().Context(), pid, c.Param("id")); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-shop-reservation/internal/domain/reservation"
)

func TestPartnerHandler_Confirm(t *testing.T) {
	e := NewTestEcho()

	t.Run("保留中の予約を承認できる", func(t *testing.T) {
		confirmed := sampleReservation()
		confirmed.Status = reservation.StatusConfirmed

		mockService := new(MockReservationService)
		mockService.On("ConfirmReservation", mock.Anything, "partner-1", "res-123").
			Return(confirmed, nil)

		req := httptest.NewRequest(http.MethodPost, "/partner/reservations/res-123/confirm", nil)
		req.Header.Set("X-Partner-ID", "partner-1")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("res-123")

		h := NewPartnerHandler(mockService)
		require.NoError(t, h.Confirm(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp ReservationResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "confirmed", resp.Status)
	})

	t.Run("パートナーIDなしは401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/partner/reservations/res-123/confirm", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		h := NewPartnerHandler(new(MockReservationService))
		err := h.Confirm(c)

		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})

	t.Run("他店の予約は403", func(t *testing.T) {
		mockService := new(MockReservationService)
		mockService.On("ConfirmReservation", mock.Anything, "partner-2", "res-123").
			Return(nil, reservation.ErrNotOwner)

		req := httptest.NewRequest(http.MethodPost, "/partner/reservations/res-123/confirm", nil)
		req.Header.Set("X-Partner-ID", "partner-2")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("res-123")

		h := NewPartnerHandler(mockService)
		err := h.Confirm(c)

		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusForbidden, he.Code)
	})

	t.Run("当日以降の承認は400", func(t *testing.T) {
		mockService := new(MockReservationService)
		mockService.On("ConfirmReservation", mock.Anything, "partner-1", "res-123").
			Return(nil, reservation.ErrTimeOver)

		req := httptest.NewRequest(http.MethodPost, "/partner/reservations/res-123/confirm", nil)
		req.Header.Set("X-Partner-ID", "partner-1")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("res-123")

		h := NewPartnerHandler(mockService)
		err := h.Confirm(c)

		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, he.Code)
	})
}

func TestPartnerHandler_Visit(t *testing.T) {
	e := NewTestEcho()

	t.Run("予約時刻前の来店を記録できる", func(t *testing.T) {
		visited := sampleReservation()
		visited.Status = reservation.StatusVisited

		mockService := new(MockReservationService)
		mockService.On("VisitReservation", mock.Anything, "partner-1", "res-123").
			Return(visited, nil)

		req := httptest.NewRequest(http.MethodPost, "/partner/reservations/res-123/visit", nil)
		req.Header.Set("X-Partner-ID", "partner-1")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("res-123")

		h := NewPartnerHandler(mockService)
		require.NoError(t, h.Visit(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("予約時刻を過ぎた来店は400", func(t *testing.T) {
		mockService := new(MockReservationService)
		mockService.On("VisitReservation", mock.Anything, "partner-1", "res-123").
			Return(nil, reservation.ErrTimeOver)

		req := httptest.NewRequest(http.MethodPost, "/partner/reservations/res-123/visit", nil)
		req.Header.Set("X-Partner-ID", "partner-1")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("res-123")

		h := NewPartnerHandler(mockService)
		err := h.Visit(c)

		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, he.Code)
	})
}

func TestPartnerHandler_Lookup(t *testing.T) {
	e := NewTestEcho()

	t.Run("受付窓の中の予約を検索できる", func(t *testing.T) {
		confirmed := sampleReservation()
		confirmed.Status = reservation.StatusConfirmed

		mockService := new(MockReservationService)
		mockService.On("LookupForVisit", mock.Anything, "partner-1", "shop-1", "090-1234-5678").
			Return(confirmed, nil)

		req := httptest.NewRequest(http.MethodGet, "/partner/shops/shop-1/visits/lookup?phone=090-1234-5678", nil)
		req.Header.Set("X-Partner-ID", "partner-1")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("shop_id")
		c.SetParamValues("shop-1")

		h := NewPartnerHandler(mockService)
		require.NoError(t, h.Lookup(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("電話番号なしは400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/partner/shops/shop-1/visits/lookup", nil)
		req.Header.Set("X-Partner-ID", "partner-1")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		h := NewPartnerHandler(new(MockReservationService))
		err := h.Lookup(c)

		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, he.Code)
	})

	t.Run("窓の外の予約は404", func(t *testing.T) {
		mockService := new(MockReservationService)
		mockService.On("LookupForVisit", mock.Anything, "partner-1", "shop-1", "090-1234-5678").
			Return(nil, reservation.ErrReservationNotFound)

		req := httptest.NewRequest(http.MethodGet, "/partner/shops/shop-1/visits/lookup?phone=090-1234-5678", nil)
		req.Header.Set("X-Partner-ID", "partner-1")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("shop_id")
		c.SetParamValues("shop-1")

		h := NewPartnerHandler(mockService)
		err := h.Lookup(c)

		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, he.Code)
	})
}

func TestPartnerHandler_ListByDay(t *testing.T) {
	e := NewTestEcho()

	t.Run("日別の予約一覧を取得できる", func(t *testing.T) {
		day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
		mockService := new(MockReservationService)
		mockService.On("ListShopReservations", mock.Anything, "partner-1", "shop-1", day).
			Return([]*reservation.Reservation{sampleReservation()}, nil)

		req := httptest.NewRequest(http.MethodGet, "/partner/shops/shop-1/reservations?day=2025-06-02", nil)
		req.Header.Set("X-Partner-ID", "partner-1")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("shop_id")
		c.SetParamValues("shop-1")

		h := NewPartnerHandler(mockService)
		require.NoError(t, h.ListByDay(c))

		var resp []ReservationResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp, 1)
	})

	t.Run("不正な日付は400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/partner/shops/shop-1/reservations?day=tomorrow", nil)
		req.Header.Set("X-Partner-ID", "partner-1")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		h := NewPartnerHandler(new(MockReservationService))
		err := h.ListByDay(c)

		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, he.Code)
	})
}

package shop

import (
	"time"

	"github.com/google/uuid"

	"github.com/sanosuguru/go-shop-reservation/internal/domain/slot"
)

// Shop は店舗エンティティを表す
type Shop struct {
	ID        string
	PartnerID string
	Name      string
	// ReservationWindowWeeks は何週間先まで予約を受け付けるか
	ReservationWindowWeeks int
	// MaxConcurrentGuests は1枠あたりの定員
	MaxConcurrentGuests int
	// OpenWeekdays は営業曜日の集合
	OpenWeekdays map[time.Weekday]bool
	// OpenTimes は予約を受け付ける時刻（昇順）
	OpenTimes []slot.TimeOfDay
	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewShop は新しい店舗を作成する
func NewShop(partnerID, name string, windowWeeks, maxGuests int, weekdays []time.Weekday, times []slot.TimeOfDay) *Shop {
	now := time.Now()
	wd := make(map[time.Weekday]bool, len(weekdays))
	for _, w := range weekdays {
		wd[w] = true
	}
	return &Shop{
		ID:                     uuid.New().String(),
		PartnerID:              partnerID,
		Name:                   name,
		ReservationWindowWeeks: windowWeeks,
		MaxConcurrentGuests:    maxGuests,
		OpenWeekdays:           wd,
		OpenTimes:              times,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
}

// Validate は店舗の検証を行う
func (s *Shop) Validate() error {
	if s.PartnerID == "" {
		return ErrPartnerIDRequired
	}
	if s.Name == "" {
		return ErrShopNameRequired
	}
	if s.ReservationWindowWeeks <= 0 {
		return ErrInvalidWindowWeeks
	}
	if s.MaxConcurrentGuests <= 0 {
		return ErrInvalidMaxGuests
	}
	return nil
}

// IsOwnedBy は店舗がパートナーの所有かを返す
func (s *Shop) IsOwnedBy(partnerID string) bool {
	return s.PartnerID == partnerID
}

// IsOpenOn は営業曜日かを返す
func (s *Shop) IsOpenOn(w time.Weekday) bool {
	return s.OpenWeekdays[w]
}

// IsOpenAt は予約受付時刻かを返す
func (s *Shop) IsOpenAt(t slot.TimeOfDay) bool {
	for _, ot := range s.OpenTimes {
		if ot == t {
			return true
		}
	}
	return false
}

// WithinWindow は予約日が受付期間内かを返す
// 今日は含まず、today + ReservationWindowWeeks 週の末日は含む
func (s *Shop) WithinWindow(today, day time.Time) bool {
	if !day.After(today) {
		return false
	}
	limit := today.AddDate(0, 0, s.ReservationWindowWeeks*7)
	return !day.After(limit)
}

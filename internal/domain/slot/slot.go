package slot

import (
	"fmt"
	"time"
)

// TimeOfDay は 0:00 からの経過分で表した時刻
// 予約枠の時刻は分単位で扱い、日付とは独立に比較する
type TimeOfDay int

// ParseTimeOfDay は "HH:MM" 形式の文字列を TimeOfDay に変換する
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("時刻の形式が不正です: %w", err)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

// TimeOfDayFrom は time.Time の時刻部分を TimeOfDay に変換する
func TimeOfDayFrom(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

func (t TimeOfDay) Hour() int {
	return int(t) / 60
}

func (t TimeOfDay) Minute() int {
	return int(t) % 60
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Slot は予約枠（店舗・日付・時刻の組）を表す
// 枠単位の定員という行横断の不変条件を守るため、排他の単位もこの組になる
type Slot struct {
	ShopID string
	Day    time.Time
	Time   TimeOfDay
}

func New(shopID string, day time.Time, t TimeOfDay) Slot {
	return Slot{ShopID: shopID, Day: day, Time: t}
}

// LockKey は枠の排他に使うロックキーを導出する
// 個々の予約行ではなく枠そのものを識別する安定した合成キー
func (s Slot) LockKey() string {
	return fmt.Sprintf("reservation:%s:%s:%s", s.ShopID, s.Day.Format("2006-01-02"), s.Time)
}

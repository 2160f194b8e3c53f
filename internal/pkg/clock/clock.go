package clock

import "time"

// Clock は現在時刻の取得元を抽象化する
// 予約の日付・時刻判定をテストで決定的にするために注入する
type Clock interface {
	Now() time.Time
}

// System は実時刻を返す Clock 実装
type System struct{}

func NewSystem() System {
	return System{}
}

func (System) Now() time.Time {
	return time.Now()
}

// Fixed は固定時刻を返す Clock 実装（テスト用）
type Fixed struct {
	t time.Time
}

func NewFixed(t time.Time) *Fixed {
	return &Fixed{t: t}
}

func (f *Fixed) Now() time.Time {
	return f.t
}

// Set は固定時刻を差し替える
func (f *Fixed) Set(t time.Time) {
	f.t = t
}

// Today は時刻部分を切り捨てた「今日」の日付を返す
func Today(c Clock) time.Time {
	return DateOf(c.Now())
}

// DateOf は時刻部分を切り捨てて日付のみにする
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

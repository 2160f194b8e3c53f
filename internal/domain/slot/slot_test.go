package slot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeOfDay
		wantErr bool
	}{
		{name: "午前の時刻", input: "09:00", want: TimeOfDay(9 * 60)},
		{name: "午後の時刻", input: "18:30", want: TimeOfDay(18*60 + 30)},
		{name: "深夜0時", input: "00:00", want: TimeOfDay(0)},
		{name: "形式が不正", input: "9時", wantErr: true},
		{name: "範囲外の時", input: "25:00", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeOfDay_String(t *testing.T) {
	assert.Equal(t, "09:05", TimeOfDay(9*60+5).String())
	assert.Equal(t, "23:59", TimeOfDay(23*60+59).String())
}

func TestTimeOfDayFrom(t *testing.T) {
	got := TimeOfDayFrom(time.Date(2025, 6, 1, 18, 30, 45, 0, time.UTC))
	assert.Equal(t, TimeOfDay(18*60+30), got)
}

func TestSlot_LockKey(t *testing.T) {
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	s := New("shop-1", day, TimeOfDay(9*60))

	assert.Equal(t, "reservation:shop-1:2025-06-02:09:00", s.LockKey())
}

func TestSlot_LockKey_SameSlotSameKey(t *testing.T) {
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	// 同一枠なら導出キーも同一（排他の単位が行ではなく枠であること）
	a := New("shop-1", day, TimeOfDay(9*60)).LockKey()
	b := New("shop-1", day, TimeOfDay(9*60)).LockKey()
	assert.Equal(t, a, b)

	// 枠が違えばキーも違い、並行処理を妨げない
	c := New("shop-1", day, TimeOfDay(10*60)).LockKey()
	assert.NotEqual(t, a, c)
	d := New("shop-2", day, TimeOfDay(9*60)).LockKey()
	assert.NotEqual(t, a, d)
}

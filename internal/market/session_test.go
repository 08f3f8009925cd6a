package market

import (
	"testing"
	"time"

	"kis-tradegw/internal/types"

	"github.com/stretchr/testify/assert"
)

func kst(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, seoul)
}

func TestPhase(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want types.SessionPhase
	}{
		{"saturday midday", kst(2024, time.March, 16, 12, 0), types.SessionClosed},
		{"sunday premarket hours", kst(2024, time.March, 17, 8, 45), types.SessionClosed},
		{"monday early morning", kst(2024, time.March, 18, 7, 0), types.SessionClosed},
		{"monday premarket", kst(2024, time.March, 18, 8, 45), types.SessionPremarket},
		{"monday premarket boundary", kst(2024, time.March, 18, 8, 30), types.SessionPremarket},
		{"monday open boundary", kst(2024, time.March, 18, 9, 0), types.SessionOpen},
		{"monday open", kst(2024, time.March, 18, 9, 15), types.SessionOpen},
		{"monday just before close", kst(2024, time.March, 18, 15, 29), types.SessionOpen},
		{"monday aftermarket boundary", kst(2024, time.March, 18, 15, 30), types.SessionAftermarket},
		{"monday aftermarket", kst(2024, time.March, 18, 16, 0), types.SessionAftermarket},
		{"monday evening", kst(2024, time.March, 18, 18, 0), types.SessionClosed},
		{"friday late night", kst(2024, time.March, 22, 23, 59), types.SessionClosed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Phase(tt.at))
		})
	}
}

func TestStatusFields(t *testing.T) {
	st := Status(kst(2024, time.March, 18, 9, 15))
	assert.True(t, st.IsTradingDay)
	assert.Equal(t, types.SessionOpen, st.Phase)
	assert.Equal(t, "2024-03-18 09:15:00 KST", st.CurrentTime)
	assert.Equal(t, "09:00", st.MarketOpen)
	assert.Equal(t, "15:30", st.MarketClose)

	st = Status(kst(2024, time.March, 16, 9, 15))
	assert.False(t, st.IsTradingDay)
	assert.Equal(t, types.SessionClosed, st.Phase)
}

func TestPhaseUTCInputIsConvertedToKST(t *testing.T) {
	// 00:15 UTC Monday is 09:15 KST Monday.
	at := time.Date(2024, time.March, 18, 0, 15, 0, 0, time.UTC)
	assert.Equal(t, types.SessionOpen, Phase(at))
}

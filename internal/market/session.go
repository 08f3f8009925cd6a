package market

import (
	"time"

	"kis-tradegw/internal/types"
)

// KRX session boundaries, minutes after midnight KST.
const (
	premarketStartMin = 8*60 + 30
	openMin           = 9 * 60
	closeMin          = 15*60 + 30
	aftermarketEndMin = 18 * 60
)

var seoul = loadSeoul()

func loadSeoul() *time.Location {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		return time.FixedZone("KST", 9*60*60)
	}
	return loc
}

// Phase classifies a wall-clock instant into the KRX session phase. Weekends
// are closed regardless of time. Exchange holidays are not checked; this is
// a weekday-only approximation.
func Phase(t time.Time) types.SessionPhase {
	t = t.In(seoul)
	if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return types.SessionClosed
	}
	minutes := t.Hour()*60 + t.Minute()
	switch {
	case minutes < premarketStartMin:
		return types.SessionClosed
	case minutes < openMin:
		return types.SessionPremarket
	case minutes < closeMin:
		return types.SessionOpen
	case minutes < aftermarketEndMin:
		return types.SessionAftermarket
	default:
		return types.SessionClosed
	}
}

type SessionStatus struct {
	IsTradingDay   bool               `json:"is_trading_day"`
	Phase          types.SessionPhase `json:"market_status"`
	CurrentTime    string             `json:"current_time"`
	MarketOpen     string             `json:"market_open_time"`
	MarketClose    string             `json:"market_close_time"`
	PremarketStart string             `json:"premarket_start"`
	AftermarketEnd string             `json:"aftermarket_end"`
}

// Status reports the session phase together with the fixed clock fields.
func Status(now time.Time) SessionStatus {
	now = now.In(seoul)
	wd := now.Weekday()
	return SessionStatus{
		IsTradingDay:   wd != time.Saturday && wd != time.Sunday,
		Phase:          Phase(now),
		CurrentTime:    now.Format("2006-01-02 15:04:05 KST"),
		MarketOpen:     "09:00",
		MarketClose:    "15:30",
		PremarketStart: "08:30",
		AftermarketEnd: "18:00",
	}
}

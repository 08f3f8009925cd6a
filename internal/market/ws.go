package market

import (
	"net/http"
	"strings"
	"time"

	"kis-tradegw/internal/broker"
	"kis-tradegw/internal/validate"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

type quoteMessage struct {
	Type      string `json:"type"`
	Code      string `json:"stock_code"`
	Price     string `json:"current_price"`
	Change    string `json:"change"`
	ChangePct string `json:"change_rate"`
	Volume    string `json:"volume"`
	Timestamp int64  `json:"ts"`
}

// QuoteWS streams quote snapshots for a single stock over a websocket.
// Snapshots are polled from the brokerage, not pushed by it, so the
// interval is kept coarse to stay inside the per-app rate limits.
type QuoteWS struct {
	adapter  broker.Adapter
	log      zerolog.Logger
	upgrader websocket.Upgrader
	interval time.Duration
}

func NewQuoteWS(adapter broker.Adapter, origin string, log zerolog.Logger) *QuoteWS {
	return &QuoteWS{
		adapter:  adapter,
		log:      log,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return allowOrigin(r, origin) }},
		interval: 2 * time.Second,
	}
}

func allowOrigin(r *http.Request, origin string) bool {
	if origin == "*" {
		return true
	}
	return strings.EqualFold(r.Header.Get("Origin"), origin)
}

func (h *QuoteWS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(r.URL.Query().Get("code"))
	if validate.StockCode(code) != nil {
		http.Error(w, "code must be exactly 6 digits", http.StatusBadRequest)
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	for {
		select {
		case <-ticker.C:
			q, err := h.adapter.GetQuote(r.Context(), code)
			if err != nil {
				h.log.Warn().Err(err).Str("code", code).Msg("ws quote poll failed")
				continue
			}
			msg := quoteMessage{
				Type:      "quote",
				Code:      q.Code,
				Price:     q.Price.String(),
				Change:    q.Change.String(),
				ChangePct: q.ChangeRate.String(),
				Volume:    q.Volume.String(),
				Timestamp: time.Now().UTC().Unix(),
			}
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

package market

import (
	"net/http"
	"strconv"
	"time"

	"kis-tradegw/internal/broker"
	"kis-tradegw/internal/httputil"
	"kis-tradegw/internal/types"
	"kis-tradegw/internal/validate"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const (
	defaultChartCount = 20
	maxChartCount     = 100
)

type Handler struct {
	adapter broker.Adapter
	log     zerolog.Logger
	WS      http.Handler
	now     func() time.Time
}

func NewHandler(adapter broker.Adapter, wsOrigin string, log zerolog.Logger) *Handler {
	return &Handler{
		adapter: adapter,
		log:     log,
		WS:      NewQuoteWS(adapter, wsOrigin, log),
		now:     time.Now,
	}
}

func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if err := validate.StockCode(code); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	quote, err := h.adapter.GetQuote(r.Context(), code)
	if err != nil {
		h.log.Error().Err(err).Str("code", code).Msg("quote lookup failed")
		httputil.WriteJSON(w, http.StatusBadGateway, httputil.ErrorResponse{Error: "quote lookup for " + code + " failed: " + err.Error()})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, quote)
}

func (h *Handler) Orderbook(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if err := validate.StockCode(code); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	ob, err := h.adapter.GetOrderbook(r.Context(), code)
	if err != nil {
		h.log.Error().Err(err).Str("code", code).Msg("orderbook lookup failed")
		httputil.WriteJSON(w, http.StatusBadGateway, httputil.ErrorResponse{Error: "orderbook lookup for " + code + " failed: " + err.Error()})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ob)
}

type chartResponse struct {
	Code   string            `json:"stock_code"`
	Period types.ChartPeriod `json:"period"`
	Data   []chartCandleJSON `json:"data"`
}

type chartCandleJSON struct {
	Date   string `json:"date"`
	Open   string `json:"open"`
	High   string `json:"high"`
	Low    string `json:"low"`
	Close  string `json:"close"`
	Volume string `json:"volume"`
}

func (h *Handler) Chart(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if err := validate.StockCode(code); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	period := types.ChartPeriod(r.URL.Query().Get("period"))
	if period == "" {
		period = types.ChartPeriodDay
	}
	if !period.Valid() {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "period must be day, week or month"})
		return
	}
	count := defaultChartCount
	if v := r.URL.Query().Get("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxChartCount {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "count must be an integer between 1 and 100"})
			return
		}
		count = n
	}
	candles, err := h.adapter.GetChart(r.Context(), code, period, count)
	if err != nil {
		h.log.Error().Err(err).Str("code", code).Msg("chart lookup failed")
		httputil.WriteJSON(w, http.StatusBadGateway, httputil.ErrorResponse{Error: "chart lookup for " + code + " failed: " + err.Error()})
		return
	}
	resp := chartResponse{Code: code, Period: period, Data: make([]chartCandleJSON, 0, len(candles))}
	for _, c := range candles {
		resp.Data = append(resp.Data, chartCandleJSON{
			Date:   c.Date,
			Open:   c.Open.String(),
			High:   c.High.String(),
			Low:    c.Low.String(),
			Close:  c.Close.String(),
			Volume: c.Volume.String(),
		})
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, Status(h.now()))
}

package market

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kis-tradegw/internal/broker"
	"kis-tradegw/internal/model"
	"kis-tradegw/internal/types"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAdapter struct {
	quote      model.Quote
	candles    []model.Candle
	lastPeriod types.ChartPeriod
	lastCount  int
}

func (s *stubAdapter) GetBalance(ctx context.Context) (model.Balance, error) {
	return model.Balance{}, nil
}
func (s *stubAdapter) GetQuote(ctx context.Context, code string) (model.Quote, error) {
	return s.quote, nil
}
func (s *stubAdapter) GetOrderbook(ctx context.Context, code string) (model.Orderbook, error) {
	return model.Orderbook{Code: code, Asks: []model.OrderbookLevel{}, Bids: []model.OrderbookLevel{}}, nil
}
func (s *stubAdapter) GetChart(ctx context.Context, code string, period types.ChartPeriod, count int) ([]model.Candle, error) {
	s.lastPeriod = period
	s.lastCount = count
	return s.candles, nil
}
func (s *stubAdapter) SubmitOrder(ctx context.Context, req broker.SubmitRequest) (model.OrderResult, error) {
	return model.OrderResult{}, nil
}
func (s *stubAdapter) GetPendingOrders(ctx context.Context) ([]model.Order, error) { return nil, nil }
func (s *stubAdapter) CancelOrder(ctx context.Context, order model.Order) error    { return nil }
func (s *stubAdapter) GetPeriodProfit(ctx context.Context, start, end time.Time) (model.ProfitSummary, error) {
	return model.ProfitSummary{}, nil
}
func (s *stubAdapter) GetDailyExecutions(ctx context.Context, date time.Time) ([]model.Execution, error) {
	return nil, nil
}

func newTestRouter(a broker.Adapter) *chi.Mux {
	h := NewHandler(a, "*", zerolog.Nop())
	r := chi.NewRouter()
	r.Get("/v1/stocks/{code}/quote", h.Quote)
	r.Get("/v1/stocks/{code}/orderbook", h.Orderbook)
	r.Get("/v1/stocks/{code}/chart", h.Chart)
	r.Get("/v1/market/status", h.Status)
	return r
}

func get(t *testing.T, r http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestQuoteHandler(t *testing.T) {
	a := &stubAdapter{quote: model.Quote{Code: "005930", Price: decimal.NewFromInt(70000)}}
	r := newTestRouter(a)

	w := get(t, r, "/v1/stocks/005930/quote")
	require.Equal(t, http.StatusOK, w.Code)

	var q model.Quote
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &q))
	assert.Equal(t, "005930", q.Code)

	w = get(t, r, "/v1/stocks/59/quote")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChartHandlerDefaultsAndValidation(t *testing.T) {
	a := &stubAdapter{candles: []model.Candle{{Date: "2024-03-15"}}}
	r := newTestRouter(a)

	w := get(t, r, "/v1/stocks/005930/chart")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, types.ChartPeriodDay, a.lastPeriod)
	assert.Equal(t, 20, a.lastCount)

	w = get(t, r, "/v1/stocks/005930/chart?period=week&count=5")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, types.ChartPeriodWeek, a.lastPeriod)
	assert.Equal(t, 5, a.lastCount)

	w = get(t, r, "/v1/stocks/005930/chart?period=hour")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = get(t, r, "/v1/stocks/005930/chart?count=0")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = get(t, r, "/v1/stocks/005930/chart?count=101")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatusHandler(t *testing.T) {
	r := newTestRouter(&stubAdapter{})

	w := get(t, r, "/v1/market/status")
	require.Equal(t, http.StatusOK, w.Code)

	var st SessionStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	assert.Equal(t, "09:00", st.MarketOpen)
	assert.NotEmpty(t, st.CurrentTime)
}

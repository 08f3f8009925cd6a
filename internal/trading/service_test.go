package trading

import (
	"context"
	"errors"
	"testing"
	"time"

	"kis-tradegw/internal/broker"
	"kis-tradegw/internal/model"
	"kis-tradegw/internal/types"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdapter struct {
	balance model.Balance
	quote   model.Quote
	pending []model.Order
	result  model.OrderResult

	submitErr  error
	lastSubmit broker.SubmitRequest
	cancelled  []string
	cancelErr  error
}

func (f *fakeAdapter) GetBalance(ctx context.Context) (model.Balance, error) { return f.balance, nil }
func (f *fakeAdapter) GetQuote(ctx context.Context, code string) (model.Quote, error) {
	return f.quote, nil
}
func (f *fakeAdapter) GetOrderbook(ctx context.Context, code string) (model.Orderbook, error) {
	return model.Orderbook{Code: code}, nil
}
func (f *fakeAdapter) GetChart(ctx context.Context, code string, period types.ChartPeriod, count int) ([]model.Candle, error) {
	return nil, nil
}
func (f *fakeAdapter) SubmitOrder(ctx context.Context, req broker.SubmitRequest) (model.OrderResult, error) {
	f.lastSubmit = req
	return f.result, f.submitErr
}
func (f *fakeAdapter) GetPendingOrders(ctx context.Context) ([]model.Order, error) {
	return f.pending, nil
}
func (f *fakeAdapter) CancelOrder(ctx context.Context, order model.Order) error {
	f.cancelled = append(f.cancelled, order.ID)
	return f.cancelErr
}
func (f *fakeAdapter) GetPeriodProfit(ctx context.Context, start, end time.Time) (model.ProfitSummary, error) {
	return model.ProfitSummary{}, nil
}
func (f *fakeAdapter) GetDailyExecutions(ctx context.Context, date time.Time) ([]model.Execution, error) {
	return nil, nil
}

type fakeJournal struct {
	entries []model.JournalEntry
}

func (j *fakeJournal) Record(ctx context.Context, e model.JournalEntry) error {
	j.entries = append(j.entries, e)
	return nil
}

func newTestService(f *fakeAdapter) *Service {
	return NewService(f, nil, zerolog.Nop())
}

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestPlaceOrderLimitPending(t *testing.T) {
	f := &fakeAdapter{result: model.OrderResult{OrderID: "X1", Pending: true}}
	svc := newTestService(f)

	price := d(50000)
	res, err := svc.PlaceOrder(context.Background(), PlaceRequest{
		Code: "005930", Side: types.OrderSideBuy,
		Method: types.OrderMethodLimit, Quantity: d(10), Price: &price,
	})
	require.NoError(t, err)
	assert.Equal(t, "X1", res.OrderID)
	assert.Equal(t, types.OrderStatusPending, res.Status)
	assert.Equal(t, types.OrderMethodLimit, res.Method)
	require.NotNil(t, f.lastSubmit.Price)
	assert.True(t, f.lastSubmit.Price.Equal(price))
}

func TestPlaceOrderLimitWithoutPriceDegradesToMarket(t *testing.T) {
	f := &fakeAdapter{result: model.OrderResult{OrderID: "X2"}}
	svc := newTestService(f)

	res, err := svc.PlaceOrder(context.Background(), PlaceRequest{
		Code: "005930", Side: types.OrderSideSell,
		Method: types.OrderMethodLimit, Quantity: d(3),
	})
	require.NoError(t, err)
	assert.Equal(t, types.OrderMethodMarket, res.Method)
	assert.Nil(t, f.lastSubmit.Price)
	assert.Equal(t, types.OrderStatusUnknown, res.Status)

	zero := decimal.Zero
	res, err = svc.PlaceOrder(context.Background(), PlaceRequest{
		Code: "005930", Side: types.OrderSideSell,
		Method: types.OrderMethodLimit, Quantity: d(3), Price: &zero,
	})
	require.NoError(t, err)
	assert.Equal(t, types.OrderMethodMarket, res.Method)
	assert.Nil(t, f.lastSubmit.Price)
}

func TestPlaceOrderEmptyIDFails(t *testing.T) {
	f := &fakeAdapter{result: model.OrderResult{OrderID: ""}}
	svc := newTestService(f)

	res, err := svc.PlaceOrder(context.Background(), PlaceRequest{
		Code: "005930", Side: types.OrderSideBuy,
		Method: types.OrderMethodMarket, Quantity: d(1),
	})
	require.Error(t, err)
	assert.Equal(t, types.OrderStatusFailed, res.Status)
}

func TestCancelOrderNotFound(t *testing.T) {
	f := &fakeAdapter{pending: []model.Order{{ID: "A1", Pending: true}}}
	svc := newTestService(f)

	_, err := svc.CancelOrder(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOrderNotFound))
	assert.Empty(t, f.cancelled)
}

func TestCancelOrderNotPendingIsNotCancellable(t *testing.T) {
	f := &fakeAdapter{pending: []model.Order{{ID: "A1", Pending: false}}}
	svc := newTestService(f)

	res, err := svc.CancelOrder(context.Background(), "A1")
	require.NoError(t, err)
	assert.Equal(t, types.CancelStatusNotCancellable, res.Status)
	assert.Empty(t, f.cancelled)
}

func TestCancelOrderPending(t *testing.T) {
	f := &fakeAdapter{pending: []model.Order{
		{ID: "A1", Code: "005930", Side: types.OrderSideSell, PendingQuantity: d(4), Pending: true},
	}}
	svc := newTestService(f)

	res, err := svc.CancelOrder(context.Background(), "A1")
	require.NoError(t, err)
	assert.Equal(t, types.CancelStatusCancelled, res.Status)
	assert.Equal(t, []string{"A1"}, f.cancelled)
}

func TestCancelOrderJournalMethodFollowsPrice(t *testing.T) {
	f := &fakeAdapter{pending: []model.Order{
		{ID: "L1", Code: "005930", Side: types.OrderSideBuy, PendingQuantity: d(2), Price: d(50000), Pending: true},
		{ID: "M1", Code: "005930", Side: types.OrderSideBuy, PendingQuantity: d(2), Price: decimal.Zero, Pending: true},
	}}
	j := &fakeJournal{}
	svc := NewService(f, j, zerolog.Nop())

	_, err := svc.CancelOrder(context.Background(), "L1")
	require.NoError(t, err)
	_, err = svc.CancelOrder(context.Background(), "M1")
	require.NoError(t, err)

	require.Len(t, j.entries, 2)
	assert.Equal(t, string(types.OrderMethodLimit), j.entries[0].Method)
	// Snapshot carries no method; a zero price stays unknown, not "limit".
	assert.Equal(t, "", j.entries[1].Method)
}

func TestSellableQuantity(t *testing.T) {
	f := &fakeAdapter{
		balance: model.Balance{Holdings: []model.Holding{
			{Code: "005930", Quantity: d(10), CurrentPrice: d(70000), EvaluationAmount: d(700000)},
		}},
		pending: []model.Order{
			{ID: "S1", Code: "005930", Side: types.OrderSideSell, PendingQuantity: d(4), Pending: true},
			{ID: "B1", Code: "005930", Side: types.OrderSideBuy, PendingQuantity: d(2), Pending: true},
			{ID: "S2", Code: "000660", Side: types.OrderSideSell, PendingQuantity: d(9), Pending: true},
		},
	}
	svc := newTestService(f)

	res, err := svc.SellableQuantity(context.Background(), "005930")
	require.NoError(t, err)
	assert.Equal(t, "10", res.HeldQuantity)
	assert.Equal(t, "4", res.PendingSellQty)
	assert.Equal(t, "6", res.SellableQty)
}

func TestSellableQuantityFloorsAtZero(t *testing.T) {
	f := &fakeAdapter{
		balance: model.Balance{Holdings: []model.Holding{{Code: "005930", Quantity: d(3)}}},
		pending: []model.Order{
			{ID: "S1", Code: "005930", Side: types.OrderSideSell, PendingQuantity: d(5), Pending: true},
		},
	}
	svc := newTestService(f)

	res, err := svc.SellableQuantity(context.Background(), "005930")
	require.NoError(t, err)
	assert.Equal(t, "0", res.SellableQty)
}

func TestSellableQuantityUnheldStock(t *testing.T) {
	f := &fakeAdapter{balance: model.Balance{}}
	svc := newTestService(f)

	res, err := svc.SellableQuantity(context.Background(), "005930")
	require.NoError(t, err)
	assert.Equal(t, "0", res.HeldQuantity)
	assert.Equal(t, "0", res.SellableQty)
}

func TestBuyableAmountExplicitPrice(t *testing.T) {
	f := &fakeAdapter{balance: model.Balance{WithdrawableCash: d(1000000)}}
	svc := newTestService(f)

	price := d(70000)
	res, err := svc.BuyableAmount(context.Background(), "005930", &price)
	require.NoError(t, err)
	assert.Equal(t, "14", res.BuyableQuantity)
	assert.Equal(t, "980000", res.MaxBuyableAmount)
}

func TestBuyableAmountZeroPrice(t *testing.T) {
	f := &fakeAdapter{
		balance: model.Balance{WithdrawableCash: d(1000000)},
		quote:   model.Quote{Code: "005930", Price: decimal.Zero},
	}
	svc := newTestService(f)

	res, err := svc.BuyableAmount(context.Background(), "005930", nil)
	require.NoError(t, err)
	assert.Equal(t, "0", res.BuyableQuantity)
	assert.Equal(t, "0", res.MaxBuyableAmount)
}

func TestBuyableAmountUsesQuoteWhenPriceAbsent(t *testing.T) {
	f := &fakeAdapter{
		balance: model.Balance{WithdrawableCash: d(500000)},
		quote:   model.Quote{Code: "005930", Price: d(70000)},
	}
	svc := newTestService(f)

	res, err := svc.BuyableAmount(context.Background(), "005930", nil)
	require.NoError(t, err)
	assert.Equal(t, "70000", res.ReferencePrice)
	assert.Equal(t, "7", res.BuyableQuantity)
}

func TestPeriodProfitSwapsReversedRange(t *testing.T) {
	svc := newTestService(&fakeAdapter{})

	start := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	res, err := svc.PeriodProfit(context.Background(), start, end)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10", res.Start)
	assert.Equal(t, "2024-03-20", res.End)
}

package broker

import (
	"context"
	"time"

	"kis-tradegw/internal/model"
	"kis-tradegw/internal/types"

	"github.com/shopspring/decimal"
)

// SubmitRequest carries a validated order submission. Price is nil for
// market orders.
type SubmitRequest struct {
	Code     string
	Side     types.OrderSide
	Quantity decimal.Decimal
	Price    *decimal.Decimal
}

// Adapter abstracts the brokerage backend. Implementations normalize the
// backend's ad-hoc response shapes into the strict model types; missing
// optional fields default to zero/empty and never surface as nulls. Every
// call is a blocking network round-trip and honors ctx.
type Adapter interface {
	GetBalance(ctx context.Context) (model.Balance, error)
	GetQuote(ctx context.Context, code string) (model.Quote, error)
	GetOrderbook(ctx context.Context, code string) (model.Orderbook, error)
	GetChart(ctx context.Context, code string, period types.ChartPeriod, count int) ([]model.Candle, error)
	SubmitOrder(ctx context.Context, req SubmitRequest) (model.OrderResult, error)
	GetPendingOrders(ctx context.Context) ([]model.Order, error)
	CancelOrder(ctx context.Context, order model.Order) error
	GetPeriodProfit(ctx context.Context, start, end time.Time) (model.ProfitSummary, error)
	GetDailyExecutions(ctx context.Context, date time.Time) ([]model.Execution, error)
}

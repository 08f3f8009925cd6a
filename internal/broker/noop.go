package broker

import (
	"context"
	"errors"
	"time"

	"kis-tradegw/internal/model"
	"kis-tradegw/internal/types"
)

var errNotConfigured = errors.New("broker adapter not configured")

// DisabledAdapter rejects every call. It is wired when KIS credentials are
// absent so the HTTP surface still comes up for health checks.
type DisabledAdapter struct{}

func NewDisabledAdapter() *DisabledAdapter {
	return &DisabledAdapter{}
}

func (a *DisabledAdapter) GetBalance(ctx context.Context) (model.Balance, error) {
	return model.Balance{}, errNotConfigured
}

func (a *DisabledAdapter) GetQuote(ctx context.Context, code string) (model.Quote, error) {
	return model.Quote{}, errNotConfigured
}

func (a *DisabledAdapter) GetOrderbook(ctx context.Context, code string) (model.Orderbook, error) {
	return model.Orderbook{}, errNotConfigured
}

func (a *DisabledAdapter) GetChart(ctx context.Context, code string, period types.ChartPeriod, count int) ([]model.Candle, error) {
	return nil, errNotConfigured
}

func (a *DisabledAdapter) SubmitOrder(ctx context.Context, req SubmitRequest) (model.OrderResult, error) {
	return model.OrderResult{}, errNotConfigured
}

func (a *DisabledAdapter) GetPendingOrders(ctx context.Context) ([]model.Order, error) {
	return nil, errNotConfigured
}

func (a *DisabledAdapter) CancelOrder(ctx context.Context, order model.Order) error {
	return errNotConfigured
}

func (a *DisabledAdapter) GetPeriodProfit(ctx context.Context, start, end time.Time) (model.ProfitSummary, error) {
	return model.ProfitSummary{}, errNotConfigured
}

func (a *DisabledAdapter) GetDailyExecutions(ctx context.Context, date time.Time) ([]model.Execution, error) {
	return nil, errNotConfigured
}

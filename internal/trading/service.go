package trading

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kis-tradegw/internal/broker"
	"kis-tradegw/internal/model"
	"kis-tradegw/internal/types"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

var ErrOrderNotFound = errors.New("order not found among pending orders")

// Journal is the audit sink for mutations. A nil journal disables auditing.
type Journal interface {
	Record(ctx context.Context, e model.JournalEntry) error
}

type Service struct {
	broker  broker.Adapter
	journal Journal
	log     zerolog.Logger
}

func NewService(adapter broker.Adapter, journal Journal, log zerolog.Logger) *Service {
	return &Service{broker: adapter, journal: journal, log: log}
}

func (s *Service) GetBalance(ctx context.Context) (model.Balance, error) {
	b, err := s.broker.GetBalance(ctx)
	if err != nil {
		return model.Balance{}, fmt.Errorf("fetch balance: %w", err)
	}
	return b, nil
}

// PlaceRequest is a validated order request. Price nil or non-positive on a
// limit order degrades the submission to a market order.
type PlaceRequest struct {
	Code     string
	Side     types.OrderSide
	Method   types.OrderMethod
	Quantity decimal.Decimal
	Price    *decimal.Decimal
}

type PlaceResult struct {
	OrderID string            `json:"order_id"`
	Status  types.OrderStatus `json:"status"`
	Code    string            `json:"stock_code"`
	Side    types.OrderSide   `json:"order_type"`
	Method  types.OrderMethod `json:"order_method"`
	Qty     string            `json:"quantity"`
	Price   string            `json:"price,omitempty"`
}

func (s *Service) PlaceOrder(ctx context.Context, req PlaceRequest) (PlaceResult, error) {
	method := req.Method
	price := req.Price
	if method == types.OrderMethodLimit && (price == nil || !price.IsPositive()) {
		// A limit order without a usable price cannot be priced; fall back to
		// market rather than reject, matching the backend's own behavior.
		s.log.Warn().Str("code", req.Code).Msg("limit order without positive price, submitting as market")
		method = types.OrderMethodMarket
		price = nil
	}
	if method == types.OrderMethodMarket {
		price = nil
	}

	res, err := s.broker.SubmitOrder(ctx, broker.SubmitRequest{
		Code:     req.Code,
		Side:     req.Side,
		Quantity: req.Quantity,
		Price:    price,
	})
	if err != nil {
		return PlaceResult{}, fmt.Errorf("submit %s order for %s: %w", req.Side, req.Code, err)
	}

	status := types.OrderStatusUnknown
	switch {
	case res.OrderID == "":
		status = types.OrderStatusFailed
	case res.Pending:
		status = types.OrderStatusPending
	}

	out := PlaceResult{
		OrderID: res.OrderID,
		Status:  status,
		Code:    req.Code,
		Side:    req.Side,
		Method:  method,
		Qty:     req.Quantity.String(),
	}
	if price != nil {
		out.Price = price.String()
	}
	s.audit(ctx, model.JournalEntry{
		Action:   "place",
		OrderID:  res.OrderID,
		Code:     req.Code,
		Side:     string(req.Side),
		Method:   string(method),
		Quantity: req.Quantity,
		Price:    derefOrZero(price),
		Status:   string(status),
	})
	if status == types.OrderStatusFailed {
		return out, fmt.Errorf("submit %s order for %s: backend returned no order id", req.Side, req.Code)
	}
	return out, nil
}

func (s *Service) PendingOrders(ctx context.Context) ([]model.Order, error) {
	orders, err := s.broker.GetPendingOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch pending orders: %w", err)
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return orders, nil
}

type CancelResult struct {
	OrderID string             `json:"order_id"`
	Status  types.CancelStatus `json:"status"`
}

// CancelOrder cancels the identified order if it is still pending. An order
// that exists but has nothing left to cancel yields not_cancellable, which
// is a normal outcome, not an error.
func (s *Service) CancelOrder(ctx context.Context, orderID string) (CancelResult, error) {
	orders, err := s.broker.GetPendingOrders(ctx)
	if err != nil {
		return CancelResult{}, fmt.Errorf("fetch pending orders: %w", err)
	}
	var target *model.Order
	for i := range orders {
		if orders[i].ID == orderID {
			target = &orders[i]
			break
		}
	}
	if target == nil {
		return CancelResult{}, fmt.Errorf("cancel order %s: %w", orderID, ErrOrderNotFound)
	}
	if !target.Pending {
		return CancelResult{OrderID: orderID, Status: types.CancelStatusNotCancellable}, nil
	}
	if err := s.broker.CancelOrder(ctx, *target); err != nil {
		return CancelResult{}, fmt.Errorf("cancel order %s: %w", orderID, err)
	}
	// The pending snapshot does not carry the order method; a positive
	// price implies limit, otherwise leave it unknown.
	method := ""
	if target.Price.IsPositive() {
		method = string(types.OrderMethodLimit)
	}
	s.audit(ctx, model.JournalEntry{
		Action:   "cancel",
		OrderID:  orderID,
		Code:     target.Code,
		Side:     string(target.Side),
		Method:   method,
		Quantity: target.PendingQuantity,
		Price:    target.Price,
		Status:   string(types.CancelStatusCancelled),
	})
	return CancelResult{OrderID: orderID, Status: types.CancelStatusCancelled}, nil
}

type SellableResult struct {
	Code            string `json:"stock_code"`
	HeldQuantity    string `json:"held_quantity"`
	PendingSellQty  string `json:"pending_sell_quantity"`
	SellableQty     string `json:"sellable_quantity"`
	CurrentPrice    string `json:"current_price"`
	EvaluationValue string `json:"evaluation_amount"`
}

// SellableQuantity reports how many shares of code can still be sold:
// held quantity minus quantity tied up in pending sell orders, floored at
// zero. Balance and pending orders are fetched concurrently.
func (s *Service) SellableQuantity(ctx context.Context, code string) (SellableResult, error) {
	var (
		balance model.Balance
		pending []model.Order
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		balance, err = s.broker.GetBalance(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		pending, err = s.broker.GetPendingOrders(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return SellableResult{}, fmt.Errorf("compute sellable quantity for %s: %w", code, err)
	}

	var held, price, evaluation decimal.Decimal
	for _, h := range balance.Holdings {
		if h.Code == code {
			held = h.Quantity
			price = h.CurrentPrice
			evaluation = h.EvaluationAmount
			break
		}
	}
	pendingSell := decimal.Zero
	for _, o := range pending {
		if o.Code == code && o.Side == types.OrderSideSell {
			pendingSell = pendingSell.Add(o.PendingQuantity)
		}
	}
	sellable := held.Sub(pendingSell)
	if sellable.IsNegative() {
		sellable = decimal.Zero
	}
	return SellableResult{
		Code:            code,
		HeldQuantity:    held.String(),
		PendingSellQty:  pendingSell.String(),
		SellableQty:     sellable.String(),
		CurrentPrice:    price.String(),
		EvaluationValue: evaluation.String(),
	}, nil
}

type BuyableResult struct {
	Code             string `json:"stock_code"`
	Cash             string `json:"buyable_cash"`
	ReferencePrice   string `json:"reference_price"`
	BuyableQuantity  string `json:"buyable_quantity"`
	MaxBuyableAmount string `json:"max_buyable_amount"`
}

// BuyableAmount reports how many shares of code the withdrawable cash can
// buy at the given price, or at the live quote when price is nil. A zero
// reference price yields zero quantity rather than an error.
func (s *Service) BuyableAmount(ctx context.Context, code string, price *decimal.Decimal) (BuyableResult, error) {
	balance, err := s.broker.GetBalance(ctx)
	if err != nil {
		return BuyableResult{}, fmt.Errorf("compute buyable amount for %s: %w", code, err)
	}
	ref := decimal.Zero
	if price != nil {
		ref = *price
	} else {
		quote, err := s.broker.GetQuote(ctx, code)
		if err != nil {
			return BuyableResult{}, fmt.Errorf("compute buyable amount for %s: %w", code, err)
		}
		ref = quote.Price
	}

	cash := balance.WithdrawableCash
	qty := decimal.Zero
	if ref.IsPositive() {
		qty = cash.Div(ref).Floor()
		if qty.IsNegative() {
			qty = decimal.Zero
		}
	}
	return BuyableResult{
		Code:             code,
		Cash:             cash.String(),
		ReferencePrice:   ref.String(),
		BuyableQuantity:  qty.String(),
		MaxBuyableAmount: qty.Mul(ref).String(),
	}, nil
}

type PeriodProfitResult struct {
	Start string `json:"start_date"`
	End   string `json:"end_date"`
	model.ProfitSummary
}

func (s *Service) PeriodProfit(ctx context.Context, start, end time.Time) (PeriodProfitResult, error) {
	if end.Before(start) {
		start, end = end, start
	}
	summary, err := s.broker.GetPeriodProfit(ctx, start, end)
	if err != nil {
		return PeriodProfitResult{}, fmt.Errorf("fetch period profit: %w", err)
	}
	return PeriodProfitResult{
		Start:         start.Format("2006-01-02"),
		End:           end.Format("2006-01-02"),
		ProfitSummary: summary,
	}, nil
}

type DailyExecutionsResult struct {
	Date       string            `json:"date"`
	Executions []model.Execution `json:"executions"`
}

func (s *Service) DailyExecutions(ctx context.Context, date time.Time) (DailyExecutionsResult, error) {
	execs, err := s.broker.GetDailyExecutions(ctx, date)
	if err != nil {
		return DailyExecutionsResult{}, fmt.Errorf("fetch daily executions: %w", err)
	}
	if execs == nil {
		execs = []model.Execution{}
	}
	return DailyExecutionsResult{Date: date.Format("2006-01-02"), Executions: execs}, nil
}

// audit writes the journal entry best-effort; a journal failure never fails
// the trading call that produced it.
func (s *Service) audit(ctx context.Context, e model.JournalEntry) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Record(ctx, e); err != nil {
		s.log.Error().Err(err).Str("action", e.Action).Str("order_id", e.OrderID).Msg("journal write failed")
	}
}

func derefOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

package model

import (
	"time"

	"kis-tradegw/internal/types"

	"github.com/shopspring/decimal"
)

// Balance is a per-request snapshot of the brokerage account. Amounts are
// passed through from the backend unvalidated; margin products may make
// cash negative.
type Balance struct {
	TotalEvaluation      decimal.Decimal `json:"total_evaluation_amount"`
	NetAsset             decimal.Decimal `json:"net_asset_amount"`
	WithdrawableCash     decimal.Decimal `json:"cash_balance"`
	SecuritiesEvaluation decimal.Decimal `json:"securities_evaluation_amount"`
	Holdings             []Holding       `json:"holdings"`
}

type Holding struct {
	Code             string          `json:"stock_code"`
	Name             string          `json:"item_name"`
	Quantity         decimal.Decimal `json:"quantity"`
	AvgPurchasePrice decimal.Decimal `json:"average_purchase_price"`
	CurrentPrice     decimal.Decimal `json:"current_price"`
	EvaluationAmount decimal.Decimal `json:"evaluation_amount"`
	ProfitLoss       decimal.Decimal `json:"profit_loss"`
	ProfitLossRatio  decimal.Decimal `json:"profit_loss_ratio"`
}

type Quote struct {
	Code         string          `json:"stock_code"`
	Price        decimal.Decimal `json:"current_price"`
	Change       decimal.Decimal `json:"change"`
	ChangeRate   decimal.Decimal `json:"change_percent"`
	Volume       decimal.Decimal `json:"volume"`
	TradingValue decimal.Decimal `json:"trading_value"`
	MarketCap    decimal.Decimal `json:"market_cap"`
	Open         decimal.Decimal `json:"open_price"`
	High         decimal.Decimal `json:"high_price"`
	Low          decimal.Decimal `json:"low_price"`
}

// Order is one entry of the pending-order snapshot. Branch is the KRX
// forwarding organization the backend requires to address the order on
// cancellation; it is internal and not exposed over HTTP.
type Order struct {
	ID              string          `json:"order_id"`
	Branch          string          `json:"-"`
	Code            string          `json:"stock_code"`
	Side            types.OrderSide `json:"order_type"`
	Quantity        decimal.Decimal `json:"quantity"`
	PendingQuantity decimal.Decimal `json:"pending_quantity"`
	Price           decimal.Decimal `json:"price"`
	OrderedAt       string          `json:"order_time"`
	Pending         bool            `json:"-"`
}

// OrderResult is the backend's acknowledgement of a submission. An empty
// OrderID means the submission failed.
type OrderResult struct {
	OrderID string
	Pending bool
}

type OrderbookLevel struct {
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
}

type Orderbook struct {
	Code string           `json:"stock_code"`
	Asks []OrderbookLevel `json:"asks"`
	Bids []OrderbookLevel `json:"bids"`
}

type Candle struct {
	Date   string          `json:"date"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume decimal.Decimal `json:"volume"`
}

type ProfitSummary struct {
	Profit     decimal.Decimal `json:"profit"`
	BuyAmount  decimal.Decimal `json:"buy_amount"`
	SellAmount decimal.Decimal `json:"sell_amount"`
	Trades     int             `json:"trading_count"`
}

type Execution struct {
	Code        string          `json:"stock_code"`
	Name        string          `json:"stock_name"`
	Side        types.OrderSide `json:"order_type"`
	OrderedQty  decimal.Decimal `json:"qty"`
	ExecutedQty decimal.Decimal `json:"executed_qty"`
	Price       decimal.Decimal `json:"price"`
	Amount      decimal.Decimal `json:"amount"`
	ExecutedAt  string          `json:"execution_time"`
}

// JournalEntry is a locally persisted record of a mutation issued through
// the gateway. It is an audit trail, not brokerage state.
type JournalEntry struct {
	ID        int64           `json:"id"`
	Action    string          `json:"action"`
	OrderID   string          `json:"order_id"`
	Code      string          `json:"stock_code"`
	Side      string          `json:"side"`
	Method    string          `json:"method"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

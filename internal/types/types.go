package types

type OrderSide string

type OrderMethod string

type OrderStatus string

type CancelStatus string

type ChartPeriod string

type SessionPhase string

const (
	OrderSideBuy  OrderSide = "buy"
	OrderSideSell OrderSide = "sell"
)

const (
	OrderMethodLimit  OrderMethod = "limit"
	OrderMethodMarket OrderMethod = "market"
)

const (
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusUnknown covers orders acknowledged without a pending flag:
	// the backend does not distinguish fill from rejection at submission time.
	OrderStatusUnknown OrderStatus = "executed_or_unknown"
	OrderStatusFailed  OrderStatus = "failed"
)

const (
	CancelStatusCancelled      CancelStatus = "cancelled"
	CancelStatusNotCancellable CancelStatus = "not_cancellable"
)

const (
	ChartPeriodDay   ChartPeriod = "day"
	ChartPeriodWeek  ChartPeriod = "week"
	ChartPeriodMonth ChartPeriod = "month"
)

const (
	SessionClosed      SessionPhase = "closed"
	SessionPremarket   SessionPhase = "premarket"
	SessionOpen        SessionPhase = "open"
	SessionAftermarket SessionPhase = "aftermarket"
)

func (s OrderSide) Valid() bool {
	return s == OrderSideBuy || s == OrderSideSell
}

func (m OrderMethod) Valid() bool {
	return m == OrderMethodLimit || m == OrderMethodMarket
}

func (p ChartPeriod) Valid() bool {
	return p == ChartPeriodDay || p == ChartPeriodWeek || p == ChartPeriodMonth
}

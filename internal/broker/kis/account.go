package kis

import (
	"context"
	"net/http"
	"time"

	"kis-tradegw/internal/broker"
	"kis-tradegw/internal/model"
	"kis-tradegw/internal/types"
)

// Compile-time interface check.
var _ broker.Adapter = (*Client)(nil)

const (
	balancePath   = "/uapi/domestic-stock/v1/trading/inquire-balance"
	orderCashPath = "/uapi/domestic-stock/v1/trading/order-cash"
	cancelPath    = "/uapi/domestic-stock/v1/trading/order-rvsecncl"
	pendingPath   = "/uapi/domestic-stock/v1/trading/inquire-psbl-rvsecncl"
	profitPath    = "/uapi/domestic-stock/v1/trading/inquire-period-profit"
	dailyCcldPath = "/uapi/domestic-stock/v1/trading/inquire-daily-ccld"
)

func (c *Client) GetBalance(ctx context.Context) (model.Balance, error) {
	q := c.accountQuery()
	q.Set("AFHR_FLPR_YN", "N")
	q.Set("OFL_YN", "")
	q.Set("INQR_DVSN", "02")
	q.Set("UNPR_DVSN", "01")
	q.Set("FUND_STTL_ICLD_YN", "N")
	q.Set("FNCG_AMT_AUTO_RDPT_YN", "N")
	q.Set("PRCS_DVSN", "00")
	q.Set("CTX_AREA_FK100", "")
	q.Set("CTX_AREA_NK100", "")
	var resp balanceResponse
	if err := c.call(ctx, http.MethodGet, balancePath, c.tradingTR("TTTC8434R"), q, nil, &resp); err != nil {
		return model.Balance{}, err
	}
	if err := resp.err(); err != nil {
		return model.Balance{}, err
	}
	return resp.toModel(), nil
}

func (c *Client) SubmitOrder(ctx context.Context, req broker.SubmitRequest) (model.OrderResult, error) {
	trID := "TTTC0802U" // cash buy
	if req.Side == types.OrderSideSell {
		trID = "TTTC0801U"
	}
	ordDvsn := "01" // market
	ordUnpr := "0"
	if req.Price != nil {
		ordDvsn = "00" // limit
		ordUnpr = req.Price.String()
	}
	body := map[string]string{
		"CANO":         c.cano,
		"ACNT_PRDT_CD": c.prdtCd,
		"PDNO":         req.Code,
		"ORD_DVSN":     ordDvsn,
		"ORD_QTY":      req.Quantity.String(),
		"ORD_UNPR":     ordUnpr,
	}
	var resp orderResponse
	if err := c.call(ctx, http.MethodPost, orderCashPath, c.tradingTR(trID), nil, body, &resp); err != nil {
		return model.OrderResult{}, err
	}
	if err := resp.err(); err != nil {
		return model.OrderResult{}, err
	}
	// The acknowledgement carries no fill state. A limit order rests on the
	// book until a later pending-orders query says otherwise; a market order's
	// terminal state is unknown at submission time.
	return model.OrderResult{
		OrderID: resp.Output.Odno,
		Pending: req.Price != nil && resp.Output.Odno != "",
	}, nil
}

func (c *Client) GetPendingOrders(ctx context.Context) ([]model.Order, error) {
	q := c.accountQuery()
	q.Set("INQR_DVSN_1", "0")
	q.Set("INQR_DVSN_2", "0")
	q.Set("CTX_AREA_FK100", "")
	q.Set("CTX_AREA_NK100", "")
	var resp pendingResponse
	if err := c.call(ctx, http.MethodGet, pendingPath, c.tradingTR("TTTC8036R"), q, nil, &resp); err != nil {
		return nil, err
	}
	if err := resp.err(); err != nil {
		return nil, err
	}
	orders := make([]model.Order, 0, len(resp.Output))
	for _, o := range resp.Output {
		orders = append(orders, o.toModel())
	}
	return orders, nil
}

func (c *Client) CancelOrder(ctx context.Context, order model.Order) error {
	body := map[string]string{
		"CANO":               c.cano,
		"ACNT_PRDT_CD":       c.prdtCd,
		"KRX_FWDG_ORD_ORGNO": order.Branch,
		"ORGN_ODNO":          order.ID,
		"ORD_DVSN":           "00",
		"RVSE_CNCL_DVSN_CD":  "02", // cancel
		"ORD_QTY":            order.PendingQuantity.String(),
		"ORD_UNPR":           "0",
		"QTY_ALL_ORD_YN":     "Y",
	}
	var resp orderResponse
	if err := c.call(ctx, http.MethodPost, cancelPath, c.tradingTR("TTTC0803U"), nil, body, &resp); err != nil {
		return err
	}
	return resp.err()
}

func (c *Client) GetPeriodProfit(ctx context.Context, start, end time.Time) (model.ProfitSummary, error) {
	q := c.accountQuery()
	q.Set("INQR_STRT_DT", start.Format("20060102"))
	q.Set("INQR_END_DT", end.Format("20060102"))
	q.Set("SORT_DVSN", "00")
	q.Set("INQR_DVSN", "00")
	q.Set("CBLC_DVSN", "00")
	q.Set("CTX_AREA_FK100", "")
	q.Set("CTX_AREA_NK100", "")
	var resp profitResponse
	if err := c.call(ctx, http.MethodGet, profitPath, c.tradingTR("TTTC8708R"), q, nil, &resp); err != nil {
		return model.ProfitSummary{}, err
	}
	if err := resp.err(); err != nil {
		return model.ProfitSummary{}, err
	}
	return resp.toModel(), nil
}

func (c *Client) GetDailyExecutions(ctx context.Context, date time.Time) ([]model.Execution, error) {
	q := c.accountQuery()
	q.Set("INQR_STRT_DT", date.Format("20060102"))
	q.Set("INQR_END_DT", date.Format("20060102"))
	q.Set("SLL_BUY_DVSN_CD", "00")
	q.Set("INQR_DVSN", "00")
	q.Set("PDNO", "")
	q.Set("CCLD_DVSN", "01") // executed only
	q.Set("ORD_GNO_BRNO", "")
	q.Set("ODNO", "")
	q.Set("INQR_DVSN_3", "00")
	q.Set("INQR_DVSN_1", "")
	q.Set("CTX_AREA_FK100", "")
	q.Set("CTX_AREA_NK100", "")
	var resp dailyCcldResponse
	if err := c.call(ctx, http.MethodGet, dailyCcldPath, c.tradingTR("TTTC8001R"), q, nil, &resp); err != nil {
		return nil, err
	}
	if err := resp.err(); err != nil {
		return nil, err
	}
	execs := make([]model.Execution, 0, len(resp.Output1))
	for _, e := range resp.Output1 {
		execs = append(execs, e.toModel())
	}
	return execs, nil
}

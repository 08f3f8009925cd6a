package kis

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"kis-tradegw/internal/model"
	"kis-tradegw/internal/types"
)

const (
	quotePath     = "/uapi/domestic-stock/v1/quotations/inquire-price"
	orderbookPath = "/uapi/domestic-stock/v1/quotations/inquire-asking-price-exp-ccn"
	chartPath     = "/uapi/domestic-stock/v1/quotations/inquire-daily-itemchartprice"
)

func marketQuery(code string) url.Values {
	q := url.Values{}
	q.Set("FID_COND_MRKT_DIV_CODE", "J")
	q.Set("FID_INPUT_ISCD", code)
	return q
}

func (c *Client) GetQuote(ctx context.Context, code string) (model.Quote, error) {
	var resp quoteResponse
	if err := c.call(ctx, http.MethodGet, quotePath, "FHKST01010100", marketQuery(code), nil, &resp); err != nil {
		return model.Quote{}, err
	}
	if err := resp.err(); err != nil {
		return model.Quote{}, err
	}
	return resp.toModel(code), nil
}

func (c *Client) GetOrderbook(ctx context.Context, code string) (model.Orderbook, error) {
	var resp orderbookResponse
	if err := c.call(ctx, http.MethodGet, orderbookPath, "FHKST01010200", marketQuery(code), nil, &resp); err != nil {
		return model.Orderbook{}, err
	}
	if err := resp.err(); err != nil {
		return model.Orderbook{}, err
	}
	ob := model.Orderbook{Code: code, Asks: []model.OrderbookLevel{}, Bids: []model.OrderbookLevel{}}
	for i := 1; i <= 10; i++ {
		askPrice := num(resp.Output1[fmt.Sprintf("askp%d", i)])
		askQty := num(resp.Output1[fmt.Sprintf("askp_rsqn%d", i)])
		if askPrice.IsPositive() {
			ob.Asks = append(ob.Asks, model.OrderbookLevel{Price: askPrice, Quantity: askQty})
		}
		bidPrice := num(resp.Output1[fmt.Sprintf("bidp%d", i)])
		bidQty := num(resp.Output1[fmt.Sprintf("bidp_rsqn%d", i)])
		if bidPrice.IsPositive() {
			ob.Bids = append(ob.Bids, model.OrderbookLevel{Price: bidPrice, Quantity: bidQty})
		}
	}
	return ob, nil
}

// periodDivCode maps chart periods to the backend's FID_PERIOD_DIV_CODE.
func periodDivCode(period types.ChartPeriod) string {
	switch period {
	case types.ChartPeriodWeek:
		return "W"
	case types.ChartPeriodMonth:
		return "M"
	default:
		return "D"
	}
}

// lookback returns a request window wide enough to yield count candles,
// padded for non-trading days.
func lookback(period types.ChartPeriod, count int) time.Duration {
	day := 24 * time.Hour
	switch period {
	case types.ChartPeriodWeek:
		return time.Duration(count) * 7 * day * 2
	case types.ChartPeriodMonth:
		return time.Duration(count) * 31 * day * 2
	default:
		return time.Duration(count) * day * 2
	}
}

func (c *Client) GetChart(ctx context.Context, code string, period types.ChartPeriod, count int) ([]model.Candle, error) {
	now := time.Now()
	q := marketQuery(code)
	q.Set("FID_INPUT_DATE_1", now.Add(-lookback(period, count)).Format("20060102"))
	q.Set("FID_INPUT_DATE_2", now.Format("20060102"))
	q.Set("FID_PERIOD_DIV_CODE", periodDivCode(period))
	q.Set("FID_ORG_ADJ_PRC", "0")
	var resp chartResponse
	if err := c.call(ctx, http.MethodGet, chartPath, "FHKST03010100", q, nil, &resp); err != nil {
		return nil, err
	}
	if err := resp.err(); err != nil {
		return nil, err
	}
	// Most recent candle first; empty rows pad the backend response.
	candles := make([]model.Candle, 0, count)
	for _, raw := range resp.Output2 {
		if raw.StckBsopDate == "" {
			continue
		}
		candles = append(candles, raw.toModel())
		if len(candles) == count {
			break
		}
	}
	return candles, nil
}

package kis

import (
	"strings"

	"kis-tradegw/internal/model"
	"kis-tradegw/internal/types"

	"github.com/shopspring/decimal"
)

// num converts a raw KIS string field to a decimal, defaulting to zero for
// absent or malformed values. This is the single place where the backend's
// loose typing is absorbed.
func num(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// isoDate reformats the backend's YYYYMMDD dates; anything shorter is
// passed through untouched.
func isoDate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) != 8 {
		return s
	}
	return s[:4] + "-" + s[4:6] + "-" + s[6:]
}

type balanceResponse struct {
	apiEnvelope
	Output1 []balanceHolding `json:"output1"`
	Output2 []balanceSummary `json:"output2"`
}

type balanceHolding struct {
	Pdno         string `json:"pdno"`
	PrdtName     string `json:"prdt_name"`
	HldgQty      string `json:"hldg_qty"`
	PchsAvgPric  string `json:"pchs_avg_pric"`
	Prpr         string `json:"prpr"`
	EvluAmt      string `json:"evlu_amt"`
	EvluPflsAmt  string `json:"evlu_pfls_amt"`
	EvluPflsRt   string `json:"evlu_pfls_rt"`
	TradDvsnName string `json:"trad_dvsn_name"`
}

type balanceSummary struct {
	TotEvluAmt      string `json:"tot_evlu_amt"`
	NassAmt         string `json:"nass_amt"`
	PrvsRcdlExccAmt string `json:"prvs_rcdl_excc_amt"`
	SctsEvluAmt     string `json:"scts_evlu_amt"`
	DncaTotAmt      string `json:"dnca_tot_amt"`
}

func (r balanceResponse) toModel() model.Balance {
	b := model.Balance{Holdings: make([]model.Holding, 0, len(r.Output1))}
	if len(r.Output2) > 0 {
		s := r.Output2[0]
		b.TotalEvaluation = num(s.TotEvluAmt)
		b.NetAsset = num(s.NassAmt)
		b.WithdrawableCash = num(s.PrvsRcdlExccAmt)
		b.SecuritiesEvaluation = num(s.SctsEvluAmt)
	}
	for _, h := range r.Output1 {
		b.Holdings = append(b.Holdings, model.Holding{
			Code:             strings.TrimSpace(h.Pdno),
			Name:             strings.TrimSpace(h.PrdtName),
			Quantity:         num(h.HldgQty),
			AvgPurchasePrice: num(h.PchsAvgPric),
			CurrentPrice:     num(h.Prpr),
			EvaluationAmount: num(h.EvluAmt),
			ProfitLoss:       num(h.EvluPflsAmt),
			ProfitLossRatio:  num(h.EvluPflsRt),
		})
	}
	return b
}

type quoteResponse struct {
	apiEnvelope
	Output quoteOutput `json:"output"`
}

type quoteOutput struct {
	StckPrpr    string `json:"stck_prpr"`
	PrdyVrss    string `json:"prdy_vrss"`
	PrdyCtrt    string `json:"prdy_ctrt"`
	AcmlVol     string `json:"acml_vol"`
	AcmlTrPbmn  string `json:"acml_tr_pbmn"`
	HtsAvls     string `json:"hts_avls"`
	StckOprc    string `json:"stck_oprc"`
	StckHgpr    string `json:"stck_hgpr"`
	StckLwpr    string `json:"stck_lwpr"`
	RprsMrktKor string `json:"rprs_mrkt_kor_name"`
}

func (r quoteResponse) toModel(code string) model.Quote {
	o := r.Output
	return model.Quote{
		Code:         code,
		Price:        num(o.StckPrpr),
		Change:       num(o.PrdyVrss),
		ChangeRate:   num(o.PrdyCtrt),
		Volume:       num(o.AcmlVol),
		TradingValue: num(o.AcmlTrPbmn),
		// hts_avls is reported in hundred-millions of won.
		MarketCap: num(o.HtsAvls).Mul(decimal.NewFromInt(100_000_000)),
		Open:      num(o.StckOprc),
		High:      num(o.StckHgpr),
		Low:       num(o.StckLwpr),
	}
}

type orderbookResponse struct {
	apiEnvelope
	// Levels arrive as numbered fields (askp1..askp10, bidp_rsqn1..); a map
	// keeps the decoding loopable.
	Output1 map[string]string `json:"output1"`
}

type chartResponse struct {
	apiEnvelope
	Output2 []chartCandle `json:"output2"`
}

type chartCandle struct {
	StckBsopDate string `json:"stck_bsop_date"`
	StckOprc     string `json:"stck_oprc"`
	StckHgpr     string `json:"stck_hgpr"`
	StckLwpr     string `json:"stck_lwpr"`
	StckClpr     string `json:"stck_clpr"`
	AcmlVol      string `json:"acml_vol"`
}

func (c chartCandle) toModel() model.Candle {
	return model.Candle{
		Date:   isoDate(c.StckBsopDate),
		Open:   num(c.StckOprc),
		High:   num(c.StckHgpr),
		Low:    num(c.StckLwpr),
		Close:  num(c.StckClpr),
		Volume: num(c.AcmlVol),
	}
}

type orderResponse struct {
	apiEnvelope
	Output orderOutput `json:"output"`
}

type orderOutput struct {
	KrxFwdgOrdOrgno string `json:"KRX_FWDG_ORD_ORGNO"`
	Odno            string `json:"ODNO"`
	OrdTmd          string `json:"ORD_TMD"`
}

type pendingResponse struct {
	apiEnvelope
	Output []pendingOrder `json:"output"`
}

type pendingOrder struct {
	Odno            string `json:"odno"`
	KrxFwdgOrdOrgno string `json:"krx_fwdg_ord_orgno"`
	Pdno            string `json:"pdno"`
	SllBuyDvsnCd    string `json:"sll_buy_dvsn_cd"`
	OrdQty          string `json:"ord_qty"`
	PsblQty         string `json:"psbl_qty"`
	OrdUnpr         string `json:"ord_unpr"`
	OrdTmd          string `json:"ord_tmd"`
}

func (p pendingOrder) toModel() model.Order {
	side := types.OrderSideBuy
	if strings.TrimSpace(p.SllBuyDvsnCd) == "01" {
		side = types.OrderSideSell
	}
	pendingQty := num(p.PsblQty)
	return model.Order{
		ID:              strings.TrimSpace(p.Odno),
		Branch:          strings.TrimSpace(p.KrxFwdgOrdOrgno),
		Code:            strings.TrimSpace(p.Pdno),
		Side:            side,
		Quantity:        num(p.OrdQty),
		PendingQuantity: pendingQty,
		Price:           num(p.OrdUnpr),
		OrderedAt:       strings.TrimSpace(p.OrdTmd),
		Pending:         pendingQty.IsPositive(),
	}
}

type profitResponse struct {
	apiEnvelope
	Output1 []profitTrade  `json:"output1"`
	Output2 profitSummary2 `json:"output2"`
}

type profitTrade struct {
	Pdno     string `json:"pdno"`
	RlztPfls string `json:"rlzt_pfls"`
	BuyAmt   string `json:"buy_amt"`
	SllAmt   string `json:"sll_amt"`
}

type profitSummary2 struct {
	TotRlztPfls string `json:"tot_rlzt_pfls"`
	TotBuyAmt   string `json:"tot_buy_amt"`
	TotSllAmt   string `json:"tot_sll_amt"`
}

func (r profitResponse) toModel() model.ProfitSummary {
	return model.ProfitSummary{
		Profit:     num(r.Output2.TotRlztPfls),
		BuyAmount:  num(r.Output2.TotBuyAmt),
		SellAmount: num(r.Output2.TotSllAmt),
		Trades:     len(r.Output1),
	}
}

type dailyCcldResponse struct {
	apiEnvelope
	Output1 []dailyCcld `json:"output1"`
}

type dailyCcld struct {
	OrdDt        string `json:"ord_dt"`
	OrdTmd       string `json:"ord_tmd"`
	Pdno         string `json:"pdno"`
	PrdtName     string `json:"prdt_name"`
	SllBuyDvsnCd string `json:"sll_buy_dvsn_cd"`
	OrdQty       string `json:"ord_qty"`
	TotCcldQty   string `json:"tot_ccld_qty"`
	AvgPrvs      string `json:"avg_prvs"`
	TotCcldAmt   string `json:"tot_ccld_amt"`
}

func (d dailyCcld) toModel() model.Execution {
	side := types.OrderSideBuy
	if strings.TrimSpace(d.SllBuyDvsnCd) == "01" {
		side = types.OrderSideSell
	}
	executedAt := isoDate(d.OrdDt)
	if t := strings.TrimSpace(d.OrdTmd); t != "" {
		executedAt += " " + t
	}
	return model.Execution{
		Code:        strings.TrimSpace(d.Pdno),
		Name:        strings.TrimSpace(d.PrdtName),
		Side:        side,
		OrderedQty:  num(d.OrdQty),
		ExecutedQty: num(d.TotCcldQty),
		Price:       num(d.AvgPrvs),
		Amount:      num(d.TotCcldAmt),
		ExecutedAt:  executedAt,
	}
}

package trading

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"kis-tradegw/internal/httputil"
	"kis-tradegw/internal/model"
	"kis-tradegw/internal/types"
	"kis-tradegw/internal/validate"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// JournalReader lists recent audit entries. Optional; nil disables the
// journal listing endpoint.
type JournalReader interface {
	Recent(ctx context.Context, limit int) ([]model.JournalEntry, error)
}

type Handler struct {
	svc    *Service
	reader JournalReader
	log    zerolog.Logger
}

func NewHandler(svc *Service, reader JournalReader, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, reader: reader, log: log}
}

func (h *Handler) fail(w http.ResponseWriter, status int, msg string) {
	httputil.WriteJSON(w, status, httputil.ErrorResponse{Error: msg})
}

func (h *Handler) backendFail(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrOrderNotFound) {
		h.fail(w, http.StatusNotFound, err.Error())
		return
	}
	h.fail(w, http.StatusBadGateway, err.Error())
}

func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.GetBalance(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("balance lookup failed")
		h.backendFail(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, b)
}

type placeOrderRequest struct {
	Code     string `json:"stock_code"`
	Side     string `json:"order_type"`
	Method   string `json:"order_method"`
	Quantity string `json:"quantity"`
	Price    string `json:"price"`
}

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		h.fail(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.StockCode(req.Code); err != nil {
		h.fail(w, http.StatusBadRequest, err.Error())
		return
	}
	side := types.OrderSide(req.Side)
	if !side.Valid() {
		h.fail(w, http.StatusBadRequest, "order_type must be buy or sell")
		return
	}
	method := types.OrderMethod(req.Method)
	if req.Method == "" {
		method = types.OrderMethodLimit
	}
	if !method.Valid() {
		h.fail(w, http.StatusBadRequest, "order_method must be limit or market")
		return
	}
	qty, err := decimal.NewFromString(req.Quantity)
	if err != nil || !qty.IsPositive() || !qty.IsInteger() {
		h.fail(w, http.StatusBadRequest, "quantity must be a positive integer")
		return
	}
	var price *decimal.Decimal
	if req.Price != "" {
		p, err := decimal.NewFromString(req.Price)
		if err != nil || p.IsNegative() {
			h.fail(w, http.StatusBadRequest, "price must be a non-negative number")
			return
		}
		price = &p
	}

	res, err := h.svc.PlaceOrder(r.Context(), PlaceRequest{
		Code:     req.Code,
		Side:     side,
		Method:   method,
		Quantity: qty,
		Price:    price,
	})
	if err != nil {
		h.log.Error().Err(err).Str("code", req.Code).Msg("order placement failed")
		h.backendFail(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, res)
}

func (h *Handler) PendingOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.PendingOrders(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("pending orders lookup failed")
		h.backendFail(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"orders": orders, "count": len(orders)})
}

func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		h.fail(w, http.StatusBadRequest, "order id is required")
		return
	}
	res, err := h.svc.CancelOrder(r.Context(), orderID)
	if err != nil {
		h.log.Error().Err(err).Str("order_id", orderID).Msg("order cancellation failed")
		h.backendFail(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) Sellable(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if err := validate.StockCode(code); err != nil {
		h.fail(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.svc.SellableQuantity(r.Context(), code)
	if err != nil {
		h.log.Error().Err(err).Str("code", code).Msg("sellable lookup failed")
		h.backendFail(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) Buyable(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if err := validate.StockCode(code); err != nil {
		h.fail(w, http.StatusBadRequest, err.Error())
		return
	}
	var price *decimal.Decimal
	if v := r.URL.Query().Get("price"); v != "" {
		p, err := decimal.NewFromString(v)
		if err != nil || p.IsNegative() {
			h.fail(w, http.StatusBadRequest, "price must be a non-negative number")
			return
		}
		price = &p
	}
	res, err := h.svc.BuyableAmount(r.Context(), code, price)
	if err != nil {
		h.log.Error().Err(err).Str("code", code).Msg("buyable lookup failed")
		h.backendFail(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) PeriodProfit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	now := time.Now()
	start := now.AddDate(0, -1, 0)
	end := now
	var err error
	if v := q.Get("start"); v != "" {
		if start, err = validate.ISODate(v); err != nil {
			h.fail(w, http.StatusBadRequest, "start "+err.Error())
			return
		}
	}
	if v := q.Get("end"); v != "" {
		if end, err = validate.ISODate(v); err != nil {
			h.fail(w, http.StatusBadRequest, "end "+err.Error())
			return
		}
	}
	res, err := h.svc.PeriodProfit(r.Context(), start, end)
	if err != nil {
		h.log.Error().Err(err).Msg("period profit lookup failed")
		h.backendFail(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) DailyExecutions(w http.ResponseWriter, r *http.Request) {
	date := time.Now()
	var err error
	if v := r.URL.Query().Get("date"); v != "" {
		if date, err = validate.ISODate(v); err != nil {
			h.fail(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	res, err := h.svc.DailyExecutions(r.Context(), date)
	if err != nil {
		h.log.Error().Err(err).Msg("daily executions lookup failed")
		h.backendFail(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) Journal(w http.ResponseWriter, r *http.Request) {
	if h.reader == nil {
		h.fail(w, http.StatusNotFound, "journal is not configured")
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			h.fail(w, http.StatusBadRequest, "limit must be an integer between 1 and 500")
			return
		}
		limit = n
	}
	entries, err := h.reader.Recent(r.Context(), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("journal listing failed")
		h.fail(w, http.StatusInternalServerError, "journal listing failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"entries": entries, "count": len(entries)})
}

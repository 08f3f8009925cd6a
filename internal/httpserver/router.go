package httpserver

import (
	"net/http"

	"kis-tradegw/internal/auth"
	"kis-tradegw/internal/health"
	"kis-tradegw/internal/market"
	"kis-tradegw/internal/trading"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type RouterDeps struct {
	AuthHandler    *auth.Handler
	AuthService    *auth.Service
	TradingHandler *trading.Handler
	MarketHandler  *market.Handler
	HealthHandler  *health.Handler
	Logger         zerolog.Logger
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestLogger(d.Logger))
	r.Use(SecurityHeaders)
	r.Use(RateLimitMiddleware)

	r.Get("/health", d.HealthHandler.Live)
	r.Get("/health/ready", d.HealthHandler.Ready)
	r.Get("/metrics", d.HealthHandler.Metrics)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/auth/login", d.AuthHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(WithAuth(d.AuthService))

			r.Get("/balance", d.TradingHandler.Balance)

			r.Route("/stocks/{code}", func(r chi.Router) {
				r.Get("/quote", d.MarketHandler.Quote)
				r.Get("/orderbook", d.MarketHandler.Orderbook)
				r.Get("/chart", d.MarketHandler.Chart)
				r.Get("/buyable", d.TradingHandler.Buyable)
				r.Get("/sellable", d.TradingHandler.Sellable)
			})

			r.Post("/orders", d.TradingHandler.PlaceOrder)
			r.Get("/orders", d.TradingHandler.PendingOrders)
			r.Get("/orders/journal", d.TradingHandler.Journal)
			r.Delete("/orders/{id}", d.TradingHandler.CancelOrder)

			r.Get("/account/profit", d.TradingHandler.PeriodProfit)
			r.Get("/account/executions", d.TradingHandler.DailyExecutions)

			r.Get("/market/status", d.MarketHandler.Status)
			r.Get("/market/ws", d.MarketHandler.WS.ServeHTTP)
		})
	})

	return r
}

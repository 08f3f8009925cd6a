package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kis-tradegw/internal/auth"
	"kis-tradegw/internal/broker"
	"kis-tradegw/internal/broker/kis"
	"kis-tradegw/internal/config"
	"kis-tradegw/internal/health"
	"kis-tradegw/internal/httpserver"
	"kis-tradegw/internal/journal"
	"kis-tradegw/internal/market"
	"kis-tradegw/internal/trading"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	var adapter broker.Adapter
	brokerMode := "disabled"
	if cfg.BrokerConfigured() {
		adapter = kis.New(kis.Config{
			AppKey:        cfg.KISAppKey,
			AppSecret:     cfg.KISAppSecret,
			AccountNo:     cfg.KISAccountNo,
			Virtual:       cfg.VirtualTrading,
			MaxConcurrent: int64(cfg.KISMaxConcurrent),
			Logger:        log.With().Str("component", "kis").Logger(),
		})
		if cfg.VirtualTrading {
			brokerMode = "virtual"
		} else {
			brokerMode = "real"
			log.Warn().Msg("REAL trading mode: orders will reach the live market")
		}
	} else {
		adapter = broker.NewDisabledAdapter()
		log.Warn().Msg("KIS credentials missing, broker disabled")
	}

	var store *journal.Store
	var journalSink trading.Journal
	var journalReader trading.JournalReader
	if cfg.JournalPath != "" {
		store, err = journal.Open(cfg.JournalPath)
		if err != nil {
			log.Fatal().Err(err).Msg("journal")
		}
		defer store.Close()
		journalSink = store
		journalReader = store
	}

	authSvc := auth.NewService(cfg.JWTIssuer, []byte(cfg.JWTSecret), cfg.JWTTTL, cfg.PasswordHash)
	tradingSvc := trading.NewService(adapter, journalSink, log.With().Str("component", "trading").Logger())

	startedAt := time.Now()
	router := httpserver.NewRouter(httpserver.RouterDeps{
		AuthHandler:    auth.NewHandler(authSvc),
		AuthService:    authSvc,
		TradingHandler: trading.NewHandler(tradingSvc, journalReader, log.With().Str("component", "trading").Logger()),
		MarketHandler:  market.NewHandler(adapter, cfg.WebSocketOrigin, log.With().Str("component", "market").Logger()),
		HealthHandler:  health.NewHandler(store, startedAt, brokerMode, cfg.HTTPAddr),
		Logger:         log.With().Str("component", "http").Logger(),
	})
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	log.Info().Str("addr", cfg.HTTPAddr).Str("broker_mode", brokerMode).Msg("server listening")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server")
	}
}

package main

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"CryptoPulse/internal/cache"
	"CryptoPulse/internal/calculator"
	"CryptoPulse/internal/collector"
	"CryptoPulse/internal/config"
	"CryptoPulse/internal/logger"
	"CryptoPulse/internal/market"
	"CryptoPulse/internal/scheduler"
	"CryptoPulse/internal/server"
)

func main() {
	log, err := logger.New(os.Getenv("DEBUG") == "true")
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("CryptoPulse starting")

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("config validation", zap.Error(err))
	}

	mode, err := calculator.ParseRSIMode(cfg.Indicators.RSIMode)
	if err != nil {
		log.Fatal("rsi mode", zap.Error(err))
	}

	timeout := cfg.Sources.Timeout.Std()
	prices := collector.NewCoinGeckoSource(cfg.Sources.CoinGecko.BaseURL, cfg.Sources.CoinGecko.APIKey, cfg.Proxy, timeout)
	funding := collector.NewBinanceSource(cfg.Sources.Binance.BaseURL, cfg.Proxy, timeout)
	flows := collector.NewCoinGlassSource(cfg.Sources.CoinGlass.BaseURL, cfg.Sources.CoinGlass.APIKey, cfg.Proxy, timeout)
	fx := collector.NewAlphaVantageSource(cfg.Sources.AlphaVantage.BaseURL, cfg.Sources.AlphaVantage.APIKey, cfg.Proxy, timeout)
	log.Info("sources configured",
		zap.String("prices", prices.Name()),
		zap.String("funding", funding.Name()),
		zap.String("flows", flows.Name()),
		zap.String("fx", fx.Name()))

	var rng *rand.Rand
	if cfg.SyntheticSeed != 0 {
		rng = rand.New(rand.NewSource(cfg.SyntheticSeed))
	}
	svc, err := market.NewService(prices, funding, flows, fx,
		collector.NewGenerator(rng, nil),
		cache.New(nil, nil),
		log,
		market.Config{
			TTL: market.TTLConfig{
				PriceHistory: cfg.Cache.PriceTTL.Std(),
				Quotes:       cfg.Cache.QuoteTTL.Std(),
				RSI:          cfg.Cache.QuoteTTL.Std(),
				Funding:      cfg.Cache.FundingTTL.Std(),
				Flows:        cfg.Cache.FlowTTL.Std(),
				Index:        cfg.Cache.IndexTTL.Std(),
			},
			Timeout:    timeout,
			MAWindows:  cfg.Indicators.MAWindows,
			RSIMode:    mode,
			RSIPeriods: cfg.Indicators.RSIPeriods,
		})
	if err != nil {
		log.Fatal("init market service", zap.Error(err))
	}

	sched := scheduler.NewScheduler(svc, log)
	if err := sched.Register(cfg.Schedule.RefreshCron); err != nil {
		log.Fatal("register cron tasks", zap.Error(err))
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info("RUN_ON_START enabled, warming cache now")
		go sched.RunNow()
	}

	srv := &http.Server{
		Addr:         cfg.Server.ListenAddr,
		Handler:      server.NewServer(svc, log).Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	go func() {
		log.Info("listening", zap.String("addr", cfg.Server.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", zap.Error(err))
	}
	log.Info("CryptoPulse stopped")
}

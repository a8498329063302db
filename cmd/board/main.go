package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"MarketBoard/internal/config"
	"MarketBoard/internal/quote"
	"MarketBoard/internal/recorder"
	"MarketBoard/internal/scheduler"
	"MarketBoard/internal/session"
	"MarketBoard/internal/sink"
	"MarketBoard/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] MarketBoard starting...")

	// Optional .env for local runs; real deployments set the environment.
	if err := godotenv.Load(); err == nil {
		log.Println("[INFO] loaded .env")
	}

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Trading clock
	loc, err := time.LoadLocation(cfg.Market.Timezone)
	if err != nil {
		log.Fatalf("[FATAL] load timezone %q: %v", cfg.Market.Timezone, err)
	}
	clk, err := session.NewClock(loc, cfg.Market.Open, cfg.Market.Close)
	if err != nil {
		log.Fatalf("[FATAL] trading window: %v", err)
	}

	// Quote source
	var src quote.Source
	switch cfg.Quote.Provider {
	case "finnhub":
		src = quote.NewFinnhubSource(cfg.Quote.APIKey, cfg.Quote.BaseURL, cfg.Proxy)
	case "yahoo":
		src = quote.NewYahooSource(cfg.Quote.BaseURL, cfg.Proxy)
	case "alpaca":
		src = quote.NewAlpacaSource(cfg.Quote.Alpaca.APIKey, cfg.Quote.Alpaca.APISecret, cfg.Quote.Alpaca.DataURL)
	default:
		log.Fatalf("[FATAL] unknown quote provider %q", cfg.Quote.Provider)
	}
	log.Printf("[INFO] quote source: %s, tickers: %v", src.Name(), cfg.Tickers)

	// Session store
	st := store.NewCSVStore(cfg.Storage.DataRoot, cfg.Tickers, loc)

	// Recorder
	var rec recorder.Recorder
	if cfg.Storage.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Storage.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Presentation sinks
	sinks := sink.MultiSink{sink.NewLogSink()}
	var hub *sink.Hub
	var srv *http.Server
	if cfg.Server.Addr != "" {
		hub = sink.NewHub()
		sinks = append(sinks, hub)
		srv = &http.Server{Addr: cfg.Server.Addr, Handler: hub.Routes()}
		go func() {
			log.Printf("[INFO] kiosk API listening on %s", cfg.Server.Addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("[ERROR] kiosk API server: %v", err)
			}
		}()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Session scheduler
	sched := scheduler.New(clk, src, st, rec, sinks, cfg.Tickers, time.Duration(cfg.RefreshSeconds)*time.Second)
	sched.Bootstrap(clk.Now())

	errCh := make(chan error, 1)
	go func() {
		errCh <- sched.Run(ctx)
	}()

	// Retention maintenance
	if cfg.Storage.RetentionDays > 0 {
		maint, err := scheduler.NewMaintenance(st, cfg.Storage.RetentionDays, cfg.Storage.MaintenanceCron, loc)
		if err != nil {
			log.Fatalf("[FATAL] register maintenance: %v", err)
		}
		maint.Start()
		defer maint.Stop()
	}

	log.Println("[INFO] MarketBoard is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal or a fatal scheduler error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		log.Println("[INFO] shutdown signal received, stopping...")
		cancel()
		<-errCh
	case err := <-errCh:
		if err != nil {
			log.Fatalf("[FATAL] scheduler: %v", err)
		}
	}

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}
	if hub != nil {
		hub.Close()
	}
	log.Println("[INFO] MarketBoard stopped")
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"AssetTracker/internal/cache"
	"AssetTracker/internal/collector"
	"AssetTracker/internal/config"
	"AssetTracker/internal/httpx"
	"AssetTracker/internal/notifier"
	"AssetTracker/internal/recorder"
	"AssetTracker/internal/scheduler"
	"AssetTracker/internal/server"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] AssetTracker starting...")

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
	reg, err := cfg.Registry()
	if err != nil {
		log.Fatalf("[FATAL] build asset registry: %v", err)
	}

	// Init quote source
	var source collector.QuoteSource
	switch cfg.Quotes.Source {
	case "mock":
		source = &collector.MockSource{Prices: map[string]float64{
			"GC=F": 2350, "SI=F": 29.5, "PL=F": 980, "PA=F": 1010, "BTC-USD": 64000, "ETH-USD": 3100,
		}}
	default:
		ys := collector.NewYahooSource(httpx.New(time.Duration(cfg.Quotes.TimeoutSec)*time.Second, cfg.Proxy))
		if cfg.Quotes.BaseURL != "" {
			ys.BaseURL = cfg.Quotes.BaseURL
		}
		source = ys
	}
	if cfg.Quotes.MinIntervalMs > 0 {
		source = &collector.MinInterval{Source: source, Interval: time.Duration(cfg.Quotes.MinIntervalMs) * time.Millisecond}
	}
	log.Printf("[INFO] quote source: %s, %d assets", source.Name(), reg.Len())

	// Init collector and cache
	col := collector.NewCollector(source, reg)
	col.Concurrency = cfg.Quotes.Concurrency
	tables := &cache.Tables{
		J:        col,
		TTL:      time.Duration(cfg.Cache.TTLSec) * time.Second,
		MaxItems: cfg.Cache.MaxItems,
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
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

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Init Telegram notifier
	var tn *notifier.TelegramNotifier
	var sender scheduler.Sender
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		sender = tn
	}

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, tables, col, reg, sender, rec, cfg.Period())
	if err := sched.RegisterAll(cfg.Schedule.RefreshCron, cfg.Schedule.DigestCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	// Optional: warm the cache immediately
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, refreshing now")
		go sched.RefreshNow(ctx)
	}

	api := &server.Server{
		Tables:   tables,
		Metrics:  col,
		Registry: reg,
		Recorder: rec,
		Period:   cfg.Period(),
		Timeout:  time.Duration(cfg.Server.RequestTimeoutSec) * time.Second,
	}
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.RequestTimeoutSec+10) * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		log.Printf("[INFO] server listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[FATAL] server: %v", err)
		}
	}()

	log.Println("[INFO] AssetTracker is running. Press Ctrl+C to stop.")
	<-ctx.Done()

	log.Println("[INFO] shutdown signal received, stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WARN] server shutdown: %v", err)
	}
	log.Println("[INFO] AssetTracker stopped")
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"StockTrader/internal/config"
	"StockTrader/internal/model"
	"StockTrader/internal/notifier"
	"StockTrader/internal/quote"
	"StockTrader/internal/scheduler"
	"StockTrader/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] StockTrader starting...")

	_ = godotenv.Load()

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

	// Init store
	var st store.Store
	if sqliteStore, err := store.NewSQLiteStore(cfg.Database.SQLitePath); err != nil {
		log.Printf("[WARN] init sqlite store failed, using in-memory store: %v", err)
		st = store.NewMemoryStore()
	} else {
		st = sqliteStore
	}
	defer st.Close()

	// Persist the configured policy so collaborators read one source of truth.
	if err := st.SavePolicy(model.Policy{
		BuyStepPercentage: cfg.Policy.BuyStepPercentage,
		AnnualReturnRate:  cfg.Policy.AnnualReturnRate,
	}); err != nil {
		log.Fatalf("[FATAL] save policy: %v", err)
	}

	// Init quote source
	var src quote.Source
	if cfg.Quote.BaseURL != "" {
		src = quote.NewRESTSource(cfg.Quote.BaseURL, cfg.Quote.APIKey, cfg.Proxy)
	} else {
		src = &quote.MockSource{}
	}
	log.Printf("[INFO] quote source: %s", src.Name())

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, st, src, tn)
	if err := sched.RegisterAll(cfg.Schedule.RefreshCron, cfg.Schedule.ReportCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Println("[INFO] Telegram polling started")

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing refresh now")
		go sched.RunRefreshNow()
	}

	log.Println("[INFO] StockTrader is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] StockTrader stopped")
}

package scheduler

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"StockTrader/internal/model"
	"StockTrader/internal/notifier"
	"StockTrader/internal/portfolio"
	"StockTrader/internal/quote"
	"StockTrader/internal/store"
)

// Sender delivers formatted messages to the user.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler drives the time-based behavior: periodic price refreshes and the
// daily portfolio report. The engine itself stays pure; the scheduler supplies
// it with fresh price snapshots and delivers its outputs.
type Scheduler struct {
	Cron     *cron.Cron
	Store    store.Store
	Quotes   quote.Source
	Notifier Sender
	Ctx      context.Context

	mu         sync.Mutex
	lastSignal map[int64]model.Signal
}

// NewScheduler creates a Scheduler.
func NewScheduler(ctx context.Context, st store.Store, src quote.Source, tn Sender) *Scheduler {
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds()),
		Store:      st,
		Quotes:     src,
		Notifier:   tn,
		Ctx:        ctx,
		lastSignal: make(map[int64]model.Signal),
	}
}

// RegisterAll registers the refresh and report tasks.
func (s *Scheduler) RegisterAll(refreshCron, reportCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	if _, err := s.Cron.AddFunc(reportCron, s.reportTask); err != nil {
		return fmt.Errorf("register report task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunRefreshNow executes the refresh task immediately (manual trigger or
// RUN_ON_START).
func (s *Scheduler) RunRefreshNow() {
	s.refreshTask()
}

// analyze loads trades and policy, fetches a fresh price snapshot, and runs
// one analysis pass.
func (s *Scheduler) analyze() ([]*model.Trade, map[string]float64, *portfolio.Analyzer, error) {
	trades, err := s.Store.ListTrades()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list trades: %w", err)
	}
	policy, err := s.Store.LoadPolicy()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load policy: %w", err)
	}

	prices := quote.Snapshot(s.Quotes, distinctCodes(trades))
	return trades, prices, portfolio.NewAnalyzer(policy), nil
}

func (s *Scheduler) refreshTask() {
	runID := uuid.NewString()[:8]
	log.Printf("[INFO] refresh run %s starting", runID)

	trades, prices, analyzer, err := s.analyze()
	if err != nil {
		log.Printf("[ERROR] refresh run %s: %v", runID, err)
		return
	}

	s.cachePrices(trades, prices)

	alerts := analyzer.AlertTrades(trades, prices)
	var fresh []model.Alert
	if s.notificationsEnabled() {
		fresh = s.freshAlerts(alerts, analyzer.CalculateAll(trades, prices))
		if len(fresh) > 0 {
			s.trySend(notifier.FormatAlerts(fresh))
		}
	} else if len(alerts) > 0 {
		// Leave lastSignal untouched so standing alerts are delivered once
		// notifications are switched back on.
		log.Printf("[INFO] refresh run %s: notifications disabled, %d alerts suppressed", runID, len(alerts))
	}

	analysis := analyzer.Analyze(trades, prices)
	s.recordSnapshot(runID, analysis)

	log.Printf("[INFO] refresh run %s done: %d trades, %d prices, %d alerts (%d new)",
		runID, len(trades), len(prices), len(alerts), len(fresh))
}

func (s *Scheduler) reportTask() {
	runID := uuid.NewString()[:8]
	log.Printf("[INFO] report run %s starting", runID)

	trades, prices, analyzer, err := s.analyze()
	if err != nil {
		log.Printf("[ERROR] report run %s: %v", runID, err)
		return
	}

	analysis := analyzer.Analyze(trades, prices)
	s.trySend(notifier.FormatPortfolioReport(analysis))
	s.recordSnapshot(runID, analysis)
}

// notificationsEnabled reads the persisted notification flag. Missing or
// malformed values default to enabled.
func (s *Scheduler) notificationsEnabled() bool {
	value, ok, err := s.Store.GetSetting(store.KeyNotificationEnabled)
	if err != nil {
		log.Printf("[WARN] read %s: %v", store.KeyNotificationEnabled, err)
		return true
	}
	if !ok {
		return true
	}
	enabled, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("[WARN] parse %s=%q: %v", store.KeyNotificationEnabled, value, err)
		return true
	}
	return enabled
}

// freshAlerts keeps only alerts whose signal changed since the previous run,
// so a standing signal is not re-sent every refresh. The pure AlertTrades API
// still returns every active alert.
func (s *Scheduler) freshAlerts(alerts []model.Alert, calculations map[int64]model.PriceCalculation) []model.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	var fresh []model.Alert
	for _, alert := range alerts {
		if s.lastSignal[alert.Trade.ID] != alert.Type {
			fresh = append(fresh, alert)
		}
	}

	next := make(map[int64]model.Signal, len(calculations))
	for id, calc := range calculations {
		next[id] = calc.PriceReached
	}
	s.lastSignal = next

	return fresh
}

func (s *Scheduler) cachePrices(trades []*model.Trade, prices map[string]float64) {
	names := make(map[string]string, len(trades))
	for _, t := range trades {
		names[t.StockCode] = t.StockName
	}
	for code, price := range prices {
		p := price
		now := time.Now()
		if err := s.Store.UpsertStock(&model.Stock{
			Code:         code,
			Name:         names[code],
			CurrentPrice: &p,
			LastUpdated:  &now,
		}); err != nil {
			log.Printf("[ERROR] cache price for %s: %v", code, err)
		}
	}
}

func (s *Scheduler) recordSnapshot(runID string, analysis *model.PortfolioAnalysis) {
	ov := analysis.Overview
	if err := s.Store.RecordSnapshot(&store.PortfolioSnapshot{
		RunID:                 runID,
		TotalInvestment:       ov.TotalInvestment,
		TotalCurrentValue:     ov.TotalCurrentValue,
		TotalUnrealizedGain:   ov.TotalUnrealizedGain,
		UnrealizedGainPercent: ov.TotalUnrealizedGainPercent,
		SellSignals:           ov.SellSignals,
		BuySignals:            ov.BuySignals,
		TotalTrades:           ov.TotalTrades,
		TotalStocks:           ov.TotalStocks,
	}); err != nil {
		log.Printf("[ERROR] record snapshot: %v", err)
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "查看持仓", "/portfolio":
		trades, prices, analyzer, err := s.analyze()
		if err != nil {
			return fmt.Sprintf("❌ 分析失败: %v", err)
		}
		return notifier.FormatPortfolioReport(analyzer.Analyze(trades, prices))
	case "查看提醒", "/alerts":
		trades, prices, analyzer, err := s.analyze()
		if err != nil {
			return fmt.Sprintf("❌ 分析失败: %v", err)
		}
		alerts := analyzer.AlertTrades(trades, prices)
		if len(alerts) == 0 {
			return "当前没有达到目标价格的交易"
		}
		return notifier.FormatAlerts(alerts)
	case "查看参数", "/policy":
		policy, err := s.Store.LoadPolicy()
		if err != nil {
			return fmt.Sprintf("❌ 读取参数失败: %v", err)
		}
		return notifier.FormatPolicy(policy)
	default:
		return "可用命令:\n• 查看持仓\n• 查看提醒\n• 查看参数"
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}

func distinctCodes(trades []*model.Trade) []string {
	seen := make(map[string]struct{}, len(trades))
	var codes []string
	for _, t := range trades {
		if _, ok := seen[t.StockCode]; ok {
			continue
		}
		seen[t.StockCode] = struct{}{}
		codes = append(codes, t.StockCode)
	}
	return codes
}

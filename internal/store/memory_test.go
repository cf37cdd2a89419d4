package store

import (
	"testing"
	"time"

	"StockTrader/internal/model"
)

func TestMemoryStore_TradeCRUD(t *testing.T) {
	s := NewMemoryStore()
	base := time.Date(2026, 1, 10, 9, 30, 0, 0, time.UTC)

	id1, err := s.CreateTrade(&model.Trade{
		StockCode: "600036", StockName: "招商银行",
		BuyPrice: 34.50, BuyTime: base, Quantity: 100,
	})
	if err != nil {
		t.Fatalf("create trade: %v", err)
	}
	if id1 != 1 {
		t.Errorf("first id = %d, want 1", id1)
	}

	id2, err := s.CreateTrade(&model.Trade{
		StockCode: "000001", StockName: "平安银行",
		BuyPrice: 12.35, BuyTime: base.AddDate(0, 0, 5), Quantity: 200,
	})
	if err != nil {
		t.Fatalf("create second trade: %v", err)
	}

	trades, err := s.ListTrades()
	if err != nil {
		t.Fatalf("list trades: %v", err)
	}
	if len(trades) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(trades))
	}
	// Newest purchase first.
	if trades[0].ID != id2 || trades[1].ID != id1 {
		t.Errorf("order = [%d, %d], want newest buy_time first", trades[0].ID, trades[1].ID)
	}
	if trades[0].CreatedAt.IsZero() {
		t.Error("CreatedAt should be assigned on create")
	}

	// Edit replaces all fields except id and created_at.
	createdAt := trades[1].CreatedAt
	updated := &model.Trade{
		ID: id1, StockCode: "600036", StockName: "招商银行",
		BuyPrice: 35.00, BuyTime: base, Quantity: 150, Notes: "加仓",
	}
	if err := s.UpdateTrade(updated); err != nil {
		t.Fatalf("update trade: %v", err)
	}
	trades, _ = s.ListTrades()
	var got *model.Trade
	for _, tr := range trades {
		if tr.ID == id1 {
			got = tr
		}
	}
	if got == nil {
		t.Fatal("updated trade missing from list")
	}
	if got.BuyPrice != 35.00 || got.Quantity != 150 || got.Notes != "加仓" {
		t.Errorf("update not applied: %+v", got)
	}
	if !got.CreatedAt.Equal(createdAt) {
		t.Error("CreatedAt must survive updates")
	}

	if err := s.DeleteTrade(id1); err != nil {
		t.Fatalf("delete trade: %v", err)
	}
	trades, _ = s.ListTrades()
	if len(trades) != 1 || trades[0].ID != id2 {
		t.Errorf("after delete expected only trade %d, got %d trades", id2, len(trades))
	}
}

func TestMemoryStore_UpdateUnknownTrade(t *testing.T) {
	s := NewMemoryStore()
	err := s.UpdateTrade(&model.Trade{ID: 99, StockCode: "600000", StockName: "浦发银行", BuyPrice: 8, BuyTime: time.Now(), Quantity: 10})
	if err == nil {
		t.Error("expected error updating a missing trade")
	}
}

func TestMemoryStore_Settings(t *testing.T) {
	s := NewMemoryStore()

	// Defaults are seeded.
	value, ok, err := s.GetSetting(KeyBuyStepPercentage)
	if err != nil || !ok {
		t.Fatalf("get seeded setting: ok=%v err=%v", ok, err)
	}
	if value != "0.05" {
		t.Errorf("seeded buy step = %q, want 0.05", value)
	}

	if _, ok, _ := s.GetSetting("missing_key"); ok {
		t.Error("missing key should report ok=false")
	}

	if err := s.SetSetting("notification_enabled", "false"); err != nil {
		t.Fatalf("set setting: %v", err)
	}
	value, _, _ = s.GetSetting("notification_enabled")
	if value != "false" {
		t.Errorf("setting = %q after set, want false", value)
	}
}

func TestMemoryStore_Policy(t *testing.T) {
	s := NewMemoryStore()

	policy, err := s.LoadPolicy()
	if err != nil {
		t.Fatalf("load default policy: %v", err)
	}
	if policy.BuyStepPercentage != 0.05 || policy.AnnualReturnRate != 0.20 {
		t.Errorf("default policy = %+v, want 0.05/0.20", policy)
	}

	want := model.Policy{BuyStepPercentage: 0.08, AnnualReturnRate: 0.25}
	if err := s.SavePolicy(want); err != nil {
		t.Fatalf("save policy: %v", err)
	}
	policy, err = s.LoadPolicy()
	if err != nil {
		t.Fatalf("reload policy: %v", err)
	}
	if policy != want {
		t.Errorf("round-tripped policy = %+v, want %+v", policy, want)
	}
}

func TestMemoryStore_Snapshots(t *testing.T) {
	s := NewMemoryStore()

	for i := 0; i < 3; i++ {
		if err := s.RecordSnapshot(&PortfolioSnapshot{RunID: "run", TotalTrades: i}); err != nil {
			t.Fatalf("record snapshot: %v", err)
		}
	}
	snaps := s.Snapshots()
	if len(snaps) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(snaps))
	}
	if snaps[2].TotalTrades != 2 {
		t.Errorf("snapshots not appended in order: %+v", snaps)
	}
}

func TestMemoryStore_StockCache(t *testing.T) {
	s := NewMemoryStore()
	price := 34.50
	now := time.Now()

	if err := s.UpsertStock(&model.Stock{Code: "600036", Name: "招商银行", CurrentPrice: &price, LastUpdated: &now}); err != nil {
		t.Fatalf("upsert stock: %v", err)
	}
	newPrice := 35.10
	if err := s.UpsertStock(&model.Stock{Code: "600036", Name: "招商银行", CurrentPrice: &newPrice, LastUpdated: &now}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	stocks, err := s.ListStocks()
	if err != nil {
		t.Fatalf("list stocks: %v", err)
	}
	if len(stocks) != 1 {
		t.Fatalf("expected 1 stock after upsert, got %d", len(stocks))
	}
	if stocks[0].CurrentPrice == nil || *stocks[0].CurrentPrice != 35.10 {
		t.Errorf("cached price not replaced: %+v", stocks[0])
	}
}

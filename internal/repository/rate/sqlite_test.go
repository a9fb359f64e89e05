package rate

import (
	"context"
	"testing"
	"time"

	"github.com/ahmethakanbesel/fxseries/internal/platform/sqlite"
	domain "github.com/ahmethakanbesel/fxseries/internal/rate"
)

const symbol = "EURCHF=X"

func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.Open(sqlite.MemoryDSN)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func jan(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestSaveRates_And_ListRates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db.DB)
	ctx := context.Background()

	rates := []domain.Rate{
		{Symbol: symbol, Date: jan(4), Rate: 0.9301, Source: "yahoo"},
		{Symbol: symbol, Date: jan(2), Rate: 0.9287, Source: "yahoo"},
		{Symbol: symbol, Date: jan(3), Rate: 0.9312, Source: "yahoo"},
		{Symbol: "BTC-EUR", Date: jan(3), Rate: 41200, Source: "yahoo"},
	}

	n, err := repo.SaveRates(ctx, rates)
	if err != nil {
		t.Fatalf("save rates: %v", err)
	}
	if n != 4 {
		t.Errorf("expected 4 rows inserted, got %d", n)
	}

	got, err := repo.ListRates(ctx, symbol, jan(2), jan(4))
	if err != nil {
		t.Fatalf("list rates: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 rates, got %d", len(got))
	}
	if !got[0].Date.Equal(jan(2)) || got[0].Rate != 0.9287 {
		t.Errorf("expected first row 2024-01-02 0.9287, got %s %f", got[0].Date, got[0].Rate)
	}
	if got[2].Source != "yahoo" {
		t.Errorf("expected source yahoo, got %q", got[2].Source)
	}
	if got[0].CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
}

func TestSaveRates_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db.DB)
	ctx := context.Background()

	rates := []domain.Rate{
		{Symbol: symbol, Date: jan(2), Rate: 0.9287},
	}

	n1, err := repo.SaveRates(ctx, rates)
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	if n1 != 1 {
		t.Errorf("expected 1 row, got %d", n1)
	}

	n2, err := repo.SaveRates(ctx, rates)
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if n2 != 0 {
		t.Errorf("expected 0 rows (idempotent), got %d", n2)
	}
}

func TestSaveRates_LargeBatch(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db.DB)
	ctx := context.Background()

	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	rates := make([]domain.Rate, 1200)
	for i := range rates {
		rates[i] = domain.Rate{Symbol: "BTC-EUR", Date: start.AddDate(0, 0, i), Rate: float64(i + 1)}
	}

	n, err := repo.SaveRates(ctx, rates)
	if err != nil {
		t.Fatalf("save rates: %v", err)
	}
	if n != 1200 {
		t.Errorf("expected 1200 rows across batches, got %d", n)
	}
}

func TestExistingDates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db.DB)
	ctx := context.Background()

	rates := []domain.Rate{
		{Symbol: symbol, Date: jan(2), Rate: 0.9287},
		{Symbol: symbol, Date: jan(4), Rate: 0.9301},
	}
	if _, err := repo.SaveRates(ctx, rates); err != nil {
		t.Fatal(err)
	}

	dates, err := repo.ExistingDates(ctx, symbol, jan(1), jan(5))
	if err != nil {
		t.Fatalf("existing dates: %v", err)
	}
	if len(dates) != 2 {
		t.Fatalf("expected 2 dates, got %d", len(dates))
	}
	if !dates[jan(2)] {
		t.Error("expected 2024-01-02 to exist")
	}
	if dates[jan(3)] {
		t.Error("expected 2024-01-03 to not exist")
	}
}

func TestSaveRates_Empty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db.DB)
	n, err := repo.SaveRates(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0, got %d", n)
	}
}

package insight

import (
	"testing"
	"time"

	"github.com/theirongolddev/capflow/internal/model"
)

func TestLedgerActivityBuckets(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	txs := []model.Transaction{
		{Type: model.Income, Amount: 300, At: now.Add(-time.Hour)},
		{Type: model.Expense, Amount: 100, At: now.Add(-10 * time.Hour)},
		{Type: model.Income, Amount: 100, At: now.Add(-3 * 24 * time.Hour)},
		{Type: model.Expense, Amount: 500, At: now.Add(-30 * 24 * time.Hour)},
	}
	a := LedgerActivity(txs, now)
	if a.Today != 1 || a.Week != 3 || a.Total != 4 {
		t.Errorf("counts = %d/%d/%d, want 1/3/4", a.Today, a.Week, a.Total)
	}
	if a.Income != 400 || a.Expense != 600 {
		t.Errorf("sums = %v/%v, want 400/600", a.Income, a.Expense)
	}
	if got := a.IncomeShare(); got != 0.4 {
		t.Errorf("IncomeShare = %v, want 0.4", got)
	}
	if got := (Activity{}).IncomeShare(); got != 0 {
		t.Errorf("empty IncomeShare = %v, want 0", got)
	}
}

package insight

import (
	"time"

	"github.com/theirongolddev/capflow/internal/model"
)

// Activity counts ledger transactions over recent windows and sums them by
// direction.
type Activity struct {
	Today   int
	Week    int
	Total   int
	Income  float64
	Expense float64
}

// IncomeShare is income over total ledger volume, 0 for an empty ledger.
func (a Activity) IncomeShare() float64 {
	total := a.Income + a.Expense
	if total == 0 {
		return 0
	}
	return a.Income / total
}

// LedgerActivity buckets txs relative to now. Today starts at local midnight;
// the week window reaches back six days from now.
func LedgerActivity(txs []model.Transaction, now time.Time) Activity {
	y, m, d := now.Date()
	startOfDay := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	startOfWeek := now.Add(-6 * 24 * time.Hour)

	a := Activity{Total: len(txs)}
	for _, tx := range txs {
		if !tx.At.Before(startOfDay) {
			a.Today++
		}
		if !tx.At.Before(startOfWeek) {
			a.Week++
		}
		if tx.Type == model.Expense {
			a.Expense += tx.Amount
		} else {
			a.Income += tx.Amount
		}
	}
	return a
}

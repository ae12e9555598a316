package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/debt-service/internal/domain/model"
	"github.com/bibbank/debt-service/internal/domain/valueobject"
)

// ResolveRate returns the annual rate applicable on dueDate.
//
// Fixed-rate debts always use currentRate. Variable-rate debts use the latest
// history entry effective on or before dueDate, and fall back to currentRate
// when no entry qualifies.
func ResolveRate(
	rateType valueobject.RateType,
	history []model.RateHistoryEntry,
	dueDate time.Time,
	currentRate decimal.Decimal,
) decimal.Decimal {
	if !rateType.IsVariable() || len(history) == 0 {
		return currentRate
	}
	return resolveSorted(model.SortRateHistory(history), dueDate, currentRate)
}

func resolveSorted(sorted []model.RateHistoryEntry, dueDate time.Time, currentRate decimal.Decimal) decimal.Decimal {
	rate := currentRate
	for _, e := range sorted {
		if e.EffectiveDate.After(dueDate) {
			break
		}
		rate = e.AnnualRate
	}
	return rate
}

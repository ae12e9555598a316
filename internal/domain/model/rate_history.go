package model

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// RateHistoryEntry is the annual rate of a variable-rate debt from
// EffectiveDate onwards.
type RateHistoryEntry struct {
	DebtID        string
	EffectiveDate time.Time
	AnnualRate    decimal.Decimal
}

// SortRateHistory returns a copy of history ordered by effective date.
func SortRateHistory(history []RateHistoryEntry) []RateHistoryEntry {
	out := make([]RateHistoryEntry, len(history))
	copy(out, history)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EffectiveDate.Before(out[j].EffectiveDate)
	})
	return out
}

// AppendRate returns history with entry appended. The history is append-only:
// an entry may not predate the latest one.
func AppendRate(history []RateHistoryEntry, entry RateHistoryEntry) ([]RateHistoryEntry, error) {
	if entry.AnnualRate.IsNegative() {
		return nil, fmt.Errorf("%w: annual rate must not be negative", ErrValidation)
	}
	if entry.EffectiveDate.IsZero() {
		return nil, fmt.Errorf("%w: effective date is required", ErrValidation)
	}

	sorted := SortRateHistory(history)
	if n := len(sorted); n > 0 && entry.EffectiveDate.Before(sorted[n-1].EffectiveDate) {
		return nil, fmt.Errorf("%w: rate effective %s precedes latest entry %s",
			ErrValidation,
			entry.EffectiveDate.Format(time.DateOnly),
			sorted[n-1].EffectiveDate.Format(time.DateOnly))
	}
	return append(sorted, entry), nil
}

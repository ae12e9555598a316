package service

import (
	"fmt"
	"time"

	"github.com/bibbank/debt-service/internal/domain/event"
	"github.com/bibbank/debt-service/internal/domain/model"
	"github.com/bibbank/debt-service/internal/domain/valueobject"
)

// RateChangeOutcome is what ApplyRateChange asks the caller to persist.
type RateChangeOutcome struct {
	Debt    model.Debt
	Entry   model.RateHistoryEntry
	History []model.RateHistoryEntry
	Lines   []model.ScheduleLine
	Diff    model.LineDiff
}

// ApplyRateChange appends entry to the rate history of a variable-rate debt
// and re-amortizes the untouched tail under the new history. Lines that have
// received money keep their amounts.
func ApplyRateChange(
	debt model.Debt,
	history []model.RateHistoryEntry,
	lines []model.ScheduleLine,
	entry model.RateHistoryEntry,
	now time.Time,
) (RateChangeOutcome, error) {
	entry.DebtID = debt.ID()
	next, err := debt.RecordRateChange(entry, now)
	if err != nil {
		return RateChangeOutcome{}, err
	}
	newHistory, err := model.AppendRate(history, entry)
	if err != nil {
		return RateChangeOutcome{}, err
	}

	kept, untouched := model.SplitUntouched(lines)
	tail, err := Rebuild(debt.Terms(), newHistory, untouched, model.OutstandingPrincipal(untouched), valueobject.PrepaymentReamortize)
	if err != nil {
		return RateChangeOutcome{}, fmt.Errorf("rebuild schedule: %w", err)
	}
	all := lines
	if len(untouched) > 0 {
		all = model.ReplaceTail(kept, tail)
	}

	diff := model.DiffLines(lines, all)
	if !diff.IsEmpty() {
		next = next.Record(event.NewScheduleRebuilt(
			debt.ID(), debt.OwnerID(), "rate_change", len(diff.Upserts), len(diff.Deletes), now,
		))
	}
	return RateChangeOutcome{Debt: next, Entry: entry, History: newHistory, Lines: all, Diff: diff}, nil
}

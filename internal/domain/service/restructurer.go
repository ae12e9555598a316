package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/debt-service/internal/domain/model"
	"github.com/bibbank/debt-service/internal/domain/valueobject"
	"github.com/bibbank/debt-service/pkg/money"
)

// RestructureOutcome holds the superseded debt and its successor.
type RestructureOutcome struct {
	Old      model.Debt
	New      model.Debt
	NewLines []model.ScheduleLine
}

// Restructure supersedes old with a new debt under newTerms. The successor's
// principal is what old still owes; with capitalizeArrears the unpaid
// interest, insurance and fees already due by now are rolled in too. The old
// lines are left as they are.
func Restructure(
	old model.Debt,
	oldLines []model.ScheduleLine,
	newID string,
	newTerms model.DebtTerms,
	capitalizeArrears bool,
	now time.Time,
) (RestructureOutcome, error) {
	if old.Status().IsTerminal() {
		return RestructureOutcome{}, fmt.Errorf("restructure %s debt: %w", old.Status(), model.ErrInvalidTransition)
	}
	if old.IsSettled() {
		return RestructureOutcome{}, fmt.Errorf("restructure debt %s: %w", old.ID(), model.ErrAlreadySettled)
	}

	principal := old.RemainingPrincipal()
	if capitalizeArrears {
		principal = principal.Add(Arrears(oldLines, now))
	}
	newTerms.PrincipalInitial = money.Round2(principal)

	successor, err := model.NewRestructuredDebt(newID, old, newTerms, now)
	if err != nil {
		return RestructureOutcome{}, fmt.Errorf("create successor: %w", err)
	}
	lines, err := BuildSchedule(InputFromTerms(successor.ID(), successor.Terms(), nil))
	if err != nil {
		return RestructureOutcome{}, fmt.Errorf("build successor schedule: %w", err)
	}

	superseded, err := old.MarkRestructured(successor.ID(), now)
	if err != nil {
		return RestructureOutcome{}, err
	}
	return RestructureOutcome{Old: superseded, New: successor, NewLines: lines}, nil
}

// Arrears sums the unpaid interest, insurance and fees of the open lines
// due on or before asOf. Late lines always count.
func Arrears(lines []model.ScheduleLine, asOf time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		if !l.IsOpen() {
			continue
		}
		if l.DueDate.After(asOf) && !l.Status.Equal(valueobject.LineStatusLate) {
			continue
		}
		open := l.OutstandingBuckets()
		total = total.Add(open.Interest).Add(open.Insurance).Add(open.Fees)
	}
	return money.Round2(total)
}

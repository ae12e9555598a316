package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/debt-service/internal/domain/model"
	"github.com/bibbank/debt-service/internal/domain/valueobject"
	"github.com/bibbank/debt-service/pkg/money"
)

// Status derives the debt status from the remaining principal and the lines.
//
//	principal repaid, every line PAYEE   -> SOLDEE
//	principal repaid, some line open     -> EN_COURS
//	principal left, some line EN_RETARD  -> EN_RETARD
//	otherwise                            -> EN_COURS
//
// RESTRUCTUREE is never derived; only restructuring sets it.
func Status(remainingPrincipal decimal.Decimal, lines []model.ScheduleLine) valueobject.DebtStatus {
	if money.IsNegligible(remainingPrincipal) {
		for _, l := range lines {
			if l.IsOpen() {
				return valueobject.DebtStatusCurrent
			}
		}
		return valueobject.DebtStatusSettled
	}
	for _, l := range lines {
		if l.Status.Equal(valueobject.LineStatusLate) {
			return valueobject.DebtStatusLate
		}
	}
	return valueobject.DebtStatusCurrent
}

// Installment is the next amount the debtor is expected to pay.
type Installment struct {
	DueDate     time.Time
	Amount      decimal.Decimal
	PeriodIndex int
}

// NextInstallment returns the earliest open line's due date and outstanding
// amount. ok is false when every line is paid.
func NextInstallment(lines []model.ScheduleLine) (next Installment, ok bool) {
	open := model.OpenLines(lines)
	if len(open) == 0 {
		return Installment{}, false
	}
	l := open[0]
	return Installment{DueDate: l.DueDate, Amount: l.Outstanding(), PeriodIndex: l.PeriodIndex}, true
}

package service

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/bibbank/debt-service/internal/domain/model"
	"github.com/bibbank/debt-service/internal/domain/valueobject"
	"github.com/bibbank/debt-service/pkg/money"
)

// Rebuild regenerates the untouched tail of a schedule for newPrincipal.
//
// The result replaces untouched wholesale; nothing is modified in place.
// An empty result means the tail is gone because the principal is repaid.
// RE-AMORTIR keeps the period count and lowers the installment.
// RACCOURCIR_DUREE keeps the installment and drops periods.
// Due dates keep counting from the debt's start date, and fees still owed on
// untouched lines move onto the rebuilt lines.
func Rebuild(
	terms model.DebtTerms,
	history []model.RateHistoryEntry,
	untouched []model.ScheduleLine,
	newPrincipal decimal.Decimal,
	mode valueobject.PrepaymentMode,
) ([]model.ScheduleLine, error) {
	if len(untouched) == 0 {
		return nil, nil
	}

	sorted := model.SortLines(untouched)
	head := sorted[0]
	rate := ResolveRate(terms.RateType, history, head.DueDate, terms.AnnualRate)

	if money.IsNegligible(newPrincipal) {
		return feesOnlyLine(head, rate, unpaidFees(sorted)), nil
	}

	periods := len(sorted)
	if mode.Equal(valueobject.PrepaymentShorten) {
		periods = shortenedPeriods(terms, sorted, money.Round2(newPrincipal), rate)
	}

	in := ScheduleInput{
		StartDate:         terms.StartDate,
		DebtID:            head.DebtID,
		Principal:         newPrincipal,
		AnnualRate:        rate,
		BalloonPct:        terms.BalloonPct,
		PeriodicInsurance: terms.PeriodicInsurance,
		RateType:          terms.RateType,
		Mode:              terms.Mode,
		Frequency:         terms.Frequency,
		RateHistory:       history,
		TotalPeriods:      periods,
		FirstPeriodIndex:  head.PeriodIndex,
		PeriodOffset:      head.PeriodIndex - 1,
		RecalcEachPeriod:  terms.RecalcEachPeriod,
	}
	lines, err := BuildSchedule(in)
	if err != nil {
		return nil, err
	}

	if mode.Equal(valueobject.PrepaymentShorten) {
		lines = trimNegligibleTail(lines)
	}
	return carryFees(lines, unpaidFees(sorted)), nil
}

// unpaidFees maps period index to the fees still owed on that line.
func unpaidFees(lines []model.ScheduleLine) map[int]decimal.Decimal {
	fees := make(map[int]decimal.Decimal)
	for _, l := range lines {
		if owed := money.NonNegative(l.Due.Fees.Sub(l.Paid.Fees)); owed.IsPositive() {
			fees[l.PeriodIndex] = owed
		}
	}
	return fees
}

// carryFees adds owed fees to the rebuilt line with the same period index.
// Fees of periods the rebuild dropped land on the last line.
func carryFees(lines []model.ScheduleLine, fees map[int]decimal.Decimal) []model.ScheduleLine {
	if len(fees) == 0 || len(lines) == 0 {
		return lines
	}
	out := make([]model.ScheduleLine, len(lines))
	copy(out, lines)

	index := make(map[int]int, len(out))
	for i, l := range out {
		index[l.PeriodIndex] = i
	}
	for period, owed := range fees {
		i, ok := index[period]
		if !ok {
			i = len(out) - 1
		}
		out[i].Due.Fees = money.Round2(out[i].Due.Fees.Add(owed))
		out[i].TotalDue = out[i].Due.Total()
	}
	return out
}

// feesOnlyLine keeps owed fees due once the principal is gone. Nil when
// nothing is owed.
func feesOnlyLine(head model.ScheduleLine, rate decimal.Decimal, fees map[int]decimal.Decimal) []model.ScheduleLine {
	owed := decimal.Zero
	for _, f := range fees {
		owed = owed.Add(f)
	}
	if !owed.IsPositive() {
		return nil
	}
	due := model.Buckets{
		Principal: decimal.Zero,
		Interest:  decimal.Zero,
		Insurance: decimal.Zero,
		Fees:      money.Round2(owed),
	}
	return []model.ScheduleLine{{
		DebtID:                  head.DebtID,
		PeriodIndex:             head.PeriodIndex,
		DueDate:                 head.DueDate,
		Due:                     due,
		TotalDue:                due.Total(),
		TotalPaid:               decimal.Zero,
		RemainingPrincipalAfter: decimal.Zero,
		RateApplied:             rate,
		Status:                  valueobject.LineStatusDue,
	}}
}

// shortenedPeriods derives the period count that keeps the installment the
// tail was already paying. The result stays within [1, len(lines)].
func shortenedPeriods(terms model.DebtTerms, lines []model.ScheduleLine, principal, annualRate decimal.Decimal) int {
	count := len(lines)
	if count <= 1 {
		return count
	}
	head := lines[0].Due

	var n int
	switch {
	case terms.Mode.Equal(valueobject.AmortizationAnnuity):
		installment := money.Sum(head.Principal, head.Interest, head.Insurance)
		n = annuityPeriods(principal, annualRate, terms.Frequency, installment)
	case terms.Mode.Equal(valueobject.AmortizationConstantPrincipal):
		if !head.Principal.IsPositive() {
			return count
		}
		n = int(principal.Div(head.Principal).Ceil().IntPart())
	default:
		// Balloon and interest-only tails mature on a fixed date.
		return count
	}

	if n <= 0 || n > count {
		return count
	}
	return n
}

// annuityPeriods solves n in P = A*(1-(1+r)^-n)/r. Zero when no finite n
// exists for the installment.
func annuityPeriods(principal, annualRate decimal.Decimal, freq valueobject.Frequency, installment decimal.Decimal) int {
	if !installment.IsPositive() {
		return 0
	}
	ppy, err := freq.PeriodsPerYear()
	if err != nil {
		return 0
	}
	p := principal.InexactFloat64()
	a := installment.InexactFloat64()
	r := annualRate.InexactFloat64() / float64(ppy)
	if r == 0 {
		return int(math.Ceil(p / a))
	}
	if r*p >= a {
		return 0
	}
	n := -math.Log(1-r*p/a) / math.Log(1+r)
	// Absorb float noise so an exact fit does not gain a period.
	return int(math.Ceil(n - 1e-9))
}

// trimNegligibleTail drops trailing lines whose principal, interest and
// insurance are all within epsilon. At least one line is kept.
func trimNegligibleTail(lines []model.ScheduleLine) []model.ScheduleLine {
	end := len(lines)
	for end > 1 && isNegligibleLine(lines[end-1]) {
		end--
	}
	return lines[:end]
}

func isNegligibleLine(l model.ScheduleLine) bool {
	return money.IsNegligible(l.Due.Principal) &&
		money.IsNegligible(l.Due.Interest) &&
		money.IsNegligible(l.Due.Insurance)
}

package service

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/debt-service/internal/domain/model"
	"github.com/bibbank/debt-service/internal/domain/valueobject"
	"github.com/bibbank/debt-service/pkg/money"
)

// ScheduleInput bundles everything BuildSchedule needs. Rates are annual
// fractions.
type ScheduleInput struct {
	StartDate         time.Time
	DebtID            string
	Principal         decimal.Decimal
	AnnualRate        decimal.Decimal
	BalloonPct        decimal.Decimal
	PeriodicInsurance decimal.Decimal
	UpfrontFees       decimal.Decimal
	RateType          valueobject.RateType
	Mode              valueobject.AmortizationMode
	Frequency         valueobject.Frequency
	RateHistory       []model.RateHistoryEntry
	TotalPeriods      int
	GracePeriods      int
	// FirstPeriodIndex numbers the first emitted line. Zero means 1.
	FirstPeriodIndex int
	// PeriodOffset counts the periods already elapsed since StartDate: line k
	// falls due PeriodOffset+k frequency units after it.
	PeriodOffset     int
	RecalcEachPeriod bool
}

// InputFromTerms maps debt terms onto a full-schedule input.
func InputFromTerms(debtID string, terms model.DebtTerms, history []model.RateHistoryEntry) ScheduleInput {
	return ScheduleInput{
		StartDate:         terms.StartDate,
		DebtID:            debtID,
		Principal:         terms.PrincipalInitial,
		AnnualRate:        terms.AnnualRate,
		BalloonPct:        terms.BalloonPct,
		PeriodicInsurance: terms.PeriodicInsurance,
		UpfrontFees:       terms.UpfrontFees,
		RateType:          terms.RateType,
		Mode:              terms.Mode,
		Frequency:         terms.Frequency,
		RateHistory:       history,
		TotalPeriods:      terms.TotalPeriods,
		GracePeriods:      terms.GracePeriods,
		RecalcEachPeriod:  terms.RecalcEachPeriod,
	}
}

// BuildSchedule generates one line per period in a single forward pass,
// rounding every amount to cents as it goes. The final line always repays
// whatever principal is left, so the principal of all lines sums to the
// input principal.
func BuildSchedule(in ScheduleInput) ([]model.ScheduleLine, error) {
	ppy, err := in.Frequency.PeriodsPerYear()
	if err != nil {
		return nil, err
	}
	if in.TotalPeriods <= 0 {
		return nil, fmt.Errorf("%w: total periods must be positive", model.ErrValidation)
	}

	total := in.TotalPeriods
	grace := min(max(in.GracePeriods, 0), total)
	first := in.FirstPeriodIndex
	if first <= 0 {
		first = 1
	}
	perYear := decimal.NewFromInt(int64(ppy))
	history := model.SortRateHistory(in.RateHistory)

	remaining := money.Round2(in.Principal)
	balloon := decimal.Zero
	if in.Mode.Equal(valueobject.AmortizationBalloon) || in.Mode.Equal(valueobject.AmortizationInterestOnly) {
		balloon = money.Round2(remaining.Mul(in.BalloonPct))
	}

	// Amortizing periods left, counted down as they are consumed.
	periodsLeft := total - grace
	if in.Mode.Equal(valueobject.AmortizationBalloon) {
		periodsLeft--
	}

	annuity := annuityPayment(remaining, in.AnnualRate.Div(perYear), total-grace)
	insurance := money.Round2(in.PeriodicInsurance)

	lines := make([]model.ScheduleLine, 0, total)
	for k := 0; k < total; k++ {
		last := k == total-1
		inGrace := k < grace
		dueDate := in.Frequency.Advance(in.StartDate, in.PeriodOffset+k)

		rate := in.AnnualRate
		if in.RateType.IsVariable() {
			rate = resolveSorted(history, dueDate, in.AnnualRate)
			if in.RecalcEachPeriod && !inGrace && in.Mode.Equal(valueobject.AmortizationAnnuity) {
				annuity = annuityPayment(remaining, rate.Div(perYear), total-k)
			}
		}
		interest := money.Round2(remaining.Mul(rate.Div(perYear)))

		principal := decimal.Zero
		if !inGrace {
			switch {
			case in.Mode.Equal(valueobject.AmortizationAnnuity):
				principal = annuity.Sub(interest).Sub(insurance)
			case in.Mode.Equal(valueobject.AmortizationConstantPrincipal):
				principal = spread(remaining, periodsLeft)
			case in.Mode.Equal(valueobject.AmortizationBalloon):
				principal = spread(remaining.Sub(balloon), periodsLeft)
			case in.Mode.Equal(valueobject.AmortizationInterestOnly):
				if balloon.IsPositive() && k == total-2 {
					principal = remaining.Sub(balloon)
				}
			}
			periodsLeft--
		}
		if last {
			principal = remaining
		}
		principal = money.Round2(money.Min(money.NonNegative(principal), remaining))

		fees := decimal.Zero
		if k == 0 {
			fees = money.Round2(in.UpfrontFees)
		}

		remaining = money.Round2(remaining.Sub(principal))
		if remaining.LessThan(money.Epsilon) {
			remaining = decimal.Zero
		}

		due := model.Buckets{Principal: principal, Interest: interest, Insurance: insurance, Fees: fees}
		lines = append(lines, model.ScheduleLine{
			DebtID:                  in.DebtID,
			PeriodIndex:             first + k,
			DueDate:                 dueDate,
			Due:                     due,
			TotalDue:                due.Total(),
			TotalPaid:               decimal.Zero,
			RemainingPrincipalAfter: remaining,
			RateApplied:             rate,
			Status:                  valueobject.LineStatusDue,
		})
	}
	return lines, nil
}

// annuityPayment computes P*r*(1+r)^n / ((1+r)^n - 1) rounded to cents. The
// power runs in float64 and the result goes straight back to decimal.
func annuityPayment(principal, periodRate decimal.Decimal, periods int) decimal.Decimal {
	if periods <= 0 {
		return money.Round2(principal)
	}
	if periodRate.IsZero() {
		return spread(principal, periods)
	}
	r := periodRate.InexactFloat64()
	factor := math.Pow(1+r, float64(periods))
	payment := principal.InexactFloat64() * r * factor / (factor - 1)
	return decimal.NewFromFloat(payment).Round(money.Cents)
}

// spread divides amount evenly across periods, rounded to cents.
func spread(amount decimal.Decimal, periods int) decimal.Decimal {
	if periods <= 0 {
		return decimal.Zero
	}
	return money.Round2(amount.Div(decimal.NewFromInt(int64(periods))))
}

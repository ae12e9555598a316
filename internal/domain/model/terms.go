package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/debt-service/internal/domain/valueobject"
)

// DebtTerms holds the contractual parameters a schedule is generated from.
// Rates and percentages are fractions: 0.12 means 12% a year.
type DebtTerms struct {
	StartDate            time.Time
	PrincipalInitial     decimal.Decimal
	AnnualRate           decimal.Decimal
	BalloonPct           decimal.Decimal
	UpfrontFees          decimal.Decimal
	PeriodicInsurance    decimal.Decimal
	PrepaymentPenaltyPct decimal.Decimal
	RateType             valueobject.RateType
	Mode                 valueobject.AmortizationMode
	Frequency            valueobject.Frequency
	TotalPeriods         int
	GracePeriods         int
	RecalcEachPeriod     bool
}

// Validate checks the terms once at the system boundary. The schedule engine
// assumes validated input and does not re-check.
func (t DebtTerms) Validate() error {
	one := decimal.NewFromInt(1)

	switch {
	case !t.PrincipalInitial.IsPositive():
		return fmt.Errorf("%w: principal must be positive", ErrValidation)
	case t.AnnualRate.IsNegative():
		return fmt.Errorf("%w: annual rate must not be negative", ErrValidation)
	case t.RateType.IsZero():
		return fmt.Errorf("%w: rate type is required", ErrValidation)
	case t.Mode.IsZero():
		return fmt.Errorf("%w: amortization mode is required", ErrValidation)
	case t.TotalPeriods <= 0:
		return fmt.Errorf("%w: total periods must be positive", ErrValidation)
	case t.GracePeriods < 0:
		return fmt.Errorf("%w: grace periods must not be negative", ErrValidation)
	case t.GracePeriods >= t.TotalPeriods:
		return fmt.Errorf("%w: grace periods must leave at least one amortizing period", ErrValidation)
	case t.StartDate.IsZero():
		return fmt.Errorf("%w: start date is required", ErrValidation)
	case t.BalloonPct.IsNegative() || t.BalloonPct.GreaterThan(one):
		return fmt.Errorf("%w: balloon percentage must be within [0,1]", ErrValidation)
	case t.PrepaymentPenaltyPct.IsNegative() || t.PrepaymentPenaltyPct.GreaterThan(one):
		return fmt.Errorf("%w: prepayment penalty must be within [0,1]", ErrValidation)
	case t.UpfrontFees.IsNegative():
		return fmt.Errorf("%w: upfront fees must not be negative", ErrValidation)
	case t.PeriodicInsurance.IsNegative():
		return fmt.Errorf("%w: periodic insurance must not be negative", ErrValidation)
	}

	if _, err := t.Frequency.PeriodsPerYear(); err != nil {
		return err
	}
	return nil
}

package postgres

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/debt-service/internal/domain/model"
	"github.com/bibbank/debt-service/internal/domain/valueobject"
	"github.com/bibbank/debt-service/pkg/money"
)

// scannable is satisfied by pgx.Row and pgx.Rows.
type scannable interface {
	Scan(dest ...any) error
}

const debtColumns = `
	id, owner_id, kind, currency,
	principal_initial, annual_rate, rate_type, mode, frequency,
	total_periods, grace_periods, start_date,
	balloon_pct, upfront_fees, periodic_insurance, prepayment_penalty_pct,
	recalc_each_period, remaining_principal, status, restructured_from,
	version, created_at, updated_at`

func scanDebt(s scannable) (model.Debt, error) {
	var (
		id, ownerID, kindStr, currencyStr   string
		rateTypeStr, modeStr, freqStr       string
		statusStr                           string
		restructuredFrom                    *string
		principal, rate, balloon, fees      decimal.Decimal
		insurance, penalty, remaining       decimal.Decimal
		totalPeriods, gracePeriods, version int
		recalc                              bool
		startDate, createdAt, updatedAt     time.Time
	)
	err := s.Scan(
		&id, &ownerID, &kindStr, &currencyStr,
		&principal, &rate, &rateTypeStr, &modeStr, &freqStr,
		&totalPeriods, &gracePeriods, &startDate,
		&balloon, &fees, &insurance, &penalty,
		&recalc, &remaining, &statusStr, &restructuredFrom,
		&version, &createdAt, &updatedAt,
	)
	if err != nil {
		return model.Debt{}, fmt.Errorf("scan debt: %w", err)
	}

	kind, err := valueobject.NewDebtKind(kindStr)
	if err != nil {
		return model.Debt{}, fmt.Errorf("parse debt kind: %w", err)
	}
	currency, err := money.NewCurrency(currencyStr)
	if err != nil {
		return model.Debt{}, fmt.Errorf("parse currency: %w", err)
	}
	rateType, err := valueobject.NewRateType(rateTypeStr)
	if err != nil {
		return model.Debt{}, fmt.Errorf("parse rate type: %w", err)
	}
	mode, err := valueobject.NewAmortizationMode(modeStr)
	if err != nil {
		return model.Debt{}, fmt.Errorf("parse amortization mode: %w", err)
	}
	freq, err := valueobject.NewFrequency(freqStr)
	if err != nil {
		return model.Debt{}, fmt.Errorf("parse frequency: %w", err)
	}
	status, err := valueobject.NewDebtStatus(statusStr)
	if err != nil {
		return model.Debt{}, fmt.Errorf("parse debt status: %w", err)
	}

	terms := model.DebtTerms{
		StartDate:            dateOnly(startDate),
		PrincipalInitial:     principal,
		AnnualRate:           rate,
		BalloonPct:           balloon,
		UpfrontFees:          fees,
		PeriodicInsurance:    insurance,
		PrepaymentPenaltyPct: penalty,
		RateType:             rateType,
		Mode:                 mode,
		Frequency:            freq,
		TotalPeriods:         totalPeriods,
		GracePeriods:         gracePeriods,
		RecalcEachPeriod:     recalc,
	}

	var from string
	if restructuredFrom != nil {
		from = *restructuredFrom
	}

	return model.ReconstructDebt(
		id, ownerID, kind, currency, terms,
		remaining, status, from,
		version, createdAt.UTC(), updatedAt.UTC(),
	), nil
}

func debtArgs(d model.Debt) []any {
	t := d.Terms()
	var from *string
	if d.RestructuredFrom() != "" {
		v := d.RestructuredFrom()
		from = &v
	}
	return []any{
		d.ID(), d.OwnerID(), d.Kind().String(), d.Currency().Code(),
		t.PrincipalInitial, t.AnnualRate, t.RateType.String(), t.Mode.String(), t.Frequency.String(),
		t.TotalPeriods, t.GracePeriods, t.StartDate,
		t.BalloonPct, t.UpfrontFees, t.PeriodicInsurance, t.PrepaymentPenaltyPct,
		t.RecalcEachPeriod, d.RemainingPrincipal(), d.Status().String(), from,
		d.Version(), d.CreatedAt(), d.UpdatedAt(),
	}
}

const lineColumns = `
	debt_id, period_index, due_date,
	principal_due, interest_due, insurance_due, fees_due,
	principal_paid, interest_paid, insurance_paid, fees_paid,
	total_due, total_paid, remaining_principal_after, rate_applied, status`

func scanLine(s scannable) (model.ScheduleLine, error) {
	var (
		l         model.ScheduleLine
		statusStr string
	)
	err := s.Scan(
		&l.DebtID, &l.PeriodIndex, &l.DueDate,
		&l.Due.Principal, &l.Due.Interest, &l.Due.Insurance, &l.Due.Fees,
		&l.Paid.Principal, &l.Paid.Interest, &l.Paid.Insurance, &l.Paid.Fees,
		&l.TotalDue, &l.TotalPaid, &l.RemainingPrincipalAfter, &l.RateApplied, &statusStr,
	)
	if err != nil {
		return model.ScheduleLine{}, fmt.Errorf("scan schedule line: %w", err)
	}
	l.DueDate = dateOnly(l.DueDate)
	l.Status, err = valueobject.NewLineStatus(statusStr)
	if err != nil {
		return model.ScheduleLine{}, fmt.Errorf("parse line status: %w", err)
	}
	return l, nil
}

func lineArgs(l model.ScheduleLine) []any {
	return []any{
		l.DebtID, l.PeriodIndex, l.DueDate,
		l.Due.Principal, l.Due.Interest, l.Due.Insurance, l.Due.Fees,
		l.Paid.Principal, l.Paid.Interest, l.Paid.Insurance, l.Paid.Fees,
		l.TotalDue, l.TotalPaid, l.RemainingPrincipalAfter, l.RateApplied, l.Status.String(),
	}
}

const paymentColumns = `
	id, debt_id, owner_id, amount, currency,
	alloc_fees, alloc_interests, alloc_insurance, alloc_principal,
	unapplied, method, kind, paid_at`

func scanPayment(s scannable) (model.Payment, error) {
	var (
		id, debtID, ownerID, currencyStr string
		methodStr, kindStr               string
		amount, unapplied                decimal.Decimal
		alloc                            model.Allocation
		paidAt                           time.Time
	)
	err := s.Scan(
		&id, &debtID, &ownerID, &amount, &currencyStr,
		&alloc.Fees, &alloc.Interests, &alloc.Insurance, &alloc.Principal,
		&unapplied, &methodStr, &kindStr, &paidAt,
	)
	if err != nil {
		return model.Payment{}, fmt.Errorf("scan payment: %w", err)
	}
	currency, err := money.NewCurrency(currencyStr)
	if err != nil {
		return model.Payment{}, fmt.Errorf("parse currency: %w", err)
	}
	method, err := valueobject.NewPaymentMethod(methodStr)
	if err != nil {
		return model.Payment{}, fmt.Errorf("parse payment method: %w", err)
	}
	kind, err := valueobject.NewPaymentKind(kindStr)
	if err != nil {
		return model.Payment{}, fmt.Errorf("parse payment kind: %w", err)
	}
	return model.ReconstructPayment(
		id, debtID, ownerID, money.New(amount, currency), alloc,
		unapplied, method, kind, paidAt.UTC(),
	), nil
}

func paymentArgs(p model.Payment) []any {
	a := p.Allocation()
	return []any{
		p.ID(), p.DebtID(), p.OwnerID(), p.Amount().Amount(), p.Amount().Currency().Code(),
		a.Fees, a.Interests, a.Insurance, a.Principal,
		p.Unapplied(), p.Method().String(), p.Kind().String(), p.PaidAt(),
	}
}

// dateOnly normalizes a DATE column to midnight UTC.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

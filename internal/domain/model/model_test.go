package model_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/debt-service/internal/domain/event"
	"github.com/bibbank/debt-service/internal/domain/model"
	"github.com/bibbank/debt-service/internal/domain/valueobject"
	"github.com/bibbank/debt-service/pkg/money"
)

var now = time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func validTerms() model.DebtTerms {
	return model.DebtTerms{
		StartDate:        time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		PrincipalInitial: dec("12000"),
		AnnualRate:       dec("0.12"),
		RateType:         valueobject.RateTypeFixed,
		Mode:             valueobject.AmortizationAnnuity,
		Frequency:        valueobject.FrequencyMonthly,
		TotalPeriods:     12,
	}
}

// ---------------------------------------------------------------------------
// DebtTerms
// ---------------------------------------------------------------------------

func TestDebtTerms_Validate(t *testing.T) {
	require.NoError(t, validTerms().Validate())

	tests := []struct {
		name   string
		mutate func(*model.DebtTerms)
	}{
		{"zero principal", func(d *model.DebtTerms) { d.PrincipalInitial = dec("0") }},
		{"negative rate", func(d *model.DebtTerms) { d.AnnualRate = dec("-0.01") }},
		{"missing rate type", func(d *model.DebtTerms) { d.RateType = valueobject.RateType{} }},
		{"missing mode", func(d *model.DebtTerms) { d.Mode = valueobject.AmortizationMode{} }},
		{"no periods", func(d *model.DebtTerms) { d.TotalPeriods = 0 }},
		{"negative grace", func(d *model.DebtTerms) { d.GracePeriods = -1 }},
		{"grace covers every period", func(d *model.DebtTerms) { d.GracePeriods = 12 }},
		{"missing start date", func(d *model.DebtTerms) { d.StartDate = time.Time{} }},
		{"balloon above one", func(d *model.DebtTerms) { d.BalloonPct = dec("1.5") }},
		{"negative penalty", func(d *model.DebtTerms) { d.PrepaymentPenaltyPct = dec("-0.1") }},
		{"negative fees", func(d *model.DebtTerms) { d.UpfrontFees = dec("-1") }},
		{"negative insurance", func(d *model.DebtTerms) { d.PeriodicInsurance = dec("-1") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terms := validTerms()
			tt.mutate(&terms)
			assert.ErrorIs(t, terms.Validate(), model.ErrValidation)
		})
	}

	t.Run("unsupported frequency", func(t *testing.T) {
		terms := validTerms()
		terms.Frequency = valueobject.Frequency{}
		assert.ErrorIs(t, terms.Validate(), model.ErrUnsupportedFrequency)
	})
}

// ---------------------------------------------------------------------------
// Debt
// ---------------------------------------------------------------------------

func newTestDebt(t *testing.T) model.Debt {
	t.Helper()
	d, err := model.NewDebt("debt-1", "owner-1", valueobject.DebtKindBorrowed, money.XAF, validTerms(), now)
	require.NoError(t, err)
	return d
}

func TestNewDebt(t *testing.T) {
	d := newTestDebt(t)

	assert.Equal(t, "debt-1", d.ID())
	assert.Equal(t, "owner-1", d.OwnerID())
	assert.True(t, d.Status().Equal(valueobject.DebtStatusCurrent))
	assert.True(t, d.RemainingPrincipal().Equal(dec("12000")))
	assert.Equal(t, 1, d.Version())
	assert.Empty(t, d.RestructuredFrom())
	require.Len(t, d.DomainEvents(), 1)

	created, ok := d.DomainEvents()[0].(event.DebtCreated)
	require.True(t, ok)
	assert.Equal(t, "XAF", created.Currency)
	assert.Equal(t, "ANNUITE", created.Mode)
	assert.Equal(t, "owner-1", created.OwnerID())
}

func TestNewDebt_Validation(t *testing.T) {
	_, err := model.NewDebt("", "owner-1", valueobject.DebtKindBorrowed, money.EUR, validTerms(), now)
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = model.NewDebt("debt-1", "", valueobject.DebtKindBorrowed, money.EUR, validTerms(), now)
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = model.NewDebt("debt-1", "owner-1", valueobject.DebtKind{}, money.EUR, validTerms(), now)
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = model.NewDebt("debt-1", "owner-1", valueobject.DebtKindBorrowed, money.Currency{}, validTerms(), now)
	assert.ErrorIs(t, err, model.ErrValidation)

	bad := validTerms()
	bad.TotalPeriods = -3
	_, err = model.NewDebt("debt-1", "owner-1", valueobject.DebtKindBorrowed, money.EUR, bad, now)
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestDebt_RefreshIsImmutable(t *testing.T) {
	d := newTestDebt(t).ClearEvents()
	later := now.Add(time.Hour)

	next, err := d.Refresh(dec("8000.004"), valueobject.DebtStatusLate, later)
	require.NoError(t, err)

	assert.True(t, d.RemainingPrincipal().Equal(dec("12000")))
	assert.True(t, d.Status().Equal(valueobject.DebtStatusCurrent))
	assert.Empty(t, d.DomainEvents())

	assert.True(t, next.RemainingPrincipal().Equal(dec("8000")))
	assert.True(t, next.Status().Equal(valueobject.DebtStatusLate))
	assert.Equal(t, later, next.UpdatedAt())
	require.Len(t, next.DomainEvents(), 1)
	changed := next.DomainEvents()[0].(event.DebtStatusChanged)
	assert.Equal(t, "EN_COURS", changed.From)
	assert.Equal(t, "EN_RETARD", changed.To)

	same, err := next.ClearEvents().Refresh(dec("7000"), valueobject.DebtStatusLate, later)
	require.NoError(t, err)
	assert.Empty(t, same.DomainEvents())
}

func TestDebt_RefreshCannotRestructure(t *testing.T) {
	_, err := newTestDebt(t).Refresh(dec("1"), valueobject.DebtStatusRestructured, now)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
}

func TestDebt_MarkRestructured(t *testing.T) {
	d := newTestDebt(t).ClearEvents()

	old, err := d.MarkRestructured("debt-2", now)
	require.NoError(t, err)
	assert.True(t, old.Status().Equal(valueobject.DebtStatusRestructured))
	require.Len(t, old.DomainEvents(), 2)
	assert.Equal(t, event.TypeDebtRestructured, old.DomainEvents()[1].EventType())

	_, err = old.MarkRestructured("debt-3", now)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	_, err = d.MarkRestructured("", now)
	assert.ErrorIs(t, err, model.ErrValidation)

	successor, err := model.NewRestructuredDebt("debt-2", old, validTerms(), now)
	require.NoError(t, err)
	assert.Equal(t, "debt-1", successor.RestructuredFrom())
	assert.Equal(t, money.XAF, successor.Currency())
	assert.True(t, successor.Kind().Equal(valueobject.DebtKindBorrowed))
}

func TestDebt_RecordRateChange(t *testing.T) {
	entry := model.RateHistoryEntry{EffectiveDate: now, AnnualRate: dec("0.2")}

	_, err := newTestDebt(t).RecordRateChange(entry, now)
	assert.ErrorIs(t, err, model.ErrValidation)

	terms := validTerms()
	terms.RateType = valueobject.RateTypeVariable
	d, err := model.NewDebt("debt-1", "owner-1", valueobject.DebtKindLent, money.EUR, terms, now)
	require.NoError(t, err)

	next, err := d.ClearEvents().RecordRateChange(entry, now)
	require.NoError(t, err)
	require.Len(t, next.DomainEvents(), 1)
	assert.Equal(t, event.TypeRateChanged, next.DomainEvents()[0].EventType())
}

func TestDebt_RecordPayment(t *testing.T) {
	d := newTestDebt(t).ClearEvents()
	p, err := model.NewPayment("pay-1", "debt-1", "owner-1",
		money.New(dec("100"), money.XAF),
		model.Allocation{Interests: dec("100")}, dec("0"),
		valueobject.PaymentMethodCash, valueobject.PaymentKindInstallment, now)
	require.NoError(t, err)

	next, err := d.RecordPayment(p, now)
	require.NoError(t, err)
	recorded := next.DomainEvents()[0].(event.PaymentRecorded)
	assert.Equal(t, "pay-1", recorded.PaymentID)
	assert.True(t, recorded.Interests.Equal(dec("100")))
	assert.Equal(t, "XAF", recorded.Currency)

	other, err := model.NewPayment("pay-2", "debt-9", "owner-1",
		money.New(dec("100"), money.XAF), model.Allocation{}, dec("0"),
		valueobject.PaymentMethodCash, valueobject.PaymentKindInstallment, now)
	require.NoError(t, err)
	_, err = d.RecordPayment(other, now)
	assert.ErrorIs(t, err, model.ErrValidation)
}

// ---------------------------------------------------------------------------
// Payment
// ---------------------------------------------------------------------------

func TestNewPayment_Validation(t *testing.T) {
	amount := money.New(dec("10"), money.EUR)
	kind := valueobject.PaymentKindInstallment

	_, err := model.NewPayment("", "debt-1", "o", amount, model.Allocation{}, dec("0"), valueobject.PaymentMethodCash, kind, now)
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = model.NewPayment("p", "debt-1", "o", money.Zero(money.EUR), model.Allocation{}, dec("0"), valueobject.PaymentMethodCash, kind, now)
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = model.NewPayment("p", "debt-1", "o", amount, model.Allocation{}, dec("0"), valueobject.PaymentMethodCash, kind, time.Time{})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = model.NewPayment("p", "debt-1", "o", amount, model.Allocation{}, dec("-1"), valueobject.PaymentMethodCash, kind, now)
	assert.ErrorIs(t, err, model.ErrValidation)
}

// ---------------------------------------------------------------------------
// Rate history
// ---------------------------------------------------------------------------

func TestAppendRate(t *testing.T) {
	jan := model.RateHistoryEntry{EffectiveDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), AnnualRate: dec("0.05")}
	mar := model.RateHistoryEntry{EffectiveDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), AnnualRate: dec("0.07")}

	history, err := model.AppendRate(nil, jan)
	require.NoError(t, err)
	history, err = model.AppendRate(history, mar)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	_, err = model.AppendRate(history, jan)
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = model.AppendRate(history, model.RateHistoryEntry{EffectiveDate: mar.EffectiveDate, AnnualRate: dec("-0.01")})
	assert.ErrorIs(t, err, model.ErrValidation)

	sameDay, err := model.AppendRate(history, model.RateHistoryEntry{EffectiveDate: mar.EffectiveDate, AnnualRate: dec("0.08")})
	require.NoError(t, err)
	assert.Len(t, sameDay, 3)
}

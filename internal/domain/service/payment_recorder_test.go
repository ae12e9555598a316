package service_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/debt-service/internal/domain/event"
	"github.com/bibbank/debt-service/internal/domain/model"
	"github.com/bibbank/debt-service/internal/domain/service"
	"github.com/bibbank/debt-service/internal/domain/valueobject"
)

func pay(amount string, at time.Time) service.PaymentRequest {
	return service.PaymentRequest{
		PaidAt:    at,
		PaymentID: "pay-1",
		Amount:    dec(amount),
		Method:    valueobject.PaymentMethodMobileMoney,
	}
}

func TestRecordPayment_ExactInstallment(t *testing.T) {
	debt, lines := newDebt(t, annuityTerms())

	out, err := service.RecordPayment(debt, nil, lines, pay("1066.19", jan15), now)
	require.NoError(t, err)

	assert.True(t, out.Lines[0].Status.Equal(valueobject.LineStatusPaid))
	assertMoney(t, "120.00", out.Allocation.Interests)
	assertMoney(t, "946.19", out.Allocation.Principal)
	assertMoney(t, "0.00", out.Unapplied)
	assertMoney(t, "11053.81", out.Debt.RemainingPrincipal())
	assert.False(t, out.Rebuilt)
	require.Len(t, out.Diff.Upserts, 1)
	assert.Equal(t, 1, out.Diff.Upserts[0].PeriodIndex)
	assert.Equal(t, []string{event.TypePaymentRecorded}, eventTypes(out.Debt))

	assert.True(t, out.Payment.Kind().Equal(valueobject.PaymentKindInstallment))
	assert.True(t, out.Payment.Method().Equal(valueobject.PaymentMethodMobileMoney))
	assert.Equal(t, "1066.19 EUR", out.Payment.Amount().String())
}

func TestRecordPayment_PartialGoesToInterestFirst(t *testing.T) {
	debt, lines := newDebt(t, annuityTerms())

	out, err := service.RecordPayment(debt, nil, lines, pay("100", jan15), now)
	require.NoError(t, err)

	assert.True(t, out.Lines[0].Status.Equal(valueobject.LineStatusPartial))
	assertMoney(t, "100.00", out.Lines[0].Paid.Interest)
	assertMoney(t, "0.00", out.Allocation.Principal)
	assertMoney(t, "12000.00", out.Debt.RemainingPrincipal())
}

func TestRecordPayment_EarlyPaymentTargetsFirstOpenLine(t *testing.T) {
	debt, lines := newDebt(t, annuityTerms())

	out, err := service.RecordPayment(debt, nil, lines, pay("500", jan15.AddDate(0, 0, -10)), now)
	require.NoError(t, err)

	assertMoney(t, "500.00", out.Lines[0].TotalPaid)
	assertMoney(t, "0.00", out.Lines[1].TotalPaid)
}

func TestRecordPayment_CoversEveryDueLineInOrder(t *testing.T) {
	debt, lines := newDebt(t, annuityTerms())
	mar20 := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)

	out, err := service.RecordPayment(debt, nil, lines, pay("2500", mar20), now)
	require.NoError(t, err)

	assert.True(t, out.Lines[0].Status.Equal(valueobject.LineStatusPaid))
	assert.True(t, out.Lines[1].Status.Equal(valueobject.LineStatusPaid))
	assert.True(t, out.Lines[2].Status.Equal(valueobject.LineStatusPartial))
	assertMoney(t, "367.62", out.Lines[2].TotalPaid)
	assert.False(t, out.Rebuilt)
}

func TestRecordPayment_OverpaymentShortensTail(t *testing.T) {
	debt, lines := newDebt(t, annuityTerms())

	out, err := service.RecordPayment(debt, nil, lines, pay("4000", jan15), now)
	require.NoError(t, err)

	assert.True(t, out.Rebuilt)
	assertMoney(t, "3880.00", out.Allocation.Principal)
	assertMoney(t, "0.00", out.Unapplied)
	assertMoney(t, "8120.00", out.Debt.RemainingPrincipal())

	require.Len(t, out.Lines, 9)
	assert.Equal(t, 2, out.Lines[1].PeriodIndex)
	assert.Equal(t, lines[1].DueDate, out.Lines[1].DueDate)
	assertMoney(t, "1061.21", out.Lines[1].TotalDue)
	assertMoney(t, "8120.00", sumPrincipal(out.Lines[1:]))
	assert.Len(t, out.Diff.Upserts, 9)
	assert.Equal(t, []int{10, 11, 12}, out.Diff.Deletes)
	assert.Contains(t, eventTypes(out.Debt), event.TypeScheduleRebuilt)

	total := out.Payment.Allocation().Total().Add(out.Payment.Unapplied())
	assertMoney(t, "4000.00", total)
}

func TestRecordPayment_BeyondPrincipalIsUnapplied(t *testing.T) {
	debt, lines := newDebt(t, annuityTerms())

	out, err := service.RecordPayment(debt, nil, lines, pay("20000", jan15), now)
	require.NoError(t, err)

	assertMoney(t, "7880.00", out.Unapplied)
	assertMoney(t, "0.00", out.Debt.RemainingPrincipal())
	require.Len(t, out.Lines, 1)
	assert.True(t, out.Debt.Status().Equal(valueobject.DebtStatusSettled))
	assertMoney(t, "7880.00", out.Payment.Unapplied())
}

func TestRecordPayment_LateLine(t *testing.T) {
	debt, lines := newDebt(t, annuityTerms())
	lines, flagged := service.MarkOverdue(lines, jan15.AddDate(0, 0, 10), 72*time.Hour)
	require.Equal(t, 1, flagged)
	debt, err := debt.Refresh(debt.RemainingPrincipal(), service.Status(debt.RemainingPrincipal(), lines), now)
	require.NoError(t, err)
	require.True(t, debt.Status().Equal(valueobject.DebtStatusLate))

	at := jan15.AddDate(0, 0, 11)
	out, err := service.RecordPayment(debt, nil, lines, pay("500", at), now)
	require.NoError(t, err)
	assert.True(t, out.Lines[0].Status.Equal(valueobject.LineStatusLate))
	assert.True(t, out.Debt.Status().Equal(valueobject.DebtStatusLate))

	out, err = service.RecordPayment(out.Debt, nil, out.Lines, pay("566.19", at), now)
	require.NoError(t, err)
	assert.True(t, out.Lines[0].Status.Equal(valueobject.LineStatusPaid))
	assert.True(t, out.Debt.Status().Equal(valueobject.DebtStatusCurrent))
}

func TestRecordPayment_Errors(t *testing.T) {
	debt, lines := newDebt(t, annuityTerms())

	_, err := service.RecordPayment(debt, nil, lines, pay("0", jan15), now)
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = service.RecordPayment(debt, nil, nil, pay("10", jan15), now)
	assert.ErrorIs(t, err, model.ErrScheduleNotFound)

	paidOff := make([]model.ScheduleLine, len(lines))
	for i, l := range lines {
		paidOff[i] = l.ApplyAllocation(model.Allocation{
			Interests: l.Due.Interest,
			Principal: l.Due.Principal,
			Fees:      decimal.Zero,
			Insurance: decimal.Zero,
		})
	}
	_, err = service.RecordPayment(withRemaining(debt, dec("0")), nil, paidOff, pay("10", jan15), now)
	assert.ErrorIs(t, err, model.ErrNoOpenInstallments)

	superseded, err := debt.MarkRestructured("debt-2", now)
	require.NoError(t, err)
	_, err = service.RecordPayment(superseded, nil, lines, pay("10", jan15), now)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
}

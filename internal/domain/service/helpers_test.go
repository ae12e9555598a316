package service_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/debt-service/internal/domain/model"
	"github.com/bibbank/debt-service/internal/domain/service"
	"github.com/bibbank/debt-service/internal/domain/valueobject"
	"github.com/bibbank/debt-service/pkg/money"
)

var (
	jan15 = time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	now   = time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertMoney(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Equal(t, want, got.StringFixed(2), msgAndArgs...)
}

// annuityTerms is 12000 at 12% over 12 monthly periods.
func annuityTerms() model.DebtTerms {
	return model.DebtTerms{
		StartDate:        jan15,
		PrincipalInitial: dec("12000"),
		AnnualRate:       dec("0.12"),
		RateType:         valueobject.RateTypeFixed,
		Mode:             valueobject.AmortizationAnnuity,
		Frequency:        valueobject.FrequencyMonthly,
		TotalPeriods:     12,
	}
}

func newDebt(t *testing.T, terms model.DebtTerms) (model.Debt, []model.ScheduleLine) {
	t.Helper()
	debt, err := model.NewDebt("debt-1", "owner-1", valueobject.DebtKindBorrowed, money.EUR, terms, now)
	require.NoError(t, err)
	lines, err := service.BuildSchedule(service.InputFromTerms(debt.ID(), debt.Terms(), nil))
	require.NoError(t, err)
	return debt.ClearEvents(), lines
}

func withRemaining(d model.Debt, remaining decimal.Decimal) model.Debt {
	return model.ReconstructDebt(
		d.ID(), d.OwnerID(), d.Kind(), d.Currency(), d.Terms(),
		remaining, d.Status(), d.RestructuredFrom(), d.Version(), d.CreatedAt(), d.UpdatedAt(),
	)
}

func sumPrincipal(lines []model.ScheduleLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Due.Principal)
	}
	return total
}

func eventTypes(d model.Debt) []string {
	var types []string
	for _, e := range d.DomainEvents() {
		types = append(types, e.EventType())
	}
	return types
}

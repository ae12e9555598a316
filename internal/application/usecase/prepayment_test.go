package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/debt-service/internal/application/dto"
	"github.com/bibbank/debt-service/internal/application/usecase"
	"github.com/bibbank/debt-service/internal/domain/event"
	"github.com/bibbank/debt-service/internal/domain/model"
	"github.com/bibbank/debt-service/pkg/testutil"
)

func TestSimulatePrepayment_Execute(t *testing.T) {
	t.Run("previews without writing", func(t *testing.T) {
		f := newFixture(testutil.TestStart)
		created := f.createDebt(t, constantTerms())

		resp, err := usecase.NewSimulatePrepaymentUseCase(f.deps).Execute(context.Background(), dto.SimulatePrepaymentRequest{
			OwnerID: owner, DebtID: created.ID, Amount: testutil.Dec("400"),
		})
		require.NoError(t, err)

		testutil.AssertDecimal(t, "400.00", resp.PrepaymentApplied)
		testutil.AssertDecimal(t, "800.00", resp.NewPrincipal)
		testutil.AssertDecimal(t, "0", resp.Penalty)
		assert.True(t, resp.InterestsSaved.IsPositive())

		stored, err := f.store.FindByID(context.Background(), owner, created.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, stored.Version())
		assert.Empty(t, f.publisher.publishedEvents)
	})

	t.Run("rejects an unknown mode", func(t *testing.T) {
		f := newFixture(testutil.TestStart)
		created := f.createDebt(t, constantTerms())

		_, err := usecase.NewSimulatePrepaymentUseCase(f.deps).Execute(context.Background(), dto.SimulatePrepaymentRequest{
			OwnerID: owner, DebtID: created.ID, Amount: testutil.Dec("400"), Mode: "SKIP",
		})
		require.ErrorIs(t, err, model.ErrValidation)
	})
}

func TestApplyPrepayment_Execute(t *testing.T) {
	t.Run("reduces the principal and records the payment", func(t *testing.T) {
		f := newFixture(testutil.TestStart)
		created := f.createDebt(t, constantTerms())

		resp, err := usecase.NewApplyPrepaymentUseCase(f.deps).Execute(context.Background(), dto.ApplyPrepaymentRequest{
			OwnerID: owner, DebtID: created.ID, Amount: testutil.Dec("400"), Mode: "RE-AMORTIR", Method: "CARD",
		})
		require.NoError(t, err)

		testutil.AssertDecimal(t, "800.00", resp.Debt.RemainingPrincipal)
		assert.Equal(t, 2, resp.Debt.Version)
		assert.Equal(t, "PREPAYMENT", resp.Payment.Kind)
		testutil.AssertDecimal(t, "400.00", resp.Payment.Allocation.Principal)

		payments, err := f.store.FindPayments(context.Background(), created.ID)
		require.NoError(t, err)
		require.Len(t, payments, 1)
		assert.Equal(t, resp.Payment.ID, payments[0].ID())

		types := f.publisher.types()
		assert.Contains(t, types, event.TypePaymentRecorded)
		assert.Contains(t, types, event.TypePrepaymentApplied)
	})

	t.Run("rejects a settled debt", func(t *testing.T) {
		f := newFixture(testutil.TestStart)
		created := f.createDebt(t, constantTerms())
		uc := usecase.NewApplyPrepaymentUseCase(f.deps)

		_, err := uc.Execute(context.Background(), dto.ApplyPrepaymentRequest{
			OwnerID: owner, DebtID: created.ID, Amount: testutil.Dec("1200"),
		})
		require.NoError(t, err)

		_, err = uc.Execute(context.Background(), dto.ApplyPrepaymentRequest{
			OwnerID: owner, DebtID: created.ID, Amount: testutil.Dec("1"),
		})
		require.ErrorIs(t, err, model.ErrAlreadySettled)
	})
}

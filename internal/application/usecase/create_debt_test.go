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
	"github.com/bibbank/debt-service/internal/domain/port"
	"github.com/bibbank/debt-service/pkg/testutil"
)

func TestCreateDebt_Execute(t *testing.T) {
	t.Run("stores the debt with its schedule", func(t *testing.T) {
		f := newFixture(testutil.TestStart)
		uc := usecase.NewCreateDebtUseCase(f.deps)

		resp, err := uc.Execute(context.Background(), dto.CreateDebtRequest{
			OwnerID:  owner,
			Kind:     "BORROWED",
			Currency: "EUR",
			Terms:    constantTerms(),
		})
		require.NoError(t, err)

		assert.Equal(t, "00000000-0000-4000-8000-000000000001", resp.ID)
		assert.Equal(t, "EN_COURS", resp.Status)
		assert.Equal(t, 1, resp.Version)
		testutil.AssertDecimal(t, "1200.00", resp.RemainingPrincipal)
		require.Len(t, resp.Schedule, 3)
		testutil.AssertDecimal(t, "12.00", resp.Schedule[0].InterestDue)
		testutil.AssertDecimal(t, "4.00", resp.Schedule[2].InterestDue)

		require.NotNil(t, resp.NextInstallment)
		assert.Equal(t, 1, resp.NextInstallment.PeriodIndex)
		testutil.AssertDecimal(t, "412.00", resp.NextInstallment.Amount)

		stored, err := f.store.FindSchedule(context.Background(), resp.ID)
		require.NoError(t, err)
		assert.Len(t, stored, 3)
		assert.Equal(t, []string{event.TypeDebtCreated}, f.publisher.types())
	})

	t.Run("rejects an unknown debt kind", func(t *testing.T) {
		f := newFixture(testutil.TestStart)
		uc := usecase.NewCreateDebtUseCase(f.deps)

		_, err := uc.Execute(context.Background(), dto.CreateDebtRequest{
			OwnerID: owner, Kind: "GIFT", Currency: "EUR", Terms: constantTerms(),
		})
		require.ErrorIs(t, err, model.ErrValidation)
		assert.Empty(t, f.publisher.publishedEvents)
	})

	t.Run("rejects an unsupported frequency", func(t *testing.T) {
		f := newFixture(testutil.TestStart)
		terms := constantTerms()
		terms.Frequency = "QUARTERLY"

		_, err := usecase.NewCreateDebtUseCase(f.deps).Execute(context.Background(), dto.CreateDebtRequest{
			OwnerID: owner, Kind: "BORROWED", Currency: "EUR", Terms: terms,
		})
		require.ErrorIs(t, err, model.ErrUnsupportedFrequency)
	})

	t.Run("rejects invalid terms", func(t *testing.T) {
		f := newFixture(testutil.TestStart)
		terms := constantTerms()
		terms.GracePeriods = 3

		_, err := usecase.NewCreateDebtUseCase(f.deps).Execute(context.Background(), dto.CreateDebtRequest{
			OwnerID: owner, Kind: "BORROWED", Currency: "EUR", Terms: terms,
		})
		require.ErrorIs(t, err, model.ErrValidation)
	})

	t.Run("publishes nothing when the commit fails", func(t *testing.T) {
		f := newFixture(testutil.TestStart)
		f.deps.UoW = &mockUnitOfWork{
			commitFunc: func(context.Context, port.ChangeSet) error { return errBoom },
		}

		_, err := usecase.NewCreateDebtUseCase(f.deps).Execute(context.Background(), dto.CreateDebtRequest{
			OwnerID: owner, Kind: "BORROWED", Currency: "EUR", Terms: constantTerms(),
		})
		require.ErrorIs(t, err, errBoom)
		assert.Contains(t, err.Error(), "commit changes")
		assert.Empty(t, f.publisher.publishedEvents)
	})
}

package usecase

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/bibbank/debt-service/internal/application/dto"
	"github.com/bibbank/debt-service/internal/domain/model"
	"github.com/bibbank/debt-service/internal/domain/port"
	"github.com/bibbank/debt-service/internal/domain/service"
	"github.com/bibbank/debt-service/internal/domain/valueobject"
	"github.com/bibbank/debt-service/pkg/money"
)

// CreateDebtUseCase registers a debt and persists its initial schedule.
type CreateDebtUseCase struct {
	deps Dependencies
}

// NewCreateDebtUseCase creates a new CreateDebtUseCase.
func NewCreateDebtUseCase(deps Dependencies) *CreateDebtUseCase {
	return &CreateDebtUseCase{deps: deps.withDefaults()}
}

// Execute validates the terms, builds the schedule and stores both.
func (uc *CreateDebtUseCase) Execute(ctx context.Context, req dto.CreateDebtRequest) (resp dto.DebtResponse, err error) {
	ctx, finish := uc.deps.startOp(ctx, "create_debt", attribute.String("owner.id", req.OwnerID))
	defer finish(&err)

	kind, err := valueobject.NewDebtKind(req.Kind)
	if err != nil {
		return dto.DebtResponse{}, fmt.Errorf("%w: %v", model.ErrValidation, err)
	}
	currency, err := money.NewCurrency(req.Currency)
	if err != nil {
		return dto.DebtResponse{}, fmt.Errorf("%w: %v", model.ErrValidation, err)
	}
	terms, err := termsFromInput(req.Terms)
	if err != nil {
		return dto.DebtResponse{}, err
	}

	now := uc.deps.Clock.Now()
	debt, err := model.NewDebt(uc.deps.IDs.NewID(), req.OwnerID, kind, currency, terms, now)
	if err != nil {
		return dto.DebtResponse{}, err
	}
	lines, err := service.BuildSchedule(service.InputFromTerms(debt.ID(), debt.Terms(), nil))
	if err != nil {
		return dto.DebtResponse{}, fmt.Errorf("build schedule: %w", err)
	}

	changes := port.ChangeSet{
		Debts:     []model.Debt{debt},
		Schedules: []port.ScheduleChange{{DebtID: debt.ID(), Diff: model.DiffLines(nil, lines)}},
	}
	if err := uc.deps.commit(ctx, changes, debt.DomainEvents()); err != nil {
		return dto.DebtResponse{}, err
	}
	uc.deps.Metrics.AddScheduleLines("create", len(lines))

	uc.deps.Logger.InfoContext(ctx, "debt created",
		"debt_id", debt.ID(),
		"owner_id", debt.OwnerID(),
		"mode", terms.Mode.String(),
		"periods", terms.TotalPeriods,
	)
	return toDebtResponse(debt, lines), nil
}

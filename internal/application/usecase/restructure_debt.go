package usecase

import (
	"context"

	"github.com/bibbank/debt-service/internal/application/dto"
	"github.com/bibbank/debt-service/internal/domain/model"
	"github.com/bibbank/debt-service/internal/domain/port"
	"github.com/bibbank/debt-service/internal/domain/service"
	"github.com/bibbank/debt-service/pkg/events"
)

// RestructureDebtUseCase replaces a debt with a successor on new terms.
type RestructureDebtUseCase struct {
	deps Dependencies
}

// NewRestructureDebtUseCase creates a new RestructureDebtUseCase.
func NewRestructureDebtUseCase(deps Dependencies) *RestructureDebtUseCase {
	return &RestructureDebtUseCase{deps: deps.withDefaults()}
}

// Execute marks the debt RESTRUCTUREE and stores its successor with a fresh
// schedule in the same commit.
func (uc *RestructureDebtUseCase) Execute(ctx context.Context, req dto.RestructureDebtRequest) (resp dto.RestructureDebtResponse, err error) {
	ctx, finish := uc.deps.startOp(ctx, "restructure_debt", debtAttr(req.DebtID))
	defer finish(&err)

	terms, err := termsFromInput(req.Terms)
	if err != nil {
		return dto.RestructureDebtResponse{}, err
	}

	unlock, err := uc.deps.lock(ctx, req.DebtID)
	if err != nil {
		return dto.RestructureDebtResponse{}, err
	}
	defer unlock()

	agg, err := uc.deps.load(ctx, req.OwnerID, req.DebtID)
	if err != nil {
		return dto.RestructureDebtResponse{}, err
	}

	out, err := service.Restructure(agg.debt, agg.lines, uc.deps.IDs.NewID(), terms, req.CapitalizeArrears, uc.deps.Clock.Now())
	if err != nil {
		return dto.RestructureDebtResponse{}, err
	}

	changes := port.ChangeSet{
		Debts:     []model.Debt{out.Old, out.New},
		Schedules: []port.ScheduleChange{{DebtID: out.New.ID(), Diff: model.DiffLines(nil, out.NewLines)}},
	}
	var collector events.EventCollector
	collector.Record(out.Old.DomainEvents()...)
	collector.Record(out.New.DomainEvents()...)
	if err := uc.deps.commit(ctx, changes, collector.ClearEvents()); err != nil {
		return dto.RestructureDebtResponse{}, err
	}
	uc.deps.Metrics.AddScheduleLines("restructure", len(out.NewLines))

	uc.deps.Logger.InfoContext(ctx, "debt restructured",
		"debt_id", out.Old.ID(),
		"successor_id", out.New.ID(),
		"principal", out.New.Terms().PrincipalInitial.String(),
		"capitalize_arrears", req.CapitalizeArrears,
	)
	return dto.RestructureDebtResponse{
		Previous:  toDebtResponse(persisted(out.Old, false), agg.lines),
		Successor: toDebtResponse(out.New, out.NewLines),
	}, nil
}

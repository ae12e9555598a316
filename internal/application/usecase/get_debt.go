package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/debt-service/internal/application/dto"
)

// GetDebtUseCase retrieves a debt with its schedule.
type GetDebtUseCase struct {
	deps Dependencies
}

// NewGetDebtUseCase creates a new GetDebtUseCase.
func NewGetDebtUseCase(deps Dependencies) *GetDebtUseCase {
	return &GetDebtUseCase{deps: deps.withDefaults()}
}

// Execute returns the debt, its schedule, the next installment and,
// optionally, its payments.
func (uc *GetDebtUseCase) Execute(ctx context.Context, req dto.GetDebtRequest) (resp dto.DebtResponse, err error) {
	ctx, finish := uc.deps.startOp(ctx, "get_debt", debtAttr(req.DebtID))
	defer finish(&err)

	debt, err := uc.deps.Repo.FindByID(ctx, req.OwnerID, req.DebtID)
	if err != nil {
		return dto.DebtResponse{}, fmt.Errorf("find debt: %w", err)
	}
	lines, err := uc.deps.Repo.FindSchedule(ctx, debt.ID())
	if err != nil {
		return dto.DebtResponse{}, fmt.Errorf("find schedule: %w", err)
	}

	resp = toDebtResponse(debt, lines)
	if req.IncludePayments {
		payments, err := uc.deps.Repo.FindPayments(ctx, debt.ID())
		if err != nil {
			return dto.DebtResponse{}, fmt.Errorf("find payments: %w", err)
		}
		for _, p := range payments {
			resp.Payments = append(resp.Payments, toPaymentResponse(p))
		}
	}
	return resp, nil
}

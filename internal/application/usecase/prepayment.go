package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/debt-service/internal/application/dto"
	"github.com/bibbank/debt-service/internal/domain/model"
	"github.com/bibbank/debt-service/internal/domain/port"
	"github.com/bibbank/debt-service/internal/domain/service"
)

// SimulatePrepaymentUseCase previews an early repayment.
type SimulatePrepaymentUseCase struct {
	deps Dependencies
}

// NewSimulatePrepaymentUseCase creates a new SimulatePrepaymentUseCase.
func NewSimulatePrepaymentUseCase(deps Dependencies) *SimulatePrepaymentUseCase {
	return &SimulatePrepaymentUseCase{deps: deps.withDefaults()}
}

// Execute computes the prepayment result. Nothing is written.
func (uc *SimulatePrepaymentUseCase) Execute(ctx context.Context, req dto.SimulatePrepaymentRequest) (resp dto.PrepaymentResponse, err error) {
	ctx, finish := uc.deps.startOp(ctx, "simulate_prepayment", debtAttr(req.DebtID))
	defer finish(&err)

	mode, err := parsePrepaymentMode(req.Mode)
	if err != nil {
		return dto.PrepaymentResponse{}, err
	}
	agg, err := uc.deps.load(ctx, req.OwnerID, req.DebtID)
	if err != nil {
		return dto.PrepaymentResponse{}, err
	}
	if agg.debt.Status().IsTerminal() {
		return dto.PrepaymentResponse{}, fmt.Errorf("prepay %s debt: %w", agg.debt.Status(), model.ErrInvalidTransition)
	}

	res, err := service.SimulatePrepayment(agg.debt, agg.history, agg.lines, req.Amount, mode)
	if err != nil {
		return dto.PrepaymentResponse{}, err
	}
	return toPrepaymentResponse(res), nil
}

// ApplyPrepaymentUseCase applies an early repayment.
type ApplyPrepaymentUseCase struct {
	deps Dependencies
}

// NewApplyPrepaymentUseCase creates a new ApplyPrepaymentUseCase.
func NewApplyPrepaymentUseCase(deps Dependencies) *ApplyPrepaymentUseCase {
	return &ApplyPrepaymentUseCase{deps: deps.withDefaults()}
}

// Execute reduces the principal, replaces the untouched tail of the schedule
// and records the prepayment.
func (uc *ApplyPrepaymentUseCase) Execute(ctx context.Context, req dto.ApplyPrepaymentRequest) (resp dto.ApplyPrepaymentResponse, err error) {
	ctx, finish := uc.deps.startOp(ctx, "apply_prepayment", debtAttr(req.DebtID))
	defer finish(&err)

	mode, err := parsePrepaymentMode(req.Mode)
	if err != nil {
		return dto.ApplyPrepaymentResponse{}, err
	}
	method, err := parseMethod(req.Method)
	if err != nil {
		return dto.ApplyPrepaymentResponse{}, err
	}

	unlock, err := uc.deps.lock(ctx, req.DebtID)
	if err != nil {
		return dto.ApplyPrepaymentResponse{}, err
	}
	defer unlock()

	agg, err := uc.deps.load(ctx, req.OwnerID, req.DebtID)
	if err != nil {
		return dto.ApplyPrepaymentResponse{}, err
	}

	out, err := service.ApplyPrepayment(agg.debt, agg.history, agg.lines, service.PrepaymentRequest{
		PaidAt:    uc.deps.paidAt(req.PaidAt),
		PaymentID: uc.deps.paymentID(req.PaymentID),
		Amount:    req.Amount,
		Mode:      mode,
		Method:    method,
	}, uc.deps.Clock.Now())
	if err != nil {
		return dto.ApplyPrepaymentResponse{}, err
	}

	changes := port.ChangeSet{
		Debts:     []model.Debt{out.Debt},
		Schedules: []port.ScheduleChange{{DebtID: out.Debt.ID(), Diff: out.Diff}},
		Payments:  []model.Payment{out.Payment},
	}
	if err := uc.deps.commit(ctx, changes, out.Debt.DomainEvents()); err != nil {
		return dto.ApplyPrepaymentResponse{}, err
	}

	amount, _ := out.Payment.Amount().Amount().Float64()
	uc.deps.Metrics.AddPayment(out.Payment.Kind().String(), out.Payment.Amount().Currency().Code(), amount)
	uc.deps.Metrics.AddScheduleLines("prepayment", len(out.Diff.Upserts))

	uc.deps.Logger.InfoContext(ctx, "prepayment applied",
		"debt_id", out.Debt.ID(),
		"payment_id", out.Payment.ID(),
		"mode", mode.String(),
		"applied", out.Result.PrepaymentApplied.String(),
		"penalty", out.Result.Penalty.String(),
		"new_duration", out.Result.NewDuration,
	)
	return dto.ApplyPrepaymentResponse{
		Result:  toPrepaymentResponse(out.Result),
		Payment: toPaymentResponse(out.Payment),
		Debt:    toDebtResponse(persisted(out.Debt, false), out.Result.Lines),
	}, nil
}

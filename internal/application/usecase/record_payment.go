package usecase

import (
	"context"

	"github.com/bibbank/debt-service/internal/application/dto"
	"github.com/bibbank/debt-service/internal/domain/model"
	"github.com/bibbank/debt-service/internal/domain/port"
	"github.com/bibbank/debt-service/internal/domain/service"
)

// RecordPaymentUseCase records an installment payment against a debt.
type RecordPaymentUseCase struct {
	deps Dependencies
}

// NewRecordPaymentUseCase creates a new RecordPaymentUseCase.
func NewRecordPaymentUseCase(deps Dependencies) *RecordPaymentUseCase {
	return &RecordPaymentUseCase{deps: deps.withDefaults()}
}

// Execute allocates the payment over the due installments, stores the
// payment with the updated lines and publishes the resulting events.
func (uc *RecordPaymentUseCase) Execute(ctx context.Context, req dto.RecordPaymentRequest) (resp dto.RecordPaymentResponse, err error) {
	ctx, finish := uc.deps.startOp(ctx, "record_payment", debtAttr(req.DebtID))
	defer finish(&err)

	method, err := parseMethod(req.Method)
	if err != nil {
		return dto.RecordPaymentResponse{}, err
	}

	// 1. Serialize on the debt.
	unlock, err := uc.deps.lock(ctx, req.DebtID)
	if err != nil {
		return dto.RecordPaymentResponse{}, err
	}
	defer unlock()

	// 2. Load the aggregate.
	agg, err := uc.deps.load(ctx, req.OwnerID, req.DebtID)
	if err != nil {
		return dto.RecordPaymentResponse{}, err
	}

	// 3. Run the waterfall.
	out, err := service.RecordPayment(agg.debt, agg.history, agg.lines, service.PaymentRequest{
		PaidAt:    uc.deps.paidAt(req.PaidAt),
		PaymentID: uc.deps.paymentID(req.PaymentID),
		Amount:    req.Amount,
		Method:    method,
	}, uc.deps.Clock.Now())
	if err != nil {
		return dto.RecordPaymentResponse{}, err
	}

	// 4. Persist and publish.
	changes := port.ChangeSet{
		Debts:     []model.Debt{out.Debt},
		Schedules: []port.ScheduleChange{{DebtID: out.Debt.ID(), Diff: out.Diff}},
		Payments:  []model.Payment{out.Payment},
	}
	if err := uc.deps.commit(ctx, changes, out.Debt.DomainEvents()); err != nil {
		return dto.RecordPaymentResponse{}, err
	}

	amount, _ := out.Payment.Amount().Amount().Float64()
	uc.deps.Metrics.AddPayment(out.Payment.Kind().String(), out.Payment.Amount().Currency().Code(), amount)
	if out.Rebuilt {
		uc.deps.Metrics.AddScheduleLines("overpayment", len(out.Diff.Upserts))
	}

	uc.deps.Logger.InfoContext(ctx, "payment recorded",
		"debt_id", out.Debt.ID(),
		"payment_id", out.Payment.ID(),
		"amount", out.Payment.Amount().Amount().String(),
		"unapplied", out.Unapplied.String(),
		"status", out.Debt.Status().String(),
	)
	return dto.RecordPaymentResponse{
		Payment:         toPaymentResponse(out.Payment),
		Debt:            toDebtResponse(persisted(out.Debt, false), out.Lines),
		ScheduleRebuilt: out.Rebuilt,
	}, nil
}

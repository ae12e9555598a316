package grpc

import (
	"context"
	"time"

	"github.com/bibbank/debt-service/internal/application/dto"
	"github.com/bibbank/debt-service/internal/application/usecase"
)

// UseCases bundles the use cases DebtHandler serves.
type UseCases struct {
	CreateDebt         *usecase.CreateDebtUseCase
	GetDebt            *usecase.GetDebtUseCase
	PreviewSchedule    *usecase.PreviewScheduleUseCase
	RecordPayment      *usecase.RecordPaymentUseCase
	SimulatePrepayment *usecase.SimulatePrepaymentUseCase
	ApplyPrepayment    *usecase.ApplyPrepaymentUseCase
	RestructureDebt    *usecase.RestructureDebtUseCase
	RecordRateChange   *usecase.RecordRateChangeUseCase
	MarkOverdue        *usecase.MarkOverdueUseCase
}

// NewUseCases wires every use case on the same dependencies.
func NewUseCases(deps usecase.Dependencies, graceWindow time.Duration, batchSize int) UseCases {
	return UseCases{
		CreateDebt:         usecase.NewCreateDebtUseCase(deps),
		GetDebt:            usecase.NewGetDebtUseCase(deps),
		PreviewSchedule:    usecase.NewPreviewScheduleUseCase(deps),
		RecordPayment:      usecase.NewRecordPaymentUseCase(deps),
		SimulatePrepayment: usecase.NewSimulatePrepaymentUseCase(deps),
		ApplyPrepayment:    usecase.NewApplyPrepaymentUseCase(deps),
		RestructureDebt:    usecase.NewRestructureDebtUseCase(deps),
		RecordRateChange:   usecase.NewRecordRateChangeUseCase(deps),
		MarkOverdue:        usecase.NewMarkOverdueUseCase(deps, graceWindow, batchSize),
	}
}

// DebtHandler implements DebtServiceServer on top of the use cases.
type DebtHandler struct {
	UnimplementedDebtServiceServer
	uc UseCases
}

// NewDebtHandler creates a new handler.
func NewDebtHandler(uc UseCases) *DebtHandler {
	return &DebtHandler{uc: uc}
}

// reply converts a use case result into a gRPC reply.
func reply[T any](resp T, err error) (*T, error) {
	if err != nil {
		return nil, toStatus(err)
	}
	return &resp, nil
}

func (h *DebtHandler) CreateDebt(ctx context.Context, req *dto.CreateDebtRequest) (*dto.DebtResponse, error) {
	return reply(h.uc.CreateDebt.Execute(ctx, *req))
}

func (h *DebtHandler) GetDebt(ctx context.Context, req *dto.GetDebtRequest) (*dto.DebtResponse, error) {
	return reply(h.uc.GetDebt.Execute(ctx, *req))
}

func (h *DebtHandler) PreviewSchedule(ctx context.Context, req *dto.PreviewScheduleRequest) (*dto.ScheduleResponse, error) {
	return reply(h.uc.PreviewSchedule.Execute(ctx, *req))
}

func (h *DebtHandler) RecordPayment(ctx context.Context, req *dto.RecordPaymentRequest) (*dto.RecordPaymentResponse, error) {
	return reply(h.uc.RecordPayment.Execute(ctx, *req))
}

func (h *DebtHandler) SimulatePrepayment(ctx context.Context, req *dto.SimulatePrepaymentRequest) (*dto.PrepaymentResponse, error) {
	return reply(h.uc.SimulatePrepayment.Execute(ctx, *req))
}

func (h *DebtHandler) ApplyPrepayment(ctx context.Context, req *dto.ApplyPrepaymentRequest) (*dto.ApplyPrepaymentResponse, error) {
	return reply(h.uc.ApplyPrepayment.Execute(ctx, *req))
}

func (h *DebtHandler) RestructureDebt(ctx context.Context, req *dto.RestructureDebtRequest) (*dto.RestructureDebtResponse, error) {
	return reply(h.uc.RestructureDebt.Execute(ctx, *req))
}

func (h *DebtHandler) RecordRateChange(ctx context.Context, req *dto.RecordRateChangeRequest) (*dto.RecordRateChangeResponse, error) {
	return reply(h.uc.RecordRateChange.Execute(ctx, *req))
}

func (h *DebtHandler) MarkOverdue(ctx context.Context, req *dto.MarkOverdueRequest) (*dto.MarkOverdueResponse, error) {
	return reply(h.uc.MarkOverdue.Execute(ctx, *req))
}

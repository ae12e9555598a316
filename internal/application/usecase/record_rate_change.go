package usecase

import (
	"context"

	"github.com/bibbank/debt-service/internal/application/dto"
	"github.com/bibbank/debt-service/internal/domain/model"
	"github.com/bibbank/debt-service/internal/domain/port"
	"github.com/bibbank/debt-service/internal/domain/service"
)

// RecordRateChangeUseCase appends a rate to a variable-rate debt.
type RecordRateChangeUseCase struct {
	deps Dependencies
}

// NewRecordRateChangeUseCase creates a new RecordRateChangeUseCase.
func NewRecordRateChangeUseCase(deps Dependencies) *RecordRateChangeUseCase {
	return &RecordRateChangeUseCase{deps: deps.withDefaults()}
}

// Execute stores the rate and re-amortizes the untouched lines under the
// extended history.
func (uc *RecordRateChangeUseCase) Execute(ctx context.Context, req dto.RecordRateChangeRequest) (resp dto.RecordRateChangeResponse, err error) {
	ctx, finish := uc.deps.startOp(ctx, "record_rate_change", debtAttr(req.DebtID))
	defer finish(&err)

	unlock, err := uc.deps.lock(ctx, req.DebtID)
	if err != nil {
		return dto.RecordRateChangeResponse{}, err
	}
	defer unlock()

	agg, err := uc.deps.load(ctx, req.OwnerID, req.DebtID)
	if err != nil {
		return dto.RecordRateChangeResponse{}, err
	}

	out, err := service.ApplyRateChange(agg.debt, agg.history, agg.lines, model.RateHistoryEntry{
		EffectiveDate: dateOnly(req.Rate.EffectiveDate),
		AnnualRate:    req.Rate.AnnualRate,
	}, uc.deps.Clock.Now())
	if err != nil {
		return dto.RecordRateChangeResponse{}, err
	}

	changes := port.ChangeSet{
		Debts:     []model.Debt{out.Debt},
		Schedules: []port.ScheduleChange{{DebtID: out.Debt.ID(), Diff: out.Diff}},
		Rates:     []model.RateHistoryEntry{out.Entry},
	}
	if err := uc.deps.commit(ctx, changes, out.Debt.DomainEvents()); err != nil {
		return dto.RecordRateChangeResponse{}, err
	}
	uc.deps.Metrics.AddScheduleLines("rate_change", len(out.Diff.Upserts))

	uc.deps.Logger.InfoContext(ctx, "rate change recorded",
		"debt_id", out.Debt.ID(),
		"effective_date", out.Entry.EffectiveDate.Format("2006-01-02"),
		"annual_rate", out.Entry.AnnualRate.String(),
		"lines_updated", len(out.Diff.Upserts),
	)
	return dto.RecordRateChangeResponse{
		Debt:         toDebtResponse(persisted(out.Debt, false), out.Lines),
		LinesUpdated: len(out.Diff.Upserts),
	}, nil
}

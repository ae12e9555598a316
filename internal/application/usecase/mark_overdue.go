package usecase

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/bibbank/debt-service/internal/application/dto"
	"github.com/bibbank/debt-service/internal/domain/model"
	"github.com/bibbank/debt-service/internal/domain/port"
	"github.com/bibbank/debt-service/internal/domain/service"
)

// MarkOverdueUseCase flags installments past their due date plus a grace
// window as EN_RETARD and moves their debts to EN_RETARD.
type MarkOverdueUseCase struct {
	deps        Dependencies
	graceWindow time.Duration
	batchSize   int
}

// NewMarkOverdueUseCase creates a new MarkOverdueUseCase.
func NewMarkOverdueUseCase(deps Dependencies, graceWindow time.Duration, batchSize int) *MarkOverdueUseCase {
	return &MarkOverdueUseCase{deps: deps.withDefaults(), graceWindow: graceWindow, batchSize: batchSize}
}

// Execute sweeps one batch of candidate debts. A debt that fails is reported
// in the response and does not stop the sweep.
func (uc *MarkOverdueUseCase) Execute(ctx context.Context, req dto.MarkOverdueRequest) (resp dto.MarkOverdueResponse, err error) {
	ctx, finish := uc.deps.startOp(ctx, "mark_overdue")
	defer finish(&err)

	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = uc.deps.Clock.Now()
	}
	limit := req.Limit
	if limit <= 0 {
		limit = uc.batchSize
	}

	refs, err := uc.deps.Repo.ListWithOpenLinesDueBefore(ctx, asOf.Add(-uc.graceWindow), limit)
	if err != nil {
		return dto.MarkOverdueResponse{}, fmt.Errorf("list overdue candidates: %w", err)
	}

	resp.DebtsScanned = len(refs)
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return resp, err
		}
		marked, err := uc.markDebt(ctx, ref, asOf)
		if err != nil {
			uc.deps.Logger.ErrorContext(ctx, "failed to mark debt overdue", "debt_id", ref.DebtID, "error", err)
			resp.Failed = append(resp.Failed, ref.DebtID)
			continue
		}
		if marked > 0 {
			resp.DebtsUpdated++
			resp.LinesMarked += marked
		}
	}
	uc.deps.Metrics.AddLinesMarkedLate(resp.LinesMarked)

	uc.deps.Logger.InfoContext(ctx, "overdue sweep finished",
		"as_of", asOf,
		"scanned", resp.DebtsScanned,
		"updated", resp.DebtsUpdated,
		"lines_marked", resp.LinesMarked,
		"failed", len(resp.Failed),
	)
	return resp, nil
}

func (uc *MarkOverdueUseCase) markDebt(ctx context.Context, ref port.DebtRef, asOf time.Time) (int, error) {
	ctx, span := tracer.Start(ctx, "mark_overdue.debt")
	defer span.End()
	span.SetAttributes(attribute.String("debt.id", ref.DebtID))

	unlock, err := uc.deps.lock(ctx, ref.DebtID)
	if err != nil {
		return 0, err
	}
	defer unlock()

	agg, err := uc.deps.load(ctx, ref.OwnerID, ref.DebtID)
	if err != nil {
		return 0, err
	}
	if agg.debt.Status().IsTerminal() {
		return 0, nil
	}

	lines, marked := service.MarkOverdue(agg.lines, asOf, uc.graceWindow)
	if marked == 0 {
		return 0, nil
	}
	now := uc.deps.Clock.Now()
	debt, err := agg.debt.Refresh(agg.debt.RemainingPrincipal(), service.Status(agg.debt.RemainingPrincipal(), lines), now)
	if err != nil {
		return 0, err
	}

	changes := port.ChangeSet{
		Debts:     []model.Debt{debt},
		Schedules: []port.ScheduleChange{{DebtID: debt.ID(), Diff: model.DiffLines(agg.lines, lines)}},
	}
	if err := uc.deps.commit(ctx, changes, debt.DomainEvents()); err != nil {
		return 0, err
	}
	return marked, nil
}

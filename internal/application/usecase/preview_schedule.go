package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/debt-service/internal/application/dto"
	"github.com/bibbank/debt-service/internal/domain/model"
	"github.com/bibbank/debt-service/internal/domain/service"
)

// PreviewScheduleUseCase computes a schedule without storing anything.
type PreviewScheduleUseCase struct {
	deps Dependencies
}

// NewPreviewScheduleUseCase creates a new PreviewScheduleUseCase.
func NewPreviewScheduleUseCase(deps Dependencies) *PreviewScheduleUseCase {
	return &PreviewScheduleUseCase{deps: deps.withDefaults()}
}

// Execute builds the schedule for the given terms and optional rate history.
func (uc *PreviewScheduleUseCase) Execute(ctx context.Context, req dto.PreviewScheduleRequest) (resp dto.ScheduleResponse, err error) {
	_, finish := uc.deps.startOp(ctx, "preview_schedule")
	defer finish(&err)

	terms, err := termsFromInput(req.Terms)
	if err != nil {
		return dto.ScheduleResponse{}, err
	}
	if err := terms.Validate(); err != nil {
		return dto.ScheduleResponse{}, err
	}

	entries := make([]model.RateHistoryEntry, 0, len(req.RateHistory))
	for _, r := range req.RateHistory {
		entries = append(entries, model.RateHistoryEntry{
			EffectiveDate: dateOnly(r.EffectiveDate),
			AnnualRate:    r.AnnualRate,
		})
	}
	var history []model.RateHistoryEntry
	for _, e := range model.SortRateHistory(entries) {
		if history, err = model.AppendRate(history, e); err != nil {
			return dto.ScheduleResponse{}, err
		}
	}

	lines, err := service.BuildSchedule(service.InputFromTerms("", terms, history))
	if err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("build schedule: %w", err)
	}
	return toScheduleResponse(lines), nil
}

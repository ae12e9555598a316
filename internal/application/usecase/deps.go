package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bibbank/debt-service/internal/domain/event"
	"github.com/bibbank/debt-service/internal/domain/model"
	"github.com/bibbank/debt-service/internal/domain/port"
)

var tracer = otel.Tracer("github.com/bibbank/debt-service/internal/application/usecase")

// Metrics receives use case measurements. *metrics.Metrics implements it.
type Metrics interface {
	ObserveOperation(operation string, err error, elapsed time.Duration)
	AddPayment(kind, currency string, amount float64)
	AddScheduleLines(reason string, n int)
	AddLinesMarkedLate(n int)
}

type nopMetrics struct{}

func (nopMetrics) ObserveOperation(string, error, time.Duration) {}
func (nopMetrics) AddPayment(string, string, float64)            {}
func (nopMetrics) AddScheduleLines(string, int)                  {}
func (nopMetrics) AddLinesMarkedLate(int)                        {}

// Dependencies are the ports shared by every use case.
type Dependencies struct {
	Repo      port.DebtRepository
	UoW       port.UnitOfWork
	Locker    port.DebtLocker
	Publisher port.EventPublisher
	Clock     port.Clock
	IDs       port.IDGenerator
	Logger    *slog.Logger
	// Metrics may be nil.
	Metrics Metrics
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Metrics == nil {
		d.Metrics = nopMetrics{}
	}
	return d
}

// startOp opens the span of one use case execution. The returned finish
// must be deferred with a pointer to the named error result.
func (d Dependencies) startOp(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(*error)) {
	started := time.Now()
	ctx, span := tracer.Start(ctx, op, trace.WithAttributes(attrs...))
	return ctx, func(errp *error) {
		err := *errp
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			d.Logger.WarnContext(ctx, "operation failed", "operation", op, "error", err)
		}
		d.Metrics.ObserveOperation(op, err, time.Since(started))
		span.End()
	}
}

// lock serializes work on one debt.
func (d Dependencies) lock(ctx context.Context, debtID string) (func(), error) {
	unlock, err := d.Locker.Lock(ctx, debtID)
	if err != nil {
		return nil, fmt.Errorf("lock debt %s: %w", debtID, err)
	}
	return unlock, nil
}

// commit persists the change set, then publishes events. Events are never
// published for changes that failed to commit.
func (d Dependencies) commit(ctx context.Context, changes port.ChangeSet, events []event.DomainEvent) error {
	if err := d.UoW.Commit(ctx, changes); err != nil {
		return fmt.Errorf("commit changes: %w", err)
	}
	if len(events) == 0 {
		return nil
	}
	if err := d.Publisher.Publish(ctx, events...); err != nil {
		return fmt.Errorf("publish events: %w", err)
	}
	return nil
}

func debtAttr(id string) attribute.KeyValue { return attribute.String("debt.id", id) }

// aggregate is a debt with its schedule and rate history.
type aggregate struct {
	debt    model.Debt
	lines   []model.ScheduleLine
	history []model.RateHistoryEntry
}

func (d Dependencies) load(ctx context.Context, ownerID, debtID string) (aggregate, error) {
	debt, err := d.Repo.FindByID(ctx, ownerID, debtID)
	if err != nil {
		return aggregate{}, fmt.Errorf("find debt: %w", err)
	}
	lines, err := d.Repo.FindSchedule(ctx, debtID)
	if err != nil {
		return aggregate{}, fmt.Errorf("find schedule: %w", err)
	}
	history, err := d.Repo.FindRateHistory(ctx, debtID)
	if err != nil {
		return aggregate{}, fmt.Errorf("find rate history: %w", err)
	}
	return aggregate{debt: debt, lines: lines, history: history}, nil
}

// paymentID returns id, or a fresh one when id is empty.
func (d Dependencies) paymentID(id string) string {
	if id != "" {
		return id
	}
	return d.IDs.NewID()
}

// paidAt returns t, or now when t is zero.
func (d Dependencies) paidAt(t time.Time) time.Time {
	if t.IsZero() {
		return d.Clock.Now().UTC()
	}
	return t.UTC()
}

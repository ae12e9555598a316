package port

import (
	"context"
	"time"

	"github.com/bibbank/debt-service/internal/domain/event"
	"github.com/bibbank/debt-service/internal/domain/model"
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// DebtRef identifies a debt together with its owner.
type DebtRef struct {
	OwnerID string
	DebtID  string
}

// DebtRepository reads debts and everything attached to them. FindByID
// returns model.ErrDebtNotFound when the debt does not exist for the owner.
type DebtRepository interface {
	FindByID(ctx context.Context, ownerID, id string) (model.Debt, error)
	FindSchedule(ctx context.Context, debtID string) ([]model.ScheduleLine, error)
	FindRateHistory(ctx context.Context, debtID string) ([]model.RateHistoryEntry, error)
	FindPayments(ctx context.Context, debtID string) ([]model.Payment, error)
	// ListWithOpenLinesDueBefore returns the debts holding A_ECHOIR or
	// PARTIEL lines due before cutoff.
	ListWithOpenLinesDueBefore(ctx context.Context, cutoff time.Time, limit int) ([]DebtRef, error)
	Ping(ctx context.Context) error
}

// ScheduleChange is the minimal write set for one debt's lines.
type ScheduleChange struct {
	DebtID string
	Diff   model.LineDiff
}

// ChangeSet is everything one operation writes.
type ChangeSet struct {
	// Debts are upserted. An existing row is only replaced when its stored
	// version still matches the debt's version.
	Debts     []model.Debt
	Schedules []ScheduleChange
	Payments  []model.Payment
	Rates     []model.RateHistoryEntry
}

// IsEmpty reports whether the change set writes nothing.
func (c ChangeSet) IsEmpty() bool {
	if len(c.Debts) > 0 || len(c.Payments) > 0 || len(c.Rates) > 0 {
		return false
	}
	for _, s := range c.Schedules {
		if !s.Diff.IsEmpty() {
			return false
		}
	}
	return true
}

// UnitOfWork applies a ChangeSet atomically or not at all. A stale debt
// version fails the whole commit with model.ErrConcurrentModification.
type UnitOfWork interface {
	Commit(ctx context.Context, changes ChangeSet) error
}

// ---------------------------------------------------------------------------
// Concurrency port
// ---------------------------------------------------------------------------

// DebtLocker grants exclusive ownership of one debt's schedule. The
// returned unlock must be called exactly once.
type DebtLocker interface {
	Lock(ctx context.Context, debtID string) (unlock func(), err error)
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}

// ---------------------------------------------------------------------------
// Collaborators
// ---------------------------------------------------------------------------

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// IDGenerator supplies identifiers for new records.
type IDGenerator interface {
	NewID() string
}

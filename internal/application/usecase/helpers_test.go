package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/debt-service/internal/application/dto"
	"github.com/bibbank/debt-service/internal/application/usecase"
	"github.com/bibbank/debt-service/internal/domain/event"
	"github.com/bibbank/debt-service/internal/domain/model"
	"github.com/bibbank/debt-service/internal/domain/port"
	"github.com/bibbank/debt-service/internal/infrastructure/lock"
	"github.com/bibbank/debt-service/internal/infrastructure/persistence/memory"
	"github.com/bibbank/debt-service/internal/infrastructure/system"
	"github.com/bibbank/debt-service/pkg/testutil"
)

var owner = testutil.TestOwnerID1

// --- Mock EventPublisher ---

type mockEventPublisher struct {
	mu              sync.Mutex
	publishFunc     func(ctx context.Context, events ...event.DomainEvent) error
	publishedEvents []event.DomainEvent
}

func (m *mockEventPublisher) Publish(ctx context.Context, events ...event.DomainEvent) error {
	if m.publishFunc != nil {
		if err := m.publishFunc(ctx, events...); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.publishedEvents = append(m.publishedEvents, events...)
	return nil
}

func (m *mockEventPublisher) types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.publishedEvents))
	for _, e := range m.publishedEvents {
		out = append(out, e.EventType())
	}
	return out
}

// --- Mock UnitOfWork ---

type mockUnitOfWork struct {
	commitFunc func(ctx context.Context, changes port.ChangeSet) error
	commits    []port.ChangeSet
}

func (m *mockUnitOfWork) Commit(ctx context.Context, changes port.ChangeSet) error {
	if m.commitFunc != nil {
		if err := m.commitFunc(ctx, changes); err != nil {
			return err
		}
	}
	m.commits = append(m.commits, changes)
	return nil
}

// --- Mock DebtLocker ---

type mockLocker struct {
	lockFunc func(ctx context.Context, debtID string) (func(), error)
}

func (m *mockLocker) Lock(ctx context.Context, debtID string) (func(), error) {
	if m.lockFunc != nil {
		return m.lockFunc(ctx, debtID)
	}
	return func() {}, nil
}

// --- Mock DebtRepository ---

type mockDebtRepository struct {
	findByIDFunc     func(ctx context.Context, ownerID, id string) (model.Debt, error)
	findScheduleFunc func(ctx context.Context, debtID string) ([]model.ScheduleLine, error)
	listFunc         func(ctx context.Context, cutoff time.Time, limit int) ([]port.DebtRef, error)
}

func (m *mockDebtRepository) FindByID(ctx context.Context, ownerID, id string) (model.Debt, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, ownerID, id)
	}
	return model.Debt{}, model.ErrDebtNotFound
}

func (m *mockDebtRepository) FindSchedule(ctx context.Context, debtID string) ([]model.ScheduleLine, error) {
	if m.findScheduleFunc != nil {
		return m.findScheduleFunc(ctx, debtID)
	}
	return nil, nil
}

func (m *mockDebtRepository) FindRateHistory(context.Context, string) ([]model.RateHistoryEntry, error) {
	return nil, nil
}

func (m *mockDebtRepository) FindPayments(context.Context, string) ([]model.Payment, error) {
	return nil, nil
}

func (m *mockDebtRepository) ListWithOpenLinesDueBefore(ctx context.Context, cutoff time.Time, limit int) ([]port.DebtRef, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, cutoff, limit)
	}
	return nil, nil
}

func (m *mockDebtRepository) Ping(context.Context) error { return nil }

// --- Fixture ---

type idFunc func() string

func (f idFunc) NewID() string { return f() }

type fixture struct {
	store     *memory.Store
	publisher *mockEventPublisher
	deps      usecase.Dependencies
}

// newFixture wires the use cases against the in-memory store with the clock
// frozen at now.
func newFixture(now time.Time) *fixture {
	store := memory.NewStore()
	publisher := &mockEventPublisher{}
	return &fixture{
		store:     store,
		publisher: publisher,
		deps: usecase.Dependencies{
			Repo:      store,
			UoW:       store,
			Locker:    lock.NewKeyedMutex(),
			Publisher: publisher,
			Clock:     system.FixedClock{At: now},
			IDs:       idFunc(testutil.SequentialIDs()),
		},
	}
}

// constantTerms is 1200 over three monthly periods at 12%: principal 400 a
// period with interest 12, 8 and 4.
func constantTerms() dto.TermsInput {
	return dto.TermsInput{
		StartDate:    testutil.TestStart,
		Principal:    decimal.NewFromInt(1200),
		AnnualRate:   decimal.RequireFromString("0.12"),
		RateType:     "FIXE",
		Mode:         "PRINCIPAL_CONSTANT",
		Frequency:    "MONTHLY",
		TotalPeriods: 3,
	}
}

func (f *fixture) createDebt(t *testing.T, terms dto.TermsInput) dto.DebtResponse {
	t.Helper()
	resp, err := usecase.NewCreateDebtUseCase(f.deps).Execute(context.Background(), dto.CreateDebtRequest{
		OwnerID:  owner,
		Kind:     "BORROWED",
		Currency: "EUR",
		Terms:    terms,
	})
	require.NoError(t, err)
	f.publisher.publishedEvents = nil
	return resp
}

var errBoom = errors.New("boom")

// Package memory holds an in-process implementation of the debt storage
// ports. It backs unit tests and local runs without PostgreSQL.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bibbank/debt-service/internal/domain/model"
	"github.com/bibbank/debt-service/internal/domain/port"
	"github.com/bibbank/debt-service/internal/domain/valueobject"
)

// Store implements port.DebtRepository and port.UnitOfWork.
type Store struct {
	mu         sync.RWMutex
	debts      map[string]model.Debt
	lines      map[string]map[int]model.ScheduleLine
	payments   map[string][]model.Payment
	paymentIDs map[string]struct{}
	rates      map[string][]model.RateHistoryEntry
}

var (
	_ port.DebtRepository = (*Store)(nil)
	_ port.UnitOfWork     = (*Store)(nil)
)

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		debts:      make(map[string]model.Debt),
		lines:      make(map[string]map[int]model.ScheduleLine),
		payments:   make(map[string][]model.Payment),
		paymentIDs: make(map[string]struct{}),
		rates:      make(map[string][]model.RateHistoryEntry),
	}
}

// FindByID returns the debt owned by ownerID.
func (s *Store) FindByID(_ context.Context, ownerID, id string) (model.Debt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.debts[id]
	if !ok || d.OwnerID() != ownerID {
		return model.Debt{}, fmt.Errorf("%w: %s", model.ErrDebtNotFound, id)
	}
	return d, nil
}

// FindSchedule returns the debt's lines ordered by period index.
func (s *Store) FindSchedule(_ context.Context, debtID string) ([]model.ScheduleLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byIndex := s.lines[debtID]
	out := make([]model.ScheduleLine, 0, len(byIndex))
	for _, l := range byIndex {
		out = append(out, l)
	}
	return model.SortLines(out), nil
}

// FindRateHistory returns the debt's rate history in insertion order.
func (s *Store) FindRateHistory(_ context.Context, debtID string) ([]model.RateHistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]model.RateHistoryEntry(nil), s.rates[debtID]...), nil
}

// FindPayments returns the debt's payments ordered by payment date.
func (s *Store) FindPayments(_ context.Context, debtID string) ([]model.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := append([]model.Payment(nil), s.payments[debtID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].PaidAt().Before(out[j].PaidAt()) })
	return out, nil
}

// ListWithOpenLinesDueBefore returns debts with A_ECHOIR or PARTIEL lines
// due before cutoff, ordered by debt ID.
func (s *Store) ListWithOpenLinesDueBefore(_ context.Context, cutoff time.Time, limit int) ([]port.DebtRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var refs []port.DebtRef
	for id, byIndex := range s.lines {
		d, ok := s.debts[id]
		if !ok || d.Status().IsTerminal() {
			continue
		}
		for _, l := range byIndex {
			if l.IsOpen() && !l.Status.Equal(valueobject.LineStatusLate) && l.DueDate.Before(cutoff) {
				refs = append(refs, port.DebtRef{OwnerID: d.OwnerID(), DebtID: id})
				break
			}
		}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].DebtID < refs[j].DebtID })
	if limit > 0 && len(refs) > limit {
		refs = refs[:limit]
	}
	return refs, nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Commit applies the change set under a single lock. Every version check runs
// before the first write, so a conflict leaves the store untouched.
func (s *Store) Commit(_ context.Context, changes port.ChangeSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range changes.Debts {
		stored, exists := s.debts[d.ID()]
		switch {
		case !exists && d.Version() != 1:
			return fmt.Errorf("%w: debt %s not found at version %d", model.ErrConcurrentModification, d.ID(), d.Version())
		case exists && stored.Version() != d.Version():
			return fmt.Errorf("%w: debt %s at version %d, expected %d",
				model.ErrConcurrentModification, d.ID(), stored.Version(), d.Version())
		}
	}
	for _, p := range changes.Payments {
		if _, dup := s.paymentIDs[p.ID()]; dup {
			return fmt.Errorf("%w: payment %s already recorded", model.ErrConcurrentModification, p.ID())
		}
	}

	for _, d := range changes.Debts {
		version := d.Version()
		if _, exists := s.debts[d.ID()]; exists {
			version++
		}
		s.debts[d.ID()] = model.ReconstructDebt(
			d.ID(), d.OwnerID(), d.Kind(), d.Currency(), d.Terms(),
			d.RemainingPrincipal(), d.Status(), d.RestructuredFrom(),
			version, d.CreatedAt(), d.UpdatedAt(),
		)
	}
	for _, sc := range changes.Schedules {
		byIndex, ok := s.lines[sc.DebtID]
		if !ok {
			byIndex = make(map[int]model.ScheduleLine)
			s.lines[sc.DebtID] = byIndex
		}
		for _, l := range sc.Diff.Upserts {
			byIndex[l.PeriodIndex] = l
		}
		for _, idx := range sc.Diff.Deletes {
			delete(byIndex, idx)
		}
	}
	for _, p := range changes.Payments {
		s.payments[p.DebtID()] = append(s.payments[p.DebtID()], p)
		s.paymentIDs[p.ID()] = struct{}{}
	}
	for _, r := range changes.Rates {
		s.rates[r.DebtID] = append(s.rates[r.DebtID], r)
	}
	return nil
}

// Package lock provides port.DebtLocker implementations.
package lock

import (
	"context"
	"sync"

	"github.com/bibbank/debt-service/internal/domain/port"
)

// KeyedMutex serializes work per debt within one process.
type KeyedMutex struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

var _ port.DebtLocker = (*KeyedMutex)(nil)

// NewKeyedMutex creates an empty in-process locker.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{slots: make(map[string]*slot)}
}

// Lock blocks until the debt is free or ctx is done.
func (k *KeyedMutex) Lock(ctx context.Context, debtID string) (func(), error) {
	k.mu.Lock()
	s, ok := k.slots[debtID]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		k.slots[debtID] = s
	}
	s.refs++
	k.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		k.release(debtID, s)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-s.ch
			k.release(debtID, s)
		})
	}, nil
}

func (k *KeyedMutex) release(debtID string, s *slot) {
	k.mu.Lock()
	defer k.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(k.slots, debtID)
	}
}

// Len reports how many debts currently hold or wait for a slot.
func (k *KeyedMutex) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.slots)
}

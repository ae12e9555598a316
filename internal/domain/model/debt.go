package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/debt-service/internal/domain/event"
	"github.com/bibbank/debt-service/internal/domain/valueobject"
	"github.com/bibbank/debt-service/pkg/money"
)

// ---------------------------------------------------------------------------
// Debt aggregate root
// ---------------------------------------------------------------------------

// Debt is an immutable aggregate. Mutations return a new copy.
type Debt struct {
	id                 string
	ownerID            string
	kind               valueobject.DebtKind
	currency           money.Currency
	terms              DebtTerms
	remainingPrincipal decimal.Decimal
	status             valueobject.DebtStatus
	restructuredFrom   string
	version            int
	createdAt          time.Time
	updatedAt          time.Time
	domainEvents       []event.DomainEvent
}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

// NewDebt creates a debt in EN_COURS status with its full principal still
// outstanding.
func NewDebt(
	id, ownerID string,
	kind valueobject.DebtKind,
	currency money.Currency,
	terms DebtTerms,
	now time.Time,
) (Debt, error) {
	return newDebt(id, ownerID, kind, currency, terms, "", now)
}

// NewRestructuredDebt creates the successor of a restructured debt. Owner,
// kind and currency are inherited from the superseded debt.
func NewRestructuredDebt(id string, from Debt, terms DebtTerms, now time.Time) (Debt, error) {
	return newDebt(id, from.ownerID, from.kind, from.currency, terms, from.id, now)
}

func newDebt(
	id, ownerID string,
	kind valueobject.DebtKind,
	currency money.Currency,
	terms DebtTerms,
	restructuredFrom string,
	now time.Time,
) (Debt, error) {
	if id == "" {
		return Debt{}, fmt.Errorf("%w: debt ID is required", ErrValidation)
	}
	if ownerID == "" {
		return Debt{}, fmt.Errorf("%w: owner ID is required", ErrValidation)
	}
	if kind.IsZero() {
		return Debt{}, fmt.Errorf("%w: debt kind is required", ErrValidation)
	}
	if currency.IsZero() {
		return Debt{}, fmt.Errorf("%w: currency is required", ErrValidation)
	}
	if err := terms.Validate(); err != nil {
		return Debt{}, err
	}

	terms.PrincipalInitial = money.Round2(terms.PrincipalInitial)
	d := Debt{
		id:                 id,
		ownerID:            ownerID,
		kind:               kind,
		currency:           currency,
		terms:              terms,
		remainingPrincipal: terms.PrincipalInitial,
		status:             valueobject.DebtStatusCurrent,
		restructuredFrom:   restructuredFrom,
		version:            1,
		createdAt:          now,
		updatedAt:          now,
	}
	d.domainEvents = append(d.domainEvents, event.NewDebtCreated(
		id, ownerID, kind.String(), currency.Code(),
		terms.PrincipalInitial, terms.AnnualRate,
		terms.Mode.String(), terms.TotalPeriods,
		restructuredFrom, now,
	))
	return d, nil
}

// ReconstructDebt rebuilds a Debt aggregate from persistence.
func ReconstructDebt(
	id, ownerID string,
	kind valueobject.DebtKind,
	currency money.Currency,
	terms DebtTerms,
	remainingPrincipal decimal.Decimal,
	status valueobject.DebtStatus,
	restructuredFrom string,
	version int,
	createdAt, updatedAt time.Time,
) Debt {
	return Debt{
		id:                 id,
		ownerID:            ownerID,
		kind:               kind,
		currency:           currency,
		terms:              terms,
		remainingPrincipal: remainingPrincipal,
		status:             status,
		restructuredFrom:   restructuredFrom,
		version:            version,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}
}

// ---------------------------------------------------------------------------
// State transitions
// ---------------------------------------------------------------------------

// Refresh sets the remaining principal and the derived status. A status
// change emits DebtStatusChanged. RESTRUCTUREE debts cannot be refreshed.
func (d Debt) Refresh(remaining decimal.Decimal, status valueobject.DebtStatus, now time.Time) (Debt, error) {
	if d.status.IsTerminal() {
		return d, fmt.Errorf("refresh %s debt: %w", d.status, ErrInvalidTransition)
	}
	if status.IsTerminal() {
		return d, fmt.Errorf("refresh to %s: %w", status, ErrInvalidTransition)
	}

	next := d
	next.remainingPrincipal = money.NonNegative(money.Round2(remaining))
	next.status = status
	next.updatedAt = now
	next.domainEvents = copyEvents(d.domainEvents)
	if !d.status.Equal(status) {
		next.domainEvents = append(next.domainEvents, event.NewDebtStatusChanged(
			d.id, d.ownerID, d.status.String(), status.String(), next.remainingPrincipal, now,
		))
	}
	return next, nil
}

// RecordPayment attaches the PaymentRecorded event for p. The balance itself
// moves through Refresh.
func (d Debt) RecordPayment(p Payment, now time.Time) (Debt, error) {
	if d.status.IsTerminal() {
		return d, fmt.Errorf("payment on %s debt: %w", d.status, ErrInvalidTransition)
	}
	if p.DebtID() != d.id {
		return d, fmt.Errorf("%w: payment belongs to debt %s", ErrValidation, p.DebtID())
	}

	a := p.Allocation()
	next := d
	next.updatedAt = now
	next.domainEvents = copyEvents(d.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewPaymentRecorded(d.id, d.ownerID, event.PaymentRecordedParams{
		PaymentID:          p.ID(),
		Kind:               p.Kind().String(),
		Amount:             p.Amount().Amount(),
		Currency:           p.Amount().Currency().Code(),
		Fees:               a.Fees,
		Interests:          a.Interests,
		Insurance:          a.Insurance,
		Principal:          a.Principal,
		Unapplied:          p.Unapplied(),
		RemainingPrincipal: d.remainingPrincipal,
		PaidAt:             p.PaidAt(),
	}, now))
	return next, nil
}

// RecordRateChange attaches the RateChanged event. Only variable-rate debts
// follow a rate history.
func (d Debt) RecordRateChange(entry RateHistoryEntry, now time.Time) (Debt, error) {
	if d.status.IsTerminal() {
		return d, fmt.Errorf("rate change on %s debt: %w", d.status, ErrInvalidTransition)
	}
	if !d.terms.RateType.IsVariable() {
		return d, fmt.Errorf("%w: rate changes apply to variable-rate debts only", ErrValidation)
	}

	next := d
	next.updatedAt = now
	next.domainEvents = copyEvents(d.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewRateChanged(
		d.id, d.ownerID, entry.EffectiveDate, entry.AnnualRate, now,
	))
	return next, nil
}

// Record appends caller-built events, such as schedule rebuild notices.
func (d Debt) Record(events ...event.DomainEvent) Debt {
	next := d
	next.domainEvents = append(copyEvents(d.domainEvents), events...)
	return next
}

// MarkRestructured supersedes the debt. RESTRUCTUREE is terminal.
func (d Debt) MarkRestructured(successorID string, now time.Time) (Debt, error) {
	if d.status.IsTerminal() {
		return d, fmt.Errorf("restructure %s debt: %w", d.status, ErrInvalidTransition)
	}
	if successorID == "" {
		return d, fmt.Errorf("%w: successor ID is required", ErrValidation)
	}

	next := d
	next.status = valueobject.DebtStatusRestructured
	next.updatedAt = now
	next.domainEvents = copyEvents(d.domainEvents)
	next.domainEvents = append(next.domainEvents,
		event.NewDebtStatusChanged(d.id, d.ownerID, d.status.String(), next.status.String(), d.remainingPrincipal, now),
		event.NewDebtRestructured(d.id, d.ownerID, successorID, d.remainingPrincipal, now),
	)
	return next, nil
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (d Debt) ID() string                          { return d.id }
func (d Debt) OwnerID() string                     { return d.ownerID }
func (d Debt) Kind() valueobject.DebtKind          { return d.kind }
func (d Debt) Currency() money.Currency            { return d.currency }
func (d Debt) Terms() DebtTerms                    { return d.terms }
func (d Debt) RemainingPrincipal() decimal.Decimal { return d.remainingPrincipal }
func (d Debt) Status() valueobject.DebtStatus      { return d.status }
func (d Debt) RestructuredFrom() string            { return d.restructuredFrom }
func (d Debt) Version() int                        { return d.version }
func (d Debt) CreatedAt() time.Time                { return d.createdAt }
func (d Debt) UpdatedAt() time.Time                { return d.updatedAt }
func (d Debt) DomainEvents() []event.DomainEvent   { return d.domainEvents }

// IsSettled reports whether no principal is left.
func (d Debt) IsSettled() bool { return money.IsNegligible(d.remainingPrincipal) }

// ClearEvents returns a copy with an empty event list.
func (d Debt) ClearEvents() Debt {
	next := d
	next.domainEvents = nil
	return next
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func copyEvents(src []event.DomainEvent) []event.DomainEvent {
	if src == nil {
		return nil
	}
	dst := make([]event.DomainEvent, len(src))
	copy(dst, src)
	return dst
}

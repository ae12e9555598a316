package event

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/debt-service/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

const aggregateDebt = "Debt"

// Event type names. The Kafka publisher routes on them.
const (
	TypeDebtCreated       = "debt.created"
	TypePaymentRecorded   = "debt.payment_recorded"
	TypePrepaymentApplied = "debt.prepayment_applied"
	TypeStatusChanged     = "debt.status_changed"
	TypeDebtRestructured  = "debt.restructured"
	TypeRateChanged       = "debt.rate_changed"
	TypeScheduleRebuilt   = "debt.schedule_rebuilt"
)

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

// DebtCreated is raised when a debt and its first schedule are created.
type DebtCreated struct {
	events.BaseEvent
	Kind             string          `json:"kind"`
	Currency         string          `json:"currency"`
	Principal        decimal.Decimal `json:"principal"`
	AnnualRate       decimal.Decimal `json:"annual_rate"`
	Mode             string          `json:"amortization_mode"`
	TotalPeriods     int             `json:"total_periods"`
	RestructuredFrom string          `json:"restructured_from,omitempty"`
}

func NewDebtCreated(
	debtID, ownerID, kind, currency string,
	principal, annualRate decimal.Decimal,
	mode string, totalPeriods int,
	restructuredFrom string, now time.Time,
) DebtCreated {
	return DebtCreated{
		BaseEvent:        events.NewBaseEvent(TypeDebtCreated, debtID, aggregateDebt, ownerID, now),
		Kind:             kind,
		Currency:         currency,
		Principal:        principal,
		AnnualRate:       annualRate,
		Mode:             mode,
		TotalPeriods:     totalPeriods,
		RestructuredFrom: restructuredFrom,
	}
}

// DebtStatusChanged is raised whenever the derived debt status moves.
type DebtStatusChanged struct {
	events.BaseEvent
	From               string          `json:"from"`
	To                 string          `json:"to"`
	RemainingPrincipal decimal.Decimal `json:"remaining_principal"`
}

func NewDebtStatusChanged(debtID, ownerID, from, to string, remaining decimal.Decimal, now time.Time) DebtStatusChanged {
	return DebtStatusChanged{
		BaseEvent:          events.NewBaseEvent(TypeStatusChanged, debtID, aggregateDebt, ownerID, now),
		From:               from,
		To:                 to,
		RemainingPrincipal: remaining,
	}
}

// DebtRestructured is raised on the superseded debt.
type DebtRestructured struct {
	events.BaseEvent
	SuccessorID        string          `json:"successor_id"`
	RemainingPrincipal decimal.Decimal `json:"remaining_principal"`
}

func NewDebtRestructured(debtID, ownerID, successorID string, remaining decimal.Decimal, now time.Time) DebtRestructured {
	return DebtRestructured{
		BaseEvent:          events.NewBaseEvent(TypeDebtRestructured, debtID, aggregateDebt, ownerID, now),
		SuccessorID:        successorID,
		RemainingPrincipal: remaining,
	}
}

// ---------------------------------------------------------------------------
// Money movements
// ---------------------------------------------------------------------------

// PaymentRecorded is raised for every payment, installment or prepayment.
type PaymentRecorded struct {
	events.BaseEvent
	PaymentID          string          `json:"payment_id"`
	Kind               string          `json:"kind"`
	Amount             decimal.Decimal `json:"amount"`
	Currency           string          `json:"currency"`
	Fees               decimal.Decimal `json:"fees"`
	Interests          decimal.Decimal `json:"interests"`
	Insurance          decimal.Decimal `json:"insurance"`
	Principal          decimal.Decimal `json:"principal"`
	Unapplied          decimal.Decimal `json:"unapplied"`
	RemainingPrincipal decimal.Decimal `json:"remaining_principal"`
	PaidAt             time.Time       `json:"paid_at"`
}

// PaymentRecordedParams groups the payment figures carried by the event.
type PaymentRecordedParams struct {
	PaymentID          string
	Kind               string
	Amount             decimal.Decimal
	Currency           string
	Fees               decimal.Decimal
	Interests          decimal.Decimal
	Insurance          decimal.Decimal
	Principal          decimal.Decimal
	Unapplied          decimal.Decimal
	RemainingPrincipal decimal.Decimal
	PaidAt             time.Time
}

func NewPaymentRecorded(debtID, ownerID string, p PaymentRecordedParams, now time.Time) PaymentRecorded {
	return PaymentRecorded{
		BaseEvent:          events.NewBaseEvent(TypePaymentRecorded, debtID, aggregateDebt, ownerID, now),
		PaymentID:          p.PaymentID,
		Kind:               p.Kind,
		Amount:             p.Amount,
		Currency:           p.Currency,
		Fees:               p.Fees,
		Interests:          p.Interests,
		Insurance:          p.Insurance,
		Principal:          p.Principal,
		Unapplied:          p.Unapplied,
		RemainingPrincipal: p.RemainingPrincipal,
		PaidAt:             p.PaidAt,
	}
}

// PrepaymentApplied is raised in addition to PaymentRecorded when a
// prepayment reshapes the schedule.
type PrepaymentApplied struct {
	events.BaseEvent
	PaymentID      string          `json:"payment_id"`
	Mode           string          `json:"mode"`
	Applied        decimal.Decimal `json:"applied"`
	Penalty        decimal.Decimal `json:"penalty"`
	NewPrincipal   decimal.Decimal `json:"new_principal"`
	NewDuration    int             `json:"new_duration"`
	InterestsSaved decimal.Decimal `json:"interests_saved"`
}

func NewPrepaymentApplied(
	debtID, ownerID, paymentID, mode string,
	applied, penalty, newPrincipal decimal.Decimal,
	newDuration int, interestsSaved decimal.Decimal, now time.Time,
) PrepaymentApplied {
	return PrepaymentApplied{
		BaseEvent:      events.NewBaseEvent(TypePrepaymentApplied, debtID, aggregateDebt, ownerID, now),
		PaymentID:      paymentID,
		Mode:           mode,
		Applied:        applied,
		Penalty:        penalty,
		NewPrincipal:   newPrincipal,
		NewDuration:    newDuration,
		InterestsSaved: interestsSaved,
	}
}

// ---------------------------------------------------------------------------
// Schedule
// ---------------------------------------------------------------------------

// RateChanged is raised when a variable-rate debt receives a new rate.
type RateChanged struct {
	events.BaseEvent
	EffectiveDate time.Time       `json:"effective_date"`
	AnnualRate    decimal.Decimal `json:"annual_rate"`
}

func NewRateChanged(debtID, ownerID string, effective time.Time, rate decimal.Decimal, now time.Time) RateChanged {
	return RateChanged{
		BaseEvent:     events.NewBaseEvent(TypeRateChanged, debtID, aggregateDebt, ownerID, now),
		EffectiveDate: effective,
		AnnualRate:    rate,
	}
}

// ScheduleRebuilt is raised when the untouched tail of a schedule has been
// replaced.
type ScheduleRebuilt struct {
	events.BaseEvent
	Reason  string `json:"reason"`
	Upserts int    `json:"upserts"`
	Deletes int    `json:"deletes"`
}

func NewScheduleRebuilt(debtID, ownerID, reason string, upserts, deletes int, now time.Time) ScheduleRebuilt {
	return ScheduleRebuilt{
		BaseEvent: events.NewBaseEvent(TypeScheduleRebuilt, debtID, aggregateDebt, ownerID, now),
		Reason:    reason,
		Upserts:   upserts,
		Deletes:   deletes,
	}
}

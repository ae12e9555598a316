package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/debt-service/internal/domain/valueobject"
	"github.com/bibbank/debt-service/pkg/money"
)

// Payment is an immutable record of money received against a debt.
type Payment struct {
	id         string
	debtID     string
	ownerID    string
	amount     money.Money
	allocation Allocation
	unapplied  decimal.Decimal
	method     valueobject.PaymentMethod
	kind       valueobject.PaymentKind
	paidAt     time.Time
}

// NewPayment validates and creates a Payment.
func NewPayment(
	id, debtID, ownerID string,
	amount money.Money,
	allocation Allocation,
	unapplied decimal.Decimal,
	method valueobject.PaymentMethod,
	kind valueobject.PaymentKind,
	paidAt time.Time,
) (Payment, error) {
	if id == "" || debtID == "" {
		return Payment{}, fmt.Errorf("%w: payment and debt IDs are required", ErrValidation)
	}
	if !amount.Amount().IsPositive() {
		return Payment{}, fmt.Errorf("%w: payment amount must be positive", ErrValidation)
	}
	if paidAt.IsZero() {
		return Payment{}, fmt.Errorf("%w: payment date is required", ErrValidation)
	}
	if unapplied.IsNegative() {
		return Payment{}, fmt.Errorf("%w: unapplied amount must not be negative", ErrValidation)
	}
	return ReconstructPayment(id, debtID, ownerID, amount, allocation, unapplied, method, kind, paidAt), nil
}

// ReconstructPayment rebuilds a Payment from persistence.
func ReconstructPayment(
	id, debtID, ownerID string,
	amount money.Money,
	allocation Allocation,
	unapplied decimal.Decimal,
	method valueobject.PaymentMethod,
	kind valueobject.PaymentKind,
	paidAt time.Time,
) Payment {
	return Payment{
		id:         id,
		debtID:     debtID,
		ownerID:    ownerID,
		amount:     amount,
		allocation: allocation,
		unapplied:  unapplied,
		method:     method,
		kind:       kind,
		paidAt:     paidAt,
	}
}

func (p Payment) ID() string                        { return p.id }
func (p Payment) DebtID() string                    { return p.debtID }
func (p Payment) OwnerID() string                   { return p.ownerID }
func (p Payment) Amount() money.Money               { return p.amount }
func (p Payment) Allocation() Allocation            { return p.allocation }
func (p Payment) Unapplied() decimal.Decimal        { return p.unapplied }
func (p Payment) Method() valueobject.PaymentMethod { return p.method }
func (p Payment) Kind() valueobject.PaymentKind     { return p.kind }
func (p Payment) PaidAt() time.Time                 { return p.paidAt }

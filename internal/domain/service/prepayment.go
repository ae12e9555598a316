package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/debt-service/internal/domain/event"
	"github.com/bibbank/debt-service/internal/domain/model"
	"github.com/bibbank/debt-service/internal/domain/valueobject"
	"github.com/bibbank/debt-service/pkg/money"
)

// PrepaymentResult is the what-if view of a prepayment.
type PrepaymentResult struct {
	PrepaymentApplied decimal.Decimal
	Penalty           decimal.Decimal
	NewPrincipal      decimal.Decimal
	NewInstallment    decimal.Decimal
	InterestsSaved    decimal.Decimal
	// NewDuration is the number of installments still open afterwards.
	NewDuration int
	// Lines is the full line set after the prepayment.
	Lines []model.ScheduleLine
}

// PrepaymentRequest describes a prepayment to simulate or apply.
type PrepaymentRequest struct {
	PaidAt    time.Time
	PaymentID string
	Amount    decimal.Decimal
	Mode      valueobject.PrepaymentMode
	Method    valueobject.PaymentMethod
}

// PrepaymentOutcome is what ApplyPrepayment asks the caller to persist.
type PrepaymentOutcome struct {
	Result  PrepaymentResult
	Debt    model.Debt
	Payment model.Payment
	Diff    model.LineDiff
}

// SimulatePrepayment computes the effect of paying amount off the principal
// without touching anything.
//
// The untouched tail is rebuilt for the reduced principal. When the
// prepayment exceeds the tail principal, the excess pays down the principal
// of the remaining open lines in due order.
func SimulatePrepayment(
	debt model.Debt,
	history []model.RateHistoryEntry,
	lines []model.ScheduleLine,
	amount decimal.Decimal,
	mode valueobject.PrepaymentMode,
) (PrepaymentResult, error) {
	remaining := debt.RemainingPrincipal()
	if money.IsNegligible(remaining) {
		return PrepaymentResult{}, fmt.Errorf("prepay debt %s: %w", debt.ID(), model.ErrAlreadySettled)
	}
	if !money.Round2(amount).IsPositive() {
		return PrepaymentResult{}, fmt.Errorf("%w: prepayment amount must be positive", model.ErrValidation)
	}
	if len(lines) == 0 {
		return PrepaymentResult{}, fmt.Errorf("prepay debt %s: %w", debt.ID(), model.ErrScheduleNotFound)
	}
	if mode.IsZero() {
		mode = valueobject.PrepaymentReamortize
	}

	applied := money.Round2(money.Min(amount, remaining))
	penalty := money.Round2(remaining.Mul(debt.Terms().PrepaymentPenaltyPct))
	newPrincipal := money.NonNegative(money.Round2(remaining.Sub(applied)))

	kept, untouched := model.SplitUntouched(lines)
	tailPrincipal := model.OutstandingPrincipal(untouched)
	fromTail := money.Min(applied, tailPrincipal)

	tail, err := Rebuild(debt.Terms(), history, untouched, tailPrincipal.Sub(fromTail), mode)
	if err != nil {
		return PrepaymentResult{}, fmt.Errorf("rebuild schedule: %w", err)
	}
	kept = payDownPrincipal(kept, money.Round2(applied.Sub(fromTail)))
	all := model.ReplaceTail(kept, tail)

	res := PrepaymentResult{
		PrepaymentApplied: applied,
		Penalty:           penalty,
		NewPrincipal:      newPrincipal,
		NewInstallment:    decimal.Zero,
		InterestsSaved:    money.Round2(model.TotalInterestDue(untouched).Sub(model.TotalInterestDue(tail))),
		NewDuration:       len(model.OpenLines(all)),
		Lines:             all,
	}
	if len(tail) > 0 {
		// Carried fees are a one-off, not part of the installment.
		res.NewInstallment = money.Round2(tail[0].TotalDue.Sub(tail[0].Due.Fees))
	}
	return res, nil
}

// ApplyPrepayment runs SimulatePrepayment and turns the result into the
// updated debt, the replacement lines and the recorded Payment. The payment
// carries the applied principal plus the penalty, booked as fees.
func ApplyPrepayment(
	debt model.Debt,
	history []model.RateHistoryEntry,
	lines []model.ScheduleLine,
	req PrepaymentRequest,
	now time.Time,
) (PrepaymentOutcome, error) {
	if debt.Status().IsTerminal() {
		return PrepaymentOutcome{}, fmt.Errorf("prepay %s debt: %w", debt.Status(), model.ErrInvalidTransition)
	}
	if req.Mode.IsZero() {
		req.Mode = valueobject.PrepaymentReamortize
	}
	res, err := SimulatePrepayment(debt, history, lines, req.Amount, req.Mode)
	if err != nil {
		return PrepaymentOutcome{}, err
	}

	allocation := model.Allocation{
		Fees:      res.Penalty,
		Interests: decimal.Zero,
		Insurance: decimal.Zero,
		Principal: res.PrepaymentApplied,
	}
	payment, err := model.NewPayment(
		req.PaymentID, debt.ID(), debt.OwnerID(),
		money.New(allocation.Total(), debt.Currency()),
		allocation, decimal.Zero,
		req.Method, valueobject.PaymentKindPrepayment, req.PaidAt,
	)
	if err != nil {
		return PrepaymentOutcome{}, fmt.Errorf("build prepayment: %w", err)
	}

	updated, err := debt.Refresh(res.NewPrincipal, Status(res.NewPrincipal, res.Lines), now)
	if err != nil {
		return PrepaymentOutcome{}, err
	}
	if updated, err = updated.RecordPayment(payment, now); err != nil {
		return PrepaymentOutcome{}, err
	}

	diff := model.DiffLines(lines, res.Lines)
	updated = updated.Record(
		event.NewPrepaymentApplied(
			debt.ID(), debt.OwnerID(), payment.ID(), req.Mode.String(),
			res.PrepaymentApplied, res.Penalty, res.NewPrincipal,
			res.NewDuration, res.InterestsSaved, now,
		),
		event.NewScheduleRebuilt(debt.ID(), debt.OwnerID(), "prepayment", len(diff.Upserts), len(diff.Deletes), now),
	)

	return PrepaymentOutcome{Result: res, Debt: updated, Payment: payment, Diff: diff}, nil
}

// payDownPrincipal allocates amount to the principal bucket of the open
// lines, earliest first.
func payDownPrincipal(lines []model.ScheduleLine, amount decimal.Decimal) []model.ScheduleLine {
	if !amount.IsPositive() {
		return lines
	}
	out := model.SortLines(lines)
	left := amount
	for i, l := range out {
		if !left.IsPositive() {
			break
		}
		if !l.IsOpen() {
			continue
		}
		open := l.OutstandingBuckets().Principal
		if !open.IsPositive() {
			continue
		}
		got := money.Min(open, left)
		out[i] = l.ApplyAllocation(model.Allocation{Principal: got})
		left = money.Round2(left.Sub(got))
	}
	return out
}

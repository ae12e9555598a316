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

// PaymentRequest describes money received against a debt.
type PaymentRequest struct {
	PaidAt    time.Time
	PaymentID string
	Amount    decimal.Decimal
	Method    valueobject.PaymentMethod
}

// PaymentOutcome is what RecordPayment asks the caller to persist.
type PaymentOutcome struct {
	Debt       model.Debt
	Payment    model.Payment
	Lines      []model.ScheduleLine
	Diff       model.LineDiff
	Allocation model.Allocation
	Unapplied  decimal.Decimal
	Rebuilt    bool
}

// RecordPayment runs the waterfall over the installments due on or before
// the payment date (or the first open one when none is due yet). Money left
// over is extra principal: the untouched tail is rebuilt shorter. What
// cannot go anywhere once the principal is repaid is returned as Unapplied.
func RecordPayment(
	debt model.Debt,
	history []model.RateHistoryEntry,
	lines []model.ScheduleLine,
	req PaymentRequest,
	now time.Time,
) (PaymentOutcome, error) {
	if debt.Status().IsTerminal() {
		return PaymentOutcome{}, fmt.Errorf("payment on %s debt: %w", debt.Status(), model.ErrInvalidTransition)
	}
	amount := money.Round2(req.Amount)
	if !amount.IsPositive() {
		return PaymentOutcome{}, fmt.Errorf("%w: payment amount must be positive", model.ErrValidation)
	}
	if len(lines) == 0 {
		return PaymentOutcome{}, fmt.Errorf("payment on debt %s: %w", debt.ID(), model.ErrScheduleNotFound)
	}
	open := model.OpenLines(lines)
	if len(open) == 0 {
		return PaymentOutcome{}, fmt.Errorf("payment on debt %s: %w", debt.ID(), model.ErrNoOpenInstallments)
	}

	targeted := dueBy(open, req.PaidAt)
	if len(targeted) == 0 {
		targeted = open[:1]
	}

	byIndex := make(map[int]model.ScheduleLine, len(lines))
	for _, l := range lines {
		byIndex[l.PeriodIndex] = l
	}

	var total model.Allocation
	left := amount
	for _, l := range targeted {
		if !left.IsPositive() {
			break
		}
		res := Allocate(left, l.Due, l.Paid)
		byIndex[l.PeriodIndex] = l.ApplyAllocation(res.Allocation)
		total = total.Add(res.Allocation)
		left = res.Remainder
	}

	updated := make([]model.ScheduleLine, 0, len(byIndex))
	for _, l := range byIndex {
		updated = append(updated, l)
	}
	updated = model.SortLines(updated)

	rebuilt := false
	if left.IsPositive() {
		kept, untouched := model.SplitUntouched(updated)
		tailPrincipal := model.OutstandingPrincipal(untouched)
		extra := money.Min(left, tailPrincipal)
		if extra.IsPositive() {
			tail, err := Rebuild(debt.Terms(), history, untouched, tailPrincipal.Sub(extra), valueobject.PrepaymentShorten)
			if err != nil {
				return PaymentOutcome{}, fmt.Errorf("rebuild schedule: %w", err)
			}
			updated = model.ReplaceTail(kept, tail)
			total = total.Add(model.Allocation{Principal: extra})
			left = money.Round2(left.Sub(extra))
			rebuilt = true
		}
	}

	remaining := money.NonNegative(money.Round2(debt.RemainingPrincipal().Sub(total.Principal)))
	payment, err := model.NewPayment(
		req.PaymentID, debt.ID(), debt.OwnerID(),
		money.New(amount, debt.Currency()),
		total, left,
		req.Method, valueobject.PaymentKindInstallment, req.PaidAt,
	)
	if err != nil {
		return PaymentOutcome{}, fmt.Errorf("build payment: %w", err)
	}

	next, err := debt.Refresh(remaining, Status(remaining, updated), now)
	if err != nil {
		return PaymentOutcome{}, err
	}
	if next, err = next.RecordPayment(payment, now); err != nil {
		return PaymentOutcome{}, err
	}

	diff := model.DiffLines(lines, updated)
	if rebuilt {
		next = next.Record(event.NewScheduleRebuilt(
			debt.ID(), debt.OwnerID(), "overpayment", len(diff.Upserts), len(diff.Deletes), now,
		))
	}

	return PaymentOutcome{
		Debt:       next,
		Payment:    payment,
		Lines:      updated,
		Diff:       diff,
		Allocation: total,
		Unapplied:  left,
		Rebuilt:    rebuilt,
	}, nil
}

func dueBy(lines []model.ScheduleLine, at time.Time) []model.ScheduleLine {
	var out []model.ScheduleLine
	for _, l := range lines {
		if !l.DueDate.After(at) {
			out = append(out, l)
		}
	}
	return out
}

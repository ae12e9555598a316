package service

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/debt-service/internal/domain/model"
	"github.com/bibbank/debt-service/pkg/money"
)

// AllocationResult is the split of one amount over a line plus whatever the
// line could not absorb.
type AllocationResult struct {
	Allocation model.Allocation
	Remainder  decimal.Decimal
}

// Allocate splits amount over the open part of one installment in strict
// priority order: fees, interest, insurance, principal. It never allocates a
// negative amount and never mutates its inputs.
func Allocate(amount decimal.Decimal, due, alreadyPaid model.Buckets) AllocationResult {
	left := money.Round2(amount)
	if !left.IsPositive() {
		return AllocationResult{Remainder: decimal.Zero}
	}

	take := func(dueAmt, paidAmt decimal.Decimal) decimal.Decimal {
		open := money.Round2(dueAmt.Sub(paidAmt))
		if !left.IsPositive() || !open.IsPositive() {
			return decimal.Zero
		}
		got := money.Round2(money.Min(open, left))
		left = money.Round2(left.Sub(got))
		return got
	}

	var res AllocationResult
	res.Allocation.Fees = take(due.Fees, alreadyPaid.Fees)
	res.Allocation.Interests = take(due.Interest, alreadyPaid.Interest)
	res.Allocation.Insurance = take(due.Insurance, alreadyPaid.Insurance)
	res.Allocation.Principal = take(due.Principal, alreadyPaid.Principal)
	res.Remainder = money.NonNegative(left)
	return res
}

package model

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/debt-service/internal/domain/valueobject"
	"github.com/bibbank/debt-service/pkg/money"
)

// Buckets splits an amount across the four components of an installment.
type Buckets struct {
	Principal decimal.Decimal
	Interest  decimal.Decimal
	Insurance decimal.Decimal
	Fees      decimal.Decimal
}

// Total returns the rounded sum of the four buckets.
func (b Buckets) Total() decimal.Decimal {
	return money.Sum(b.Principal, b.Interest, b.Insurance, b.Fees)
}

// Remaining returns what is left of b once paid is deducted, never negative.
func (b Buckets) Remaining(paid Buckets) Buckets {
	return Buckets{
		Principal: money.NonNegative(money.Round2(b.Principal.Sub(paid.Principal))),
		Interest:  money.NonNegative(money.Round2(b.Interest.Sub(paid.Interest))),
		Insurance: money.NonNegative(money.Round2(b.Insurance.Sub(paid.Insurance))),
		Fees:      money.NonNegative(money.Round2(b.Fees.Sub(paid.Fees))),
	}
}

// Allocation is how one payment was split across the buckets.
type Allocation struct {
	Fees      decimal.Decimal
	Interests decimal.Decimal
	Insurance decimal.Decimal
	Principal decimal.Decimal
}

// Total returns the rounded sum of the allocation.
func (a Allocation) Total() decimal.Decimal {
	return money.Sum(a.Fees, a.Interests, a.Insurance, a.Principal)
}

// Add returns the bucket-wise sum of a and other.
func (a Allocation) Add(other Allocation) Allocation {
	return Allocation{
		Fees:      money.Round2(a.Fees.Add(other.Fees)),
		Interests: money.Round2(a.Interests.Add(other.Interests)),
		Insurance: money.Round2(a.Insurance.Add(other.Insurance)),
		Principal: money.Round2(a.Principal.Add(other.Principal)),
	}
}

// ScheduleLine is one period's obligation on a debt.
type ScheduleLine struct {
	DueDate                 time.Time
	Due                     Buckets
	Paid                    Buckets
	TotalDue                decimal.Decimal
	TotalPaid               decimal.Decimal
	RemainingPrincipalAfter decimal.Decimal
	RateApplied             decimal.Decimal
	Status                  valueobject.LineStatus
	DebtID                  string
	PeriodIndex             int
}

// Outstanding returns totalDue - totalPaid, floored at zero.
func (l ScheduleLine) Outstanding() decimal.Decimal {
	return money.NonNegative(money.Round2(l.TotalDue.Sub(l.TotalPaid)))
}

// OutstandingBuckets returns the unpaid part of each bucket.
func (l ScheduleLine) OutstandingBuckets() Buckets {
	return l.Due.Remaining(l.Paid)
}

// IsOpen reports whether anything is still expected on the line.
func (l ScheduleLine) IsOpen() bool {
	return !l.Status.IsPaid()
}

// IsUntouched reports whether the line is still merely due and has received
// nothing yet. Only untouched lines may be replaced by a schedule rebuild;
// late lines keep their amounts.
func (l ScheduleLine) IsUntouched() bool {
	return l.Status.Equal(valueobject.LineStatusDue) && l.TotalPaid.IsZero()
}

// ApplyAllocation returns a copy of the line with the allocation added to
// the paid buckets and the line state machine advanced. A late line that is
// only partly covered stays late.
func (l ScheduleLine) ApplyAllocation(a Allocation) ScheduleLine {
	next := l
	next.Paid = Buckets{
		Principal: money.Round2(l.Paid.Principal.Add(a.Principal)),
		Interest:  money.Round2(l.Paid.Interest.Add(a.Interests)),
		Insurance: money.Round2(l.Paid.Insurance.Add(a.Insurance)),
		Fees:      money.Round2(l.Paid.Fees.Add(a.Fees)),
	}
	next.TotalPaid = next.Paid.Total()

	switch {
	case money.IsNegligible(next.TotalDue.Sub(next.TotalPaid)):
		next.Status = valueobject.LineStatusPaid
	case l.Status.Equal(valueobject.LineStatusLate):
		// keep the late flag until the line is settled
	case next.TotalPaid.IsPositive():
		next.Status = valueobject.LineStatusPartial
	}
	return next
}

// Equal compares two lines field by field.
func (l ScheduleLine) Equal(other ScheduleLine) bool {
	return l.DebtID == other.DebtID &&
		l.PeriodIndex == other.PeriodIndex &&
		l.DueDate.Equal(other.DueDate) &&
		bucketsEqual(l.Due, other.Due) &&
		bucketsEqual(l.Paid, other.Paid) &&
		l.TotalDue.Equal(other.TotalDue) &&
		l.TotalPaid.Equal(other.TotalPaid) &&
		l.RemainingPrincipalAfter.Equal(other.RemainingPrincipalAfter) &&
		l.RateApplied.Equal(other.RateApplied) &&
		l.Status.Equal(other.Status)
}

func bucketsEqual(a, b Buckets) bool {
	return a.Principal.Equal(b.Principal) &&
		a.Interest.Equal(b.Interest) &&
		a.Insurance.Equal(b.Insurance) &&
		a.Fees.Equal(b.Fees)
}

// ---------------------------------------------------------------------------
// Line set helpers
// ---------------------------------------------------------------------------

// SortLines returns a copy of lines ordered by period index.
func SortLines(lines []ScheduleLine) []ScheduleLine {
	out := make([]ScheduleLine, len(lines))
	copy(out, lines)
	sort.SliceStable(out, func(i, j int) bool { return out[i].PeriodIndex < out[j].PeriodIndex })
	return out
}

// OpenLines returns the open lines ordered by period index.
func OpenLines(lines []ScheduleLine) []ScheduleLine {
	var open []ScheduleLine
	for _, l := range SortLines(lines) {
		if l.IsOpen() {
			open = append(open, l)
		}
	}
	return open
}

// SplitUntouched separates the lines a rebuild must keep from the trailing
// untouched lines it may replace. The tail starts after the last line that
// has received money.
func SplitUntouched(lines []ScheduleLine) (kept, untouched []ScheduleLine) {
	sorted := SortLines(lines)
	cut := len(sorted)
	for cut > 0 && sorted[cut-1].IsUntouched() {
		cut--
	}
	return sorted[:cut], sorted[cut:]
}

// OutstandingPrincipal sums the unpaid principal of the open lines.
func OutstandingPrincipal(lines []ScheduleLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		if l.IsOpen() {
			total = total.Add(l.OutstandingBuckets().Principal)
		}
	}
	return money.Round2(total)
}

// TotalInterestDue sums the scheduled interest of the lines.
func TotalInterestDue(lines []ScheduleLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Due.Interest)
	}
	return money.Round2(total)
}

// ReplaceTail returns kept followed by tail, ordered by period index.
func ReplaceTail(kept, tail []ScheduleLine) []ScheduleLine {
	out := make([]ScheduleLine, 0, len(kept)+len(tail))
	out = append(out, kept...)
	out = append(out, tail...)
	return SortLines(out)
}

// LineDiff is the minimal set of writes turning one line set into another.
type LineDiff struct {
	Upserts []ScheduleLine
	Deletes []int
}

// IsEmpty reports whether the diff carries no writes.
func (d LineDiff) IsEmpty() bool { return len(d.Upserts) == 0 && len(d.Deletes) == 0 }

// DiffLines compares two line sets of the same debt by period index.
func DiffLines(before, after []ScheduleLine) LineDiff {
	prev := make(map[int]ScheduleLine, len(before))
	for _, l := range before {
		prev[l.PeriodIndex] = l
	}

	var diff LineDiff
	seen := make(map[int]struct{}, len(after))
	for _, l := range SortLines(after) {
		seen[l.PeriodIndex] = struct{}{}
		if old, ok := prev[l.PeriodIndex]; ok && old.Equal(l) {
			continue
		}
		diff.Upserts = append(diff.Upserts, l)
	}
	for _, l := range SortLines(before) {
		if _, ok := seen[l.PeriodIndex]; !ok {
			diff.Deletes = append(diff.Deletes, l.PeriodIndex)
		}
	}
	return diff
}

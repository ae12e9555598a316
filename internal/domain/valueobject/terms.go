package valueobject

import (
	"fmt"
	"time"
)

// ---------------------------------------------------------------------------
// DebtKind
// ---------------------------------------------------------------------------

// DebtKind tells whether the owner borrowed the money or lent it.
type DebtKind struct {
	value string
}

var (
	DebtKindBorrowed = DebtKind{value: "BORROWED"}
	DebtKindLent     = DebtKind{value: "LENT"}
)

var validDebtKinds = map[string]DebtKind{
	DebtKindBorrowed.value: DebtKindBorrowed,
	DebtKindLent.value:     DebtKindLent,
}

// NewDebtKind creates a DebtKind from a raw string.
func NewDebtKind(s string) (DebtKind, error) {
	v, ok := validDebtKinds[s]
	if !ok {
		return DebtKind{}, fmt.Errorf("invalid debt kind: %q", s)
	}
	return v, nil
}

func (k DebtKind) String() string            { return k.value }
func (k DebtKind) IsZero() bool              { return k.value == "" }
func (k DebtKind) Equal(other DebtKind) bool { return k.value == other.value }

// ---------------------------------------------------------------------------
// RateType
// ---------------------------------------------------------------------------

// RateType distinguishes fixed-rate debts from variable-rate ones.
type RateType struct {
	value string
}

var (
	RateTypeFixed    = RateType{value: "FIXE"}
	RateTypeVariable = RateType{value: "VARIABLE"}
)

var validRateTypes = map[string]RateType{
	RateTypeFixed.value:    RateTypeFixed,
	RateTypeVariable.value: RateTypeVariable,
}

// NewRateType creates a RateType from a raw string.
func NewRateType(s string) (RateType, error) {
	v, ok := validRateTypes[s]
	if !ok {
		return RateType{}, fmt.Errorf("invalid rate type: %q", s)
	}
	return v, nil
}

func (r RateType) String() string            { return r.value }
func (r RateType) IsZero() bool              { return r.value == "" }
func (r RateType) Equal(other RateType) bool { return r.value == other.value }

// IsVariable reports whether the rate follows a rate history.
func (r RateType) IsVariable() bool { return r.value == RateTypeVariable.value }

// ---------------------------------------------------------------------------
// AmortizationMode
// ---------------------------------------------------------------------------

// AmortizationMode selects how principal is spread over the periods.
type AmortizationMode struct {
	value string
}

var (
	AmortizationAnnuity           = AmortizationMode{value: "ANNUITE"}
	AmortizationConstantPrincipal = AmortizationMode{value: "PRINCIPAL_CONSTANT"}
	AmortizationInterestOnly      = AmortizationMode{value: "INTEREST_ONLY"}
	AmortizationBalloon           = AmortizationMode{value: "BALLOON"}
)

var validAmortizationModes = map[string]AmortizationMode{
	AmortizationAnnuity.value:           AmortizationAnnuity,
	AmortizationConstantPrincipal.value: AmortizationConstantPrincipal,
	AmortizationInterestOnly.value:      AmortizationInterestOnly,
	AmortizationBalloon.value:           AmortizationBalloon,
}

// NewAmortizationMode creates an AmortizationMode from a raw string.
func NewAmortizationMode(s string) (AmortizationMode, error) {
	v, ok := validAmortizationModes[s]
	if !ok {
		return AmortizationMode{}, fmt.Errorf("invalid amortization mode: %q", s)
	}
	return v, nil
}

func (m AmortizationMode) String() string                    { return m.value }
func (m AmortizationMode) IsZero() bool                      { return m.value == "" }
func (m AmortizationMode) Equal(other AmortizationMode) bool { return m.value == other.value }

// ---------------------------------------------------------------------------
// Frequency
// ---------------------------------------------------------------------------

// Frequency is the spacing between two due dates.
type Frequency struct {
	value string
}

var (
	FrequencyMonthly = Frequency{value: "MONTHLY"}
	FrequencyWeekly  = Frequency{value: "WEEKLY"}
	FrequencyYearly  = Frequency{value: "YEARLY"}
)

var periodsPerYear = map[string]int{
	FrequencyMonthly.value: 12,
	FrequencyWeekly.value:  52,
	FrequencyYearly.value:  1,
}

// NewFrequency creates a Frequency from a raw string. Unknown values wrap
// ErrUnsupportedFrequency.
func NewFrequency(s string) (Frequency, error) {
	if _, ok := periodsPerYear[s]; !ok {
		return Frequency{}, fmt.Errorf("%w: %q", ErrUnsupportedFrequency, s)
	}
	return Frequency{value: s}, nil
}

func (f Frequency) String() string             { return f.value }
func (f Frequency) IsZero() bool               { return f.value == "" }
func (f Frequency) Equal(other Frequency) bool { return f.value == other.value }

// PeriodsPerYear returns the number of periods in a year, or
// ErrUnsupportedFrequency when the frequency has no mapping.
func (f Frequency) PeriodsPerYear() (int, error) {
	n, ok := periodsPerYear[f.value]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFrequency, f.value)
	}
	return n, nil
}

// Advance returns start moved forward by n frequency units. Month and year
// steps clamp to the last day of the target month, so a debt starting on
// January 31st falls due on February 28th and then March 31st.
func (f Frequency) Advance(start time.Time, n int) time.Time {
	switch f.value {
	case FrequencyWeekly.value:
		return start.AddDate(0, 0, 7*n)
	case FrequencyYearly.value:
		return addMonthsClamped(start, 12*n)
	default:
		return addMonthsClamped(start, n)
	}
}

func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	lastDay := first.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// ---------------------------------------------------------------------------
// PrepaymentMode
// ---------------------------------------------------------------------------

// PrepaymentMode decides what a principal reduction does to the remaining tail.
type PrepaymentMode struct {
	value string
}

var (
	// PrepaymentReamortize keeps the period count and lowers the installment.
	PrepaymentReamortize = PrepaymentMode{value: "RE-AMORTIR"}
	// PrepaymentShorten keeps the installment and drops periods.
	PrepaymentShorten = PrepaymentMode{value: "RACCOURCIR_DUREE"}
)

var validPrepaymentModes = map[string]PrepaymentMode{
	PrepaymentReamortize.value: PrepaymentReamortize,
	PrepaymentShorten.value:    PrepaymentShorten,
}

// NewPrepaymentMode creates a PrepaymentMode from a raw string.
func NewPrepaymentMode(s string) (PrepaymentMode, error) {
	v, ok := validPrepaymentModes[s]
	if !ok {
		return PrepaymentMode{}, fmt.Errorf("invalid prepayment mode: %q", s)
	}
	return v, nil
}

func (m PrepaymentMode) String() string                  { return m.value }
func (m PrepaymentMode) IsZero() bool                    { return m.value == "" }
func (m PrepaymentMode) Equal(other PrepaymentMode) bool { return m.value == other.value }

// ---------------------------------------------------------------------------
// PaymentKind
// ---------------------------------------------------------------------------

// PaymentKind tells a regular installment payment from a prepayment.
type PaymentKind struct {
	value string
}

var (
	PaymentKindInstallment = PaymentKind{value: "INSTALLMENT"}
	PaymentKindPrepayment  = PaymentKind{value: "PREPAYMENT"}
)

var validPaymentKinds = map[string]PaymentKind{
	PaymentKindInstallment.value: PaymentKindInstallment,
	PaymentKindPrepayment.value:  PaymentKindPrepayment,
}

// NewPaymentKind creates a PaymentKind from a raw string.
func NewPaymentKind(s string) (PaymentKind, error) {
	v, ok := validPaymentKinds[s]
	if !ok {
		return PaymentKind{}, fmt.Errorf("invalid payment kind: %q", s)
	}
	return v, nil
}

func (k PaymentKind) String() string               { return k.value }
func (k PaymentKind) Equal(other PaymentKind) bool { return k.value == other.value }

// ---------------------------------------------------------------------------
// PaymentMethod
// ---------------------------------------------------------------------------

// PaymentMethod records how the money was received.
type PaymentMethod struct {
	value string
}

var (
	PaymentMethodCash         = PaymentMethod{value: "CASH"}
	PaymentMethodBankTransfer = PaymentMethod{value: "BANK_TRANSFER"}
	PaymentMethodCard         = PaymentMethod{value: "CARD"}
	PaymentMethodMobileMoney  = PaymentMethod{value: "MOBILE_MONEY"}
	PaymentMethodOther        = PaymentMethod{value: "OTHER"}
)

var validPaymentMethods = map[string]PaymentMethod{
	PaymentMethodCash.value:         PaymentMethodCash,
	PaymentMethodBankTransfer.value: PaymentMethodBankTransfer,
	PaymentMethodCard.value:         PaymentMethodCard,
	PaymentMethodMobileMoney.value:  PaymentMethodMobileMoney,
	PaymentMethodOther.value:        PaymentMethodOther,
}

// NewPaymentMethod creates a PaymentMethod from a raw string. An empty
// string maps to OTHER.
func NewPaymentMethod(s string) (PaymentMethod, error) {
	if s == "" {
		return PaymentMethodOther, nil
	}
	v, ok := validPaymentMethods[s]
	if !ok {
		return PaymentMethod{}, fmt.Errorf("invalid payment method: %q", s)
	}
	return v, nil
}

func (m PaymentMethod) String() string                 { return m.value }
func (m PaymentMethod) Equal(other PaymentMethod) bool { return m.value == other.value }

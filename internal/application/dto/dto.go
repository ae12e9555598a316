package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// TermsInput carries contractual debt parameters. Rates and percentages are
// fractions (0.12 is 12%). Dates are truncated to the UTC calendar day.
type TermsInput struct {
	StartDate            time.Time       `json:"start_date"`
	Principal            decimal.Decimal `json:"principal"`
	AnnualRate           decimal.Decimal `json:"annual_rate"`
	BalloonPct           decimal.Decimal `json:"balloon_pct"`
	UpfrontFees          decimal.Decimal `json:"upfront_fees"`
	PeriodicInsurance    decimal.Decimal `json:"periodic_insurance"`
	PrepaymentPenaltyPct decimal.Decimal `json:"prepayment_penalty_pct"`
	RateType             string          `json:"rate_type"`
	Mode                 string          `json:"amortization_mode"`
	Frequency            string          `json:"frequency"`
	TotalPeriods         int             `json:"total_periods"`
	GracePeriods         int             `json:"grace_periods"`
	RecalcEachPeriod     bool            `json:"recalc_each_period"`
}

// RateInput is one rate history entry.
type RateInput struct {
	EffectiveDate time.Time       `json:"effective_date"`
	AnnualRate    decimal.Decimal `json:"annual_rate"`
}

// CreateDebtRequest registers a new debt and generates its schedule.
type CreateDebtRequest struct {
	OwnerID  string     `json:"owner_id"`
	Kind     string     `json:"kind"`
	Currency string     `json:"currency"`
	Terms    TermsInput `json:"terms"`
}

// GetDebtRequest identifies a debt to retrieve.
type GetDebtRequest struct {
	OwnerID         string `json:"owner_id"`
	DebtID          string `json:"debt_id"`
	IncludePayments bool   `json:"include_payments"`
}

// PreviewScheduleRequest computes a schedule without persisting anything.
type PreviewScheduleRequest struct {
	Terms       TermsInput  `json:"terms"`
	RateHistory []RateInput `json:"rate_history,omitempty"`
}

// RecordPaymentRequest records an installment payment. An empty PaymentID is
// generated; a repeated PaymentID is rejected.
type RecordPaymentRequest struct {
	OwnerID   string          `json:"owner_id"`
	DebtID    string          `json:"debt_id"`
	PaymentID string          `json:"payment_id,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	PaidAt    time.Time       `json:"paid_at"`
}

// SimulatePrepaymentRequest previews an early repayment.
type SimulatePrepaymentRequest struct {
	OwnerID string          `json:"owner_id"`
	DebtID  string          `json:"debt_id"`
	Amount  decimal.Decimal `json:"amount"`
	Mode    string          `json:"mode"`
}

// ApplyPrepaymentRequest applies an early repayment.
type ApplyPrepaymentRequest struct {
	OwnerID   string          `json:"owner_id"`
	DebtID    string          `json:"debt_id"`
	PaymentID string          `json:"payment_id,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Mode      string          `json:"mode"`
	Method    string          `json:"method"`
	PaidAt    time.Time       `json:"paid_at"`
}

// RestructureDebtRequest replaces a debt with a successor on new terms. The
// successor principal is computed; Terms.Principal is ignored.
type RestructureDebtRequest struct {
	OwnerID           string     `json:"owner_id"`
	DebtID            string     `json:"debt_id"`
	Terms             TermsInput `json:"terms"`
	CapitalizeArrears bool       `json:"capitalize_arrears"`
}

// RecordRateChangeRequest appends a rate to a variable-rate debt.
type RecordRateChangeRequest struct {
	OwnerID string    `json:"owner_id"`
	DebtID  string    `json:"debt_id"`
	Rate    RateInput `json:"rate"`
}

// MarkOverdueRequest sweeps open lines past their due date. A zero AsOf
// means now; a zero Limit uses the configured batch size.
type MarkOverdueRequest struct {
	AsOf  time.Time `json:"as_of"`
	Limit int       `json:"limit"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// ScheduleLineResponse represents one schedule line.
type ScheduleLineResponse struct {
	PeriodIndex             int             `json:"period_index"`
	DueDate                 time.Time       `json:"due_date"`
	PrincipalDue            decimal.Decimal `json:"principal_due"`
	InterestDue             decimal.Decimal `json:"interest_due"`
	InsuranceDue            decimal.Decimal `json:"insurance_due"`
	FeesDue                 decimal.Decimal `json:"fees_due"`
	PrincipalPaid           decimal.Decimal `json:"principal_paid"`
	InterestPaid            decimal.Decimal `json:"interest_paid"`
	InsurancePaid           decimal.Decimal `json:"insurance_paid"`
	FeesPaid                decimal.Decimal `json:"fees_paid"`
	TotalDue                decimal.Decimal `json:"total_due"`
	TotalPaid               decimal.Decimal `json:"total_paid"`
	RemainingPrincipalAfter decimal.Decimal `json:"remaining_principal_after"`
	RateApplied             decimal.Decimal `json:"rate_applied"`
	Status                  string          `json:"status"`
}

// InstallmentResponse is the next amount due.
type InstallmentResponse struct {
	PeriodIndex int             `json:"period_index"`
	DueDate     time.Time       `json:"due_date"`
	Amount      decimal.Decimal `json:"amount"`
}

// AllocationResponse is how a payment was split.
type AllocationResponse struct {
	Fees      decimal.Decimal `json:"fees"`
	Interests decimal.Decimal `json:"interests"`
	Insurance decimal.Decimal `json:"insurance"`
	Principal decimal.Decimal `json:"principal"`
}

// PaymentResponse is the external representation of a recorded payment.
type PaymentResponse struct {
	ID         string             `json:"id"`
	DebtID     string             `json:"debt_id"`
	Amount     decimal.Decimal    `json:"amount"`
	Currency   string             `json:"currency"`
	Allocation AllocationResponse `json:"allocation"`
	Unapplied  decimal.Decimal    `json:"unapplied"`
	Method     string             `json:"method"`
	Kind       string             `json:"kind"`
	PaidAt     time.Time          `json:"paid_at"`
}

// DebtResponse is the external representation of a debt.
type DebtResponse struct {
	ID                 string                 `json:"id"`
	OwnerID            string                 `json:"owner_id"`
	Kind               string                 `json:"kind"`
	Currency           string                 `json:"currency"`
	Status             string                 `json:"status"`
	PrincipalInitial   decimal.Decimal        `json:"principal_initial"`
	RemainingPrincipal decimal.Decimal        `json:"remaining_principal"`
	AnnualRate         decimal.Decimal        `json:"annual_rate"`
	RateType           string                 `json:"rate_type"`
	Mode               string                 `json:"amortization_mode"`
	Frequency          string                 `json:"frequency"`
	TotalPeriods       int                    `json:"total_periods"`
	GracePeriods       int                    `json:"grace_periods"`
	StartDate          time.Time              `json:"start_date"`
	RestructuredFrom   string                 `json:"restructured_from,omitempty"`
	Version            int                    `json:"version"`
	NextInstallment    *InstallmentResponse   `json:"next_installment,omitempty"`
	Schedule           []ScheduleLineResponse `json:"schedule,omitempty"`
	Payments           []PaymentResponse      `json:"payments,omitempty"`
	CreatedAt          time.Time              `json:"created_at"`
	UpdatedAt          time.Time              `json:"updated_at"`
}

// ScheduleResponse is a computed, unsaved schedule.
type ScheduleResponse struct {
	Schedule       []ScheduleLineResponse `json:"schedule"`
	TotalInterest  decimal.Decimal        `json:"total_interest"`
	TotalInsurance decimal.Decimal        `json:"total_insurance"`
	TotalFees      decimal.Decimal        `json:"total_fees"`
	TotalCost      decimal.Decimal        `json:"total_cost"`
}

// RecordPaymentResponse reports the payment and the updated debt.
type RecordPaymentResponse struct {
	Payment         PaymentResponse `json:"payment"`
	Debt            DebtResponse    `json:"debt"`
	ScheduleRebuilt bool            `json:"schedule_rebuilt"`
}

// PrepaymentResponse reports a simulated or applied prepayment.
type PrepaymentResponse struct {
	PrepaymentApplied decimal.Decimal        `json:"prepayment_applied"`
	Penalty           decimal.Decimal        `json:"penalty"`
	NewPrincipal      decimal.Decimal        `json:"new_principal"`
	NewInstallment    decimal.Decimal        `json:"new_installment"`
	InterestsSaved    decimal.Decimal        `json:"interests_saved"`
	NewDuration       int                    `json:"new_duration"`
	Schedule          []ScheduleLineResponse `json:"schedule"`
}

// ApplyPrepaymentResponse reports the applied prepayment.
type ApplyPrepaymentResponse struct {
	Result  PrepaymentResponse `json:"result"`
	Payment PaymentResponse    `json:"payment"`
	Debt    DebtResponse       `json:"debt"`
}

// RestructureDebtResponse returns the superseded debt and its successor.
type RestructureDebtResponse struct {
	Previous  DebtResponse `json:"previous"`
	Successor DebtResponse `json:"successor"`
}

// RecordRateChangeResponse reports the affected debt.
type RecordRateChangeResponse struct {
	Debt         DebtResponse `json:"debt"`
	LinesUpdated int          `json:"lines_updated"`
}

// MarkOverdueResponse summarizes a delinquency sweep.
type MarkOverdueResponse struct {
	DebtsScanned int      `json:"debts_scanned"`
	DebtsUpdated int      `json:"debts_updated"`
	LinesMarked  int      `json:"lines_marked"`
	Failed       []string `json:"failed,omitempty"`
}

package usecase

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/debt-service/internal/application/dto"
	"github.com/bibbank/debt-service/internal/domain/model"
	"github.com/bibbank/debt-service/internal/domain/service"
	"github.com/bibbank/debt-service/internal/domain/valueobject"
	"github.com/bibbank/debt-service/pkg/money"
)

// termsFromInput parses the enums of in. Range checks are left to
// model.DebtTerms.Validate.
func termsFromInput(in dto.TermsInput) (model.DebtTerms, error) {
	rateType, err := valueobject.NewRateType(in.RateType)
	if err != nil {
		return model.DebtTerms{}, fmt.Errorf("%w: %v", model.ErrValidation, err)
	}
	mode, err := valueobject.NewAmortizationMode(in.Mode)
	if err != nil {
		return model.DebtTerms{}, fmt.Errorf("%w: %v", model.ErrValidation, err)
	}
	freq, err := valueobject.NewFrequency(in.Frequency)
	if err != nil {
		return model.DebtTerms{}, err
	}
	return model.DebtTerms{
		StartDate:            dateOnly(in.StartDate),
		PrincipalInitial:     in.Principal,
		AnnualRate:           in.AnnualRate,
		BalloonPct:           in.BalloonPct,
		UpfrontFees:          in.UpfrontFees,
		PeriodicInsurance:    in.PeriodicInsurance,
		PrepaymentPenaltyPct: in.PrepaymentPenaltyPct,
		RateType:             rateType,
		Mode:                 mode,
		Frequency:            freq,
		TotalPeriods:         in.TotalPeriods,
		GracePeriods:         in.GracePeriods,
		RecalcEachPeriod:     in.RecalcEachPeriod,
	}, nil
}

func parseMethod(s string) (valueobject.PaymentMethod, error) {
	m, err := valueobject.NewPaymentMethod(s)
	if err != nil {
		return valueobject.PaymentMethod{}, fmt.Errorf("%w: %v", model.ErrValidation, err)
	}
	return m, nil
}

// parsePrepaymentMode defaults an empty mode to RE-AMORTIR.
func parsePrepaymentMode(s string) (valueobject.PrepaymentMode, error) {
	if s == "" {
		return valueobject.PrepaymentReamortize, nil
	}
	m, err := valueobject.NewPrepaymentMode(s)
	if err != nil {
		return valueobject.PrepaymentMode{}, fmt.Errorf("%w: %v", model.ErrValidation, err)
	}
	return m, nil
}

// dateOnly truncates t to its UTC calendar day.
func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// persisted returns d as storage holds it after a successful commit.
func persisted(d model.Debt, created bool) model.Debt {
	if created {
		return d
	}
	return model.ReconstructDebt(
		d.ID(), d.OwnerID(), d.Kind(), d.Currency(), d.Terms(),
		d.RemainingPrincipal(), d.Status(), d.RestructuredFrom(),
		d.Version()+1, d.CreatedAt(), d.UpdatedAt(),
	)
}

func toDebtResponse(d model.Debt, lines []model.ScheduleLine) dto.DebtResponse {
	t := d.Terms()
	resp := dto.DebtResponse{
		ID:                 d.ID(),
		OwnerID:            d.OwnerID(),
		Kind:               d.Kind().String(),
		Currency:           d.Currency().Code(),
		Status:             d.Status().String(),
		PrincipalInitial:   t.PrincipalInitial,
		RemainingPrincipal: d.RemainingPrincipal(),
		AnnualRate:         t.AnnualRate,
		RateType:           t.RateType.String(),
		Mode:               t.Mode.String(),
		Frequency:          t.Frequency.String(),
		TotalPeriods:       t.TotalPeriods,
		GracePeriods:       t.GracePeriods,
		StartDate:          t.StartDate,
		RestructuredFrom:   d.RestructuredFrom(),
		Version:            d.Version(),
		Schedule:           toLineResponses(lines),
		CreatedAt:          d.CreatedAt(),
		UpdatedAt:          d.UpdatedAt(),
	}
	if next, ok := service.NextInstallment(lines); ok {
		resp.NextInstallment = &dto.InstallmentResponse{
			PeriodIndex: next.PeriodIndex,
			DueDate:     next.DueDate,
			Amount:      next.Amount,
		}
	}
	return resp
}

func toLineResponses(lines []model.ScheduleLine) []dto.ScheduleLineResponse {
	if len(lines) == 0 {
		return nil
	}
	out := make([]dto.ScheduleLineResponse, 0, len(lines))
	for _, l := range model.SortLines(lines) {
		out = append(out, dto.ScheduleLineResponse{
			PeriodIndex:             l.PeriodIndex,
			DueDate:                 l.DueDate,
			PrincipalDue:            l.Due.Principal,
			InterestDue:             l.Due.Interest,
			InsuranceDue:            l.Due.Insurance,
			FeesDue:                 l.Due.Fees,
			PrincipalPaid:           l.Paid.Principal,
			InterestPaid:            l.Paid.Interest,
			InsurancePaid:           l.Paid.Insurance,
			FeesPaid:                l.Paid.Fees,
			TotalDue:                l.TotalDue,
			TotalPaid:               l.TotalPaid,
			RemainingPrincipalAfter: l.RemainingPrincipalAfter,
			RateApplied:             l.RateApplied,
			Status:                  l.Status.String(),
		})
	}
	return out
}

func toPaymentResponse(p model.Payment) dto.PaymentResponse {
	a := p.Allocation()
	return dto.PaymentResponse{
		ID:       p.ID(),
		DebtID:   p.DebtID(),
		Amount:   p.Amount().Amount(),
		Currency: p.Amount().Currency().Code(),
		Allocation: dto.AllocationResponse{
			Fees:      a.Fees,
			Interests: a.Interests,
			Insurance: a.Insurance,
			Principal: a.Principal,
		},
		Unapplied: p.Unapplied(),
		Method:    p.Method().String(),
		Kind:      p.Kind().String(),
		PaidAt:    p.PaidAt(),
	}
}

func toPrepaymentResponse(r service.PrepaymentResult) dto.PrepaymentResponse {
	return dto.PrepaymentResponse{
		PrepaymentApplied: r.PrepaymentApplied,
		Penalty:           r.Penalty,
		NewPrincipal:      r.NewPrincipal,
		NewInstallment:    r.NewInstallment,
		InterestsSaved:    r.InterestsSaved,
		NewDuration:       r.NewDuration,
		Schedule:          toLineResponses(r.Lines),
	}
}

func toScheduleResponse(lines []model.ScheduleLine) dto.ScheduleResponse {
	interest, insurance, fees := decimal.Zero, decimal.Zero, decimal.Zero
	for _, l := range lines {
		interest = interest.Add(l.Due.Interest)
		insurance = insurance.Add(l.Due.Insurance)
		fees = fees.Add(l.Due.Fees)
	}
	return dto.ScheduleResponse{
		Schedule:       toLineResponses(lines),
		TotalInterest:  money.Round2(interest),
		TotalInsurance: money.Round2(insurance),
		TotalFees:      money.Round2(fees),
		TotalCost:      money.Sum(interest, insurance, fees),
	}
}

package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/debt-service/internal/domain/model"
	"github.com/bibbank/debt-service/internal/domain/service"
	"github.com/bibbank/debt-service/internal/domain/valueobject"
)

func linesWithStatus(statuses ...valueobject.LineStatus) []model.ScheduleLine {
	lines := make([]model.ScheduleLine, len(statuses))
	for i, s := range statuses {
		lines[i] = model.ScheduleLine{
			PeriodIndex: i + 1,
			DueDate:     jan15.AddDate(0, i, 0),
			TotalDue:    dec("100"),
			TotalPaid:   dec("0"),
			Status:      s,
		}
	}
	return lines
}

func TestStatus(t *testing.T) {
	paid, due, late, partial := valueobject.LineStatusPaid, valueobject.LineStatusDue, valueobject.LineStatusLate, valueobject.LineStatusPartial

	tests := []struct {
		name      string
		remaining string
		lines     []model.ScheduleLine
		want      valueobject.DebtStatus
	}{
		{"settled", "0", linesWithStatus(paid, paid), valueobject.DebtStatusSettled},
		{"principal repaid but insurance open", "0", linesWithStatus(paid, due), valueobject.DebtStatusCurrent},
		{"within epsilon counts as repaid", "0.01", linesWithStatus(paid), valueobject.DebtStatusSettled},
		{"late line", "500", linesWithStatus(paid, late, due), valueobject.DebtStatusLate},
		{"current", "500", linesWithStatus(paid, partial, due), valueobject.DebtStatusCurrent},
		{"late line after principal repaid", "0", linesWithStatus(paid, late), valueobject.DebtStatusCurrent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.Status(dec(tt.remaining), tt.lines)
			assert.True(t, got.Equal(tt.want), "want %s, got %s", tt.want, got)
		})
	}
}

func TestNextInstallment(t *testing.T) {
	lines := linesWithStatus(valueobject.LineStatusPaid, valueobject.LineStatusPartial, valueobject.LineStatusDue)
	lines[1].TotalPaid = dec("40")

	next, ok := service.NextInstallment(lines)
	require.True(t, ok)
	assert.Equal(t, 2, next.PeriodIndex)
	assert.Equal(t, lines[1].DueDate, next.DueDate)
	assertMoney(t, "60.00", next.Amount)

	_, ok = service.NextInstallment(linesWithStatus(valueobject.LineStatusPaid))
	assert.False(t, ok)
	_, ok = service.NextInstallment(nil)
	assert.False(t, ok)
}

package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/bibbank/debt-service/internal/infrastructure/metrics"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.ObserveOperation("record_payment", nil, 10*time.Millisecond)
	m.ObserveOperation("record_payment", errors.New("boom"), time.Millisecond)
	m.AddPayment("INSTALLMENT", "EUR", 1066.19)
	m.AddScheduleLines("prepayment", 4)
	m.AddLinesMarkedLate(2)
	m.ObserveGRPC("/debt.v1.DebtService/GetDebt", "OK", time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("record_payment", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("record_payment", "error")))
	assert.InDelta(t, 1066.19, testutil.ToFloat64(m.PaymentsAmount.WithLabelValues("INSTALLMENT", "EUR")), 1e-9)
	assert.Equal(t, 4.0, testutil.ToFloat64(m.ScheduleLines.WithLabelValues("prepayment")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.LinesMarkedLate))
	assert.Equal(t, 1, testutil.CollectAndCount(m.GRPCDuration))
}

func TestMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.New(reg)
	assert.Panics(t, func() { metrics.New(reg) })
}

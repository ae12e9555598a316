package testutil

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// AssertDecimal checks that got equals the decimal parsed from want, at
// cent precision.
func AssertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Equal(t, decimal.RequireFromString(want).StringFixed(2), got.StringFixed(2), msgAndArgs...)
}

package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Fixed identifiers for deterministic testing.
var (
	TestOwnerID1 = uuid.MustParse("00000000-0000-0000-0000-000000000001").String()
	TestOwnerID2 = uuid.MustParse("00000000-0000-0000-0000-000000000002").String()
	TestDebtID   = uuid.MustParse("00000000-0000-0000-0000-000000000020").String()
)

// TestStart is the start date used by schedule fixtures.
var TestStart = time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)

// Dec parses a decimal literal and panics on malformed input.
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// SequentialIDs returns a generator of deterministic UUID strings.
func SequentialIDs() func() string {
	var n uint64
	return func() string {
		n++
		var b [16]byte
		for i := 0; i < 8; i++ {
			b[15-i] = byte(n >> (8 * i))
		}
		b[6] = 0x40 | (b[6] & 0x0f)
		b[8] = 0x80 | (b[8] & 0x3f)
		return uuid.UUID(b).String()
	}
}

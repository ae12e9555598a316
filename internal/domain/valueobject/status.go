package valueobject

import (
	"errors"
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// DebtStatus – immutable value object
// ---------------------------------------------------------------------------

// DebtStatus represents the lifecycle stage of a debt.
type DebtStatus struct {
	value string
}

const (
	debtStatusCurrent      = "EN_COURS"
	debtStatusLate         = "EN_RETARD"
	debtStatusRestructured = "RESTRUCTUREE"
	debtStatusSettled      = "SOLDEE"
)

var (
	DebtStatusCurrent      = DebtStatus{value: debtStatusCurrent}
	DebtStatusLate         = DebtStatus{value: debtStatusLate}
	DebtStatusRestructured = DebtStatus{value: debtStatusRestructured}
	DebtStatusSettled      = DebtStatus{value: debtStatusSettled}
)

var validDebtStatuses = map[string]DebtStatus{
	debtStatusCurrent:      DebtStatusCurrent,
	debtStatusLate:         DebtStatusLate,
	debtStatusRestructured: DebtStatusRestructured,
	debtStatusSettled:      DebtStatusSettled,
}

// NewDebtStatus creates a DebtStatus from a raw string.
func NewDebtStatus(s string) (DebtStatus, error) {
	v, ok := validDebtStatuses[s]
	if !ok {
		return DebtStatus{}, fmt.Errorf("invalid debt status: %q", s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s DebtStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s DebtStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s DebtStatus) Equal(other DebtStatus) bool { return s.value == other.value }

// IsTerminal reports whether no further transition may leave this status.
func (s DebtStatus) IsTerminal() bool { return s.value == debtStatusRestructured }

// ---------------------------------------------------------------------------
// LineStatus – immutable value object
// ---------------------------------------------------------------------------

// LineStatus represents the state of one schedule line.
type LineStatus struct {
	value string
}

const (
	lineStatusDue     = "A_ECHOIR"
	lineStatusPartial = "PARTIEL"
	lineStatusPaid    = "PAYEE"
	lineStatusLate    = "EN_RETARD"
)

var (
	LineStatusDue     = LineStatus{value: lineStatusDue}
	LineStatusPartial = LineStatus{value: lineStatusPartial}
	LineStatusPaid    = LineStatus{value: lineStatusPaid}
	LineStatusLate    = LineStatus{value: lineStatusLate}
)

var validLineStatuses = map[string]LineStatus{
	lineStatusDue:     LineStatusDue,
	lineStatusPartial: LineStatusPartial,
	lineStatusPaid:    LineStatusPaid,
	lineStatusLate:    LineStatusLate,
	// Legacy spellings written by older schedule writers and seed scripts.
	"A_VENIR": LineStatusDue,
}

// NewLineStatus creates a LineStatus from a raw string. Matching is case
// insensitive so that historical rows such as "A_ECHoir" still load.
func NewLineStatus(s string) (LineStatus, error) {
	v, ok := validLineStatuses[strings.ToUpper(s)]
	if !ok {
		return LineStatus{}, fmt.Errorf("invalid schedule line status: %q", s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s LineStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s LineStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s LineStatus) Equal(other LineStatus) bool { return s.value == other.value }

// IsPaid reports whether the line is fully settled.
func (s LineStatus) IsPaid() bool { return s.value == lineStatusPaid }

// ---------------------------------------------------------------------------
// Sentinel errors
// ---------------------------------------------------------------------------

var (
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrUnsupportedFrequency    = errors.New("unsupported frequency")
)

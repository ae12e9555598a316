package model

import (
	"errors"

	"github.com/bibbank/debt-service/internal/domain/valueobject"
)

// Sentinel errors. Callers match them with errors.Is; every layer wraps
// them with context.
var (
	ErrValidation             = errors.New("validation error")
	ErrUnsupportedFrequency   = valueobject.ErrUnsupportedFrequency
	ErrAlreadySettled         = errors.New("debt already settled")
	ErrNoOpenInstallments     = errors.New("no open installments")
	ErrScheduleNotFound       = errors.New("schedule not found")
	ErrDebtNotFound           = errors.New("debt not found")
	ErrConcurrentModification = errors.New("concurrent modification")
	ErrInvalidTransition      = valueobject.ErrInvalidStatusTransition
)

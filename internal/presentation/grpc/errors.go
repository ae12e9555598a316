package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/debt-service/internal/domain/model"
	"github.com/bibbank/debt-service/internal/infrastructure/lock"
)

// toStatus maps domain errors onto gRPC codes. Unknown errors become
// Internal without leaking their text.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var code codes.Code
	switch {
	case errors.Is(err, model.ErrValidation), errors.Is(err, model.ErrUnsupportedFrequency):
		code = codes.InvalidArgument
	case errors.Is(err, model.ErrDebtNotFound), errors.Is(err, model.ErrScheduleNotFound):
		code = codes.NotFound
	case errors.Is(err, model.ErrAlreadySettled),
		errors.Is(err, model.ErrNoOpenInstallments),
		errors.Is(err, model.ErrInvalidTransition):
		code = codes.FailedPrecondition
	case errors.Is(err, model.ErrConcurrentModification), errors.Is(err, lock.ErrLockTimeout):
		code = codes.Aborted
	case errors.Is(err, context.DeadlineExceeded):
		code = codes.DeadlineExceeded
	case errors.Is(err, context.Canceled):
		code = codes.Canceled
	default:
		return status.Error(codes.Internal, "internal error")
	}
	return status.Error(code, err.Error())
}

package grpc

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/debt-service/internal/domain/model"
	"github.com/bibbank/debt-service/internal/infrastructure/lock"
)

func TestToStatus(t *testing.T) {
	tests := []struct {
		err  error
		code codes.Code
	}{
		{fmt.Errorf("create: %w", model.ErrValidation), codes.InvalidArgument},
		{model.ErrUnsupportedFrequency, codes.InvalidArgument},
		{fmt.Errorf("find debt: %w", model.ErrDebtNotFound), codes.NotFound},
		{model.ErrScheduleNotFound, codes.NotFound},
		{model.ErrAlreadySettled, codes.FailedPrecondition},
		{model.ErrNoOpenInstallments, codes.FailedPrecondition},
		{model.ErrInvalidTransition, codes.FailedPrecondition},
		{fmt.Errorf("commit changes: %w", model.ErrConcurrentModification), codes.Aborted},
		{fmt.Errorf("lock debt d: %w", lock.ErrLockTimeout), codes.Aborted},
		{context.DeadlineExceeded, codes.DeadlineExceeded},
		{context.Canceled, codes.Canceled},
		{status.Error(codes.Unavailable, "down"), codes.Unavailable},
		{errors.New("pq: connection reset"), codes.Internal},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.code, status.Code(toStatus(tt.err)))
		})
	}

	assert.NoError(t, toStatus(nil))
	st, _ := status.FromError(toStatus(errors.New("secret dsn")))
	assert.NotContains(t, st.Message(), "secret")
}

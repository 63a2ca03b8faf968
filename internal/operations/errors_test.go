package operations_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecomcli/internal/operations"
)

func TestOperationErrorMessages(t *testing.T) {
	cause := errors.New("disk full")

	tests := []struct {
		name     string
		err      *operations.OperationError
		wantType operations.ErrorType
		wantMsg  string
	}{
		{
			name:     "validation",
			err:      operations.NewValidationError("rfm", "cleaned dataset not available"),
			wantType: operations.ErrorTypeValidation,
			wantMsg:  "[validation] rfm: cleaned dataset not available",
		},
		{
			name:     "dependency",
			err:      operations.NewDependencyError("rfm", "cleaning", "dependency cleaning not completed"),
			wantType: operations.ErrorTypeDependency,
			wantMsg:  "[dependency] rfm: dependency cleaning not completed",
		},
		{
			name:     "execution with cause",
			err:      operations.NewExecutionError("cleaning", cause),
			wantType: operations.ErrorTypeExecution,
			wantMsg:  "[execution] cleaning: step execution failed: disk full",
		},
		{
			name:     "timeout",
			err:      operations.NewTimeoutError("rfm", "1s"),
			wantType: operations.ErrorTypeTimeout,
			wantMsg:  "[timeout] rfm: step exceeded timeout of 1s",
		},
		{
			name:     "cancellation without step",
			err:      operations.NewCancellationError("", context.Canceled),
			wantType: operations.ErrorTypeCancellation,
			wantMsg:  "[cancellation] operation was cancelled: context canceled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantMsg, tt.err.Error())
			assert.Equal(t, tt.wantType, operations.GetErrorType(tt.err))
		})
	}

	assert.Equal(t, "cleaning", operations.NewDependencyError("rfm", "cleaning", "x").Context["depends_on"])
}

func TestOperationErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := fmt.Errorf("outer: %w", operations.NewExecutionError("monthly_sales", cause))

	assert.ErrorIs(t, err, cause)

	var opErr *operations.OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "monthly_sales", opErr.Step)
	assert.Equal(t, operations.ErrorTypeExecution, operations.GetErrorType(err))

	var nilErr *operations.OperationError
	assert.Equal(t, "unknown operation error", nilErr.Error())
	assert.NoError(t, nilErr.Unwrap())
}

func TestGetErrorType(t *testing.T) {
	assert.Equal(t, operations.ErrorType(""), operations.GetErrorType(nil))
	assert.Equal(t, operations.ErrorTypeExecution, operations.GetErrorType(errors.New("plain")))
}

func TestWrapError(t *testing.T) {
	assert.Nil(t, operations.WrapError(nil, "s", "msg"))

	plain := operations.WrapError(errors.New("io"), "cleaning", "step execution failed")
	assert.Equal(t, operations.ErrorTypeExecution, plain.Type)
	assert.Equal(t, "cleaning", plain.Step)
	assert.EqualError(t, plain, "[execution] cleaning: step execution failed: io")

	typed := operations.WrapError(operations.NewValidationError("", "bad input"), "rfm", "")
	assert.Equal(t, operations.ErrorTypeValidation, typed.Type, "type is kept")
	assert.Equal(t, "rfm", typed.Step)
}

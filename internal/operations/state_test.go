package operations_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecomcli/internal/operations"
	"ecomcli/internal/operations/testutil"
	sharedtestutil "ecomcli/internal/shared/testutil"
	"ecomcli/pkg/contracts/domain"
)

func TestStepStateLifecycle(t *testing.T) {
	s := operations.NewStepState("rfm", "RFM scores")
	assert.Equal(t, operations.StepStatusPending, s.GetStatus())
	assert.Zero(t, s.Duration())

	s.Start()
	assert.Equal(t, operations.StepStatusActive, s.GetStatus())
	require.NotNil(t, s.StartTime)

	s.SetRows(42)
	s.SetMetadata("tiles", 3)
	s.Complete()
	assert.Equal(t, operations.StepStatusCompleted, s.GetStatus())
	assert.Equal(t, 42, s.GetRows())
	assert.Equal(t, 3, s.Metadata["tiles"])
	require.NotNil(t, s.EndTime)
	assert.GreaterOrEqual(t, s.Duration().Nanoseconds(), int64(0))
}

func TestStepStateFailAndSkip(t *testing.T) {
	failed := operations.NewStepState("a", "A")
	failed.Start()
	failed.Fail(errors.New("boom"))
	assert.Equal(t, operations.StepStatusFailed, failed.GetStatus())
	assert.Equal(t, "boom", failed.Message)

	skipped := operations.NewStepState("b", "B")
	skipped.Skip("dependency a failed")
	assert.Equal(t, operations.StepStatusSkipped, skipped.GetStatus())
	assert.Equal(t, "dependency a failed", skipped.Message)
}

func TestOperationStateLifecycle(t *testing.T) {
	dataset := testutil.CreateTestDataset(sharedtestutil.SampleRawRecords()...)
	state := operations.NewOperationState("run-1", dataset)

	assert.Equal(t, operations.OperationStatusPending, state.GetStatus())
	assert.Same(t, dataset, state.Dataset())
	assert.Len(t, state.RawRecords(), 9)

	_, ok := state.Cleaned()
	assert.False(t, ok, "nothing cleaned yet")

	state.Start()
	assert.Equal(t, operations.OperationStatusRunning, state.GetStatus())

	state.Complete()
	assert.Equal(t, operations.OperationStatusCompleted, state.GetStatus())
	require.NotNil(t, state.EndTime)

	results := state.Results()
	assert.Equal(t, "run-1", results.RunID)
	assert.Equal(t, "test", results.Source)
	assert.False(t, results.GeneratedAt.IsZero())
}

func TestOperationStateFailAndCancel(t *testing.T) {
	failed := operations.NewOperationState("f", nil)
	failed.Fail(errors.New("bad"))
	assert.Equal(t, operations.OperationStatusFailed, failed.GetStatus())
	assert.EqualError(t, failed.Error, "bad")
	assert.Nil(t, failed.RawRecords())

	cancelled := operations.NewOperationState("c", nil)
	cancelled.Cancel(errors.New("stop"))
	assert.Equal(t, operations.OperationStatusCancelled, cancelled.GetStatus())
}

func TestOperationStateResultsAreCopies(t *testing.T) {
	state := operations.NewOperationState("r", nil)
	state.UpdateResults(func(r *domain.AnalyticsResults) {
		r.MonthlySales = []domain.MonthlySales{{Invoices: 1}}
	})

	snapshot := state.Results()
	snapshot.MonthlySales = nil
	assert.Len(t, state.Results().MonthlySales, 1)
}

func TestOperationStateConcurrentUpdates(t *testing.T) {
	state := operations.NewOperationState("p", nil)
	state.SetCleaned([]domain.CleanedRecord{})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			state.UpdateResults(func(r *domain.AnalyticsResults) {
				r.TopProducts = append(r.TopProducts, domain.ProductRevenue{Quantity: 1})
			})
			_, _ = state.Cleaned()
		}()
	}
	wg.Wait()

	assert.Len(t, state.Results().TopProducts, 50)
}

func TestOperationStateStageQueries(t *testing.T) {
	state := operations.NewOperationState("q", nil)
	done := operations.NewStepState("a", "A")
	done.Complete()
	failed := operations.NewStepState("b", "B")
	failed.Fail(errors.New("x"))
	state.SetStage("a", done)
	state.SetStage("b", failed)

	assert.Same(t, done, state.GetStage("a"))
	assert.Len(t, state.GetCompletedStages(), 1)
	assert.Len(t, state.GetFailedStages(), 1)
	assert.True(t, state.HasFailures())
	assert.True(t, state.IsComplete())

	state.SetStage("c", operations.NewStepState("c", "C"))
	assert.False(t, state.IsComplete())
}

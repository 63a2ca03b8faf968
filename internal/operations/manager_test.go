package operations_test

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecomcli/internal/analytics"
	apperrors "ecomcli/internal/errors"
	"ecomcli/internal/operations"
	"ecomcli/internal/operations/testutil"
	sharedtestutil "ecomcli/internal/shared/testutil"
	"ecomcli/pkg/contracts/domain"
)

func newPipelineManager(t *testing.T, mode operations.ExecutionMode) (*operations.Manager, *sharedtestutil.BufferedSlogHandler) {
	t.Helper()
	logger, handler := sharedtestutil.NewTestLogger(t)

	registry, err := operations.NewPipelineRegistry(logger, domain.DefaultCancellationMarker, analytics.DefaultOptions(), nil)
	require.NoError(t, err)

	cfg := operations.NewConfigBuilder().
		WithExecutionMode(mode).
		WithMaxConcurrency(4).
		Build()
	return operations.NewManager(registry, cfg, nil, logger), handler
}

func sampleDataset() *domain.Dataset {
	return testutil.CreateTestDataset(sharedtestutil.SampleRawRecords()...)
}

func TestManagerDefaults(t *testing.T) {
	manager := operations.NewManager(nil, nil, nil, nil)
	assert.NotNil(t, manager.GetRegistry())
	assert.Equal(t, operations.ExecutionModeSequential, manager.GetConfig().ExecutionMode)

	require.NoError(t, manager.RegisterStage(testutil.CreateSuccessfulStage("a", "A")))
	assert.True(t, manager.GetRegistry().Has("a"))
}

func TestManagerExecutePipeline(t *testing.T) {
	manager, handler := newPipelineManager(t, operations.ExecutionModeSequential)

	resp, err := manager.Execute(context.Background(), operations.OperationRequest{Dataset: sampleDataset()})
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Equal(t, operations.OperationStatusCompleted, resp.Status)
	assert.NotEmpty(t, resp.ID, "a run id is generated")
	assert.Len(t, resp.Steps, len(domain.AllReports()))
	for id, s := range resp.Steps {
		assert.Equal(t, operations.StepStatusCompleted, s.GetStatus(), id)
	}

	results := resp.Results
	require.NotNil(t, results)
	assert.Equal(t, resp.ID, results.RunID)
	require.NotNil(t, results.Exploration)
	assert.Equal(t, 9, results.Exploration.RowCount)
	require.NotNil(t, results.Cleaning)
	assert.Equal(t, 5, results.Cleaning.KeptRows)
	assert.Len(t, results.CustomerSummary, 2)
	assert.NotEmpty(t, results.MonthlySales)
	assert.NotNil(t, results.ProductPareto)

	assert.Equal(t, 5, resp.Steps[operations.StageIDCleaning].GetRows())
	sharedtestutil.AssertLogContains(t, handler, slog.LevelInfo, "operation_complete")
	sharedtestutil.AssertLogAttr(t, handler, "operation_id", resp.ID)
}

func TestManagerSequentialAndParallelAgree(t *testing.T) {
	records := sharedtestutil.SampleRawRecords()
	for i := 0; i < 20; i++ {
		records = append(records, sharedtestutil.Raw(
			"5400"+string(rune('0'+i%10)), "SKU"+string(rune('A'+i)), "1300"+string(rune('0'+i%4)),
			sharedtestutil.At(2011, time.Month(1+i%6), 1+i, 10, 0), 1+i, 1.5,
		))
	}
	dataset := testutil.CreateTestDataset(records...)

	seq, _ := newPipelineManager(t, operations.ExecutionModeSequential)
	par, _ := newPipelineManager(t, operations.ExecutionModeParallel)

	seqResp, err := seq.Execute(context.Background(), operations.OperationRequest{ID: "same", Dataset: dataset})
	require.NoError(t, err)
	parResp, err := par.Execute(context.Background(), operations.OperationRequest{ID: "same", Dataset: dataset})
	require.NoError(t, err)

	a, b := *seqResp.Results, *parResp.Results
	a.GeneratedAt, b.GeneratedAt = time.Time{}, time.Time{}
	assert.Equal(t, a, b)
}

func TestManagerSelectedReports(t *testing.T) {
	manager, _ := newPipelineManager(t, operations.ExecutionModeParallel)

	resp, err := manager.Execute(context.Background(), operations.OperationRequest{
		Dataset: sampleDataset(),
		Reports: []string{domain.ReportRFM},
	})
	require.NoError(t, err)

	assert.Len(t, resp.Steps, 3, "exploration, cleaning and rfm")
	assert.NotEmpty(t, resp.Results.RFM)
	assert.NotNil(t, resp.Results.Exploration)
	assert.Nil(t, resp.Results.MonthlySales, "unrequested tables stay nil")
	assert.Nil(t, resp.Results.ProductPareto)
}

func TestManagerEmptyDataset(t *testing.T) {
	manager, _ := newPipelineManager(t, operations.ExecutionModeSequential)

	resp, err := manager.Execute(context.Background(), operations.OperationRequest{Dataset: testutil.CreateTestDataset()})
	require.NoError(t, err)

	assert.Equal(t, domain.ExplorationReport{NullCounts: resp.Results.Exploration.NullCounts}, *resp.Results.Exploration)
	assert.Empty(t, resp.Results.CustomerSummary)
	assert.Empty(t, resp.Results.CustomerPareto)
}

func TestManagerRequestErrors(t *testing.T) {
	manager, _ := newPipelineManager(t, operations.ExecutionModeSequential)

	t.Run("missing dataset", func(t *testing.T) {
		resp, err := manager.Execute(context.Background(), operations.OperationRequest{})
		assert.ErrorIs(t, err, operations.ErrMissingDataset)
		assert.Equal(t, operations.OperationStatusFailed, resp.Status)
		assert.Nil(t, resp.Results)
	})

	t.Run("unknown report", func(t *testing.T) {
		resp, err := manager.Execute(context.Background(), operations.OperationRequest{
			Dataset: sampleDataset(),
			Reports: []string{"weekly_sales"},
		})
		assert.ErrorIs(t, err, apperrors.ErrUnknownReport)
		assert.Equal(t, operations.ErrorTypeValidation, operations.GetErrorType(err))
		assert.Equal(t, operations.OperationStatusFailed, resp.Status)
	})
}

func TestManagerStepFailureFailsRun(t *testing.T) {
	for _, mode := range []operations.ExecutionMode{operations.ExecutionModeSequential, operations.ExecutionModeParallel} {
		t.Run(string(mode), func(t *testing.T) {
			boom := errors.New("boom")
			after := testutil.CreateSuccessfulStage("after", "After", "bad")
			sibling := testutil.CreateSuccessfulStage("sibling", "Sibling", "root")

			manager := operations.NewManager(nil, operations.NewConfigBuilder().WithExecutionMode(mode).Build(), nil, nil)
			require.NoError(t, manager.RegisterStage(testutil.CreateSuccessfulStage("root", "Root")))
			require.NoError(t, manager.RegisterStage(testutil.CreateFailingStage("bad", "Bad", boom, "root")))
			require.NoError(t, manager.RegisterStage(sibling))
			require.NoError(t, manager.RegisterStage(after))

			resp, err := manager.Execute(context.Background(), operations.OperationRequest{Dataset: sampleDataset()})
			require.Error(t, err)
			assert.ErrorIs(t, err, boom)
			assert.Equal(t, operations.ErrorTypeExecution, operations.GetErrorType(err))

			assert.Equal(t, operations.OperationStatusFailed, resp.Status)
			assert.Nil(t, resp.Results)
			assert.Equal(t, operations.StepStatusCompleted, resp.Steps["root"].GetStatus())
			assert.Equal(t, operations.StepStatusFailed, resp.Steps["bad"].GetStatus())
			assert.Equal(t, operations.StepStatusSkipped, resp.Steps["after"].GetStatus())
			assert.Zero(t, after.GetExecuteCalls())
		})
	}
}

func TestManagerValidationFailure(t *testing.T) {
	manager := operations.NewManager(nil, nil, nil, nil)
	require.NoError(t, manager.RegisterStage(testutil.CreateValidationFailingStage("v", "V", errors.New("input missing"))))

	resp, err := manager.Execute(context.Background(), operations.OperationRequest{Dataset: sampleDataset()})
	require.Error(t, err)
	assert.Equal(t, operations.ErrorTypeValidation, operations.GetErrorType(err))
	assert.Equal(t, operations.StepStatusFailed, resp.Steps["v"].GetStatus())
}

func TestManagerStageTimeout(t *testing.T) {
	cfg := operations.NewConfigBuilder().WithStageTimeout("slow", 10*time.Millisecond).Build()
	manager := operations.NewManager(nil, cfg, nil, nil)
	require.NoError(t, manager.RegisterStage(testutil.CreateSlowStage("slow", "Slow", time.Minute)))

	_, err := manager.Execute(context.Background(), operations.OperationRequest{Dataset: sampleDataset()})
	require.Error(t, err)
	assert.Equal(t, operations.ErrorTypeTimeout, operations.GetErrorType(err))
}

func TestManagerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	manager, _ := newPipelineManager(t, operations.ExecutionModeSequential)
	resp, err := manager.Execute(ctx, operations.OperationRequest{Dataset: sampleDataset()})
	require.Error(t, err)
	assert.Equal(t, operations.ErrorTypeCancellation, operations.GetErrorType(err))
	assert.Equal(t, operations.OperationStatusCancelled, resp.Status)
	for id, s := range resp.Steps {
		assert.Equal(t, operations.StepStatusSkipped, s.GetStatus(), id)
	}
}

func TestManagerParallelRespectsConcurrencyLimit(t *testing.T) {
	var running, peak int32
	track := func(ctx context.Context, _ *operations.OperationState) error {
		n := atomic.AddInt32(&running, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&running, -1)
		return nil
	}

	cfg := operations.NewConfigBuilder().
		WithExecutionMode(operations.ExecutionModeParallel).
		WithMaxConcurrency(2).
		Build()
	manager := operations.NewManager(nil, cfg, nil, nil)
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		require.NoError(t, manager.RegisterStage(testutil.NewStageBuilder(id, id).WithExecute(track).Build()))
	}

	_, err := manager.Execute(context.Background(), operations.OperationRequest{Dataset: sampleDataset()})
	require.NoError(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
	assert.GreaterOrEqual(t, atomic.LoadInt32(&peak), int32(1))
}

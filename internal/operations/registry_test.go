package operations_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecomcli/internal/operations"
	"ecomcli/internal/operations/testutil"
)

func stepIDs(steps []operations.Step) []string {
	ids := make([]string, len(steps))
	for i, s := range steps {
		ids[i] = s.ID()
	}
	return ids
}

func levelIDs(levels [][]operations.Step) [][]string {
	out := make([][]string, len(levels))
	for i, level := range levels {
		out[i] = stepIDs(level)
	}
	return out
}

func TestRegistryRegister(t *testing.T) {
	registry := operations.NewRegistry()
	assert.Equal(t, 0, registry.Count())
	assert.NotNil(t, registry.List(), "List returns an empty slice, not nil")

	stage1 := testutil.CreateSuccessfulStage("stage1", "Step 1")
	require.NoError(t, registry.Register(stage1))
	require.NoError(t, registry.Register(testutil.CreateSuccessfulStage("stage2", "Step 2")))
	require.NoError(t, registry.Register(testutil.CreateSuccessfulStage("stage3", "Step 3")))

	assert.Equal(t, 3, registry.Count())
	assert.True(t, registry.Has("stage2"))
	assert.False(t, registry.Has("missing"))
	assert.Equal(t, []string{"stage1", "stage2", "stage3"}, registry.ListIDs())

	got, err := registry.Get("stage1")
	require.NoError(t, err)
	assert.Same(t, stage1, got)

	_, err = registry.Get("missing")
	assert.ErrorContains(t, err, "not found")
}

func TestRegistryRegisterErrors(t *testing.T) {
	registry := operations.NewRegistry()

	assert.ErrorContains(t, registry.Register(nil), "nil Step")
	assert.ErrorContains(t, registry.Register(&testutil.MockStage{NameValue: "no id"}), "ID cannot be empty")

	dup := testutil.CreateSuccessfulStage("dup", "Duplicate")
	require.NoError(t, registry.Register(dup))
	assert.ErrorContains(t, registry.Register(dup), "already registered")
}

func TestRegistryDependencyOrder(t *testing.T) {
	registry := operations.NewRegistry()
	require.NoError(t, registry.Register(testutil.CreateSuccessfulStage("report", "Report", "clean")))
	require.NoError(t, registry.Register(testutil.CreateSuccessfulStage("explore", "Explore")))
	require.NoError(t, registry.Register(testutil.CreateSuccessfulStage("summary", "Summary", "clean")))
	require.NoError(t, registry.Register(testutil.CreateSuccessfulStage("clean", "Clean", "explore")))

	order, err := registry.GetDependencyOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"explore", "clean", "report", "summary"}, stepIDs(order))
	assert.NoError(t, registry.ValidateDependencies())

	assert.Equal(t, []string{"report", "summary"}, stepIDs(registry.GetDependents("clean")))
	assert.Empty(t, registry.GetDependents("summary"))
}

func TestRegistryResolve(t *testing.T) {
	registry := operations.NewRegistry()
	for _, s := range []*testutil.MockStage{
		testutil.CreateSuccessfulStage("explore", "Explore"),
		testutil.CreateSuccessfulStage("clean", "Clean", "explore"),
		testutil.CreateSuccessfulStage("monthly", "Monthly", "clean"),
		testutil.CreateSuccessfulStage("rfm", "RFM", "clean"),
		testutil.CreateSuccessfulStage("pareto", "Pareto", "clean"),
	} {
		require.NoError(t, registry.Register(s))
	}

	tests := []struct {
		name string
		ids  []string
		want [][]string
	}{
		{
			name: "all steps",
			want: [][]string{{"explore"}, {"clean"}, {"monthly", "rfm", "pareto"}},
		},
		{
			name: "single report pulls its dependencies",
			ids:  []string{"rfm"},
			want: [][]string{{"explore"}, {"clean"}, {"rfm"}},
		},
		{
			name: "selection keeps registration order",
			ids:  []string{"pareto", "monthly"},
			want: [][]string{{"explore"}, {"clean"}, {"monthly", "pareto"}},
		},
		{
			name: "root only",
			ids:  []string{"explore"},
			want: [][]string{{"explore"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			levels, err := registry.Resolve(tt.ids)
			require.NoError(t, err)
			assert.Equal(t, tt.want, levelIDs(levels))
		})
	}

	_, err := registry.Resolve([]string{"unknown"})
	require.Error(t, err)
	assert.Equal(t, operations.ErrorTypeDependency, operations.GetErrorType(err))
}

func TestRegistryCycleAndMissingDependency(t *testing.T) {
	t.Run("cycle", func(t *testing.T) {
		registry := operations.NewRegistry()
		require.NoError(t, registry.Register(testutil.CreateSuccessfulStage("a", "A", "b")))
		require.NoError(t, registry.Register(testutil.CreateSuccessfulStage("b", "B", "a")))

		err := registry.ValidateDependencies()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "circular dependency")
	})

	t.Run("missing dependency", func(t *testing.T) {
		registry := operations.NewRegistry()
		require.NoError(t, registry.Register(testutil.CreateSuccessfulStage("a", "A", "ghost")))

		_, err := registry.GetDependencyOrder()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ghost")
	})
}

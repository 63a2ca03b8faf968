package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecomcli/internal/shared/testutil"
	"ecomcli/pkg/contracts/domain"
)

func cohortFixture() []domain.CleanedRecord {
	return []domain.CleanedRecord{
		testutil.Line("1", "A", "A", testutil.At(2010, 12, 5, 10, 0), 10),
		testutil.Line("2", "A", "A", testutil.At(2011, 1, 9, 10, 0), 10),
		testutil.Line("3", "A", "B", testutil.At(2010, 12, 20, 10, 0), 10),
		testutil.Line("4", "A", "B", testutil.At(2011, 2, 1, 10, 0), 10),
		testutil.Line("5", "A", "B", testutil.At(2011, 2, 2, 10, 0), 10),
		testutil.Line("6", "A", "C", testutil.At(2011, 1, 31, 23, 59), 10),
	}
}

func TestCohortRetention(t *testing.T) {
	dec := testutil.Day(2010, 12, 1)
	jan := testutil.Day(2011, 1, 1)

	cohorts := CohortRetention(cohortFixture())
	require.Len(t, cohorts, 4)

	assert.Equal(t, domain.CohortRecord{
		CohortMonth: dec, MonthOffset: 0, Customers: 2, BaseCustomers: 2, RetentionRate: domain.DefinedRatio(100),
	}, cohorts[0])
	assert.Equal(t, domain.CohortRecord{
		CohortMonth: dec, MonthOffset: 1, Customers: 1, BaseCustomers: 2, RetentionRate: domain.DefinedRatio(50),
	}, cohorts[1])
	assert.Equal(t, domain.CohortRecord{
		CohortMonth: dec, MonthOffset: 2, Customers: 1, BaseCustomers: 2, RetentionRate: domain.DefinedRatio(50),
	}, cohorts[2])
	assert.Equal(t, domain.CohortRecord{
		CohortMonth: jan, MonthOffset: 0, Customers: 1, BaseCustomers: 1, RetentionRate: domain.DefinedRatio(100),
	}, cohorts[3])
}

func TestCohortRetention_OffsetZeroIsFull(t *testing.T) {
	for _, c := range CohortRetention(generatedRecords(400)) {
		if c.MonthOffset == 0 {
			assert.Equal(t, 100.0, c.RetentionRate.Value, "cohort %s", c.CohortMonth)
			assert.Equal(t, c.BaseCustomers, c.Customers)
		}
		assert.GreaterOrEqual(t, c.MonthOffset, 0)
	}
}

func TestCohortPivot(t *testing.T) {
	pivot := CohortPivot(cohortFixture(), 5)
	require.Len(t, pivot, 2)

	rates := func(row domain.CohortPivotRow) []float64 {
		out := make([]float64, len(row.Retention))
		for i, r := range row.Retention {
			require.True(t, r.Valid)
			out[i] = r.Value
		}
		return out
	}

	assert.Equal(t, testutil.Day(2010, 12, 1), pivot[0].CohortMonth)
	assert.Equal(t, 2, pivot[0].BaseCustomers)
	assert.Equal(t, []float64{100, 50, 50, 0, 0}, rates(pivot[0]))
	assert.Equal(t, []float64{100, 0, 0, 0, 0}, rates(pivot[1]))
}

func TestPivotCohorts_DropsLaterOffsets(t *testing.T) {
	pivot := PivotCohorts(CohortRetention(cohortFixture()), 2)
	require.Len(t, pivot, 2)
	assert.Len(t, pivot[0].Retention, 2)
	assert.Equal(t, 50.0, pivot[0].Retention[1].Value)

	assert.Empty(t, PivotCohorts(nil, 5))
	assert.Empty(t, PivotCohorts(CohortRetention(cohortFixture()), 0))
}

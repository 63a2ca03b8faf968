package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecomcli/internal/shared/testutil"
	"ecomcli/pkg/contracts/domain"
)

func TestCustomerPareto(t *testing.T) {
	at := testutil.At(2011, 6, 1, 12, 0)
	records := []domain.CleanedRecord{
		testutil.Line("1", "A", "A", at, 100),
		testutil.Line("2", "A", "B", at, 300),
		testutil.Line("3", "A", "C", at, 250),
		testutil.Line("4", "A", "C", at, 350),
	}

	pareto := CustomerPareto(records)
	require.Len(t, pareto, 3)

	assert.Equal(t, domain.ParetoRecord{
		Rank: 1, CustomerID: "C", Revenue: 600, CumulativeRevenue: 600, CumulativeShare: domain.DefinedRatio(60),
	}, pareto[0])
	assert.Equal(t, "B", pareto[1].CustomerID)
	assert.Equal(t, 90.0, pareto[1].CumulativeShare.Value)
	assert.Equal(t, "A", pareto[2].CustomerID)
	assert.Equal(t, 1000.0, pareto[2].CumulativeRevenue)
	assert.Equal(t, 100.0, pareto[2].CumulativeShare.Value)
}

func TestCustomerPareto_TiesByCustomerID(t *testing.T) {
	at := testutil.At(2011, 6, 1, 12, 0)
	records := []domain.CleanedRecord{
		testutil.Line("1", "A", "Z", at, 10),
		testutil.Line("2", "A", "M", at, 10),
		testutil.Line("3", "A", "A", at, 10),
	}

	pareto := CustomerPareto(records)
	ids := []string{pareto[0].CustomerID, pareto[1].CustomerID, pareto[2].CustomerID}
	assert.Equal(t, []string{"A", "M", "Z"}, ids)
}

func TestProductPareto(t *testing.T) {
	at := testutil.At(2011, 6, 1, 12, 0)
	var records []domain.CleanedRecord
	for i, rev := range []float64{50, 40, 30, 20, 10, 5, 5, 40} {
		code := string(rune('A' + i))
		records = append(records, testutil.Line("1", code, "C1", at, rev))
	}

	pp := ProductPareto(records, 5)
	require.Len(t, pp.Products, 5)
	assert.Equal(t, 5, pp.TopN)
	assert.Equal(t, 200.0, pp.TotalRevenue)
	assert.Equal(t, 180.0, pp.TopRevenue)
	assert.Equal(t, domain.DefinedRatio(90), pp.TopShare)

	assert.Equal(t, "A", pp.Products[0].StockCode)
	assert.Equal(t, "B", pp.Products[1].StockCode, "tie on 40 broken by stock code")
	assert.Equal(t, "H", pp.Products[2].StockCode)
	assert.Equal(t, 25.0, pp.Products[0].CumulativeShare.Value)
	assert.Equal(t, pp.TopShare, pp.Products[4].CumulativeShare)
}

func TestProductPareto_FewerProductsThanTopN(t *testing.T) {
	records := []domain.CleanedRecord{
		testutil.Line("1", "A", "C1", testutil.At(2011, 6, 1, 12, 0), 3),
	}
	pp := ProductPareto(records, 5)
	assert.Equal(t, 1, pp.TopN)
	assert.Equal(t, 100.0, pp.TopShare.Value)
}

func TestProductPareto_Empty(t *testing.T) {
	pp := ProductPareto(nil, 5)
	assert.Empty(t, pp.Products)
	assert.False(t, pp.TopShare.Valid, "share of nothing is undefined")
	assert.Equal(t, domain.UndefinedRatio, pp.TopShare.String())
}

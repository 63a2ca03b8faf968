package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNtile(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		tiles int
		want  []int
	}{
		{"even split", 6, 3, []int{1, 1, 2, 2, 3, 3}},
		{"one extra goes to first tile", 7, 3, []int{1, 1, 1, 2, 2, 3, 3}},
		{"two extra", 8, 3, []int{1, 1, 1, 2, 2, 2, 3, 3}},
		{"fewer rows than tiles", 2, 3, []int{1, 2}},
		{"single row", 1, 3, []int{1}},
		{"single tile", 4, 1, []int{1, 1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := make([]int, tt.n)
			for i := range got {
				got[i] = ntile(i, tt.n, tt.tiles)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompetitionRanks(t *testing.T) {
	ranks, dense := competitionRanks([]float64{50, 50, 40, 10, 10, 5})
	assert.Equal(t, []int{1, 1, 3, 4, 4, 6}, ranks)
	assert.Equal(t, []int{1, 1, 2, 3, 3, 4}, dense)

	ranks, dense = competitionRanks(nil)
	assert.Empty(t, ranks)
	assert.Empty(t, dense)
}

func TestMonthArithmetic(t *testing.T) {
	ts := time.Date(2011, 3, 17, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, time.Date(2011, 3, 1, 0, 0, 0, 0, time.UTC), truncMonth(ts))
	assert.Equal(t, time.Date(2011, 3, 17, 0, 0, 0, 0, time.UTC), truncDay(ts))

	dec := time.Date(2010, 12, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2011, 2, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 2, monthIndex(feb)-monthIndex(dec))
}

func TestMoneyRounding(t *testing.T) {
	assert.Equal(t, 2.68, money(2.675000001))
	assert.Equal(t, -1.01, money(-1.005000001))
	assert.Equal(t, 375.0, money(375))
}

package analytics

import (
	"sort"
	"time"

	"ecomcli/pkg/contracts/domain"
)

// CohortRetention assigns every customer to the month of their first
// purchase and counts, per cohort and month offset, the distinct customers
// purchasing. RetentionRate is 100 × customers / cohort size. Rows are
// ordered by cohort month then offset.
func CohortRetention(records []domain.CleanedRecord) []domain.CohortRecord {
	cohortOf := make(map[string]time.Time)
	for _, r := range records {
		m := truncMonth(r.InvoiceDate)
		if c, ok := cohortOf[r.CustomerID]; !ok || m.Before(c) {
			cohortOf[r.CustomerID] = m
		}
	}

	type cell struct {
		cohort time.Time
		offset int
	}
	active := make(map[cell]map[string]struct{})
	for _, r := range records {
		cohort := cohortOf[r.CustomerID]
		c := cell{cohort, monthIndex(r.InvoiceDate) - monthIndex(cohort)}
		if active[c] == nil {
			active[c] = make(map[string]struct{})
		}
		active[c][r.CustomerID] = struct{}{}
	}

	base := make(map[time.Time]int)
	for _, cohort := range cohortOf {
		base[cohort]++
	}

	cells := make([]cell, 0, len(active))
	for c := range active {
		cells = append(cells, c)
	}
	sort.Slice(cells, func(i, j int) bool {
		if !cells[i].cohort.Equal(cells[j].cohort) {
			return cells[i].cohort.Before(cells[j].cohort)
		}
		return cells[i].offset < cells[j].offset
	})

	out := make([]domain.CohortRecord, 0, len(cells))
	for _, c := range cells {
		n := len(active[c])
		out = append(out, domain.CohortRecord{
			CohortMonth:   c.cohort,
			MonthOffset:   c.offset,
			Customers:     n,
			BaseCustomers: base[c.cohort],
			RetentionRate: domain.Percent(float64(n), float64(base[c.cohort])).Round(moneyPlaces),
		})
	}
	return out
}

// PivotCohorts reshapes retention rows into one row per cohort with the
// rates of offsets 0 through offsets-1. Offsets without purchases are 0.
func PivotCohorts(cohorts []domain.CohortRecord, offsets int) []domain.CohortPivotRow {
	if offsets <= 0 {
		return []domain.CohortPivotRow{}
	}

	out := make([]domain.CohortPivotRow, 0)
	index := make(map[time.Time]int)
	for _, c := range cohorts {
		i, ok := index[c.CohortMonth]
		if !ok {
			row := domain.CohortPivotRow{
				CohortMonth:   c.CohortMonth,
				BaseCustomers: c.BaseCustomers,
				Retention:     make([]domain.Ratio, offsets),
			}
			for k := range row.Retention {
				row.Retention[k] = domain.DefinedRatio(0)
			}
			i = len(out)
			index[c.CohortMonth] = i
			out = append(out, row)
		}
		if c.MonthOffset >= 0 && c.MonthOffset < offsets {
			out[i].Retention[c.MonthOffset] = c.RetentionRate
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CohortMonth.Before(out[j].CohortMonth)
	})
	return out
}

// CohortPivot computes cohort retention and pivots it over offsets columns
func CohortPivot(records []domain.CleanedRecord, offsets int) []domain.CohortPivotRow {
	return PivotCohorts(CohortRetention(records), offsets)
}

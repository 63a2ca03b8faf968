package analytics

import (
	"sort"

	"ecomcli/pkg/contracts/domain"
)

// TopProducts sums revenue and quantity per (stock code, description) as
// stored, skipping blank descriptions, and returns the limit best sellers by
// revenue. Ties are broken by stock code then description. A
// non-positive limit returns every product.
func TopProducts(records []domain.CleanedRecord, limit int) []domain.ProductRevenue {
	type key struct{ stock, desc string }

	products := make(map[key]*domain.ProductRevenue)
	for _, r := range records {
		if !r.HasDescription() {
			continue
		}
		k := key{r.StockCode, r.Description}
		p, ok := products[k]
		if !ok {
			p = &domain.ProductRevenue{StockCode: k.stock, Description: k.desc}
			products[k] = p
		}
		p.Revenue += r.LineTotal
		p.Quantity += r.Quantity
	}

	out := make([]domain.ProductRevenue, 0, len(products))
	for _, p := range products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		if out[i].StockCode != out[j].StockCode {
			return out[i].StockCode < out[j].StockCode
		}
		return out[i].Description < out[j].Description
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i].Revenue = money(out[i].Revenue)
	}
	return out
}

// ProductPareto ranks stock codes by revenue and reports the share of total
// revenue held by the topN of them, with cumulative shares for each of the
// topN rows.
func ProductPareto(records []domain.CleanedRecord, topN int) *domain.ProductPareto {
	revenue := make(map[string]float64)
	for _, r := range records {
		revenue[r.StockCode] += r.LineTotal
	}

	codes := make([]string, 0, len(revenue))
	for code := range revenue {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		if revenue[codes[i]] != revenue[codes[j]] {
			return revenue[codes[i]] > revenue[codes[j]]
		}
		return codes[i] < codes[j]
	})

	var total float64
	for _, code := range codes {
		total += revenue[code]
	}

	if topN > len(codes) || topN <= 0 {
		topN = len(codes)
	}

	result := &domain.ProductPareto{
		TopN:     topN,
		Products: make([]domain.ProductParetoRecord, 0, topN),
	}

	var cumulative float64
	for i, code := range codes[:topN] {
		cumulative += revenue[code]
		result.Products = append(result.Products, domain.ProductParetoRecord{
			Rank:              i + 1,
			StockCode:         code,
			Revenue:           money(revenue[code]),
			CumulativeRevenue: money(cumulative),
			CumulativeShare:   domain.Percent(cumulative, total).Round(moneyPlaces),
		})
	}

	result.TopRevenue = money(cumulative)
	result.TotalRevenue = money(total)
	result.TopShare = domain.Percent(cumulative, total).Round(moneyPlaces)
	return result
}

package domain

import (
	"time"
)

// ExplorationReport summarizes the raw dataset before cleaning.
type ExplorationReport struct {
	RowCount          int            `json:"row_count"`
	NullCounts        map[string]int `json:"null_counts"`
	CancelledInvoices int            `json:"cancelled_invoices"`
	CancelledRows     int            `json:"cancelled_rows"`
	NegativeValueRows int            `json:"negative_value_rows"`
	DistinctCustomers int            `json:"distinct_customers"`
	DistinctCountries int            `json:"distinct_countries"`
	FirstInvoiceDate  time.Time      `json:"first_invoice_date"`
	LastInvoiceDate   time.Time      `json:"last_invoice_date"`
}

// CleaningStats records how many rows each cleaning predicate removed.
// A row is attributed to the first predicate it fails.
type CleaningStats struct {
	InputRows           int `json:"input_rows"`
	KeptRows            int `json:"kept_rows"`
	Cancelled           int `json:"cancelled"`
	NonPositiveQuantity int `json:"non_positive_quantity"`
	NonPositivePrice    int `json:"non_positive_price"`
	MissingCustomer     int `json:"missing_customer"`
}

// Dropped returns the number of rows removed by cleaning.
func (s CleaningStats) Dropped() int {
	return s.InputRows - s.KeptRows
}

// MonthlySales aggregates cleaned records per calendar month.
type MonthlySales struct {
	Month         time.Time `json:"month"`
	Invoices      int       `json:"invoices"`
	Revenue       float64   `json:"revenue"`
	GrowthPercent Ratio     `json:"growth_percent"`
}

// CustomerProfile aggregates the orders of one customer.
type CustomerProfile struct {
	CustomerID       string  `json:"customer_id"`
	UniqueOrders     int     `json:"uniq_orders"`
	Revenue          float64 `json:"sum_linetotal"`
	AverageOrder     Ratio   `json:"avg_order_value"`
	DistinctProducts int     `json:"distinct_products"`
}

// ProductRevenue is a (stock code, description) revenue aggregate.
type ProductRevenue struct {
	StockCode   string  `json:"stock_code"`
	Description string  `json:"description"`
	Revenue     float64 `json:"revenue"`
	Quantity    int     `json:"quantity"`
}

// CountryDailyRevenue is the revenue of one country on one day together
// with its window metrics.
type CountryDailyRevenue struct {
	Day               time.Time `json:"day"`
	Country           string    `json:"country"`
	Revenue           float64   `json:"revenue"`
	Invoices          int       `json:"invoices"`
	Rank              int       `json:"rank"`
	DenseRank         int       `json:"dense_rank"`
	CountryAverage    float64   `json:"country_average"`
	CumulativeRevenue float64   `json:"cumulative_revenue"`
}

// ValueTier is a spend-based customer tier.
type ValueTier string

const (
	TierSmall  ValueTier = "small"
	TierMedium ValueTier = "medium"
	TierLarge  ValueTier = "large"
)

// SegmentSummary aggregates the customers of one spend tier.
type SegmentSummary struct {
	Tier           ValueTier `json:"segment"`
	Customers      int       `json:"customers"`
	Revenue        float64   `json:"total_revenue"`
	AverageRevenue Ratio     `json:"avg_revenue"`
}

// SegmentShare is a tier's share of total revenue.
type SegmentShare struct {
	Tier         ValueTier `json:"segment"`
	Revenue      float64   `json:"revenue"`
	SharePercent Ratio     `json:"share_percent"`
}

// RFM value segments by monetary tile.
const (
	SegmentHighValue   = "High Value"
	SegmentMediumValue = "Medium Value"
	SegmentLowValue    = "Low Value"
)

// RFMRecord holds recency, frequency and monetary value of a customer.
type RFMRecord struct {
	CustomerID   string        `json:"customer_id"`
	LastPurchase time.Time     `json:"last_purchase"`
	Recency      time.Duration `json:"recency"`
	RecencyDays  int           `json:"recency_days"`
	Frequency    int           `json:"frequency"`
	Monetary     float64       `json:"monetary"`
	Tile         int           `json:"tile"`
	ValueSegment string        `json:"value_segment"`
}

// Purchase frequency segments.
const (
	FrequencyFrequent   = "Frequent"
	FrequencyOccasional = "Occasional"
	FrequencyRare       = "Rare"
	FrequencyOneTime    = "One-time"
)

// FrequencySegmentRecord classifies a customer by average days between
// purchases. AverageGapDays is undefined for customers with one purchase.
type FrequencySegmentRecord struct {
	CustomerID     string `json:"customer_id"`
	Purchases      int    `json:"purchases"`
	AverageGapDays Ratio  `json:"avg_gap_days"`
	Segment        string `json:"segment"`
}

// CohortRecord is the retention of one cohort at one month offset.
type CohortRecord struct {
	CohortMonth   time.Time `json:"cohort_month"`
	MonthOffset   int       `json:"month_offset"`
	Customers     int       `json:"customer_count"`
	BaseCustomers int       `json:"base_count"`
	RetentionRate Ratio     `json:"retention_rate"`
}

// CohortPivotRow is one cohort with retention rates by fixed offset.
type CohortPivotRow struct {
	CohortMonth   time.Time `json:"cohort_month"`
	BaseCustomers int       `json:"base_count"`
	Retention     []Ratio   `json:"retention"`
}

// ParetoRecord is one customer in revenue rank order.
type ParetoRecord struct {
	Rank              int     `json:"rank"`
	CustomerID        string  `json:"customer_id"`
	Revenue           float64 `json:"revenue"`
	CumulativeRevenue float64 `json:"cumulative_revenue"`
	CumulativeShare   Ratio   `json:"cumulative_share"`
}

// ProductParetoRecord is one product in revenue rank order.
type ProductParetoRecord struct {
	Rank              int     `json:"rank"`
	StockCode         string  `json:"stock_code"`
	Revenue           float64 `json:"revenue"`
	CumulativeRevenue float64 `json:"cumulative_revenue"`
	CumulativeShare   Ratio   `json:"cumulative_share"`
}

// ProductPareto is the revenue concentration of the top products.
type ProductPareto struct {
	TopN         int                   `json:"top_n"`
	TopRevenue   float64               `json:"top_revenue"`
	TotalRevenue float64               `json:"total_revenue"`
	TopShare     Ratio                 `json:"top_share"`
	Products     []ProductParetoRecord `json:"products"`
}

package analytics

import (
	"fmt"

	"ecomcli/internal/config"
	"ecomcli/pkg/contracts/domain"
)

// SegmentThresholds bound the spend tiers. A customer spending less than
// SmallMax is small, less than MediumMax is medium, otherwise large.
type SegmentThresholds struct {
	SmallMax  float64 `json:"small_max"`
	MediumMax float64 `json:"medium_max"`
}

// Classify maps a customer's total spend to exactly one tier
func (s SegmentThresholds) Classify(total float64) domain.ValueTier {
	switch {
	case total < s.SmallMax:
		return domain.TierSmall
	case total < s.MediumMax:
		return domain.TierMedium
	default:
		return domain.TierLarge
	}
}

// FrequencyThresholds bound the purchase-frequency segments in days.
// Averages below FrequentMaxDays are frequent, up to and including
// OccasionalMaxDays occasional, above that rare.
type FrequencyThresholds struct {
	FrequentMaxDays   float64 `json:"frequent_max_days"`
	OccasionalMaxDays float64 `json:"occasional_max_days"`
}

// Classify maps an average gap in days to a frequency segment. An
// undefined average yields the one-time segment.
func (f FrequencyThresholds) Classify(avg domain.Ratio) string {
	switch {
	case !avg.Valid:
		return domain.FrequencyOneTime
	case avg.Value < f.FrequentMaxDays:
		return domain.FrequencyFrequent
	case avg.Value <= f.OccasionalMaxDays:
		return domain.FrequencyOccasional
	default:
		return domain.FrequencyRare
	}
}

// Options parameterize the aggregators
type Options struct {
	Segments           SegmentThresholds   `json:"segments"`
	Frequency          FrequencyThresholds `json:"frequency"`
	RFMTiles           int                 `json:"rfm_tiles"`
	TopProductsLimit   int                 `json:"top_products_limit"`
	ParetoTopProducts  int                 `json:"pareto_top_products"`
	CohortPivotOffsets int                 `json:"cohort_pivot_offsets"`
}

// DefaultOptions returns the standard thresholds and limits
func DefaultOptions() Options {
	return Options{
		Segments: SegmentThresholds{
			SmallMax:  config.DefaultSmallSegmentMax,
			MediumMax: config.DefaultMediumSegmentMax,
		},
		Frequency: FrequencyThresholds{
			FrequentMaxDays:   config.DefaultFrequentMaxDays,
			OccasionalMaxDays: config.DefaultOccasionalMaxDays,
		},
		RFMTiles:           config.DefaultRFMTiles,
		TopProductsLimit:   config.DefaultTopProductsLimit,
		ParetoTopProducts:  config.DefaultParetoTopProducts,
		CohortPivotOffsets: config.DefaultCohortPivotOffsets,
	}
}

// OptionsFromConfig converts the analysis configuration section
func OptionsFromConfig(cfg config.AnalysisConfig) Options {
	return Options{
		Segments: SegmentThresholds{
			SmallMax:  cfg.SmallSegmentMax,
			MediumMax: cfg.MediumSegmentMax,
		},
		Frequency: FrequencyThresholds{
			FrequentMaxDays:   cfg.FrequentMaxDays,
			OccasionalMaxDays: cfg.OccasionalMaxDays,
		},
		RFMTiles:           cfg.RFMTiles,
		TopProductsLimit:   cfg.TopProductsLimit,
		ParetoTopProducts:  cfg.ParetoTopProducts,
		CohortPivotOffsets: cfg.CohortPivotOffsets,
	}
}

// ValidationError describes an invalid option
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// Validate checks that thresholds are ordered and limits positive
func (o Options) Validate() error {
	if o.Segments.SmallMax <= 0 {
		return ValidationError{Field: "Segments.SmallMax", Message: "must be positive", Value: o.Segments.SmallMax}
	}
	if o.Segments.MediumMax <= o.Segments.SmallMax {
		return ValidationError{
			Field:   "Segments.MediumMax",
			Message: "must be greater than the small tier bound",
			Value:   map[string]float64{"small": o.Segments.SmallMax, "medium": o.Segments.MediumMax},
		}
	}
	if o.Frequency.FrequentMaxDays <= 0 {
		return ValidationError{Field: "Frequency.FrequentMaxDays", Message: "must be positive", Value: o.Frequency.FrequentMaxDays}
	}
	if o.Frequency.OccasionalMaxDays < o.Frequency.FrequentMaxDays {
		return ValidationError{
			Field:   "Frequency.OccasionalMaxDays",
			Message: "must not be below the frequent bound",
			Value:   map[string]float64{"frequent": o.Frequency.FrequentMaxDays, "occasional": o.Frequency.OccasionalMaxDays},
		}
	}

	limits := []struct {
		field string
		value int
	}{
		{"RFMTiles", o.RFMTiles},
		{"TopProductsLimit", o.TopProductsLimit},
		{"ParetoTopProducts", o.ParetoTopProducts},
		{"CohortPivotOffsets", o.CohortPivotOffsets},
	}
	for _, l := range limits {
		if l.value < 1 {
			return ValidationError{Field: l.field, Message: "must be at least 1", Value: l.value}
		}
	}
	return nil
}

package dataprocessing

import (
	"molidata/internal/config"
	"molidata/pkg/contracts/domain"
)

// ProcessingOptions configures pipeline behavior
type ProcessingOptions struct {
	// HeaderRows is the number of leading rows skipped in the billing sheet
	HeaderRows int

	// BillingSheet and GeographicSheet select worksheets; empty means the first sheet
	BillingSheet    string
	GeographicSheet string

	// AffirmativeMarker and NegativeMarker are the freight flag values
	AffirmativeMarker string
	NegativeMarker    string

	// TopN bounds each ranking in the insights document
	TopN int

	// Workers bounds feature derivation parallelism
	Workers int
}

// DefaultOptions returns default processing options
func DefaultOptions() ProcessingOptions {
	return ProcessingOptions{
		HeaderRows:        config.DefaultHeaderRows,
		AffirmativeMarker: config.FreightAffirmative,
		NegativeMarker:    config.FreightNegative,
		TopN:              config.DefaultTopN,
		Workers:           config.DefaultWorkers,
	}
}

// OptionsFromConfig builds processing options from the pipeline configuration
func OptionsFromConfig(cfg config.PipelineConfig) ProcessingOptions {
	return ProcessingOptions{
		HeaderRows:        cfg.HeaderRows,
		BillingSheet:      cfg.BillingSheet,
		GeographicSheet:   cfg.GeographicSheet,
		AffirmativeMarker: cfg.AffirmativeMarker,
		NegativeMarker:    cfg.NegativeMarker,
		TopN:              cfg.TopN,
		Workers:           cfg.Workers,
	}
}

// Inputs names the two workbooks a run reads
type Inputs struct {
	BillingPath    string
	GeographicPath string
}

// Result holds every output of one pipeline run
type Result struct {
	Billing               []domain.EnrichedRecord
	Geographic            []domain.GeographicRecord
	Features              []domain.AggregationTable
	CustomerProductMatrix *domain.Matrix
	CustomerZoneMatrix    *domain.Matrix
	Insights              *domain.Insights
	Stats                 domain.RunStats
}

// FeatureTable returns the aggregation table for dim, if computed
func (r *Result) FeatureTable(dim domain.Dimension) (domain.AggregationTable, bool) {
	for _, t := range r.Features {
		if t.Dimension == dim {
			return t, true
		}
	}
	return domain.AggregationTable{}, false
}

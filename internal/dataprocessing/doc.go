// Package dataprocessing transforms raw mill billing exports into typed,
// feature-enriched records and derives the aggregate views built on them.
//
// # Architecture
//
// The package is organized as a chain of small components:
//
// 1. TypeCoercer: parses raw cells into dates and numbers, never failing a row
// 2. SchemaNormalizer: maps fixed-position rows onto the twelve billing fields
// 3. FeatureDeriver: adds calendar, price per kg and freight features
// 4. GeographicReshaper: unpivots the wide province/postal-code/city sheet
// 5. Aggregator, MatrixBuilder, InsightsSummarizer: independent reductions
//
// # Usage
//
//	proc := dataprocessing.NewProcessor(dataprocessing.DefaultOptions(), logger, nil, nil)
//	result, err := proc.Run(ctx, dataprocessing.Inputs{
//	    BillingPath:    "data/raw/Listado_de_Facturacion_de_Molinos.xlsx",
//	    GeographicPath: "data/raw/Ventas_datos.xlsx",
//	})
//
// # Data Flow
//
//	Excel rows → SchemaNormalizer → BillingRecords → FeatureDeriver → EnrichedRecords
//	EnrichedRecords → {Aggregator, MatrixBuilder, InsightsSummarizer}
//	Geographic grid → GeographicReshaper → GeographicRecords
//
// # Absent Values
//
// Cells that cannot be coerced become absent values (domain.NullFloat with
// Valid false). Sums skip them, means divide by the count of present values,
// and price per kg is absent whenever the weight is absent or zero. Only an
// unparsable date removes a row.
//
// # Determinism
//
// Sums are accumulated with exact decimals and every keyed output is sorted,
// so repeated runs over the same input produce identical artifacts
// regardless of worker count or map iteration order.
package dataprocessing

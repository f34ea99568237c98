package config

// Application constants
const (
	// Application Info
	AppName    = "molidata"
	AppVersion = "1.0.0"

	// File Paths (relative to the working directory)
	DefaultRawDir       = "data/raw"
	DefaultProcessedDir = "data/processed"
	DefaultLogsDir      = "logs"
	DefaultLogFile      = "logs/molidata.log"

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// Pipeline defaults
	DefaultHeaderRows    = 2
	DefaultTopN          = 10
	DefaultWorkers       = 4
	DefaultRoundDecimals = 2

	// Freight flag markers as they appear in the billing export
	FreightAffirmative = "Si"
	FreightNegative    = "No"

	// Input workbook extension
	ExcelExtension = ".xlsx"
)

// Artifact file names written under the processed directory
const (
	BillingParquetFile        = "billing_data_clean.parquet"
	GeographicParquetFile     = "geographic_data.parquet"
	CustomerFeaturesFile      = "customer_features"
	ProductFeaturesFile       = "product_features"
	ZoneFeaturesFile          = "zone_features"
	MillFeaturesFile          = "mill_features"
	CustomerProductMatrixFile = "customer_product_matrix.csv"
	CustomerZoneMatrixFile    = "customer_zone_matrix.csv"
	InsightsFile              = "business_insights.json"
)

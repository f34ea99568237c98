package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable read by Load
const EnvPrefix = "MOLI"

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Pipeline  PipelineConfig  `yaml:"pipeline" envconfig:"PIPELINE"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	Storage   StorageConfig   `yaml:"storage" envconfig:"STORAGE"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	RawDir       string `yaml:"raw_dir" envconfig:"RAW_DIR" validate:"required"`
	ProcessedDir string `yaml:"processed_dir" envconfig:"PROCESSED_DIR" validate:"required"`
	LogsDir      string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
}

// PipelineConfig contains the transformation settings
type PipelineConfig struct {
	HeaderRows        int      `yaml:"header_rows" envconfig:"HEADER_ROWS" validate:"gte=0,lte=100"`
	BillingSheet      string   `yaml:"billing_sheet" envconfig:"BILLING_SHEET"`
	GeographicSheet   string   `yaml:"geographic_sheet" envconfig:"GEOGRAPHIC_SHEET"`
	BillingKeywords   []string `yaml:"billing_keywords" envconfig:"BILLING_KEYWORDS" validate:"min=1,dive,keyword"`
	GeoKeywords       []string `yaml:"geo_keywords" envconfig:"GEO_KEYWORDS" validate:"min=1,dive,keyword"`
	AffirmativeMarker string   `yaml:"affirmative_marker" envconfig:"AFFIRMATIVE_MARKER" validate:"required"`
	NegativeMarker    string   `yaml:"negative_marker" envconfig:"NEGATIVE_MARKER" validate:"required,nefield=AffirmativeMarker"`
	TopN              int      `yaml:"top_n" envconfig:"TOP_N" validate:"gte=1,lte=1000"`
	Workers           int      `yaml:"workers" envconfig:"WORKERS" validate:"gte=1,lte=64"`
	RoundDecimals     int      `yaml:"round_decimals" envconfig:"ROUND_DECIMALS" validate:"gte=0,lte=10"`
}

// TelemetryConfig contains tracing and metrics configuration
type TelemetryConfig struct {
	ServiceName   string `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	TraceExporter string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=none stdout"`
	MetricsFile   string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// StorageConfig contains the optional object storage mirror configuration
type StorageConfig struct {
	Enabled         bool   `yaml:"enabled" envconfig:"ENABLED"`
	Bucket          string `yaml:"bucket" envconfig:"BUCKET" validate:"omitempty,bucketname"`
	Prefix          string `yaml:"prefix" envconfig:"PREFIX"`
	Endpoint        string `yaml:"endpoint" envconfig:"ENDPOINT" validate:"omitempty,url"`
	CredentialsFile string `yaml:"credentials_file" envconfig:"CREDENTIALS_FILE"`
}

// Load loads configuration from the first config file found in the
// common locations, then applies environment overrides.
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom loads configuration starting from defaults, overlays the YAML
// file at path when path is not empty, then applies MOLI_* environment
// variables. Environment values take precedence over the file.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg; keys missing from the file keep their value
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"molidata.yaml",
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Paths: PathsConfig{
			RawDir:       DefaultRawDir,
			ProcessedDir: DefaultProcessedDir,
			LogsDir:      DefaultLogsDir,
		},
		Pipeline: PipelineConfig{
			HeaderRows:        DefaultHeaderRows,
			BillingKeywords:   []string{"Facturacion", "molinos"},
			GeoKeywords:       []string{"Ventas", "datos"},
			AffirmativeMarker: FreightAffirmative,
			NegativeMarker:    FreightNegative,
			TopN:              DefaultTopN,
			Workers:           DefaultWorkers,
			RoundDecimals:     DefaultRoundDecimals,
		},
		Telemetry: TelemetryConfig{
			ServiceName:   AppName,
			TraceExporter: "none",
		},
		Storage: StorageConfig{
			Prefix: "processed",
		},
	}
}

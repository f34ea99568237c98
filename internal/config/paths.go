package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the application paths
// This is the single source of truth for every file the pipeline reads or writes
type Paths struct {
	RawDir       string
	ProcessedDir string
	LogsDir      string

	// Well-known artifact files
	BillingParquet        string
	GeographicParquet     string
	CustomerProductMatrix string
	CustomerZoneMatrix    string
	InsightsJSON          string
}

// GetPaths resolves the configured directories to absolute paths
func GetPaths(cfg PathsConfig) (*Paths, error) {
	rawDir, err := filepath.Abs(cfg.RawDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve raw dir: %w", err)
	}
	processedDir, err := filepath.Abs(cfg.ProcessedDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve processed dir: %w", err)
	}
	logsDir, err := filepath.Abs(cfg.LogsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve logs dir: %w", err)
	}

	return &Paths{
		RawDir:       rawDir,
		ProcessedDir: processedDir,
		LogsDir:      logsDir,

		BillingParquet:        filepath.Join(processedDir, BillingParquetFile),
		GeographicParquet:     filepath.Join(processedDir, GeographicParquetFile),
		CustomerProductMatrix: filepath.Join(processedDir, CustomerProductMatrixFile),
		CustomerZoneMatrix:    filepath.Join(processedDir, CustomerZoneMatrixFile),
		InsightsJSON:          filepath.Join(processedDir, InsightsFile),
	}, nil
}

// EnsureDirectories creates the output directories if they don't exist.
// The raw directory is input and is never created.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ProcessedDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// FeaturesPath returns the path of an aggregation table with the given extension
func (p *Paths) FeaturesPath(base, ext string) string {
	return filepath.Join(p.ProcessedDir, base+ext)
}

// LogPathResolution logs every resolved path at debug level
func (p *Paths) LogPathResolution() {
	slog.Debug("Resolved paths",
		slog.String("raw_dir", p.RawDir),
		slog.String("processed_dir", p.ProcessedDir),
		slog.String("logs_dir", p.LogsDir))
}

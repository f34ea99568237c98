package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"molidata/internal/config"
	apperrors "molidata/internal/errors"
	"molidata/internal/dataprocessing"
	"molidata/internal/exporter"
	"molidata/internal/files"
	"molidata/internal/infrastructure"
	"molidata/internal/storage"
	"molidata/internal/validation"
)

// shutdownTimeout bounds the telemetry flush at the end of a run
const shutdownTimeout = 5 * time.Second

// options holds the command line flags
type options struct {
	inDir      string
	outDir     string
	billing    string
	geographic string
	configPath string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout)
	stop()

	if err != nil {
		stage, _ := apperrors.StageOf(err)
		slog.Error("Pipeline failed",
			slog.String("stage", string(stage)),
			slog.String("error", err.Error()))
	}
	infrastructure.CloseLogFile()
	os.Exit(apperrors.ExitCode(err))
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("processor", flag.ContinueOnError)
	fs.StringVar(&opts.inDir, "in", "", "input directory with the raw .xlsx workbooks (defaults to paths.raw_dir)")
	fs.StringVar(&opts.outDir, "out", "", "output directory for the processed artifacts (defaults to paths.processed_dir)")
	fs.StringVar(&opts.billing, "billing", "", "billing workbook path (skips discovery of the billing file)")
	fs.StringVar(&opts.geographic, "geo", "", "geographic workbook path (skips discovery of the geographic file)")
	fs.StringVar(&opts.configPath, "config", "", "YAML config file (defaults to molidata.yaml or config.yaml when present)")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

func loadConfig(opts options) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFrom(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if opts.inDir != "" {
		cfg.Paths.RawDir = opts.inDir
	}
	if opts.outDir != "" {
		cfg.Paths.ProcessedDir = opts.outDir
	}
	return cfg, nil
}

// run executes one pipeline run: discovery, transformation, persistence
// and the optional storage mirror. The KPI report is written to stdout.
func run(ctx context.Context, args []string, stdout io.Writer) (err error) {
	opts, err := parseFlags(args)
	if err != nil {
		return apperrors.AtStage(apperrors.StageConfig, err)
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return apperrors.AtStage(apperrors.StageConfig, apperrors.NewConfigError("failed to load configuration", err))
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return apperrors.AtStage(apperrors.StageConfig, err)
	}

	paths, err := config.GetPaths(cfg.Paths)
	if err != nil {
		return apperrors.AtStage(apperrors.StageConfig, apperrors.NewConfigError("failed to resolve paths", err))
	}
	paths.LogPathResolution()

	telemetry, err := infrastructure.InitializeTelemetry(cfg.Telemetry, stdout, logger)
	if err != nil {
		return apperrors.AtStage(apperrors.StageConfig, err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		telemetry.Metrics.RecordRun(shutdownCtx, err)
		if werr := telemetry.WriteMetrics(shutdownCtx); werr != nil {
			logger.Warn("Failed to write metrics", slog.String("error", werr.Error()))
		}
		if serr := telemetry.Shutdown(shutdownCtx); serr != nil {
			logger.Warn("Telemetry shutdown failed", slog.String("error", serr.Error()))
		}
	}()

	ctx = infrastructure.EnsureRunID(ctx)
	start := time.Now()
	logger.InfoContext(ctx, "Starting mill billing processing",
		slog.String("version", config.AppVersion),
		slog.String("raw_dir", paths.RawDir),
		slog.String("processed_dir", paths.ProcessedDir))

	inputs, err := resolveInputs(ctx, opts, cfg, paths, logger, telemetry)
	if err != nil {
		return apperrors.AtStage(apperrors.StageDiscovery, err)
	}

	processor := dataprocessing.NewProcessor(dataprocessing.OptionsFromConfig(cfg.Pipeline), logger, telemetry.Tracer, telemetry.Metrics)
	result, err := processor.Run(ctx, inputs)
	if err != nil {
		return err
	}

	writer := exporter.NewArtifactWriter(paths, cfg.Pipeline.RoundDecimals, logger, telemetry.Tracer, telemetry.Metrics)
	artifacts, err := writer.WriteAll(ctx, result)
	if err != nil {
		return err
	}
	result.Stats.ArtifactsWritten = len(artifacts)

	if cfg.Storage.Enabled {
		if err := mirrorArtifacts(ctx, cfg.Storage, artifacts, logger); err != nil {
			return apperrors.AtStage(apperrors.StagePersistence, err)
		}
	}

	result.Stats.Duration = time.Since(start)
	logger.InfoContext(ctx, "Processing completed",
		slog.Int("artifacts", result.Stats.ArtifactsWritten),
		slog.Int("records", result.Stats.Records),
		slog.Duration("duration", result.Stats.Duration))

	printReport(stdout, result, artifacts)
	return nil
}

// resolveInputs returns the workbooks of the run. Explicit -billing and -geo
// paths are validated; any role left unset is discovered in the raw dir.
func resolveInputs(ctx context.Context, opts options, cfg *config.Config, paths *config.Paths, logger *slog.Logger, telemetry *infrastructure.Telemetry) (in dataprocessing.Inputs, err error) {
	ctx, span := infrastructure.StartStage(ctx, telemetry.Tracer, "discovery")
	begin := time.Now()
	defer func() {
		telemetry.Metrics.RecordStage(ctx, "discovery", time.Since(begin), err)
		infrastructure.EndStage(span, err)
	}()

	validator := validation.NewFileValidator(logger)
	for _, p := range []string{opts.billing, opts.geographic} {
		if p == "" {
			continue
		}
		if err := validator.ValidateExcelFile(p); err != nil {
			return in, err
		}
	}

	in = dataprocessing.Inputs{BillingPath: opts.billing, GeographicPath: opts.geographic}
	if in.BillingPath != "" && in.GeographicPath != "" {
		return in, nil
	}

	found, err := files.NewDiscovery(logger).DiscoverInputs(paths.RawDir, cfg.Pipeline.BillingKeywords, cfg.Pipeline.GeoKeywords)
	if err != nil {
		return in, err
	}
	if in.BillingPath == "" {
		in.BillingPath = found.Billing.Path
	}
	if in.GeographicPath == "" {
		in.GeographicPath = found.Geographic.Path
	}
	if in.BillingPath == in.GeographicPath {
		return in, apperrors.NewDiscoveryError("billing and geographic inputs resolve to the same file", nil).
			WithContext("path", in.BillingPath)
	}
	return in, nil
}

func mirrorArtifacts(ctx context.Context, cfg config.StorageConfig, artifacts []exporter.Artifact, logger *slog.Logger) (err error) {
	uploader, err := storage.NewGCSUploader(ctx, cfg)
	if err != nil {
		return apperrors.NewStorageError("failed to connect to object storage", err)
	}
	defer func() {
		err = errors.Join(err, uploader.Close())
	}()

	_, err = storage.NewMirror(uploader, cfg.Prefix, logger).Sync(ctx, infrastructure.GetRunID(ctx), artifacts)
	return err
}

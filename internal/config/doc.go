// Package config provides centralized configuration management for the
// billing pipeline. It loads settings from defaults, an optional YAML file
// and environment variables, validates them, and resolves file system paths.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern MOLI_<SECTION>_<FIELD>:
//
//	MOLI_LOGGING_LEVEL=debug
//	MOLI_PATHS_RAW_DIR=/data/raw
//	MOLI_PIPELINE_WORKERS=8
//	MOLI_PIPELINE_BILLING_KEYWORDS=Facturacion,molinos
//	MOLI_STORAGE_ENABLED=true
//	MOLI_STORAGE_BUCKET=mill-artifacts
//
// # Validation
//
// Validation uses struct tags checked by go-playground/validator. All
// violations are reported together, named by their YAML path:
//
//	pipeline.workers must be less than or equal to 64; storage.bucket is required
//
// # Usage
//
//	cfg, err := config.LoadFrom("molidata.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	paths, err := config.GetPaths(cfg.Paths)
package config

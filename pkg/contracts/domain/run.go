package domain

import "time"

// RunStats counts what happened during one pipeline run
type RunStats struct {
	RunID             string        `json:"run_id"`
	RowsRead          int           `json:"rows_read"`
	RowsDropped       int           `json:"rows_dropped"`
	Records           int           `json:"records"`
	GeographicRecords int           `json:"geographic_records"`
	Provinces         int           `json:"provinces"`
	Cities            int           `json:"cities"`
	ArtifactsWritten  int           `json:"artifacts_written"`
	Duration          time.Duration `json:"duration"`
}

// Package storage mirrors run artifacts to Google Cloud Storage.
//
// The mirror is optional and runs after the local artifacts are written:
//
//	uploader, err := storage.NewGCSUploader(ctx, cfg.Storage)
//	defer uploader.Close()
//	objects, err := storage.NewMirror(uploader, cfg.Storage.Prefix, logger).Sync(ctx, runID, artifacts)
package storage

package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "molidata/internal/errors"
	"molidata/internal/exporter"
)

const (
	// uploadTimeout bounds a single object upload
	uploadTimeout = 2 * time.Minute

	maxConcurrentUploads = 4
)

// Mirror copies a run's artifacts to object storage under <prefix>/<run id>/
type Mirror struct {
	uploader Uploader
	prefix   string
	logger   *slog.Logger
}

// NewMirror creates a mirror that uploads through uploader
func NewMirror(uploader Uploader, prefix string, logger *slog.Logger) *Mirror {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mirror{
		uploader: uploader,
		prefix:   prefix,
		logger:   logger.With(slog.String("component", "mirror")),
	}
}

// ObjectName returns the object an artifact of runID is stored under
func (m *Mirror) ObjectName(runID string, a exporter.Artifact) string {
	return path.Join(m.prefix, runID, a.Name)
}

// Sync uploads every artifact and returns the object names in artifact order
func (m *Mirror) Sync(ctx context.Context, runID string, artifacts []exporter.Artifact) ([]string, error) {
	objects := make([]string, len(artifacts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentUploads)
	for i, a := range artifacts {
		objects[i] = m.ObjectName(runID, a)
		object := objects[i]
		g.Go(func() error {
			if err := m.upload(gctx, object, a.Path); err != nil {
				return apperrors.NewStorageError("failed to mirror "+a.Name, err).
					WithContext("object", object)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m.logger.InfoContext(ctx, "Artifacts mirrored",
		slog.String("prefix", path.Join(m.prefix, runID)),
		slog.Int("objects", len(objects)))
	return objects, nil
}

func (m *Mirror) upload(ctx context.Context, object, filePath string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("open file %q: %w", filePath, err)
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	if err := m.uploader.Upload(ctx, object, f); err != nil {
		return err
	}
	m.logger.DebugContext(ctx, "Object uploaded", slog.String("object", object))
	return nil
}

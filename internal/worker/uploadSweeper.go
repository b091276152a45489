package worker

import (
	"context"
	"path"
	"time"

	"github.com/ds124wfegd/mmk_universe/internal/monitoring"
	"github.com/ds124wfegd/mmk_universe/internal/pkg/storage"

	"github.com/sirupsen/logrus"
)

// ReferenceSource lists the uploads that must be kept: pending screenshots
// and target images.
type ReferenceSource interface {
	ReferencedFiles(ctx context.Context) ([]string, error)
}

// UploadSweeper removes uploads that nothing points at, such as
// screenshots left behind when a process died between the write and the insert.
type UploadSweeper struct {
	files    storage.FileStorage
	refs     ReferenceSource
	interval time.Duration
	grace    time.Duration
	now      func() time.Time
}

func NewUploadSweeper(files storage.FileStorage, refs ReferenceSource, interval, grace time.Duration) *UploadSweeper {
	return &UploadSweeper{
		files:    files,
		refs:     refs,
		interval: interval,
		grace:    grace,
		now:      time.Now,
	}
}

func (w *UploadSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logrus.WithField("interval", w.interval.String()).Info("Upload sweeper started")

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Upload sweeper stopped")
			return
		case <-ticker.C:
			if _, err := w.Sweep(ctx); err != nil {
				logrus.WithError(err).Error("Upload sweep failed")
			}
		}
	}
}

// Sweep deletes unreferenced files older than the grace period and returns
// how many were removed. Files younger than the grace period may belong to a
// submission whose insert has not committed yet.
func (w *UploadSweeper) Sweep(ctx context.Context) (int, error) {
	files, err := w.files.List()
	if err != nil {
		return 0, err
	}
	if len(files) == 0 {
		return 0, nil
	}

	referenced, err := w.refs.ReferencedFiles(ctx)
	if err != nil {
		return 0, err
	}
	// Targets may store "/uploads/x.png" or a full URL rather than a bare name.
	keep := make(map[string]struct{}, len(referenced))
	for _, ref := range referenced {
		keep[path.Base(ref)] = struct{}{}
	}

	cutoff := w.now().Add(-w.grace)
	removed, failed := 0, 0
	for _, f := range files {
		if ctx.Err() != nil {
			break
		}
		if _, ok := keep[f.Name]; ok || f.ModTime.After(cutoff) {
			continue
		}
		if err := w.files.Delete(f.Name); err != nil {
			logrus.WithError(err).WithField("file", f.Name).Warn("Failed to remove orphaned upload")
			failed++
			continue
		}
		removed++
	}

	if removed > 0 || failed > 0 {
		logrus.Infof("Upload sweep completed: %d removed, %d failed", removed, failed)
	}
	monitoring.TrackSwept(removed)
	return removed, ctx.Err()
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/eventforge/hackathon-api/internal/pkg/artifact"
)

type ArtifactLister interface {
	List() ([]artifact.Info, error)
	Remove(url string) error
}

type CertificateURLSource interface {
	URLs(ctx context.Context) ([]string, error)
}

// ArtifactReaper removes stored certificate documents that no certificate record points at.
// Files younger than the retention window are kept: a bulk run writes every artifact before
// its batch insert lands.
type ArtifactReaper struct {
	store     ArtifactLister
	certs     CertificateURLSource
	retention time.Duration
	dryRun    bool
	now       func() time.Time
}

func NewArtifactReaper(store ArtifactLister, certs CertificateURLSource, retention time.Duration, dryRun bool) *ArtifactReaper {
	return &ArtifactReaper{
		store:     store,
		certs:     certs,
		retention: retention,
		dryRun:    dryRun,
		now:       time.Now,
	}
}

// Sweep runs one pass and returns the orphans it removed (or would remove in dry-run mode).
func (r *ArtifactReaper) Sweep(ctx context.Context) ([]string, error) {
	urls, err := r.certs.URLs(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.certs.URLs -> %w", err)
	}
	referenced := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		referenced[u] = struct{}{}
	}

	files, err := r.store.List()
	if err != nil {
		return nil, fmt.Errorf("r.store.List -> %w", err)
	}

	cutoff := r.now().Add(-r.retention)
	var removed []string
	for _, f := range files {
		if _, ok := referenced[f.URL]; ok {
			continue
		}
		if f.ModTime.After(cutoff) {
			continue
		}

		if !r.dryRun {
			if err := r.store.Remove(f.URL); err != nil {
				zap.L().Warn("failed to remove orphan certificate", zap.String("url", f.URL), zap.Error(err))
				continue
			}
		}
		removed = append(removed, f.URL)
	}

	if len(removed) > 0 {
		zap.L().Info("orphan certificates reaped",
			zap.Int("count", len(removed)), zap.Bool("dryRun", r.dryRun))
	}

	return removed, nil
}

// Schedule registers Sweep on c with a standard five-field cron spec.
func (r *ArtifactReaper) Schedule(c *cron.Cron, spec string) (cron.EntryID, error) {
	return c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		if _, err := r.Sweep(ctx); err != nil {
			zap.L().Error("artifact reaper sweep failed", zap.Error(err))
		}
	})
}

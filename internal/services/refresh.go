package services

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kyvra-tech/walrus-nodes-tracker-backend/internal/models"
	"github.com/kyvra-tech/walrus-nodes-tracker-backend/internal/repositories"
	"github.com/kyvra-tech/walrus-nodes-tracker-backend/pkg/metrics"
)

// Fetcher produces one complete snapshot. Implemented by NodeMonitor.
type Fetcher interface {
	FetchCycle(ctx context.Context) (*models.Snapshot, error)
}

// NodeDataset is a snapshot plus how it was obtained.
type NodeDataset struct {
	Snapshot  *models.Snapshot
	FromCache bool
	Stale     bool
}

// RefreshCoordinator decides per read whether to serve the cached snapshot,
// serve it stale while refreshing in the background, or fetch synchronously.
// At most one background refresh runs at a time; the flag never blocks reads.
type RefreshCoordinator struct {
	fetcher Fetcher
	repo    repositories.SnapshotRepository
	logger  *logrus.Logger
	now     func() time.Time

	mu              sync.Mutex
	refreshInFlight bool
	background      sync.WaitGroup
}

func NewRefreshCoordinator(fetcher Fetcher, repo repositories.SnapshotRepository, logger *logrus.Logger) *RefreshCoordinator {
	return &RefreshCoordinator{
		fetcher: fetcher,
		repo:    repo,
		logger:  logger,
		now:     time.Now,
	}
}

// GetNodes returns the current dataset per the cache state machine.
func (rc *RefreshCoordinator) GetNodes(ctx context.Context) (*NodeDataset, error) {
	if snapshot, ok := rc.repo.Read(); ok {
		if snapshot.IsValid(rc.now()) {
			metrics.CacheReadsTotal.WithLabelValues("fresh").Inc()
			return &NodeDataset{Snapshot: snapshot, FromCache: true}, nil
		}

		metrics.CacheReadsTotal.WithLabelValues("stale").Inc()
		rc.startBackgroundRefresh()
		return &NodeDataset{Snapshot: snapshot, FromCache: true, Stale: true}, nil
	}

	metrics.CacheReadsTotal.WithLabelValues("miss").Inc()

	snapshot, err := rc.fetcher.FetchCycle(ctx)
	if err != nil {
		return nil, models.NewFetchError("failed to fetch node health data", err)
	}

	// A write failure here is soft: the freshly fetched data is still
	// returned, the next request simply misses the cache again.
	if err := rc.repo.Write(snapshot); err != nil {
		rc.logger.WithError(err).Error("Failed to persist snapshot, serving uncached result")
		metrics.CacheWriteFailuresTotal.Inc()
	}

	return &NodeDataset{Snapshot: snapshot}, nil
}

// TriggerRefresh runs one refresh synchronously, honoring the in-flight
// flag. The cron scheduler calls this; a refresh already running on the
// stale-read path makes it a no-op.
func (rc *RefreshCoordinator) TriggerRefresh(ctx context.Context) error {
	if !rc.beginRefresh() {
		rc.logger.Debug("Refresh already in flight, skipping")
		return nil
	}
	defer rc.endRefresh()

	return rc.refresh(ctx)
}

// startBackgroundRefresh kicks off a fire-and-forget refresh unless one is
// already in flight. Its outcome is observable only through the repository.
func (rc *RefreshCoordinator) startBackgroundRefresh() {
	if !rc.beginRefresh() {
		return
	}

	rc.background.Add(1)
	go func() {
		defer rc.background.Done()
		defer rc.endRefresh()

		if err := rc.refresh(context.Background()); err != nil {
			rc.logger.WithError(err).Error("Background refresh failed, keeping previous snapshot")
		}
	}()
}

func (rc *RefreshCoordinator) refresh(ctx context.Context) error {
	snapshot, err := rc.fetcher.FetchCycle(ctx)
	if err != nil {
		return err
	}

	if err := rc.repo.Write(snapshot); err != nil {
		metrics.CacheWriteFailuresTotal.Inc()
		return err
	}

	rc.logger.WithField("nodes", len(snapshot.Data)).Info("Snapshot refreshed")
	return nil
}

func (rc *RefreshCoordinator) beginRefresh() bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.refreshInFlight {
		return false
	}
	rc.refreshInFlight = true
	return true
}

func (rc *RefreshCoordinator) endRefresh() {
	rc.mu.Lock()
	rc.refreshInFlight = false
	rc.mu.Unlock()
}

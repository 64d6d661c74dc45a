package repositories

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/kyvra-tech/walrus-nodes-tracker-backend/internal/models"
	apperrors "github.com/kyvra-tech/walrus-nodes-tracker-backend/pkg/errors"
)

// SnapshotRepository is a single-slot store for the last successful snapshot.
// Read fails soft: any I/O or decode problem is reported as absent.
type SnapshotRepository interface {
	Read() (*models.Snapshot, bool)
	Write(snapshot *models.Snapshot) error
}

// FileSnapshotRepository persists the snapshot as one JSON document on disk.
// Writes go through a temp file and rename so a concurrent reader never sees
// a partially-written document.
type FileSnapshotRepository struct {
	path   string
	logger *logrus.Logger
}

func NewFileSnapshotRepository(path string, logger *logrus.Logger) *FileSnapshotRepository {
	return &FileSnapshotRepository{
		path:   path,
		logger: logger,
	}
}

func (r *FileSnapshotRepository) Read() (*models.Snapshot, bool) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.WithError(err).WithField("path", r.path).Warn("Failed to read snapshot file, treating as absent")
		}
		return nil, false
	}

	var snapshot models.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		r.logger.WithError(err).WithField("path", r.path).Warn("Snapshot file is corrupt, treating as absent")
		return nil, false
	}

	return &snapshot, true
}

func (r *FileSnapshotRepository) Write(snapshot *models.Snapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return apperrors.Wrap(err, "failed to encode snapshot")
	}

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".tmp-*")
	if err != nil {
		return apperrors.Wrap(err, "failed to create temp snapshot file")
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return apperrors.Wrap(err, "failed to write temp snapshot file")
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return apperrors.Wrap(err, "failed to close temp snapshot file")
	}

	if err := os.Rename(tmp.Name(), r.path); err != nil {
		os.Remove(tmp.Name())
		return apperrors.Wrap(err, "failed to replace snapshot file")
	}

	return nil
}

// MemorySnapshotRepository holds the snapshot in memory. Used by tests and
// available for running without persistence.
type MemorySnapshotRepository struct {
	mu       sync.RWMutex
	snapshot *models.Snapshot
}

func NewMemorySnapshotRepository() *MemorySnapshotRepository {
	return &MemorySnapshotRepository{}
}

func (r *MemorySnapshotRepository) Read() (*models.Snapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.snapshot == nil {
		return nil, false
	}
	return r.snapshot, true
}

func (r *MemorySnapshotRepository) Write(snapshot *models.Snapshot) error {
	r.mu.Lock()
	r.snapshot = snapshot
	r.mu.Unlock()
	return nil
}

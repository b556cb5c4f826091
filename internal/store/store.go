// Package store persists the ordered task collection as a single JSON file.
//
// Every operation fails soft: problems are logged and masked with a safe
// default (an empty collection for reads, no durable effect for writes).
// Writes replace the file in place with no locking and no atomic rename, so
// callers must serialize their read-modify-write cycles.
package store

import (
	"errors"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"

	"github.com/tgienger/sticky/internal/logging"
	"github.com/tgienger/sticky/internal/models"
)

// Store is the sole reader and writer of the task file.
type Store struct {
	paths Paths
	log   *log.Logger
}

// New creates a store. Call Initialize before serving requests.
func New(paths Paths, logger *log.Logger) *Store {
	return &Store{
		paths: paths,
		log:   logging.OrDiscard(logger).With("component", "store"),
	}
}

// Paths returns the locations the store uses.
func (s *Store) Paths() Paths {
	return s.paths
}

// Initialize ensures the data directory and task file exist. On first run a
// legacy task file is copied forward byte for byte; without one an empty
// collection is written. Once the canonical file exists this is a no-op.
func (s *Store) Initialize() {
	if err := os.MkdirAll(s.paths.Dir, 0o755); err != nil {
		s.log.Error("create data dir", "dir", s.paths.Dir, "err", err)
		return
	}

	_, err := os.Stat(s.paths.File)
	if err == nil {
		return
	}
	if !errors.Is(err, fs.ErrNotExist) {
		s.log.Error("stat task file", "path", s.paths.File, "err", err)
		return
	}

	if s.migrateLegacy() {
		return
	}

	data, err := Encode(nil)
	if err != nil {
		s.log.Error("encode empty collection", "err", err)
		return
	}
	if err := os.WriteFile(s.paths.File, data, 0o644); err != nil {
		s.log.Error("create task file", "path", s.paths.File, "err", err)
		return
	}
	s.log.Info("created task file", "path", s.paths.File)
}

// migrateLegacy copies the legacy file to the canonical location. It reports
// whether the canonical file now exists.
func (s *Store) migrateLegacy() bool {
	if s.paths.LegacyFile == "" {
		return false
	}

	data, err := os.ReadFile(s.paths.LegacyFile)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn("read legacy task file", "path", s.paths.LegacyFile, "err", err)
		}
		return false
	}

	if err := os.WriteFile(s.paths.File, data, 0o644); err != nil {
		s.log.Error("migrate legacy task file", "from", s.paths.LegacyFile, "to", s.paths.File, "err", err)
		return false
	}
	s.log.Info("migrated legacy task file", "from", s.paths.LegacyFile, "to", s.paths.File)
	return true
}

// ReadAll loads the whole collection. It never fails: a missing, unreadable
// or invalid file yields an empty collection.
func (s *Store) ReadAll() []models.Task {
	data, err := os.ReadFile(s.paths.File)
	if err != nil {
		s.log.Error("read task file", "path", s.paths.File, "err", err)
		return []models.Task{}
	}

	tasks, err := Decode(data)
	if err != nil {
		s.log.Error("decode task file", "path", s.paths.File, "err", err)
		return []models.Task{}
	}
	return tasks
}

// WriteAll replaces the persisted collection with tasks. Failures are logged
// and otherwise ignored.
func (s *Store) WriteAll(tasks []models.Task) {
	data, err := Encode(tasks)
	if err != nil {
		s.log.Error("encode tasks", "err", err)
		return
	}
	if err := os.WriteFile(s.paths.File, data, 0o644); err != nil {
		s.log.Error("write task file", "path", s.paths.File, "err", err)
		return
	}
	s.log.Debug("wrote task file", "path", s.paths.File, "count", len(tasks))
}

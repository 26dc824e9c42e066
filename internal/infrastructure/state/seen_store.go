// Package state provides the file-backed seen-order store: the durable set
// of order IDs that completed the full fulfillment pipeline.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
)

// stateFile is the on-disk shape of the seen-order set. The order of IDs in
// the array is not meaningful.
type stateFile struct {
	SeenOrderIDs []string `json:"seen_order_ids"`
}

// SeenOrderStore is a durable, monotonic set of processed order identifiers
// backed by a single JSON file. The set is loaded once at construction and
// rewritten synchronously on every Mark. There is exactly one in-memory
// generation at a time; the single-pass scheduling model means no concurrent
// writers exist.
type SeenOrderStore struct {
	path   string
	seen   map[string]struct{}
	logger *zap.Logger
}

// NewSeenOrderStore loads the store from path. A missing file yields an empty
// set. A malformed file yields an empty set and a logged warning; it is never
// an error, so a corrupt state file can only cause duplicate processing, not
// a crash at startup.
func NewSeenOrderStore(path string, logger *zap.Logger) *SeenOrderStore {
	if logger == nil {
		logger = zap.NewNop()
	}

	store := &SeenOrderStore{
		path:   path,
		seen:   make(map[string]struct{}),
		logger: logger,
	}
	store.load()
	return store
}

// load reads persisted state into the in-memory set.
func (s *SeenOrderStore) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Info("No seen-order state file, starting with empty set",
				zap.String("path", s.path))
			return
		}
		s.logger.Warn("Failed to read seen-order state file, starting with empty set",
			zap.String("path", s.path),
			zap.Error(err))
		return
	}

	var file stateFile
	if err := json.Unmarshal(data, &file); err != nil {
		s.logger.Warn("Seen-order state file is malformed, starting with empty set",
			zap.String("path", s.path),
			zap.Error(err))
		return
	}

	for _, id := range file.SeenOrderIDs {
		if id != "" {
			s.seen[id] = struct{}{}
		}
	}

	s.logger.Info("Loaded seen-order state",
		zap.String("path", s.path),
		zap.Int("count", len(s.seen)))
}

// Contains reports whether the order ID has already been processed.
func (s *SeenOrderStore) Contains(id string) bool {
	_, ok := s.seen[id]
	return ok
}

// Size returns the number of seen order IDs.
func (s *SeenOrderStore) Size() int {
	return len(s.seen)
}

// Mark inserts the ID into the set and rewrites the backing file. The
// in-memory insert is not rolled back when persistence fails: the ID stays
// seen for the remainder of the process lifetime even though the durable
// copy may be stale. The failure is logged as an error and also returned so
// callers can surface it, but callers must not treat it as "not marked".
func (s *SeenOrderStore) Mark(id string) error {
	s.seen[id] = struct{}{}

	if err := s.persist(); err != nil {
		s.logger.Error("Failed to persist seen-order state; in-memory set still advanced",
			zap.String("order_id", id),
			zap.String("path", s.path),
			zap.Error(err))
		return err
	}
	return nil
}

// persist atomically rewrites the backing file with the full set.
func (s *SeenOrderStore) persist() error {
	ids := make([]string, 0, len(s.seen))
	for id := range s.seen {
		ids = append(ids, id)
	}
	// Stable output makes the file diffable; readers must not rely on it.
	sort.Strings(ids)

	data, err := json.MarshalIndent(stateFile{SeenOrderIDs: ids}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal seen-order state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create state directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".seen-*.json")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp state file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

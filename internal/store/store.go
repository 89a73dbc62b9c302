// Package store persists the engagement, insights and segment collections
// as flat JSON array files. Every store loads the whole file into memory
// and rewrites it wholesale on save; the rewrite is all-or-nothing (temp
// file + rename), so a failure mid-save leaves the previous file intact.
// Concurrent writers are last-writer-wins; callers needing stronger
// guarantees must serialize access externally.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ignite/datacloud-engage/internal/domain"
)

// ErrSegmentNotFound is returned when a segment id does not resolve.
var ErrSegmentNotFound = errors.New("segment not found")

func loadJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) == 0 {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return items, nil
}

func saveJSON[T any](path string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// EngagementStore persists the per-individual engagement records.
type EngagementStore struct {
	path string
	mu   sync.Mutex
}

func NewEngagementStore(path string) *EngagementStore {
	return &EngagementStore{path: path}
}

func (s *EngagementStore) Load() ([]domain.EngagementRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return loadJSON[domain.EngagementRecord](s.path)
}

func (s *EngagementStore) Save(records []domain.EngagementRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveJSON(s.path, records)
}

// Update loads the store, applies fn to the full record slice and saves
// the result. fn runs on in-memory data only; if it returns an error the
// file is left untouched.
func (s *EngagementStore) Update(fn func([]domain.EngagementRecord) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := loadJSON[domain.EngagementRecord](s.path)
	if err != nil {
		return err
	}
	if err := fn(records); err != nil {
		return err
	}
	return saveJSON(s.path, records)
}

// InsightStore persists the append-only insight observations.
type InsightStore struct {
	path string
	mu   sync.Mutex
}

func NewInsightStore(path string) *InsightStore {
	return &InsightStore{path: path}
}

func (s *InsightStore) Load() ([]domain.Insight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return loadJSON[domain.Insight](s.path)
}

func (s *InsightStore) Save(insights []domain.Insight) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveJSON(s.path, insights)
}

// Append adds observations without disturbing history.
func (s *InsightStore) Append(insights []domain.Insight) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, err := loadJSON[domain.Insight](s.path)
	if err != nil {
		return err
	}
	return saveJSON(s.path, append(existing, insights...))
}

// LatestByID returns each individual's current insight, selected by
// maximum event timestamp. Storage order is never used for currency:
// the store allows repeated appends for the same individual, so only the
// timestamp identifies the current observation.
func (s *InsightStore) LatestByID() (map[string]domain.Insight, error) {
	insights, err := s.Load()
	if err != nil {
		return nil, err
	}
	latest := make(map[string]domain.Insight, len(insights))
	for _, in := range insights {
		if in.IndividualID == "" {
			continue
		}
		cur, ok := latest[in.IndividualID]
		if !ok || in.EventTimestamp.After(cur.EventTimestamp) {
			latest[in.IndividualID] = in
		}
	}
	return latest, nil
}

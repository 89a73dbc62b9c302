package store

import (
	"fmt"
	"sync"

	"github.com/ignite/datacloud-engage/internal/domain"
)

// SegmentStore persists saved segments.
type SegmentStore struct {
	path string
	mu   sync.Mutex
}

func NewSegmentStore(path string) *SegmentStore {
	return &SegmentStore{path: path}
}

func (s *SegmentStore) Load() ([]domain.Segment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return loadJSON[domain.Segment](s.path)
}

func (s *SegmentStore) Save(segments []domain.Segment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveJSON(s.path, segments)
}

// Get resolves a segment by id. Two segments may share a name; uniqueness
// is by generated id only.
func (s *SegmentStore) Get(id string) (*domain.Segment, error) {
	segments, err := s.Load()
	if err != nil {
		return nil, err
	}
	for i := range segments {
		if segments[i].ID == id {
			seg := segments[i]
			return &seg, nil
		}
	}
	return nil, fmt.Errorf("segment %s: %w", id, ErrSegmentNotFound)
}

// Add appends a segment to the store.
func (s *SegmentStore) Add(seg domain.Segment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	segments, err := loadJSON[domain.Segment](s.path)
	if err != nil {
		return err
	}
	return saveJSON(s.path, append(segments, seg))
}

// Put replaces the stored segment with the same id.
func (s *SegmentStore) Put(seg domain.Segment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	segments, err := loadJSON[domain.Segment](s.path)
	if err != nil {
		return err
	}
	for i := range segments {
		if segments[i].ID == seg.ID {
			segments[i] = seg
			return saveJSON(s.path, segments)
		}
	}
	return fmt.Errorf("segment %s: %w", seg.ID, ErrSegmentNotFound)
}

// Delete removes a segment by id.
func (s *SegmentStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	segments, err := loadJSON[domain.Segment](s.path)
	if err != nil {
		return err
	}
	for i := range segments {
		if segments[i].ID == id {
			return saveJSON(s.path, append(segments[:i], segments[i+1:]...))
		}
	}
	return fmt.Errorf("segment %s: %w", id, ErrSegmentNotFound)
}

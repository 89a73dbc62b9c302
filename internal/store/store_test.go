package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/datacloud-engage/internal/domain"
)

func TestEngagementStoreMissingFile(t *testing.T) {
	s := NewEngagementStore(filepath.Join(t.TempDir(), "engagement.json"))
	records, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestEngagementStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engagement.json")
	s := NewEngagementStore(path)

	in := []domain.EngagementRecord{
		{ID: "ind-1", Name: "Ada Lovelace", EmailOpens: 12, OmnichannelScore: 4.2},
		{ID: "ind-2", Name: "Grace Hopper", SMSSends: 30},
	}
	require.NoError(t, s.Save(in))

	out, err := s.Load()
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "ind-1", out[0].ID)
	assert.Equal(t, 12, out[0].EmailOpens)
	assert.InDelta(t, 4.2, out[0].OmnichannelScore, 0.001)
}

func TestEngagementStoreUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engagement.json")
	s := NewEngagementStore(path)
	require.NoError(t, s.Save([]domain.EngagementRecord{{ID: "ind-1"}}))

	err := s.Update(func(records []domain.EngagementRecord) error {
		for i := range records {
			records[i].EngagementScore = 7
		}
		return nil
	})
	require.NoError(t, err)

	out, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, 7, out[0].EngagementScore)
}

func TestEngagementStoreUpdateErrorLeavesFileIntact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engagement.json")
	s := NewEngagementStore(path)
	require.NoError(t, s.Save([]domain.EngagementRecord{{ID: "ind-1", EmailOpens: 3}}))

	err := s.Update(func(records []domain.EngagementRecord) error {
		records[0].EmailOpens = 99
		return os.ErrInvalid
	})
	require.Error(t, err)

	out, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, 3, out[0].EmailOpens)
}

func TestInsightStoreLatestByID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "insights.json")
	s := NewInsightStore(path)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Append([]domain.Insight{
		{IndividualID: "ind-1", EventTimestamp: base, CurrentSentiment: "Anxious"},
		{IndividualID: "ind-2", EventTimestamp: base, CurrentSentiment: "Calm"},
	}))
	// A later observation for ind-1 appended out of any particular order.
	require.NoError(t, s.Append([]domain.Insight{
		{IndividualID: "ind-1", EventTimestamp: base.Add(48 * time.Hour), CurrentSentiment: "Happy"},
		{IndividualID: "ind-1", EventTimestamp: base.Add(24 * time.Hour), CurrentSentiment: "Stressed"},
	}))

	latest, err := s.LatestByID()
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, "Happy", latest["ind-1"].CurrentSentiment)
	assert.Equal(t, "Calm", latest["ind-2"].CurrentSentiment)

	// History is preserved, not compacted.
	all, err := s.Load()
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestSegmentStoreCRUD(t *testing.T) {
	path := filepath.Join(t.TempDir(), "segments.json")
	s := NewSegmentStore(path)

	seg := domain.Segment{ID: "seg-1", Name: "High Intent", MemberCount: 4}
	require.NoError(t, s.Add(seg))

	got, err := s.Get("seg-1")
	require.NoError(t, err)
	assert.Equal(t, "High Intent", got.Name)

	seg.MemberCount = 9
	require.NoError(t, s.Put(seg))
	got, err = s.Get("seg-1")
	require.NoError(t, err)
	assert.Equal(t, 9, got.MemberCount)

	require.NoError(t, s.Delete("seg-1"))
	_, err = s.Get("seg-1")
	assert.ErrorIs(t, err, ErrSegmentNotFound)
}

func TestSegmentStoreNotFound(t *testing.T) {
	s := NewSegmentStore(filepath.Join(t.TempDir(), "segments.json"))

	_, err := s.Get("missing")
	assert.ErrorIs(t, err, ErrSegmentNotFound)
	assert.ErrorIs(t, s.Put(domain.Segment{ID: "missing"}), ErrSegmentNotFound)
	assert.ErrorIs(t, s.Delete("missing"), ErrSegmentNotFound)
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewSegmentStore(filepath.Join(dir, "segments.json"))
	require.NoError(t, s.Save([]domain.Segment{{ID: "seg-1"}}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "segments.json", entries[0].Name())
}

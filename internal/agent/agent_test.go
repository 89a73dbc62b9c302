package agent

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/datacloud-engage/internal/content"
	"github.com/ignite/datacloud-engage/internal/domain"
	"github.com/ignite/datacloud-engage/internal/segmentation"
	"github.com/ignite/datacloud-engage/internal/store"
)

func newTestAgent(t *testing.T) *Agent {
	t.Helper()
	dir := t.TempDir()
	engagement := store.NewEngagementStore(filepath.Join(dir, "engagement.json"))
	insights := store.NewInsightStore(filepath.Join(dir, "insights.json"))
	segments := store.NewSegmentStore(filepath.Join(dir, "segments.json"))

	records := []domain.EngagementRecord{
		{ID: "a", Name: "Ada Lovelace", OmnichannelScore: 8.2, EngagementScore: 8, PreferredChannel: domain.ChannelEmail},
		{ID: "b", Name: "Grace Hopper", OmnichannelScore: 6.1, EngagementScore: 6, PreferredChannel: domain.ChannelSMS},
		{ID: "c", Name: "Katherine Johnson", OmnichannelScore: 3.4, EngagementScore: 3, PreferredChannel: domain.ChannelPush},
		{ID: "d", Name: "Mary Jackson", OmnichannelScore: 0.8, EngagementScore: 0},
	}
	require.NoError(t, engagement.Save(records))

	ts := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, insights.Save([]domain.Insight{
		{IndividualID: "a", EventTimestamp: ts, PurchaseIntent: "Very High", CurrentSentiment: "Happy"},
		{IndividualID: "b", EventTimestamp: ts, PurchaseIntent: "Low", CurrentSentiment: "Angry"},
		{IndividualID: "c", EventTimestamp: ts, PurchaseIntent: "High", CurrentSentiment: "Excited"},
	}))

	engine := segmentation.NewEngine(engagement, insights, segments)
	return New(engine, content.NewRenderer(), NewMemoryStore())
}

func TestChatCreatesHighlyEngagedSegment(t *testing.T) {
	a := newTestAgent(t)
	ctx := context.Background()

	resp, err := a.Chat(ctx, "sess-1", "Create a segment of 2 highly engaged individuals")
	require.NoError(t, err)
	assert.Contains(t, resp.Message, "Created segment")
	assert.Contains(t, resp.Message, "Super Engaged Individuals")

	seg, ok := resp.Data.(*domain.Segment)
	require.True(t, ok)
	// a (8.2) and b (6.1) clear the >= 5 bar and fit the cap of 2.
	assert.Equal(t, 2, seg.MemberCount)
	assert.Equal(t, 2, seg.Limit)
}

func TestChatIntentAndSentimentWhitelists(t *testing.T) {
	a := newTestAgent(t)
	ctx := context.Background()

	resp, err := a.Chat(ctx, "sess-1", "Create a segment of happy engaged individuals with high purchase intent")
	require.NoError(t, err)

	seg, ok := resp.Data.(*domain.Segment)
	require.True(t, ok)
	assert.Equal(t, []string{"Very High", "Immediate", "High", "Considering"}, seg.PurchaseIntentFilter)
	assert.NotEmpty(t, seg.SentimentFilter)
	// Only a and c pass both whitelists; c's score (3.4) clears the
	// engaged bar too.
	assert.Equal(t, 2, seg.MemberCount)
}

func TestChatWithoutCriteriaAsksForMore(t *testing.T) {
	a := newTestAgent(t)

	resp, err := a.Chat(context.Background(), "sess-1", "create a segment")
	require.NoError(t, err)
	assert.Contains(t, resp.Message, "criteria")
	assert.NotEmpty(t, resp.Suggestions)
}

func TestChatSessionIsolation(t *testing.T) {
	a := newTestAgent(t)
	ctx := context.Background()

	_, err := a.Chat(ctx, "sess-1", "Create a segment of 3 highly engaged individuals")
	require.NoError(t, err)

	// A different session has no last segment.
	resp, err := a.Chat(ctx, "sess-2", "Preview content for my segment")
	require.NoError(t, err)
	assert.Contains(t, resp.Message, "Create a segment first")

	// The original session previews fine.
	resp, err = a.Chat(ctx, "sess-1", "Preview content for my segment")
	require.NoError(t, err)
	previews, ok := resp.Data.([]MemberPreview)
	require.True(t, ok)
	require.NotEmpty(t, previews)
	assert.Equal(t, "a", previews[0].MemberID)
	assert.NotEmpty(t, previews[0].Message.Body)
}

func TestChatViewAndAnalytics(t *testing.T) {
	a := newTestAgent(t)
	ctx := context.Background()

	resp, err := a.Chat(ctx, "sess-1", "List segments")
	require.NoError(t, err)
	assert.Contains(t, resp.Message, "No segments exist yet")

	_, err = a.Chat(ctx, "sess-1", "Create a segment of 3 engaged individuals")
	require.NoError(t, err)

	resp, err = a.Chat(ctx, "sess-1", "Show me the last segment")
	require.NoError(t, err)
	assert.Contains(t, resp.Message, "currently has")

	resp, err = a.Chat(ctx, "sess-1", "Show segment analytics")
	require.NoError(t, err)
	stats, ok := resp.Data.(*segmentation.Analytics)
	require.True(t, ok)
	assert.Equal(t, 1, stats.TotalSegments)
}

func TestChatUnknownIntentReturnsHelp(t *testing.T) {
	a := newTestAgent(t)

	resp, err := a.Chat(context.Background(), "sess-1", "what is the weather like")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Suggestions)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStore(client, time.Hour)
	ctx := context.Background()

	// Unknown session starts fresh.
	conv, err := s.Get(ctx, "sess-9")
	require.NoError(t, err)
	assert.Equal(t, "sess-9", conv.SessionID)
	assert.Zero(t, conv.MessageCount)

	conv.LastSegmentID = "seg-1"
	conv.LastSegmentName = "Engaged Individuals"
	conv.MessageCount = 2
	require.NoError(t, s.Save(ctx, conv))

	got, err := s.Get(ctx, "sess-9")
	require.NoError(t, err)
	assert.Equal(t, "seg-1", got.LastSegmentID)
	assert.Equal(t, 2, got.MessageCount)

	// TTL applied.
	mr.FastForward(2 * time.Hour)
	got, err = s.Get(ctx, "sess-9")
	require.NoError(t, err)
	assert.Empty(t, got.LastSegmentID)
}

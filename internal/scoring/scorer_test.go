package scoring

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/datacloud-engage/internal/domain"
)

func TestEmailScore(t *testing.T) {
	tests := []struct {
		name string
		rec  domain.EngagementRecord
		want float64
	}{
		{
			name: "opens and clicks with delete penalty",
			rec: domain.EngagementRecord{
				EmailCampaignsReceived: 20,
				EmailOpens:             10,
				EmailClicks:            5,
				EmailDeletes:           2,
			},
			// 50%*0.3 + 25%*0.5 - (2/10*100)*0.5
			want: 17.5,
		},
		{
			name: "never mailed scores zero even with stray opens",
			rec: domain.EngagementRecord{
				EmailOpens:  3,
				EmailClicks: 1,
			},
			want: 0,
		},
		{
			name: "penalties floor at zero",
			rec: domain.EngagementRecord{
				EmailCampaignsReceived: 10,
				EmailOpens:             1,
				EmailBounces:           8,
				EmailUnsubscribes:      5,
				EmailDeletes:           1,
			},
			want: 0,
		},
		{
			name: "rewards cap at one hundred",
			rec: domain.EngagementRecord{
				EmailCampaignsReceived: 10,
				EmailOpens:             10,
				EmailClicks:            30,
			},
			want: 100,
		},
	}

	s := NewScorer()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := tc.rec
			s.ScoreRecord(&rec)
			assert.InDelta(t, tc.want, rec.EmailEngagementScore, 0.001)
		})
	}
}

func TestRateChannelsZeroDenominator(t *testing.T) {
	rec := domain.EngagementRecord{
		SMSOpens:      5,
		WhatsAppReads: 4,
		PushOpens:     3,
	}
	NewScorer().ScoreRecord(&rec)

	assert.Zero(t, rec.SMSEngagementScore)
	assert.Zero(t, rec.WhatsAppEngagementScore)
	assert.Zero(t, rec.PushEngagementScore)
}

func TestWebsiteScore(t *testing.T) {
	rec := domain.EngagementRecord{
		WebsiteProductViews: 50,
		WebsiteAddToCart:    20,
		WebsitePurchases:    10,
	}
	NewScorer().ScoreRecord(&rec)
	assert.InDelta(t, 100.0, rec.WebsiteEngagementScore, 0.001)

	// Half of each ceiling lands at half the score.
	rec = domain.EngagementRecord{
		WebsiteProductViews: 25,
		WebsiteAddToCart:    10,
		WebsitePurchases:    5,
	}
	NewScorer().ScoreRecord(&rec)
	assert.InDelta(t, 50.0, rec.WebsiteEngagementScore, 0.001)
}

func TestSocialScore(t *testing.T) {
	rec := domain.EngagementRecord{SocialViews: 100, SocialClicks: 10}
	NewScorer().ScoreRecord(&rec)
	// view component 100*0.5 plus CTR component 10*0.5
	assert.InDelta(t, 55.0, rec.SocialEngagementScore, 0.001)

	rec = domain.EngagementRecord{SocialClicks: 10}
	NewScorer().ScoreRecord(&rec)
	assert.Zero(t, rec.SocialEngagementScore)
}

func TestOmnichannelAndEngagementScore(t *testing.T) {
	rec := domain.EngagementRecord{
		EmailOpens:  30, // 15 points
		EmailClicks: 15, // 15 points
	}
	NewScorer().ScoreRecord(&rec)
	assert.InDelta(t, 2.0, rec.OmnichannelScore, 0.001)
	assert.Equal(t, 2, rec.EngagementScore)

	// Heavy opt-outs cannot push the 0-10 score negative.
	rec = domain.EngagementRecord{SMSSends: 50, SMSOptOuts: 40}
	NewScorer().ScoreRecord(&rec)
	assert.Equal(t, 0, rec.EngagementScore)
}

func TestPreferredChannelArgmax(t *testing.T) {
	// Omnichannel stays under the threshold, so the pick is deterministic.
	rec := domain.EngagementRecord{
		EmailCampaignsReceived: 10,
		EmailOpens:             4,
		EmailClicks:            1,
		WebsiteProductViews:    30,
		WebsiteAddToCart:       8,
		WebsitePurchases:       2,
	}
	NewScorer().ScoreRecord(&rec)

	require.Less(t, rec.OmnichannelScore, DefaultHighEngagementThreshold)
	assert.Equal(t, domain.ChannelWebsite, rec.PreferredChannel)
	assert.InDelta(t, rec.WebsiteEngagementScore, rec.PreferredChannelScore, 0.001)
}

func TestPreferredChannelEmailFallback(t *testing.T) {
	// Every channel sits under the credibility floor.
	rec := domain.EngagementRecord{
		SMSSends: 100,
		SMSOpens: 10,
	}
	NewScorer().ScoreRecord(&rec)

	require.Less(t, rec.SMSEngagementScore, DefaultMinChannelScore)
	assert.Equal(t, domain.ChannelEmail, rec.PreferredChannel)
	assert.InDelta(t, rec.EmailEngagementScore, rec.PreferredChannelScore, 0.001)
}

func TestPreferredChannelWeightedDraw(t *testing.T) {
	base := domain.EngagementRecord{
		EmailCampaignsReceived: 100,
		EmailOpens:             80,
		EmailClicks:            60,
		SMSSends:               100,
		SMSOpens:               70,
		SMSClicks:              40,
	}

	probe := base
	NewScorer().ScoreRecord(&probe)
	require.Greater(t, probe.OmnichannelScore, DefaultHighEngagementThreshold)

	// The draw only ever lands on a channel clearing the floor, and the
	// reported score is that channel's own score.
	for seed := int64(0); seed < 20; seed++ {
		rec := base
		s := NewScorer(WithRand(rand.New(rand.NewSource(seed))))
		s.ScoreRecord(&rec)

		assert.Contains(t, []domain.Channel{domain.ChannelEmail, domain.ChannelSMS}, rec.PreferredChannel)
		assert.InDelta(t, rec.ChannelScore(rec.PreferredChannel), rec.PreferredChannelScore, 0.001)
	}

	// Same seed, same outcome.
	a, b := base, base
	NewScorer(WithRand(rand.New(rand.NewSource(42)))).ScoreRecord(&a)
	NewScorer(WithRand(rand.New(rand.NewSource(42)))).ScoreRecord(&b)
	assert.Equal(t, a.PreferredChannel, b.PreferredChannel)
}

func TestScoreAllIsIdempotent(t *testing.T) {
	records := []domain.EngagementRecord{
		{ID: "a", EmailCampaignsReceived: 20, EmailOpens: 10, EmailClicks: 5, EmailDeletes: 2},
		{ID: "b", WebsiteProductViews: 25, WebsiteAddToCart: 10, WebsitePurchases: 5},
	}
	s := NewScorer()
	s.ScoreAll(records)
	first := append([]domain.EngagementRecord(nil), records...)

	s.ScoreAll(records)
	for i := range records {
		assert.InDelta(t, first[i].EmailEngagementScore, records[i].EmailEngagementScore, 0.001)
		assert.InDelta(t, first[i].OmnichannelScore, records[i].OmnichannelScore, 0.001)
		assert.Equal(t, first[i].EngagementScore, records[i].EngagementScore)
	}
}

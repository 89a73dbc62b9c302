// Package scoring converts raw per-channel engagement counters into
// comparable 0-100 channel scores and selects each individual's
// preferred outreach channel.
package scoring

import (
	"math"
	"math/rand"

	"github.com/ignite/datacloud-engage/internal/domain"
)

const (
	// DefaultHighEngagementThreshold is the omnichannel score above which
	// preferred-channel selection switches from deterministic argmax to
	// weighted-random draw.
	DefaultHighEngagementThreshold = 6.0

	// DefaultMinChannelScore is the floor below which a channel is not a
	// credible preference; selections that land under it fall back to
	// Email.
	DefaultMinChannelScore = 10.0
)

// Scorer recomputes derived engagement fields on engagement records. The
// per-channel scores are pure functions of the raw counters; only the
// preferred-channel choice for highly engaged individuals consults the
// random source, which is injectable so tests can seed it.
type Scorer struct {
	highEngagementThreshold float64
	minChannelScore         float64
	rng                     *rand.Rand
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithRand sets the random source used for weighted preferred-channel
// draws.
func WithRand(rng *rand.Rand) Option {
	return func(s *Scorer) { s.rng = rng }
}

// WithHighEngagementThreshold overrides the omnichannel threshold.
func WithHighEngagementThreshold(t float64) Option {
	return func(s *Scorer) { s.highEngagementThreshold = t }
}

// WithMinChannelScore overrides the preference floor.
func WithMinChannelScore(m float64) Option {
	return func(s *Scorer) { s.minChannelScore = m }
}

// NewScorer builds a scorer with default thresholds and an unseeded
// random source.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		highEngagementThreshold: DefaultHighEngagementThreshold,
		minChannelScore:         DefaultMinChannelScore,
		rng:                     rand.New(rand.NewSource(rand.Int63())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScoreAll recomputes the derived fields of every record in place.
func (s *Scorer) ScoreAll(records []domain.EngagementRecord) {
	for i := range records {
		s.ScoreRecord(&records[i])
	}
}

// ScoreRecord overwrites the record's derived fields from its raw
// counters. It never fails: missing counters are zero-valued and every
// formula is total.
func (s *Scorer) ScoreRecord(rec *domain.EngagementRecord) {
	rec.EmailEngagementScore = round1(rateScore(
		rec.EmailCampaignsReceived, rec.EmailOpens, rec.EmailClicks,
		rec.EmailBounces, rec.EmailUnsubscribes, rec.EmailDeletes,
		rateWeights[domain.ChannelEmail]))
	rec.SMSEngagementScore = round1(rateScore(
		rec.SMSSends, rec.SMSOpens, rec.SMSClicks,
		0, rec.SMSOptOuts, rec.SMSDeletes,
		rateWeights[domain.ChannelSMS]))
	rec.WhatsAppEngagementScore = round1(rateScore(
		rec.WhatsAppSends, rec.WhatsAppReads, rec.WhatsAppReplies,
		0, rec.WhatsAppOptOuts, rec.WhatsAppDeletes,
		rateWeights[domain.ChannelWhatsApp]))
	rec.PushEngagementScore = round1(rateScore(
		rec.PushSends, rec.PushOpens, rec.PushClicks,
		0, 0, rec.PushDeletes,
		rateWeights[domain.ChannelPush]))
	rec.WebsiteEngagementScore = round1(websiteScore(
		rec.WebsiteProductViews, rec.WebsiteAddToCart, rec.WebsitePurchases))
	rec.SocialEngagementScore = round1(socialScore(rec.SocialViews, rec.SocialClicks))

	omni, overall := omnichannelScore(rec)
	rec.OmnichannelScore = omni
	rec.EngagementScore = overall

	ch, score := s.preferredChannel(rec)
	rec.PreferredChannel = ch
	rec.PreferredChannelScore = round1(score)
}

// rateScore computes the score for a channel with a send denominator.
// A zero denominator means the channel was never used and scores exactly
// 0; penalty terms can never push the result below 0 or rewards above
// 100.
func rateScore(sends, opens, clicks, bounces, optOuts, deletes int, w RateWeights) float64 {
	if sends <= 0 {
		return 0
	}
	denom := float64(sends)
	openRate := float64(opens) / denom * 100
	clickRate := float64(clicks) / denom * 100
	score := openRate*w.Open + clickRate*w.Click
	score -= float64(bounces) / denom * 100 * w.Bounce
	score -= float64(optOuts) / denom * 100 * w.OptOut
	if opens > 0 {
		score -= float64(deletes) / float64(opens) * 100 * w.Delete
	}
	return clamp(score, 0, 100)
}

func websiteScore(views, cartAdds, purchases int) float64 {
	viewScore := math.Min(100, float64(views)/websiteViewCeiling*100)
	cartScore := math.Min(100, float64(cartAdds)/websiteCartCeiling*100)
	purchaseScore := math.Min(100, float64(purchases)/websitePurchaseCeiling*100)
	score := viewScore*websiteViewWeight + cartScore*websiteCartWeight + purchaseScore*websitePurchaseWeight
	return clamp(score, 0, 100)
}

func socialScore(views, clicks int) float64 {
	if views <= 0 {
		return 0
	}
	viewScore := math.Min(100, float64(views)/socialViewCeiling*100)
	ctr := float64(clicks) / float64(views) * 100
	return clamp(viewScore*socialViewWeight+ctr*socialCTRWeight, 0, 100)
}

// omnichannelScore sums weighted raw activity across all channels and
// normalizes it to the continuous omnichannel score and the 0-10
// engagement score.
func omnichannelScore(rec *domain.EngagementRecord) (float64, int) {
	points := float64(rec.EmailOpens)*emailOpenPoints + float64(rec.EmailClicks)*emailClickPoints
	points += float64(rec.WebsiteProductViews)*websiteViewPoints + float64(rec.WebsitePurchases)*websiteBuyPoints
	points += float64(rec.SMSOpens)*smsOpenPoints + float64(rec.SMSClicks)*smsClickPoints - float64(rec.SMSOptOuts)*smsOptOutPoints
	points += float64(rec.WhatsAppReads)*whatsAppReadPoints + float64(rec.WhatsAppReplies)*whatsAppReplyPoints
	points += float64(rec.PushOpens)*pushOpenPoints + float64(rec.PushClicks)*pushClickPoints

	omni := points / omnichannelDivisor
	overall := int(math.Max(0, math.Min(10, math.Trunc(omni))))
	return math.Round(omni*100) / 100, overall
}

// preferredChannel picks the outreach channel for a record whose channel
// scores are already computed. Individuals at or below the
// high-engagement threshold get the deterministic argmax. Above it the
// choice is a weighted-random draw over the channels clearing the floor,
// weighted by score squared - an anti-concentration policy that stops
// every top-tier individual from landing on the same channel. Either
// way, a winner below the floor falls back to Email.
func (s *Scorer) preferredChannel(rec *domain.EngagementRecord) (domain.Channel, float64) {
	var ch domain.Channel
	var score float64

	if rec.OmnichannelScore > s.highEngagementThreshold {
		ch, score = s.weightedPick(rec)
	} else {
		ch, score = argmax(rec)
	}

	if score < s.minChannelScore {
		return domain.ChannelEmail, rec.EmailEngagementScore
	}
	return ch, score
}

func argmax(rec *domain.EngagementRecord) (domain.Channel, float64) {
	best := domain.Channels[0]
	bestScore := rec.ChannelScore(best)
	for _, ch := range domain.Channels[1:] {
		if sc := rec.ChannelScore(ch); sc > bestScore {
			best, bestScore = ch, sc
		}
	}
	return best, bestScore
}

func (s *Scorer) weightedPick(rec *domain.EngagementRecord) (domain.Channel, float64) {
	var candidates []domain.Channel
	var weights []float64
	var total float64
	for _, ch := range domain.Channels {
		sc := rec.ChannelScore(ch)
		if sc < s.minChannelScore {
			continue
		}
		w := sc * sc
		candidates = append(candidates, ch)
		weights = append(weights, w)
		total += w
	}
	if len(candidates) == 0 {
		return argmax(rec)
	}

	draw := s.rng.Float64() * total
	for i, ch := range candidates {
		draw -= weights[i]
		if draw < 0 {
			return ch, rec.ChannelScore(ch)
		}
	}
	last := candidates[len(candidates)-1]
	return last, rec.ChannelScore(last)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Package synthetic fabricates engagement records and insight time
// series for demo environments. Generation is tiered so the population
// shows a realistic split of highly, moderately and barely engaged
// individuals, and fully seedable so fixtures are reproducible.
package synthetic

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/ignite/datacloud-engage/internal/domain"
	"github.com/ignite/datacloud-engage/internal/identity"
)

type tier int

const (
	tierHigh tier = iota
	tierMedium
	tierLow
)

// tierFor splits the population top 20% / middle 50% / bottom 30% by
// position.
func tierFor(index, total int) tier {
	p := float64(index+1) / float64(total)
	switch {
	case p <= 0.20:
		return tierHigh
	case p <= 0.70:
		return tierMedium
	default:
		return tierLow
	}
}

// Generator produces synthetic engagement and insight data.
type Generator struct {
	rng *rand.Rand
	now time.Time
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithSeed makes generation reproducible.
func WithSeed(seed int64) GeneratorOption {
	return func(g *Generator) { g.rng = rand.New(rand.NewSource(seed)) }
}

// WithNow fixes the reference time used for event timestamps.
func WithNow(now time.Time) GeneratorOption {
	return func(g *Generator) { g.now = now }
}

func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// EngagementRecords fabricates one engagement record per identity. Raw
// counters only; derived scores are the channel scorer's job.
func (g *Generator) EngagementRecords(identities []identity.Record) []domain.EngagementRecord {
	records := make([]domain.EngagementRecord, 0, len(identities))
	for i, id := range identities {
		records = append(records, g.record(id, tierFor(i, len(identities))))
	}
	return records
}

func (g *Generator) record(id identity.Record, t tier) domain.EngagementRecord {
	rec := domain.EngagementRecord{
		ID:         id.ID,
		Name:       id.DisplayName,
		DataSource: "synthetic",
	}

	// Email.
	rec.EmailCampaignsReceived = g.between(5, 15)
	switch t {
	case tierHigh:
		rec.EmailOpens = g.between(15, 30)
		rec.EmailClicks = g.between(10, 20)
		rec.EmailBounces = g.between(0, 1)
	case tierMedium:
		rec.EmailOpens = g.between(5, 14)
		rec.EmailClicks = g.between(2, 9)
		rec.EmailBounces = g.between(0, 2)
		if g.rng.Float64() < 0.1 {
			rec.EmailUnsubscribes = 1
		}
	case tierLow:
		rec.EmailOpens = g.between(0, 4)
		rec.EmailClicks = g.between(0, 2)
		rec.EmailBounces = g.between(0, 3)
		if g.rng.Float64() < 0.3 {
			rec.EmailUnsubscribes = 1
		}
	}
	rec.EmailDeletes = g.fraction(rec.EmailOpens, 0.1, 0.3)
	rec.EmailCampaignsEngaged = g.sample(emailCampaigns, min(rec.EmailCampaignsReceived, len(emailCampaigns)))

	// SMS.
	switch t {
	case tierHigh:
		rec.SMSSends = g.between(12, 25)
		rec.SMSOpens = g.between(10, 22)
		rec.SMSClicks = g.between(5, 15)
	case tierMedium:
		rec.SMSSends = g.between(6, 14)
		rec.SMSOpens = g.between(3, 12)
		rec.SMSClicks = g.between(1, 8)
	case tierLow:
		rec.SMSSends = g.between(1, 6)
		rec.SMSOpens = g.between(0, 4)
		rec.SMSClicks = g.between(0, 2)
		rec.SMSOptOuts = g.between(0, 1)
	}
	rec.SMSDeletes = g.fraction(rec.SMSOpens, 0.05, 0.15)

	// WhatsApp.
	switch t {
	case tierHigh:
		rec.WhatsAppSends = g.between(8, 20)
		rec.WhatsAppReads = g.between(7, 18)
		rec.WhatsAppReplies = g.between(3, 12)
	case tierMedium:
		rec.WhatsAppSends = g.between(4, 10)
		rec.WhatsAppReads = g.between(2, 9)
		rec.WhatsAppReplies = g.between(1, 5)
	case tierLow:
		rec.WhatsAppSends = g.between(0, 5)
		rec.WhatsAppReads = g.between(0, 3)
		rec.WhatsAppReplies = g.between(0, 2)
		rec.WhatsAppOptOuts = g.between(0, 1)
	}
	rec.WhatsAppDeletes = g.fraction(rec.WhatsAppReads, 0.02, 0.08)

	// Push.
	switch t {
	case tierHigh:
		rec.PushSends = g.between(15, 30)
		rec.PushOpens = g.between(10, 25)
		rec.PushClicks = g.between(5, 15)
	case tierMedium:
		rec.PushSends = g.between(8, 18)
		rec.PushOpens = g.between(4, 14)
		rec.PushClicks = g.between(2, 8)
	case tierLow:
		rec.PushSends = g.between(2, 10)
		rec.PushOpens = g.between(0, 6)
		rec.PushClicks = g.between(0, 3)
	}
	rec.PushDeletes = g.fraction(rec.PushOpens, 0.2, 0.4)

	// Website.
	switch t {
	case tierHigh:
		rec.WebsiteProductViews = g.between(20, 50)
		rec.WebsiteAddToCart = g.between(5, 15)
		rec.WebsiteCartAbandons = g.between(1, 5)
		rec.WebsitePurchases = g.between(3, 10)
	case tierMedium:
		rec.WebsiteProductViews = g.between(8, 19)
		rec.WebsiteAddToCart = g.between(2, 7)
		rec.WebsiteCartAbandons = g.between(1, 3)
		rec.WebsitePurchases = g.between(1, 4)
	case tierLow:
		rec.WebsiteProductViews = g.between(0, 7)
		rec.WebsiteAddToCart = g.between(0, 3)
		rec.WebsiteCartAbandons = g.between(0, 2)
		rec.WebsitePurchases = g.between(0, 1)
	}

	browsed := g.sampleProducts(g.between(3, 10))
	rec.ProductsBrowsed = productNames(browsed)
	bought := browsed
	if rec.WebsitePurchases < len(bought) {
		bought = bought[:rec.WebsitePurchases]
	}
	rec.ProductsPurchased = productNames(bought)
	for _, p := range bought {
		rec.TotalOrderValue += p.price
	}
	rec.TotalOrderValue = float64(int(rec.TotalOrderValue*100)) / 100
	rec.FavoriteCategory = dominantCategory(browsed)

	// Social.
	rec.SocialViews = g.between(20, 100)
	rec.SocialClicks = g.fraction(rec.SocialViews, 0.05, 0.15)

	rec.LastEngagementDate = g.now.AddDate(0, 0, -g.between(0, 30)).Format(time.RFC3339)
	return rec
}

// Insights fabricates a 90-day observation series for each record.
// Characteristics drift over the series at different rates; purchase
// intent and the imminent event are redrawn every observation.
func (g *Generator) Insights(records []domain.EngagementRecord, minEvents, maxEvents int) []domain.Insight {
	if minEvents <= 0 {
		minEvents = 3
	}
	if maxEvents < minEvents {
		maxEvents = minEvents + 5
	}

	var insights []domain.Insight
	for _, rec := range records {
		sentiment := g.pick(sentiments)
		lifestyle := g.pick(lifestyleQuotients)
		health := g.pick(healthProfiles)
		fitness := g.pick(fitnessMilestones)
		brand := g.pick(favouriteBrands)
		destination := g.pick(favouriteDestinations)
		hobby := g.pick(hobbies)

		for range g.between(minEvents, maxEvents) {
			if g.rng.Float64() < 0.30 {
				sentiment = g.pick(sentiments)
			}
			if g.rng.Float64() < 0.20 {
				lifestyle = g.pick(lifestyleQuotients)
			}
			if g.rng.Float64() < 0.25 {
				health = g.pick(healthProfiles)
			}
			if g.rng.Float64() < 0.15 {
				fitness = g.pick(fitnessMilestones)
			}
			if g.rng.Float64() < 0.10 {
				brand = g.pick(favouriteBrands)
			}
			if g.rng.Float64() < 0.10 {
				destination = g.pick(favouriteDestinations)
			}

			ts := g.now.
				AddDate(0, 0, -g.between(0, 90)).
				Add(-time.Duration(g.between(0, 23)) * time.Hour).
				Add(-time.Duration(g.between(0, 59)) * time.Minute)

			insights = append(insights, domain.Insight{
				IndividualID:         rec.ID,
				EventTimestamp:       ts,
				CurrentSentiment:     sentiment,
				LifestyleQuotient:    lifestyle,
				HealthProfile:        health,
				FitnessMilestone:     fitness,
				PurchaseIntent:       g.pick(purchaseIntents),
				FavouriteBrand:       brand,
				FavouriteDestination: destination,
				Hobby:                hobby,
				ImminentEvent:        g.pick(imminentEvents),
				DataSource:           "synthetic",
			})
		}
	}
	return insights
}

// Identities fabricates n stand-in individuals for environments without
// a CRM source.
func (g *Generator) Identities(n int) []identity.Record {
	records := make([]identity.Record, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, identity.Record{
			ID:          fmt.Sprintf("ind-%04d", i+1),
			DisplayName: g.pick(firstNames) + " " + g.pick(lastNames),
		})
	}
	return records
}

// between returns a uniform int in [lo, hi].
func (g *Generator) between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + g.rng.Intn(hi-lo+1)
}

// fraction returns a uniform int between loRate and hiRate of base.
func (g *Generator) fraction(base int, loRate, hiRate float64) int {
	return g.between(int(float64(base)*loRate), int(float64(base)*hiRate))
}

func (g *Generator) pick(values []string) string {
	return values[g.rng.Intn(len(values))]
}

func (g *Generator) sample(values []string, n int) []string {
	if n > len(values) {
		n = len(values)
	}
	idx := g.rng.Perm(len(values))[:n]
	out := make([]string, n)
	for i, j := range idx {
		out[i] = values[j]
	}
	return out
}

func (g *Generator) sampleProducts(n int) []product {
	if n > len(products) {
		n = len(products)
	}
	idx := g.rng.Perm(len(products))[:n]
	out := make([]product, n)
	for i, j := range idx {
		out[i] = products[j]
	}
	return out
}

func productNames(ps []product) []string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.name
	}
	return names
}

func dominantCategory(ps []product) string {
	if len(ps) == 0 {
		return "None"
	}
	counts := map[string]int{}
	best, bestCount := ps[0].category, 0
	for _, p := range ps {
		counts[p.category]++
		if counts[p.category] > bestCount {
			best, bestCount = p.category, counts[p.category]
		}
	}
	return best
}

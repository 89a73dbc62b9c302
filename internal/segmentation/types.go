// Package segmentation evaluates filter predicates against merged
// engagement+insight records and manages saved segments.
package segmentation

import (
	"errors"
	"fmt"

	"github.com/ignite/datacloud-engage/internal/domain"
)

// ErrUnknownField is returned when a filter references a field that does
// not exist on the merged member record. An unresolvable field is fatal
// for the whole operation - there is no partial result.
var ErrUnknownField = errors.New("unknown filter field")

// ErrBadNumericValue is returned under CoercionStrict when a numeric
// filter carries a literal that cannot be parsed as a number.
var ErrBadNumericValue = errors.New("non-numeric value for numeric field")

// CoercionPolicy controls what happens when a numeric filter's literal
// value fails to parse. DefaultToZero degrades the literal to 0 and
// keeps evaluating; Strict rejects the filter set instead.
type CoercionPolicy int

const (
	CoercionDefaultToZero CoercionPolicy = iota
	CoercionStrict
)

// Member is an engagement record joined with the individual's current
// insight. Insight fields for individuals with no observations default
// to "N/A" (free-text fields to ""), never null, so display code has a
// stable contract.
type Member struct {
	domain.EngagementRecord

	PurchaseIntent       string `json:"purchase_intent"`
	CurrentSentiment     string `json:"current_sentiment"`
	LifestyleQuotient    string `json:"lifestyle_quotient"`
	HealthProfile        string `json:"health_profile"`
	FitnessMilestone     string `json:"fitness_milestone"`
	FavouriteBrand       string `json:"favourite_brand"`
	FavouriteDestination string `json:"favourite_destination"`
	Hobby                string `json:"hobby"`
	ImminentEvent        string `json:"imminent_event"`
}

// MemberResult pairs a segment with its freshly evaluated membership.
type MemberResult struct {
	Segment   domain.Segment `json:"segment"`
	Members   []Member       `json:"members"`
	TotalSize int            `json:"total_size"`
}

// Analytics aggregates the saved segments.
type Analytics struct {
	TotalSegments    int            `json:"total_segments"`
	TotalMembers     int            `json:"total_members"`
	SegmentsByObject map[string]int `json:"segments_by_object"`
}

const insightDefault = "N/A"

// newMember merges one engagement record with the individual's current
// insight (latest by event timestamp), if any.
func newMember(rec domain.EngagementRecord, insight *domain.Insight) Member {
	m := Member{
		EngagementRecord:     rec,
		PurchaseIntent:       insightDefault,
		CurrentSentiment:     insightDefault,
		LifestyleQuotient:    insightDefault,
		HealthProfile:        insightDefault,
		FitnessMilestone:     insightDefault,
		FavouriteBrand:       insightDefault,
		FavouriteDestination: insightDefault,
		Hobby:                insightDefault,
		ImminentEvent:        "",
	}
	if insight != nil {
		m.PurchaseIntent = orDefault(insight.PurchaseIntent)
		m.CurrentSentiment = orDefault(insight.CurrentSentiment)
		m.LifestyleQuotient = orDefault(insight.LifestyleQuotient)
		m.HealthProfile = orDefault(insight.HealthProfile)
		m.FitnessMilestone = orDefault(insight.FitnessMilestone)
		m.FavouriteBrand = orDefault(insight.FavouriteBrand)
		m.FavouriteDestination = orDefault(insight.FavouriteDestination)
		m.Hobby = orDefault(insight.Hobby)
		m.ImminentEvent = insight.ImminentEvent
	}
	return m
}

func orDefault(v string) string {
	if v == "" {
		return insightDefault
	}
	return v
}

// SortScore is the ranking key for member ordering: the better of the
// continuous omnichannel score and the 0-10 engagement score.
func (m *Member) SortScore() float64 {
	if m.OmnichannelScore >= float64(m.EngagementScore) {
		return m.OmnichannelScore
	}
	return float64(m.EngagementScore)
}

// numericFields lists every field compared numerically; filter literals
// against them are coerced to float64 per the engine's CoercionPolicy.
// Everything else compares as a string.
var numericFields = map[string]bool{
	"engagement_score":          true,
	"omnichannel_score":         true,
	"preferred_channel_score":   true,
	"email_campaigns_received":  true,
	"email_opens":               true,
	"email_clicks":              true,
	"email_bounces":             true,
	"email_unsubscribes":        true,
	"email_deletes":             true,
	"sms_sends":                 true,
	"sms_opens":                 true,
	"sms_clicks":                true,
	"sms_deletes":               true,
	"sms_optouts":               true,
	"whatsapp_sends":            true,
	"whatsapp_reads":            true,
	"whatsapp_replies":          true,
	"whatsapp_deletes":          true,
	"whatsapp_optouts":          true,
	"push_sends":                true,
	"push_opens":                true,
	"push_clicks":               true,
	"push_deletes":              true,
	"website_product_views":     true,
	"website_add_to_cart":       true,
	"website_cart_abandons":     true,
	"website_purchases":         true,
	"total_order_value":         true,
	"social_views":              true,
	"social_clicks":             true,
	"email_engagement_score":    true,
	"sms_engagement_score":      true,
	"whatsapp_engagement_score": true,
	"push_engagement_score":     true,
	"website_engagement_score":  true,
	"social_engagement_score":   true,
}

// stringFields lists the member fields compared as strings. Together
// with numericFields this is the full filterable field universe; a field
// in neither set is unknown and fatal to the filter run.
var stringFields = map[string]bool{
	"id":                      true,
	"name":                    true,
	"first_name":              true,
	"last_name":               true,
	"email":                   true,
	"phone":                   true,
	"profile_picture_url":     true,
	"email_campaigns_engaged": true,
	"products_browsed":        true,
	"products_purchased":      true,
	"favorite_category":       true,
	"last_engagement_date":    true,
	"data_source":             true,
	"preferred_channel":       true,
	"purchase_intent":         true,
	"current_sentiment":       true,
	"lifestyle_quotient":      true,
	"health_profile":          true,
	"fitness_milestone":       true,
	"favourite_brand":         true,
	"favourite_destination":   true,
	"hobby":                   true,
	"imminent_event":          true,
}

func knownField(name string) bool {
	return numericFields[name] || stringFields[name]
}

// ValidateFilters rejects filter sets with unsupported operators before
// any evaluation work happens.
func ValidateFilters(filters []domain.Filter) error {
	for _, f := range filters {
		ok := false
		for _, op := range domain.Operators {
			if f.Operator == op {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("filter on %q: unsupported operator %q", f.Field, f.Operator)
		}
	}
	return nil
}

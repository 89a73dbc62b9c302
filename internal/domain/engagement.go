package domain

import "time"

// Channel identifies one of the communication/commerce channels an
// individual can engage on.
type Channel string

const (
	ChannelEmail    Channel = "Email"
	ChannelSMS      Channel = "SMS"
	ChannelWhatsApp Channel = "WhatsApp"
	ChannelPush     Channel = "Push"
	ChannelWebsite  Channel = "Website"
	ChannelSocial   Channel = "Social"
)

// Channels lists every channel in scoring order.
var Channels = []Channel{ChannelEmail, ChannelSMS, ChannelWhatsApp, ChannelPush, ChannelWebsite, ChannelSocial}

// EngagementRecord holds the raw per-channel counters and the derived
// scores for a single individual. Raw counters are written by the data
// generation routines; derived fields are overwritten in place by the
// channel scorer. Records are never deleted individually - the whole
// store is the unit of replacement.
type EngagementRecord struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`

	// Stored as a base64 data URL so the record stays self-contained.
	ProfilePictureURL string `json:"profile_picture_url,omitempty"`

	// Email channel. Campaigns received is the rate denominator.
	EmailCampaignsReceived int      `json:"email_campaigns_received"`
	EmailOpens             int      `json:"email_opens"`
	EmailClicks            int      `json:"email_clicks"`
	EmailBounces           int      `json:"email_bounces"`
	EmailUnsubscribes      int      `json:"email_unsubscribes"`
	EmailDeletes           int      `json:"email_deletes"`
	EmailCampaignsEngaged  []string `json:"email_campaigns_engaged,omitempty"`

	// SMS channel.
	SMSSends   int `json:"sms_sends"`
	SMSOpens   int `json:"sms_opens"`
	SMSClicks  int `json:"sms_clicks"`
	SMSDeletes int `json:"sms_deletes"`
	SMSOptOuts int `json:"sms_optouts"`

	// WhatsApp channel. Reads play the role of opens, replies of clicks.
	WhatsAppSends   int `json:"whatsapp_sends"`
	WhatsAppReads   int `json:"whatsapp_reads"`
	WhatsAppReplies int `json:"whatsapp_replies"`
	WhatsAppDeletes int `json:"whatsapp_deletes"`
	WhatsAppOptOuts int `json:"whatsapp_optouts"`

	// Push notifications.
	PushSends   int `json:"push_sends"`
	PushOpens   int `json:"push_opens"`
	PushClicks  int `json:"push_clicks"`
	PushDeletes int `json:"push_deletes"`

	// Website commerce activity.
	WebsiteProductViews int      `json:"website_product_views"`
	WebsiteAddToCart    int      `json:"website_add_to_cart"`
	WebsiteCartAbandons int      `json:"website_cart_abandons"`
	WebsitePurchases    int      `json:"website_purchases"`
	TotalOrderValue     float64  `json:"total_order_value"`
	ProductsBrowsed     []string `json:"products_browsed,omitempty"`
	ProductsPurchased   []string `json:"products_purchased,omitempty"`
	FavoriteCategory    string   `json:"favorite_category,omitempty"`

	// Social media.
	SocialViews  int `json:"social_views"`
	SocialClicks int `json:"social_clicks"`

	LastEngagementDate string `json:"last_engagement_date,omitempty"`
	DataSource         string `json:"data_source,omitempty"`

	// Derived fields, recomputed deterministically from the raw counters
	// above. A channel with a zero denominator scores exactly 0.
	EmailEngagementScore    float64 `json:"email_engagement_score"`
	SMSEngagementScore      float64 `json:"sms_engagement_score"`
	WhatsAppEngagementScore float64 `json:"whatsapp_engagement_score"`
	PushEngagementScore     float64 `json:"push_engagement_score"`
	WebsiteEngagementScore  float64 `json:"website_engagement_score"`
	SocialEngagementScore   float64 `json:"social_engagement_score"`

	PreferredChannel      Channel `json:"preferred_channel,omitempty"`
	PreferredChannelScore float64 `json:"preferred_channel_score"`

	// EngagementScore summarizes cross-channel activity on a 0-10 scale;
	// OmnichannelScore is the continuous value it is truncated from.
	EngagementScore  int     `json:"engagement_score"`
	OmnichannelScore float64 `json:"omnichannel_score"`
}

// ChannelScore returns the derived score for the named channel.
func (r *EngagementRecord) ChannelScore(ch Channel) float64 {
	switch ch {
	case ChannelEmail:
		return r.EmailEngagementScore
	case ChannelSMS:
		return r.SMSEngagementScore
	case ChannelWhatsApp:
		return r.WhatsAppEngagementScore
	case ChannelPush:
		return r.PushEngagementScore
	case ChannelWebsite:
		return r.WebsiteEngagementScore
	case ChannelSocial:
		return r.SocialEngagementScore
	}
	return 0
}

// Insight is a timestamped psychographic observation for one individual.
// The insights store is append-only: history is kept, and the record with
// the maximum event timestamp is the individual's current state.
type Insight struct {
	IndividualID   string    `json:"individual_id"`
	EventTimestamp time.Time `json:"event_timestamp"`

	CurrentSentiment     string `json:"current_sentiment"`
	LifestyleQuotient    string `json:"lifestyle_quotient"`
	HealthProfile        string `json:"health_profile"`
	FitnessMilestone     string `json:"fitness_milestone"`
	PurchaseIntent       string `json:"purchase_intent"`
	FavouriteBrand       string `json:"favourite_brand"`
	FavouriteDestination string `json:"favourite_destination"`
	Hobby                string `json:"hobby"`
	ImminentEvent        string `json:"imminent_event"`

	DataSource string `json:"data_source,omitempty"`
}

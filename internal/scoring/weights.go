package scoring

import "github.com/ignite/datacloud-engage/internal/domain"

// RateWeights combine the open/click rates of a send-denominator channel
// and the penalty rates for its negative signals. Open and click rates
// are percentages of the send denominator; bounce and opt-out penalty
// rates are too. The delete penalty rate is a percentage of opens, since
// a delete presupposes an open. Clicks always outweigh opens: an opened
// message is interest, a clicked one is engagement.
type RateWeights struct {
	Open   float64
	Click  float64
	Bounce float64
	OptOut float64
	Delete float64
}

var rateWeights = map[domain.Channel]RateWeights{
	domain.ChannelEmail:    {Open: 0.3, Click: 0.5, Bounce: 0.2, OptOut: 0.5, Delete: 0.5},
	domain.ChannelSMS:      {Open: 0.4, Click: 0.6, OptOut: 0.5, Delete: 0.3},
	domain.ChannelWhatsApp: {Open: 0.4, Click: 0.6, OptOut: 0.5, Delete: 0.2},
	domain.ChannelPush:     {Open: 0.4, Click: 0.6, Delete: 0.3},
}

// Website activity is normalized against fixed reference ceilings
// (50 product views, 20 cart adds, 10 purchases each count as 100%) and
// weighted so purchases dominate.
const (
	websiteViewCeiling     = 50
	websiteCartCeiling     = 20
	websitePurchaseCeiling = 10

	websiteViewWeight     = 0.3
	websiteCartWeight     = 0.3
	websitePurchaseWeight = 0.4
)

// Social blends normalized view volume with click-through rate.
const (
	socialViewCeiling = 100
	socialViewWeight  = 0.5
	socialCTRWeight   = 0.5
)

// Omnichannel activity points per raw interaction, summed across
// channels and divided by omnichannelDivisor to produce the continuous
// omnichannel score. The 0-10 engagement score is the truncated,
// clamped integer form of the same value.
const (
	emailOpenPoints     = 0.5
	emailClickPoints    = 1.0
	websiteViewPoints   = 0.2
	websiteBuyPoints    = 2.0
	smsOpenPoints       = 0.4
	smsClickPoints      = 0.8
	smsOptOutPoints     = 2.0
	whatsAppReadPoints  = 0.5
	whatsAppReplyPoints = 1.5
	pushOpenPoints      = 0.3
	pushClickPoints     = 0.6

	omnichannelDivisor = 15.0
)

package content

import "github.com/ignite/datacloud-engage/internal/domain"

type channelTemplate struct {
	subject string
	body    string
}

// Default outbound templates per channel. Insight fields may be "N/A"
// for individuals without observations, so every reference carries a
// default filter.
var channelTemplates = map[domain.Channel]channelTemplate{
	domain.ChannelEmail: {
		subject: `{{ name | first_word | default: "Friend" }}, picks for your {{ hobby | default: "next adventure" }}`,
		body: `Hi {{ name | first_word | default: "there" }},

We noticed you love {{ favorite_category | default: "our catalog" }}. ` +
			`{% if favourite_brand != "N/A" %}New arrivals from {{ favourite_brand }} just landed. {% endif %}` +
			`{% if imminent_event != "" %}Good luck with this: {{ imminent_event }}.{% endif %}

Your engagement score is {{ omnichannel_score | score }} and you've spent {{ total_order_value | currency }} with us so far.

See you soon!`,
	},
	domain.ChannelSMS: {
		body: `{{ name | first_word | default: "Hi" }}: {{ favorite_category | default: "New" }} deals are live. ` +
			`{% if purchase_intent == "Very High" or purchase_intent == "Immediate" %}Your cart is one tap away.{% else %}Take a look when you can.{% endif %}`,
	},
	domain.ChannelWhatsApp: {
		body: `Hey {{ name | first_word | default: "there" }}! ` +
			`{% if favourite_destination != "N/A" %}Planning a trip to {{ favourite_destination }}? {% endif %}` +
			`We picked a few {{ favorite_category | default: "great" }} items for you. Reply YES for the list.`,
	},
	domain.ChannelPush: {
		body: `{{ favorite_category | default: "Fresh" }} picks for {{ name | first_word | default: "you" }} are in. Tap to browse.`,
	},
	domain.ChannelWebsite: {
		body: `Welcome back {{ name | first_word | default: "" }}! Your {{ favorite_category | default: "recommended" }} picks are on the homepage.`,
	},
	domain.ChannelSocial: {
		body: `{{ name | first_word | default: "You" }}, your {{ hobby | default: "interests" }} feed has new posts worth a look.`,
	},
}

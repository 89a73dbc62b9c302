// Package content renders per-member outbound messages from Liquid
// templates, fed by the member's engagement scores and current insight
// fields.
package content

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/osteele/liquid"

	"github.com/ignite/datacloud-engage/internal/domain"
	"github.com/ignite/datacloud-engage/internal/segmentation"
)

// Message is a rendered piece of outbound content. Subject is empty for
// channels that have no subject line.
type Message struct {
	Channel domain.Channel `json:"channel"`
	Subject string         `json:"subject,omitempty"`
	Body    string         `json:"body"`
}

// Renderer compiles and renders Liquid templates with a compiled
// template cache.
type Renderer struct {
	engine *liquid.Engine
	cache  sync.Map // cacheKey -> *liquid.Template
}

func NewRenderer() *Renderer {
	r := &Renderer{engine: liquid.NewEngine()}
	r.registerFilters()
	return r
}

func (r *Renderer) registerFilters() {
	// {{ first_name | default: "there" }}
	r.engine.RegisterFilter("default", func(value any, fallback string) any {
		if value == nil {
			return fallback
		}
		s := fmt.Sprintf("%v", value)
		if s == "" || s == "N/A" || s == "<nil>" {
			return fallback
		}
		return value
	})

	// {{ total_order_value | currency }}
	r.engine.RegisterFilter("currency", func(value any) string {
		switch v := value.(type) {
		case float64:
			return fmt.Sprintf("$%.2f", v)
		case int:
			return fmt.Sprintf("$%.2f", float64(v))
		case string:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return v
			}
			return fmt.Sprintf("$%.2f", f)
		}
		return fmt.Sprintf("%v", value)
	})

	// {{ omnichannel_score | score }}
	r.engine.RegisterFilter("score", func(value any) string {
		switch v := value.(type) {
		case float64:
			return strconv.FormatFloat(v, 'f', 1, 64)
		case int:
			return strconv.Itoa(v)
		}
		return fmt.Sprintf("%v", value)
	})

	// {{ name | first_word }} turns a display name into a greeting name.
	r.engine.RegisterFilter("first_word", func(s string) string {
		fields := strings.Fields(s)
		if len(fields) == 0 {
			return s
		}
		return fields[0]
	})
}

// Parse compiles a template string, surfacing syntax errors.
func (r *Renderer) Parse(tpl string) error {
	if _, err := r.engine.ParseString(tpl); err != nil {
		return fmt.Errorf("parse template: %w", err)
	}
	return nil
}

// Render renders a template against bindings. A non-empty cacheKey
// caches the compiled template for repeated renders.
func (r *Renderer) Render(cacheKey, tpl string, bindings map[string]any) (string, error) {
	if cacheKey != "" {
		if cached, ok := r.cache.Load(cacheKey); ok {
			out, err := cached.(*liquid.Template).RenderString(bindings)
			if err != nil {
				return "", fmt.Errorf("render template %s: %w", cacheKey, err)
			}
			return out, nil
		}
	}

	compiled, err := r.engine.ParseString(tpl)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}
	if cacheKey != "" {
		r.cache.Store(cacheKey, compiled)
	}
	out, err := compiled.RenderString(bindings)
	if err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return out, nil
}

// ClearCache drops every compiled template.
func (r *Renderer) ClearCache() {
	r.cache = sync.Map{}
}

// ForMember renders the member's message on the given channel using the
// built-in channel templates. An empty channel uses the member's
// preferred channel, falling back to Email.
func (r *Renderer) ForMember(m *segmentation.Member, ch domain.Channel) (*Message, error) {
	if ch == "" {
		ch = m.PreferredChannel
	}
	if ch == "" {
		ch = domain.ChannelEmail
	}
	tpl, ok := channelTemplates[ch]
	if !ok {
		return nil, fmt.Errorf("no template for channel %q", ch)
	}

	bindings := Bindings(m)
	msg := &Message{Channel: ch}
	if tpl.subject != "" {
		subject, err := r.Render("subject:"+string(ch), tpl.subject, bindings)
		if err != nil {
			return nil, err
		}
		msg.Subject = subject
	}
	body, err := r.Render("body:"+string(ch), tpl.body, bindings)
	if err != nil {
		return nil, err
	}
	msg.Body = body
	return msg, nil
}

// Bindings exposes the member fields templates may reference.
func Bindings(m *segmentation.Member) map[string]any {
	return map[string]any{
		"id":                      m.ID,
		"name":                    m.Name,
		"first_name":              m.FirstName,
		"email":                   m.Email,
		"preferred_channel":       string(m.PreferredChannel),
		"preferred_channel_score": m.PreferredChannelScore,
		"engagement_score":        m.EngagementScore,
		"omnichannel_score":       m.OmnichannelScore,
		"favorite_category":       m.FavoriteCategory,
		"total_order_value":       m.TotalOrderValue,
		"products_browsed":        m.ProductsBrowsed,
		"products_purchased":      m.ProductsPurchased,
		"purchase_intent":         m.PurchaseIntent,
		"current_sentiment":       m.CurrentSentiment,
		"lifestyle_quotient":      m.LifestyleQuotient,
		"health_profile":          m.HealthProfile,
		"fitness_milestone":       m.FitnessMilestone,
		"favourite_brand":         m.FavouriteBrand,
		"favourite_destination":   m.FavouriteDestination,
		"hobby":                   m.Hobby,
		"imminent_event":          m.ImminentEvent,
	}
}

// Package agent answers natural-language audience requests with keyword
// intent detection. It creates segments, lists them, reports analytics
// and previews personalized content; state between turns is a
// per-session Conversation.
package agent

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ignite/datacloud-engage/internal/content"
	"github.com/ignite/datacloud-engage/internal/domain"
	"github.com/ignite/datacloud-engage/internal/segmentation"
)

// ChatResponse is one agent turn.
type ChatResponse struct {
	Message     string   `json:"message"`
	Data        any      `json:"data,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Agent turns chat messages into segmentation engine calls.
type Agent struct {
	engine   *segmentation.Engine
	renderer *content.Renderer
	convs    ConversationStore
}

func New(engine *segmentation.Engine, renderer *content.Renderer, convs ConversationStore) *Agent {
	return &Agent{engine: engine, renderer: renderer, convs: convs}
}

type intent int

const (
	intentUnknown intent = iota
	intentCreateSegment
	intentViewSegments
	intentAnalytics
	intentPreviewContent
)

var intentKeywords = []struct {
	intent   intent
	keywords []string
}{
	{intentPreviewContent, []string{
		"preview content", "personalized content", "generate content",
		"generate email", "render content", "what would we send",
	}},
	{intentViewSegments, []string{
		"show me the", "view the", "last segment", "recent segment",
		"my segment", "list segments", "which segment", "what segment",
	}},
	{intentCreateSegment, []string{
		"create a segment", "create segment", "new segment", "make a segment",
		"make segment", "build segment", "segment of", "filter individuals",
	}},
	{intentAnalytics, []string{
		"analytics", "how many segments", "segment stats", "summary",
	}},
}

func detectIntent(message string) intent {
	for _, group := range intentKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(message, kw) {
				return group.intent
			}
		}
	}
	return intentUnknown
}

// Chat processes one user message within a session.
func (a *Agent) Chat(ctx context.Context, sessionID, message string) (*ChatResponse, error) {
	conv, err := a.convs.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	conv.MessageCount++
	conv.UpdatedAt = time.Now().UTC()

	lower := strings.ToLower(message)
	var resp *ChatResponse
	switch detectIntent(lower) {
	case intentCreateSegment:
		resp, err = a.createSegment(conv, message, lower)
	case intentViewSegments:
		resp, err = a.viewSegments(conv, lower)
	case intentAnalytics:
		resp, err = a.analytics()
	case intentPreviewContent:
		resp, err = a.previewContent(conv)
	default:
		resp = a.help()
	}
	if err != nil {
		return nil, err
	}

	if err := a.convs.Save(ctx, conv); err != nil {
		return nil, err
	}
	return resp, nil
}

var (
	sizePattern    = regexp.MustCompile(`(?i)(?:top\s+)?(\d+)(?:\s+\w+)*\s+individuals?`)
	sizeAltPattern = regexp.MustCompile(`(?i)(\d+)\s+(?:most|top|highly)`)

	// "Considering" counts as purchase interest; only clearly negative
	// sentiments are excluded from the positive set.
	highIntentSet   = []string{"Very High", "Immediate", "High", "Considering"}
	anyIntentSet    = []string{"Very High", "Immediate", "High", "Considering", "Medium"}
	positiveMoodSet = []string{"Happy", "Elated", "Excited", "Calm", "Content", "Anxious", "Stressed"}
)

const defaultSegmentName = "Agent Generated Segment"

// segmentRequest is what keyword parsing extracts from a message.
type segmentRequest struct {
	name    string
	filters []domain.Filter
	ref     segmentation.Refinements
}

func (r *segmentRequest) empty() bool {
	return len(r.filters) == 0 && r.ref.Limit == 0 &&
		len(r.ref.PurchaseIntentFilter) == 0 && len(r.ref.SentimentFilter) == 0
}

func parseSegmentRequest(lower string) segmentRequest {
	req := segmentRequest{name: defaultSegmentName}

	switch {
	case strings.Contains(lower, "super engaged"),
		strings.Contains(lower, "highly engaged"),
		strings.Contains(lower, "high engagement"):
		req.filters = append(req.filters, domain.Filter{
			Field: "omnichannel_score", Operator: domain.OpGreaterThanOrEqual, Value: "5",
		})
		req.name = "Super Engaged Individuals"
	case strings.Contains(lower, "engaged"):
		req.filters = append(req.filters, domain.Filter{
			Field: "omnichannel_score", Operator: domain.OpGreaterThanOrEqual, Value: "3",
		})
		req.name = "Engaged Individuals"
	}

	hasIntentWord := strings.Contains(lower, "intent") || strings.Contains(lower, "purchase")
	switch {
	case hasIntentWord && (strings.Contains(lower, "very high") ||
		strings.Contains(lower, "immediate") || strings.Contains(lower, "high")):
		req.ref.PurchaseIntentFilter = highIntentSet
		if req.name == defaultSegmentName {
			req.name = "High Intent Individuals"
		} else {
			req.name = "High Intent " + req.name
		}
	case hasIntentWord:
		req.ref.PurchaseIntentFilter = anyIntentSet
	}

	switch {
	case strings.Contains(lower, "positive emotion"), strings.Contains(lower, "emotional high"),
		strings.Contains(lower, "happy"), strings.Contains(lower, "excited"):
		req.ref.SentimentFilter = positiveMoodSet
		if req.name != defaultSegmentName {
			req.name = "Positive " + req.name
		}
	case strings.Contains(lower, "emotion"), strings.Contains(lower, "sentiment"):
		req.ref.SentimentFilter = positiveMoodSet
	}

	if m := sizePattern.FindStringSubmatch(lower); m != nil {
		req.ref.Limit, _ = strconv.Atoi(m[1])
	} else if m := sizeAltPattern.FindStringSubmatch(lower); m != nil {
		req.ref.Limit, _ = strconv.Atoi(m[1])
	}
	if req.ref.Limit > 0 && len(req.filters) == 0 && req.name == defaultSegmentName {
		req.name = fmt.Sprintf("Top %d Engaged Individuals", req.ref.Limit)
	}

	return req
}

func (a *Agent) createSegment(conv *Conversation, original, lower string) (*ChatResponse, error) {
	req := parseSegmentRequest(lower)
	if req.empty() {
		return &ChatResponse{
			Message: "I can create a segment, but I need criteria. Try an engagement level, purchase intent, sentiment, or a size cap.",
			Suggestions: []string{
				"Create a segment of 25 highly engaged individuals",
				"Create a segment of individuals with high purchase intent",
				"Create a segment of happy, engaged individuals",
			},
		}, nil
	}

	seg, err := a.engine.CreateSegment(req.name,
		"Agent-generated segment based on: "+original,
		"UnifiedIndividual", req.filters, req.ref)
	if err != nil {
		return nil, fmt.Errorf("agent create segment: %w", err)
	}

	conv.LastSegmentID = seg.ID
	conv.LastSegmentName = seg.Name

	return &ChatResponse{
		Message: fmt.Sprintf("Created segment %q with %d members.", seg.Name, seg.MemberCount),
		Data:    seg,
		Suggestions: []string{
			"Show me the last segment",
			"Preview content for this segment",
			"Show segment analytics",
		},
	}, nil
}

func (a *Agent) viewSegments(conv *Conversation, lower string) (*ChatResponse, error) {
	if strings.Contains(lower, "list segments") || conv.LastSegmentID == "" {
		segments, err := a.engine.ListSegments()
		if err != nil {
			return nil, err
		}
		if len(segments) == 0 {
			return &ChatResponse{
				Message:     "No segments exist yet.",
				Suggestions: []string{"Create a segment of 25 highly engaged individuals"},
			}, nil
		}
		names := make([]string, len(segments))
		for i, s := range segments {
			names[i] = fmt.Sprintf("%s (%d members)", s.Name, s.MemberCount)
		}
		return &ChatResponse{
			Message: fmt.Sprintf("You have %d segments: %s.", len(segments), strings.Join(names, ", ")),
			Data:    segments,
		}, nil
	}

	res, err := a.engine.SegmentMembers(conv.LastSegmentID)
	if err != nil {
		return nil, err
	}
	return &ChatResponse{
		Message: fmt.Sprintf("Segment %q currently has %d members.", res.Segment.Name, res.TotalSize),
		Data:    res,
		Suggestions: []string{
			"Preview content for this segment",
			"Show segment analytics",
		},
	}, nil
}

func (a *Agent) analytics() (*ChatResponse, error) {
	stats, err := a.engine.Analytics()
	if err != nil {
		return nil, err
	}
	return &ChatResponse{
		Message: fmt.Sprintf("%d segments covering %d memberships.", stats.TotalSegments, stats.TotalMembers),
		Data:    stats,
	}, nil
}

// MemberPreview pairs a segment member with the message they would
// receive on their preferred channel.
type MemberPreview struct {
	MemberID string           `json:"member_id"`
	Name     string           `json:"name"`
	Message  *content.Message `json:"message"`
}

// previewContent renders messages for the top members of the session's
// last segment.
func (a *Agent) previewContent(conv *Conversation) (*ChatResponse, error) {
	if conv.LastSegmentID == "" {
		return &ChatResponse{
			Message:     "Create a segment first, then I can preview its content.",
			Suggestions: []string{"Create a segment of 25 highly engaged individuals"},
		}, nil
	}
	res, err := a.engine.SegmentMembers(conv.LastSegmentID)
	if err != nil {
		return nil, err
	}
	if len(res.Members) == 0 {
		return &ChatResponse{Message: fmt.Sprintf("Segment %q has no members to personalize for.", res.Segment.Name)}, nil
	}

	const previewCap = 3
	n := len(res.Members)
	if n > previewCap {
		n = previewCap
	}
	previews := make([]MemberPreview, 0, n)
	for i := 0; i < n; i++ {
		m := res.Members[i]
		msg, err := a.renderer.ForMember(&m, "")
		if err != nil {
			return nil, fmt.Errorf("preview content for %s: %w", m.ID, err)
		}
		previews = append(previews, MemberPreview{MemberID: m.ID, Name: m.Name, Message: msg})
	}

	return &ChatResponse{
		Message: fmt.Sprintf("Here is what the top %d members of %q would receive on their preferred channels.", n, res.Segment.Name),
		Data:    previews,
	}, nil
}

func (a *Agent) help() *ChatResponse {
	return &ChatResponse{
		Message: "I can create audience segments, show existing ones, report analytics, and preview personalized content.",
		Suggestions: []string{
			"Create a segment of 25 highly engaged individuals",
			"Create a segment of happy individuals with high purchase intent",
			"List segments",
			"Show segment analytics",
		},
	}
}

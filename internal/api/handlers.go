package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ignite/datacloud-engage/internal/agent"
	"github.com/ignite/datacloud-engage/internal/content"
	"github.com/ignite/datacloud-engage/internal/domain"
	"github.com/ignite/datacloud-engage/internal/pkg/logger"
	"github.com/ignite/datacloud-engage/internal/scoring"
	"github.com/ignite/datacloud-engage/internal/segmentation"
	"github.com/ignite/datacloud-engage/internal/store"
)

const apiVersion = "1.0.0"

// Handlers bundles the request handlers and their collaborators.
type Handlers struct {
	engagement *store.EngagementStore
	scorer     *scoring.Scorer
	engine     *segmentation.Engine
	renderer   *content.Renderer
	agent      *agent.Agent
	startTime  time.Time
}

func NewHandlers(
	engagement *store.EngagementStore,
	scorer *scoring.Scorer,
	engine *segmentation.Engine,
	renderer *content.Renderer,
	audienceAgent *agent.Agent,
) *Handlers {
	return &Handlers{
		engagement: engagement,
		scorer:     scorer,
		engine:     engine,
		renderer:   renderer,
		agent:      audienceAgent,
		startTime:  time.Now(),
	}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			logger.Error("encode response", "error", err)
		}
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusFor maps engine errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrSegmentNotFound):
		return http.StatusNotFound
	case errors.Is(err, segmentation.ErrUnknownField),
		errors.Is(err, segmentation.ErrBadNumericValue):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// HealthCheck reports liveness.
//
//	GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"version": apiVersion,
		"uptime":  time.Since(h.startTime).Round(time.Second).String(),
	})
}

// ListEngagement returns every scored record, most engaged first.
//
//	GET /api/individuals/engagement
func (h *Handlers) ListEngagement(w http.ResponseWriter, _ *http.Request) {
	records, err := h.engagement.Load()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].OmnichannelScore > records[j].OmnichannelScore
	})
	respondJSON(w, http.StatusOK, map[string]any{
		"individuals": records,
		"total":       len(records),
	})
}

// RecalculateScores reruns the channel scorer over the whole store.
//
//	POST /api/scores/recalculate
func (h *Handlers) RecalculateScores(w http.ResponseWriter, _ *http.Request) {
	var scored int
	err := h.engagement.Update(func(records []domain.EngagementRecord) error {
		h.scorer.ScoreAll(records)
		scored = len(records)
		return nil
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	logger.Info("scores recalculated", "records", scored)
	respondJSON(w, http.StatusOK, map[string]any{"scored": scored})
}

type createSegmentRequest struct {
	Name                 string          `json:"name"`
	Description          string          `json:"description"`
	BaseObject           string          `json:"base_object"`
	Filters              []domain.Filter `json:"filters"`
	Limit                int             `json:"limit"`
	PurchaseIntentFilter []string        `json:"purchase_intent_filter"`
	SentimentFilter      []string        `json:"sentiment_filter"`
}

// CreateSegment evaluates and persists a new segment.
//
//	POST /api/segments
func (h *Handlers) CreateSegment(w http.ResponseWriter, r *http.Request) {
	var req createSegmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.BaseObject == "" {
		req.BaseObject = "UnifiedIndividual"
	}

	seg, err := h.engine.CreateSegment(req.Name, req.Description, req.BaseObject, req.Filters, segmentation.Refinements{
		Limit:                req.Limit,
		PurchaseIntentFilter: req.PurchaseIntentFilter,
		SentimentFilter:      req.SentimentFilter,
	})
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	logger.Info("segment created", "segment_id", seg.ID, "members", seg.MemberCount)
	respondJSON(w, http.StatusCreated, seg)
}

// ListSegments returns all saved segments.
//
//	GET /api/segments
func (h *Handlers) ListSegments(w http.ResponseWriter, _ *http.Request) {
	segments, err := h.engine.ListSegments()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"segments": segments,
		"total":    len(segments),
	})
}

// GetSegment returns one saved segment.
//
//	GET /api/segments/{segmentId}
func (h *Handlers) GetSegment(w http.ResponseWriter, r *http.Request) {
	seg, err := h.engine.GetSegment(chi.URLParam(r, "segmentId"))
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, seg)
}

// DeleteSegment removes a saved segment.
//
//	DELETE /api/segments/{segmentId}
func (h *Handlers) DeleteSegment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "segmentId")
	if err := h.engine.DeleteSegment(id); err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	logger.Info("segment deleted", "segment_id", id)
	respondJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

// SegmentMembers re-evaluates a segment against the live stores.
//
//	GET /api/segments/{segmentId}/members
func (h *Handlers) SegmentMembers(w http.ResponseWriter, r *http.Request) {
	res, err := h.engine.SegmentMembers(chi.URLParam(r, "segmentId"))
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// RecountSegment refreshes a segment's cached member count.
//
//	POST /api/segments/{segmentId}/recount
func (h *Handlers) RecountSegment(w http.ResponseWriter, r *http.Request) {
	seg, err := h.engine.RecountSegment(chi.URLParam(r, "segmentId"))
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, seg)
}

// SegmentAnalytics summarizes saved segments.
//
//	GET /api/segments/analytics
func (h *Handlers) SegmentAnalytics(w http.ResponseWriter, _ *http.Request) {
	stats, err := h.engine.Analytics()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

type segmentContentRequest struct {
	Channel domain.Channel `json:"channel"`
	Limit   int            `json:"limit"`
}

type memberContent struct {
	MemberID string           `json:"member_id"`
	Name     string           `json:"name"`
	Message  *content.Message `json:"message"`
}

// SegmentContent renders personalized content for segment members. An
// empty channel uses each member's preferred channel.
//
//	POST /api/segments/{segmentId}/content
func (h *Handlers) SegmentContent(w http.ResponseWriter, r *http.Request) {
	var req segmentContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	res, err := h.engine.SegmentMembers(chi.URLParam(r, "segmentId"))
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	members := res.Members
	if req.Limit > 0 && len(members) > req.Limit {
		members = members[:req.Limit]
	}
	out := make([]memberContent, 0, len(members))
	for i := range members {
		msg, err := h.renderer.ForMember(&members[i], req.Channel)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		out = append(out, memberContent{MemberID: members[i].ID, Name: members[i].Name, Message: msg})
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"segment": res.Segment,
		"content": out,
		"total":   len(out),
	})
}

const sessionCookie = "engage_session"

type chatRequest struct {
	Message string `json:"message"`
}

// Chat forwards a message to the audience agent. The session comes from
// the X-Session-ID header or a cookie; a new one is minted when absent
// so every client gets isolated conversation state.
//
//	POST /api/chat
func (h *Handlers) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Message == "" {
		respondError(w, http.StatusBadRequest, "message is required")
		return
	}

	sessionID := r.Header.Get("X-Session-ID")
	if sessionID == "" {
		if c, err := r.Cookie(sessionCookie); err == nil {
			sessionID = c.Value
		}
	}
	if sessionID == "" {
		sessionID = uuid.New().String()
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    sessionID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	resp, err := h.agent.Chat(r.Context(), sessionID, req.Message)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"session_id":  sessionID,
		"message":     resp.Message,
		"data":        resp.Data,
		"suggestions": resp.Suggestions,
	})
}

package api

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/datacloud-engage/internal/agent"
	"github.com/ignite/datacloud-engage/internal/content"
	"github.com/ignite/datacloud-engage/internal/domain"
	"github.com/ignite/datacloud-engage/internal/scoring"
	"github.com/ignite/datacloud-engage/internal/segmentation"
	"github.com/ignite/datacloud-engage/internal/store"
)

type testEnv struct {
	engagement *store.EngagementStore
	router     http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	engagement := store.NewEngagementStore(filepath.Join(dir, "engagement.json"))
	insights := store.NewInsightStore(filepath.Join(dir, "insights.json"))
	segments := store.NewSegmentStore(filepath.Join(dir, "segments.json"))

	require.NoError(t, engagement.Save([]domain.EngagementRecord{
		{
			ID: "a", Name: "Ada Lovelace",
			EmailCampaignsReceived: 20, EmailOpens: 18, EmailClicks: 12,
			WebsiteProductViews: 40, WebsitePurchases: 6,
			OmnichannelScore: 7.5, EngagementScore: 7,
			PreferredChannel: domain.ChannelEmail,
		},
		{
			ID: "b", Name: "Grace Hopper",
			EmailCampaignsReceived: 10, EmailOpens: 3, EmailClicks: 1,
			OmnichannelScore: 1.2, EngagementScore: 1,
		},
	}))

	ts := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, insights.Save([]domain.Insight{
		{IndividualID: "a", EventTimestamp: ts, PurchaseIntent: "Very High", CurrentSentiment: "Happy", Hobby: "Photography"},
	}))

	scorer := scoring.NewScorer(scoring.WithRand(rand.New(rand.NewSource(1))))
	engine := segmentation.NewEngine(engagement, insights, segments)
	renderer := content.NewRenderer()
	audienceAgent := agent.New(engine, renderer, agent.NewMemoryStore())

	h := NewHandlers(engagement, scorer, engine, renderer, audienceAgent)
	return &testEnv{engagement: engagement, router: SetupRoutes(h, []string{"*"})}
}

func (e *testEnv) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) doJSON(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return e.do(t, req)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "healthy", body["status"])
}

func TestListEngagementSorted(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, httptest.NewRequest(http.MethodGet, "/api/individuals/engagement", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Individuals []domain.EngagementRecord `json:"individuals"`
		Total       int                       `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 2, body.Total)
	assert.Equal(t, "a", body.Individuals[0].ID)
}

func TestRecalculateScores(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, httptest.NewRequest(http.MethodPost, "/api/scores/recalculate", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	records, err := env.engagement.Load()
	require.NoError(t, err)
	for _, r := range records {
		if r.ID == "a" {
			// 90% open rate and 60% click rate land at the cap's vicinity.
			assert.Greater(t, r.EmailEngagementScore, 50.0)
			assert.NotEmpty(t, r.PreferredChannel)
		}
	}
}

func TestSegmentLifecycleOverHTTP(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(t, http.MethodPost, "/api/segments", map[string]any{
		"name": "Engaged",
		"filters": []map[string]string{
			{"field": "omnichannel_score", "operator": "greater_than_or_equal", "value": "5"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	seg := decode[domain.Segment](t, rec)
	assert.Equal(t, 1, seg.MemberCount)
	assert.Equal(t, "UnifiedIndividual", seg.BaseObject)

	rec = env.do(t, httptest.NewRequest(http.MethodGet, "/api/segments/"+seg.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, httptest.NewRequest(http.MethodGet, "/api/segments/"+seg.ID+"/members", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var members segmentation.MemberResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &members))
	require.Len(t, members.Members, 1)
	assert.Equal(t, "a", members.Members[0].ID)
	assert.Equal(t, "Very High", members.Members[0].PurchaseIntent)

	rec = env.do(t, httptest.NewRequest(http.MethodPost, "/api/segments/"+seg.ID+"/recount", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, httptest.NewRequest(http.MethodGet, "/api/segments/analytics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[segmentation.Analytics](t, rec)
	assert.Equal(t, 1, stats.TotalSegments)

	req := httptest.NewRequest(http.MethodDelete, "/api/segments/"+seg.ID, nil)
	require.Equal(t, http.StatusOK, env.do(t, req).Code)

	rec = env.do(t, httptest.NewRequest(http.MethodGet, "/api/segments/"+seg.ID, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateSegmentValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(t, http.MethodPost, "/api/segments", map[string]any{"name": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.doJSON(t, http.MethodPost, "/api/segments", map[string]any{
		"name": "Bad",
		"filters": []map[string]string{
			{"field": "no_such_field", "operator": "equals", "value": "1"},
		},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSegmentContentPreview(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(t, http.MethodPost, "/api/segments", map[string]any{"name": "Everyone"})
	require.Equal(t, http.StatusCreated, rec.Code)
	seg := decode[domain.Segment](t, rec)

	rec = env.doJSON(t, http.MethodPost, "/api/segments/"+seg.ID+"/content", map[string]any{
		"channel": "Email",
		"limit":   1,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Content []memberContent `json:"content"`
		Total   int             `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.Total)
	assert.Equal(t, "a", body.Content[0].MemberID)
	assert.Contains(t, body.Content[0].Message.Subject, "Ada")
}

func TestChatSessionCookie(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(t, http.MethodPost, "/api/chat", map[string]string{
		"message": "Create a segment of 5 highly engaged individuals",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.NotEmpty(t, body["session_id"])
	assert.Contains(t, body["message"], "Created segment")

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, sessionCookie, cookies[0].Name)

	// Reusing the session sees the created segment.
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(map[string]string{"message": "Show me the last segment"}))
	req := httptest.NewRequest(http.MethodPost, "/api/chat", &buf)
	req.Header.Set("X-Session-ID", body["session_id"].(string))
	rec = env.do(t, req)
	require.Equal(t, http.StatusOK, rec.Code)
	followup := decode[map[string]any](t, rec)
	assert.Contains(t, followup["message"], "currently has")
}

func pngUpload(t *testing.T, field string, w, h int) (*bytes.Buffer, string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, "avatar.png")
	require.NoError(t, err)
	require.NoError(t, png.Encode(part, img))
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestUploadProfilePicture(t *testing.T) {
	env := newTestEnv(t)

	body, contentType := pngUpload(t, "picture", 512, 384)
	req := httptest.NewRequest(http.MethodPost, "/api/individuals/a/profile-picture", body)
	req.Header.Set("Content-Type", contentType)
	rec := env.do(t, req)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[map[string]any](t, rec)
	url, _ := resp["profile_picture_url"].(string)
	assert.True(t, strings.HasPrefix(url, "data:image/jpeg;base64,"))

	records, err := env.engagement.Load()
	require.NoError(t, err)
	for _, r := range records {
		if r.ID == "a" {
			assert.Equal(t, url, r.ProfilePictureURL)
		}
	}
}

func TestUploadProfilePictureUnknownIndividual(t *testing.T) {
	env := newTestEnv(t)

	body, contentType := pngUpload(t, "picture", 10, 10)
	req := httptest.NewRequest(http.MethodPost, "/api/individuals/nobody/profile-picture", body)
	req.Header.Set("Content-Type", contentType)
	assert.Equal(t, http.StatusNotFound, env.do(t, req).Code)
}

func TestUploadProfilePictureWrongField(t *testing.T) {
	env := newTestEnv(t)

	body, contentType := pngUpload(t, "file", 10, 10)
	req := httptest.NewRequest(http.MethodPost, "/api/individuals/a/profile-picture", body)
	req.Header.Set("Content-Type", contentType)
	assert.Equal(t, http.StatusBadRequest, env.do(t, req).Code)
}

package segmentation

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/datacloud-engage/internal/domain"
)

// EngagementRepo supplies the engagement records to filter.
type EngagementRepo interface {
	Load() ([]domain.EngagementRecord, error)
}

// InsightRepo supplies each individual's current insight, keyed by id.
type InsightRepo interface {
	LatestByID() (map[string]domain.Insight, error)
}

// SegmentRepo persists saved segments.
type SegmentRepo interface {
	Load() ([]domain.Segment, error)
	Get(id string) (*domain.Segment, error)
	Add(seg domain.Segment) error
	Put(seg domain.Segment) error
	Delete(id string) error
}

// Engine evaluates filters against the merged record set and manages
// saved segments. Member retrieval always runs against the current store
// state; only the cached member count on the segment itself is a
// creation-time snapshot.
type Engine struct {
	engagement EngagementRepo
	insights   InsightRepo
	segments   SegmentRepo
	policy     CoercionPolicy
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithCoercionPolicy overrides the numeric literal coercion policy.
func WithCoercionPolicy(p CoercionPolicy) EngineOption {
	return func(e *Engine) { e.policy = p }
}

// NewEngine creates a segmentation engine over the given repositories.
func NewEngine(engagement EngagementRepo, insights InsightRepo, segments SegmentRepo, opts ...EngineOption) *Engine {
	e := &Engine{
		engagement: engagement,
		insights:   insights,
		segments:   segments,
		policy:     CoercionDefaultToZero,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Refinements are the optional post-filter constraints captured on a
// segment at creation time.
type Refinements struct {
	Limit                int
	PurchaseIntentFilter []string
	SentimentFilter      []string
}

// Members evaluates a bare filter set against the merged record set and
// returns the matches sorted by score descending.
func (e *Engine) Members(filters []domain.Filter) ([]Member, error) {
	if err := ValidateFilters(filters); err != nil {
		return nil, err
	}
	merged, err := e.merge()
	if err != nil {
		return nil, err
	}

	var matched []Member
	for i := range merged {
		ok, err := e.matches(&merged[i], filters)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, merged[i])
		}
	}
	sortMembers(matched)
	return matched, nil
}

// CreateSegment computes membership for the filter set plus refinements,
// persists the segment with the resulting count and returns it. Creation
// is synchronous and not idempotent by name: segments are unique by
// generated id only.
func (e *Engine) CreateSegment(name, description, baseObject string, filters []domain.Filter, ref Refinements) (*domain.Segment, error) {
	seg := domain.Segment{
		ID:                   uuid.New().String(),
		Name:                 name,
		Description:          description,
		BaseObject:           baseObject,
		Filters:              filters,
		CreatedAt:            time.Now().UTC(),
		PurchaseIntentFilter: ref.PurchaseIntentFilter,
		SentimentFilter:      ref.SentimentFilter,
		Limit:                ref.Limit,
	}

	members, err := e.evaluate(seg)
	if err != nil {
		return nil, fmt.Errorf("create segment %q: %w", name, err)
	}
	seg.MemberCount = len(members)

	if err := e.segments.Add(seg); err != nil {
		return nil, fmt.Errorf("save segment %q: %w", name, err)
	}
	return &seg, nil
}

// SegmentMembers re-runs the full pipeline for a saved segment against
// the current stores. The segment's cached member count is returned as
// stored - it is refreshed only by RecountSegment.
func (e *Engine) SegmentMembers(id string) (*MemberResult, error) {
	seg, err := e.segments.Get(id)
	if err != nil {
		return nil, err
	}
	members, err := e.evaluate(*seg)
	if err != nil {
		return nil, fmt.Errorf("segment %s members: %w", id, err)
	}
	return &MemberResult{Segment: *seg, Members: members, TotalSize: len(members)}, nil
}

// RecountSegment recomputes the membership snapshot and persists the new
// count.
func (e *Engine) RecountSegment(id string) (*domain.Segment, error) {
	seg, err := e.segments.Get(id)
	if err != nil {
		return nil, err
	}
	members, err := e.evaluate(*seg)
	if err != nil {
		return nil, fmt.Errorf("recount segment %s: %w", id, err)
	}
	seg.MemberCount = len(members)
	if err := e.segments.Put(*seg); err != nil {
		return nil, fmt.Errorf("recount segment %s: %w", id, err)
	}
	return seg, nil
}

// ListSegments returns every saved segment.
func (e *Engine) ListSegments() ([]domain.Segment, error) {
	return e.segments.Load()
}

// GetSegment resolves a saved segment by id.
func (e *Engine) GetSegment(id string) (*domain.Segment, error) {
	return e.segments.Get(id)
}

// DeleteSegment removes a saved segment by id.
func (e *Engine) DeleteSegment(id string) error {
	return e.segments.Delete(id)
}

// Analytics summarizes the saved segments using their cached counts.
func (e *Engine) Analytics() (*Analytics, error) {
	segments, err := e.segments.Load()
	if err != nil {
		return nil, err
	}
	a := &Analytics{SegmentsByObject: map[string]int{}}
	for _, seg := range segments {
		a.TotalSegments++
		a.TotalMembers += seg.MemberCount
		a.SegmentsByObject[seg.BaseObject]++
	}
	return a, nil
}

// evaluate runs the refinement pipeline in its fixed order: base filters,
// purchase-intent whitelist, sentiment whitelist, sort, truncate. The
// truncation always happens after the sort, so a capped segment holds
// the true top-N by score.
func (e *Engine) evaluate(seg domain.Segment) ([]Member, error) {
	members, err := e.Members(seg.Filters)
	if err != nil {
		return nil, err
	}
	if len(seg.PurchaseIntentFilter) > 0 {
		members = filterByValue(members, seg.PurchaseIntentFilter, func(m *Member) string { return m.PurchaseIntent })
	}
	if len(seg.SentimentFilter) > 0 {
		members = filterByValue(members, seg.SentimentFilter, func(m *Member) string { return m.CurrentSentiment })
	}
	sortMembers(members)
	if seg.Limit > 0 && len(members) > seg.Limit {
		members = members[:seg.Limit]
	}
	return members, nil
}

// merge joins every engagement record with the individual's current
// insight, selected by latest event timestamp.
func (e *Engine) merge() ([]Member, error) {
	records, err := e.engagement.Load()
	if err != nil {
		return nil, fmt.Errorf("load engagement store: %w", err)
	}
	latest, err := e.insights.LatestByID()
	if err != nil {
		return nil, fmt.Errorf("load insights store: %w", err)
	}

	members := make([]Member, 0, len(records))
	for _, rec := range records {
		var insight *domain.Insight
		if in, ok := latest[rec.ID]; ok {
			insight = &in
		}
		members = append(members, newMember(rec, insight))
	}
	return members, nil
}

func (e *Engine) matches(m *Member, filters []domain.Filter) (bool, error) {
	values, err := memberValues(m)
	if err != nil {
		return false, err
	}
	for _, f := range filters {
		ok, err := e.evalFilter(values, f)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func (e *Engine) evalFilter(values map[string]any, f domain.Filter) (bool, error) {
	raw, ok := values[f.Field]
	if !ok {
		// Zero-valued omitempty fields drop out of the flattened record;
		// only a field outside the universe is an error.
		if !knownField(f.Field) {
			return false, fmt.Errorf("field %q: %w", f.Field, ErrUnknownField)
		}
		raw = nil
	}

	if numericFields[f.Field] {
		have := toFloat(raw)
		want, err := e.coerce(f)
		if err != nil {
			return false, err
		}
		switch f.Operator {
		case domain.OpEquals:
			return have == want, nil
		case domain.OpNotEquals:
			return have != want, nil
		case domain.OpGreaterThan:
			return have > want, nil
		case domain.OpGreaterThanOrEqual:
			return have >= want, nil
		case domain.OpLessThan:
			return have < want, nil
		case domain.OpLessThanOrEqual:
			return have <= want, nil
		case domain.OpContains:
			return strings.Contains(stringify(raw), f.Value), nil
		}
		return false, fmt.Errorf("field %q: unsupported operator %q", f.Field, f.Operator)
	}

	have := stringify(raw)
	switch f.Operator {
	case domain.OpEquals:
		return have == f.Value, nil
	case domain.OpNotEquals:
		return have != f.Value, nil
	case domain.OpGreaterThan:
		return have > f.Value, nil
	case domain.OpGreaterThanOrEqual:
		return have >= f.Value, nil
	case domain.OpLessThan:
		return have < f.Value, nil
	case domain.OpLessThanOrEqual:
		return have <= f.Value, nil
	case domain.OpContains:
		return strings.Contains(have, f.Value), nil
	}
	return false, fmt.Errorf("field %q: unsupported operator %q", f.Field, f.Operator)
}

// coerce parses a numeric filter literal according to the engine policy.
func (e *Engine) coerce(f domain.Filter) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(f.Value), 64)
	if err == nil {
		return v, nil
	}
	if e.policy == CoercionStrict {
		return 0, fmt.Errorf("field %q value %q: %w", f.Field, f.Value, ErrBadNumericValue)
	}
	return 0, nil
}

// memberValues flattens the member into field-name keyed values, the
// same shape the record has on disk.
func memberValues(m *Member) (map[string]any, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("flatten member %s: %w", m.ID, err)
	}
	var values map[string]any
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("flatten member %s: %w", m.ID, err)
	}
	return values, nil
}

func toFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0
		}
		return f
	case bool:
		if x {
			return 1
		}
		return 0
	case nil:
		return 0
	}
	return 0
}

func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return fmt.Sprintf("%v", v)
}

func filterByValue(members []Member, allowed []string, get func(*Member) string) []Member {
	set := make(map[string]bool, len(allowed))
	for _, v := range allowed {
		set[v] = true
	}
	out := members[:0:0]
	for i := range members {
		if set[get(&members[i])] {
			out = append(out, members[i])
		}
	}
	return out
}

func sortMembers(members []Member) {
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].SortScore() > members[j].SortScore()
	})
}

package domain

import "time"

// Operator is a filter comparison operator.
type Operator string

const (
	OpEquals             Operator = "equals"
	OpNotEquals          Operator = "not_equals"
	OpGreaterThan        Operator = "greater_than"
	OpGreaterThanOrEqual Operator = "greater_than_or_equal"
	OpLessThan           Operator = "less_than"
	OpLessThanOrEqual    Operator = "less_than_or_equal"
	OpContains           Operator = "contains"
)

// Operators lists every supported filter operator.
var Operators = []Operator{
	OpEquals, OpNotEquals,
	OpGreaterThan, OpGreaterThanOrEqual,
	OpLessThan, OpLessThanOrEqual,
	OpContains,
}

// Filter is a single (field, operator, value) predicate. A member must
// pass every filter in a set to be included (AND semantics).
type Filter struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    string   `json:"value"`
}

// Segment is a named, saved audience query. The filter list is evaluated
// against the live stores on every member retrieval; MemberCount is a
// snapshot taken at creation (or on explicit recount) and is allowed to
// go stale when the underlying stores change.
type Segment struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	BaseObject  string    `json:"base_object"`
	Filters     []Filter  `json:"filters"`
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`

	// Refinements captured at creation time, applied after the base
	// filters in this order: purchase intent, sentiment, sort, limit.
	PurchaseIntentFilter []string `json:"purchase_intent_filter,omitempty"`
	SentimentFilter      []string `json:"sentiment_filter,omitempty"`
	Limit                int      `json:"limit,omitempty"`
}

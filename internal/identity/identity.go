// Package identity resolves the individuals that engagement data is
// generated for. Sources supply (id, display name) pairs only; profile
// and engagement data live elsewhere.
package identity

import "context"

// Record is one known individual.
type Record struct {
	ID          string `json:"id"`
	DisplayName string `json:"name"`
}

// Source lists known individuals. limit <= 0 means no cap.
type Source interface {
	Individuals(ctx context.Context, limit int) ([]Record, error)
}

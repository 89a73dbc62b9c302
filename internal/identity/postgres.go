package identity

import (
	"context"
	"database/sql"
	"fmt"

	// Registers the postgres driver.
	_ "github.com/lib/pq"
)

// PostgresSource reads individuals from a CRM mirror table.
type PostgresSource struct {
	db    *sql.DB
	table string
}

// NewPostgresSource wraps an open connection. table defaults to
// "individuals" when empty.
func NewPostgresSource(db *sql.DB, table string) *PostgresSource {
	if table == "" {
		table = "individuals"
	}
	return &PostgresSource{db: db, table: table}
}

// Open connects to postgres and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

func (p *PostgresSource) Individuals(ctx context.Context, limit int) ([]Record, error) {
	query := fmt.Sprintf("SELECT id, display_name FROM %s ORDER BY display_name", p.table)
	args := []any{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query individuals: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.DisplayName); err != nil {
			return nil, fmt.Errorf("scan individual: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate individuals: %w", err)
	}
	return records, nil
}

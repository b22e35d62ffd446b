package knowledge

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// PgVectorRetriever reads chunks ordered by cosine distance.
// The table needs content text and embedding vector columns.
type PgVectorRetriever struct {
	pool  *pgxpool.Pool
	query string
}

func NewPgVectorRetriever(pool *pgxpool.Pool, table string) (*PgVectorRetriever, error) {
	if pool == nil {
		return nil, errors.New("knowledge: postgres pool is required")
	}
	if !identifierPattern.MatchString(table) {
		return nil, fmt.Errorf("knowledge: invalid table name %q", table)
	}
	return &PgVectorRetriever{
		pool:  pool,
		query: fmt.Sprintf(`SELECT content FROM %s ORDER BY embedding <=> $1 LIMIT $2`, table),
	}, nil
}

func (r *PgVectorRetriever) Retrieve(ctx context.Context, embedding []float32, k int) ([]string, error) {
	if k <= 0 {
		k = 2
	}
	rows, err := r.pool.Query(ctx, r.query, pgvector.NewVector(embedding), k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, err
		}
		out = append(out, content)
	}
	return out, rows.Err()
}

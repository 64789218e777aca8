package pgsql

import (
	"context"
	"fmt"

	portssvc "github.com/finpost/glcore/internal/core/ports/services"
)

// PgxSequenceGenerator allocates identifiers from a per-entity counter table.
// The upsert-and-return runs as one statement, so concurrent callers never
// see the same value.
type PgxSequenceGenerator struct {
	BaseRepository
}

// newPgxSequenceGenerator creates a new database-backed sequence generator.
func newPgxSequenceGenerator(db Querier) portssvc.SequenceGenerator {
	return &PgxSequenceGenerator{BaseRepository: BaseRepository{db: db}}
}

var _ portssvc.SequenceGenerator = (*PgxSequenceGenerator)(nil)

// NextID allocates the next identifier for the entity.
func (r *PgxSequenceGenerator) NextID(ctx context.Context, entityName string) (string, error) {
	query := `
		INSERT INTO gl_sequences (entity_name, next_value)
		VALUES ($1, 10001)
		ON CONFLICT (entity_name) DO UPDATE
		SET next_value = gl_sequences.next_value + 1
		RETURNING next_value;
	`
	var value int64
	if err := r.db.QueryRow(ctx, query, entityName).Scan(&value); err != nil {
		return "", fmt.Errorf("failed to allocate %s id: %w", entityName, err)
	}
	return fmt.Sprintf("%d", value), nil
}

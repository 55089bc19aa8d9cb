package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/alnahda/institute-ledger/internal/core/ports/repositories"
)

type PgxSequenceRepository struct {
	BaseRepository
}

func newPgxSequenceRepository(pool *pgxpool.Pool) portsrepo.SequenceRepository {
	return &PgxSequenceRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.SequenceRepository = (*PgxSequenceRepository)(nil)

// NextValue atomically increments and returns the counter for the key. The
// upsert keeps concurrent allocators from ever handing out the same value.
func (r *PgxSequenceRepository) NextValue(ctx context.Context, key string) (int64, error) {
	query := `
		INSERT INTO number_sequences (key, last_value)
		VALUES ($1, 1)
		ON CONFLICT (key) DO UPDATE SET last_value = number_sequences.last_value + 1
		RETURNING last_value;
	`
	var value int64
	if err := r.Pool.QueryRow(ctx, query, key).Scan(&value); err != nil {
		return 0, fmt.Errorf("failed to advance sequence %s: %w", key, err)
	}
	return value, nil
}

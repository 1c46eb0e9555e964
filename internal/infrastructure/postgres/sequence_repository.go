package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// epoch representa "sin día" para contadores globales (la columna day es NOT NULL).
var epoch = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

// SequenceRepo contadores por (tipo, día) en daily_sequences.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Debe usarse con una tx para que el
// bloqueo de la fila dure hasta el commit.
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next incrementa el contador y devuelve el nuevo valor.
func (r *SequenceRepo) Next(ctx context.Context, kind string, day time.Time) (int64, error) {
	d := epoch
	if !day.IsZero() {
		d = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	}
	query := `
		INSERT INTO daily_sequences (kind, day, last_value) VALUES ($1, $2, 1)
		ON CONFLICT (kind, day) DO UPDATE SET last_value = daily_sequences.last_value + 1
		RETURNING last_value`
	var n int64
	if err := r.q.QueryRow(ctx, query, kind, d).Scan(&n); err != nil {
		return 0, fmt.Errorf("next sequence %s: %w", kind, err)
	}
	return n, nil
}

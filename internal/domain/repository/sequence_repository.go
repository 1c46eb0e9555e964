package repository

import (
	"context"
	"time"
)

// SequenceRepository entrega contadores atómicos dentro de la transacción.
// Next incrementa y devuelve el contador (kind, day); el primer valor es 1.
// Para contadores globales se pasa day en cero.
type SequenceRepository interface {
	Next(ctx context.Context, kind string, day time.Time) (int64, error)
}

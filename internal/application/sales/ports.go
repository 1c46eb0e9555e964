package sales

import (
	"context"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// IdempotencyGuard evita registrar dos veces la misma venta cuando el cliente reenvía
// la petición con el mismo Idempotency-Key.
type IdempotencyGuard interface {
	// Acquire reserva la clave; devuelve false si ya estaba tomada.
	Acquire(ctx context.Context, key string) (bool, error)
	// Release libera la clave cuando el registro falló.
	Release(ctx context.Context, key string) error
}

// NoopGuard acepta todas las claves. Se usa cuando no hay Redis configurado.
type NoopGuard struct{}

func (NoopGuard) Acquire(context.Context, string) (bool, error) { return true, nil }
func (NoopGuard) Release(context.Context, string) error         { return nil }

// ReceiptRenderer genera la versión imprimible (PDF) de un recibo.
type ReceiptRenderer interface {
	Render(receipt *entity.Receipt) ([]byte, error)
}

// Options parámetros del registro de ventas.
type Options struct {
	// RejectOversell: true rechaza vender más de lo disponible; false recorta la existencia a cero.
	RejectOversell bool
}

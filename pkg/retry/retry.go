// Package retry implementa una política de reintentos acotada con espera fija.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy define cuántas veces se intenta una operación y cuánto se espera entre intentos.
type Policy struct {
	MaxAttempts int
	Backoff     time.Duration
	// OnRetry se invoca antes de cada espera (attempt empieza en 1). Opcional.
	OnRetry func(attempt int, err error)
}

// Default es la política usada al registrar ventas y compras: 3 intentos, 100ms.
var Default = Policy{MaxAttempts: 3, Backoff: 100 * time.Millisecond}

// Do ejecuta fn hasta que retorne nil, un error no reintentable, o se agoten los intentos.
// Devuelve el último error. Si ctx se cancela durante la espera, devuelve ctx.Err().
func (p Policy) Do(ctx context.Context, retryable func(error) bool, fn func() error) error {
	return backoff.RetryNotify(func() error {
		err := fn()
		if err != nil && (retryable == nil || !retryable(err)) {
			return backoff.Permanent(err)
		}
		return err
	}, p.backOff(ctx), p.notify())
}

func (p Policy) backOff(ctx context.Context) backoff.BackOff {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	b := backoff.WithMaxRetries(backoff.NewConstantBackOff(p.Backoff), uint64(attempts-1))
	return backoff.WithContext(b, ctx)
}

func (p Policy) notify() backoff.Notify {
	if p.OnRetry == nil {
		return nil
	}
	attempt := 0
	return func(err error, _ time.Duration) {
		attempt++
		p.OnRetry(attempt, err)
	}
}

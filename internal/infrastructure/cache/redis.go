// Package cache conecta con Redis y guarda las claves de idempotencia de las ventas.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/pos-backoffice/pkg/config"
)

// New crea el cliente y verifica la conexión con un ping.
func New(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: ping: %w", err)
	}
	return client, nil
}

// IdempotencyGuard reserva claves Idempotency-Key con SET NX y vencimiento.
type IdempotencyGuard struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewIdempotencyGuard construye el guard; ttl <= 0 usa 10 minutos.
func NewIdempotencyGuard(client *redis.Client, ttl time.Duration) *IdempotencyGuard {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &IdempotencyGuard{client: client, prefix: "idem:sale:", ttl: ttl}
}

// Acquire devuelve true si la clave estaba libre y quedó reservada.
func (g *IdempotencyGuard) Acquire(ctx context.Context, key string) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.prefix+key, time.Now().UTC().Format(time.RFC3339), g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("cache: reservar clave: %w", err)
	}
	return ok, nil
}

// Release borra la clave para permitir reintentar una venta que falló.
func (g *IdempotencyGuard) Release(ctx context.Context, key string) error {
	if err := g.client.Del(ctx, g.prefix+key).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("cache: liberar clave: %w", err)
	}
	return nil
}

// Package kv define el puerto de almacenamiento clave-valor de la aplicación.
// Los valores son JSON serializado; las claves siguen la convención
// <namespace>_<id-o-email>.
package kv

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indica que la clave no existe o ya expiró.
var ErrNotFound = errors.New("kv: key not found")

// Store es el contrato mínimo que cumplen todos los backends.
// SetTTL persiste un valor con expiración; los registros transitorios
// llevan además su timestamp de expiración dentro del valor, que es
// el autoritativo para la lógica de negocio.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	ListByPrefix(ctx context.Context, prefix string) (map[string][]byte, error)
	Close() error
}

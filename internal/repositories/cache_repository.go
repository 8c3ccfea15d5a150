package repositories

import (
	"context"
	"time"
)

type CacheRepositoryInterface interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, key ...string) error
}

// RevocationKey es la clave bajo la que se anota el instante en que se
// cerró la sesión de un usuario. Los tokens emitidos antes de ese instante
// quedan inservibles aunque su firma siga siendo válida.
func RevocationKey(userID string) string {
	return "sesion_revocada:" + userID
}

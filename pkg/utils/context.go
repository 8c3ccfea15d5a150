package utils

import (
	"context"

	"asistencia-system/internal/entities"
	"asistencia-system/pkg/contextkeys"
	apperrors "asistencia-system/pkg/errors"
)

// GetSessionFromCtx recupera la sesión que el middleware de autenticación
// dejó en el contexto de la petición.
func GetSessionFromCtx(ctx context.Context) (entities.UserSession, error) {
	session, ok := ctx.Value(contextkeys.SessionKey).(entities.UserSession)
	if !ok {
		return entities.UserSession{}, apperrors.ErrNoAutorizado
	}
	return session, nil
}

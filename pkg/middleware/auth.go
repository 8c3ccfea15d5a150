package middleware

import (
	"context"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"asistencia-system/internal/repositories"
	"asistencia-system/internal/roles"
	"asistencia-system/pkg/contextkeys"
	apperrors "asistencia-system/pkg/errors"
	"asistencia-system/pkg/service"
	"asistencia-system/pkg/utils"
)

type AuthMiddleware struct {
	tokenService service.TokenService
	cacheRepo    repositories.CacheRepositoryInterface
	logger       *zap.Logger
}

func NewAuthMiddleware(tokenSvc service.TokenService, cacheRepo repositories.CacheRepositoryInterface, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenSvc,
		cacheRepo:    cacheRepo,
		logger:       logger,
	}
}

// Auth valida el token Bearer, comprueba que la sesión no haya sido cerrada
// y deja la sesión en el contexto de la petición. Falla cerrado: sin token o
// con token inválido la petición se rechaza.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return utils.ErrorResponse(c, apperrors.ErrEmptyAuthHeader, m.logger)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return utils.ErrorResponse(c, apperrors.ErrInvalidAuthHeader, m.logger)
		}

		claims, err := m.tokenService.ValidateAccessToken(parts[1])
		if err != nil {
			m.logger.Warn("token de acceso rechazado", zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}

		// El check-out y el logout revocan la sesión entera; un token
		// revocado sigue teniendo firma válida, por eso se compara su
		// fecha de emisión contra el instante de revocación.
		if revocado, err := m.estaRevocado(c, claims); err == nil && revocado {
			m.logger.Warn("intento de uso de sesión revocada", zap.String("userID", claims.Session.ID))
			return utils.ErrorResponse(c, apperrors.ErrTokenRevocado, m.logger)
		}

		ctx := context.WithValue(c.Request().Context(), contextkeys.SessionKey, claims.Session)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}

func (m *AuthMiddleware) estaRevocado(c echo.Context, claims *service.SessionClaims) (bool, error) {
	val, err := m.cacheRepo.Get(c.Request().Context(), repositories.RevocationKey(claims.Session.ID))
	if err != nil {
		return false, err
	}
	revTs, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return false, err
	}
	return claims.IssuedAt != nil && claims.IssuedAt.Unix() < revTs, nil
}

func (m *AuthMiddleware) requireCapacidad(cap roles.Capacidad) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session, err := utils.GetSessionFromCtx(c.Request().Context())
			if err != nil {
				return utils.ErrorResponse(c, err, m.logger)
			}
			if !roles.TieneCapacidad(session.Rol, cap) {
				m.logger.Warn("acceso denegado por rol",
					zap.String("userID", session.ID),
					zap.String("rol", string(session.Rol)),
					zap.String("capacidad", string(cap)),
				)
				return utils.ErrorResponse(c, apperrors.ErrProhibido, m.logger)
			}
			return next(c)
		}
	}
}

func (m *AuthMiddleware) RequireAdmin() echo.MiddlewareFunc {
	return m.requireCapacidad(roles.AccesoAdmin)
}

func (m *AuthMiddleware) RequireHistorial() echo.MiddlewareFunc {
	return m.requireCapacidad(roles.AccesoHistorial)
}

func (m *AuthMiddleware) RequireMapa() echo.MiddlewareFunc {
	return m.requireCapacidad(roles.AccesoMapa)
}

package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"asistencia-system/internal/entities"
	"asistencia-system/internal/repositories"
	"asistencia-system/internal/roles"
	"asistencia-system/pkg/service"
	"asistencia-system/pkg/utils"
)

type cacheStub struct {
	valores map[string]string
}

func (c *cacheStub) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.valores[key] = fmt.Sprint(value)
	return nil
}

func (c *cacheStub) Get(_ context.Context, key string) (string, error) {
	if v, ok := c.valores[key]; ok {
		return v, nil
	}
	return "", errors.New("clave no encontrada")
}

func (c *cacheStub) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.valores, k)
	}
	return nil
}

func sesionDePrueba() entities.UserSession {
	return entities.UserSession{
		ID:       "11111111-1111-4111-8111-111111111111",
		Username: "jperez",
		Rol:      roles.Agente,
	}
}

func ejecutar(t *testing.T, mw *AuthMiddleware, authHeader string) (*httptest.ResponseRecorder, entities.UserSession) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/asistencias/actual", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var capturada entities.UserSession
	handler := mw.Auth(func(c echo.Context) error {
		s, err := utils.GetSessionFromCtx(c.Request().Context())
		if err != nil {
			return err
		}
		capturada = s
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, handler(c))
	return rec, capturada
}

func TestAuthAceptaTokenValido(t *testing.T) {
	tokenSvc := service.NewTokenService("secreto-access-para-pruebas-123456", "secreto-refresh-para-pruebas-123456", time.Hour, 24*time.Hour, zap.NewNop())
	mw := NewAuthMiddleware(tokenSvc, &cacheStub{valores: map[string]string{}}, zap.NewNop())

	access, _, err := tokenSvc.GenerateTokenPair(sesionDePrueba())
	require.NoError(t, err)

	rec, capturada := ejecutar(t, mw, "Bearer "+access)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, sesionDePrueba().ID, capturada.ID)
}

func TestAuthRechazaSinCabecera(t *testing.T) {
	tokenSvc := service.NewTokenService("secreto-access-para-pruebas-123456", "secreto-refresh-para-pruebas-123456", time.Hour, 24*time.Hour, zap.NewNop())
	mw := NewAuthMiddleware(tokenSvc, &cacheStub{valores: map[string]string{}}, zap.NewNop())

	rec, _ := ejecutar(t, mw, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRechazaCabeceraMalformada(t *testing.T) {
	tokenSvc := service.NewTokenService("secreto-access-para-pruebas-123456", "secreto-refresh-para-pruebas-123456", time.Hour, 24*time.Hour, zap.NewNop())
	mw := NewAuthMiddleware(tokenSvc, &cacheStub{valores: map[string]string{}}, zap.NewNop())

	rec, _ := ejecutar(t, mw, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRechazaSesionRevocada(t *testing.T) {
	tokenSvc := service.NewTokenService("secreto-access-para-pruebas-123456", "secreto-refresh-para-pruebas-123456", time.Hour, 24*time.Hour, zap.NewNop())
	cache := &cacheStub{valores: map[string]string{}}
	mw := NewAuthMiddleware(tokenSvc, cache, zap.NewNop())

	sesion := sesionDePrueba()
	access, _, err := tokenSvc.GenerateTokenPair(sesion)
	require.NoError(t, err)

	// Check-out o logout posterior a la emisión del token.
	revocadoEn := time.Now().Add(time.Minute).Unix()
	cache.valores[repositories.RevocationKey(sesion.ID)] = fmt.Sprint(revocadoEn)

	rec, _ := ejecutar(t, mw, "Bearer "+access)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthAceptaTokenEmitidoTrasRevocacion(t *testing.T) {
	tokenSvc := service.NewTokenService("secreto-access-para-pruebas-123456", "secreto-refresh-para-pruebas-123456", time.Hour, 24*time.Hour, zap.NewNop())
	cache := &cacheStub{valores: map[string]string{}}
	mw := NewAuthMiddleware(tokenSvc, cache, zap.NewNop())

	sesion := sesionDePrueba()

	// Revocación en el pasado: un login nuevo emite tokens posteriores
	// que deben pasar.
	cache.valores[repositories.RevocationKey(sesion.ID)] = fmt.Sprint(time.Now().Add(-time.Minute).Unix())

	access, _, err := tokenSvc.GenerateTokenPair(sesion)
	require.NoError(t, err)

	rec, _ := ejecutar(t, mw, "Bearer "+access)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	tokenSvc := service.NewTokenService("secreto-access-para-pruebas-123456", "secreto-refresh-para-pruebas-123456", time.Hour, 24*time.Hour, zap.NewNop())
	mw := NewAuthMiddleware(tokenSvc, &cacheStub{valores: map[string]string{}}, zap.NewNop())

	casos := []struct {
		rol      roles.Rol
		esperado int
	}{
		{roles.Admin, http.StatusOK},
		{roles.Agente, http.StatusForbidden},
		{roles.Gerente, http.StatusForbidden},
	}

	for _, caso := range casos {
		caso := caso
		t.Run(string(caso.rol), func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/api/usuarios", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			sesion := sesionDePrueba()
			sesion.Rol = caso.rol
			access, _, err := tokenSvc.GenerateTokenPair(sesion)
			require.NoError(t, err)
			req.Header.Set("Authorization", "Bearer "+access)

			handler := mw.Auth(mw.RequireAdmin()(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			}))
			require.NoError(t, handler(c))
			assert.Equal(t, caso.esperado, rec.Code)
		})
	}
}

func TestRequireHistorial(t *testing.T) {
	tokenSvc := service.NewTokenService("secreto-access-para-pruebas-123456", "secreto-refresh-para-pruebas-123456", time.Hour, 24*time.Hour, zap.NewNop())
	mw := NewAuthMiddleware(tokenSvc, &cacheStub{valores: map[string]string{}}, zap.NewNop())

	// Gerente tiene historial; agente no.
	for _, caso := range []struct {
		rol      roles.Rol
		esperado int
	}{
		{roles.Gerente, http.StatusOK},
		{roles.Agente, http.StatusForbidden},
	} {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/exportar/excel", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		sesion := sesionDePrueba()
		sesion.Rol = caso.rol
		access, _, err := tokenSvc.GenerateTokenPair(sesion)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+access)

		handler := mw.Auth(mw.RequireHistorial()(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		}))
		require.NoError(t, handler(c))
		assert.Equal(t, caso.esperado, rec.Code, "rol %s", caso.rol)
	}
}

package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"asistencia-system/internal/dto"
	"asistencia-system/internal/entities"
	"asistencia-system/internal/repositories"
	"asistencia-system/internal/roles"
	apperrors "asistencia-system/pkg/errors"
	"asistencia-system/pkg/service"
	"asistencia-system/pkg/types"
	"asistencia-system/pkg/utils"
)

type fakeUsuarioRepo struct {
	usuarios map[string]*entities.Usuario
}

func (f *fakeUsuarioRepo) GetUsuarios(_ context.Context, _ types.Filter) ([]entities.Usuario, uint64, error) {
	return nil, 0, nil
}

func (f *fakeUsuarioRepo) FindUsuario(_ context.Context, id string) (*entities.Usuario, error) {
	for _, u := range f.usuarios {
		if u.ID == id {
			copia := *u
			return &copia, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeUsuarioRepo) FindUsuarioByUsername(_ context.Context, username string) (*entities.Usuario, error) {
	if u, ok := f.usuarios[username]; ok {
		copia := *u
		return &copia, nil
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeUsuarioRepo) CreateUsuario(_ context.Context, u entities.Usuario) error {
	f.usuarios[u.Username] = &u
	return nil
}

func (f *fakeUsuarioRepo) UpdateUsuario(_ context.Context, u entities.Usuario) error {
	f.usuarios[u.Username] = &u
	return nil
}

func (f *fakeUsuarioRepo) DeactivateUsuario(_ context.Context, _ string) error { return nil }

type fakeUnidadRepo struct {
	unidades map[string]*entities.Unidad
}

func (f *fakeUnidadRepo) GetUnidades(_ context.Context, _ bool) ([]entities.Unidad, error) {
	return nil, nil
}

func (f *fakeUnidadRepo) FindUnidad(_ context.Context, id string) (*entities.Unidad, error) {
	if u, ok := f.unidades[id]; ok {
		copia := *u
		return &copia, nil
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeUnidadRepo) CreateUnidad(_ context.Context, _ entities.Unidad) error { return nil }
func (f *fakeUnidadRepo) UpdateUnidad(_ context.Context, _ entities.Unidad) error { return nil }
func (f *fakeUnidadRepo) DeactivateUnidad(_ context.Context, _ string) error      { return nil }

type fakePuestoRepo struct {
	puestos map[string]*entities.Puesto
}

func (f *fakePuestoRepo) GetPuestos(_ context.Context, _ string, _ bool) ([]entities.Puesto, error) {
	return nil, nil
}

func (f *fakePuestoRepo) FindPuesto(_ context.Context, id string) (*entities.Puesto, error) {
	if p, ok := f.puestos[id]; ok {
		copia := *p
		return &copia, nil
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakePuestoRepo) CreatePuesto(_ context.Context, _ entities.Puesto) error { return nil }
func (f *fakePuestoRepo) UpdatePuesto(_ context.Context, _ entities.Puesto) error { return nil }
func (f *fakePuestoRepo) DeactivatePuesto(_ context.Context, _ string) error      { return nil }

var _ repositories.UsuarioRepositoryInterface = (*fakeUsuarioRepo)(nil)
var _ repositories.UnidadRepositoryInterface = (*fakeUnidadRepo)(nil)
var _ repositories.PuestoRepositoryInterface = (*fakePuestoRepo)(nil)

func nuevoEscenarioAuth(t *testing.T) (AuthServiceInterface, *fakeUsuarioRepo, *fakeUnidadRepo, *fakePuestoRepo, *fakeCacheRepo, service.TokenService) {
	t.Helper()

	hash, err := utils.HashPassword("Segura123")
	require.NoError(t, err)

	usuarioRepo := &fakeUsuarioRepo{usuarios: map[string]*entities.Usuario{
		"jperez": {
			ID:           userID,
			Username:     "jperez",
			PasswordHash: hash,
			Nombres:      "Juan",
			Apellidos:    "Pérez",
			Rol:          roles.Agente,
			Activo:       true,
		},
	}}
	unidadRepo := &fakeUnidadRepo{unidades: map[string]*entities.Unidad{
		unidadID: {ID: unidadID, Nombre: "Torre Centro", Ciudad: "Lima", Activo: true},
	}}
	puestoRepo := &fakePuestoRepo{puestos: map[string]*entities.Puesto{
		puestoID: {ID: puestoID, UnidadID: unidadID, Nombre: "Recepción", Activo: true},
	}}
	cache := newFakeCacheRepo()
	tokenSvc := service.NewTokenService("secreto-access-para-pruebas-123456", "secreto-refresh-para-pruebas-123456", time.Hour, 24*time.Hour, zap.NewNop())

	svc := NewAuthService(usuarioRepo, unidadRepo, puestoRepo, cache, tokenSvc, zap.NewNop())
	return svc, usuarioRepo, unidadRepo, puestoRepo, cache, tokenSvc
}

func payloadLogin() dto.LoginDTO {
	return dto.LoginDTO{
		Username: "jperez",
		Password: "Segura123",
		UnidadID: unidadID,
		PuestoID: puestoID,
	}
}

func TestLoginExitoso(t *testing.T) {
	svc, _, _, _, _, tokenSvc := nuevoEscenarioAuth(t)

	res, err := svc.Login(context.Background(), payloadLogin())
	require.NoError(t, err)

	assert.Equal(t, userID, res.User.ID)
	require.NotNil(t, res.User.UnidadID)
	assert.Equal(t, unidadID, *res.User.UnidadID)
	require.NotNil(t, res.User.PuestoID)
	assert.Equal(t, puestoID, *res.User.PuestoID)

	claims, err := tokenSvc.ValidateAccessToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.Session.ID)

	refreshClaims, err := tokenSvc.ValidateRefreshToken(res.RefreshToken)
	require.NoError(t, err)
	assert.True(t, refreshClaims.IsRefreshToken)
}

func TestLoginCredencialesInvalidas(t *testing.T) {
	svc, usuarioRepo, _, _, _, _ := nuevoEscenarioAuth(t)

	// Usuario inexistente, contraseña mala y usuario inactivo responden
	// lo mismo.
	payload := payloadLogin()
	payload.Username = "noexiste"
	_, err := svc.Login(context.Background(), payload)
	assert.ErrorIs(t, err, apperrors.ErrCredencialesInvalidas)

	payload = payloadLogin()
	payload.Password = "Incorrecta1"
	_, err = svc.Login(context.Background(), payload)
	assert.ErrorIs(t, err, apperrors.ErrCredencialesInvalidas)

	usuarioRepo.usuarios["jperez"].Activo = false
	_, err = svc.Login(context.Background(), payloadLogin())
	assert.ErrorIs(t, err, apperrors.ErrCredencialesInvalidas)
}

func TestLoginUnidadInactiva(t *testing.T) {
	svc, _, unidadRepo, _, _, _ := nuevoEscenarioAuth(t)

	unidadRepo.unidades[unidadID].Activo = false
	_, err := svc.Login(context.Background(), payloadLogin())

	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 400, httpErr.Code)
}

func TestLoginPuestoDeOtraUnidad(t *testing.T) {
	svc, _, _, puestoRepo, _, _ := nuevoEscenarioAuth(t)

	puestoRepo.puestos[puestoID].UnidadID = "44444444-4444-4444-8444-444444444444"
	_, err := svc.Login(context.Background(), payloadLogin())

	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 400, httpErr.Code)
}

func TestRefreshEmiteSoloAccessToken(t *testing.T) {
	svc, _, _, _, _, tokenSvc := nuevoEscenarioAuth(t)

	login, err := svc.Login(context.Background(), payloadLogin())
	require.NoError(t, err)

	res, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)

	claims, err := tokenSvc.ValidateAccessToken(res.AccessToken)
	require.NoError(t, err)
	assert.False(t, claims.IsRefreshToken)
}

func TestRefreshRechazaAccessToken(t *testing.T) {
	svc, _, _, _, _, _ := nuevoEscenarioAuth(t)

	login, err := svc.Login(context.Background(), payloadLogin())
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), login.AccessToken)
	assert.Error(t, err)
}

func TestRefreshRechazaSesionRevocada(t *testing.T) {
	svc, _, _, _, _, _ := nuevoEscenarioAuth(t)

	login, err := svc.Login(context.Background(), payloadLogin())
	require.NoError(t, err)

	// Un logout posterior a la emisión invalida también el refresh token.
	revocadoEn := time.Now().Add(time.Minute)
	require.NoError(t, svc.Logout(context.Background(), login.User, revocadoEn))

	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevocado)
}

func TestLogoutAnotaRevocacion(t *testing.T) {
	svc, _, _, _, cache, _ := nuevoEscenarioAuth(t)

	login, err := svc.Login(context.Background(), payloadLogin())
	require.NoError(t, err)

	ahora := time.Now()
	require.NoError(t, svc.Logout(context.Background(), login.User, ahora))

	val, err := cache.Get(context.Background(), repositories.RevocationKey(userID))
	require.NoError(t, err)
	assert.NotEmpty(t, val)
}

package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"asistencia-system/internal/dto"
	"asistencia-system/internal/entities"
	"asistencia-system/internal/repositories"
	apperrors "asistencia-system/pkg/errors"
	"asistencia-system/pkg/service"
	"asistencia-system/pkg/utils"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.LoginResponseDTO, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.RefreshResponseDTO, error)
	Logout(ctx context.Context, sesion entities.UserSession, ahora time.Time) error
}

type AuthService struct {
	usuarioRepo  repositories.UsuarioRepositoryInterface
	unidadRepo   repositories.UnidadRepositoryInterface
	puestoRepo   repositories.PuestoRepositoryInterface
	cacheRepo    repositories.CacheRepositoryInterface
	tokenService service.TokenService
	logger       *zap.Logger
}

func NewAuthService(
	usuarioRepo repositories.UsuarioRepositoryInterface,
	unidadRepo repositories.UnidadRepositoryInterface,
	puestoRepo repositories.PuestoRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	tokenService service.TokenService,
	logger *zap.Logger,
) AuthServiceInterface {
	return &AuthService{
		usuarioRepo:  usuarioRepo,
		unidadRepo:   unidadRepo,
		puestoRepo:   puestoRepo,
		cacheRepo:    cacheRepo,
		tokenService: tokenService,
		logger:       logger,
	}
}

// Login verifica las credenciales y ata la sesión a la unidad y puesto
// elegidos. El mismo mensaje cubre usuario inexistente, inactivo o
// contraseña incorrecta para no filtrar cuál falló.
func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.LoginResponseDTO, error) {
	usuario, err := s.usuarioRepo.FindUsuarioByUsername(ctx, payload.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrCredencialesInvalidas
		}
		return nil, err
	}
	if !usuario.Activo {
		return nil, apperrors.ErrCredencialesInvalidas
	}

	if err := utils.ComparePasswords(usuario.PasswordHash, payload.Password); err != nil {
		return nil, apperrors.ErrCredencialesInvalidas
	}

	unidad, err := s.unidadRepo.FindUnidad(ctx, payload.UnidadID)
	if err != nil || !unidad.Activo {
		return nil, apperrors.NewBadRequestError("La unidad seleccionada no existe o está inactiva")
	}

	puesto, err := s.puestoRepo.FindPuesto(ctx, payload.PuestoID)
	if err != nil || !puesto.Activo || puesto.UnidadID != unidad.ID {
		return nil, apperrors.NewBadRequestError("El puesto seleccionado no existe o está inactivo")
	}

	sesion := entities.UserSession{
		ID:        usuario.ID,
		Username:  usuario.Username,
		Nombres:   usuario.Nombres,
		Apellidos: usuario.Apellidos,
		Rol:       usuario.Rol,
		UnidadID:  &unidad.ID,
		PuestoID:  &puesto.ID,
	}

	accessToken, refreshToken, err := s.tokenService.GenerateTokenPair(sesion)
	if err != nil {
		s.logger.Error("no se pudieron emitir los tokens", zap.Error(err))
		return nil, err
	}

	s.logger.Info("inicio de sesión",
		zap.String("userID", usuario.ID),
		zap.String("unidadID", unidad.ID),
		zap.String("puestoID", puesto.ID),
	)

	return &dto.LoginResponseDTO{
		User:         sesion,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh emite solo un token de acceso nuevo a partir de un refresh token
// vigente. Nunca emite otro refresh token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.RefreshResponseDTO, error) {
	claims, err := s.tokenService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	// Un check-out o logout posterior a la emisión invalida también el
	// refresh token.
	if val, err := s.cacheRepo.Get(ctx, repositories.RevocationKey(claims.Session.ID)); err == nil {
		if revTs, err := strconv.ParseInt(val, 10, 64); err == nil {
			if claims.IssuedAt != nil && claims.IssuedAt.Unix() < revTs {
				return nil, apperrors.ErrTokenRevocado
			}
		}
	}

	accessToken, err := s.tokenService.GenerateAccessToken(claims.Session)
	if err != nil {
		s.logger.Error("no se pudo emitir el token de acceso", zap.Error(err))
		return nil, err
	}

	return &dto.RefreshResponseDTO{AccessToken: accessToken}, nil
}

// Logout revoca todos los tokens emitidos antes de este instante.
func (s *AuthService) Logout(ctx context.Context, sesion entities.UserSession, ahora time.Time) error {
	ttl := s.tokenService.GetRefreshTokenTTL()
	if err := s.cacheRepo.Set(ctx, repositories.RevocationKey(sesion.ID), ahora.Unix(), ttl); err != nil {
		s.logger.Error("no se pudo revocar la sesión", zap.String("userID", sesion.ID), zap.Error(err))
		return err
	}
	s.logger.Info("cierre de sesión", zap.String("userID", sesion.ID))
	return nil
}

package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"asistencia-system/internal/dto"
	"asistencia-system/internal/entities"
	"asistencia-system/internal/repositories"
	apperrors "asistencia-system/pkg/errors"
	"asistencia-system/pkg/types"
	"asistencia-system/pkg/utils"
)

type UsuarioServiceInterface interface {
	GetUsuarios(ctx context.Context, filter types.Filter) ([]dto.UsuarioDTO, uint64, error)
	FindUsuario(ctx context.Context, id string) (*dto.UsuarioDTO, error)
	CreateUsuario(ctx context.Context, payload dto.CrearUsuarioDTO) (*dto.UsuarioDTO, error)
	UpdateUsuario(ctx context.Context, id string, payload dto.ActualizarUsuarioDTO) (*dto.UsuarioDTO, error)
	DeactivateUsuario(ctx context.Context, id string) error
}

type UsuarioService struct {
	usuarioRepo repositories.UsuarioRepositoryInterface
	logger      *zap.Logger
	newID       func() string
}

func NewUsuarioService(usuarioRepo repositories.UsuarioRepositoryInterface, logger *zap.Logger, newID func() string) UsuarioServiceInterface {
	return &UsuarioService{usuarioRepo: usuarioRepo, logger: logger, newID: newID}
}

func toUsuarioDTO(u *entities.Usuario) *dto.UsuarioDTO {
	if u == nil {
		return nil
	}
	return &dto.UsuarioDTO{
		ID:        u.ID,
		Username:  u.Username,
		Nombres:   u.Nombres,
		Apellidos: u.Apellidos,
		Rol:       u.Rol,
		Activo:    u.Activo,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

func (s *UsuarioService) GetUsuarios(ctx context.Context, filter types.Filter) ([]dto.UsuarioDTO, uint64, error) {
	usuarios, total, err := s.usuarioRepo.GetUsuarios(ctx, filter)
	if err != nil {
		s.logger.Error("error listando usuarios", zap.Error(err))
		return nil, 0, err
	}

	dtos := make([]dto.UsuarioDTO, 0, len(usuarios))
	for i := range usuarios {
		dtos = append(dtos, *toUsuarioDTO(&usuarios[i]))
	}
	return dtos, total, nil
}

func (s *UsuarioService) FindUsuario(ctx context.Context, id string) (*dto.UsuarioDTO, error) {
	usuario, err := s.usuarioRepo.FindUsuario(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUsuarioDTO(usuario), nil
}

func (s *UsuarioService) CreateUsuario(ctx context.Context, payload dto.CrearUsuarioDTO) (*dto.UsuarioDTO, error) {
	hash, err := utils.HashPassword(payload.Password)
	if err != nil {
		return nil, err
	}

	activo := true
	if payload.Activo != nil {
		activo = *payload.Activo
	}

	usuario := entities.Usuario{
		ID:           s.newID(),
		Username:     payload.Username,
		PasswordHash: hash,
		Nombres:      payload.Nombres,
		Apellidos:    payload.Apellidos,
		Rol:          payload.Rol,
		Activo:       activo,
	}

	if err := s.usuarioRepo.CreateUsuario(ctx, usuario); err != nil {
		if errors.Is(err, apperrors.ErrConflicto) {
			return nil, apperrors.NewHttpError(409, "El usuario ya existe", nil, nil)
		}
		s.logger.Error("error creando usuario", zap.Error(err))
		return nil, err
	}

	s.logger.Info("usuario creado", zap.String("id", usuario.ID), zap.String("username", usuario.Username))
	return s.FindUsuario(ctx, usuario.ID)
}

func (s *UsuarioService) UpdateUsuario(ctx context.Context, id string, payload dto.ActualizarUsuarioDTO) (*dto.UsuarioDTO, error) {
	usuario, err := s.usuarioRepo.FindUsuario(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload.Nombres != nil {
		usuario.Nombres = *payload.Nombres
	}
	if payload.Apellidos != nil {
		usuario.Apellidos = *payload.Apellidos
	}
	if payload.Rol != nil {
		usuario.Rol = *payload.Rol
	}
	if payload.Activo != nil {
		usuario.Activo = *payload.Activo
	}
	if payload.Password != nil {
		hash, err := utils.HashPassword(*payload.Password)
		if err != nil {
			return nil, err
		}
		usuario.PasswordHash = hash
	}

	if err := s.usuarioRepo.UpdateUsuario(ctx, *usuario); err != nil {
		s.logger.Error("error actualizando usuario", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.FindUsuario(ctx, id)
}

func (s *UsuarioService) DeactivateUsuario(ctx context.Context, id string) error {
	if err := s.usuarioRepo.DeactivateUsuario(ctx, id); err != nil {
		return err
	}
	s.logger.Info("usuario desactivado", zap.String("id", id))
	return nil
}

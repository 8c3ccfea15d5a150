package services

import (
	"context"

	"go.uber.org/zap"

	"asistencia-system/internal/dto"
	"asistencia-system/internal/entities"
	"asistencia-system/internal/repositories"
)

type UnidadServiceInterface interface {
	GetUnidades(ctx context.Context, soloActivas bool) ([]dto.UnidadDTO, error)
	FindUnidad(ctx context.Context, id string) (*dto.UnidadDTO, error)
	CreateUnidad(ctx context.Context, payload dto.CrearUnidadDTO) (*dto.UnidadDTO, error)
	UpdateUnidad(ctx context.Context, id string, payload dto.ActualizarUnidadDTO) (*dto.UnidadDTO, error)
	DeactivateUnidad(ctx context.Context, id string) error
}

type UnidadService struct {
	unidadRepo repositories.UnidadRepositoryInterface
	logger     *zap.Logger
	newID      func() string
}

func NewUnidadService(unidadRepo repositories.UnidadRepositoryInterface, logger *zap.Logger, newID func() string) UnidadServiceInterface {
	return &UnidadService{unidadRepo: unidadRepo, logger: logger, newID: newID}
}

func toUnidadDTO(u *entities.Unidad) *dto.UnidadDTO {
	if u == nil {
		return nil
	}
	return &dto.UnidadDTO{
		ID:        u.ID,
		Nombre:    u.Nombre,
		Ciudad:    u.Ciudad,
		Direccion: u.Direccion,
		Activo:    u.Activo,
	}
}

func (s *UnidadService) GetUnidades(ctx context.Context, soloActivas bool) ([]dto.UnidadDTO, error) {
	unidades, err := s.unidadRepo.GetUnidades(ctx, soloActivas)
	if err != nil {
		s.logger.Error("error listando unidades", zap.Error(err))
		return nil, err
	}

	dtos := make([]dto.UnidadDTO, 0, len(unidades))
	for i := range unidades {
		dtos = append(dtos, *toUnidadDTO(&unidades[i]))
	}
	return dtos, nil
}

func (s *UnidadService) FindUnidad(ctx context.Context, id string) (*dto.UnidadDTO, error) {
	unidad, err := s.unidadRepo.FindUnidad(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUnidadDTO(unidad), nil
}

func (s *UnidadService) CreateUnidad(ctx context.Context, payload dto.CrearUnidadDTO) (*dto.UnidadDTO, error) {
	activo := true
	if payload.Activo != nil {
		activo = *payload.Activo
	}

	unidad := entities.Unidad{
		ID:        s.newID(),
		Nombre:    payload.Nombre,
		Ciudad:    payload.Ciudad,
		Direccion: payload.Direccion,
		Activo:    activo,
	}

	if err := s.unidadRepo.CreateUnidad(ctx, unidad); err != nil {
		s.logger.Error("error creando unidad", zap.Error(err))
		return nil, err
	}

	s.logger.Info("unidad creada", zap.String("id", unidad.ID), zap.String("nombre", unidad.Nombre))
	return s.FindUnidad(ctx, unidad.ID)
}

func (s *UnidadService) UpdateUnidad(ctx context.Context, id string, payload dto.ActualizarUnidadDTO) (*dto.UnidadDTO, error) {
	unidad, err := s.unidadRepo.FindUnidad(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload.Nombre != nil {
		unidad.Nombre = *payload.Nombre
	}
	if payload.Ciudad != nil {
		unidad.Ciudad = *payload.Ciudad
	}
	if payload.Direccion != nil {
		unidad.Direccion = payload.Direccion
	}
	if payload.Activo != nil {
		unidad.Activo = *payload.Activo
	}

	if err := s.unidadRepo.UpdateUnidad(ctx, *unidad); err != nil {
		s.logger.Error("error actualizando unidad", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.FindUnidad(ctx, id)
}

func (s *UnidadService) DeactivateUnidad(ctx context.Context, id string) error {
	if err := s.unidadRepo.DeactivateUnidad(ctx, id); err != nil {
		return err
	}
	s.logger.Info("unidad desactivada", zap.String("id", id))
	return nil
}

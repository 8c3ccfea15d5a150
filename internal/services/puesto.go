package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"asistencia-system/internal/dto"
	"asistencia-system/internal/entities"
	"asistencia-system/internal/repositories"
	apperrors "asistencia-system/pkg/errors"
)

type PuestoServiceInterface interface {
	GetPuestos(ctx context.Context, unidadID string, soloActivos bool) ([]dto.PuestoDTO, error)
	FindPuesto(ctx context.Context, id string) (*dto.PuestoDTO, error)
	CreatePuesto(ctx context.Context, payload dto.CrearPuestoDTO) (*dto.PuestoDTO, error)
	UpdatePuesto(ctx context.Context, id string, payload dto.ActualizarPuestoDTO) (*dto.PuestoDTO, error)
	DeactivatePuesto(ctx context.Context, id string) error
}

type PuestoService struct {
	puestoRepo repositories.PuestoRepositoryInterface
	unidadRepo repositories.UnidadRepositoryInterface
	logger     *zap.Logger
	newID      func() string
}

func NewPuestoService(
	puestoRepo repositories.PuestoRepositoryInterface,
	unidadRepo repositories.UnidadRepositoryInterface,
	logger *zap.Logger,
	newID func() string,
) PuestoServiceInterface {
	return &PuestoService{puestoRepo: puestoRepo, unidadRepo: unidadRepo, logger: logger, newID: newID}
}

func toPuestoDTO(p *entities.Puesto) *dto.PuestoDTO {
	if p == nil {
		return nil
	}
	return &dto.PuestoDTO{
		ID:       p.ID,
		UnidadID: p.UnidadID,
		Nombre:   p.Nombre,
		Activo:   p.Activo,
		Unidad:   p.Unidad,
	}
}

func (s *PuestoService) GetPuestos(ctx context.Context, unidadID string, soloActivos bool) ([]dto.PuestoDTO, error) {
	puestos, err := s.puestoRepo.GetPuestos(ctx, unidadID, soloActivos)
	if err != nil {
		s.logger.Error("error listando puestos", zap.Error(err))
		return nil, err
	}

	dtos := make([]dto.PuestoDTO, 0, len(puestos))
	for i := range puestos {
		dtos = append(dtos, *toPuestoDTO(&puestos[i]))
	}
	return dtos, nil
}

func (s *PuestoService) FindPuesto(ctx context.Context, id string) (*dto.PuestoDTO, error) {
	puesto, err := s.puestoRepo.FindPuesto(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPuestoDTO(puesto), nil
}

func (s *PuestoService) CreatePuesto(ctx context.Context, payload dto.CrearPuestoDTO) (*dto.PuestoDTO, error) {
	// El puesto pertenece a exactamente una unidad; debe existir.
	if _, err := s.unidadRepo.FindUnidad(ctx, payload.UnidadID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewBadRequestError("La unidad seleccionada no existe")
		}
		return nil, err
	}

	activo := true
	if payload.Activo != nil {
		activo = *payload.Activo
	}

	puesto := entities.Puesto{
		ID:       s.newID(),
		UnidadID: payload.UnidadID,
		Nombre:   payload.Nombre,
		Activo:   activo,
	}

	if err := s.puestoRepo.CreatePuesto(ctx, puesto); err != nil {
		s.logger.Error("error creando puesto", zap.Error(err))
		return nil, err
	}

	s.logger.Info("puesto creado", zap.String("id", puesto.ID), zap.String("unidadID", puesto.UnidadID))
	return s.FindPuesto(ctx, puesto.ID)
}

func (s *PuestoService) UpdatePuesto(ctx context.Context, id string, payload dto.ActualizarPuestoDTO) (*dto.PuestoDTO, error) {
	puesto, err := s.puestoRepo.FindPuesto(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload.Nombre != nil {
		puesto.Nombre = *payload.Nombre
	}
	if payload.Activo != nil {
		puesto.Activo = *payload.Activo
	}

	if err := s.puestoRepo.UpdatePuesto(ctx, *puesto); err != nil {
		s.logger.Error("error actualizando puesto", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.FindPuesto(ctx, id)
}

func (s *PuestoService) DeactivatePuesto(ctx context.Context, id string) error {
	if err := s.puestoRepo.DeactivatePuesto(ctx, id); err != nil {
		return err
	}
	s.logger.Info("puesto desactivado", zap.String("id", id))
	return nil
}

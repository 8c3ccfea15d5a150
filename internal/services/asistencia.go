package services

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"

	"asistencia-system/internal/dto"
	"asistencia-system/internal/entities"
	"asistencia-system/internal/repositories"
	"asistencia-system/internal/roles"
	"asistencia-system/internal/turno"
	apperrors "asistencia-system/pkg/errors"
)

type AsistenciaServiceInterface interface {
	CheckIn(ctx context.Context, sesion entities.UserSession, payload dto.CheckInDTO, ip string, ahora time.Time) (*dto.AsistenciaDTO, error)
	CheckOut(ctx context.Context, sesion entities.UserSession, payload dto.CheckOutDTO, ahora time.Time) (*dto.AsistenciaDTO, error)
	Actual(ctx context.Context, sesion entities.UserSession, ahora time.Time) (*dto.AsistenciaDTO, error)
	GetAsistencias(ctx context.Context, sesion entities.UserSession, filtro dto.FiltroAsistenciaDTO) ([]dto.AsistenciaDTO, uint64, error)
}

type AsistenciaService struct {
	asistenciaRepo repositories.AsistenciaRepositoryInterface
	cacheRepo      repositories.CacheRepositoryInterface
	logger         *zap.Logger
	revocationTTL  time.Duration
	newID          func() string
}

func NewAsistenciaService(
	asistenciaRepo repositories.AsistenciaRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	logger *zap.Logger,
	revocationTTL time.Duration,
	newID func() string,
) *AsistenciaService {
	return &AsistenciaService{
		asistenciaRepo: asistenciaRepo,
		cacheRepo:      cacheRepo,
		logger:         logger,
		revocationTTL:  revocationTTL,
		newID:          newID,
	}
}

func redondearHoras(d time.Duration) float64 {
	return math.Round(d.Hours()*100) / 100
}

func toAsistenciaDTO(a *entities.Asistencia) *dto.AsistenciaDTO {
	if a == nil {
		return nil
	}
	formatea := func(t *time.Time) *string {
		if t == nil {
			return nil
		}
		s := t.Format(time.RFC3339)
		return &s
	}
	return &dto.AsistenciaDTO{
		ID:              a.ID,
		UserID:          a.UserID,
		UnidadID:        a.UnidadID,
		PuestoID:        a.PuestoID,
		Turno:           a.Turno,
		FechaTurno:      a.FechaTurno,
		CheckInAt:       formatea(a.CheckInAt),
		CheckOutAt:      formatea(a.CheckOutAt),
		HorasTrabajadas: a.HorasTrabajadas,
		Lat:             a.Lat,
		Lng:             a.Lng,
		CiudadDetectada: a.CiudadDetectada,
		IP:              a.IP,
		DeviceInfo:      a.DeviceInfo,
		CreatedAt:       a.CreatedAt.Format(time.RFC3339),
		Usuario:         a.Usuario,
		Unidad:          a.Unidad,
		Puesto:          a.Puesto,
	}
}

// perteneceASesion valida que el check-in sea en la unidad y puesto con los
// que el usuario inició sesión: impide registrarse en un puesto ajeno.
func perteneceASesion(sesion entities.UserSession, unidadID, puestoID string) bool {
	if sesion.UnidadID == nil || sesion.PuestoID == nil {
		return false
	}
	return *sesion.UnidadID == unidadID && *sesion.PuestoID == puestoID
}

// CheckIn abre (o reactiva) el registro de asistencia del turno en curso.
// `ahora` se captura una sola vez por petición para que turno y fecha de
// turno se resuelvan de forma consistente.
func (s *AsistenciaService) CheckIn(ctx context.Context, sesion entities.UserSession, payload dto.CheckInDTO, ip string, ahora time.Time) (*dto.AsistenciaDTO, error) {
	if !perteneceASesion(sesion, payload.UnidadID, payload.PuestoID) {
		return nil, apperrors.ErrUnidadPuestoNoCoinciden
	}

	turnoActual := turno.TurnoActual(ahora)
	fechaTurno := turno.FechaTurno(ahora)

	existente, err := s.asistenciaRepo.FindAsistenciaByClave(ctx, sesion.ID, payload.UnidadID, payload.PuestoID, fechaTurno, turnoActual)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	if existente != nil && existente.CheckInAt != nil {
		return nil, apperrors.ErrYaRegistroIngreso
	}

	var id string
	if existente != nil {
		// Camino defensivo: quedó un registro sin hora de ingreso.
		id = existente.ID
		existente.CheckInAt = &ahora
		existente.Lat = payload.Lat
		existente.Lng = payload.Lng
		existente.CiudadDetectada = payload.CiudadDetectada
		existente.IP = &ip
		existente.DeviceInfo = payload.DeviceInfo
		if err := s.asistenciaRepo.UpdateCheckIn(ctx, *existente); err != nil {
			return nil, err
		}
	} else {
		id = s.newID()
		nueva := entities.Asistencia{
			ID:              id,
			UserID:          sesion.ID,
			UnidadID:        payload.UnidadID,
			PuestoID:        payload.PuestoID,
			Turno:           turnoActual,
			FechaTurno:      fechaTurno,
			CheckInAt:       &ahora,
			Lat:             payload.Lat,
			Lng:             payload.Lng,
			CiudadDetectada: payload.CiudadDetectada,
			IP:              &ip,
			DeviceInfo:      payload.DeviceInfo,
		}
		if err := s.asistenciaRepo.CreateAsistencia(ctx, nueva); err != nil {
			// Dos check-in simultáneos: la restricción única decide al
			// ganador y el perdedor recibe el mismo error que un doble
			// check-in secuencial.
			if errors.Is(err, apperrors.ErrConflicto) {
				return nil, apperrors.ErrYaRegistroIngreso
			}
			return nil, err
		}
	}

	creada, err := s.asistenciaRepo.FindAsistencia(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("check-in registrado",
		zap.String("userID", sesion.ID),
		zap.String("fechaTurno", fechaTurno),
		zap.String("turno", string(turnoActual)),
	)
	return toAsistenciaDTO(creada), nil
}

// CheckOut cierra el registro y calcula las horas trabajadas. Como política
// deliberada, al registrar la salida se revoca la sesión completa del
// usuario: un inicio de sesión por ciclo de turno.
func (s *AsistenciaService) CheckOut(ctx context.Context, sesion entities.UserSession, payload dto.CheckOutDTO, ahora time.Time) (*dto.AsistenciaDTO, error) {
	asistencia, err := s.asistenciaRepo.FindAsistencia(ctx, payload.AsistenciaID)
	if err != nil {
		return nil, err
	}
	if asistencia.UserID != sesion.ID {
		// No se revela que el registro existe pero es ajeno.
		return nil, apperrors.ErrNotFound
	}

	if asistencia.CheckInAt == nil {
		return nil, apperrors.ErrDebeRegistrarIngreso
	}
	if asistencia.CheckOutAt != nil {
		return nil, apperrors.ErrYaRegistroSalida
	}

	horas := redondearHoras(ahora.Sub(*asistencia.CheckInAt))
	asistencia.CheckOutAt = &ahora
	asistencia.HorasTrabajadas = &horas
	if payload.Lat != nil {
		asistencia.Lat = payload.Lat
	}
	if payload.Lng != nil {
		asistencia.Lng = payload.Lng
	}

	if err := s.asistenciaRepo.UpdateCheckOut(ctx, *asistencia); err != nil {
		return nil, err
	}

	if err := s.cacheRepo.Set(ctx, repositories.RevocationKey(sesion.ID), ahora.Unix(), s.revocationTTL); err != nil {
		// La salida ya quedó registrada; se avisa pero no se revierte.
		s.logger.Warn("no se pudo revocar la sesión tras el check-out",
			zap.String("userID", sesion.ID), zap.Error(err))
	}

	s.logger.Info("check-out registrado",
		zap.String("userID", sesion.ID),
		zap.String("asistenciaID", asistencia.ID),
		zap.Float64("horasTrabajadas", horas),
	)

	actualizada, err := s.asistenciaRepo.FindAsistencia(ctx, asistencia.ID)
	if err != nil {
		return nil, err
	}
	return toAsistenciaDTO(actualizada), nil
}

// Actual devuelve el registro del turno en curso, o nil si todavía no hay
// check-in. Antes de las 07:00 resuelve la fecha de la víspera, de modo que
// un turno noche abierto sigue encontrándose después de medianoche.
func (s *AsistenciaService) Actual(ctx context.Context, sesion entities.UserSession, ahora time.Time) (*dto.AsistenciaDTO, error) {
	if sesion.UnidadID == nil || sesion.PuestoID == nil {
		return nil, nil
	}

	asistencia, err := s.asistenciaRepo.FindAsistenciaByClave(
		ctx, sesion.ID, *sesion.UnidadID, *sesion.PuestoID,
		turno.FechaTurno(ahora), turno.TurnoActual(ahora),
	)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toAsistenciaDTO(asistencia), nil
}

// GetAsistencias lista el historial. Los roles sin acceso al historial
// quedan restringidos a sus propios registros sin importar el filtro
// que pidan.
func (s *AsistenciaService) GetAsistencias(ctx context.Context, sesion entities.UserSession, filtro dto.FiltroAsistenciaDTO) ([]dto.AsistenciaDTO, uint64, error) {
	if !roles.TieneAccesoHistorial(sesion.Rol) {
		filtro.UserID = sesion.ID
	}

	asistencias, total, err := s.asistenciaRepo.GetAsistencias(ctx, filtro)
	if err != nil {
		s.logger.Error("error listando asistencias", zap.Error(err))
		return nil, 0, err
	}

	dtos := make([]dto.AsistenciaDTO, 0, len(asistencias))
	for i := range asistencias {
		dtos = append(dtos, *toAsistenciaDTO(&asistencias[i]))
	}
	return dtos, total, nil
}

package dto

import (
	"asistencia-system/internal/entities"
	"asistencia-system/internal/roles"
	"asistencia-system/internal/turno"
)

type CheckInDTO struct {
	UnidadID        string   `json:"unidadId" validate:"required,uuid4"`
	PuestoID        string   `json:"puestoId" validate:"required,uuid4"`
	Lat             *float64 `json:"lat"`
	Lng             *float64 `json:"lng"`
	CiudadDetectada *string  `json:"ciudadDetectada"`
	DeviceInfo      *string  `json:"deviceInfo"`
}

type CheckOutDTO struct {
	AsistenciaID string   `json:"asistenciaId" validate:"required,uuid4"`
	Lat          *float64 `json:"lat"`
	Lng          *float64 `json:"lng"`
}

// Estados de un registro para el filtro del historial.
const (
	EstadoSoloIngreso = "solo_ingreso"
	EstadoCompleto    = "completo"
)

// FiltroAsistenciaDTO se construye desde la query string del listado.
type FiltroAsistenciaDTO struct {
	FechaDesde string
	FechaHasta string
	UnidadID   string
	PuestoID   string
	UserID     string
	Rol        roles.Rol
	Turno      turno.Turno
	Estado     string
	Ciudad     string
	Busqueda   string
	Pagina     int
	PorPagina  int
}

type AsistenciaDTO struct {
	ID              string                   `json:"id"`
	UserID          string                   `json:"userId"`
	UnidadID        string                   `json:"unidadId"`
	PuestoID        string                   `json:"puestoId"`
	Turno           turno.Turno              `json:"turno"`
	FechaTurno      string                   `json:"fechaTurno"`
	CheckInAt       *string                  `json:"checkInAt"`
	CheckOutAt      *string                  `json:"checkOutAt"`
	HorasTrabajadas *float64                 `json:"horasTrabajadas"`
	Lat             *float64                 `json:"lat"`
	Lng             *float64                 `json:"lng"`
	CiudadDetectada *string                  `json:"ciudadDetectada"`
	IP              *string                  `json:"ip"`
	DeviceInfo      *string                  `json:"deviceInfo"`
	CreatedAt       string                   `json:"createdAt"`
	Usuario         *entities.UsuarioResumen `json:"usuario,omitempty"`
	Unidad          *entities.UnidadResumen  `json:"unidad,omitempty"`
	Puesto          *entities.PuestoResumen  `json:"puesto,omitempty"`
}

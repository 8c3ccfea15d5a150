package entities

import (
	"time"

	"asistencia-system/internal/turno"
)

// Asistencia representa el turno de un usuario en un puesto concreto. La
// tupla (UserID, UnidadID, PuestoID, FechaTurno, Turno) es única: nunca hay
// dos registros para el mismo turno. Los registros no se borran, solo se
// actualizan.
type Asistencia struct {
	ID              string
	UserID          string
	UnidadID        string
	PuestoID        string
	Turno           turno.Turno
	FechaTurno      string
	CheckInAt       *time.Time
	CheckOutAt      *time.Time
	HorasTrabajadas *float64
	Lat             *float64
	Lng             *float64
	CiudadDetectada *string
	IP              *string
	DeviceInfo      *string
	CreatedAt       time.Time

	Usuario *UsuarioResumen
	Unidad  *UnidadResumen
	Puesto  *PuestoResumen
}

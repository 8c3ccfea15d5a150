package entities

import "asistencia-system/internal/roles"

// UserSession es la identidad firmada dentro del token: quién es el usuario
// y en qué unidad/puesto inició sesión. No se persiste en el servidor.
type UserSession struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Nombres   string    `json:"nombres"`
	Apellidos string    `json:"apellidos"`
	Rol       roles.Rol `json:"rol"`
	UnidadID  *string   `json:"unidadId"`
	PuestoID  *string   `json:"puestoId"`
}

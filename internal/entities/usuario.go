package entities

import (
	"time"

	"asistencia-system/internal/roles"
)

type Usuario struct {
	ID           string
	Username     string
	PasswordHash string
	Nombres      string
	Apellidos    string
	Rol          roles.Rol
	Activo       bool
	CreatedAt    time.Time
}

// UsuarioResumen es la proyección de un usuario que viaja unida a cada
// registro de asistencia.
type UsuarioResumen struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Nombres   string    `json:"nombres"`
	Apellidos string    `json:"apellidos"`
	Rol       roles.Rol `json:"rol"`
}

package dto

import "asistencia-system/internal/roles"

type CrearUsuarioDTO struct {
	Username  string    `json:"username" validate:"required,min=3,max=50"`
	Password  string    `json:"password" validate:"required,min=8,password_segura"`
	Nombres   string    `json:"nombres" validate:"required,min=2"`
	Apellidos string    `json:"apellidos" validate:"required,min=2"`
	Rol       roles.Rol `json:"rol" validate:"required,rol_valido"`
	Activo    *bool     `json:"activo"`
}

type ActualizarUsuarioDTO struct {
	Nombres   *string    `json:"nombres" validate:"omitempty,min=2"`
	Apellidos *string    `json:"apellidos" validate:"omitempty,min=2"`
	Rol       *roles.Rol `json:"rol" validate:"omitempty,rol_valido"`
	Activo    *bool      `json:"activo"`
	Password  *string    `json:"password" validate:"omitempty,min=8,password_segura"`
}

type UsuarioDTO struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Nombres   string    `json:"nombres"`
	Apellidos string    `json:"apellidos"`
	Rol       roles.Rol `json:"rol"`
	Activo    bool      `json:"activo"`
	CreatedAt string    `json:"createdAt"`
}

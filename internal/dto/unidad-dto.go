package dto

type CrearUnidadDTO struct {
	Nombre    string  `json:"nombre" validate:"required,min=2"`
	Ciudad    string  `json:"ciudad" validate:"required,min=2"`
	Direccion *string `json:"direccion"`
	Activo    *bool   `json:"activo"`
}

type ActualizarUnidadDTO struct {
	Nombre    *string `json:"nombre" validate:"omitempty,min=2"`
	Ciudad    *string `json:"ciudad" validate:"omitempty,min=2"`
	Direccion *string `json:"direccion"`
	Activo    *bool   `json:"activo"`
}

type UnidadDTO struct {
	ID        string  `json:"id"`
	Nombre    string  `json:"nombre"`
	Ciudad    string  `json:"ciudad"`
	Direccion *string `json:"direccion,omitempty"`
	Activo    bool    `json:"activo"`
}

package dto

import "asistencia-system/internal/entities"

type CrearPuestoDTO struct {
	UnidadID string `json:"unidadId" validate:"required,uuid4"`
	Nombre   string `json:"nombre" validate:"required,min=2"`
	Activo   *bool  `json:"activo"`
}

type ActualizarPuestoDTO struct {
	Nombre *string `json:"nombre" validate:"omitempty,min=2"`
	Activo *bool   `json:"activo"`
}

type PuestoDTO struct {
	ID       string                  `json:"id"`
	UnidadID string                  `json:"unidadId"`
	Nombre   string                  `json:"nombre"`
	Activo   bool                    `json:"activo"`
	Unidad   *entities.UnidadResumen `json:"unidad,omitempty"`
}

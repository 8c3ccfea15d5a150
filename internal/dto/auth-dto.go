package dto

import "asistencia-system/internal/entities"

type LoginDTO struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=6"`
	UnidadID string `json:"unidadId" validate:"required,uuid4"`
	PuestoID string `json:"puestoId" validate:"required,uuid4"`
}

type LoginResponseDTO struct {
	User         entities.UserSession `json:"user"`
	AccessToken  string               `json:"accessToken"`
	RefreshToken string               `json:"refreshToken"`
}

// RefreshDTO permite mandar el refresh token en el cuerpo cuando el
// cliente no usa la cookie.
type RefreshDTO struct {
	RefreshToken string `json:"refreshToken"`
}

type RefreshResponseDTO struct {
	AccessToken string `json:"accessToken"`
}

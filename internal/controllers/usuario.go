package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"asistencia-system/internal/dto"
	"asistencia-system/internal/services"
	apperrors "asistencia-system/pkg/errors"
	"asistencia-system/pkg/types"
	"asistencia-system/pkg/utils"
)

type UsuarioController struct {
	usuarioService services.UsuarioServiceInterface
	logger         *zap.Logger
}

func NewUsuarioController(usuarioService services.UsuarioServiceInterface, logger *zap.Logger) *UsuarioController {
	return &UsuarioController{usuarioService: usuarioService, logger: logger}
}

func (ctrl *UsuarioController) GetUsuarios(c echo.Context) error {
	filter := utils.ParseFilterFromQuery(c.Request().URL.Query())

	usuarios, total, err := ctrl.usuarioService.GetUsuarios(c.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	return utils.ListResponse(c, usuarios, types.NewPagination(total, filter.Page, filter.Limit), "Usuarios obtenidos exitosamente")
}

func (ctrl *UsuarioController) FindUsuario(c echo.Context) error {
	usuario, err := ctrl.usuarioService.FindUsuario(c.Request().Context(), c.Param("id"))
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	return utils.SuccessResponse(c, usuario, "Usuario encontrado", http.StatusOK)
}

func (ctrl *UsuarioController) CreateUsuario(c echo.Context) error {
	var payload dto.CrearUsuarioDTO

	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, apperrors.NewBadRequestError("Formato de datos inválido"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	usuario, err := ctrl.usuarioService.CreateUsuario(c.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	return utils.SuccessResponse(c, usuario, "Usuario creado exitosamente", http.StatusCreated)
}

func (ctrl *UsuarioController) UpdateUsuario(c echo.Context) error {
	var payload dto.ActualizarUsuarioDTO

	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, apperrors.NewBadRequestError("Formato de datos inválido"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	usuario, err := ctrl.usuarioService.UpdateUsuario(c.Request().Context(), c.Param("id"), payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	return utils.SuccessResponse(c, usuario, "Usuario actualizado exitosamente", http.StatusOK)
}

func (ctrl *UsuarioController) DeactivateUsuario(c echo.Context) error {
	if err := ctrl.usuarioService.DeactivateUsuario(c.Request().Context(), c.Param("id")); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	return utils.SuccessResponse(c, nil, "Usuario desactivado exitosamente", http.StatusOK)
}

package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"asistencia-system/internal/dto"
	"asistencia-system/internal/services"
	apperrors "asistencia-system/pkg/errors"
	"asistencia-system/pkg/utils"
)

type UnidadController struct {
	unidadService services.UnidadServiceInterface
	logger        *zap.Logger
}

func NewUnidadController(unidadService services.UnidadServiceInterface, logger *zap.Logger) *UnidadController {
	return &UnidadController{unidadService: unidadService, logger: logger}
}

func (ctrl *UnidadController) GetUnidades(c echo.Context) error {
	// El listado público solo muestra unidades activas; el panel de
	// administración pide todas con ?todas=true.
	soloActivas := c.QueryParam("todas") != "true"

	unidades, err := ctrl.unidadService.GetUnidades(c.Request().Context(), soloActivas)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	return utils.SuccessResponse(c, unidades, "Unidades obtenidas exitosamente", http.StatusOK)
}

func (ctrl *UnidadController) FindUnidad(c echo.Context) error {
	unidad, err := ctrl.unidadService.FindUnidad(c.Request().Context(), c.Param("id"))
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	return utils.SuccessResponse(c, unidad, "Unidad encontrada", http.StatusOK)
}

func (ctrl *UnidadController) CreateUnidad(c echo.Context) error {
	var payload dto.CrearUnidadDTO

	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, apperrors.NewBadRequestError("Formato de datos inválido"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	unidad, err := ctrl.unidadService.CreateUnidad(c.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	return utils.SuccessResponse(c, unidad, "Unidad creada exitosamente", http.StatusCreated)
}

func (ctrl *UnidadController) UpdateUnidad(c echo.Context) error {
	var payload dto.ActualizarUnidadDTO

	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, apperrors.NewBadRequestError("Formato de datos inválido"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	unidad, err := ctrl.unidadService.UpdateUnidad(c.Request().Context(), c.Param("id"), payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	return utils.SuccessResponse(c, unidad, "Unidad actualizada exitosamente", http.StatusOK)
}

func (ctrl *UnidadController) DeactivateUnidad(c echo.Context) error {
	if err := ctrl.unidadService.DeactivateUnidad(c.Request().Context(), c.Param("id")); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	return utils.SuccessResponse(c, nil, "Unidad desactivada exitosamente", http.StatusOK)
}

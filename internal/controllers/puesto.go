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

type PuestoController struct {
	puestoService services.PuestoServiceInterface
	logger        *zap.Logger
}

func NewPuestoController(puestoService services.PuestoServiceInterface, logger *zap.Logger) *PuestoController {
	return &PuestoController{puestoService: puestoService, logger: logger}
}

func (ctrl *PuestoController) GetPuestos(c echo.Context) error {
	unidadID := c.QueryParam("unidadId")
	soloActivos := c.QueryParam("todos") != "true"

	puestos, err := ctrl.puestoService.GetPuestos(c.Request().Context(), unidadID, soloActivos)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	return utils.SuccessResponse(c, puestos, "Puestos obtenidos exitosamente", http.StatusOK)
}

func (ctrl *PuestoController) FindPuesto(c echo.Context) error {
	puesto, err := ctrl.puestoService.FindPuesto(c.Request().Context(), c.Param("id"))
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	return utils.SuccessResponse(c, puesto, "Puesto encontrado", http.StatusOK)
}

func (ctrl *PuestoController) CreatePuesto(c echo.Context) error {
	var payload dto.CrearPuestoDTO

	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, apperrors.NewBadRequestError("Formato de datos inválido"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	puesto, err := ctrl.puestoService.CreatePuesto(c.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	return utils.SuccessResponse(c, puesto, "Puesto creado exitosamente", http.StatusCreated)
}

func (ctrl *PuestoController) UpdatePuesto(c echo.Context) error {
	var payload dto.ActualizarPuestoDTO

	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, apperrors.NewBadRequestError("Formato de datos inválido"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	puesto, err := ctrl.puestoService.UpdatePuesto(c.Request().Context(), c.Param("id"), payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	return utils.SuccessResponse(c, puesto, "Puesto actualizado exitosamente", http.StatusOK)
}

func (ctrl *PuestoController) DeactivatePuesto(c echo.Context) error {
	if err := ctrl.puestoService.DeactivatePuesto(c.Request().Context(), c.Param("id")); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	return utils.SuccessResponse(c, nil, "Puesto desactivado exitosamente", http.StatusOK)
}

package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"asistencia-system/internal/dto"
	"asistencia-system/internal/roles"
	"asistencia-system/internal/services"
	"asistencia-system/internal/turno"
	apperrors "asistencia-system/pkg/errors"
	"asistencia-system/pkg/types"
	"asistencia-system/pkg/utils"
)

type AsistenciaController struct {
	asistenciaService services.AsistenciaServiceInterface
	logger            *zap.Logger
}

func NewAsistenciaController(asistenciaService services.AsistenciaServiceInterface, logger *zap.Logger) *AsistenciaController {
	return &AsistenciaController{asistenciaService: asistenciaService, logger: logger}
}

func (ctrl *AsistenciaController) CheckIn(c echo.Context) error {
	ahora := time.Now()

	sesion, err := utils.GetSessionFromCtx(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.CheckInDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, apperrors.NewBadRequestError("Formato de datos inválido"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	asistencia, err := ctrl.asistenciaService.CheckIn(c.Request().Context(), sesion, payload, c.RealIP(), ahora)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	return utils.SuccessResponse(c, asistencia, "Ingreso registrado exitosamente", http.StatusCreated)
}

func (ctrl *AsistenciaController) CheckOut(c echo.Context) error {
	ahora := time.Now()

	sesion, err := utils.GetSessionFromCtx(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.CheckOutDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, apperrors.NewBadRequestError("Formato de datos inválido"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	asistencia, err := ctrl.asistenciaService.CheckOut(c.Request().Context(), sesion, payload, ahora)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	return utils.SuccessResponse(c, asistencia, "Salida registrada exitosamente", http.StatusOK)
}

// Actual devuelve el registro del turno en curso; body nulo significa
// que el usuario aún no ha marcado ingreso en este turno.
func (ctrl *AsistenciaController) Actual(c echo.Context) error {
	ahora := time.Now()

	sesion, err := utils.GetSessionFromCtx(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	asistencia, err := ctrl.asistenciaService.Actual(c.Request().Context(), sesion, ahora)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	return utils.SuccessResponse(c, asistencia, "Estado del turno actual", http.StatusOK)
}

func (ctrl *AsistenciaController) GetAsistencias(c echo.Context) error {
	sesion, err := utils.GetSessionFromCtx(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	filtro := ParseFiltroAsistencia(c)

	asistencias, total, err := ctrl.asistenciaService.GetAsistencias(c.Request().Context(), sesion, filtro)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	return utils.ListResponse(c, asistencias, types.NewPagination(total, filtro.Pagina, filtro.PorPagina), "Asistencias obtenidas exitosamente")
}

// ParseFiltroAsistencia arma el filtro del historial desde la query
// string. Valores no reconocidos de rol, turno o estado se descartan en
// lugar de fallar.
func ParseFiltroAsistencia(c echo.Context) dto.FiltroAsistenciaDTO {
	filtro := dto.FiltroAsistenciaDTO{
		FechaDesde: c.QueryParam("fechaDesde"),
		FechaHasta: c.QueryParam("fechaHasta"),
		UnidadID:   c.QueryParam("unidadId"),
		PuestoID:   c.QueryParam("puestoId"),
		UserID:     c.QueryParam("userId"),
		Ciudad:     c.QueryParam("ciudad"),
		Busqueda:   c.QueryParam("busqueda"),
		Pagina:     1,
		PorPagina:  utils.DefaultLimit,
	}

	if rol := roles.Rol(c.QueryParam("rol")); rol.Valido() {
		filtro.Rol = rol
	}
	if t := turno.Turno(c.QueryParam("turno")); t == turno.Dia || t == turno.Noche {
		filtro.Turno = t
	}
	if estado := c.QueryParam("estado"); estado == dto.EstadoSoloIngreso || estado == dto.EstadoCompleto {
		filtro.Estado = estado
	}

	if p, err := strconv.Atoi(c.QueryParam("pagina")); err == nil && p > 0 {
		filtro.Pagina = p
	}
	if pp, err := strconv.Atoi(c.QueryParam("porPagina")); err == nil && pp > 0 {
		if pp > utils.MaxLimit {
			pp = utils.MaxLimit
		}
		filtro.PorPagina = pp
	}

	return filtro
}

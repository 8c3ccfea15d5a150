package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"asistencia-system/internal/dto"
	"asistencia-system/internal/services"
	"asistencia-system/pkg/utils"
)

type ExportController struct {
	asistenciaService services.AsistenciaServiceInterface
	logger            *zap.Logger
}

func NewExportController(asistenciaService services.AsistenciaServiceInterface, logger *zap.Logger) *ExportController {
	return &ExportController{asistenciaService: asistenciaService, logger: logger}
}

var exportHeaders = []string{
	"Empleado", "Usuario", "Rol", "Unidad", "Ciudad", "Puesto", "Turno",
	"Fecha de turno", "Ingreso", "Salida", "Horas trabajadas", "Ciudad detectada", "IP",
}

func exportRow(a dto.AsistenciaDTO) []interface{} {
	const fechaHora = "02/01/2006 15:04"

	var empleado, username, rol string
	if a.Usuario != nil {
		empleado = a.Usuario.Nombres + " " + a.Usuario.Apellidos
		username = a.Usuario.Username
		rol = string(a.Usuario.Rol)
	}
	var unidad, ciudad string
	if a.Unidad != nil {
		unidad = a.Unidad.Nombre
		ciudad = a.Unidad.Ciudad
	}
	var puesto string
	if a.Puesto != nil {
		puesto = a.Puesto.Nombre
	}

	formatear := func(rfc3339 *string) string {
		if rfc3339 == nil {
			return ""
		}
		if t, err := time.Parse(time.RFC3339, *rfc3339); err == nil {
			return t.Format(fechaHora)
		}
		return *rfc3339
	}

	var horas string
	if a.HorasTrabajadas != nil {
		horas = fmt.Sprintf("%.2f", *a.HorasTrabajadas)
	}
	var ciudadDetectada, ip string
	if a.CiudadDetectada != nil {
		ciudadDetectada = *a.CiudadDetectada
	}
	if a.IP != nil {
		ip = *a.IP
	}

	return []interface{}{
		empleado, username, rol, unidad, ciudad, puesto, string(a.Turno),
		a.FechaTurno, formatear(a.CheckInAt), formatear(a.CheckOutAt), horas, ciudadDetectada, ip,
	}
}

// ExportExcel arma el libro con el mismo filtro del historial, sin
// paginar: la exportación siempre cubre el rango completo.
func (ctrl *ExportController) ExportExcel(c echo.Context) error {
	sesion, err := utils.GetSessionFromCtx(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	filtro := ParseFiltroAsistencia(c)
	filtro.Pagina = 1
	filtro.PorPagina = 100000

	asistencias, _, err := ctrl.asistenciaService.GetAsistencias(c.Request().Context(), sesion, filtro)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	f := excelize.NewFile()
	sheet := "Asistencias"
	f.SetSheetName("Sheet1", sheet)
	f.SetSheetRow(sheet, "A1", &exportHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "M1", style)

	for i, a := range asistencias {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := exportRow(a)
		f.SetSheetRow(sheet, cell, &row)
	}
	f.SetColWidth(sheet, "A", "A", 30)
	f.SetColWidth(sheet, "B", "F", 20)
	f.SetColWidth(sheet, "H", "J", 18)
	f.SetColWidth(sheet, "L", "M", 18)

	fileName := fmt.Sprintf("asistencias_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	c.Response().WriteHeader(http.StatusOK)
	return f.Write(c.Response().Writer)
}

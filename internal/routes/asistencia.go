package routes

import (
	"github.com/labstack/echo/v4"

	"asistencia-system/internal/controllers"
)

func runAsistenciaRouter(secureGroup *echo.Group, ctrl *controllers.AsistenciaController) {
	// El listado no lleva middleware de rol: el servicio fuerza el
	// filtro al propio usuario cuando el rol no tiene acceso al
	// historial.
	secureGroup.POST("/asistencias", ctrl.CheckIn)
	secureGroup.POST("/asistencias/checkout", ctrl.CheckOut)
	secureGroup.GET("/asistencias/actual", ctrl.Actual)
	secureGroup.GET("/asistencias", ctrl.GetAsistencias)
}

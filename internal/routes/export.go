package routes

import (
	"github.com/labstack/echo/v4"

	"asistencia-system/internal/controllers"
	"asistencia-system/pkg/middleware"
)

func runExportRouter(secureGroup *echo.Group, ctrl *controllers.ExportController, authMW *middleware.AuthMiddleware) {
	secureGroup.GET("/exportar/excel", ctrl.ExportExcel, authMW.RequireHistorial())
}

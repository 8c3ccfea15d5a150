package routes

import (
	"github.com/labstack/echo/v4"

	"asistencia-system/internal/controllers"
	"asistencia-system/pkg/middleware"
)

func runPuestoRouter(api *echo.Group, secureGroup *echo.Group, ctrl *controllers.PuestoController, authMW *middleware.AuthMiddleware) {
	api.GET("/puestos", ctrl.GetPuestos)

	grp := secureGroup.Group("/puestos", authMW.RequireAdmin())
	grp.GET("/:id", ctrl.FindPuesto)
	grp.POST("", ctrl.CreatePuesto)
	grp.PUT("/:id", ctrl.UpdatePuesto)
	grp.DELETE("/:id", ctrl.DeactivatePuesto)
}

package routes

import (
	"github.com/labstack/echo/v4"

	"asistencia-system/internal/controllers"
	"asistencia-system/pkg/middleware"
)

func runUnidadRouter(api *echo.Group, secureGroup *echo.Group, ctrl *controllers.UnidadController, authMW *middleware.AuthMiddleware) {
	// El formulario de inicio de sesión necesita el catálogo antes de
	// autenticarse.
	api.GET("/unidades", ctrl.GetUnidades)

	grp := secureGroup.Group("/unidades", authMW.RequireAdmin())
	grp.GET("/:id", ctrl.FindUnidad)
	grp.POST("", ctrl.CreateUnidad)
	grp.PUT("/:id", ctrl.UpdateUnidad)
	grp.DELETE("/:id", ctrl.DeactivateUnidad)
}

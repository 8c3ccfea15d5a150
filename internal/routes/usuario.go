package routes

import (
	"github.com/labstack/echo/v4"

	"asistencia-system/internal/controllers"
	"asistencia-system/pkg/middleware"
)

func runUsuarioRouter(secureGroup *echo.Group, ctrl *controllers.UsuarioController, authMW *middleware.AuthMiddleware) {
	grp := secureGroup.Group("/usuarios", authMW.RequireAdmin())

	grp.GET("", ctrl.GetUsuarios)
	grp.GET("/:id", ctrl.FindUsuario)
	grp.POST("", ctrl.CreateUsuario)
	grp.PUT("/:id", ctrl.UpdateUsuario)
	grp.DELETE("/:id", ctrl.DeactivateUsuario)
}

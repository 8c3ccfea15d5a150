package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"asistencia-system/internal/controllers"
	"asistencia-system/internal/repositories"
	"asistencia-system/internal/services"
	"asistencia-system/pkg/config"
	"asistencia-system/pkg/middleware"
	"asistencia-system/pkg/service"
)

// InitRouter arma todos los repositorios, servicios y controladores y
// registra los maestros bajo /api. Las rutas públicas solo cubren el
// inicio de sesión y los catálogos que el formulario de acceso necesita.
func InitRouter(
	e *echo.Echo,
	dbConn *pgxpool.Pool,
	redisClient *redis.Client,
	tokenSvc service.TokenService,
	logger *zap.Logger,
	cfg *config.Config,
) {
	api := e.Group("/api")

	newID := uuid.NewString

	// --- repositorios ---
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)
	usuarioRepo := repositories.NewUsuarioRepository(dbConn, logger)
	unidadRepo := repositories.NewUnidadRepository(dbConn, logger)
	puestoRepo := repositories.NewPuestoRepository(dbConn, logger)
	asistenciaRepo := repositories.NewAsistenciaRepository(dbConn, logger)

	// --- servicios ---
	authService := services.NewAuthService(usuarioRepo, unidadRepo, puestoRepo, cacheRepo, tokenSvc, logger)
	usuarioService := services.NewUsuarioService(usuarioRepo, logger, newID)
	unidadService := services.NewUnidadService(unidadRepo, logger, newID)
	puestoService := services.NewPuestoService(puestoRepo, unidadRepo, logger, newID)
	asistenciaService := services.NewAsistenciaService(asistenciaRepo, cacheRepo, logger, cfg.JWT.RefreshTokenTTL, newID)

	// --- controladores ---
	authController := controllers.NewAuthController(authService, tokenSvc, logger)
	usuarioController := controllers.NewUsuarioController(usuarioService, logger)
	unidadController := controllers.NewUnidadController(unidadService, logger)
	puestoController := controllers.NewPuestoController(puestoService, logger)
	asistenciaController := controllers.NewAsistenciaController(asistenciaService, logger)
	exportController := controllers.NewExportController(asistenciaService, logger)

	authMW := middleware.NewAuthMiddleware(tokenSvc, cacheRepo, logger)
	secureGroup := api.Group("", authMW.Auth)

	runAuthRouter(api, secureGroup, authController)
	runUsuarioRouter(secureGroup, usuarioController, authMW)
	runUnidadRouter(api, secureGroup, unidadController, authMW)
	runPuestoRouter(api, secureGroup, puestoController, authMW)
	runAsistenciaRouter(secureGroup, asistenciaController)
	runExportRouter(secureGroup, exportController, authMW)

	logger.Info("rutas registradas")
}

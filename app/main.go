package main

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"asistencia-system/internal/routes"
	"asistencia-system/pkg/config"
	"asistencia-system/pkg/database/postgresql"
	apperrors "asistencia-system/pkg/errors"
	applogger "asistencia-system/pkg/logger"
	"asistencia-system/pkg/service"
	"asistencia-system/pkg/utils"
)

func main() {
	e := echo.New()
	e.HideBanner = true

	logger := applogger.NewLogger()
	defer logger.Sync()

	cfg := config.New()

	e.Use(echomw.RecoverWithConfig(echomw.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("pánico recuperado",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Error interno del servidor", err, nil)
				utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))

	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		ExposeHeaders:    []string{"Content-Disposition"},
	}))

	v := validator.New()
	if err := utils.RegisterCustomValidations(v); err != nil {
		logger.Fatal("error registrando reglas de validación", zap.Error(err))
	}
	e.Validator = utils.NewValidator(v)

	postgresql.RunMigrations(cfg.Postgres.DSN, "migrations", logger)

	dbConn := postgresql.ConnectDB(cfg.Postgres.DSN, logger)
	defer dbConn.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	defer redisClient.Close()

	tokenSvc := service.NewTokenService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
		logger,
	)

	routes.InitRouter(e, dbConn, redisClient, tokenSvc, logger, cfg)

	logger.Info("servidor iniciado", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
		logger.Fatal("el servidor terminó con error", zap.Error(err))
	}
}

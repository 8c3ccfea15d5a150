package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"asistencia-system/internal/dto"
	"asistencia-system/internal/services"
	apperrors "asistencia-system/pkg/errors"
	"asistencia-system/pkg/service"
	"asistencia-system/pkg/utils"
)

type AuthController struct {
	authService  services.AuthServiceInterface
	tokenService service.TokenService
	logger       *zap.Logger
}

func NewAuthController(
	authService services.AuthServiceInterface,
	tokenService service.TokenService,
	logger *zap.Logger,
) *AuthController {
	return &AuthController{
		authService:  authService,
		tokenService: tokenService,
		logger:       logger,
	}
}

func (ctrl *AuthController) errorResponse(c echo.Context, err error) error {
	return utils.ErrorResponse(c, err, ctrl.logger)
}

func (ctrl *AuthController) setRefreshCookie(c echo.Context, token string, maxAge time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     "refreshToken",
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func (ctrl *AuthController) Login(c echo.Context) error {
	var payload dto.LoginDTO

	if err := c.Bind(&payload); err != nil {
		ctrl.logger.Error("Login: error vinculando datos", zap.Error(err))
		return ctrl.errorResponse(c, apperrors.NewBadRequestError("Formato de datos de inicio de sesión inválido"))
	}

	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	res, err := ctrl.authService.Login(c.Request().Context(), payload)
	if err != nil {
		ctrl.logger.Warn("Login: autenticación fallida", zap.String("username", payload.Username), zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	ctrl.setRefreshCookie(c, res.RefreshToken, ctrl.tokenService.GetRefreshTokenTTL())

	return utils.SuccessResponse(c, res, "Inicio de sesión exitoso", http.StatusOK)
}

func (ctrl *AuthController) Refresh(c echo.Context) error {
	refreshToken := ""
	if cookie, err := c.Cookie("refreshToken"); err == nil {
		refreshToken = cookie.Value
	}
	if refreshToken == "" {
		var payload dto.RefreshDTO
		if err := c.Bind(&payload); err == nil {
			refreshToken = payload.RefreshToken
		}
	}
	if refreshToken == "" {
		return ctrl.errorResponse(c, apperrors.ErrNoAutorizado)
	}

	res, err := ctrl.authService.Refresh(c.Request().Context(), refreshToken)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	return utils.SuccessResponse(c, res, "Token renovado exitosamente", http.StatusOK)
}

func (ctrl *AuthController) Logout(c echo.Context) error {
	sesion, err := utils.GetSessionFromCtx(c.Request().Context())
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	if err := ctrl.authService.Logout(c.Request().Context(), sesion, time.Now()); err != nil {
		return ctrl.errorResponse(c, err)
	}

	c.SetCookie(&http.Cookie{
		Name:     "refreshToken",
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})

	return utils.SuccessResponse(c, nil, "Sesión cerrada exitosamente", http.StatusOK)
}

func (ctrl *AuthController) Me(c echo.Context) error {
	sesion, err := utils.GetSessionFromCtx(c.Request().Context())
	if err != nil {
		ctrl.logger.Error("Me: no se pudo recuperar la sesión del contexto", zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	return utils.SuccessResponse(c, sesion, "Sesión activa", http.StatusOK)
}

package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "asistencia-system/pkg/errors"
	"asistencia-system/pkg/types"
)

type HTTPResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
}

func SuccessResponse(c echo.Context, body interface{}, message string, code int) error {
	return c.JSON(code, &HTTPResponse{
		Status:  true,
		Body:    body,
		Message: message,
	})
}

// ListResponse envuelve un listado junto con su paginación.
func ListResponse(c echo.Context, list interface{}, pagination types.Pagination, message string) error {
	return c.JSON(http.StatusOK, &HTTPResponse{
		Status: true,
		Body: map[string]interface{}{
			"list":       list,
			"pagination": pagination,
		},
		Message: message,
	})
}

// ErrorResponse es el único punto donde un error se convierte en respuesta
// HTTP. Los errores de dominio conservan su mensaje; cualquier otro se
// registra y se responde con un 500 genérico sin detalles internos.
func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		if httpErr.Err != nil {
			logger.Error("error http",
				zap.Int("code", httpErr.Code),
				zap.String("message", httpErr.Message),
				zap.Error(httpErr.Err),
			)
		}
		resp := &HTTPResponse{Status: false, Message: httpErr.Message}
		if httpErr.Details != nil {
			resp.Body = httpErr.Details
		}
		return c.JSON(httpErr.Code, resp)
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var msgs []string
		for _, e := range validationErrors {
			msgs = append(msgs, fmt.Sprintf("el campo '%s' no cumple la regla '%s'", e.Field(), e.Tag()))
		}
		return c.JSON(http.StatusBadRequest, &HTTPResponse{
			Status:  false,
			Message: "Datos inválidos: " + strings.Join(msgs, "; "),
		})
	}

	for domainErr, statusCode := range apperrors.ErrorList {
		if errors.Is(err, domainErr) {
			return c.JSON(statusCode, &HTTPResponse{Status: false, Message: domainErr.Error()})
		}
	}

	logger.Error("error inesperado", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, &HTTPResponse{
		Status:  false,
		Message: "Error interno del servidor",
	})
}

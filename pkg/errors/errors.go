package errors

import (
	"fmt"
	"net/http"
)

// Errores de dominio. Los mensajes son los que ve el usuario final,
// por eso están en español.
var (
	// Tokens y sesión
	ErrEmptyAuthHeader   = fmt.Errorf("falta el encabezado de autorización")
	ErrInvalidAuthHeader = fmt.Errorf("formato de encabezado de autorización inválido")
	ErrTokenInvalido     = fmt.Errorf("token inválido o expirado")
	ErrTokenRevocado     = fmt.Errorf("la sesión fue cerrada, inicie sesión nuevamente")
	ErrTokenNoEsAccess   = fmt.Errorf("se requiere un token de acceso")
	ErrTokenNoEsRefresh  = fmt.Errorf("se requiere un token de refresco")

	// Autenticación / autorización
	ErrCredencialesInvalidas = fmt.Errorf("usuario o contraseña incorrectos")
	ErrNoAutorizado          = fmt.Errorf("no autorizado")
	ErrProhibido             = fmt.Errorf("no tiene permisos para acceder a este recurso")

	// Asistencias
	ErrUnidadPuestoNoCoinciden = fmt.Errorf("la unidad o puesto no coinciden con su sesión")
	ErrYaRegistroIngreso       = fmt.Errorf("ya ha registrado su ingreso para este turno")
	ErrYaRegistroSalida        = fmt.Errorf("ya ha registrado su salida para este turno")
	ErrDebeRegistrarIngreso    = fmt.Errorf("debe registrar su ingreso primero")
	ErrConflicto               = fmt.Errorf("el registro ya existe")

	// Generales
	ErrNotFound   = fmt.Errorf("registro no encontrado")
	ErrBadRequest = fmt.Errorf("datos inválidos")
)

// ErrorList asocia cada error de dominio con su código HTTP.
var ErrorList = map[error]int{
	ErrEmptyAuthHeader:   http.StatusUnauthorized,
	ErrInvalidAuthHeader: http.StatusUnauthorized,
	ErrTokenInvalido:     http.StatusUnauthorized,
	ErrTokenRevocado:     http.StatusUnauthorized,
	ErrTokenNoEsAccess:   http.StatusUnauthorized,
	ErrTokenNoEsRefresh:  http.StatusUnauthorized,

	ErrCredencialesInvalidas: http.StatusUnauthorized,
	ErrNoAutorizado:          http.StatusUnauthorized,
	ErrProhibido:             http.StatusForbidden,

	ErrUnidadPuestoNoCoinciden: http.StatusForbidden,
	ErrYaRegistroIngreso:       http.StatusConflict,
	ErrYaRegistroSalida:        http.StatusConflict,
	ErrDebeRegistrarIngreso:    http.StatusBadRequest,
	ErrConflicto:               http.StatusConflict,

	ErrNotFound:   http.StatusNotFound,
	ErrBadRequest: http.StatusBadRequest,
}

// HttpError transporta un código de estado junto con el mensaje para el
// usuario y el error técnico subyacente (solo para logs).
type HttpError struct {
	Code    int
	Message string
	Err     error
	Details interface{}
}

func (e *HttpError) Error() string {
	return e.Message
}

func (e *HttpError) Unwrap() error {
	return e.Err
}

func NewHttpError(code int, message string, err error, details interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Details: details}
}

func NewBadRequestError(message string) *HttpError {
	return &HttpError{Code: http.StatusBadRequest, Message: message}
}

package utils

import (
	"fmt"
	"unicode"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"asistencia-system/internal/roles"
)

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("no se pudo hashear la contraseña: %w", err)
	}
	return string(bytes), nil
}

func ComparePasswords(hashedPassword string, plainPassword string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
}

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator(v *validator.Validate) *CustomValidator {
	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// RegisterCustomValidations registra las reglas propias del sistema.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("password_segura", esPasswordSegura); err != nil {
		return err
	}
	return v.RegisterValidation("rol_valido", esRolValido)
}

func esRolValido(fl validator.FieldLevel) bool {
	return roles.Rol(fl.Field().String()).Valido()
}

// esPasswordSegura exige al menos una mayúscula, una minúscula y un dígito.
func esPasswordSegura(fl validator.FieldLevel) bool {
	var mayuscula, minuscula, digito bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsUpper(r):
			mayuscula = true
		case unicode.IsLower(r):
			minuscula = true
		case unicode.IsDigit(r):
			digito = true
		}
	}
	return mayuscula && minuscula && digito
}

package usecase

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const bcryptMaxPasswordBytes = 72

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// в сообщениях используем имена полей из JSON
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct проверяет структуру и приводит первую ошибку к *ValidationError
func validateStruct(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("ошибка валидации: %w", err)
	}

	fe := fieldErrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return &ValidationError{Field: field, Detail: fmt.Sprintf("O campo %s é obrigatório.", field)}
	case "email":
		return &ValidationError{Field: field, Detail: fmt.Sprintf("O campo %s deve ser um e-mail válido.", field)}
	case "min":
		return &ValidationError{Field: field, Detail: fmt.Sprintf("O campo %s não pode ser vazio.", field)}
	case "max":
		return &ValidationError{Field: field, Detail: fmt.Sprintf("O campo %s excede o tamanho máximo.", field)}
	default:
		return &ValidationError{Field: field, Detail: fmt.Sprintf("O campo %s é inválido.", field)}
	}
}

// checkPasswordLength bcrypt не принимает пароли длиннее 72 байт
func checkPasswordLength(password string) error {
	if len(password) > bcryptMaxPasswordBytes {
		return &ValidationError{Field: "password", Detail: "O campo password excede o tamanho máximo."}
	}
	return nil
}

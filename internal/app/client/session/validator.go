package session

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator проверяет ввод пользователя перед входом и регистрацией
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		return fieldName(field.Name)
	})
	return &Validator{validate: v}
}

// ValidateLogin проверяет адрес и пароль
func (v *Validator) ValidateLogin(email, password string) error {
	return v.check(loginRequest{Email: strings.TrimSpace(email), Password: password})
}

// ValidateRegister проверяет данные регистрации
func (v *Validator) ValidateRegister(req RegisterRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	return v.check(req)
}

func (v *Validator) check(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{Errors: []string{err.Error()}}
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, message(fe))
	}
	return &ValidationError{Errors: messages}
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "eqfield":
		return "passwords do not match"
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func fieldName(name string) string {
	switch name {
	case "ConfirmPassword":
		return "password confirmation"
	default:
		return strings.ToLower(name)
	}
}

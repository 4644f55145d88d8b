package user

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Validator - интерфейс для валидации пользовательских данных
type Validator interface {
	ValidateRegister(req RegisterRequest) error
	ValidateLogin(email string) error
}

type PasswordValidator struct {
	validate *validator.Validate

	// strict включает требования к классам символов пароля
	strict bool
}

// NewPasswordValidator создает новый валидатор. В строгом режиме пароль
// должен содержать строчные и заглавные буквы, цифру и спецсимвол.
func NewPasswordValidator(strict bool) *PasswordValidator {
	return &PasswordValidator{
		validate: validator.New(),
		strict:   strict,
	}
}

// ValidateRegister валидирует данные для регистрации
func (v *PasswordValidator) ValidateRegister(req RegisterRequest) error {
	if err := v.validate.Struct(req); err != nil {
		return invalidInput(describe(err))
	}

	if v.strict {
		if err := checkPasswordClasses(req.Password); err != nil {
			return invalidInput(err.Error())
		}
	}

	return nil
}

// ValidateLogin валидирует адрес почты
func (v *PasswordValidator) ValidateLogin(email string) error {
	if err := v.validate.Var(email, "required,email"); err != nil {
		return invalidInput("email must be a valid email address")
	}
	return nil
}

func describe(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "email":
			msgs = append(msgs, field+" must be a valid email address")
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}

func checkPasswordClasses(password string) error {
	hasLower := false
	hasUpper := false
	hasDigit := false
	hasSpecial := false

	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasDigit {
		return fmt.Errorf("password must contain at least one digit")
	}
	if !hasSpecial {
		return fmt.Errorf("password must contain at least one special character")
	}

	return nil
}

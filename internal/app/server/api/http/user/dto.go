package user

import "medsync/internal/domain/user"

const statusSuccess = "success"

type UserDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func toDTO(u user.User) UserDTO {
	return UserDTO{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

type AuthData struct {
	User  UserDTO `json:"user"`
	Token string  `json:"token,omitempty"`
}

// AuthResponse - ответ вида {status, message, data}
type AuthResponse struct {
	Status  string    `json:"status"`
	Message string    `json:"message,omitempty"`
	Data    *AuthData `json:"data,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" maxLength:"254"`
	Password string `json:"password" maxLength:"72"`
}

type loginInput struct {
	Body LoginRequest
}

type registerInput struct {
	Body user.RegisterRequest
}

type authOutput struct {
	Body AuthResponse
}

type registerOutput struct {
	Status int
	Body   AuthResponse
}

type emptyInput struct{}

package user

import "time"

const (
	RoleAdmin        = "admin"
	RoleDoctor       = "doctor"
	RoleNurse        = "nurse"
	RoleReceptionist = "receptionist"
	RoleStaff        = "staff"
)

type User struct {
	ID           string
	Name         string
	Email        string
	Role         string
	PasswordHash string
	CreatedAt    time.Time
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// Account - учетная запись для первоначального заполнения хранилища
type Account struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// DemoAccounts совпадают со встроенной таблицей клиента
var DemoAccounts = []Account{
	{Name: "Admin User", Email: "admin@hospital.com", Password: "admin123", Role: RoleAdmin},
	{Name: "Dr. Sarah Wilson", Email: "doctor@hospital.com", Password: "doctor123", Role: RoleDoctor},
	{Name: "Nurse Emily Davis", Email: "nurse@hospital.com", Password: "nurse123", Role: RoleNurse},
	{Name: "Reception Staff", Email: "reception@hospital.com", Password: "reception123", Role: RoleReceptionist},
}

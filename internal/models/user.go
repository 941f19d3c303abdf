package models

// Роли пользователей.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// User описывает пользователя, которого вернул бэкенд при входе.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Credentials содержит данные для входа.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

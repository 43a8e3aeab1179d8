package dto

import "time"

// LoginRequest body para POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse token y datos del usuario autenticado.
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

// RegisterUserRequest body para POST /api/auth/register (solo Administrador).
type RegisterUserRequest struct {
	Name     string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password"`
	RoleID   int    `json:"role_id"`
}

// UpdateUserRequest body para PUT /api/usuarios/:id (solo Administrador).
type UpdateUserRequest struct {
	Name     *string `json:"nombre,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	RoleID   *int    `json:"role_id,omitempty"`
	Active   *bool   `json:"activo,omitempty"`
}

// UserResponse proyección de un usuario para la API (sin hash).
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"nombre"`
	Email     string    `json:"email"`
	RoleID    int       `json:"role_id"`
	Active    bool      `json:"activo"`
	CreatedAt time.Time `json:"created_at"`
}

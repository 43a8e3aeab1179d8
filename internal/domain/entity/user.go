package entity

import "time"

// Roles del sistema. El ID numérico viaja en el JWT y decide el acceso por ruta.
const (
	RoleAdministrador = 1
	RoleOficina       = 2
	RoleOperario      = 3
	RoleDelivery      = 4
)

// ValidRole indica si el ID corresponde a un rol reconocido.
func ValidRole(id int) bool {
	return id >= RoleAdministrador && id <= RoleDelivery
}

// User representa un usuario interno del sistema.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string // bcrypt, nunca en claro después de persistir
	RoleID       int
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

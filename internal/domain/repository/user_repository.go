package repository

import "github.com/greenriver-post/almacen-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)

	// GetActiveByEmail devuelve el usuario activo con ese email, o nil si no existe.
	GetActiveByEmail(email string) (*entity.User, error)

	GetByEmail(email string) (*entity.User, error)
	Update(user *entity.User) error
	List(limit, offset int) ([]*entity.User, int, error)
}

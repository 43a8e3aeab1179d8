package repository

import (
	"github.com/shopspring/decimal"

	"github.com/greenriver-post/almacen-api/internal/domain/entity"
)

// ProductFilter filtros del listado de productos.
type ProductFilter struct {
	CategoryID string
	State      string
	Search     string // búsqueda por nombre
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// Quantity solo se escribe vía UpdateQuantity, siempre dentro de la misma
// transacción que el registro de auditoría correspondiente.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByCodigoQR(codigo string) (*entity.Product, error)

	// GetForUpdate obtiene el producto bloqueando la fila (SELECT FOR UPDATE).
	GetForUpdate(id string) (*entity.Product, error)

	// UpdateQuantity escribe la nueva cantidad. El caller garantiza que el
	// movimiento/transformación de auditoría se persiste en la misma transacción.
	UpdateQuantity(id string, quantity decimal.Decimal) error

	Update(product *entity.Product) error
	List(filter ProductFilter, limit, offset int) ([]*entity.Product, int, error)
	Delete(id string) error
}

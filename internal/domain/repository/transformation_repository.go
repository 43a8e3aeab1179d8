package repository

import "github.com/greenriver-post/almacen-api/internal/domain/entity"

// TransformationRepository define el puerto de persistencia para Transformation.
// Igual que los movimientos, las transformaciones son append-only.
type TransformationRepository interface {
	Create(t *entity.Transformation) error
	GetByID(id string) (*entity.Transformation, error)
	ListByProduct(productID string, limit, offset int) ([]*entity.Transformation, error)
}

package repository

import "github.com/greenriver-post/almacen-api/internal/domain/entity"

// LabelRepository define el puerto de persistencia para Label.
type LabelRepository interface {
	Create(label *entity.Label) error
	GetByProduct(productID string) (*entity.Label, error)
}

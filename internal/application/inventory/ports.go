package inventory

import (
	"context"

	"github.com/greenriver-post/almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que el movimiento de auditoría y la
// cantidad del producto se escriben juntos o no se escribe nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error) error

	// RunTransform variante con el repositorio de transformaciones.
	RunTransform(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		transformRepo repository.TransformationRepository,
	) error) error
}

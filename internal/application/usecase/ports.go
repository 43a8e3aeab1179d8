package usecase

import (
	"context"

	"github.com/greenriver-post/almacen-api/internal/domain/repository"
)

// ProductTxRunner ejecuta la creación de producto dentro de una transacción:
// producto + etiqueta + movimiento inicial se confirman juntos.
type ProductTxRunner interface {
	RunProduct(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		movRepo repository.MovementRepository,
		labelRepo repository.LabelRepository,
	) error) error
}

// ProductQRGenerator colaborador externo que renderiza la etiqueta QR del
// producto y devuelve la ruta del PNG.
type ProductQRGenerator interface {
	GenerateProductQR(productID, codigo string) (string, error)
}

package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/greenriver-post/almacen-api/internal/domain"
	"github.com/greenriver-post/almacen-api/internal/domain/entity"
	"github.com/greenriver-post/almacen-api/internal/domain/repository"
)

// TransformUseCase transfiere cantidad de un producto a otro de forma atómica
// (ej: "No tratado" → "Tratado"). Ambas filas se bloquean FOR UPDATE durante
// toda la secuencia leer-modificar-escribir para que dos transformaciones
// concurrentes no sobregiren el origen con una lectura obsoleta.
type TransformUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
}

// NewTransformUseCase construye el caso de uso.
func NewTransformUseCase(txRunner TxRunner, productRepo repository.ProductRepository) *TransformUseCase {
	return &TransformUseCase{txRunner: txRunner, productRepo: productRepo}
}

// TransformInput entrada para una transformación.
type TransformInput struct {
	SourceProductID string
	DestProductID   string
	Quantity        decimal.Decimal
	Type            string
	Notes           string
	UserID          string
}

// Transform decrementa origen, incrementa destino e inserta el registro de
// transformación; las tres escrituras se confirman juntas. La suma de
// cantidades origen+destino se conserva.
func (uc *TransformUseCase) Transform(ctx context.Context, input TransformInput) (*entity.Transformation, *entity.Product, *entity.Product, error) {
	if input.SourceProductID == "" || input.DestProductID == "" || input.Type == "" {
		return nil, nil, nil, domain.ErrInvalidInput
	}
	if input.SourceProductID == input.DestProductID {
		return nil, nil, nil, domain.ErrInvalidInput
	}
	if !input.Quantity.GreaterThan(decimal.Zero) {
		return nil, nil, nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var tr *entity.Transformation
	var source, dest *entity.Product

	err := uc.txRunner.RunTransform(ctx, func(
		productRepo repository.ProductRepository,
		transformRepo repository.TransformationRepository,
	) error {
		// Orden de bloqueo canónico por ID ascendente: dos transformaciones
		// sobre el mismo par en sentidos opuestos no pueden interbloquearse.
		firstID, secondID := input.SourceProductID, input.DestProductID
		if secondID < firstID {
			firstID, secondID = secondID, firstID
		}
		first, err := productRepo.GetForUpdate(firstID)
		if err != nil {
			return err
		}
		second, err := productRepo.GetForUpdate(secondID)
		if err != nil {
			return err
		}
		if first == nil || second == nil {
			return domain.ErrNotFound
		}

		source, dest = first, second
		if source.ID != input.SourceProductID {
			source, dest = second, first
		}

		if source.Quantity.LessThan(input.Quantity) {
			return &domain.InsufficientStockError{
				ProductName: source.Name,
				Available:   source.Quantity,
				Requested:   input.Quantity,
			}
		}

		source.Quantity = source.Quantity.Sub(input.Quantity)
		dest.Quantity = dest.Quantity.Add(input.Quantity)
		if err := productRepo.UpdateQuantity(source.ID, source.Quantity); err != nil {
			return err
		}
		if err := productRepo.UpdateQuantity(dest.ID, dest.Quantity); err != nil {
			return err
		}

		tr = &entity.Transformation{
			ID:              uuid.New().String(),
			SourceProductID: source.ID,
			DestProductID:   dest.ID,
			Quantity:        input.Quantity,
			Type:            input.Type,
			Notes:           input.Notes,
			UserID:          input.UserID,
			CreatedAt:       now,
		}
		return transformRepo.Create(tr)
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return tr, source, dest, nil
}

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

// RegisterMovementUseCase aplica un movimiento de stock (entrada, salida o
// ajuste) y actualiza la cantidad del producto como una sola unidad atómica,
// con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
type RegisterMovementUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(txRunner TxRunner, productRepo repository.ProductRepository) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{txRunner: txRunner, productRepo: productRepo}
}

// MovementInput entrada para registrar un movimiento de stock.
// Para entrada/salida Quantity es el delta (> 0); para ajuste es la cantidad
// absoluta resultante (>= 0).
type MovementInput struct {
	ProductID string
	Type      string
	Quantity  decimal.Decimal
	Notes     string
	UserID    string
}

// RegisterMovement valida la entrada, bloquea la fila del producto y aplica el
// efecto del movimiento. El registro en movimientos y la cantidad del producto
// se confirman juntos o se revierte todo.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInput) (*entity.Movement, *entity.Product, error) {
	if input.ProductID == "" || !entity.ValidMovementType(input.Type) {
		return nil, nil, domain.ErrInvalidInput
	}
	switch input.Type {
	case entity.MovementEntrada, entity.MovementSalida:
		if !input.Quantity.GreaterThan(decimal.Zero) {
			return nil, nil, domain.ErrInvalidInput
		}
	case entity.MovementAjuste:
		if input.Quantity.LessThan(decimal.Zero) {
			return nil, nil, domain.ErrInvalidInput
		}
	}

	// Existencia fuera de la tx (solo lectura); la verificación de stock va
	// dentro, sobre la fila bloqueada.
	product, err := uc.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, domain.ErrNotFound
	}

	now := time.Now()
	var mov *entity.Movement
	var updated *entity.Product

	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		locked, err := productRepo.GetForUpdate(input.ProductID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}

		newQty := locked.Quantity
		switch input.Type {
		case entity.MovementEntrada:
			newQty = locked.Quantity.Add(input.Quantity)
		case entity.MovementSalida:
			if locked.Quantity.LessThan(input.Quantity) {
				return &domain.InsufficientStockError{
					ProductName: locked.Name,
					Available:   locked.Quantity,
					Requested:   input.Quantity,
				}
			}
			newQty = locked.Quantity.Sub(input.Quantity)
		case entity.MovementAjuste:
			newQty = input.Quantity
		}

		if err := productRepo.UpdateQuantity(locked.ID, newQty); err != nil {
			return err
		}
		mov = &entity.Movement{
			ID:        uuid.New().String(),
			ProductID: locked.ID,
			Type:      input.Type,
			Quantity:  input.Quantity,
			Notes:     input.Notes,
			UserID:    input.UserID,
			CreatedAt: now,
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		locked.Quantity = newQty
		updated = locked
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return mov, updated, nil
}

// RegisterSalidaInTx ejecuta una salida usando los repositorios del caller
// (misma transacción). Lo usa la creación de manifiestos para descontar stock
// por línea dentro de su propia tx; notes referencia el número de manifiesto.
func (uc *RegisterMovementUseCase) RegisterSalidaInTx(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	productID string,
	quantity decimal.Decimal,
	notes, userID string,
	now time.Time,
) error {
	locked, err := productRepo.GetForUpdate(productID)
	if err != nil {
		return err
	}
	if locked == nil {
		return domain.ErrNotFound
	}
	if locked.Quantity.LessThan(quantity) {
		return &domain.InsufficientStockError{
			ProductName: locked.Name,
			Available:   locked.Quantity,
			Requested:   quantity,
		}
	}
	if err := productRepo.UpdateQuantity(locked.ID, locked.Quantity.Sub(quantity)); err != nil {
		return err
	}
	return movRepo.Create(&entity.Movement{
		ID:        uuid.New().String(),
		ProductID: locked.ID,
		Type:      entity.MovementSalida,
		Quantity:  quantity,
		Notes:     notes,
		UserID:    userID,
		CreatedAt: now,
	})
}

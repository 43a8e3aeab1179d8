package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementEntrada = "entrada" // suma Quantity al producto
	MovementSalida  = "salida"  // resta Quantity al producto
	MovementAjuste  = "ajuste"  // fija la cantidad absoluta del producto
)

// ValidMovementType indica si el tipo es uno de los reconocidos.
func ValidMovementType(t string) bool {
	return t == MovementEntrada || t == MovementSalida || t == MovementAjuste
}

// Movement es el registro inmutable de auditoría de un cambio de stock.
// El libro es append-only: una corrección es un movimiento nuevo, nunca una edición.
type Movement struct {
	ID        string
	ProductID string
	Type      string
	Quantity  decimal.Decimal // delta para entrada/salida; cantidad absoluta para ajuste
	Notes     string
	UserID    string
	CreatedAt time.Time
}

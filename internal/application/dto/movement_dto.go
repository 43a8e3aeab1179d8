package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMovementRequest body para POST /api/movimientos.
// Para entrada/salida Cantidad es el delta; para ajuste es el stock absoluto.
type CreateMovementRequest struct {
	ProductID string          `json:"producto_id"`
	Type      string          `json:"tipo"`
	Quantity  decimal.Decimal `json:"cantidad"`
	Notes     string          `json:"observaciones,omitempty"`
}

// MovementResponse proyección de un movimiento para la API.
type MovementResponse struct {
	ID        string          `json:"id"`
	Type      string          `json:"tipo"`
	Quantity  decimal.Decimal `json:"cantidad"`
	Notes     string          `json:"observaciones,omitempty"`
	Product   *ProductSummary `json:"producto,omitempty"`
	UserID    string          `json:"usuario_id,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transformation es la transferencia atómica de cantidad entre dos productos
// (ej: "No tratado" → "Tratado"). Origen decrementa y destino incrementa
// exactamente Quantity, sin estado intermedio observable.
type Transformation struct {
	ID              string
	SourceProductID string
	DestProductID   string
	Quantity        decimal.Decimal
	Type            string // etiqueta libre del tipo de transformación
	Notes           string
	UserID          string
	CreatedAt       time.Time
}

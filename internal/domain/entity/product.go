package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto físico en bodega. Quantity nunca es negativa y
// solo cambia a través de un Movement, una Transformation o el despacho de un
// Manifest; nunca se escribe directamente sin su registro de auditoría.
type Product struct {
	ID         string
	Name       string
	CategoryID string
	Unit       string // unidad de medida, etiqueta libre (ej: kg, unidades)
	State      string // estado libre del producto (ej: "No terminado", "Tratado")
	Quantity   decimal.Decimal
	ClientID   string // cliente propietario, opcional
	CodigoQR   string // código de correlación externo, inmutable una vez asignado
	CreatedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

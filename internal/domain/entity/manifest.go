package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del manifiesto de entrega.
const (
	ManifestEnProceso  = "en_proceso"
	ManifestEnTransito = "en_transito"
	ManifestEntregado  = "entregado"
	ManifestCancelado  = "cancelado"
)

// ValidManifestState indica si el estado es uno de los cuatro reconocidos.
func ValidManifestState(s string) bool {
	switch s {
	case ManifestEnProceso, ManifestEnTransito, ManifestEntregado, ManifestCancelado:
		return true
	}
	return false
}

// Manifest es el documento de entrega de productos a un cliente.
// Numero y CodigoQR son estables una vez asignados; PDFPathFinal solo se
// escribe cuando el estado pasa a entregado.
type Manifest struct {
	ID             string
	Numero         string // MAN-YYYYMMDD-NNNN, único, consecutivo por día
	ClientID       string
	State          string
	CodigoQR       string // código de correlación para verificación pública
	FirmaOperador  string // firma en base64, opcional hasta que se capture
	FirmaCliente   string // se fija al confirmar la entrega
	PDFPathProceso string
	PDFPathFinal   string
	CreatedBy      string
	DeliveredBy    string
	CreatedAt      time.Time
	DeliveredAt    *time.Time
	UpdatedAt      time.Time
}

// ManifestLine es una línea del manifiesto. No existe sin su manifiesto
// (se elimina en cascada con él).
type ManifestLine struct {
	ID         string
	ManifestID string
	ProductID  string
	Quantity   decimal.Decimal
	UnitPrice  *decimal.Decimal
	Subtotal   *decimal.Decimal
}

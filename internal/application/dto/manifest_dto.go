package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ManifestLineRequest línea de producto dentro de la creación de un manifiesto.
type ManifestLineRequest struct {
	ProductID string           `json:"producto_id"`
	Quantity  decimal.Decimal  `json:"cantidad"`
	UnitPrice *decimal.Decimal `json:"precio_unitario,omitempty"`
	Subtotal  *decimal.Decimal `json:"subtotal,omitempty"`
}

// CreateManifestRequest body para POST /api/manifiestos.
type CreateManifestRequest struct {
	ClientID      string                `json:"cliente_id"`
	Lines         []ManifestLineRequest `json:"detalles"`
	FirmaOperador string                `json:"firma_operador,omitempty"`
}

// ConfirmDeliveryRequest body para PUT /api/manifiestos/:id/firma-cliente.
// El codigo_qr viaja por query string; solo la firma va en el body.
type ConfirmDeliveryRequest struct {
	FirmaCliente string `json:"firma_cliente"`
}

// UpdateManifestStatusRequest body para PUT /api/manifiestos/:id/estado.
type UpdateManifestStatusRequest struct {
	State       string `json:"estado"`
	DeliveryUID string `json:"usuario_entrega_id,omitempty"`
}

// ManifestLineResponse proyección de una línea del manifiesto.
type ManifestLineResponse struct {
	ID        string           `json:"id"`
	Quantity  decimal.Decimal  `json:"cantidad"`
	UnitPrice *decimal.Decimal `json:"precio_unitario,omitempty"`
	Subtotal  *decimal.Decimal `json:"subtotal,omitempty"`
	Product   *ProductSummary  `json:"producto,omitempty"`
}

// ManifestResponse proyección de un manifiesto para la API.
type ManifestResponse struct {
	ID             string                 `json:"id"`
	Numero         string                 `json:"numero_manifiesto"`
	State          string                 `json:"estado"`
	CodigoQR       string                 `json:"codigo_qr"`
	Client         *ClientResponse        `json:"cliente,omitempty"`
	Lines          []ManifestLineResponse `json:"detalles,omitempty"`
	FirmaOperador  string                 `json:"firma_operador,omitempty"`
	FirmaCliente   string                 `json:"firma_cliente,omitempty"`
	PDFPathProceso string                 `json:"pdf_path_proceso,omitempty"`
	PDFPathFinal   string                 `json:"pdf_path_final,omitempty"`
	CreatedAt      time.Time              `json:"fecha_creacion"`
	DeliveredAt    *time.Time             `json:"fecha_entrega,omitempty"`
}

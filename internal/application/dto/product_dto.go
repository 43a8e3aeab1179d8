package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/productos.
// Cantidad es el stock inicial; queda registrada como movimiento de entrada.
type CreateProductRequest struct {
	Name       string          `json:"nombre"`
	CategoryID string          `json:"categoria_id"`
	Unit       string          `json:"medida,omitempty"`
	State      string          `json:"estado,omitempty"`
	Quantity   decimal.Decimal `json:"cantidad"`
	ClientID   string          `json:"cliente_id,omitempty"`
}

// UpdateProductRequest body para PUT /api/productos/:id.
// La cantidad no se actualiza por aquí: solo vía movimientos.
type UpdateProductRequest struct {
	Name       *string `json:"nombre,omitempty"`
	CategoryID *string `json:"categoria_id,omitempty"`
	Unit       *string `json:"medida,omitempty"`
	State      *string `json:"estado,omitempty"`
	ClientID   *string `json:"cliente_id,omitempty"`
}

// ProductResponse proyección de un producto para la API.
type ProductResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"nombre"`
	Unit      string           `json:"medida,omitempty"`
	State     string           `json:"estado"`
	Quantity  decimal.Decimal  `json:"cantidad"`
	CodigoQR  string           `json:"codigo_qr"`
	Category  *CategoryResponse `json:"categoria,omitempty"`
	Client    *ClientResponse  `json:"cliente,omitempty"`
	LabelPath string           `json:"etiqueta_path,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// TransformRequest body para POST /api/productos/transformar.
type TransformRequest struct {
	SourceProductID string          `json:"producto_origen_id"`
	DestProductID   string          `json:"producto_destino_id"`
	Quantity        decimal.Decimal `json:"cantidad"`
	Type            string          `json:"tipo_transformacion"`
	Notes           string          `json:"observaciones,omitempty"`
}

// TransformResponse resultado de una transformación con las cantidades finales.
type TransformResponse struct {
	ID             string          `json:"id"`
	Type           string          `json:"tipo_transformacion"`
	Quantity       decimal.Decimal `json:"cantidad"`
	SourceProduct  ProductSummary  `json:"producto_origen"`
	DestProduct    ProductSummary  `json:"producto_destino"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ProductSummary referencia corta a un producto en respuestas anidadas.
type ProductSummary struct {
	ID       string          `json:"id"`
	Name     string          `json:"nombre"`
	Quantity decimal.Decimal `json:"cantidad_actual"`
}

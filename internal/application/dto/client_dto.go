package dto

import "time"

// CreateClientRequest body para POST /api/clientes.
type CreateClientRequest struct {
	Name    string `json:"nombre"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"telefono,omitempty"`
	Address string `json:"direccion,omitempty"`
	RucDNI  string `json:"ruc_dni,omitempty"`
}

// UpdateClientRequest body para PUT /api/clientes/:id.
type UpdateClientRequest struct {
	Name    *string `json:"nombre,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"telefono,omitempty"`
	Address *string `json:"direccion,omitempty"`
	RucDNI  *string `json:"ruc_dni,omitempty"`
}

// ClientResponse proyección de un cliente para la API.
type ClientResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"nombre"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"telefono,omitempty"`
	Address   string    `json:"direccion,omitempty"`
	RucDNI    string    `json:"ruc_dni,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCategoryRequest body para POST /api/categorias.
type CreateCategoryRequest struct {
	Name        string `json:"nombre"`
	Description string `json:"descripcion,omitempty"`
}

// UpdateCategoryRequest body para PUT /api/categorias/:id.
type UpdateCategoryRequest struct {
	Name        *string `json:"nombre,omitempty"`
	Description *string `json:"descripcion,omitempty"`
}

// CategoryResponse proyección de una categoría para la API.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"nombre"`
	Description string    `json:"descripcion,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

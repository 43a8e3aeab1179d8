package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrInvalidCode        = errors.New("código QR inválido para este manifiesto")
	ErrAlreadyDelivered   = errors.New("este manifiesto ya fue entregado")
	ErrInvalidTransition  = errors.New("transición de estado inválida")
	ErrArtifact           = errors.New("error generando artefacto")
)

// InsufficientStockError detalla un faltante de stock: producto, disponible y requerido.
// Envuelve ErrInsufficientStock para que errors.Is siga funcionando en los handlers.
type InsufficientStockError struct {
	ProductName string
	Available   decimal.Decimal
	Requested   decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s (disponible: %s, requerido: %s)",
		e.ProductName, e.Available.String(), e.Requested.String())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// ManifestStockError acumula todos los faltantes detectados al crear un manifiesto.
// La creación reporta cada producto insuficiente, no solo el primero.
type ManifestStockError struct {
	Shortages []*InsufficientStockError
}

func (e *ManifestStockError) Error() string {
	msg := "stock insuficiente para: "
	for i, s := range e.Shortages {
		if i > 0 {
			msg += ", "
		}
		msg += fmt.Sprintf("%s (disponible: %s, requerido: %s)",
			s.ProductName, s.Available.String(), s.Requested.String())
	}
	return msg
}

func (e *ManifestStockError) Unwrap() error { return ErrInsufficientStock }

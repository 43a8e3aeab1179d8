package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/greenriver-post/almacen-api/internal/application/dto"
	"github.com/greenriver-post/almacen-api/internal/application/inventory"
	"github.com/greenriver-post/almacen-api/internal/domain"
	"github.com/greenriver-post/almacen-api/internal/domain/repository"
)

// MovementHandler maneja el registro y consulta de movimientos de stock.
type MovementHandler struct {
	uc      *inventory.RegisterMovementUseCase
	movRepo repository.MovementRepository
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *inventory.RegisterMovementUseCase, movRepo repository.MovementRepository) *MovementHandler {
	return &MovementHandler{uc: uc, movRepo: movRepo}
}

// Create godoc
// @Summary      Registrar movimiento de stock
// @Tags         movimientos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMovementRequest  true  "producto_id, tipo (entrada|salida|ajuste), cantidad"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movimientos [post]
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	movement, product, err := h.uc.RegisterMovement(c.Context(), inventory.MovementInput{
		ProductID: in.ProductID,
		Type:      in.Type,
		Quantity:  in.Quantity,
		Notes:     in.Notes,
		UserID:    GetUserID(c),
	})
	if err != nil {
		var stockErr *domain.InsufficientStockError
		if errors.As(err, &stockErr) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: stockErr.Error()})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos del movimiento inválidos"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementResponse{
		ID:       movement.ID,
		Type:     movement.Type,
		Quantity: movement.Quantity,
		Notes:    movement.Notes,
		Product: &dto.ProductSummary{
			ID: product.ID, Name: product.Name, Quantity: product.Quantity,
		},
		UserID:    movement.UserID,
		CreatedAt: movement.CreatedAt,
	})
}

// List godoc
// @Summary      Listar movimientos
// @Tags         movimientos
// @Security     Bearer
// @Produce      json
// @Param        producto_id  query  string  false  "Filtrar por producto"
// @Param        tipo         query  string  false  "entrada | salida | ajuste"
// @Param        desde        query  string  false  "Fecha inicial (RFC 3339)"
// @Param        hasta        query  string  false  "Fecha final (RFC 3339)"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/movimientos [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.Normalize()

	filter := repository.MovementFilter{
		ProductID: c.Query("producto_id"),
		Type:      c.Query("tipo"),
	}
	var err error
	if filter.From, err = parseDateQuery(c.Query("desde")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha desde inválida"})
	}
	if filter.To, err = parseDateQuery(c.Query("hasta")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha hasta inválida"})
	}

	movements, total, err := h.movRepo.List(filter, page.PerPage, page.Offset())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.MovementResponse{
			ID:        m.ID,
			Type:      m.Type,
			Quantity:  m.Quantity,
			Notes:     m.Notes,
			Product:   &dto.ProductSummary{ID: m.ProductID},
			UserID:    m.UserID,
			CreatedAt: m.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"movimientos": out, "pagination": dto.NewPagination(page, total)})
}

// parseDateQuery acepta RFC 3339 o fecha simple YYYY-MM-DD.
func parseDateQuery(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

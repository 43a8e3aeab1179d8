package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/greenriver-post/almacen-api/internal/application/dto"
	"github.com/greenriver-post/almacen-api/internal/application/inventory"
	"github.com/greenriver-post/almacen-api/internal/application/usecase"
	"github.com/greenriver-post/almacen-api/internal/domain"
	"github.com/greenriver-post/almacen-api/internal/domain/repository"
)

// ProductHandler maneja las peticiones HTTP de productos y transformaciones.
type ProductHandler struct {
	uc        *usecase.ProductUseCase
	transform *inventory.TransformUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, transform *inventory.TransformUseCase) *ProductHandler {
	return &ProductHandler{uc: uc, transform: transform}
}

// Create godoc
// @Summary      Crear producto con QR y stock inicial
// @Tags         productos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "nombre, categoria_id, cantidad"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/productos [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	product, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return productError(c, err)
	}
	resp, err := h.uc.Response(c.Context(), product)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetByID godoc
// @Summary      Obtener producto
// @Tags         productos
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/productos/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	product, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return productError(c, err)
	}
	resp, err := h.uc.Response(c.Context(), product)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(resp)
}

// List godoc
// @Summary      Listar productos
// @Tags         productos
// @Security     Bearer
// @Produce      json
// @Param        categoria_id  query  string  false  "Filtrar por categoría"
// @Param        estado        query  string  false  "Filtrar por estado"
// @Param        buscar        query  string  false  "Buscar por nombre"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/productos [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	filter := repository.ProductFilter{
		CategoryID: c.Query("categoria_id"),
		State:      c.Query("estado"),
		Search:     c.Query("buscar"),
	}
	products, pagination, err := h.uc.List(c.Context(), filter, page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		resp, err := h.uc.Response(c.Context(), p)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
		out = append(out, resp)
	}
	return c.JSON(fiber.Map{"productos": out, "pagination": pagination})
}

// Update godoc
// @Summary      Actualizar producto (la cantidad no se edita por aquí)
// @Tags         productos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "campos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/productos/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	product, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return productError(c, err)
	}
	resp, err := h.uc.Response(c.Context(), product)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(resp)
}

// Delete godoc
// @Summary      Eliminar producto (solo Administrador)
// @Tags         productos
// @Security     Bearer
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/productos/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return productError(c, err)
	}
	return c.JSON(fiber.Map{"message": "producto eliminado"})
}

// Transform godoc
// @Summary      Transformar cantidad entre dos productos
// @Tags         productos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransformRequest  true  "producto_origen_id, producto_destino_id, cantidad"
// @Success      200   {object}  dto.TransformResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/productos/transformar [post]
func (h *ProductHandler) Transform(c *fiber.Ctx) error {
	var in dto.TransformRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	tr, source, dest, err := h.transform.Transform(c.Context(), inventory.TransformInput{
		SourceProductID: in.SourceProductID,
		DestProductID:   in.DestProductID,
		Quantity:        in.Quantity,
		Type:            in.Type,
		Notes:           in.Notes,
		UserID:          GetUserID(c),
	})
	if err != nil {
		var stockErr *domain.InsufficientStockError
		if errors.As(err, &stockErr) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: stockErr.Error()})
		}
		return productError(c, err)
	}
	return c.JSON(dto.TransformResponse{
		ID:            tr.ID,
		Type:          tr.Type,
		Quantity:      tr.Quantity,
		SourceProduct: dto.ProductSummary{ID: source.ID, Name: source.Name, Quantity: source.Quantity},
		DestProduct:   dto.ProductSummary{ID: dest.ID, Name: dest.Name, Quantity: dest.Quantity},
		CreatedAt:     tr.CreatedAt,
	})
}

func productError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	}
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	}
	if errors.Is(err, domain.ErrDuplicate) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el recurso ya existe"})
	}
	if errors.Is(err, domain.ErrInsufficientStock) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	}
	if errors.Is(err, domain.ErrArtifact) {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "ARTIFACT", Message: "error generando artefactos"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

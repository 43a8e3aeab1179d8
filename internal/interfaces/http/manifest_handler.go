package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/greenriver-post/almacen-api/internal/application/dto"
	"github.com/greenriver-post/almacen-api/internal/application/manifest"
	"github.com/greenriver-post/almacen-api/internal/domain"
	"github.com/greenriver-post/almacen-api/internal/domain/repository"
)

// ManifestHandler maneja el ciclo de vida del manifiesto de entrega.
type ManifestHandler struct {
	create       *manifest.CreateManifestUseCase
	confirm      *manifest.ConfirmDeliveryUseCase
	updateStatus *manifest.UpdateStatusUseCase
	query        *manifest.QueryUseCase
}

// NewManifestHandler construye el handler.
func NewManifestHandler(
	create *manifest.CreateManifestUseCase,
	confirm *manifest.ConfirmDeliveryUseCase,
	updateStatus *manifest.UpdateStatusUseCase,
	query *manifest.QueryUseCase,
) *ManifestHandler {
	return &ManifestHandler{create: create, confirm: confirm, updateStatus: updateStatus, query: query}
}

// Create godoc
// @Summary      Crear manifiesto de entrega
// @Description  Descuenta stock de todas las líneas, genera QR y PDF. Todo o nada.
// @Tags         manifiestos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateManifestRequest  true  "cliente_id, detalles"
// @Success      201   {object}  dto.ManifestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/manifiestos [post]
func (h *ManifestHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateManifestRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	m, _, err := h.create.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return manifestError(c, err)
	}
	resp, err := h.query.Get(c.Context(), m.ID, "", true)
	if err != nil {
		return manifestError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetByID godoc
// @Summary      Obtener manifiesto
// @Description  Público con ?codigo= correcto; si no, requiere token.
// @Tags         manifiestos
// @Produce      json
// @Param        id      path   string  true   "ID del manifiesto"
// @Param        codigo  query  string  false  "Código QR de verificación"
// @Success      200  {object}  dto.ManifestResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/manifiestos/{id} [get]
func (h *ManifestHandler) GetByID(c *fiber.Ctx) error {
	authenticated := GetUserID(c) != ""
	resp, err := h.query.Get(c.Context(), c.Params("id"), c.Query("codigo"), authenticated)
	if err != nil {
		return manifestError(c, err)
	}
	return c.JSON(resp)
}

// List godoc
// @Summary      Listar manifiestos
// @Tags         manifiestos
// @Security     Bearer
// @Produce      json
// @Param        estado      query  string  false  "Uno o varios estados separados por coma"
// @Param        cliente_id  query  string  false  "Filtrar por cliente"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/manifiestos [get]
func (h *ManifestHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}

	filter := repository.ManifestFilter{ClientID: c.Query("cliente_id")}
	if estados := c.Query("estado"); estados != "" {
		filter.States = splitCSV(estados)
	}
	var err error
	if filter.From, err = parseDateQuery(c.Query("desde")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha desde inválida"})
	}
	if filter.To, err = parseDateQuery(c.Query("hasta")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha hasta inválida"})
	}

	items, pagination, err := h.query.List(c.Context(), filter, page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"manifiestos": items, "pagination": pagination})
}

// ConfirmDelivery godoc
// @Summary      Confirmar entrega (público, autorizado por código QR)
// @Tags         manifiestos
// @Accept       json
// @Produce      json
// @Param        id      path   string                      true  "ID del manifiesto"
// @Param        codigo  query  string                      true  "Código QR de verificación"
// @Param        body    body   dto.ConfirmDeliveryRequest  true  "firma_cliente"
// @Success      200  {object}  dto.ManifestResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/manifiestos/{id}/firma-cliente [put]
func (h *ManifestHandler) ConfirmDelivery(c *fiber.Ctx) error {
	var in dto.ConfirmDeliveryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	m, err := h.confirm.Confirm(c.Context(), c.Params("id"), c.Query("codigo"), in.FirmaCliente)
	if err != nil {
		return manifestError(c, err)
	}
	resp, err := h.query.Get(c.Context(), m.ID, m.CodigoQR, false)
	if err != nil {
		return manifestError(c, err)
	}
	return c.JSON(resp)
}

// UpdateStatus godoc
// @Summary      Cambiar estado del manifiesto (personal interno)
// @Tags         manifiestos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                           true  "ID del manifiesto"
// @Param        body  body  dto.UpdateManifestStatusRequest  true  "estado, usuario_entrega_id"
// @Success      200  {object}  dto.ManifestResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/manifiestos/{id}/estado [put]
func (h *ManifestHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateManifestStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	m, err := h.updateStatus.UpdateStatus(c.Context(), c.Params("id"), in.State, in.DeliveryUID)
	if err != nil {
		return manifestError(c, err)
	}
	resp, err := h.query.Get(c.Context(), m.ID, "", true)
	if err != nil {
		return manifestError(c, err)
	}
	return c.JSON(resp)
}

func manifestError(c *fiber.Ctx, err error) error {
	var manifestStockErr *domain.ManifestStockError
	if errors.As(err, &manifestStockErr) {
		shortages := make([]fiber.Map, 0, len(manifestStockErr.Shortages))
		for _, s := range manifestStockErr.Shortages {
			shortages = append(shortages, fiber.Map{
				"producto":   s.ProductName,
				"disponible": s.Available,
				"solicitado": s.Requested,
			})
		}
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"code":      "INSUFFICIENT_STOCK",
			"message":   manifestStockErr.Error(),
			"faltantes": shortages,
		})
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos del manifiesto inválidos"})
	}
	if errors.Is(err, domain.ErrInvalidCode) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "INVALID_CODE", Message: "código de verificación inválido"})
	}
	if errors.Is(err, domain.ErrAlreadyDelivered) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_DELIVERED", Message: "el manifiesto ya fue entregado"})
	}
	if errors.Is(err, domain.ErrInvalidTransition) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: "el estado del manifiesto no permite esta operación"})
	}
	if errors.Is(err, domain.ErrUnauthorized) {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "se requiere token o código de verificación"})
	}
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "manifiesto no encontrado"})
	}
	if errors.Is(err, domain.ErrArtifact) {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "ARTIFACT", Message: "error generando artefactos del manifiesto"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

package http

import (
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"github.com/greenriver-post/almacen-api/internal/application/dto"
	"github.com/greenriver-post/almacen-api/internal/application/report"
	"github.com/greenriver-post/almacen-api/internal/domain/repository"
)

// ReportHandler genera y descarga los reportes Excel.
type ReportHandler struct {
	uc *report.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Movements godoc
// @Summary      Reporte Excel de movimientos de stock
// @Tags         reportes
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        producto_id  query  string  false  "Filtrar por producto"
// @Param        tipo         query  string  false  "entrada | salida | ajuste"
// @Param        desde        query  string  false  "Fecha inicial (RFC 3339)"
// @Param        hasta        query  string  false  "Fecha final (RFC 3339)"
// @Success      200  {file}  file
// @Router       /api/reportes/movimientos [get]
func (h *ReportHandler) Movements(c *fiber.Ctx) error {
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

	path, err := h.uc.Movements(c.Context(), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error generando el reporte"})
	}
	return c.Download(path, filepath.Base(path))
}

// Deliveries godoc
// @Summary      Reporte Excel de manifiestos de entrega
// @Tags         reportes
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        estado      query  string  false  "Uno o varios estados separados por coma"
// @Param        cliente_id  query  string  false  "Filtrar por cliente"
// @Success      200  {file}  file
// @Router       /api/reportes/entregas [get]
func (h *ReportHandler) Deliveries(c *fiber.Ctx) error {
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

	path, err := h.uc.Deliveries(c.Context(), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error generando el reporte"})
	}
	return c.Download(path, filepath.Base(path))
}

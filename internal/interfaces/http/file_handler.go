package http

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/greenriver-post/almacen-api/internal/application/dto"
)

// FileHandler sirve los artefactos generados (etiquetas QR y PDFs de
// manifiestos) desde el directorio de datos.
type FileHandler struct {
	dataDir string
}

// NewFileHandler construye el handler.
func NewFileHandler(dataDir string) *FileHandler {
	return &FileHandler{dataDir: dataDir}
}

// ServeQR godoc
// @Summary      Servir etiqueta QR de producto
// @Tags         files
// @Security     Bearer
// @Produce      image/png
// @Param        filename  path  string  true  "Nombre del archivo PNG"
// @Success      200  {file}  file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/files/qr/{filename} [get]
func (h *FileHandler) ServeQR(c *fiber.Ctx) error {
	filename := c.Params("filename")
	if !safeFilename(filename) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "archivo no encontrado"})
	}
	path := filepath.Join(h.dataDir, "productos", "etiquetas_qr", filename)
	if _, err := os.Stat(path); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "archivo no encontrado"})
	}
	return c.SendFile(path)
}

// ServeManifestPDF godoc
// @Summary      Servir PDF de manifiesto
// @Description  Los archivos con el marcador _final salen del directorio finalizados y son públicos; los PDFs en proceso requieren token.
// @Tags         files
// @Produce      application/pdf
// @Param        filename  path  string  true  "Nombre del archivo PDF"
// @Success      200  {file}  file
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/files/manifiestos/{filename} [get]
func (h *FileHandler) ServeManifestPDF(c *fiber.Ctx) error {
	filename := c.Params("filename")
	if !safeFilename(filename) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "archivo no encontrado"})
	}
	subdir := "en_proceso"
	if strings.Contains(filename, "_final") {
		subdir = "finalizados"
	} else if GetUserID(c) == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "se requiere token"})
	}
	path := filepath.Join(h.dataDir, "manifiestos", subdir, filename)
	if _, err := os.Stat(path); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "archivo no encontrado"})
	}
	return c.SendFile(path)
}

// safeFilename rechaza rutas con separadores o traversal.
func safeFilename(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, "/\\") && !strings.Contains(name, "..")
}

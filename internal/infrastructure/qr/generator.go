// Package qr genera las imágenes QR de verificación usando boombuler/barcode.
package qr

import (
	"encoding/json"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"

	appmanifest "github.com/greenriver-post/almacen-api/internal/application/manifest"
	"github.com/greenriver-post/almacen-api/internal/application/usecase"
)

var _ appmanifest.QRGenerator = (*Generator)(nil)
var _ usecase.ProductQRGenerator = (*Generator)(nil)

const imageSize = 300 // px, lado del PNG cuadrado

// Generator renderiza PNGs de códigos QR bajo el directorio de datos.
type Generator struct {
	dataDir     string
	frontendURL string
}

// NewGenerator construye el generador.
func NewGenerator(dataDir, frontendURL string) *Generator {
	return &Generator{dataDir: dataDir, frontendURL: frontendURL}
}

// GenerateManifestQR genera el QR de verificación pública del manifiesto.
// El contenido es la URL del frontend con el código como query param.
func (g *Generator) GenerateManifestQR(numero, codigo string) (string, error) {
	content := fmt.Sprintf("%s/manifiestos/verificar?codigo=%s", g.frontendURL, codigo)
	path := filepath.Join(g.dataDir, "manifiestos", "en_proceso", "qr_"+numero+".png")
	if err := g.writePNG(content, path); err != nil {
		return "", fmt.Errorf("qr de manifiesto %s: %w", numero, err)
	}
	return path, nil
}

// GenerateProductQR genera la etiqueta QR del producto. El contenido es un
// JSON con tipo, id, código y URL de detalle.
func (g *Generator) GenerateProductQR(productID, codigo string) (string, error) {
	payload := map[string]string{
		"type":   "producto",
		"id":     productID,
		"codigo": codigo,
		"url":    fmt.Sprintf("%s/productos/%s", g.frontendURL, productID),
	}
	content, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("qr de producto %s: %w", productID, err)
	}
	path := filepath.Join(g.dataDir, "productos", "etiquetas_qr", codigo+".png")
	if err := g.writePNG(string(content), path); err != nil {
		return "", fmt.Errorf("qr de producto %s: %w", productID, err)
	}
	return path, nil
}

func (g *Generator) writePNG(content, path string) error {
	code, err := qr.Encode(content, qr.H, qr.Auto)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	code, err = barcode.Scale(code, imageSize, imageSize)
	if err != nil {
		return fmt.Errorf("scale: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("crear archivo: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, code); err != nil {
		return fmt.Errorf("escribir png: %w", err)
	}
	return nil
}

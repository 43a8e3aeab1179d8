package manifest

import (
	"context"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/greenriver-post/almacen-api/internal/domain/entity"
	"github.com/greenriver-post/almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios que necesita el ciclo de vida del manifiesto. La generación de
// artefactos (QR, PDF) ocurre dentro del callback: si falla, el Rollback
// deshace manifiesto, líneas, descuentos de stock y movimientos.
type TxRunner interface {
	RunManifest(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
		manifestRepo repository.ManifestRepository,
	) error) error
}

// QRGenerator colaborador externo que renderiza la imagen QR de verificación.
// Devuelve la ruta del PNG generado; un error aquí aborta la transacción.
type QRGenerator interface {
	GenerateManifestQR(numero, codigo string) (string, error)
}

// LineForPDF línea ya resuelta (producto cargado) para el render del PDF.
type LineForPDF struct {
	ProductName string
	Unit        string
	Quantity    decimal.Decimal
	UnitPrice   *decimal.Decimal
	Subtotal    *decimal.Decimal
}

// PDFGenerator colaborador externo que renderiza el PDF del manifiesto en
// outputPath. final=true incluye fecha de entrega y firma del cliente.
type PDFGenerator interface {
	GenerateManifestPDF(
		m *entity.Manifest,
		client *entity.Client,
		lines []LineForPDF,
		qrPath, outputPath string,
		final bool,
	) error
}

// ArtifactPaths resuelve las rutas de artefactos bajo el directorio de datos.
// Las rutas son parte del contrato externo: se persisten en el manifiesto y
// se sirven después; el marcador "_final" enruta al directorio finalizados.
type ArtifactPaths struct {
	DataDir string
}

// InProcessPDF ruta del PDF en proceso.
func (p ArtifactPaths) InProcessPDF(numero string) string {
	return filepath.Join(p.DataDir, "manifiestos", "en_proceso", numero+".pdf")
}

// FinalPDF ruta del PDF final firmado.
func (p ArtifactPaths) FinalPDF(numero string) string {
	return filepath.Join(p.DataDir, "manifiestos", "finalizados", numero+"_final.pdf")
}

// ManifestQR ruta de la imagen QR de verificación.
func (p ArtifactPaths) ManifestQR(numero string) string {
	return filepath.Join(p.DataDir, "manifiestos", "en_proceso", "qr_"+numero+".png")
}

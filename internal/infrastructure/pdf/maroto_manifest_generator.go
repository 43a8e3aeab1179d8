// Package pdf implementa la generación del PDF del manifiesto de entrega
// usando Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: GREEN RIVER POST  │  N° Manifiesto + Fecha          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre + RUC/DNI + contacto + dirección            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | Medida | P.Unit | Subtotal         │
//	│  TOTAL (solo si hay precios)                                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  QR de verificación + estado / fecha de entrega              │
//	│  FIRMAS: Operador │ Cliente (solo en el PDF final)           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"os"
	"path/filepath"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appmanifest "github.com/greenriver-post/almacen-api/internal/application/manifest"
	"github.com/greenriver-post/almacen-api/internal/domain/entity"
)

var _ appmanifest.PDFGenerator = (*MarotoManifestGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 27, Green: 94, Blue: 32}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

const companyName = "GREEN RIVER POST"

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoManifestGenerator implementa manifest.PDFGenerator usando Maroto v2.
type MarotoManifestGenerator struct{}

// NewMarotoManifestGenerator construye el generador.
func NewMarotoManifestGenerator() *MarotoManifestGenerator { return &MarotoManifestGenerator{} }

// GenerateManifestPDF genera el PDF del manifiesto y lo escribe en outputPath.
// final=true produce la versión firmada: fecha de entrega y firma del cliente.
func (g *MarotoManifestGenerator) GenerateManifestPDF(
	m *entity.Manifest,
	client *entity.Client,
	lines []appmanifest.LineForPDF,
	qrPath, outputPath string,
	final bool,
) error {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Manifiesto de Entrega "+m.Numero, true).
		WithAuthor(companyName, true).
		Build()

	doc := maroto.New(cfg)

	doc.AddRows(headerRow(m, final))
	doc.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	doc.AddRows(clientRow(client))
	doc.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	doc.AddRows(tableHeaderRow())
	for _, r := range tableLineRows(lines) {
		doc.AddRows(r)
	}
	if total, ok := linesTotal(lines); ok {
		doc.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
		doc.AddRows(totalRow(total))
	}

	doc.AddRows(line.NewRow(3))
	doc.AddRows(verificationRow(m, qrPath, final))
	doc.AddRows(line.NewRow(3))
	for _, r := range signatureRows(m, final) {
		doc.AddRows(r)
	}

	rendered, err := doc.Generate()
	if err != nil {
		return fmt.Errorf("pdf: generar documento: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("pdf: crear directorio: %w", err)
	}
	if err := os.WriteFile(outputPath, rendered.GetBytes(), 0o644); err != nil {
		return fmt.Errorf("pdf: escribir archivo: %w", err)
	}
	return nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: razón social (izq) y número + fecha (der).
func headerRow(m *entity.Manifest, final bool) core.Row {
	title := "MANIFIESTO DE ENTREGA"
	if final {
		title = "MANIFIESTO DE ENTREGA (FINAL)"
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(companyName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Logística y almacenamiento", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(m.Numero, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+m.CreatedAt.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// clientRow: datos del cliente destinatario.
func clientRow(client *entity.Client) core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(client.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("RUC/DNI: %s   |   Tel: %s   |   Dirección: %s",
				nonEmpty(client.RucDNI, "—"),
				nonEmpty(client.Phone, "—"),
				nonEmpty(client.Address, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 2, align.Center),
		h("Producto", 5, align.Left),
		h("Medida", 2, align.Center),
		h("P.Unit.", 1, align.Right),
		h("Subtotal", 2, align.Right),
	)
}

// tableLineRows: una fila por línea del manifiesto.
func tableLineRows(lines []appmanifest.LineForPDF) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		unitPrice, subtotal := "—", "—"
		if l.UnitPrice != nil {
			unitPrice = l.UnitPrice.StringFixed(2)
		}
		if l.Subtotal != nil {
			subtotal = l.Subtotal.StringFixed(2)
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(
				l.Quantity.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				l.ProductName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				l.Unit,
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(1).Add(text.New(
				unitPrice,
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				subtotal,
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// linesTotal suma los subtotales. ok=false cuando ninguna línea tiene precio.
func linesTotal(lines []appmanifest.LineForPDF) (decimal.Decimal, bool) {
	total := decimal.Zero
	found := false
	for _, l := range lines {
		if l.Subtotal != nil {
			total = total.Add(*l.Subtotal)
			found = true
		}
	}
	return total, found
}

// totalRow: total alineado a la derecha.
func totalRow(total decimal.Decimal) core.Row {
	return row.New(8).Add(
		col.New(7),
		col.New(3).Add(text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})),
		col.New(2).Add(text.New(total.StringFixed(2), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})),
	)
}

// verificationRow: QR de verificación pública + estado del manifiesto.
func verificationRow(m *entity.Manifest, qrPath string, final bool) core.Row {
	info := []core.Component{
		text.New("Escanea el código QR para verificar\neste manifiesto de entrega.", props.Text{
			Size: 8, Top: 4, Left: 3, Color: colorGray,
		}),
		text.New("Estado: "+m.State, props.Text{
			Style: fontstyle.Bold, Size: 10, Top: 20, Left: 3, Color: colorPrimary,
		}),
	}
	if final && m.DeliveredAt != nil {
		info = append(info, text.New("Entregado: "+m.DeliveredAt.Format("02/01/2006 15:04"), props.Text{
			Size: 9, Top: 28, Left: 3, Color: colorGray,
		}))
	}
	return row.New(42).Add(
		col.New(4).Add(image.NewFromFile(qrPath, props.Rect{
			Percent: 90,
			Center:  true,
		})),
		col.New(8).Add(info...),
	)
}

// signatureRows: firma del operador siempre; la del cliente solo en el final.
func signatureRows(m *entity.Manifest, final bool) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("FIRMAS", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
		row.New(8).Add(
			col.New(3).Add(text.New("Firma Operador:", props.Text{
				Style: fontstyle.Bold, Size: 8, Top: 2,
			})),
			col.New(9).Add(text.New(signatureMark(m.FirmaOperador), props.Text{
				Size: 8, Top: 2, Color: colorGray,
			})),
		),
	}
	clientMark := "________________________"
	if final && m.FirmaCliente != "" {
		clientMark = signatureMark(m.FirmaCliente)
	}
	rows = append(rows, row.New(8).Add(
		col.New(3).Add(text.New("Firma Cliente:", props.Text{
			Style: fontstyle.Bold, Size: 8, Top: 2,
		})),
		col.New(9).Add(text.New(clientMark, props.Text{
			Size: 8, Top: 2, Color: colorGray,
		})),
	))
	return rows
}

// signatureMark representa una firma capturada (base64) sin incrustar la imagen.
func signatureMark(firma string) string {
	if firma == "" {
		return "________________________"
	}
	return "[Firma capturada]"
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

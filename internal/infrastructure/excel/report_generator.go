// Package excel genera los reportes xlsx de movimientos y entregas usando excelize.
package excel

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/greenriver-post/almacen-api/internal/application/report"
	"github.com/greenriver-post/almacen-api/internal/domain/repository"
)

var _ report.ExcelGenerator = (*ReportGenerator)(nil)

// ReportGenerator escribe reportes xlsx en disco.
type ReportGenerator struct{}

// NewReportGenerator construye el generador.
func NewReportGenerator() *ReportGenerator { return &ReportGenerator{} }

// GenerateMovementsReport escribe el reporte de movimientos de stock.
func (g *ReportGenerator) GenerateMovementsReport(rows []repository.MovementReportRow, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := "Movimientos"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Fecha", "Producto", "Categoría", "Tipo", "Cantidad", "Usuario", "Observaciones"}
	widths := []float64{20, 30, 20, 12, 12, 25, 40}
	if err := writeHeader(f, sheet, headers, widths); err != nil {
		return err
	}

	for i, r := range rows {
		n := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", n), r.Date.Format("02/01/2006 15:04"))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", n), r.Product)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", n), r.Category)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", n), r.Type)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", n), r.Quantity.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("F%d", n), r.User)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", n), r.Notes)
	}

	return save(f, outputPath)
}

// GenerateDeliveriesReport escribe el reporte de manifiestos de entrega.
func (g *ReportGenerator) GenerateDeliveriesReport(rows []repository.DeliveryReportRow, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := "Entregas"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Número", "Cliente", "Estado", "Fecha Creación", "Fecha Entrega", "Líneas"}
	widths := []float64{22, 30, 14, 20, 20, 10}
	if err := writeHeader(f, sheet, headers, widths); err != nil {
		return err
	}

	for i, r := range rows {
		n := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", n), r.Numero)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", n), r.Client)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", n), r.State)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", n), r.CreatedAt.Format("02/01/2006 15:04"))
		if r.DeliveredAt != nil {
			f.SetCellValue(sheet, fmt.Sprintf("E%d", n), r.DeliveredAt.Format("02/01/2006 15:04"))
		}
		f.SetCellValue(sheet, fmt.Sprintf("F%d", n), r.Lines)
	}

	return save(f, outputPath)
}

// writeHeader escribe la fila de cabecera con estilo y congela la primera fila.
func writeHeader(f *excelize.File, sheet string, headers []string, widths []float64) error {
	boldStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})
	if err != nil {
		return fmt.Errorf("excel: estilo de cabecera: %w", err)
	}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
		f.SetColWidth(sheet, col, col, widths[i])
	}
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return fmt.Errorf("excel: congelar cabecera: %w", err)
	}
	return nil
}

func save(f *excelize.File, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("excel: crear directorio: %w", err)
	}
	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("excel: guardar archivo: %w", err)
	}
	return nil
}

// Package report genera reportes Excel de movimientos de stock y entregas.
package report

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/greenriver-post/almacen-api/internal/domain/repository"
)

// ExcelGenerator escribe un reporte en disco en formato xlsx.
type ExcelGenerator interface {
	GenerateMovementsReport(rows []repository.MovementReportRow, outputPath string) error
	GenerateDeliveriesReport(rows []repository.DeliveryReportRow, outputPath string) error
}

// ReportUseCase arma los datos del reporte y delega la escritura al generador.
type ReportUseCase struct {
	movRepo      repository.MovementRepository
	manifestRepo repository.ManifestRepository
	excel        ExcelGenerator
	dataDir      string
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(movRepo repository.MovementRepository, manifestRepo repository.ManifestRepository, excel ExcelGenerator, dataDir string) *ReportUseCase {
	return &ReportUseCase{movRepo: movRepo, manifestRepo: manifestRepo, excel: excel, dataDir: dataDir}
}

// Movements genera el reporte de movimientos filtrado por producto, tipo y
// rango de fechas. Devuelve la ruta del archivo generado.
func (uc *ReportUseCase) Movements(ctx context.Context, filter repository.MovementFilter) (string, error) {
	rows, err := uc.movRepo.ListForReport(filter)
	if err != nil {
		return "", err
	}
	path := uc.reportPath("movimientos")
	if err := uc.excel.GenerateMovementsReport(rows, path); err != nil {
		return "", fmt.Errorf("reporte de movimientos: %w", err)
	}
	return path, nil
}

// Deliveries genera el reporte de manifiestos de entrega filtrado por estado,
// cliente y rango de fechas. Devuelve la ruta del archivo generado.
func (uc *ReportUseCase) Deliveries(ctx context.Context, filter repository.ManifestFilter) (string, error) {
	rows, err := uc.manifestRepo.ListForReport(filter)
	if err != nil {
		return "", err
	}
	path := uc.reportPath("entregas")
	if err := uc.excel.GenerateDeliveriesReport(rows, path); err != nil {
		return "", fmt.Errorf("reporte de entregas: %w", err)
	}
	return path, nil
}

func (uc *ReportUseCase) reportPath(prefix string) string {
	stamp := time.Now().Format("20060102_150405")
	return filepath.Join(uc.dataDir, "reportes", fmt.Sprintf("%s_%s.xlsx", prefix, stamp))
}

package repository

import (
	"time"

	"github.com/greenriver-post/almacen-api/internal/domain/entity"
)

// ManifestFilter filtros del listado de manifiestos.
type ManifestFilter struct {
	States   []string // uno o varios estados
	ClientID string
	From     *time.Time
	To       *time.Time
}

// DeliveryReportRow fila cruda para el reporte Excel de entregas.
type DeliveryReportRow struct {
	Numero      string
	Client      string
	State       string
	CreatedAt   time.Time
	DeliveredAt *time.Time
	Lines       int
}

// ManifestRepository define el puerto de persistencia para Manifest y sus líneas.
type ManifestRepository interface {
	Create(m *entity.Manifest) error
	CreateLine(line *entity.ManifestLine) error
	GetByID(id string) (*entity.Manifest, error)

	// GetForUpdate obtiene el manifiesto bloqueando la fila (SELECT FOR UPDATE),
	// para serializar confirmaciones de entrega concurrentes.
	GetForUpdate(id string) (*entity.Manifest, error)

	GetLines(manifestID string) ([]*entity.ManifestLine, error)

	// CountByDate cuenta los manifiestos creados el día calendario de t.
	// Base del consecutivo MAN-YYYYMMDD-NNNN; la constraint única sobre numero
	// es el respaldo ante creaciones concurrentes el mismo día.
	CountByDate(t time.Time) (int, error)

	Update(m *entity.Manifest) error
	List(filter ManifestFilter, limit, offset int) ([]*entity.Manifest, int, error)
	ListForReport(filter ManifestFilter) ([]DeliveryReportRow, error)
}

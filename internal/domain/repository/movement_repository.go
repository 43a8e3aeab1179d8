package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/greenriver-post/almacen-api/internal/domain/entity"
)

// MovementFilter filtros del listado de movimientos.
type MovementFilter struct {
	ProductID string
	Type      string
	From      *time.Time
	To        *time.Time
}

// MovementReportRow fila cruda para el reporte Excel de movimientos
// (movimiento + producto + categoría + usuario ya unidos por la consulta).
type MovementReportRow struct {
	Date     time.Time
	Product  string
	Category string
	Type     string
	Quantity decimal.Decimal
	User     string
	Notes    string
}

// MovementRepository define el puerto de persistencia para Movement.
// El libro de movimientos es append-only: no hay Update ni Delete.
type MovementRepository interface {
	Create(movement *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	List(filter MovementFilter, limit, offset int) ([]*entity.Movement, int, error)
	ListForReport(filter MovementFilter) ([]MovementReportRow, error)
}

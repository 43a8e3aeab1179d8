package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/greenriver-post/almacen-api/internal/domain/entity"
	"github.com/greenriver-post/almacen-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación de MovementRepository sobre PostgreSQL (usable con pool o tx).
// Solo inserta y lee: el libro de movimientos no se edita.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador de movimientos. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create inserta un movimiento en el libro.
func (r *MovementRepo) Create(movement *entity.Movement) error {
	query := `
		INSERT INTO movimientos (id, producto_id, tipo, cantidad, observaciones, usuario_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ProductID, movement.Type, movement.Quantity,
		movement.Notes, movement.UserID, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movimiento: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(id string) (*entity.Movement, error) {
	query := `
		SELECT id, producto_id, tipo, cantidad, observaciones, usuario_id, created_at
		FROM movimientos WHERE id = $1`
	var m entity.Movement
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.Notes, &m.UserID, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movimiento: %w", err)
	}
	return &m, nil
}

// List lista movimientos con filtros y paginación, más recientes primero.
func (r *MovementRepo) List(filter repository.MovementFilter, limit, offset int) ([]*entity.Movement, int, error) {
	where, args := movementWhere(filter)

	var total int
	if err := r.q.QueryRow(context.Background(), `SELECT count(*) FROM movimientos m`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movimientos: %w", err)
	}

	query := `
		SELECT m.id, m.producto_id, m.tipo, m.cantidad, m.observaciones, m.usuario_id, m.created_at
		FROM movimientos m` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	rows, err := r.q.Query(context.Background(), query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list movimientos: %w", err)
	}
	defer rows.Close()

	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.Notes, &m.UserID, &m.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan movimiento: %w", err)
		}
		list = append(list, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list movimientos: %w", err)
	}
	return list, total, nil
}

// ListForReport devuelve las filas del reporte con producto, categoría y
// usuario ya resueltos. Sin paginación: el reporte es el rango completo.
func (r *MovementRepo) ListForReport(filter repository.MovementFilter) ([]repository.MovementReportRow, error) {
	where, args := movementWhere(filter)

	query := `
		SELECT m.created_at, p.nombre, coalesce(c.nombre, ''), m.tipo, m.cantidad, coalesce(u.nombre, ''), m.observaciones
		FROM movimientos m
		JOIN productos p ON p.id = m.producto_id
		LEFT JOIN categorias c ON c.id = p.categoria_id
		LEFT JOIN usuarios u ON u.id = m.usuario_id` + where + ` ORDER BY m.created_at`
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("reporte movimientos: %w", err)
	}
	defer rows.Close()

	var list []repository.MovementReportRow
	for rows.Next() {
		var row repository.MovementReportRow
		if err := rows.Scan(&row.Date, &row.Product, &row.Category, &row.Type, &row.Quantity, &row.User, &row.Notes); err != nil {
			return nil, fmt.Errorf("scan fila de reporte: %w", err)
		}
		list = append(list, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reporte movimientos: %w", err)
	}
	return list, nil
}

func movementWhere(filter repository.MovementFilter) (string, []any) {
	where := ""
	var args []any
	add := func(cond string, val any) {
		args = append(args, val)
		if where == "" {
			where = fmt.Sprintf(" WHERE "+cond, len(args))
		} else {
			where += fmt.Sprintf(" AND "+cond, len(args))
		}
	}
	if filter.ProductID != "" {
		add("m.producto_id = $%d", filter.ProductID)
	}
	if filter.Type != "" {
		add("m.tipo = $%d", filter.Type)
	}
	if filter.From != nil {
		add("m.created_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("m.created_at <= $%d", *filter.To)
	}
	return where, args
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/greenriver-post/almacen-api/internal/domain/entity"
	"github.com/greenriver-post/almacen-api/internal/domain/repository"
)

var _ repository.TransformationRepository = (*TransformationRepo)(nil)

// TransformationRepo implementación de TransformationRepository sobre PostgreSQL.
type TransformationRepo struct {
	q Querier
}

// NewTransformationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransformationRepository(q Querier) *TransformationRepo {
	return &TransformationRepo{q: q}
}

// Create inserta una transformación.
func (r *TransformationRepo) Create(t *entity.Transformation) error {
	query := `
		INSERT INTO transformaciones (id, producto_origen_id, producto_destino_id, cantidad, tipo, observaciones, usuario_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		t.ID, t.SourceProductID, t.DestProductID, t.Quantity, t.Type, t.Notes, t.UserID, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transformacion: %w", err)
	}
	return nil
}

// GetByID obtiene una transformación por ID.
func (r *TransformationRepo) GetByID(id string) (*entity.Transformation, error) {
	query := `
		SELECT id, producto_origen_id, producto_destino_id, cantidad, tipo, observaciones, usuario_id, created_at
		FROM transformaciones WHERE id = $1`
	var t entity.Transformation
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&t.ID, &t.SourceProductID, &t.DestProductID, &t.Quantity, &t.Type, &t.Notes, &t.UserID, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transformacion: %w", err)
	}
	return &t, nil
}

// ListByProduct lista transformaciones donde el producto participa como origen o destino.
func (r *TransformationRepo) ListByProduct(productID string, limit, offset int) ([]*entity.Transformation, error) {
	query := `
		SELECT id, producto_origen_id, producto_destino_id, cantidad, tipo, observaciones, usuario_id, created_at
		FROM transformaciones
		WHERE producto_origen_id = $1 OR producto_destino_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transformaciones: %w", err)
	}
	defer rows.Close()

	var list []*entity.Transformation
	for rows.Next() {
		var t entity.Transformation
		if err := rows.Scan(&t.ID, &t.SourceProductID, &t.DestProductID, &t.Quantity, &t.Type, &t.Notes, &t.UserID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transformacion: %w", err)
		}
		list = append(list, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transformaciones: %w", err)
	}
	return list, nil
}

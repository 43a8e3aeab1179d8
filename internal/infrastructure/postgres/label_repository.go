package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/greenriver-post/almacen-api/internal/domain/entity"
	"github.com/greenriver-post/almacen-api/internal/domain/repository"
)

var _ repository.LabelRepository = (*LabelRepo)(nil)

// LabelRepo implementación de LabelRepository sobre PostgreSQL.
type LabelRepo struct {
	q Querier
}

// NewLabelRepository construye el adaptador de etiquetas. Pasar pool o tx (Querier).
func NewLabelRepository(q Querier) *LabelRepo {
	return &LabelRepo{q: q}
}

// Create persiste una etiqueta generada.
func (r *LabelRepo) Create(label *entity.Label) error {
	query := `
		INSERT INTO etiquetas (id, producto_id, tipo, file_path, formato, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		label.ID, label.ProductID, label.Type, label.FilePath, label.Format, label.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert etiqueta: %w", err)
	}
	return nil
}

// GetByProduct obtiene la etiqueta más reciente de un producto.
func (r *LabelRepo) GetByProduct(productID string) (*entity.Label, error) {
	query := `
		SELECT id, producto_id, tipo, file_path, formato, created_at
		FROM etiquetas WHERE producto_id = $1 ORDER BY created_at DESC LIMIT 1`
	var l entity.Label
	err := r.q.QueryRow(context.Background(), query, productID).Scan(
		&l.ID, &l.ProductID, &l.Type, &l.FilePath, &l.Format, &l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get etiqueta: %w", err)
	}
	return &l, nil
}

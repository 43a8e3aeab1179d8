package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/greenriver-post/almacen-api/internal/domain"
	"github.com/greenriver-post/almacen-api/internal/domain/entity"
	"github.com/greenriver-post/almacen-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, nombre, categoria_id, medida, estado, cantidad, cliente_id, codigo_qr, created_by, created_at, updated_at`

// Create persiste un nuevo producto. codigo_qr tiene constraint único.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO productos (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.CategoryID, product.Unit, product.State,
		product.Quantity, nullIfEmpty(product.ClientID), product.CodigoQR,
		product.CreatedBy, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert producto: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM productos WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetByCodigoQR obtiene un producto por su código de correlación.
func (r *ProductRepo) GetByCodigoQR(codigo string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM productos WHERE codigo_qr = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, codigo))
}

// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE).
func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM productos WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// UpdateQuantity escribe la nueva cantidad. El caller persiste el registro de
// auditoría en la misma transacción.
func (r *ProductRepo) UpdateQuantity(id string, quantity decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE productos SET cantidad = $2, updated_at = now() WHERE id = $1`,
		id, quantity,
	)
	if err != nil {
		return fmt.Errorf("update cantidad: %w", err)
	}
	return nil
}

// Update actualiza los datos del producto. No toca cantidad ni codigo_qr.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE productos SET nombre = $2, categoria_id = $3, medida = $4, estado = $5, cliente_id = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.CategoryID, product.Unit, product.State,
		nullIfEmpty(product.ClientID), product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update producto: %w", err)
	}
	return nil
}

// List lista productos con filtros opcionales y paginación. Devuelve además el total sin paginar.
func (r *ProductRepo) List(filter repository.ProductFilter, limit, offset int) ([]*entity.Product, int, error) {
	where, args := productWhere(filter)

	var total int
	countQuery := `SELECT count(*) FROM productos` + where
	if err := r.q.QueryRow(context.Background(), countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count productos: %w", err)
	}

	query := `SELECT ` + productColumns + ` FROM productos` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	rows, err := r.q.Query(context.Background(), query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list productos: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list productos: %w", err)
	}
	return list, total, nil
}

// Delete elimina un producto por ID.
func (r *ProductRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM productos WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: el producto tiene movimientos o manifiestos asociados", domain.ErrInvalidInput)
		}
		return fmt.Errorf("delete producto: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func productWhere(filter repository.ProductFilter) (string, []any) {
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
	if filter.CategoryID != "" {
		add("categoria_id = $%d", filter.CategoryID)
	}
	if filter.State != "" {
		add("estado = $%d", filter.State)
	}
	if filter.Search != "" {
		add("nombre ILIKE $%d", "%"+filter.Search+"%")
	}
	return where, args
}

func (r *ProductRepo) scanOne(row pgx.Row) (*entity.Product, error) {
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var clientID *string
	err := row.Scan(
		&p.ID, &p.Name, &p.CategoryID, &p.Unit, &p.State, &p.Quantity,
		&clientID, &p.CodigoQR, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan producto: %w", err)
	}
	if clientID != nil {
		p.ClientID = *clientID
	}
	return &p, nil
}

// nullIfEmpty mapea "" a NULL para columnas con FK opcional.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

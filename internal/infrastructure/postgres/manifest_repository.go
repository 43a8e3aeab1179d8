package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/greenriver-post/almacen-api/internal/domain"
	"github.com/greenriver-post/almacen-api/internal/domain/entity"
	"github.com/greenriver-post/almacen-api/internal/domain/repository"
)

var _ repository.ManifestRepository = (*ManifestRepo)(nil)

// ManifestRepo implementación de ManifestRepository sobre PostgreSQL (usable con pool o tx).
type ManifestRepo struct {
	q Querier
}

// NewManifestRepository construye el adaptador de manifiestos. Pasar pool o tx (Querier).
func NewManifestRepository(q Querier) *ManifestRepo {
	return &ManifestRepo{q: q}
}

const manifestColumns = `id, numero, cliente_id, estado, codigo_qr, firma_operador, firma_cliente,
		pdf_path_proceso, pdf_path_final, created_by, delivered_by, created_at, delivered_at, updated_at`

// Create inserta el manifiesto. La constraint única sobre numero respalda el
// consecutivo diario ante creaciones concurrentes.
func (r *ManifestRepo) Create(m *entity.Manifest) error {
	query := `
		INSERT INTO manifiestos (` + manifestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.Numero, m.ClientID, m.State, m.CodigoQR, m.FirmaOperador, m.FirmaCliente,
		m.PDFPathProceso, m.PDFPathFinal, m.CreatedBy, nullIfEmpty(m.DeliveredBy),
		m.CreatedAt, m.DeliveredAt, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert manifiesto: %w", err)
	}
	return nil
}

// CreateLine inserta una línea del manifiesto.
func (r *ManifestRepo) CreateLine(line *entity.ManifestLine) error {
	query := `
		INSERT INTO manifiesto_detalles (id, manifiesto_id, producto_id, cantidad, precio_unitario, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.ManifestID, line.ProductID, line.Quantity, line.UnitPrice, line.Subtotal,
	)
	if err != nil {
		return fmt.Errorf("insert detalle de manifiesto: %w", err)
	}
	return nil
}

// GetByID obtiene un manifiesto por ID.
func (r *ManifestRepo) GetByID(id string) (*entity.Manifest, error) {
	query := `SELECT ` + manifestColumns + ` FROM manifiestos WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate obtiene el manifiesto y bloquea la fila (SELECT FOR UPDATE).
func (r *ManifestRepo) GetForUpdate(id string) (*entity.Manifest, error) {
	query := `SELECT ` + manifestColumns + ` FROM manifiestos WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetLines devuelve las líneas del manifiesto en orden de inserción.
func (r *ManifestRepo) GetLines(manifestID string) ([]*entity.ManifestLine, error) {
	query := `
		SELECT id, manifiesto_id, producto_id, cantidad, precio_unitario, subtotal
		FROM manifiesto_detalles WHERE manifiesto_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, manifestID)
	if err != nil {
		return nil, fmt.Errorf("get detalles: %w", err)
	}
	defer rows.Close()

	var list []*entity.ManifestLine
	for rows.Next() {
		var l entity.ManifestLine
		if err := rows.Scan(&l.ID, &l.ManifestID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.Subtotal); err != nil {
			return nil, fmt.Errorf("scan detalle: %w", err)
		}
		list = append(list, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get detalles: %w", err)
	}
	return list, nil
}

// CountByDate cuenta los manifiestos creados el día calendario de t.
func (r *ManifestRepo) CountByDate(t time.Time) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(),
		`SELECT count(*) FROM manifiestos WHERE date(created_at) = date($1)`, t,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count manifiestos por fecha: %w", err)
	}
	return count, nil
}

// Update persiste estado, firmas, rutas de PDF y campos de entrega.
func (r *ManifestRepo) Update(m *entity.Manifest) error {
	query := `
		UPDATE manifiestos SET estado = $2, firma_operador = $3, firma_cliente = $4,
			pdf_path_proceso = $5, pdf_path_final = $6, delivered_by = $7,
			delivered_at = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.State, m.FirmaOperador, m.FirmaCliente,
		m.PDFPathProceso, m.PDFPathFinal, nullIfEmpty(m.DeliveredBy),
		m.DeliveredAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update manifiesto: %w", err)
	}
	return nil
}

// List lista manifiestos con filtros y paginación, más recientes primero.
func (r *ManifestRepo) List(filter repository.ManifestFilter, limit, offset int) ([]*entity.Manifest, int, error) {
	where, args := manifestWhere(filter)

	var total int
	if err := r.q.QueryRow(context.Background(), `SELECT count(*) FROM manifiestos m`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count manifiestos: %w", err)
	}

	query := `SELECT ` + manifestAliasedColumns() + ` FROM manifiestos m` + where +
		fmt.Sprintf(` ORDER BY m.created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	rows, err := r.q.Query(context.Background(), query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list manifiestos: %w", err)
	}
	defer rows.Close()

	var list []*entity.Manifest
	for rows.Next() {
		m, err := scanManifest(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list manifiestos: %w", err)
	}
	return list, total, nil
}

// ListForReport devuelve las filas del reporte de entregas con el cliente y
// el número de líneas resueltos.
func (r *ManifestRepo) ListForReport(filter repository.ManifestFilter) ([]repository.DeliveryReportRow, error) {
	where, args := manifestWhere(filter)

	query := `
		SELECT m.numero, c.nombre, m.estado, m.created_at, m.delivered_at,
			(SELECT count(*) FROM manifiesto_detalles d WHERE d.manifiesto_id = m.id)
		FROM manifiestos m
		JOIN clientes c ON c.id = m.cliente_id` + where + ` ORDER BY m.created_at`
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("reporte entregas: %w", err)
	}
	defer rows.Close()

	var list []repository.DeliveryReportRow
	for rows.Next() {
		var row repository.DeliveryReportRow
		if err := rows.Scan(&row.Numero, &row.Client, &row.State, &row.CreatedAt, &row.DeliveredAt, &row.Lines); err != nil {
			return nil, fmt.Errorf("scan fila de reporte: %w", err)
		}
		list = append(list, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reporte entregas: %w", err)
	}
	return list, nil
}

func manifestWhere(filter repository.ManifestFilter) (string, []any) {
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
	if len(filter.States) > 0 {
		add("m.estado = ANY($%d)", filter.States)
	}
	if filter.ClientID != "" {
		add("m.cliente_id = $%d", filter.ClientID)
	}
	if filter.From != nil {
		add("m.created_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("m.created_at <= $%d", *filter.To)
	}
	return where, args
}

func manifestAliasedColumns() string {
	return `m.id, m.numero, m.cliente_id, m.estado, m.codigo_qr, m.firma_operador, m.firma_cliente,
		m.pdf_path_proceso, m.pdf_path_final, m.created_by, m.delivered_by, m.created_at, m.delivered_at, m.updated_at`
}

func (r *ManifestRepo) scanOne(row pgx.Row) (*entity.Manifest, error) {
	m, err := scanManifest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

func scanManifest(row pgx.Row) (*entity.Manifest, error) {
	var m entity.Manifest
	var deliveredBy *string
	err := row.Scan(
		&m.ID, &m.Numero, &m.ClientID, &m.State, &m.CodigoQR, &m.FirmaOperador, &m.FirmaCliente,
		&m.PDFPathProceso, &m.PDFPathFinal, &m.CreatedBy, &deliveredBy,
		&m.CreatedAt, &m.DeliveredAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan manifiesto: %w", err)
	}
	if deliveredBy != nil {
		m.DeliveredBy = *deliveredBy
	}
	return &m, nil
}
